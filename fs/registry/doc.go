// Package registry maps protocol names to backend constructors.
//
// Backends register themselves from an init function:
//
//	func init() {
//	    registry.Register(registry.Descriptor{
//	        Protocol:    "zip",
//	        Description: "Read-only view of a zip archive",
//	        Params: []registry.Param{
//	            {Name: "path", Required: true, Description: "archive location"},
//	        },
//	    }, New)
//	}
//
// The table freezes on the first lookup. From then on it is read-only, so
// lookups never observe a partially registered backend.
package registry
