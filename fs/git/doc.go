// Package git provides a read-only core.FileSystem over the tree of a git
// revision, backed by go-git.
//
// The repository is opened from disk (standard or bare layout) and the
// revision is resolved once, at construction. Every entry reports the
// commit time of that revision under the "last_modified" key, as float
// seconds since the epoch.
//
// Example:
//
//	fsys, err := git.Open("/src/project", "v1.2.0")
//	if err != nil {
//	    return err
//	}
//	data, err := fsys.Cat("README.md")
package git
