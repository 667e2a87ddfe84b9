// Package billy provides go-billy-backed backends of core.FileSystem.
//
// It wraps go-billy's osfs (protocol "file", alias "local") and memfs
// (protocol "memory") implementations. Both register themselves with the
// registry when the package is imported:
//
//	import _ "github.com/candidtim/unifs/fs/billy"
//
//	fsys, err := registry.New("file", registry.Params{"auto_mkdir": true})
//
// # Memory Filesystem
//
// For testing or temporary storage, use the in-memory filesystem directly:
//
//	fsys := billy.NewMemory()
//	err := fsys.Pipe("/temp.txt", []byte("data"))
//
// # Metadata
//
// Detailed records carry "size" (files only), "mtime" as a time.Time and
// "mode" as a permission string.
package billy
