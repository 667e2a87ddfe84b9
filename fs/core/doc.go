// Package core defines the capability contract shared by every unifs
// storage backend.
//
// Backends (local disk, memory, S3, git, GitHub, zip archives) implement
// FileSystem directly; the command layer only ever sees them through the
// proxy package, which turns backend failures into a small closed error
// taxonomy.
//
// # Design Philosophy
//
//   - Zero dependencies: only the Go standard library
//   - Interface composition: ReadFS, WriteFS, ManageFS and GlobFS compose
//     into FileSystem
//   - Fixed surface: a backend that cannot perform an operation returns
//     ErrUnsupported instead of omitting the method
//   - Loose records: Info is a map so that backends can report metadata
//     under their own keys
//
// # Errors
//
// Backends report conditions with the sentinels of this package, usually
// wrapped in an *fs.PathError:
//
//   - ErrNotExist, ErrExist, ErrPermission (re-exported from io/fs)
//   - ErrNotDir, ErrIsDir
//   - ErrUnsupported
//
// # Helpers
//
// Walk and CopyTree implement tree traversal and recursive copies on top of
// ReadFS and WriteFS for backends without native support. ReadOnly can be
// embedded by backends that only support reads.
//
//	type ArchiveFS struct {
//	    core.ReadOnly
//	    // ...
//	}
package core
