package core

import (
	"iter"
)

// Info is a file info record describing one filesystem entry.
//
// Records are loosely typed on purpose: each backend reports what it knows
// under the keys it naturally uses. KeyName and KeyType are always present;
// KeySize is present for files when the backend knows it. Modification times
// live under backend-specific keys (see the fileinfo package for how they are
// read back).
type Info map[string]any

// Well-known Info keys and type values.
const (
	KeyName = "name"
	KeySize = "size"
	KeyType = "type"

	TypeFile      = "file"
	TypeDirectory = "directory"
)

// FileSystem is the capability surface every backend implements.
//
// It is composed of four sub-interfaces representing categories of
// operations: ReadFS, WriteFS, ManageFS and GlobFS. Backends that cannot
// perform an operation return an error wrapping ErrUnsupported rather than
// omitting the method.
type FileSystem interface {
	ReadFS
	WriteFS
	ManageFS
	GlobFS

	// Protocol returns the protocol identifier the backend was registered
	// under (e.g. "file", "s3").
	Protocol() string
}

// ReadFS defines read-only operations.
// All backends MUST support this interface.
type ReadFS interface {
	// Ls lists the directory at path, or describes path itself when it is
	// a file. With detail set, records carry everything the backend knows
	// (size, modification time, ...); otherwise only name and type.
	// Records are sorted by name.
	Ls(path string, detail bool) ([]Info, error)

	// Info describes a single path.
	Info(path string) (Info, error)

	// Exists reports whether path exists. A false result with a non-nil
	// error means existence could not be determined.
	Exists(path string) (bool, error)

	// IsFile reports whether path exists and is a regular file.
	IsFile(path string) (bool, error)

	// IsDir reports whether path exists and is a directory.
	IsDir(path string) (bool, error)

	// Size returns the size of the file at path in bytes.
	Size(path string) (int64, error)

	// Cat returns the full content of the file at path.
	Cat(path string) ([]byte, error)

	// Head returns at most the first n bytes of the file at path.
	Head(path string, n int64) ([]byte, error)

	// Tail returns at most the last n bytes of the file at path.
	Tail(path string, n int64) ([]byte, error)
}

// WriteFS defines write operations.
type WriteFS interface {
	// Pipe writes data to path, creating or replacing the file.
	Pipe(path string, data []byte) error

	// Touch creates an empty file at path if it does not exist. For an
	// existing file it updates the modification time, and only discards
	// the content when truncate is true.
	Touch(path string, truncate bool) error

	// Mkdir creates a directory. With parents set, missing parents are
	// created and an existing directory is not an error.
	Mkdir(path string, parents bool) error
}

// ManageFS defines file and directory management operations.
type ManageFS interface {
	// Copy copies src to dst. Directories require recursive.
	Copy(src, dst string, recursive bool) error

	// Move moves src to dst. Directories require recursive.
	Move(src, dst string, recursive bool) error

	// Remove removes path. Non-empty directories require recursive.
	Remove(path string, recursive bool) error
}

// GlobFS defines pattern expansion.
type GlobFS interface {
	// Glob yields the paths matching pattern, lazily and in lexical order.
	// Errors are yielded in place of a path and end the sequence.
	Glob(pattern string) iter.Seq2[string, error]
}
