package core

import (
	"errors"
	"fmt"
	"io/fs"
)

var (
	// ErrNotExist is returned when a file or directory does not exist.
	// Re-exported from io/fs for convenience.
	ErrNotExist = fs.ErrNotExist

	// ErrExist is returned when a file or directory already exists.
	// Re-exported from io/fs for convenience.
	ErrExist = fs.ErrExist

	// ErrPermission is returned when permission is denied.
	// Re-exported from io/fs for convenience.
	ErrPermission = fs.ErrPermission

	// ErrNotDir is returned when a directory was required but the target
	// is not one.
	ErrNotDir = errors.New("not a directory")

	// ErrIsDir is returned when a file was required but the target is a
	// directory.
	ErrIsDir = errors.New("is a directory")

	// ErrUnsupported is returned when an operation is not supported by the
	// backend. For example, writes on read-only archive or repository views.
	ErrUnsupported = errors.New("operation not supported")
)

// PathError wraps err in an fs.PathError for the given operation and path.
// If err is nil, returns nil.
func PathError(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return &fs.PathError{Op: op, Path: path, Err: err}
}

// PathErrorf creates an fs.PathError with a formatted error.
func PathErrorf(op, path, format string, args ...interface{}) error {
	return &fs.PathError{Op: op, Path: path, Err: fmt.Errorf(format, args...)}
}
