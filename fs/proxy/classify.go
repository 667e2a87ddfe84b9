package proxy

import (
	stderrors "errors"
	"fmt"
	"io/fs"
	"syscall"
	"unicode"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
)

// taxonomy lists the codes produced by Classify. Errors already carrying
// one of them pass through untouched.
var taxonomy = map[errors.ErrorCode]bool{
	errors.CodeUnsupported:   true,
	errors.CodeNotFound:      true,
	errors.CodeAlreadyExists: true,
	errors.CodeNotADirectory: true,
}

// sentinels are the bare conditions a backend may wrap in an *fs.PathError.
var sentinels = []error{
	core.ErrUnsupported,
	stderrors.ErrUnsupported,
	fs.ErrNotExist,
	fs.ErrExist,
	fs.ErrPermission,
	core.ErrNotDir,
	core.ErrIsDir,
	syscall.ENOTDIR,
	syscall.ENOENT,
	syscall.EEXIST,
}

// Classify maps a backend error raised by op to the file system taxonomy.
//
// Unsupported operations, missing files, existing files and non-directories
// become PlatformErrors with a user-facing message. Any other error is
// returned as the identical value. A nil error stays nil.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}

	var platformErr errors.PlatformError
	if stderrors.As(err, &platformErr) && taxonomy[platformErr.Code()] {
		return err
	}

	switch {
	case stderrors.Is(err, core.ErrUnsupported), stderrors.Is(err, stderrors.ErrUnsupported):
		return errors.Wrapf(err, errors.CodeUnsupported, "%s is not implemented in this file system", op)
	case stderrors.Is(err, fs.ErrNotExist):
		return errors.Wrap(err, errors.CodeNotFound, describe("File not found", rawMessage(err)))
	case stderrors.Is(err, fs.ErrExist):
		return errors.Wrap(err, errors.CodeAlreadyExists, describe("File exists", rawMessage(err)))
	case stderrors.Is(err, core.ErrNotDir), stderrors.Is(err, syscall.ENOTDIR):
		return errors.Wrap(err, errors.CodeNotADirectory, describe("Not a directory", rawMessage(err)))
	default:
		return err
	}
}

// rawMessage returns what the backend said about the failure. A path error
// around a bare sentinel says nothing beyond its path, so a bare path is the
// message. Paths that do not look bare keep the full error text.
func rawMessage(err error) string {
	var pathErr *fs.PathError
	if stderrors.As(err, &pathErr) && isSentinel(pathErr.Err) && isBarePath(pathErr.Path) {
		return pathErr.Path
	}
	return err.Error()
}

func isSentinel(err error) bool {
	for _, s := range sentinels {
		if err == s {
			return true
		}
	}
	return false
}

// describe prefixes msg with label when msg looks like a bare path.
// Anything else is assumed to be descriptive already.
func describe(label, msg string) string {
	if isBarePath(msg) {
		return fmt.Sprintf("%s: %s", label, msg)
	}
	return msg
}

// isBarePath reports whether s is a non-empty run of path characters:
// letters, digits and / \ . _ - ~ :
func isBarePath(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			continue
		}
		switch r {
		case '/', '\\', '.', '_', '-', '~', ':':
			continue
		}
		return false
	}
	return true
}
