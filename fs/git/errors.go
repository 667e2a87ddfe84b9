package git

import (
	"errors"
	"fmt"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"

	platformerrors "github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
)

// wrapError wraps an error with context, classifying it as a platform error type.
// It preserves the original error chain for errors.Is/errors.As compatibility.
// If err is nil, returns nil.
func wrapError(err error, context string) error {
	if err == nil {
		return nil
	}

	// First classify the go-git error to a platform error type
	classified := classifyError(err)

	// Then wrap with context
	return fmt.Errorf("%s: %w", context, classified)
}

// classifyError maps go-git errors met while opening a repository to
// platform error types. Unknown errors are passed through unchanged to
// preserve their original information.
func classifyError(err error) error {
	if err == nil {
		return nil
	}

	// Repository not found errors → ErrInvalidConfig, the path is a parameter
	if errors.Is(err, gogit.ErrRepositoryNotExists) {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "repository does not exist")
	}

	// Reference not found errors → ErrInvalidConfig, the ref is a parameter
	if errors.Is(err, plumbing.ErrReferenceNotFound) {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "reference not found")
	}
	if errors.Is(err, plumbing.ErrObjectNotFound) {
		return platformerrors.Wrap(err, platformerrors.CodeInvalidConfig, "object not found")
	}

	return err
}

// translate maps tree lookup errors onto the core sentinels, reported
// against the caller's spelling of the path.
func translate(op, p string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, object.ErrEntryNotFound),
		errors.Is(err, object.ErrDirectoryNotFound),
		errors.Is(err, object.ErrFileNotFound),
		errors.Is(err, plumbing.ErrObjectNotFound):
		return core.PathError(op, p, core.ErrNotExist)
	default:
		return err
	}
}
