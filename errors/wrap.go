package errors

import (
	"errors"
	"fmt"
)

// Wrap wraps an error with a code and message while preserving the original
// error. The wrapped error is accessible via Unwrap() and compatible with
// errors.Is and errors.As.
//
// If err already carries a PlatformError, its classification is preserved.
// Returns nil if err is nil.
//
// Example:
//
//	fsys, err := ctor(params)
//	if err != nil {
//	    return nil, errors.Wrap(err, errors.CodeBackendUnavailable, "s3 is unavailable")
//	}
func Wrap(err error, code ErrorCode, message string) PlatformError {
	if err == nil {
		return nil
	}

	classification := getDefaultClassification(code)
	var platformErr PlatformError
	if errors.As(err, &platformErr) {
		classification = platformErr.Classification()
	}

	return &platformError{
		code:           code,
		classification: classification,
		message:        message,
		cause:          err,
	}
}

// Wrapf wraps an error with a formatted message while preserving the original error.
//
// Returns nil if err is nil.
func Wrapf(err error, code ErrorCode, format string, args ...interface{}) PlatformError {
	if err == nil {
		return nil
	}

	return Wrap(err, code, fmt.Sprintf(format, args...))
}
