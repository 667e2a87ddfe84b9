package errors

import (
	stderrors "errors"
)

// Is reports whether any error in err's chain matches target.
// This is a convenience wrapper around the standard library errors.Is.
func Is(err, target error) bool {
	return stderrors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
// This is a convenience wrapper around the standard library errors.As.
func As(err error, target interface{}) bool {
	return stderrors.As(err, target)
}

// GetCode extracts the ErrorCode from the outermost PlatformError in err's
// chain. Returns CodeUnknown if the error is nil or not a PlatformError.
//
// Example:
//
//	if errors.GetCode(err) == errors.CodeNotFound {
//	    // Handle not found
//	}
func GetCode(err error) ErrorCode {
	if err == nil {
		return CodeUnknown
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Code()
	}

	return CodeUnknown
}

// HasCode reports whether err carries a PlatformError with the given code.
func HasCode(err error, code ErrorCode) bool {
	return err != nil && GetCode(err) == code
}

// GetClassification extracts the ErrorClassification from an error.
// Errors that are not PlatformErrors are fatal: nothing is known about them.
func GetClassification(err error) ErrorClassification {
	if err == nil {
		return ClassificationFatal
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Classification()
	}

	return ClassificationFatal
}

// IsRecoverable returns true if the error is classified as recoverable.
//
// Example:
//
//	if errors.IsRecoverable(err) {
//	    fmt.Fprintln(os.Stderr, errors.UserMessage(err))
//	    return
//	}
func IsRecoverable(err error) bool {
	return GetClassification(err).IsRecoverable()
}

// UserMessage returns the message of the outermost PlatformError in err's
// chain, or err.Error() for any other error.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}

	var platformErr PlatformError
	if stderrors.As(err, &platformErr) {
		return platformErr.Message()
	}

	return err.Error()
}
