package errors

import "errors"

// WithContext adds a single context field to an error.
// Returns a new PlatformError with the context field added.
// Existing context fields are preserved.
//
// If err is not a PlatformError, it is converted to one with CodeUnknown.
// Returns nil if err is nil.
//
// Example:
//
//	err := errors.New(errors.CodeNotFound, "File not found: a.txt")
//	err = errors.WithContext(err, "op", "info")
func WithContext(err error, key string, value interface{}) PlatformError {
	if err == nil {
		return nil
	}

	var platformErr PlatformError
	if !errors.As(err, &platformErr) {
		platformErr = &platformError{
			code:           CodeUnknown,
			classification: ClassificationFatal,
			message:        err.Error(),
			cause:          err,
		}
	}

	newContext := make(map[string]interface{})
	for k, v := range platformErr.Context() {
		newContext[k] = v
	}
	newContext[key] = value

	return &platformError{
		code:           platformErr.Code(),
		classification: platformErr.Classification(),
		message:        platformErr.Message(),
		context:        newContext,
		cause:          platformErr.Unwrap(),
	}
}
