package errors

import "fmt"

// New creates a new PlatformError with the given code and message.
// The classification is determined by the error code.
//
// Example:
//
//	err := errors.New(errors.CodeUnknownProtocol, "unknown protocol: ftp")
func New(code ErrorCode, message string) PlatformError {
	return &platformError{
		code:           code,
		classification: getDefaultClassification(code),
		message:        message,
	}
}

// Newf creates a new PlatformError with a formatted message.
//
// Example:
//
//	err := errors.Newf(errors.CodeInvalidConfig, "file system %s: 'protocol' is missing", name)
func Newf(code ErrorCode, format string, args ...interface{}) PlatformError {
	return New(code, fmt.Sprintf(format, args...))
}
