package errors

// ErrorCode represents a specific error condition.
// Error codes are string-based for debuggability and natural JSON serialization.
type ErrorCode string

const (
	// File system taxonomy. These are the only codes the file system proxy
	// produces; any other backend fault is returned unclassified.

	// CodeUnsupported indicates the backend has no implementation of the
	// requested operation.
	CodeUnsupported ErrorCode = "UNSUPPORTED"

	// CodeNotFound indicates the target path does not exist.
	CodeNotFound ErrorCode = "NOT_FOUND"

	// CodeAlreadyExists indicates the target path exists and the operation
	// requires its absence.
	CodeAlreadyExists ErrorCode = "ALREADY_EXISTS"

	// CodeNotADirectory indicates a directory was required but the target is
	// not one.
	CodeNotADirectory ErrorCode = "NOT_A_DIRECTORY"

	// Backend registry errors.

	// CodeUnknownProtocol indicates no backend is registered for a protocol.
	CodeUnknownProtocol ErrorCode = "UNKNOWN_PROTOCOL"

	// CodeBackendUnavailable indicates a backend is registered but could not
	// be constructed.
	CodeBackendUnavailable ErrorCode = "BACKEND_UNAVAILABLE"

	// Validation errors.

	// CodeInvalidInput indicates the provided input is invalid or malformed.
	CodeInvalidInput ErrorCode = "INVALID_INPUT"

	// CodeInvalidConfig indicates the configuration file or backend
	// parameters are invalid.
	CodeInvalidConfig ErrorCode = "INVALID_CONFIGURATION"

	// System errors.

	// CodeInternal indicates an internal error occurred.
	CodeInternal ErrorCode = "INTERNAL_ERROR"

	// CodeUnknown indicates an unknown or unclassified error occurred.
	CodeUnknown ErrorCode = "UNKNOWN"
)
