package errors

// ErrorClassification tells the command layer how to treat a failure.
//
// The file system core never consults it: it only assigns codes. Whether a
// code is worth reporting and moving on, or is an unexpected fault, is a
// policy of the caller.
type ErrorClassification string

const (
	// ClassificationRecoverable marks expected failures: the message is shown
	// to the user and the command ends normally.
	// Examples: missing files, unsupported operations, bad configuration.
	ClassificationRecoverable ErrorClassification = "RECOVERABLE"

	// ClassificationFatal marks unexpected faults that deserve a log entry.
	ClassificationFatal ErrorClassification = "FATAL"
)

// IsRecoverable returns true if the classification allows the command layer
// to report the error and continue.
func (c ErrorClassification) IsRecoverable() bool {
	return c == ClassificationRecoverable
}

// defaultClassifications maps error codes to their default classification.
var defaultClassifications = map[ErrorCode]ErrorClassification{
	CodeUnsupported:        ClassificationRecoverable,
	CodeNotFound:           ClassificationRecoverable,
	CodeAlreadyExists:      ClassificationRecoverable,
	CodeNotADirectory:      ClassificationRecoverable,
	CodeUnknownProtocol:    ClassificationRecoverable,
	CodeBackendUnavailable: ClassificationRecoverable,
	CodeInvalidInput:       ClassificationRecoverable,
	CodeInvalidConfig:      ClassificationRecoverable,

	CodeInternal: ClassificationFatal,
	CodeUnknown:  ClassificationFatal,
}

// getDefaultClassification returns the default classification for an error code.
// Returns ClassificationFatal if the code is not in the map.
func getDefaultClassification(code ErrorCode) ErrorClassification {
	if class, ok := defaultClassifications[code]; ok {
		return class
	}
	return ClassificationFatal
}
