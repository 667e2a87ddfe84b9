// Package errors provides structured error handling for unifs.
//
// It extends Go's standard error handling with error codes, a caller-side
// classification (recoverable or fatal) and context metadata, while staying
// compatible with the standard library (errors.Is, errors.As, errors.Unwrap).
//
// # Error Codes
//
//   - File system taxonomy: CodeUnsupported, CodeNotFound, CodeAlreadyExists,
//     CodeNotADirectory
//   - Registry: CodeUnknownProtocol, CodeBackendUnavailable
//   - Validation: CodeInvalidInput, CodeInvalidConfig
//   - System: CodeInternal, CodeUnknown
//
// The file system proxy only ever produces the four taxonomy codes. Errors
// that match none of them are returned untouched and are therefore not
// PlatformErrors at all.
//
// # Classification
//
// Each code has a default classification used by the command layer:
//
//   - Recoverable: the message is printed and the command ends normally
//   - Fatal: the error is unexpected and gets logged with full detail
//
// Errors that are not PlatformErrors are always fatal.
//
// Creating errors:
//
//	err := errors.New(errors.CodeNotFound, "File not found: a.txt")
//	err := errors.Newf(errors.CodeInvalidConfig, "'%s' is not a configured file system", name)
//
// Wrapping errors:
//
//	if err != nil {
//	    return errors.Wrap(err, errors.CodeBackendUnavailable, "s3 is unavailable")
//	}
//
// Reporting:
//
//	if errors.IsRecoverable(err) {
//	    fmt.Println(errors.UserMessage(err))
//	}
package errors
