// Package errs provides error handling utilities for the minio filesystem.
package errs

import (
	"fmt"
	"io/fs"

	"github.com/minio/minio-go/v7"
)

// Translate converts MinIO errors to stdlib fs errors.
func Translate(err error) error {
	if err == nil {
		return nil
	}

	// Check MinIO error responses
	errResp := minio.ToErrorResponse(err)

	switch errResp.Code {
	case "NoSuchKey":
		return fs.ErrNotExist
	case "NoSuchBucket":
		return fs.ErrNotExist
	case "AccessDenied":
		return fs.ErrPermission
	}

	// Return wrapped error with context for other errors
	return fmt.Errorf("minio: %w", err)
}

// IsNotFound reports whether err is a missing key or bucket.
func IsNotFound(err error) bool {
	switch minio.ToErrorResponse(err).Code {
	case "NoSuchKey", "NoSuchBucket":
		return true
	}
	return false
}
