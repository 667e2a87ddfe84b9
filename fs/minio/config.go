// Package minio provides a MinIO/S3-compatible backend of core.FileSystem.
package minio

import (
	"github.com/minio/minio-go/v7"
)

// Config holds MinIO filesystem configuration.
type Config struct {
	// Endpoint is the MinIO server address (e.g., "localhost:9000")
	Endpoint string `mapstructure:"endpoint" validate:"required_without=Client"`

	// Bucket is the S3 bucket name
	Bucket string `mapstructure:"bucket" validate:"required"`

	// AccessKey is the access key ID for authentication. Anonymous access
	// is used when both keys are empty.
	AccessKey string `mapstructure:"access_key" validate:"required_with=SecretKey"`

	// SecretKey is the secret access key for authentication
	SecretKey string `mapstructure:"secret_key" validate:"required_with=AccessKey"`

	// Region is the bucket region, discovered by the client when empty
	Region string `mapstructure:"region"`

	// UseSSL enables HTTPS connections (default: true)
	UseSSL bool `mapstructure:"use_ssl"`

	// Prefix is an optional prefix for all object keys (for namespacing)
	Prefix string `mapstructure:"prefix"`

	// Client is an optional pre-configured MinIO client
	// If provided, Endpoint/AccessKey/SecretKey are ignored
	Client *minio.Client `mapstructure:"-" validate:"-"`

	// MaxCopyConcurrency limits concurrent copies during directory copies
	// and renames. Default: 10
	MaxCopyConcurrency int `mapstructure:"-"`
}

// DefaultConfig returns the configuration defaults applied before decoding
// user parameters.
func DefaultConfig() Config {
	return Config{
		UseSSL:             true,
		MaxCopyConcurrency: 10,
	}
}
