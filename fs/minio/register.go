package minio

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
)

func init() {
	registry.Register(registry.Descriptor{
		Protocol:    ProtocolS3,
		Aliases:     []string{"minio"},
		Description: "Amazon S3 and S3-compatible object storage (MinIO, Ceph, R2)",
		Params: []registry.Param{
			{Name: "endpoint", Required: true, Description: "server address, e.g. s3.amazonaws.com or localhost:9000"},
			{Name: "bucket", Required: true, Description: "bucket holding the file system"},
			{Name: "access_key", Description: "access key ID, anonymous access when empty"},
			{Name: "secret_key", Description: "secret access key"},
			{Name: "region", Description: "bucket region"},
			{Name: "use_ssl", Default: true, Description: "connect over HTTPS"},
			{Name: "prefix", Description: "key prefix every path is resolved under"},
		},
	}, newS3)
}

func newS3(params registry.Params) (core.FileSystem, error) {
	cfg := DefaultConfig()
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return NewMinIO(cfg)
}
