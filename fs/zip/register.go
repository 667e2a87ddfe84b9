package zip

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
)

// Config holds the parameters of the zip protocol.
type Config struct {
	// Path is the archive on the local disk
	Path string `mapstructure:"path" validate:"required"`
}

func init() {
	registry.Register(registry.Descriptor{
		Protocol:    ProtocolZip,
		Description: "Read-only view of a zip archive",
		Params: []registry.Param{
			{Name: "path", Required: true, Description: "archive file on the local disk"},
		},
	}, newZip)
}

func newZip(params registry.Params) (core.FileSystem, error) {
	var cfg Config
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return Open(cfg.Path)
}
