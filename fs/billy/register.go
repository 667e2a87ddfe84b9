package billy

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
)

// LocalConfig holds the parameters of the file protocol.
type LocalConfig struct {
	// Root is the directory the filesystem is rooted at (default: "/")
	Root string `mapstructure:"root"`

	// AutoMkdir creates missing parent directories on writes
	AutoMkdir bool `mapstructure:"auto_mkdir"`
}

func init() {
	registry.Register(registry.Descriptor{
		Protocol:    ProtocolFile,
		Aliases:     []string{"local"},
		Description: "Local file system",
		Params: []registry.Param{
			{Name: "root", Default: "/", Description: "directory the file system is rooted at"},
			{Name: "auto_mkdir", Default: false, Description: "create missing parent directories on writes"},
		},
	}, newLocal)

	registry.Register(registry.Descriptor{
		Protocol:    ProtocolMemory,
		Description: "In-memory file system, discarded when the process exits",
		Ignored:     true,
	}, newMemory)
}

func newLocal(params registry.Params) (core.FileSystem, error) {
	cfg := LocalConfig{Root: "/"}
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return NewLocal(cfg.Root, WithAutoMkdir(cfg.AutoMkdir))
}

func newMemory(params registry.Params) (core.FileSystem, error) {
	var cfg struct{}
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return NewMemory(), nil
}
