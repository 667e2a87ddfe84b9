package git

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/registry"
)

// Config holds the parameters of the git protocol.
type Config struct {
	// Path is the repository directory, standard or bare
	Path string `mapstructure:"path" validate:"required"`

	// Ref is the revision exposed (default: HEAD)
	Ref string `mapstructure:"ref"`
}

func init() {
	registry.Register(registry.Descriptor{
		Protocol:    ProtocolGit,
		Description: "Read-only view of a git revision in a local repository",
		Params: []registry.Param{
			{Name: "path", Required: true, Description: "repository directory"},
			{Name: "ref", Default: DefaultRef, Description: "branch, tag, commit hash or revision expression"},
		},
	}, newGit)
}

func newGit(params registry.Params) (core.FileSystem, error) {
	cfg := Config{Ref: DefaultRef}
	if err := registry.Decode(params, &cfg); err != nil {
		return nil, err
	}
	return Open(cfg.Path, cfg.Ref)
}
