package config

import (
	"maps"
	"slices"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/registry"
)

// ProtocolKey is the key of a file system table selecting its backend.
const ProtocolKey = "protocol"

// Config is the content of the [unifs] section.
type Config struct {
	// Current is the logical name of the file system in use
	Current string `mapstructure:"current" toml:"current" validate:"required"`

	// FS holds the parameters of every configured file system by name
	FS map[string]map[string]any `mapstructure:"fs" toml:"fs" validate:"required,min=1"`
}

// Default returns the configuration written on first use: the local disk.
func Default() *Config {
	return &Config{
		Current: "local",
		FS: map[string]map[string]any{
			"local": {
				ProtocolKey:  "file",
				"auto_mkdir": false,
			},
		},
	}
}

// CurrentName returns the logical name of the current file system.
func (c *Config) CurrentName() string {
	return c.Current
}

// CurrentParams returns a copy of the table of the current file system,
// protocol included.
func (c *Config) CurrentParams() map[string]any {
	return maps.Clone(c.FS[c.Current])
}

// FileSystems returns the configured logical names, sorted.
func (c *Config) FileSystems() []string {
	return slices.Sorted(maps.Keys(c.FS))
}

// WithCurrent returns a copy of the configuration using name as the
// current file system.
func (c *Config) WithCurrent(name string) (*Config, error) {
	if _, ok := c.FS[name]; !ok {
		err := errors.Newf(errors.CodeInvalidInput, "'%s' is not a configured file system", name)
		return nil, errors.WithContext(err, "name", name)
	}
	next := *c
	next.Current = name
	return &next, nil
}

// Protocol returns the protocol configured for name.
func (c *Config) Protocol(name string) string {
	protocol, _ := c.FS[name][ProtocolKey].(string)
	return protocol
}

// Params returns the backend parameters of name: its table without the
// protocol key.
func (c *Config) Params(name string) registry.Params {
	params := registry.Params{}
	for k, v := range c.FS[name] {
		if k != ProtocolKey {
			params[k] = v
		}
	}
	return params
}
