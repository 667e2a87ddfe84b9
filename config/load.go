package config

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"

	"github.com/candidtim/unifs/errors"
)

const (
	// EnvPath overrides the location of the configuration file.
	EnvPath = "UNIFS_CONFIG_PATH"

	// keyDelimiter separates nested viper keys. Logical names may contain
	// dots, so the default "." cannot be used.
	keyDelimiter = "::"

	section = "unifs"
)

// validate is the singleton validator instance
var validate = validator.New()

// DefaultPath returns $UNIFS_CONFIG_PATH when set, otherwise
// unifs/config.toml under the user configuration directory.
func DefaultPath() (string, error) {
	if p := os.Getenv(EnvPath); p != "" {
		return p, nil
	}
	dir, err := os.UserConfigDir()
	if err != nil {
		return "", errors.Wrap(err, errors.CodeInvalidConfig, "cannot locate the user configuration directory")
	}
	return filepath.Join(dir, "unifs", "config.toml"), nil
}

// invalid reports a problem with the content of the configuration file.
func invalid(format string, args ...any) error {
	return errors.New(errors.CodeInvalidConfig, "Invalid config file: "+fmt.Sprintf(format, args...))
}

// Load reads and validates the configuration file at path.
func Load(path string) (*Config, error) {
	v := viper.NewWithOptions(viper.KeyDelimiter(keyDelimiter))
	v.SetConfigFile(path)
	v.SetConfigType("toml")

	if err := v.ReadInConfig(); err != nil {
		var parseErr viper.ConfigParseError
		if stderrors.As(err, &parseErr) {
			return nil, errors.Wrap(err, errors.CodeInvalidConfig, "Invalid config file: "+parseErr.Error())
		}
		return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "cannot read config file %s: %v", path, err)
	}

	// viper folds keys to lower case, and logical names are case-sensitive,
	// so the tables are decoded from the file itself.
	data, err := os.ReadFile(v.ConfigFileUsed())
	if err != nil {
		return nil, errors.Wrapf(err, errors.CodeInvalidConfig, "cannot read config file %s: %v", path, err)
	}
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, errors.Wrap(err, errors.CodeInvalidConfig, "Invalid config file: "+err.Error())
	}
	tables, ok := raw[section]
	if !ok {
		return nil, invalid("missing the [%s] section", section)
	}

	var cfg Config
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		ErrorUnused: true,
		Result:      &cfg,
	})
	if err != nil {
		return nil, errors.Wrap(err, errors.CodeInternal, "failed to create config decoder")
	}
	if err := decoder.Decode(tables); err != nil {
		return nil, invalid("%v", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks cfg with struct tags and the rules that cannot be
// expressed in tags.
func Validate(cfg *Config) error {
	if err := validate.Struct(cfg); err != nil {
		return formatValidationError(err)
	}

	if _, ok := cfg.FS[cfg.Current]; !ok {
		return invalid("%s is not a configured file system", cfg.Current)
	}

	for _, name := range cfg.FileSystems() {
		table := cfg.FS[name]
		protocol, ok := table[ProtocolKey]
		if !ok {
			return invalid("file system %s: '%s' is missing", name, ProtocolKey)
		}
		if _, ok := protocol.(string); !ok {
			return invalid("file system %s: '%s' must be a string", name, ProtocolKey)
		}
		for key, value := range table {
			if !isPrimitive(value) {
				return invalid("file system %s: '%s' must be a string, a number or a boolean", name, key)
			}
		}
	}
	return nil
}

// isPrimitive reports whether value is a TOML string, number or boolean.
func isPrimitive(value any) bool {
	switch value.(type) {
	case string, bool, int, int8, int16, int32, int64, uint, uint8, uint16, uint32, uint64, float32, float64:
		return true
	}
	return false
}

// formatValidationError converts validator errors into user-friendly messages.
func formatValidationError(err error) error {
	var validationErrs validator.ValidationErrors
	if !stderrors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return invalid("%v", err)
	}

	// Return the first validation error with context
	e := validationErrs[0]
	name := strings.ToLower(e.Field())
	switch e.Tag() {
	case "required":
		return invalid("'%s' is required", name)
	case "min":
		return invalid("'%s' must configure at least one file system", name)
	}
	return invalid("'%s' failed validation '%s'", name, e.Tag())
}

// Save writes cfg to path as TOML, creating the parent directory.
func Save(cfg *Config, path string) error {
	data, err := toml.Marshal(struct {
		Unifs *Config `toml:"unifs"`
	}{Unifs: cfg})
	if err != nil {
		return errors.Wrap(err, errors.CodeInternal, "failed to encode configuration")
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidConfig, "cannot create %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errors.Wrapf(err, errors.CodeInvalidConfig, "cannot write config file %s: %v", path, err)
	}
	return nil
}
