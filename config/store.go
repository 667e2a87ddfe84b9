package config

import (
	"os"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/cache"
	"github.com/candidtim/unifs/internal/logging"
)

// Store gives access to the configuration file at a fixed path. It
// implements cache.Source.
type Store struct {
	path   string
	logger *logging.Logger
}

// NewStore creates a store for the file at path, or at DefaultPath when
// path is empty.
func NewStore(path string) (*Store, error) {
	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return nil, err
		}
	}
	return &Store{path: path, logger: logging.Default()}, nil
}

// Path returns the location of the configuration file.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates the configuration file.
func (s *Store) Load() (*Config, error) {
	s.logger.Debug("loading configuration", "path", s.path)
	return Load(s.path)
}

// Save validates cfg and writes it to the configuration file.
func (s *Store) Save(cfg *Config) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	s.logger.Debug("saving configuration", "path", s.path, "current", cfg.Current)
	return Save(cfg, s.path)
}

// Ensure writes the default configuration when no file exists yet.
func (s *Store) Ensure() error {
	_, err := os.Stat(s.path)
	switch {
	case err == nil:
		return nil
	case !os.IsNotExist(err):
		return errors.Wrapf(err, errors.CodeInvalidConfig, "cannot access config file %s: %v", s.path, err)
	}
	s.logger.Info("writing default configuration", "path", s.path)
	return Save(Default(), s.path)
}

// Selection loads the configuration and returns the current file system.
func (s *Store) Selection() (cache.Selection, error) {
	cfg, err := s.Load()
	if err != nil {
		return cache.Selection{}, err
	}
	name := cfg.CurrentName()
	return cache.Selection{
		Name:     name,
		Protocol: cfg.Protocol(name),
		Params:   cfg.Params(name),
	}, nil
}

// Compile-time interface check.
var _ cache.Source = (*Store)(nil)
