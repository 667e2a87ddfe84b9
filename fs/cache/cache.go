// Package cache hands out the file system currently selected by the user's
// configuration.
//
// A Cache constructs each configured file system at most once per process
// and keys it by its logical name, so switching the selection back and
// forth reuses the same connected instance. It is not safe for concurrent
// use.
package cache

import (
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/fs/proxy"
	"github.com/candidtim/unifs/fs/registry"
	"github.com/candidtim/unifs/internal/logging"
)

// Selection identifies the configured file system to use.
type Selection struct {
	// Name is the logical name from configuration.
	Name string
	// Protocol selects the backend.
	Protocol string
	// Params are passed to the backend constructor.
	Params registry.Params
}

// Source supplies the active selection, typically from the configuration
// file.
type Source interface {
	Selection() (Selection, error)
}

// Cache memoizes proxied file system handles by logical name.
type Cache struct {
	source   Source
	registry *registry.Registry
	logger   *logging.Logger

	current *proxy.FS
	handles map[string]*proxy.FS
}

// New creates a cache reading selections from source and constructing
// backends through reg. A nil reg uses registry.Default.
func New(source Source, reg *registry.Registry) *Cache {
	if reg == nil {
		reg = registry.Default
	}
	return &Cache{
		source:   source,
		registry: reg,
		logger:   logging.Default(),
		handles:  make(map[string]*proxy.FS),
	}
}

// WithLogger sets the logger and returns the cache.
func (c *Cache) WithLogger(logger *logging.Logger) *Cache {
	c.logger = logger
	return c
}

// Current returns the handle of the selected file system, constructing it
// on first use. Two calls without an Invalidate in between return the same
// handle; so do calls for the same logical name across invalidations.
// Construction errors are returned unchanged and nothing is remembered.
func (c *Cache) Current() (core.FileSystem, error) {
	if c.current != nil {
		return c.current, nil
	}

	sel, err := c.source.Selection()
	if err != nil {
		return nil, err
	}

	if handle, ok := c.handles[sel.Name]; ok {
		c.logger.Debug("reusing file system", "name", sel.Name)
		c.current = handle
		return handle, nil
	}

	c.logger.Debug("creating file system", "name", sel.Name, "protocol", sel.Protocol)
	fsys, err := c.registry.New(sel.Protocol, sel.Params)
	if err != nil {
		return nil, err
	}

	handle := proxy.Wrap(fsys)
	c.handles[sel.Name] = handle
	c.current = handle
	return handle, nil
}

// Invalidate forgets which file system is current, so that the next Current
// call reads the selection again. Constructed handles are kept.
func (c *Cache) Invalidate() {
	c.current = nil
}
