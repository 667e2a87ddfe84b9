package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/candidtim/unifs/errors"
	"github.com/candidtim/unifs/fs/core"
	"github.com/candidtim/unifs/internal/logging"
)

// Params are the primitive, backend-specific parameters of one configured
// file system.
type Params map[string]any

// Constructor builds a backend from its parameters.
type Constructor func(params Params) (core.FileSystem, error)

// Param describes one constructor parameter.
type Param struct {
	Name        string `yaml:"name" toml:"name"`
	Default     any    `yaml:"default,omitempty" toml:"default,omitempty"`
	Required    bool   `yaml:"required" toml:"required"`
	Description string `yaml:"description,omitempty" toml:"description,omitempty"`
}

// Descriptor describes a registered backend.
type Descriptor struct {
	// Protocol is the unique name used in configuration.
	Protocol string `yaml:"protocol" toml:"protocol"`
	// Aliases resolve to the same backend but are not listed.
	Aliases []string `yaml:"aliases,omitempty" toml:"aliases,omitempty"`
	// Description is a one-line summary.
	Description string `yaml:"description" toml:"description"`
	// Params is the constructor signature, in display order.
	Params []Param `yaml:"params" toml:"params"`
	// Requirements notes anything the backend needs outside of unifs.
	Requirements string `yaml:"requirements,omitempty" toml:"requirements,omitempty"`
	// Ignored hides internal backends from listings. They still resolve.
	Ignored bool `yaml:"-" toml:"-"`
}

// Sample returns a configuration snippet for the backend: the protocol plus
// every parameter with its default, or an empty value when it has none.
func (d Descriptor) Sample() map[string]any {
	sample := map[string]any{"protocol": d.Protocol}
	for _, p := range d.Params {
		if p.Default != nil {
			sample[p.Name] = p.Default
		} else {
			sample[p.Name] = ""
		}
	}
	return sample
}

type entry struct {
	descriptor  Descriptor
	constructor Constructor
}

// Registry holds the known backends.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	aliases map[string]string
	frozen  bool
	logger  *logging.Logger
}

// Default is the process-wide registry backends register into.
var Default = NewRegistry()

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		entries: make(map[string]*entry),
		aliases: make(map[string]string),
	}
}

// SetLogger sets the logger used for construction events. A nil logger
// falls back to logging.Default.
func (r *Registry) SetLogger(logger *logging.Logger) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.logger = logger
}

func (r *Registry) log() *logging.Logger {
	if r.logger != nil {
		return r.logger
	}
	return logging.Default()
}

// Register adds a backend. It panics on an empty protocol, a nil
// constructor, a name clash or when the registry is frozen: all of these
// are programming errors in a backend's init function.
func (r *Registry) Register(d Descriptor, c Constructor) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.frozen {
		panic(fmt.Sprintf("registry: register %q after first use", d.Protocol))
	}
	if d.Protocol == "" {
		panic("registry: empty protocol")
	}
	if c == nil {
		panic(fmt.Sprintf("registry: nil constructor for %q", d.Protocol))
	}

	names := append([]string{d.Protocol}, d.Aliases...)
	for _, name := range names {
		if _, ok := r.entries[name]; ok {
			panic(fmt.Sprintf("registry: duplicate protocol %q", name))
		}
		if _, ok := r.aliases[name]; ok {
			panic(fmt.Sprintf("registry: duplicate protocol %q", name))
		}
	}

	r.entries[d.Protocol] = &entry{descriptor: d, constructor: c}
	for _, alias := range d.Aliases {
		r.aliases[alias] = d.Protocol
	}
}

// Register adds a backend to the Default registry.
func Register(d Descriptor, c Constructor) {
	Default.Register(d, c)
}

// Freeze makes the registry read-only. Lookups freeze it implicitly.
func (r *Registry) Freeze() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true
}

// lookup freezes the registry and returns the entry for a protocol or alias.
func (r *Registry) lookup(protocol string) (*entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true

	if canonical, ok := r.aliases[protocol]; ok {
		protocol = canonical
	}
	e, ok := r.entries[protocol]
	if !ok {
		return nil, errors.Newf(errors.CodeUnknownProtocol, "Unknown protocol: %s", protocol)
	}
	return e, nil
}

// Resolve returns the constructor registered for protocol or one of its
// aliases.
func (r *Registry) Resolve(protocol string) (Constructor, error) {
	e, err := r.lookup(protocol)
	if err != nil {
		return nil, err
	}
	return e.constructor, nil
}

// Describe returns the descriptor registered for protocol or one of its
// aliases.
func (r *Registry) Describe(protocol string) (Descriptor, error) {
	e, err := r.lookup(protocol)
	if err != nil {
		return Descriptor{}, err
	}
	return e.descriptor, nil
}

// ListKnown returns the descriptors of all public backends, sorted by
// protocol. Each backend appears once regardless of its aliases.
func (r *Registry) ListKnown() []Descriptor {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.frozen = true

	result := make([]Descriptor, 0, len(r.entries))
	for _, e := range r.entries {
		if e.descriptor.Ignored {
			continue
		}
		result = append(result, e.descriptor)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].Protocol < result[j].Protocol
	})
	return result
}

// New constructs a backend. Constructor failures that are not already
// coded are reported as errors.CodeBackendUnavailable.
func (r *Registry) New(protocol string, params Params) (core.FileSystem, error) {
	ctor, err := r.Resolve(protocol)
	if err != nil {
		return nil, err
	}

	if params == nil {
		params = Params{}
	}

	log := r.log().WithProtocol(protocol)
	log.Debug("constructing file system")

	fsys, err := ctor(params)
	if err != nil {
		log.Debug("file system construction failed", "error", err)
		var platformErr errors.PlatformError
		if errors.As(err, &platformErr) {
			return nil, err
		}
		return nil, errors.Wrapf(err, errors.CodeBackendUnavailable,
			"file system %q is unavailable: %v", protocol, err)
	}
	return fsys, nil
}

// Resolve looks protocol up in the Default registry.
func Resolve(protocol string) (Constructor, error) {
	return Default.Resolve(protocol)
}

// Describe looks protocol up in the Default registry.
func Describe(protocol string) (Descriptor, error) {
	return Default.Describe(protocol)
}

// ListKnown lists the public backends of the Default registry.
func ListKnown() []Descriptor {
	return Default.ListKnown()
}

// New constructs a backend from the Default registry.
func New(protocol string, params Params) (core.FileSystem, error) {
	return Default.New(protocol, params)
}
