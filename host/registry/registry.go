// Package registry brokers capabilities that plugins expose to each other.
package registry

import (
	"log/slog"
	"sort"
	"strings"
	"sync"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// registryConfig holds configuration for the Registry.
type registryConfig struct {
	logger     *slog.Logger
	strictMode bool // Fail on duplicate registrations
}

func defaultRegistryConfig() registryConfig {
	return registryConfig{
		logger:     slog.Default(),
		strictMode: true, // Secure default: prevent accidental overwrites
	}
}

// RegistryOption configures a Registry instance.
type RegistryOption func(*registryConfig)

// WithStrictMode enables/disables strict mode for duplicate registrations.
// Default is true (fail on duplicates). Disable only for testing or hot-reloading.
func WithStrictMode(enabled bool) RegistryOption {
	return func(c *registryConfig) {
		c.strictMode = enabled
	}
}

// WithLogger sets the logger used for registration events.
func WithLogger(logger *slog.Logger) RegistryOption {
	return func(c *registryConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// Registry implements ports.InterfaceRegistry. Handles are stored as
// given and never inspected.
type Registry struct {
	config registryConfig
	impls  sync.Map // map[string]entities.Capability
}

var _ ports.InterfaceRegistry = (*Registry)(nil)

// NewRegistry creates a new Registry with the given options.
func NewRegistry(opts ...RegistryOption) *Registry {
	cfg := defaultRegistryConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Registry{config: cfg}
}

// Register exposes impl under name. In strict mode the first registration
// wins and later ones fail with DuplicateNameError.
func (r *Registry) Register(name string, impl entities.Capability) error {
	if strings.TrimSpace(name) == "" {
		return &domerrors.InvalidRequestError{Field: "name", Reason: "must not be empty"}
	}
	if impl == nil {
		return &domerrors.InvalidRequestError{Field: "impl", Reason: "must not be nil"}
	}

	if !r.config.strictMode {
		r.impls.Store(name, impl)
		r.config.logger.Debug("capability registered", "name", name, "replace", true)
		return nil
	}

	if _, loaded := r.impls.LoadOrStore(name, impl); loaded {
		r.config.logger.Warn("duplicate capability registration rejected", "name", name)
		return &domerrors.DuplicateNameError{Name: name}
	}
	r.config.logger.Debug("capability registered", "name", name)
	return nil
}

// Lookup returns the capability registered under name.
func (r *Registry) Lookup(name string) (entities.Capability, bool) {
	v, ok := r.impls.Load(name)
	if !ok {
		return nil, false
	}
	return v.(entities.Capability), true
}

// Unregister removes name and reports whether it was registered.
func (r *Registry) Unregister(name string) bool {
	_, ok := r.impls.LoadAndDelete(name)
	return ok
}

// Names returns all registered capability names, sorted.
func (r *Registry) Names() []string {
	var keys []string
	r.impls.Range(func(k, v interface{}) bool {
		keys = append(keys, k.(string))
		return true
	})
	sort.Strings(keys)
	return keys
}

// LookupAs returns the capability registered under name if it implements T.
func LookupAs[T any](r ports.InterfaceRegistry, name string) (T, bool) {
	var zero T
	v, ok := r.Lookup(name)
	if !ok {
		return zero, false
	}
	t, ok := v.(T)
	if !ok {
		return zero, false
	}
	return t, true
}
