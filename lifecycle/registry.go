package lifecycle

import (
	"context"
	"fmt"
	"sort"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
)

// HandlerRegistry is an immutable collection of component handlers keyed by
// "plugin/class". Lookups are lock-free.
type HandlerRegistry struct {
	handlers map[string]Handler
	names    []string // sorted for consistent iteration
}

type registryBuilder struct {
	handlers   map[string]Handler
	middleware []Middleware
	errors     []error
}

// NewRegistry creates an immutable HandlerRegistry with the given options.
// Returns an error if any handler name is empty or registered twice.
//
// Example usage:
//
//	handlers, err := NewRegistry(
//	    WithMiddleware(PanicRecoveryMiddleware()),
//	    WithComponent(key, onEvent),
//	)
func NewRegistry(opts ...RegistryOption) (*HandlerRegistry, error) {
	b := &registryBuilder{handlers: make(map[string]Handler)}
	for _, opt := range opts {
		opt(b)
	}
	if len(b.errors) > 0 {
		return nil, b.errors[0]
	}

	names := make([]string, 0, len(b.handlers))
	wrapped := make(map[string]Handler, len(b.handlers))
	for name, handler := range b.handlers {
		names = append(names, name)
		h := handler
		// Apply in reverse so the first middleware wraps outermost.
		for i := len(b.middleware) - 1; i >= 0; i-- {
			h = b.middleware[i](h)
		}
		wrapped[name] = h
	}
	sort.Strings(names)

	return &HandlerRegistry{handlers: wrapped, names: names}, nil
}

// Invoke runs the handler registered for component.
func (r *HandlerRegistry) Invoke(ctx context.Context, component entities.PluginComponentKey, ev Event) ([]byte, error) {
	name := component.HandlerName()
	handler, ok := r.handlers[name]
	if !ok {
		return nil, &domerrors.HandlerNotFoundError{Name: name}
	}
	return handler(DeliveryContextFrom(ctx, component), ev)
}

// Has reports whether a handler is registered under name.
func (r *HandlerRegistry) Has(name string) bool {
	_, ok := r.handlers[name]
	return ok
}

// Names returns a sorted list of all registered handler names.
func (r *HandlerRegistry) Names() []string {
	result := make([]string, len(r.names))
	copy(result, r.names)
	return result
}

func (b *registryBuilder) addHandler(name string, handler Handler) error {
	if name == "" {
		return fmt.Errorf("handler name cannot be empty")
	}
	if handler == nil {
		return fmt.Errorf("handler %q is nil", name)
	}
	if _, exists := b.handlers[name]; exists {
		return fmt.Errorf("duplicate handler name: %q", name)
	}
	b.handlers[name] = handler
	return nil
}

// WithHandler registers a handler under a "plugin/class" name.
func WithHandler(name string, handler Handler) RegistryOption {
	return func(b *registryBuilder) {
		if err := b.addHandler(name, handler); err != nil {
			b.errors = append(b.errors, err)
		}
	}
}

// WithComponent registers a handler for a plugin component.
func WithComponent(key entities.PluginComponentKey, handler Handler) RegistryOption {
	return WithHandler(key.HandlerName(), handler)
}

// WithMiddleware adds middleware to the registry.
// Middleware executes in FIFO order (first added wraps first).
func WithMiddleware(mw ...Middleware) RegistryOption {
	return func(b *registryBuilder) {
		b.middleware = append(b.middleware, mw...)
	}
}
