package lifecycle

import (
	"context"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// DeliveryContext wraps a context.Context with the component an event was
// resolved to. Middleware can store request-scoped values on it.
type DeliveryContext interface {
	context.Context

	// Component returns the plugin component the event is delivered to.
	Component() entities.PluginComponentKey

	// SetValue stores a request-scoped value. Unlike context.WithValue,
	// this mutates the existing DeliveryContext.
	SetValue(key, value any)

	// GetValue retrieves a request-scoped value set by SetValue.
	GetValue(key any) (value any, ok bool)
}

type deliveryContext struct {
	context.Context
	values    map[any]any
	component entities.PluginComponentKey
}

// NewDeliveryContext creates a DeliveryContext wrapping ctx.
func NewDeliveryContext(ctx context.Context, component entities.PluginComponentKey) DeliveryContext {
	return &deliveryContext{
		Context:   ctx,
		component: component,
		values:    make(map[any]any),
	}
}

func (c *deliveryContext) Component() entities.PluginComponentKey {
	return c.component
}

func (c *deliveryContext) SetValue(key, value any) {
	c.values[key] = value
}

func (c *deliveryContext) GetValue(key any) (any, bool) {
	v, ok := c.values[key]
	return v, ok
}

// DeliveryContextFrom returns ctx if it already is a DeliveryContext and
// wraps it otherwise.
func DeliveryContextFrom(ctx context.Context, component entities.PluginComponentKey) DeliveryContext {
	if dc, ok := ctx.(DeliveryContext); ok {
		return dc
	}
	return NewDeliveryContext(ctx, component)
}
