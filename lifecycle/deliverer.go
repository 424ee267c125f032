package lifecycle

import (
	"context"
	"log/slog"

	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// Deliverer forwards lifecycle events addressed to stubs to the plugin
// components bound to them.
type Deliverer struct {
	broker   ports.BindingBroker
	handlers *HandlerRegistry
	logger   *slog.Logger
}

// DelivererOption configures a Deliverer.
type DelivererOption func(*Deliverer)

// WithDelivererLogger sets the logger for unresolved events.
func WithDelivererLogger(logger *slog.Logger) DelivererOption {
	return func(d *Deliverer) {
		if logger != nil {
			d.logger = logger
		}
	}
}

// NewDeliverer creates a Deliverer.
func NewDeliverer(broker ports.BindingBroker, handlers *HandlerRegistry, opts ...DelivererOption) *Deliverer {
	d := &Deliverer{broker: broker, handlers: handlers, logger: slog.Default()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Deliver resolves the stub of ev to its plugin component and runs the
// component's handler. An event for a stub with no live binding in the
// process is logged and dropped: (nil, nil) is returned. A destroy event
// unbinds the component once its handler has run.
func (d *Deliverer) Deliver(ctx context.Context, ev Event) ([]byte, error) {
	key, ok := d.broker.ResolveDispatch(ev.StubID, ev.ProcessID)
	if !ok {
		miss := &domerrors.UnresolvedDispatchError{StubID: ev.StubID, ProcessID: ev.ProcessID, Event: ev.Name}
		d.logger.WarnContext(ctx, "lifecycle event dropped", "error", miss.Error(), "stub", ev.StubID, "process", ev.ProcessID)
		return nil, nil
	}

	if ev.Name == EventDestroy {
		defer d.broker.Unbind(key, ev.ProcessID)
	}
	return d.handlers.Invoke(ctx, key, ev)
}
