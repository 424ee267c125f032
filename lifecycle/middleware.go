package lifecycle

import (
	"context"
	"log/slog"
	"time"
)

// Middleware wraps a Handler to add cross-cutting behavior.
// Middleware executes in FIFO order (first registered wraps outermost).
type Middleware func(next Handler) Handler

// RegistryOption is a functional option for configuring a HandlerRegistry.
type RegistryOption func(*registryBuilder)

// PanicRecoveryMiddleware converts handler panics into a *PanicError
// instead of crashing the host process.
func PanicRecoveryMiddleware() Middleware {
	return func(next Handler) Handler {
		return func(ctx context.Context, ev Event) (resp []byte, err error) {
			defer func() {
				if r := recover(); r != nil {
					name := ""
					if dc, ok := ctx.(DeliveryContext); ok {
						name = dc.Component().HandlerName()
					}
					resp = nil
					err = NewPanicError(name, r)
				}
			}()
			return next(ctx, ev)
		}
	}
}

// LoggingMiddleware logs every delivered event with its outcome and duration.
func LoggingMiddleware(logger *slog.Logger) Middleware {
	if logger == nil {
		logger = slog.Default()
	}
	return func(next Handler) Handler {
		return func(ctx context.Context, ev Event) ([]byte, error) {
			component := "unknown"
			if dc, ok := ctx.(DeliveryContext); ok {
				component = dc.Component().HandlerName()
			}
			start := time.Now()
			resp, err := next(ctx, ev)
			attrs := []any{
				"component", component,
				"event", ev.Name,
				"stub", ev.StubID,
				"duration", time.Since(start),
			}
			if err != nil {
				logger.ErrorContext(ctx, "lifecycle event failed", append(attrs, "error", err)...)
			} else {
				logger.DebugContext(ctx, "lifecycle event delivered", attrs...)
			}
			return resp, err
		}
	}
}
