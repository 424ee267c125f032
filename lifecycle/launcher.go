package lifecycle

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// Launcher binds plugin components and starts their stubs in the
// environment.
type Launcher struct {
	broker ports.BindingBroker
	env    ports.Environment
	logger *slog.Logger
}

// LauncherOption configures a Launcher.
type LauncherOption func(*Launcher)

// WithLauncherLogger sets the launcher logger.
func WithLauncherLogger(logger *slog.Logger) LauncherOption {
	return func(l *Launcher) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLauncher creates a Launcher.
func NewLauncher(broker ports.BindingBroker, env ports.Environment, opts ...LauncherOption) *Launcher {
	l := &Launcher{broker: broker, env: env, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Launch binds req.Key and asks the environment to start the stub it was
// bound to. If the environment refuses, the binding is released again.
func (l *Launcher) Launch(ctx context.Context, req entities.LaunchRequest) (entities.DispatchTarget, error) {
	target, err := l.broker.Bind(req.Key, req.Process, req.LaunchMode)
	if err != nil {
		return entities.DispatchTarget{}, fmt.Errorf("bind %s: %w", req.Key, err)
	}

	start := entities.StartRequest{Target: target, Key: req.Key, Intent: req.Intent}
	if err := l.env.Start(ctx, start); err != nil {
		l.broker.Unbind(req.Key, target.Process.ID)
		l.logger.WarnContext(ctx, "environment refused start", "component", req.Key.String(), "stub", target.StubID, "error", err)
		return entities.DispatchTarget{}, fmt.Errorf("start %s on stub %s: %w", req.Key, target.StubID, err)
	}

	l.logger.InfoContext(ctx, "component launched", "component", req.Key.String(), "stub", target.StubID, "process", target.Process.String())
	return target, nil
}

// LaunchAll launches every request in order and stops at the first failure.
// Targets of the requests launched before the failure are returned.
func (l *Launcher) LaunchAll(ctx context.Context, reqs []entities.LaunchRequest) ([]entities.DispatchTarget, error) {
	out := make([]entities.DispatchTarget, 0, len(reqs))
	for _, req := range reqs {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		target, err := l.Launch(ctx, req)
		if err != nil {
			return out, err
		}
		out = append(out, target)
	}
	return out, nil
}
