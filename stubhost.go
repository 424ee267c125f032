// Package stubhost runs independently built plugins inside a single host by
// binding their components to stub components declared ahead of time and
// placing them in host processes.
//
// A Host owns one stub pool, one process dispatcher, one binding broker and
// one cross-plugin interface registry. Nothing is global; collaborators get
// the instances they need explicitly.
package stubhost

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/policy"
	"github.com/reglet-dev/stubhost/domain/ports"
	"github.com/reglet-dev/stubhost/host"
	"github.com/reglet-dev/stubhost/host/broker"
	"github.com/reglet-dev/stubhost/host/process"
	"github.com/reglet-dev/stubhost/host/registry"
	"github.com/reglet-dev/stubhost/host/stubpool"
	"github.com/reglet-dev/stubhost/infrastructure/bindingstore"
	"github.com/reglet-dev/stubhost/lifecycle"
)

type hostConfig struct {
	logger      *slog.Logger
	env         ports.Environment
	store       ports.BindingStore
	missHandler ports.MissHandler
	clock       func() time.Time
	handlers    []lifecycle.RegistryOption
}

// Option configures a Host.
type Option func(*hostConfig)

// WithLogger sets the logger shared by every component of the host.
func WithLogger(logger *slog.Logger) Option {
	return func(c *hostConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithEnvironment sets the operating environment that starts stubs.
// The default records start requests in memory.
func WithEnvironment(env ports.Environment) Option {
	return func(c *hostConfig) {
		c.env = env
	}
}

// WithBindingStore sets where Close writes the binding snapshot. It
// overrides Config.SnapshotPath.
func WithBindingStore(store ports.BindingStore) Option {
	return func(c *hostConfig) {
		c.store = store
	}
}

// WithMissHandler sets the handler told about unresolved intents.
func WithMissHandler(h ports.MissHandler) Option {
	return func(c *hostConfig) {
		c.missHandler = h
	}
}

// WithClock sets the time source for binding timestamps.
func WithClock(clock func() time.Time) Option {
	return func(c *hostConfig) {
		c.clock = clock
	}
}

// WithHandlers adds lifecycle handlers and middleware.
func WithHandlers(opts ...lifecycle.RegistryOption) Option {
	return func(c *hostConfig) {
		c.handlers = append(c.handlers, opts...)
	}
}

// Host is one running stub host.
type Host struct {
	cfg        entities.Config
	logger     *slog.Logger
	store      ports.BindingStore
	pool       *stubpool.Pool
	dispatcher *process.Dispatcher
	broker     *broker.Broker
	registry   *registry.Registry
	policy     *policy.IntentPolicy
	launcher   *lifecycle.Launcher
	deliverer  *lifecycle.Deliverer
	closeOnce  sync.Once
	closeErr   error
}

// New creates a host over the stubs of catalogue.
func New(cfg entities.Config, catalogue *entities.StubCatalogue, opts ...Option) (*Host, error) {
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	if catalogue == nil {
		return nil, fmt.Errorf("stub catalogue is required")
	}

	hc := hostConfig{logger: slog.Default(), clock: time.Now}
	for _, opt := range opts {
		opt(&hc)
	}
	if hc.env == nil {
		hc.env = lifecycle.NewMemoryEnvironment(nil)
	}
	if hc.store == nil && cfg.SnapshotPath != "" {
		hc.store = bindingstore.NewFileStore(bindingstore.WithPath(cfg.SnapshotPath))
	}
	if hc.missHandler == nil {
		hc.missHandler = &policy.LogMissHandler{Logger: hc.logger}
	}

	pool, err := stubpool.New(catalogue.Expand(),
		stubpool.WithHostName(cfg.HostName),
		stubpool.WithLogger(hc.logger),
	)
	if err != nil {
		return nil, err
	}
	dispatcher := process.NewDispatcher(
		process.WithHostName(cfg.HostName),
		process.WithSlots(cfg.ProcessSlots),
		process.WithPluginsPerSlot(cfg.PluginsPerSlot),
		process.WithLogger(hc.logger),
	)
	b := broker.New(pool, dispatcher, broker.WithLogger(hc.logger), broker.WithClock(hc.clock))

	handlers, err := lifecycle.NewRegistry(hc.handlers...)
	if err != nil {
		return nil, fmt.Errorf("lifecycle handlers: %w", err)
	}

	h := &Host{
		cfg:        cfg,
		logger:     hc.logger,
		store:      hc.store,
		pool:       pool,
		dispatcher: dispatcher,
		broker:     b,
		registry:   registry.NewRegistry(registry.WithLogger(hc.logger)),
		policy:     policy.NewIntentPolicy(policy.WithMissHandler(hc.missHandler)),
		launcher:   lifecycle.NewLauncher(b, hc.env, lifecycle.WithLauncherLogger(hc.logger)),
		deliverer:  lifecycle.NewDeliverer(b, handlers, lifecycle.WithDelivererLogger(hc.logger)),
	}
	h.logger.Debug("stub host created", "host", cfg.HostName, "stubs", pool.Len(), "slots", cfg.ProcessSlots)
	return h, nil
}

// Open loads the catalogue named by cfg.CataloguePath and creates a host.
func Open(cfg entities.Config, values map[string]interface{}, opts ...Option) (*Host, error) {
	if cfg.CataloguePath == "" {
		return nil, fmt.Errorf("catalogue path is required")
	}
	loader := host.NewLoader(host.WithHostConfig(cfg))
	catalogue, err := loader.LoadCatalogueFile(cfg.CataloguePath, values)
	if err != nil {
		return nil, err
	}
	return New(cfg, catalogue, opts...)
}

// Config returns the host configuration.
func (h *Host) Config() entities.Config { return h.cfg }

// Pool returns the stub pool.
func (h *Host) Pool() *stubpool.Pool { return h.pool }

// Dispatcher returns the process dispatcher.
func (h *Host) Dispatcher() *process.Dispatcher { return h.dispatcher }

// Broker returns the binding broker.
func (h *Host) Broker() *broker.Broker { return h.broker }

// Interfaces returns the cross-plugin interface registry.
func (h *Host) Interfaces() *registry.Registry { return h.registry }

// Launch binds a component and starts its stub.
func (h *Host) Launch(ctx context.Context, req entities.LaunchRequest) (entities.DispatchTarget, error) {
	return h.launcher.Launch(ctx, req)
}

// LaunchAll launches requests in order, stopping at the first failure.
func (h *Host) LaunchAll(ctx context.Context, reqs []entities.LaunchRequest) ([]entities.DispatchTarget, error) {
	return h.launcher.LaunchAll(ctx, reqs)
}

// Deliver routes a lifecycle event addressed to a stub to the bound component.
func (h *Host) Deliver(ctx context.Context, ev lifecycle.Event) ([]byte, error) {
	return h.deliverer.Deliver(ctx, ev)
}

// Resolve returns the components of manifests that accept intent, best first.
func (h *Host) Resolve(intent entities.Intent, manifests []*entities.PluginManifest) []entities.ComponentMatch {
	return h.policy.Resolve(intent, manifests)
}

// StartIntent launches the best component accepting intent. It reports
// false when no component accepts it.
func (h *Host) StartIntent(ctx context.Context, intent entities.Intent, manifests []*entities.PluginManifest) (entities.DispatchTarget, bool, error) {
	matches := h.policy.Resolve(intent, manifests)
	if len(matches) == 0 {
		return entities.DispatchTarget{}, false, nil
	}
	best := matches[0]
	target, err := h.launcher.Launch(ctx, entities.LaunchRequest{
		Key:        best.Key,
		Process:    best.Decl.Process,
		LaunchMode: best.Decl.LaunchMode,
		Intent:     intent,
	})
	return target, true, err
}

// ProcessDied unbinds every component in a process that has gone away.
func (h *Host) ProcessDied(processID int) int {
	n := h.broker.ReleaseProcess(processID)
	h.logger.Info("process released", "process", processID, "bindings", n)
	return n
}

// Snapshot returns the live bindings.
func (h *Host) Snapshot() *entities.BindingSnapshot {
	return h.broker.Snapshot(h.cfg.HostName)
}

// Close saves a binding snapshot when a store is configured. It is safe to
// call more than once.
func (h *Host) Close() error {
	h.closeOnce.Do(func() {
		if h.store == nil {
			return
		}
		if err := h.store.Save(h.Snapshot()); err != nil {
			h.closeErr = fmt.Errorf("save binding snapshot: %w", err)
			return
		}
		h.logger.Debug("binding snapshot saved", "path", h.store.Path())
	})
	return h.closeErr
}
