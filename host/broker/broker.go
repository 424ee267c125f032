// Package broker binds plugin components to stubs in concrete processes and
// answers which component a stub stands for when the environment delivers a
// lifecycle event to it.
package broker

import (
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

type brokerConfig struct {
	logger *slog.Logger
	clock  func() time.Time
}

func defaultBrokerConfig() brokerConfig {
	return brokerConfig{
		logger: slog.Default(),
		clock:  time.Now,
	}
}

// Option configures a Broker.
type Option func(*brokerConfig)

// WithLogger sets the logger used for binding events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *brokerConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithClock sets the clock used to stamp bindings.
func WithClock(clock func() time.Time) Option {
	return func(c *brokerConfig) {
		if clock != nil {
			c.clock = clock
		}
	}
}

type bindingKey struct {
	key       entities.PluginComponentKey
	processID int
}

// Broker implements ports.BindingBroker on top of a stub pool and a process
// dispatcher. All mutations happen under one lock; the broker takes the
// pool and dispatcher locks after its own and they never call back.
type Broker struct {
	config     brokerConfig
	pool       ports.StubPool
	dispatcher ports.ProcessDispatcher

	mu       sync.RWMutex
	bindings map[bindingKey]entities.Binding
	byStub   map[string]bindingKey
}

var (
	_ ports.BindingBroker    = (*Broker)(nil)
	_ ports.BindingInspector = (*Broker)(nil)
)

// New creates a Broker.
func New(pool ports.StubPool, dispatcher ports.ProcessDispatcher, opts ...Option) *Broker {
	cfg := defaultBrokerConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Broker{
		config:     cfg,
		pool:       pool,
		dispatcher: dispatcher,
		bindings:   make(map[bindingKey]entities.Binding),
		byStub:     make(map[string]bindingKey),
	}
}

func validateKey(key entities.PluginComponentKey) error {
	switch {
	case key.Plugin == "":
		return &domerrors.InvalidRequestError{Field: "plugin", Reason: "must not be empty"}
	case key.Class == "":
		return &domerrors.InvalidRequestError{Field: "class", Reason: "must not be empty"}
	case !key.Kind.Valid():
		return &domerrors.InvalidRequestError{Field: "kind", Reason: "unknown component kind " + string(key.Kind)}
	}
	return nil
}

// Bind places key in a process and binds it to a free stub of the same kind
// and launch mode. Automatic requests prefer stubs pinned to the chosen slot
// and fall back to unpinned automatic stubs.
func (b *Broker) Bind(key entities.PluginComponentKey, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) (entities.DispatchTarget, error) {
	if err := validateKey(key); err != nil {
		return entities.DispatchTarget{}, err
	}
	if err := affinity.Validate(); err != nil {
		return entities.DispatchTarget{}, &domerrors.InvalidRequestError{Field: "process", Reason: err.Error()}
	}
	affinity = affinity.Normalize()
	mode = mode.NormalizeFor(key.Kind)

	b.mu.Lock()
	defer b.mu.Unlock()

	target, err := b.dispatcher.Resolve(key.Plugin, affinity)
	if err != nil {
		return entities.DispatchTarget{}, err
	}

	bk := bindingKey{key: key, processID: target.ID}
	if existing, dup := b.bindings[bk]; dup {
		b.dispatcher.Release(key.Plugin, target)
		return entities.DispatchTarget{}, &domerrors.DuplicateBindingError{
			Key:     key,
			StubID:  existing.StubID,
			Process: target,
		}
	}

	stubAffinity := affinity
	switch {
	case affinity.IsAuto():
		stubAffinity = entities.AutoSlot(target.Slot())
	case affinity.Kind == entities.AffinityNamed:
		stubAffinity = entities.Named(target.Name)
	}
	desc, ok := b.pool.FindFreeStub(key.Kind, stubAffinity, mode)
	if !ok {
		b.dispatcher.Release(key.Plugin, target)
		b.config.logger.Warn("stub pool exhausted",
			"component", key.String(),
			"process", affinity.String(),
			"launch_mode", mode.String())
		return entities.DispatchTarget{}, &domerrors.StubExhaustionError{
			Kind:       key.Kind,
			Affinity:   affinity,
			LaunchMode: mode,
		}
	}
	if err := b.pool.MarkBound(desc.ID, key, target.ID); err != nil {
		b.dispatcher.Release(key.Plugin, target)
		return entities.DispatchTarget{}, err
	}

	binding := entities.Binding{
		CreatedAt: b.config.clock(),
		Key:       key,
		StubID:    desc.ID,
		Process:   target,
	}
	b.bindings[bk] = binding
	b.byStub[desc.ID] = bk
	b.config.logger.Debug("component bound", "component", key.String(), "stub", desc.ID, "process", target.String())
	return binding.Target(), nil
}

// Unbind releases the binding of key in processID. Unbinding a key that is
// not bound is a no-op.
func (b *Broker) Unbind(key entities.PluginComponentKey, processID int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.unbindLocked(bindingKey{key: key, processID: processID})
}

func (b *Broker) unbindLocked(bk bindingKey) bool {
	binding, ok := b.bindings[bk]
	if !ok {
		return false
	}
	delete(b.bindings, bk)
	delete(b.byStub, binding.StubID)
	b.pool.Release(binding.StubID)
	b.dispatcher.Release(bk.key.Plugin, binding.Process)
	b.config.logger.Debug("component unbound", "component", bk.key.String(), "stub", binding.StubID, "process", binding.Process.String())
	return true
}

// ResolveDispatch returns the component bound to stubID in processID.
func (b *Broker) ResolveDispatch(stubID string, processID int) (entities.PluginComponentKey, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	bk, ok := b.byStub[stubID]
	if !ok || bk.processID != processID {
		return entities.PluginComponentKey{}, false
	}
	return bk.key, true
}

// Lookup returns the live binding of key in processID.
func (b *Broker) Lookup(key entities.PluginComponentKey, processID int) (entities.Binding, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	binding, ok := b.bindings[bindingKey{key: key, processID: processID}]
	return binding, ok
}

// Bindings returns every live binding ordered by process ID and stub ID.
func (b *Broker) Bindings() []entities.Binding {
	b.mu.RLock()
	out := make([]entities.Binding, 0, len(b.bindings))
	for _, binding := range b.bindings {
		out = append(out, binding)
	}
	b.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool {
		if out[i].Process.ID != out[j].Process.ID {
			return out[i].Process.ID < out[j].Process.ID
		}
		return out[i].StubID < out[j].StubID
	})
	return out
}

// ReleaseProcess unbinds every component bound in processID, for use when
// the process has died. It returns the number of bindings released.
func (b *Broker) ReleaseProcess(processID int) int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := 0
	for bk := range b.bindings {
		if bk.processID == processID && b.unbindLocked(bk) {
			n++
		}
	}
	if n > 0 {
		b.config.logger.Info("process bindings released", "process", processID, "count", n)
	}
	return n
}

// Snapshot returns the live bindings stamped with the broker clock.
func (b *Broker) Snapshot(host string) *entities.BindingSnapshot {
	return &entities.BindingSnapshot{
		TakenAt:  b.config.clock(),
		Host:     host,
		Bindings: b.Bindings(),
	}
}
