// Package process decides which operating-system process a plugin
// component runs in.
//
// The foreground (UI) and long-lived (persistent) processes are singletons.
// Named processes are created on first use and reused by name. Automatic
// placement draws from a fixed set of reusable slots: a plugin already
// placed in a slot goes back to it, otherwise it takes the least-loaded slot
// with room, scanning round-robin from the slot after the last assignment.
package process

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

type dispatcherConfig struct {
	logger         *slog.Logger
	hostName       string
	slots          int
	pluginsPerSlot int
}

func defaultDispatcherConfig() dispatcherConfig {
	def := entities.DefaultConfig()
	return dispatcherConfig{
		logger:         slog.Default(),
		hostName:       def.HostName,
		slots:          def.ProcessSlots,
		pluginsPerSlot: def.PluginsPerSlot,
	}
}

// Option configures a Dispatcher.
type Option func(*dispatcherConfig)

// WithHostName sets the host name process names are derived from.
func WithHostName(name string) Option {
	return func(c *dispatcherConfig) {
		if name != "" {
			c.hostName = name
		}
	}
}

// WithSlots sets the number of automatic process slots.
func WithSlots(n int) Option {
	return func(c *dispatcherConfig) {
		if n > 0 {
			c.slots = n
		}
	}
}

// WithPluginsPerSlot sets how many distinct plugins may share an automatic slot.
func WithPluginsPerSlot(n int) Option {
	return func(c *dispatcherConfig) {
		if n > 0 {
			c.pluginsPerSlot = n
		}
	}
}

// WithLogger sets the logger used for placement events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatcherConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// state is the placement state of one process: placement references per plugin.
type state struct {
	target  entities.ProcessTarget
	plugins map[string]int
	started bool
}

func newState(target entities.ProcessTarget) *state {
	return &state{target: target, plugins: make(map[string]int)}
}

func (s *state) acquire(plugin string) entities.ProcessTarget {
	s.plugins[plugin]++
	s.started = true
	return s.target
}

func (s *state) info() entities.ProcessInfo {
	info := entities.ProcessInfo{Target: s.target}
	for p, n := range s.plugins {
		info.Plugins = append(info.Plugins, p)
		info.Refs += n
	}
	sort.Strings(info.Plugins)
	return info
}

// Dispatcher implements ports.ProcessDispatcher.
type Dispatcher struct {
	config     dispatcherConfig
	mu         sync.Mutex
	ui         *state
	persistent *state
	slots      []*state
	named      map[string]*state // canonical process name
	namedOrder []*state
	cursor     int
}

var _ ports.ProcessDispatcher = (*Dispatcher)(nil)

// NewDispatcher creates a Dispatcher with the given options.
func NewDispatcher(opts ...Option) *Dispatcher {
	cfg := defaultDispatcherConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher{
		config: cfg,
		ui: newState(entities.ProcessTarget{
			ID:   entities.ProcessIDUI,
			Name: cfg.hostName,
			Kind: entities.ProcessUI,
		}),
		persistent: newState(entities.ProcessTarget{
			ID:   entities.ProcessIDPersistent,
			Name: cfg.hostName + ":guard",
			Kind: entities.ProcessPersistent,
		}),
		slots: make([]*state, cfg.slots),
		named: make(map[string]*state),
	}
	for i := range d.slots {
		d.slots[i] = newState(entities.ProcessTarget{
			ID:   i,
			Name: cfg.hostName + ":" + entities.SlotLabel(i),
			Kind: entities.ProcessAuto,
		})
	}
	return d
}

// ProcessName returns the process name a named affinity resolves to.
func (d *Dispatcher) ProcessName(name string) string {
	return entities.ProcessName(d.config.hostName, name)
}

// Resolve maps affinity to a concrete process for plugin and takes a
// placement reference on it. Every successful Resolve must be paired with
// a Release.
func (d *Dispatcher) Resolve(plugin string, affinity entities.ProcessAffinity) (entities.ProcessTarget, error) {
	if plugin == "" {
		return entities.ProcessTarget{}, &domerrors.InvalidRequestError{Field: "plugin", Reason: "must not be empty"}
	}
	if err := affinity.Validate(); err != nil {
		return entities.ProcessTarget{}, &domerrors.InvalidRequestError{Field: "process", Reason: err.Error()}
	}
	affinity = affinity.Normalize()

	d.mu.Lock()
	defer d.mu.Unlock()

	switch affinity.Kind {
	case entities.AffinityUI:
		return d.ui.acquire(plugin), nil
	case entities.AffinityPersistent:
		return d.persistent.acquire(plugin), nil
	case entities.AffinityNamed:
		return d.namedState(affinity.Name).acquire(plugin), nil
	}

	if affinity.Pinned() {
		return d.resolvePinned(plugin, affinity.Name)
	}
	return d.resolveAuto(plugin)
}

func (d *Dispatcher) namedState(name string) *state {
	canonical := d.ProcessName(name)
	if s, ok := d.named[canonical]; ok {
		return s
	}
	s := newState(entities.ProcessTarget{
		ID:   entities.NamedProcessBase + len(d.namedOrder),
		Name: canonical,
		Kind: entities.ProcessNamed,
	})
	d.named[canonical] = s
	d.namedOrder = append(d.namedOrder, s)
	d.config.logger.Debug("named process created", "process", s.target.String())
	return s
}

func (d *Dispatcher) hasRoom(s *state, plugin string) bool {
	if _, ok := s.plugins[plugin]; ok {
		return true
	}
	return len(s.plugins) < d.config.pluginsPerSlot
}

func (d *Dispatcher) resolvePinned(plugin, label string) (entities.ProcessTarget, error) {
	idx, err := entities.ParseSlotLabel(label)
	if err != nil || idx >= len(d.slots) {
		return entities.ProcessTarget{}, &domerrors.InvalidRequestError{
			Field:  "process",
			Reason: fmt.Sprintf("auto slot %s does not exist", label),
		}
	}
	s := d.slots[idx]
	if !d.hasRoom(s, plugin) {
		d.config.logger.Warn("pinned process slot full", "plugin", plugin, "slot", label)
		return entities.ProcessTarget{}, &domerrors.ProcessExhaustionError{Plugin: plugin, Slots: len(d.slots)}
	}
	return s.acquire(plugin), nil
}

func (d *Dispatcher) resolveAuto(plugin string) (entities.ProcessTarget, error) {
	for _, s := range d.slots {
		if _, ok := s.plugins[plugin]; ok {
			return s.acquire(plugin), nil
		}
	}

	n := len(d.slots)
	best := -1
	for i := 0; i < n; i++ {
		idx := (d.cursor + i) % n
		load := len(d.slots[idx].plugins)
		if load >= d.config.pluginsPerSlot {
			continue
		}
		if best < 0 || load < len(d.slots[best].plugins) {
			best = idx
		}
	}
	if best < 0 {
		d.config.logger.Warn("process slots exhausted", "plugin", plugin, "slots", n)
		return entities.ProcessTarget{}, &domerrors.ProcessExhaustionError{Plugin: plugin, Slots: n}
	}

	d.cursor = (best + 1) % n
	s := d.slots[best]
	d.config.logger.Debug("plugin placed", "plugin", plugin, "process", s.target.String())
	return s.acquire(plugin), nil
}

// Release drops one placement reference of plugin on target. A slot forgets
// the plugin once its last reference is released.
func (d *Dispatcher) Release(plugin string, target entities.ProcessTarget) {
	d.mu.Lock()
	defer d.mu.Unlock()

	s := d.stateFor(target)
	if s == nil {
		return
	}
	n, ok := s.plugins[plugin]
	if !ok {
		return
	}
	if n <= 1 {
		delete(s.plugins, plugin)
		return
	}
	s.plugins[plugin] = n - 1
}

func (d *Dispatcher) stateFor(target entities.ProcessTarget) *state {
	switch target.Kind {
	case entities.ProcessUI:
		return d.ui
	case entities.ProcessPersistent:
		return d.persistent
	case entities.ProcessAuto:
		if target.ID >= 0 && target.ID < len(d.slots) {
			return d.slots[target.ID]
		}
	case entities.ProcessNamed:
		idx := target.ID - entities.NamedProcessBase
		if idx >= 0 && idx < len(d.namedOrder) {
			return d.namedOrder[idx]
		}
	}
	return nil
}

// Processes describes the automatic slots and every other process used so
// far: foreground first, then persistent, slots, and named processes in
// creation order.
func (d *Dispatcher) Processes() []entities.ProcessInfo {
	d.mu.Lock()
	defer d.mu.Unlock()

	var out []entities.ProcessInfo
	for _, s := range []*state{d.ui, d.persistent} {
		if s.started {
			out = append(out, s.info())
		}
	}
	for _, s := range d.slots {
		out = append(out, s.info())
	}
	for _, s := range d.namedOrder {
		out = append(out, s.info())
	}
	return out
}

// Slots returns the number of automatic slots.
func (d *Dispatcher) Slots() int {
	return len(d.slots)
}
