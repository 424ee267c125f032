// Package stubpool tracks the fixed set of placeholder components declared
// in the host manifest and which plugin component each one is bound to.
package stubpool

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

type poolConfig struct {
	logger   *slog.Logger
	hostName string
}

func defaultPoolConfig() poolConfig {
	return poolConfig{
		logger:   slog.Default(),
		hostName: entities.DefaultConfig().HostName,
	}
}

// Option configures a Pool.
type Option func(*poolConfig)

// WithLogger sets the logger used for bind and release events.
func WithLogger(logger *slog.Logger) Option {
	return func(c *poolConfig) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithHostName sets the host name private named processes (":x") resolve
// against. It must match the dispatcher's.
func WithHostName(name string) Option {
	return func(c *poolConfig) {
		if name != "" {
			c.hostName = name
		}
	}
}

type slot struct {
	desc      entities.StubDescriptor
	match     entities.ProcessAffinity // canonical affinity
	processID int
}

type boundKey struct {
	key       entities.PluginComponentKey
	processID int
}

// Pool implements ports.StubPool.
type Pool struct {
	config poolConfig
	mu     sync.RWMutex
	slots  []slot
	index  map[string]int
	byKey  map[boundKey]int
}

var _ ports.StubPool = (*Pool)(nil)

// New builds a pool from the stubs of a catalogue. Stub IDs must be unique
// and every stub must have a valid kind and affinity.
func New(specs []entities.StubSpec, opts ...Option) (*Pool, error) {
	cfg := defaultPoolConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	p := &Pool{
		config: cfg,
		slots:  make([]slot, 0, len(specs)),
		index:  make(map[string]int, len(specs)),
		byKey:  make(map[boundKey]int),
	}
	for _, s := range specs {
		if s.ID == "" {
			return nil, &domerrors.CatalogueError{Err: fmt.Errorf("stub without id")}
		}
		if _, dup := p.index[s.ID]; dup {
			return nil, &domerrors.CatalogueError{StubID: s.ID, Err: fmt.Errorf("duplicate stub id")}
		}
		if !s.Kind.Valid() {
			return nil, &domerrors.CatalogueError{StubID: s.ID, Err: fmt.Errorf("unknown component kind %q", s.Kind)}
		}
		if err := s.Process.Validate(); err != nil {
			return nil, &domerrors.CatalogueError{StubID: s.ID, Err: err}
		}
		p.index[s.ID] = len(p.slots)
		p.slots = append(p.slots, slot{
			desc: entities.StubDescriptor{
				ID:         s.ID,
				Kind:       s.Kind,
				Affinity:   s.Process.Normalize(),
				LaunchMode: s.LaunchMode.NormalizeFor(s.Kind),
			},
			match: s.Process.Canonical(cfg.hostName),
		})
	}
	return p, nil
}

// FindFreeStub returns the first free stub in catalogue order whose kind and
// launch mode match exactly and whose affinity names the same process as the
// request. When the request is automatic and nothing matches exactly, the
// first free unpinned automatic stub is returned.
func (p *Pool) FindFreeStub(kind entities.ComponentKind, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) (entities.StubDescriptor, bool) {
	affinity = affinity.Canonical(p.config.hostName)
	mode = mode.NormalizeFor(kind)

	p.mu.RLock()
	defer p.mu.RUnlock()

	fallback := -1
	for i := range p.slots {
		d := &p.slots[i].desc
		if d.Bound || !d.Compatible(kind, mode) {
			continue
		}
		if p.slots[i].match == affinity {
			return *d, true
		}
		if fallback < 0 && affinity.IsAuto() && d.Affinity == entities.Auto() {
			fallback = i
		}
	}
	if fallback >= 0 {
		return p.slots[fallback].desc, true
	}
	return entities.StubDescriptor{}, false
}

// MarkBound binds a free stub to key in the given process.
func (p *Pool) MarkBound(stubID string, key entities.PluginComponentKey, processID int) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[stubID]
	if !ok {
		return &domerrors.StubStateError{StubID: stubID, Reason: "unknown stub"}
	}
	s := &p.slots[i]
	if s.desc.Bound {
		return &domerrors.StubStateError{StubID: stubID, Reason: "already bound to " + s.desc.BoundTo.String()}
	}
	bk := boundKey{key: key, processID: processID}
	if held, dup := p.byKey[bk]; dup {
		return &domerrors.DuplicateBindingError{
			Key:     key,
			StubID:  p.slots[held].desc.ID,
			Process: entities.ProcessTarget{ID: processID},
		}
	}

	k := key
	s.desc.Bound = true
	s.desc.BoundTo = &k
	s.processID = processID
	p.byKey[bk] = i
	p.config.logger.Debug("stub bound", "stub", stubID, "component", key.String(), "process", processID)
	return nil
}

// Release returns a stub to the free pool and reports whether it was bound.
func (p *Pool) Release(stubID string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	i, ok := p.index[stubID]
	if !ok || !p.slots[i].desc.Bound {
		return false
	}
	s := &p.slots[i]
	delete(p.byKey, boundKey{key: *s.desc.BoundTo, processID: s.processID})
	p.config.logger.Debug("stub released", "stub", stubID, "component", s.desc.BoundTo.String(), "process", s.processID)
	s.desc.Bound = false
	s.desc.BoundTo = nil
	s.processID = 0
	return true
}

// LookupByStub returns the component a stub is bound to.
func (p *Pool) LookupByStub(stubID string) (entities.PluginComponentKey, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, ok := p.index[stubID]
	if !ok || !p.slots[i].desc.Bound {
		return entities.PluginComponentKey{}, false
	}
	return *p.slots[i].desc.BoundTo, true
}

// LookupByKey returns the stub bound to key in the given process.
func (p *Pool) LookupByKey(key entities.PluginComponentKey, processID int) (entities.StubDescriptor, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	i, ok := p.byKey[boundKey{key: key, processID: processID}]
	if !ok {
		return entities.StubDescriptor{}, false
	}
	return p.slots[i].copy(), true
}

// FreeCount counts free stubs with exactly this kind, affinity and launch mode.
func (p *Pool) FreeCount(kind entities.ComponentKind, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) int {
	affinity = affinity.Canonical(p.config.hostName)
	mode = mode.NormalizeFor(kind)

	p.mu.RLock()
	defer p.mu.RUnlock()

	n := 0
	for i := range p.slots {
		d := &p.slots[i].desc
		if !d.Bound && d.Compatible(kind, mode) && p.slots[i].match == affinity {
			n++
		}
	}
	return n
}

// Stubs returns a copy of every descriptor in catalogue order.
func (p *Pool) Stubs() []entities.StubDescriptor {
	p.mu.RLock()
	defer p.mu.RUnlock()

	out := make([]entities.StubDescriptor, 0, len(p.slots))
	for i := range p.slots {
		out = append(out, p.slots[i].copy())
	}
	return out
}

// Len returns the number of stubs in the pool.
func (p *Pool) Len() int {
	return len(p.slots)
}

// copy returns the descriptor without sharing the BoundTo pointer.
func (s *slot) copy() entities.StubDescriptor {
	d := s.desc
	if d.BoundTo != nil {
		k := *d.BoundTo
		d.BoundTo = &k
	}
	return d
}
