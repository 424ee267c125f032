package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// StubPool is the registry of placeholder components.
// Implementations must be safe for concurrent use.
type StubPool interface {
	// FindFreeStub returns a free stub of the given kind and launch-mode class,
	// preferring an exact affinity match and falling back to an unpinned auto
	// stub when the request is automatic.
	FindFreeStub(kind entities.ComponentKind, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) (entities.StubDescriptor, bool)

	// MarkBound binds a free stub to key in the given process.
	MarkBound(stubID string, key entities.PluginComponentKey, processID int) error

	// Release returns a stub to the free pool. It reports whether the stub was bound.
	Release(stubID string) bool

	// LookupByStub returns the component a stub is bound to.
	LookupByStub(stubID string) (entities.PluginComponentKey, bool)

	// LookupByKey returns the stub bound to key in the given process.
	LookupByKey(key entities.PluginComponentKey, processID int) (entities.StubDescriptor, bool)

	// FreeCount counts free stubs with exactly this kind, affinity and launch mode.
	FreeCount(kind entities.ComponentKind, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) int

	// Stubs returns a copy of every descriptor in catalogue order.
	Stubs() []entities.StubDescriptor
}
