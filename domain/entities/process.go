package entities

import "fmt"

// ProcessKind is the kind of a resolved process.
type ProcessKind string

const (
	ProcessAuto       ProcessKind = "auto"
	ProcessUI         ProcessKind = "ui"
	ProcessPersistent ProcessKind = "persistent"
	ProcessNamed      ProcessKind = "named"
)

// Well-known process identifiers. Auto slots are numbered from 0 and named
// processes from NamedProcessBase in creation order.
const (
	ProcessIDUI         = -1
	ProcessIDPersistent = -2
	NamedProcessBase    = 1000
)

// ProcessTarget is a concrete process chosen by the dispatcher.
type ProcessTarget struct {
	ID   int         `json:"id" yaml:"id"`
	Name string      `json:"name" yaml:"name"`
	Kind ProcessKind `json:"kind" yaml:"kind"`
}

// String returns "name#id".
func (p ProcessTarget) String() string {
	return fmt.Sprintf("%s#%d", p.Name, p.ID)
}

// Slot returns the auto slot label for auto processes and "" otherwise.
func (p ProcessTarget) Slot() string {
	if p.Kind != ProcessAuto {
		return ""
	}
	return SlotLabel(p.ID)
}

// ProcessInfo describes the placement state of one process.
type ProcessInfo struct {
	Target  ProcessTarget `json:"target" yaml:"target"`
	Plugins []string      `json:"plugins,omitempty" yaml:"plugins,omitempty"`
	Refs    int           `json:"refs" yaml:"refs"`
}
