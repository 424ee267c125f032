package entities

import (
	"fmt"
	"strconv"
	"strings"
)

// AffinityKind is the class of process a component asks to run in.
type AffinityKind string

const (
	AffinityAuto       AffinityKind = "auto"
	AffinityUI         AffinityKind = "ui"
	AffinityPersistent AffinityKind = "persistent"
	AffinityNamed      AffinityKind = "named"
)

// ProcessAffinity is an abstract process request.
//
// For AffinityNamed, Name is the requested process name. For AffinityAuto,
// Name is either empty (any auto slot) or a slot label such as "p1"; stubs
// pinned to a slot carry the label, requests usually do not.
type ProcessAffinity struct {
	Kind AffinityKind
	Name string
}

// Auto returns the unpinned automatic affinity.
func Auto() ProcessAffinity { return ProcessAffinity{Kind: AffinityAuto} }

// AutoSlot returns an automatic affinity pinned to the given slot label.
func AutoSlot(label string) ProcessAffinity {
	return ProcessAffinity{Kind: AffinityAuto, Name: label}
}

// UI returns the foreground process affinity.
func UI() ProcessAffinity { return ProcessAffinity{Kind: AffinityUI} }

// Persistent returns the long-lived process affinity.
func Persistent() ProcessAffinity { return ProcessAffinity{Kind: AffinityPersistent} }

// Named returns the affinity for a process keyed by name.
func Named(name string) ProcessAffinity {
	return ProcessAffinity{Kind: AffinityNamed, Name: name}
}

// IsAuto reports whether a is an automatic affinity, pinned or not.
// The zero value is automatic.
func (a ProcessAffinity) IsAuto() bool { return a.Kind == AffinityAuto || a.Kind == "" }

// Pinned reports whether a is an automatic affinity pinned to a slot.
func (a ProcessAffinity) Pinned() bool { return a.IsAuto() && a.Name != "" }

// Normalize returns a with the zero kind replaced by AffinityAuto and a
// slot label in its canonical form ("p01" becomes "p1").
func (a ProcessAffinity) Normalize() ProcessAffinity {
	if a.Kind == "" {
		a.Kind = AffinityAuto
	}
	if a.Kind == AffinityAuto && a.Name != "" {
		if n, err := ParseSlotLabel(a.Name); err == nil {
			a.Name = SlotLabel(n)
		}
	}
	return a
}

// Canonical returns a normalized, with a named process spelled the way it
// resolves on host. Two affinities naming the same process are equal once
// canonical.
func (a ProcessAffinity) Canonical(host string) ProcessAffinity {
	a = a.Normalize()
	if a.Kind == AffinityNamed {
		a.Name = ProcessName(host, a.Name)
	}
	return a
}

// ProcessName returns the process name a named affinity resolves to on host.
// Names starting with ":" are private to the host and get its name as prefix.
func ProcessName(host, name string) string {
	if strings.HasPrefix(name, ":") {
		return host + name
	}
	return name
}

// String returns the text form: "auto", "auto:p0", "ui", "persistent" or "named:<n>".
func (a ProcessAffinity) String() string {
	switch a.Kind {
	case "", AffinityAuto:
		if a.Name != "" {
			return "auto:" + a.Name
		}
		return "auto"
	case AffinityNamed:
		return "named:" + a.Name
	}
	return string(a.Kind)
}

// Validate checks the affinity is well formed.
func (a ProcessAffinity) Validate() error {
	switch a.Kind {
	case AffinityUI, AffinityPersistent:
		if a.Name != "" {
			return fmt.Errorf("%s affinity does not take a name", a.Kind)
		}
	case AffinityNamed:
		if strings.TrimSpace(a.Name) == "" {
			return fmt.Errorf("named affinity requires a process name")
		}
	case "", AffinityAuto:
		if a.Name != "" {
			if _, err := ParseSlotLabel(a.Name); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown process affinity %q", a.Kind)
	}
	return nil
}

// ParseProcessAffinity parses the text form produced by String.
// An empty string is the unpinned automatic affinity.
func ParseProcessAffinity(s string) (ProcessAffinity, error) {
	s = strings.TrimSpace(s)
	kind, name, _ := strings.Cut(s, ":")
	var a ProcessAffinity
	switch AffinityKind(strings.ToLower(kind)) {
	case "", AffinityAuto:
		a = ProcessAffinity{Kind: AffinityAuto, Name: name}
	case AffinityUI:
		a = ProcessAffinity{Kind: AffinityUI, Name: name}
	case AffinityPersistent:
		a = ProcessAffinity{Kind: AffinityPersistent, Name: name}
	case AffinityNamed:
		a = ProcessAffinity{Kind: AffinityNamed, Name: name}
	default:
		return ProcessAffinity{}, fmt.Errorf("unknown process affinity %q", s)
	}
	if err := a.Validate(); err != nil {
		return ProcessAffinity{}, err
	}
	return a, nil
}

// MarshalText implements encoding.TextMarshaler.
func (a ProcessAffinity) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (a *ProcessAffinity) UnmarshalText(text []byte) error {
	parsed, err := ParseProcessAffinity(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// SlotLabel returns the label of auto slot n ("p0", "p1", ...).
func SlotLabel(n int) string {
	return "p" + strconv.Itoa(n)
}

// ParseSlotLabel returns the slot index of a label produced by SlotLabel.
func ParseSlotLabel(label string) (int, error) {
	if !strings.HasPrefix(label, "p") {
		return 0, fmt.Errorf("invalid auto slot label %q", label)
	}
	n, err := strconv.Atoi(label[1:])
	if err != nil || n < 0 {
		return 0, fmt.Errorf("invalid auto slot label %q", label)
	}
	return n, nil
}
