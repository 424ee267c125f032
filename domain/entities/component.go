package entities

import (
	"fmt"
	"strings"
)

// ComponentKind is the kind of an application component.
type ComponentKind string

const (
	KindActivity ComponentKind = "activity"
	KindService  ComponentKind = "service"
	KindReceiver ComponentKind = "receiver"
	KindProvider ComponentKind = "provider"
)

// ComponentKinds lists every valid kind in declaration order.
var ComponentKinds = []ComponentKind{KindActivity, KindService, KindReceiver, KindProvider}

// Valid reports whether k is one of the known component kinds.
func (k ComponentKind) Valid() bool {
	switch k {
	case KindActivity, KindService, KindReceiver, KindProvider:
		return true
	}
	return false
}

// ParseComponentKind parses a kind name case-insensitively.
func ParseComponentKind(s string) (ComponentKind, error) {
	k := ComponentKind(strings.ToLower(strings.TrimSpace(s)))
	if !k.Valid() {
		return "", fmt.Errorf("unknown component kind %q", s)
	}
	return k, nil
}

// PluginComponentKey identifies one component of one plugin.
// It is the lookup key in both binding directions.
type PluginComponentKey struct {
	Plugin string        `json:"plugin" yaml:"plugin" validate:"required"`
	Class  string        `json:"class" yaml:"class" validate:"required"`
	Kind   ComponentKind `json:"kind" yaml:"kind" validate:"required,component_kind"`
}

// NewComponentKey creates a PluginComponentKey.
func NewComponentKey(plugin, class string, kind ComponentKind) PluginComponentKey {
	return PluginComponentKey{Plugin: plugin, Class: class, Kind: kind}
}

// String returns the key in "plugin/class (kind)" format.
func (k PluginComponentKey) String() string {
	return fmt.Sprintf("%s/%s (%s)", k.Plugin, k.Class, k.Kind)
}

// HandlerName returns the "plugin/class" name used to look up lifecycle handlers.
func (k PluginComponentKey) HandlerName() string {
	return k.Plugin + "/" + k.Class
}
