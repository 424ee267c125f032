package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// InterfaceRegistry brokers capabilities between plugins by name.
type InterfaceRegistry interface {
	// Register exposes impl under name. The first registration wins.
	Register(name string, impl entities.Capability) error

	// Lookup returns the capability registered under name.
	Lookup(name string) (entities.Capability, bool)

	// Unregister removes name and reports whether it was registered.
	Unregister(name string) bool

	// Names returns all registered capability names, sorted.
	Names() []string
}
