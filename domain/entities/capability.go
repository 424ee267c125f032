package entities

// Capability is an opaque handle one plugin exposes to others by name.
// The interface registry never inspects it.
type Capability interface{}
