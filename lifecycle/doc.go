// Package lifecycle implements the two collaborators that sit between the
// operating environment and the binding broker: the Launcher, which binds a
// plugin component before asking the environment to start its stub, and the
// Deliverer, which maps lifecycle events addressed to a stub back to the
// plugin component bound to it.
package lifecycle
