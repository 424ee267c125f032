// Package entities provides the core domain types of the stub host: the
// manifest model of plugin components, the stub catalogue, process targets
// and live bindings.
// These are plain values; behavior lives in the host packages.
package entities
