// Package ports defines the interfaces between the binding core and its
// collaborators: the registries themselves, document parsers, persistence
// and the operating environment.
package ports
