// Package host assembles the binding core from plugin documents.
//
// Its subpackages hold the registries: stubpool owns the finite catalogue of
// stub components, process assigns plugins to host processes, broker keeps the
// live bindings between plugin components and stubs, and registry carries
// capabilities plugins expose to one another. The Loader in this package turns
// catalogue and manifest files into the validated values those registries take.
package host
