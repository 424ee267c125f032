package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// BindingBroker binds plugin components to stubs and processes.
type BindingBroker interface {
	// Bind places key in a process and binds it to a compatible free stub.
	Bind(key entities.PluginComponentKey, affinity entities.ProcessAffinity, mode entities.LaunchModeClass) (entities.DispatchTarget, error)

	// Unbind releases the binding of key in a process. Unbinding an unbound key is a no-op.
	Unbind(key entities.PluginComponentKey, processID int)

	// ResolveDispatch returns the component bound to stubID in processID.
	ResolveDispatch(stubID string, processID int) (entities.PluginComponentKey, bool)
}

// BindingInspector exposes the live binding table.
type BindingInspector interface {
	Lookup(key entities.PluginComponentKey, processID int) (entities.Binding, bool)
	Bindings() []entities.Binding
}
