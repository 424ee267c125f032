package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// ProcessDispatcher places plugin components into operating-system processes.
type ProcessDispatcher interface {
	// Resolve maps an abstract affinity to a concrete process for plugin and
	// takes a placement reference on it.
	Resolve(plugin string, affinity entities.ProcessAffinity) (entities.ProcessTarget, error)

	// Release drops one placement reference taken by Resolve.
	Release(plugin string, target entities.ProcessTarget)

	// Processes describes every process created so far.
	Processes() []entities.ProcessInfo
}
