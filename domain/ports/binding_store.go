package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// BindingStore persists binding snapshots.
type BindingStore interface {
	// Load retrieves the last snapshot.
	// Returns an empty snapshot (not error) if none was saved.
	Load() (*entities.BindingSnapshot, error)

	// Save persists a snapshot.
	Save(snapshot *entities.BindingSnapshot) error

	// Path returns the location of the backing store (for user messaging).
	Path() string
}
