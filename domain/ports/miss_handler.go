package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// MissHandler is called when no declared component accepts an intent.
// Implementations can log, collect metrics, or take other actions.
type MissHandler interface {
	OnMiss(intent entities.Intent, reason string)
}
