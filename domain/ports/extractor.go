package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// LaunchPlanner turns a plugin manifest into the launch requests for its components.
type LaunchPlanner interface {
	Plan(manifest *entities.PluginManifest) ([]entities.LaunchRequest, error)
}
