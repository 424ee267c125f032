package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// IntentResolver finds the plugin components that accept an intent.
type IntentResolver interface {
	Resolve(intent entities.Intent, manifests []*entities.PluginManifest) []entities.ComponentMatch
}
