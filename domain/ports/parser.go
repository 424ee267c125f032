package ports

import "github.com/reglet-dev/stubhost/domain/entities"

// ManifestParser parses raw bytes into a PluginManifest.
type ManifestParser interface {
	Parse(data []byte) (*entities.PluginManifest, error)
}

// CatalogueParser parses raw bytes into a StubCatalogue.
// The document is also returned in generic form for schema validation.
type CatalogueParser interface {
	Parse(data []byte) (*entities.StubCatalogue, map[string]any, error)
}
