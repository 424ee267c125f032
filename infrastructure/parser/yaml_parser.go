// Package parser decodes plugin manifests and stub catalogues.
package parser

import (
	"fmt"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
	"gopkg.in/yaml.v3"
)

// YamlManifestParser implements ManifestParser for YAML.
type YamlManifestParser struct{}

// NewYamlManifestParser creates a new YamlManifestParser.
func NewYamlManifestParser() ports.ManifestParser {
	return &YamlManifestParser{}
}

// Parse unmarshals YAML bytes into a PluginManifest struct.
func (p *YamlManifestParser) Parse(data []byte) (*entities.PluginManifest, error) {
	var manifest entities.PluginManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// YamlCatalogueParser implements CatalogueParser for YAML.
type YamlCatalogueParser struct{}

// NewYamlCatalogueParser creates a new YamlCatalogueParser.
func NewYamlCatalogueParser() ports.CatalogueParser {
	return &YamlCatalogueParser{}
}

// Parse unmarshals YAML bytes into a StubCatalogue and its generic form.
func (p *YamlCatalogueParser) Parse(data []byte) (*entities.StubCatalogue, map[string]any, error) {
	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, err
	}
	if doc == nil {
		return nil, nil, fmt.Errorf("empty catalogue document")
	}

	var catalogue entities.StubCatalogue
	if err := yaml.Unmarshal(data, &catalogue); err != nil {
		return nil, nil, err
	}
	return &catalogue, doc, nil
}
