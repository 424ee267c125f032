package host_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/host"
	"github.com/stretchr/testify/suite"
)

// LoaderIntegrationSuite tests the Loader with the real parsers and validator.
type LoaderIntegrationSuite struct {
	suite.Suite
	loader *host.Loader
}

func (s *LoaderIntegrationSuite) SetupTest() {
	cfg := entities.NewConfig(entities.WithHostName("com.example.host"), entities.WithProcessSlots(2))
	s.loader = host.NewLoader(host.WithHostConfig(cfg))
}

func (s *LoaderIntegrationSuite) TestValidCatalogue() {
	doc := `
host: {{.host.name}}
stubs:
  - id: ui.A0
    kind: activity
    process: ui
groups:
  - prefix: auto.S
    kind: service
    count: {{.host.process_slots}}
`
	catalogue, err := s.loader.LoadCatalogue("stubs.yaml", []byte(doc), nil)
	s.Require().NoError(err)
	s.Equal("com.example.host", catalogue.Host)
	s.Len(catalogue.Expand(), 3)
}

func (s *LoaderIntegrationSuite) TestHclCatalogue() {
	doc := `
stub "ui.A0" {
  kind    = "activity"
  process = "ui"
}

group "auto.A" {
  kind  = "activity"
  count = {{.config.count}}
}
`
	catalogue, err := s.loader.LoadCatalogue("stubs.hcl", []byte(doc), map[string]interface{}{"count": 2})
	s.Require().NoError(err)
	s.Len(catalogue.Expand(), 3)
}

func (s *LoaderIntegrationSuite) TestCatalogueSchemaViolation() {
	doc := `
stubs:
  - id: ui.A0
    kind: widget
`
	_, err := s.loader.LoadCatalogue("stubs.yaml", []byte(doc), nil)
	s.Require().Error(err)

	var catErr *domerrors.CatalogueError
	s.Require().ErrorAs(err, &catErr)
	s.Equal("stubs.yaml", catErr.Path)

	var schemaErr *domerrors.SchemaError
	s.ErrorAs(err, &schemaErr)
}

func (s *LoaderIntegrationSuite) TestCatalogueDuplicateIDs() {
	doc := `
stubs:
  - id: auto.S0
    kind: service
groups:
  - prefix: auto.S
    kind: service
    count: 2
`
	_, err := s.loader.LoadCatalogue("stubs.yaml", []byte(doc), nil)

	var catErr *domerrors.CatalogueError
	s.Require().ErrorAs(err, &catErr)
	s.Equal("auto.S0", catErr.StubID)
}

func (s *LoaderIntegrationSuite) TestCatalogueUnsupportedFormat() {
	_, err := s.loader.LoadCatalogue("stubs.toml", []byte(""), nil)
	s.ErrorContains(err, "unsupported catalogue format")
}

func (s *LoaderIntegrationSuite) TestCatalogueMissingTemplateKey() {
	_, err := s.loader.LoadCatalogue("stubs.yaml", []byte("host: {{.config.missing}}"), nil)
	s.ErrorContains(err, "failed to render catalogue")
}

func (s *LoaderIntegrationSuite) TestCatalogueFile() {
	path := filepath.Join(s.T().TempDir(), "stubs.yml")
	s.Require().NoError(os.WriteFile(path, []byte("stubs:\n  - id: g.S0\n    kind: service\n    process: persistent\n"), 0o600))

	catalogue, err := s.loader.LoadCatalogueFile(path, nil)
	s.Require().NoError(err)
	s.Equal(entities.Persistent(), catalogue.Stubs[0].Process)

	_, err = s.loader.LoadCatalogueFile(filepath.Join(s.T().TempDir(), "missing.yaml"), nil)
	s.Error(err)
}

func (s *LoaderIntegrationSuite) TestValidManifest() {
	doc := `
name: viewer
version: "1.0.0"
components:
  - class: com.viewer.Main
    kind: activity
    exported: true
    filters:
      - actions: [view]
        data:
          - scheme: https
            path_pattern: "/docs.*"
            path_prefix: /docs
  - class: com.viewer.Sync
    kind: service
    process: "named::sync"
`
	manifest, err := s.loader.LoadManifest([]byte(doc), nil)
	s.Require().NoError(err)
	s.Equal("viewer", manifest.Name)
	s.Require().Len(manifest.Components, 2)
	s.Equal(entities.MatchPrefix, manifest.Components[0].Filters[0].Data[0].MatchKind())
	s.Equal(entities.Named(":sync"), manifest.Components[1].Process)
}

func (s *LoaderIntegrationSuite) TestInvalidYAML() {
	_, err := s.loader.LoadManifest([]byte("name: [unclosed"), nil)
	s.ErrorContains(err, "failed to parse manifest")
}

func (s *LoaderIntegrationSuite) TestManifestMissingName() {
	_, err := s.loader.LoadManifest([]byte("components: []\n"), nil)
	s.ErrorContains(err, "manifest validation failed")
}

func (s *LoaderIntegrationSuite) TestManifestUnknownField() {
	doc := `
name: viewer
components: []
capabilities: []
`
	_, err := s.loader.LoadManifest([]byte(doc), nil)
	s.Error(err)
}

func TestLoaderIntegrationSuite(t *testing.T) {
	suite.Run(t, new(LoaderIntegrationSuite))
}
