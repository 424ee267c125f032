package host

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/reglet-dev/stubhost/application/schema"
	apptemplate "github.com/reglet-dev/stubhost/application/template"
	"github.com/reglet-dev/stubhost/application/validation"
	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
	"github.com/reglet-dev/stubhost/infrastructure/parser"
)

// loaderConfig holds configuration for the Loader.
type loaderConfig struct {
	templateEngine  ports.TemplateEngine
	parser          ports.ManifestParser
	validator       ports.DocumentValidator
	host            entities.Config
	strictTemplates bool // Fail on missing template keys
}

func defaultLoaderConfig() loaderConfig {
	return loaderConfig{
		parser:          parser.NewYamlManifestParser(),
		host:            entities.DefaultConfig(),
		strictTemplates: true,
	}
}

// Loader runs the document pipeline: render, parse, schema check, struct check.
type Loader struct {
	config loaderConfig
}

// LoaderOption configures the Loader.
type LoaderOption func(*loaderConfig)

// WithParser sets a custom manifest parser.
func WithParser(p ports.ManifestParser) LoaderOption {
	return func(c *loaderConfig) {
		c.parser = p
	}
}

// WithTemplateEngine sets a template engine.
func WithTemplateEngine(t ports.TemplateEngine) LoaderOption {
	return func(c *loaderConfig) {
		c.templateEngine = t
	}
}

// WithValidator sets the document validator.
func WithValidator(v ports.DocumentValidator) LoaderOption {
	return func(c *loaderConfig) {
		c.validator = v
	}
}

// WithHostConfig exposes the host configuration to document templates.
func WithHostConfig(cfg entities.Config) LoaderOption {
	return func(c *loaderConfig) {
		c.host = cfg
	}
}

// WithStrictTemplates enables/disables strict template mode.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrictTemplates(enabled bool) LoaderOption {
	return func(c *loaderConfig) {
		c.strictTemplates = enabled
	}
}

// NewLoader creates a new Loader with defaults.
func NewLoader(opts ...LoaderOption) *Loader {
	cfg := defaultLoaderConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	if cfg.templateEngine == nil {
		cfg.templateEngine = apptemplate.NewGoTemplateEngine(
			apptemplate.WithStrict(cfg.strictTemplates),
			apptemplate.WithHost(cfg.host),
		)
	}
	if cfg.validator == nil {
		cfg.validator = validation.NewValidator()
	}
	return &Loader{config: cfg}
}

// LoadCatalogueFile reads and loads the catalogue at path.
func (l *Loader) LoadCatalogueFile(path string, values map[string]interface{}) (*entities.StubCatalogue, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- catalogue path comes from host config
	if err != nil {
		return nil, &domerrors.CatalogueError{Path: path, Err: err}
	}
	return l.LoadCatalogue(path, raw, values)
}

// LoadCatalogue loads a catalogue document. The format is chosen from the
// extension of path, which is also used in error messages.
func (l *Loader) LoadCatalogue(path string, raw []byte, values map[string]interface{}) (*entities.StubCatalogue, error) {
	p, err := parser.CatalogueParserFor(path)
	if err != nil {
		return nil, &domerrors.CatalogueError{Path: path, Err: err}
	}

	data, err := l.config.templateEngine.Render(raw, values)
	if err != nil {
		return nil, &domerrors.CatalogueError{Path: path, Err: fmt.Errorf("failed to render catalogue: %w", err)}
	}

	catalogue, doc, err := p.Parse(data)
	if err != nil {
		return nil, &domerrors.CatalogueError{Path: path, Err: err}
	}

	if err := l.validate(schema.KindCatalogue, doc, catalogue); err != nil {
		return nil, &domerrors.CatalogueError{Path: path, Err: err}
	}
	if id, dup := duplicateStubID(catalogue); dup {
		return nil, &domerrors.CatalogueError{Path: path, StubID: id, Err: fmt.Errorf("duplicate stub id")}
	}
	return catalogue, nil
}

// LoadManifestFile reads and loads the plugin manifest at path.
func (l *Loader) LoadManifestFile(path string, values map[string]interface{}) (*entities.PluginManifest, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- manifest paths come from discovery
	if err != nil {
		return nil, fmt.Errorf("failed to read manifest: %w", err)
	}
	m, err := l.LoadManifest(raw, values)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

// LoadManifest loads, parses, and validates a plugin manifest.
func (l *Loader) LoadManifest(raw []byte, values map[string]interface{}) (*entities.PluginManifest, error) {
	data, err := l.config.templateEngine.Render(raw, values)
	if err != nil {
		return nil, fmt.Errorf("failed to render manifest: %w", err)
	}

	manifest, err := l.config.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}

	var doc map[string]any
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	if err := l.validate(schema.KindManifest, doc, manifest); err != nil {
		return nil, err
	}
	return manifest, nil
}

func (l *Loader) validate(kind string, doc map[string]any, typed any) error {
	res, err := l.config.validator.ValidateDocument(kind, doc)
	if err != nil {
		return fmt.Errorf("validation error: %w", err)
	}
	if !res.Valid {
		var b strings.Builder
		b.WriteString(kind + " validation failed:")
		for _, e := range res.Errors {
			fmt.Fprintf(&b, "\n- %s: %s", e.Field, e.Message)
		}
		return &domerrors.SchemaError{Type: kind, Err: fmt.Errorf("%s", b.String())}
	}
	return l.config.validator.ValidateStruct(typed)
}

// duplicateStubID returns the first stub id that appears twice after expansion.
func duplicateStubID(c *entities.StubCatalogue) (string, bool) {
	seen := make(map[string]bool)
	for _, s := range c.Expand() {
		if seen[s.ID] {
			return s.ID, true
		}
		seen[s.ID] = true
	}
	return "", false
}
