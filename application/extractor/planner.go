// Package extractor turns plugin manifests into launch requests.
package extractor

import (
	"fmt"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// ManifestPlanner plans the launch of every component a manifest declares.
type ManifestPlanner struct {
	parser   ports.ManifestParser
	renderer ports.TemplateEngine
	kinds    map[entities.ComponentKind]bool
}

var _ ports.LaunchPlanner = (*ManifestPlanner)(nil)

// ManifestPlannerOption configures the ManifestPlanner.
type ManifestPlannerOption func(*ManifestPlanner)

// WithParser sets the manifest parser used by PlanBytes.
func WithParser(p ports.ManifestParser) ManifestPlannerOption {
	return func(e *ManifestPlanner) {
		e.parser = p
	}
}

// WithTemplateEngine sets the template engine used by PlanBytes.
func WithTemplateEngine(t ports.TemplateEngine) ManifestPlannerOption {
	return func(e *ManifestPlanner) {
		e.renderer = t
	}
}

// WithKinds restricts planning to the given component kinds.
func WithKinds(kinds ...entities.ComponentKind) ManifestPlannerOption {
	return func(e *ManifestPlanner) {
		e.kinds = make(map[entities.ComponentKind]bool, len(kinds))
		for _, k := range kinds {
			e.kinds[k] = true
		}
	}
}

// NewManifestPlanner creates a new ManifestPlanner.
func NewManifestPlanner(opts ...ManifestPlannerOption) *ManifestPlanner {
	e := &ManifestPlanner{}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Plan returns one launch request per declared component, in declaration
// order. Affinities and launch modes are normalized for the component kind.
func (e *ManifestPlanner) Plan(manifest *entities.PluginManifest) ([]entities.LaunchRequest, error) {
	if manifest == nil || manifest.Name == "" {
		return nil, &domerrors.InvalidRequestError{Field: "plugin", Reason: "must not be empty"}
	}

	seen := make(map[entities.PluginComponentKey]bool, len(manifest.Components))
	reqs := make([]entities.LaunchRequest, 0, len(manifest.Components))
	for _, c := range manifest.Components {
		if c.Class == "" {
			return nil, &domerrors.InvalidRequestError{Field: "class", Reason: "must not be empty"}
		}
		if !c.Kind.Valid() {
			return nil, &domerrors.InvalidRequestError{Field: "kind", Reason: fmt.Sprintf("unknown component kind %q", c.Kind)}
		}
		if err := c.Process.Validate(); err != nil {
			return nil, &domerrors.InvalidRequestError{Field: "process", Reason: err.Error()}
		}

		key := manifest.Key(c)
		if seen[key] {
			return nil, &domerrors.InvalidRequestError{Field: "class", Reason: fmt.Sprintf("%s declared twice", key)}
		}
		seen[key] = true

		if e.kinds != nil && !e.kinds[c.Kind] {
			continue
		}
		reqs = append(reqs, entities.LaunchRequest{
			Key:        key,
			Process:    c.Process.Normalize(),
			LaunchMode: c.LaunchMode.NormalizeFor(c.Kind),
		})
	}
	return reqs, nil
}

// PlanBytes renders and parses a raw manifest, then plans it.
func (e *ManifestPlanner) PlanBytes(raw []byte, config map[string]interface{}) ([]entities.LaunchRequest, error) {
	if e.parser == nil {
		return nil, fmt.Errorf("manifest parser is required")
	}

	data := raw
	if e.renderer != nil {
		var err error
		data, err = e.renderer.Render(data, config)
		if err != nil {
			return nil, fmt.Errorf("failed to render manifest: %w", err)
		}
	}

	manifest, err := e.parser.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse manifest: %w", err)
	}
	return e.Plan(manifest)
}
