package extractor_test

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/reglet-dev/stubhost/application/extractor"
	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// mockParser implements ports.ManifestParser
type mockParser struct {
	manifest *entities.PluginManifest
	err      error
	got      []byte
}

func (m *mockParser) Parse(data []byte) (*entities.PluginManifest, error) {
	m.got = data
	return m.manifest, m.err
}

// mockRenderer implements ports.TemplateEngine
type mockRenderer struct {
	output []byte
	err    error
}

func (m *mockRenderer) Render(template []byte, data map[string]interface{}) ([]byte, error) {
	return m.output, m.err
}

func demoManifest() *entities.PluginManifest {
	return &entities.PluginManifest{
		Name: "demo",
		Components: []entities.ComponentDecl{
			{Class: "com.demo.Main", Kind: entities.KindActivity},
			{Class: "com.demo.Settings", Kind: entities.KindActivity, Process: entities.UI(),
				LaunchMode: entities.NewLaunchModeClass(entities.LaunchSingleTask, entities.ThemeTranslucent)},
			{Class: "com.demo.Sync", Kind: entities.KindService, Process: entities.Named(":sync"),
				LaunchMode: entities.NewLaunchModeClass(entities.LaunchSingleTop, entities.ThemeDefault)},
			{Class: "com.demo.Boot", Kind: entities.KindReceiver, Process: entities.Persistent()},
		},
	}
}

func TestManifestPlanner_Plan(t *testing.T) {
	planner := extractor.NewManifestPlanner()

	reqs, err := planner.Plan(demoManifest())
	require.NoError(t, err)

	want := []entities.LaunchRequest{
		{Key: entities.NewComponentKey("demo", "com.demo.Main", entities.KindActivity), Process: entities.Auto(), LaunchMode: entities.Standard},
		{Key: entities.NewComponentKey("demo", "com.demo.Settings", entities.KindActivity), Process: entities.UI(),
			LaunchMode: entities.NewLaunchModeClass(entities.LaunchSingleTask, entities.ThemeTranslucent)},
		{Key: entities.NewComponentKey("demo", "com.demo.Sync", entities.KindService), Process: entities.Named(":sync")},
		{Key: entities.NewComponentKey("demo", "com.demo.Boot", entities.KindReceiver), Process: entities.Persistent()},
	}
	if diff := cmp.Diff(want, reqs); diff != "" {
		t.Errorf("Plan() mismatch (-want +got):\n%s", diff)
	}
}

func TestManifestPlanner_WithKinds(t *testing.T) {
	planner := extractor.NewManifestPlanner(extractor.WithKinds(entities.KindService, entities.KindReceiver))

	reqs, err := planner.Plan(demoManifest())
	require.NoError(t, err)
	require.Len(t, reqs, 2)
	assert.Equal(t, "com.demo.Sync", reqs[0].Key.Class)
	assert.Equal(t, "com.demo.Boot", reqs[1].Key.Class)
}

func TestManifestPlanner_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		manifest  *entities.PluginManifest
		wantField string
	}{
		{"nil manifest", nil, "plugin"},
		{"no name", &entities.PluginManifest{}, "plugin"},
		{"no class", &entities.PluginManifest{Name: "p", Components: []entities.ComponentDecl{{Kind: entities.KindService}}}, "class"},
		{"bad kind", &entities.PluginManifest{Name: "p", Components: []entities.ComponentDecl{{Class: "C", Kind: "widget"}}}, "kind"},
		{"bad process", &entities.PluginManifest{Name: "p", Components: []entities.ComponentDecl{
			{Class: "C", Kind: entities.KindService, Process: entities.ProcessAffinity{Kind: entities.AffinityNamed}},
		}}, "process"},
		{"declared twice", &entities.PluginManifest{Name: "p", Components: []entities.ComponentDecl{
			{Class: "C", Kind: entities.KindService},
			{Class: "C", Kind: entities.KindService},
		}}, "class"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := extractor.NewManifestPlanner().Plan(tt.manifest)
			var invalid *domerrors.InvalidRequestError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantField, invalid.Field)
		})
	}
}

func TestManifestPlanner_PlanBytes(t *testing.T) {
	t.Run("renders before parsing", func(t *testing.T) {
		parser := &mockParser{manifest: demoManifest()}
		renderer := &mockRenderer{output: []byte("rendered")}
		planner := extractor.NewManifestPlanner(extractor.WithParser(parser), extractor.WithTemplateEngine(renderer))

		reqs, err := planner.PlanBytes([]byte("raw"), nil)
		require.NoError(t, err)
		assert.Len(t, reqs, 4)
		assert.Equal(t, "rendered", string(parser.got))
	})

	t.Run("requires a parser", func(t *testing.T) {
		_, err := extractor.NewManifestPlanner().PlanBytes([]byte("raw"), nil)
		assert.EqualError(t, err, "manifest parser is required")
	})

	t.Run("render error", func(t *testing.T) {
		planner := extractor.NewManifestPlanner(
			extractor.WithParser(&mockParser{}),
			extractor.WithTemplateEngine(&mockRenderer{err: errors.New("boom")}),
		)
		_, err := planner.PlanBytes([]byte("raw"), nil)
		assert.ErrorContains(t, err, "failed to render manifest: boom")
	})

	t.Run("parse error", func(t *testing.T) {
		planner := extractor.NewManifestPlanner(extractor.WithParser(&mockParser{err: errors.New("bad yaml")}))
		_, err := planner.PlanBytes([]byte("raw"), nil)
		assert.ErrorContains(t, err, "failed to parse manifest: bad yaml")
	})
}
