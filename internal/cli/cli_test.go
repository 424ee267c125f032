package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/infrastructure/bindingstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testCatalogue = `
host: demo
stubs:
  - id: ui.A0
    kind: activity
    process: ui
groups:
  - prefix: auto.S
    kind: service
    count: 2
`

const testManifest = `
name: viewer
components:
  - class: com.viewer.Main
    kind: activity
    process: ui
    exported: true
    filters:
      - actions: [view]
        data:
          - scheme: https
            path_pattern: "/docs.*"
            path_prefix: /docs
  - class: com.viewer.Sync
    kind: service
  - class: com.viewer.Extra
    kind: activity
    process: ui
`

// fixture writes a catalogue and one plugin manifest and returns their
// locations.
func fixture(t *testing.T) (catalogue, plugins string) {
	t.Helper()
	dir := t.TempDir()
	catalogue = filepath.Join(dir, "stubs.yaml")
	require.NoError(t, os.WriteFile(catalogue, []byte(testCatalogue), 0o600))

	plugins = filepath.Join(dir, "plugins")
	require.NoError(t, os.MkdirAll(filepath.Join(plugins, "viewer"), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(plugins, "viewer", "plugin.yaml"), []byte(testManifest), 0o600))
	return catalogue, plugins
}

func run(t *testing.T, args ...string) (stdout, stderr string, code int) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCommand(&out, &errOut)
	cmd.SetArgs(args)
	code = Execute(cmd)
	return out.String(), errOut.String(), code
}

func TestCatalogueValidate(t *testing.T) {
	catalogue, _ := fixture(t)

	out, stderr, code := run(t, "catalogue", "validate", catalogue)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "3 stubs")
	for _, id := range []string{"ui.A0", "auto.S0", "auto.S1"} {
		assert.Contains(t, out, id)
	}
}

func TestCatalogueValidate_JSON(t *testing.T) {
	catalogue, _ := fixture(t)

	out, stderr, code := run(t, "--json", "--catalogue", catalogue, "catalogue", "validate")
	require.Equal(t, 0, code, stderr)

	var stubs []entities.StubDescriptor
	require.NoError(t, json.Unmarshal([]byte(out), &stubs))
	require.Len(t, stubs, 3)
	assert.Equal(t, entities.UI(), stubs[0].Affinity)
	assert.Equal(t, entities.Standard, stubs[0].LaunchMode)
}

func TestCatalogueValidate_Errors(t *testing.T) {
	t.Run("no catalogue", func(t *testing.T) {
		_, stderr, code := run(t, "catalogue", "validate")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "no catalogue given")
	})

	t.Run("json error detail", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "bad.yaml")
		require.NoError(t, os.WriteFile(path, []byte("stubs:\n  - id: x\n    kind: widget\n"), 0o600))

		_, stderr, code := run(t, "--json", "catalogue", "validate", path)
		assert.Equal(t, 1, code)

		var body struct {
			Error entities.ErrorDetail `json:"error"`
		}
		require.NoError(t, json.Unmarshal([]byte(stderr), &body))
		assert.Equal(t, "catalogue", body.Error.Code)
	})

	t.Run("invalid config", func(t *testing.T) {
		_, stderr, code := run(t, "--slots", "100", "schema")
		assert.Equal(t, 1, code)
		assert.Contains(t, stderr, "process_slots")
	})
}

func TestSchema(t *testing.T) {
	out, _, code := run(t, "schema")
	require.Equal(t, 0, code)
	assert.Equal(t, []string{"catalogue", "config", "manifest", "snapshot"}, strings.Fields(out))

	out, _, code = run(t, "schema", "manifest")
	require.Equal(t, 0, code)
	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Contains(t, doc["properties"], "components")

	_, _, code = run(t, "schema", "plugin")
	assert.Equal(t, 1, code)
}

func TestPlan(t *testing.T) {
	catalogue, plugins := fixture(t)

	out, stderr, code := run(t, "--host", "demo", "--catalogue", catalogue, "plan", plugins)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "Bindings (2)")
	assert.Contains(t, out, "demo:p0#0")
	assert.Contains(t, out, "Unbound (1)")
	assert.Contains(t, out, "stub_exhausted")
}

func TestPlan_JSON(t *testing.T) {
	catalogue, plugins := fixture(t)
	save := filepath.Join(t.TempDir(), "bindings.yaml")

	out, stderr, code := run(t, "--json", "--host", "demo", "--catalogue", catalogue, "plan", plugins, "--save", save)
	require.Equal(t, 0, code, stderr)

	var result planResult
	require.NoError(t, json.Unmarshal([]byte(out), &result))
	require.Len(t, result.Bindings, 2)
	assert.Equal(t, "ui.A0", result.Bindings[0].StubID, "ui process sorts first")
	assert.Equal(t, "auto.S0", result.Bindings[1].StubID)
	require.Len(t, result.Failures, 1)
	assert.Equal(t, "com.viewer.Extra", result.Failures[0].Key.Class)

	snap, err := bindingstore.LoadFile(save)
	require.NoError(t, err)
	assert.Equal(t, "demo", snap.Host)
	assert.Len(t, snap.Bindings, 2)
}

func TestResolve(t *testing.T) {
	_, plugins := fixture(t)

	out, stderr, code := run(t, "--json", "resolve", plugins, "--action", "view", "--data", "https://example.com/docs/a")
	require.Equal(t, 0, code, stderr)

	var matches []entities.ComponentMatch
	require.NoError(t, json.Unmarshal([]byte(out), &matches))
	require.Len(t, matches, 1)
	assert.Equal(t, "com.viewer.Main", matches[0].Key.Class)

	out, _, code = run(t, "resolve", plugins, "--action", "view", "--data", "https://example.com/blog")
	require.Equal(t, 0, code)
	assert.Contains(t, out, "No component accepts the intent.")
}

func TestDiff(t *testing.T) {
	dir := t.TempDir()
	key := entities.NewComponentKey("viewer", "com.viewer.Sync", entities.KindService)
	oldSnap := &entities.BindingSnapshot{Host: "demo", Bindings: []entities.Binding{
		{Key: key, StubID: "auto.S0", Process: entities.ProcessTarget{ID: 0, Name: "demo:p0", Kind: entities.ProcessAuto}},
	}}
	newSnap := &entities.BindingSnapshot{Host: "demo", Bindings: []entities.Binding{
		{Key: key, StubID: "auto.S1", Process: entities.ProcessTarget{ID: 1, Name: "demo:p1", Kind: entities.ProcessAuto}},
	}}

	oldPath, newPath := filepath.Join(dir, "old.yaml"), filepath.Join(dir, "new.yaml")
	require.NoError(t, bindingstore.NewFileStore(bindingstore.WithPath(oldPath)).Save(oldSnap))
	require.NoError(t, bindingstore.NewFileStore(bindingstore.WithPath(newPath)).Save(newSnap))

	out, stderr, code := run(t, "diff", oldPath, newPath)
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, out, "-viewer/com.viewer.Sync (service) -> auto.S0 @ demo:p0#0")
	assert.Contains(t, out, "+viewer/com.viewer.Sync (service) -> auto.S1 @ demo:p1#1")

	out, _, code = run(t, "diff", oldPath, oldPath)
	require.Equal(t, 0, code)
	assert.Contains(t, out, "Snapshots bind the same components.")
}

func TestDiffSnapshots_Identical(t *testing.T) {
	snap := &entities.BindingSnapshot{}
	out, err := DiffSnapshots("a", "b", snap, snap, 3)
	require.NoError(t, err)
	assert.Empty(t, out)
}
