package schema

import (
	"encoding/json"
	"errors"
	"testing"

	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decode(t *testing.T, data []byte) map[string]any {
	t.Helper()
	var m map[string]any
	require.NoError(t, json.Unmarshal(data, &m))
	return m
}

func TestForKind_Catalogue(t *testing.T) {
	data, err := ForKind(KindCatalogue)
	require.NoError(t, err)

	s := decode(t, data)
	assert.Equal(t, "object", s["type"])
	props := s["properties"].(map[string]any)
	assert.Contains(t, props, "host")
	assert.Contains(t, props, "stubs")
	assert.Contains(t, props, "groups")

	defs := s["$defs"].(map[string]any)
	spec := defs["StubSpec"].(map[string]any)
	assert.ElementsMatch(t, []any{"id", "kind"}, spec["required"])

	specProps := spec["properties"].(map[string]any)
	process := specProps["process"].(map[string]any)
	assert.Equal(t, "string", process["type"])
	kind := specProps["kind"].(map[string]any)
	assert.Equal(t, []any{"activity", "service", "receiver", "provider"}, kind["enum"])
}

func TestForKind_AllKinds(t *testing.T) {
	for _, kind := range Kinds() {
		t.Run(kind, func(t *testing.T) {
			data, err := ForKind(kind)
			require.NoError(t, err)
			assert.True(t, json.Valid(data))
		})
	}
}

func TestForKind_Unknown(t *testing.T) {
	_, err := ForKind("widget")
	var schemaErr *domerrors.SchemaError
	require.True(t, errors.As(err, &schemaErr))
	assert.Equal(t, "widget", schemaErr.Type)
}

func TestKinds(t *testing.T) {
	assert.Equal(t, []string{"catalogue", "config", "manifest", "snapshot"}, Kinds())
}
