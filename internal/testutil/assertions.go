// Package testutil provides fixtures and assertions shared by stub host tests.
package testutil

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
	"github.com/reglet-dev/stubhost/host/stubpool"
)

// NewPool builds a pool from a catalogue, failing the test on error.
func NewPool(t *testing.T, c *entities.StubCatalogue) *stubpool.Pool {
	t.Helper()
	pool, err := stubpool.New(c.Expand())
	require.NoError(t, err)
	return pool
}

// Groups returns a catalogue made of the given groups.
func Groups(groups ...entities.StubGroup) *entities.StubCatalogue {
	return &entities.StubCatalogue{Groups: groups}
}

// Group declares count stubs of one bucket.
func Group(prefix string, kind entities.ComponentKind, process entities.ProcessAffinity, count int) entities.StubGroup {
	return entities.StubGroup{Prefix: prefix, Kind: kind, Process: process, Count: count}
}

// RequireBound asserts key is bound in processID and returns the binding.
func RequireBound(t *testing.T, inspector ports.BindingInspector, key entities.PluginComponentKey, processID int) entities.Binding {
	t.Helper()
	b, ok := inspector.Lookup(key, processID)
	require.True(t, ok, "%s not bound in process %d", key, processID)
	return b
}

// AssertUnbound asserts key has no binding in processID.
func AssertUnbound(t *testing.T, inspector ports.BindingInspector, key entities.PluginComponentKey, processID int) {
	t.Helper()
	_, ok := inspector.Lookup(key, processID)
	assert.False(t, ok, "%s still bound in process %d", key, processID)
}

// AssertFree asserts the number of free stubs in one bucket.
func AssertFree(t *testing.T, pool ports.StubPool, kind entities.ComponentKind, affinity entities.ProcessAffinity, mode entities.LaunchModeClass, want int) {
	t.Helper()
	assert.Equal(t, want, pool.FreeCount(kind, affinity, mode), "free %s stubs for %s", kind, affinity)
}

// AssertJSONEqual compares two JSON strings for semantic equality.
func AssertJSONEqual(t *testing.T, expected, actual string, msgAndArgs ...interface{}) {
	t.Helper()
	var expectedJSON, actualJSON interface{}
	require.NoError(t, json.Unmarshal([]byte(expected), &expectedJSON), "expected is not valid JSON")
	require.NoError(t, json.Unmarshal([]byte(actual), &actualJSON), "actual is not valid JSON")
	assert.Equal(t, expectedJSON, actualJSON, msgAndArgs...)
}
