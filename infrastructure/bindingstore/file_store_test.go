package bindingstore

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() *entities.BindingSnapshot {
	taken := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	return &entities.BindingSnapshot{
		TakenAt: taken,
		Host:    "com.example.host",
		Bindings: []entities.Binding{
			{
				CreatedAt: taken.Add(-time.Minute),
				Key:       entities.NewComponentKey("viewer", "com.viewer.Main", entities.KindActivity),
				StubID:    "ui.A0",
				Process:   entities.ProcessTarget{ID: -1, Name: "com.example.host", Kind: entities.ProcessUI},
			},
			{
				CreatedAt: taken,
				Key:       entities.NewComponentKey("viewer", "com.viewer.Sync", entities.KindService),
				StubID:    "auto.S0",
				Process:   entities.ProcessTarget{ID: 0, Name: "com.example.host:p0", Kind: entities.ProcessAuto},
			},
		},
	}
}

func TestFileStore_SaveLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "bindings.yaml")
	store := NewFileStore(WithPath(path))
	assert.Equal(t, path, store.Path())

	want := sampleSnapshot()
	require.NoError(t, store.Save(want))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	got, err := LoadFile(path)
	require.NoError(t, err)
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("snapshot mismatch (-want +got):\n%s", diff)
	}

	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestFileStore_LoadMissing(t *testing.T) {
	store := NewFileStore(WithPath(filepath.Join(t.TempDir(), "none.yaml")))
	snap, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, snap.Bindings)
}

func TestFileStore_LoadCorrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("bindings: {"), 0o600))

	_, err := NewFileStore(WithPath(path)).Load()
	assert.ErrorContains(t, err, "failed to parse binding snapshot")
}
