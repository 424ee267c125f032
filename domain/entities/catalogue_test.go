package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubCatalogue_Expand(t *testing.T) {
	c := &StubCatalogue{
		Host: "host",
		Stubs: []StubSpec{
			{ID: "ui.A", Kind: KindActivity, Process: UI()},
			{ID: "guard.S", Kind: KindService, Process: Persistent(), LaunchMode: Standard},
		},
		Groups: []StubGroup{
			{Prefix: "p0.T", Kind: KindActivity, Process: AutoSlot("p0"), LaunchMode: NewLaunchModeClass(LaunchSingleTask, ThemeDefault), Count: 2},
		},
	}

	got := c.Expand()
	require.Len(t, got, 4)

	ids := make([]string, 0, len(got))
	for _, s := range got {
		ids = append(ids, s.ID)
	}
	assert.Equal(t, []string{"ui.A", "guard.S", "p0.T0", "p0.T1"}, ids)

	assert.Equal(t, Standard, got[0].LaunchMode)
	assert.True(t, got[1].LaunchMode.IsZero())
	assert.Equal(t, LaunchSingleTask, got[3].LaunchMode.Mode)
	assert.Equal(t, AutoSlot("p0"), got[3].Process)
}

func TestComponentKind(t *testing.T) {
	k, err := ParseComponentKind(" Service ")
	require.NoError(t, err)
	assert.Equal(t, KindService, k)

	_, err = ParseComponentKind("widget")
	assert.Error(t, err)

	for _, kind := range ComponentKinds {
		assert.True(t, kind.Valid())
	}
	assert.False(t, ComponentKind("").Valid())
}

func TestNewConfig(t *testing.T) {
	cfg := NewConfig(
		WithHostName("com.example.host"),
		WithProcessSlots(5),
		WithPluginsPerSlot(0),
		WithLogLevel("debug"),
		WithSnapshotPath("bindings.yaml"),
	)

	assert.Equal(t, "com.example.host", cfg.HostName)
	assert.Equal(t, 5, cfg.ProcessSlots)
	assert.Equal(t, 1, cfg.PluginsPerSlot)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "bindings.yaml", cfg.SnapshotPath)
}
