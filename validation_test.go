package stubhost

import (
	"testing"

	"github.com/reglet-dev/stubhost/domain/entities"
	domerrors "github.com/reglet-dev/stubhost/domain/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name      string
		cfg       entities.Config
		wantField string
	}{
		{name: "defaults", cfg: entities.DefaultConfig()},
		{name: "options", cfg: entities.NewConfig(entities.WithHostName("demo"), entities.WithProcessSlots(8))},
		{
			name:      "no host name",
			cfg:       entities.Config{ProcessSlots: 1, PluginsPerSlot: 1},
			wantField: "host_name",
		},
		{
			name:      "zero slots",
			cfg:       entities.Config{HostName: "h", PluginsPerSlot: 1},
			wantField: "process_slots",
		},
		{
			name:      "too many slots",
			cfg:       entities.Config{HostName: "h", ProcessSlots: 65, PluginsPerSlot: 1},
			wantField: "process_slots",
		},
		{
			name:      "unknown log level",
			cfg:       entities.NewConfig(entities.WithLogLevel("trace")),
			wantField: "log_level",
		},
		{
			name:      "unknown log format",
			cfg:       entities.NewConfig(entities.WithLogFormat("xml")),
			wantField: "log_format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateConfig(tt.cfg)
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			var cfgErr *domerrors.ConfigError
			require.ErrorAs(t, err, &cfgErr)
			assert.Equal(t, tt.wantField, cfgErr.Field)
			assert.Equal(t, "config", cfgErr.ToErrorDetail().Type)
		})
	}
}
