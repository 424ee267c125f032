package entities

// Config represents host configuration settings.
// These settings size the process slots and control logging and persistence.
type Config struct {
	// HostName is the host package name; process names are derived from it.
	HostName string `json:"host_name" yaml:"host_name" validate:"required"`

	// ProcessSlots is the number of reusable auto process slots.
	ProcessSlots int `json:"process_slots" yaml:"process_slots" validate:"min=1,max=64"`

	// PluginsPerSlot is how many distinct plugins may share one auto slot.
	PluginsPerSlot int `json:"plugins_per_slot" yaml:"plugins_per_slot" validate:"min=1"`

	// LogLevel is the logging verbosity level ("debug", "info", "warn", "error").
	LogLevel string `json:"log_level,omitempty" yaml:"log_level,omitempty" validate:"omitempty,oneof=debug info warn error"`

	// LogFormat is the log output format ("text" or "json").
	LogFormat string `json:"log_format,omitempty" yaml:"log_format,omitempty" validate:"omitempty,oneof=text json"`

	// CataloguePath is the stub catalogue file (.yaml, .yml or .hcl).
	CataloguePath string `json:"catalogue,omitempty" yaml:"catalogue,omitempty"`

	// SnapshotPath, when set, receives the live bindings on Close.
	SnapshotPath string `json:"snapshot,omitempty" yaml:"snapshot,omitempty"`
}

// DefaultConfig returns the default host configuration: three auto slots,
// one plugin per slot.
func DefaultConfig() Config {
	return Config{
		HostName:       "host",
		ProcessSlots:   3,
		PluginsPerSlot: 1,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// ConfigOption is a functional option for configuring host settings.
type ConfigOption func(*Config)

// WithHostName sets the host package name.
func WithHostName(name string) ConfigOption {
	return func(c *Config) {
		if name != "" {
			c.HostName = name
		}
	}
}

// WithProcessSlots sets the number of auto process slots.
func WithProcessSlots(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.ProcessSlots = n
		}
	}
}

// WithPluginsPerSlot sets how many plugins may share an auto slot.
func WithPluginsPerSlot(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.PluginsPerSlot = n
		}
	}
}

// WithLogLevel sets the logging verbosity level.
func WithLogLevel(level string) ConfigOption {
	return func(c *Config) {
		c.LogLevel = level
	}
}

// WithLogFormat sets the log output format.
func WithLogFormat(format string) ConfigOption {
	return func(c *Config) {
		c.LogFormat = format
	}
}

// WithCataloguePath sets the stub catalogue path.
func WithCataloguePath(path string) ConfigOption {
	return func(c *Config) {
		c.CataloguePath = path
	}
}

// WithSnapshotPath sets where live bindings are written on Close.
func WithSnapshotPath(path string) ConfigOption {
	return func(c *Config) {
		c.SnapshotPath = path
	}
}

// NewConfig creates a new Config with the given options.
func NewConfig(opts ...ConfigOption) Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return cfg
}
