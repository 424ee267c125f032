// Package config loads host configuration files.
package config

import (
	"fmt"
	"os"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/errors"
	"gopkg.in/yaml.v3"
)

// File is the on-disk host configuration. Values feed document templates.
type File struct {
	entities.Config `yaml:",inline"`
	Values          Values `yaml:"values,omitempty"`
}

// Parse decodes a configuration document over the defaults.
func Parse(data []byte) (*File, error) {
	f := &File{Config: entities.DefaultConfig()}
	if err := yaml.Unmarshal(data, f); err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("failed to parse config: %w", err)}
	}
	if f.Values == nil {
		f.Values = Values{}
	}
	return f, nil
}

// Load reads and parses the configuration file at path. An empty path
// yields the defaults.
func Load(path string) (*File, error) {
	if path == "" {
		return &File{Config: entities.DefaultConfig(), Values: Values{}}, nil
	}
	data, err := os.ReadFile(path) // #nosec G304 -- user-selected config file
	if err != nil {
		return nil, &errors.ConfigError{Err: fmt.Errorf("failed to read config %s: %w", path, err)}
	}
	return Parse(data)
}
