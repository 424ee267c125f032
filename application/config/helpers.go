package config

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/errors"
)

// Values is a generic key-value map, as decoded from YAML or --set flags.
type Values = map[string]any

// GetString extracts a string from values, returning (value, found).
func GetString(values Values, key string) (string, bool) {
	v, ok := values[key]
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// GetInt extracts an int from values, handling int, int64, float64 and
// numeric strings.
func GetInt(values Values, key string) (int, bool) {
	v, ok := values[key]
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		i, err := strconv.Atoi(n)
		return i, err == nil
	default:
		return 0, false
	}
}

// MustGetInt extracts a required int from values or returns error.
func MustGetInt(values Values, key string) (int, error) {
	i, ok := GetInt(values, key)
	if !ok {
		return 0, &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required int field '%s' is missing or not a number", key),
		}
	}
	return i, nil
}

// MustGetString extracts a required string from values or returns error.
func MustGetString(values Values, key string) (string, error) {
	s, ok := GetString(values, key)
	if !ok {
		return "", &errors.ConfigError{
			Field: key,
			Err:   fmt.Errorf("required string field '%s' is missing or not a string", key),
		}
	}
	return s, nil
}

// ParseSet parses "key=value" pairs into Values. Dotted keys build nested maps.
func ParseSet(pairs []string) (Values, error) {
	out := Values{}
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, &errors.ConfigError{Field: pair, Err: fmt.Errorf("expected key=value")}
		}
		parts := strings.Split(key, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			next, ok := m[p].(Values)
			if !ok {
				next = Values{}
				m[p] = next
			}
			m = next
		}
		m[parts[len(parts)-1]] = value
	}
	return out, nil
}

// Apply copies recognized host settings from values onto cfg.
// Unknown keys are ignored; known keys with the wrong type are errors.
func Apply(cfg *entities.Config, values Values) error {
	if _, ok := values["host_name"]; ok {
		s, err := MustGetString(values, "host_name")
		if err != nil {
			return err
		}
		cfg.HostName = s
	}
	for key, dst := range map[string]*int{
		"process_slots":    &cfg.ProcessSlots,
		"plugins_per_slot": &cfg.PluginsPerSlot,
	} {
		if _, ok := values[key]; !ok {
			continue
		}
		n, err := MustGetInt(values, key)
		if err != nil {
			return err
		}
		*dst = n
	}
	for key, dst := range map[string]*string{
		"log_level":  &cfg.LogLevel,
		"log_format": &cfg.LogFormat,
		"catalogue":  &cfg.CataloguePath,
		"snapshot":   &cfg.SnapshotPath,
	} {
		if _, ok := values[key]; !ok {
			continue
		}
		s, err := MustGetString(values, key)
		if err != nil {
			return err
		}
		*dst = s
	}
	return nil
}
