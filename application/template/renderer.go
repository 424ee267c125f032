// Package template renders catalogue and manifest documents before parsing.
package template

import (
	"bytes"
	"fmt"
	"strings"
	"text/template"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

type templateConfig struct {
	host   map[string]interface{}
	strict bool
}

func defaultTemplateConfig() templateConfig {
	return templateConfig{
		strict: true,
		host:   HostValues(entities.DefaultConfig()),
	}
}

// TemplateOption configures a GoTemplateEngine.
type TemplateOption func(*templateConfig)

// WithStrict enables/disables strict mode for missing keys.
// When enabled (default), template rendering fails if a referenced key is missing.
func WithStrict(enabled bool) TemplateOption {
	return func(c *templateConfig) {
		c.strict = enabled
	}
}

// WithHost exposes the host configuration to templates as {{.host.*}}.
func WithHost(cfg entities.Config) TemplateOption {
	return func(c *templateConfig) {
		c.host = HostValues(cfg)
	}
}

// HostValues returns the template view of a host configuration.
func HostValues(cfg entities.Config) map[string]interface{} {
	return map[string]interface{}{
		"name":             cfg.HostName,
		"process_slots":    cfg.ProcessSlots,
		"plugins_per_slot": cfg.PluginsPerSlot,
	}
}

// GoTemplateEngine implements TemplateEngine using standard text/template.
type GoTemplateEngine struct {
	config templateConfig
}

// NewGoTemplateEngine creates a new GoTemplateEngine.
func NewGoTemplateEngine(opts ...TemplateOption) ports.TemplateEngine {
	cfg := defaultTemplateConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &GoTemplateEngine{config: cfg}
}

var funcs = template.FuncMap{
	// seq returns 0..n-1, for emitting one stub per slot.
	"seq": func(n int) []int {
		out := make([]int, 0, n)
		for i := 0; i < n; i++ {
			out = append(out, i)
		}
		return out
	},
	"slot":  entities.SlotLabel,
	"lower": strings.ToLower,
}

// Render processes raw document bytes with the provided config values.
// Templates see {{.config.*}} for the values and {{.host.*}} for the host.
func (e *GoTemplateEngine) Render(raw []byte, config map[string]interface{}) ([]byte, error) {
	tmpl := template.New("document").Funcs(funcs)

	if e.config.strict {
		tmpl = tmpl.Option("missingkey=error")
	}

	tmpl, err := tmpl.Parse(string(raw))
	if err != nil {
		return nil, fmt.Errorf("failed to parse document template: %w", err)
	}

	if config == nil {
		config = map[string]interface{}{}
	}
	data := map[string]interface{}{
		"config": config,
		"host":   e.config.host,
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("failed to execute document template: %w", err)
	}

	return buf.Bytes(), nil
}
