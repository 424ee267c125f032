package entities

import "fmt"

// StubSpec is one explicitly declared stub in a catalogue document.
type StubSpec struct {
	ID         string          `json:"id" yaml:"id" validate:"required"`
	Kind       ComponentKind   `json:"kind" yaml:"kind" validate:"required,component_kind"`
	Process    ProcessAffinity `json:"process,omitempty" yaml:"process,omitempty"`
	LaunchMode LaunchModeClass `json:"launch_mode,omitempty" yaml:"launch_mode,omitempty"`
}

// StubGroup declares Count stubs of one bucket; IDs are Prefix followed by 0..Count-1.
type StubGroup struct {
	Prefix     string          `json:"prefix" yaml:"prefix" validate:"required"`
	Kind       ComponentKind   `json:"kind" yaml:"kind" validate:"required,component_kind"`
	Process    ProcessAffinity `json:"process,omitempty" yaml:"process,omitempty"`
	LaunchMode LaunchModeClass `json:"launch_mode,omitempty" yaml:"launch_mode,omitempty"`
	Count      int             `json:"count" yaml:"count" validate:"min=1,max=1024"`
}

// StubCatalogue is the build-time table of stubs baked into the host manifest.
type StubCatalogue struct {
	Host   string      `json:"host,omitempty" yaml:"host,omitempty"`
	Stubs  []StubSpec  `json:"stubs,omitempty" yaml:"stubs,omitempty" validate:"dive"`
	Groups []StubGroup `json:"groups,omitempty" yaml:"groups,omitempty" validate:"dive"`
}

// Expand returns every stub of the catalogue, explicit stubs first and
// then each group in order. Launch modes are normalized for the stub kind.
func (c *StubCatalogue) Expand() []StubSpec {
	out := make([]StubSpec, 0, len(c.Stubs))
	for _, s := range c.Stubs {
		s.LaunchMode = s.LaunchMode.NormalizeFor(s.Kind)
		out = append(out, s)
	}
	for _, g := range c.Groups {
		for i := 0; i < g.Count; i++ {
			out = append(out, StubSpec{
				ID:         fmt.Sprintf("%s%d", g.Prefix, i),
				Kind:       g.Kind,
				Process:    g.Process,
				LaunchMode: g.LaunchMode.NormalizeFor(g.Kind),
			})
		}
	}
	return out
}
