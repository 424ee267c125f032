package entities

// StubDescriptor is one placeholder component slot declared in the host
// manifest. The set of descriptors is fixed when the pool is built.
type StubDescriptor struct {
	BoundTo    *PluginComponentKey `json:"bound_to,omitempty" yaml:"bound_to,omitempty"`
	ID         string              `json:"id" yaml:"id"`
	Kind       ComponentKind       `json:"kind" yaml:"kind"`
	Affinity   ProcessAffinity     `json:"process" yaml:"process"`
	LaunchMode LaunchModeClass     `json:"launch_mode,omitempty" yaml:"launch_mode,omitempty"`
	Bound      bool                `json:"bound" yaml:"bound"`
}

// Compatible reports whether the stub has the given kind and launch-mode class.
// Process affinity is matched separately by the pool.
func (d StubDescriptor) Compatible(kind ComponentKind, mode LaunchModeClass) bool {
	return d.Kind == kind && d.LaunchMode == mode
}
