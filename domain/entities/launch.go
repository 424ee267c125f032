package entities

// LaunchRequest asks for a plugin component to be started.
type LaunchRequest struct {
	Key        PluginComponentKey `json:"key" yaml:"key"`
	Process    ProcessAffinity    `json:"process,omitempty" yaml:"process,omitempty"`
	LaunchMode LaunchModeClass    `json:"launch_mode,omitempty" yaml:"launch_mode,omitempty"`
	Intent     Intent             `json:"intent,omitempty" yaml:"intent,omitempty"`
}

// StartRequest is the request issued to the operating environment: the
// plugin component has been replaced by the stub it is bound to.
type StartRequest struct {
	Target DispatchTarget     `json:"target" yaml:"target"`
	Key    PluginComponentKey `json:"key" yaml:"key"`
	Intent Intent             `json:"intent,omitempty" yaml:"intent,omitempty"`
}
