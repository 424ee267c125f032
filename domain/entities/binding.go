package entities

import "time"

// Binding is the live association of a plugin component with a stub and a process.
type Binding struct {
	CreatedAt time.Time          `json:"created_at" yaml:"created_at"`
	Key       PluginComponentKey `json:"key" yaml:"key"`
	StubID    string             `json:"stub" yaml:"stub"`
	Process   ProcessTarget      `json:"process" yaml:"process"`
}

// Target returns the dispatch target of the binding.
func (b Binding) Target() DispatchTarget {
	return DispatchTarget{StubID: b.StubID, Process: b.Process}
}

// DispatchTarget is what the launch collaborator substitutes into the
// request it issues to the operating environment.
type DispatchTarget struct {
	StubID  string        `json:"stub" yaml:"stub"`
	Process ProcessTarget `json:"process" yaml:"process"`
}

// BindingSnapshot is a point-in-time record of the live bindings of a host.
type BindingSnapshot struct {
	TakenAt  time.Time `json:"taken_at" yaml:"taken_at"`
	Host     string    `json:"host" yaml:"host"`
	Bindings []Binding `json:"bindings" yaml:"bindings"`
}
