package entities

// Intent is a request to start or deliver to whatever component can handle it.
type Intent struct {
	Action     string   `json:"action,omitempty" yaml:"action,omitempty"`
	Categories []string `json:"categories,omitempty" yaml:"categories,omitempty"`
	Data       string   `json:"data,omitempty" yaml:"data,omitempty"`
	MimeType   string   `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
}

// ComponentMatch is one component that accepts an intent.
type ComponentMatch struct {
	Key      PluginComponentKey `json:"key" yaml:"key"`
	Decl     ComponentDecl      `json:"-" yaml:"-"`
	Priority int                `json:"priority" yaml:"priority"`
}
