package entities

// MatchKind is how an intent filter path is compared against a URI path.
type MatchKind int

const (
	// MatchLiteral requires the path to equal the pattern.
	MatchLiteral MatchKind = iota
	// MatchPrefix requires the path to start with the pattern.
	MatchPrefix
	// MatchSimpleGlob treats "." as any character and "*" as a repeat of the previous one.
	MatchSimpleGlob
)

func (k MatchKind) String() string {
	switch k {
	case MatchLiteral:
		return "literal"
	case MatchPrefix:
		return "prefix"
	case MatchSimpleGlob:
		return "simple_glob"
	}
	return "unknown"
}

// IntentFilterData is one <data> entry of an intent filter.
type IntentFilterData struct {
	Scheme      string `json:"scheme,omitempty" yaml:"scheme,omitempty"`
	Host        string `json:"host,omitempty" yaml:"host,omitempty"`
	Port        string `json:"port,omitempty" yaml:"port,omitempty"`
	MimeType    string `json:"mime_type,omitempty" yaml:"mime_type,omitempty"`
	Path        string `json:"path,omitempty" yaml:"path,omitempty"`
	PathPattern string `json:"path_pattern,omitempty" yaml:"path_pattern,omitempty"`
	PathPrefix  string `json:"path_prefix,omitempty" yaml:"path_prefix,omitempty"`
}

// MatchKind reports how the entry matches paths. An entry without a path
// pattern is literal, even when it carries a prefix. With a pattern, a
// prefix makes it a prefix match; otherwise it is a glob.
func (d IntentFilterData) MatchKind() MatchKind {
	if d.PathPattern == "" {
		return MatchLiteral
	}
	if d.PathPrefix != "" {
		return MatchPrefix
	}
	return MatchSimpleGlob
}

// PathMatcher returns the pattern string and its match kind.
func (d IntentFilterData) PathMatcher() (string, MatchKind) {
	switch kind := d.MatchKind(); kind {
	case MatchPrefix:
		return d.PathPrefix, kind
	case MatchSimpleGlob:
		return d.PathPattern, kind
	default:
		return d.Path, kind
	}
}

// IntentFilter is one <intent-filter> of a component declaration.
type IntentFilter struct {
	Actions    []string           `json:"actions,omitempty" yaml:"actions,omitempty"`
	Categories []string           `json:"categories,omitempty" yaml:"categories,omitempty"`
	Data       []IntentFilterData `json:"data,omitempty" yaml:"data,omitempty"`
	Priority   int                `json:"priority,omitempty" yaml:"priority,omitempty"`
}

// ComponentDecl is one component declared in a plugin manifest.
type ComponentDecl struct {
	Class      string          `json:"class" yaml:"class" validate:"required"`
	Kind       ComponentKind   `json:"kind" yaml:"kind" validate:"required,component_kind"`
	Process    ProcessAffinity `json:"process,omitempty" yaml:"process,omitempty"`
	LaunchMode LaunchModeClass `json:"launch_mode,omitempty" yaml:"launch_mode,omitempty"`
	Filters    []IntentFilter  `json:"filters,omitempty" yaml:"filters,omitempty"`
	Exported   bool            `json:"exported,omitempty" yaml:"exported,omitempty"`
}

// PluginManifest is the parsed manifest of one plugin.
type PluginManifest struct {
	Name        string          `json:"name" yaml:"name" validate:"required"`
	Version     string          `json:"version,omitempty" yaml:"version,omitempty"`
	Description string          `json:"description,omitempty" yaml:"description,omitempty"`
	Components  []ComponentDecl `json:"components" yaml:"components" validate:"dive"`
}

// Key returns the component key of a declared component of this plugin.
func (m *PluginManifest) Key(c ComponentDecl) PluginComponentKey {
	return PluginComponentKey{Plugin: m.Name, Class: c.Class, Kind: c.Kind}
}
