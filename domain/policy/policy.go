package policy

import (
	"log/slog"
	"net/url"
	"slices"
	"sort"
	"strings"
	"sync"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/ports"
)

// policyConfig holds configuration for the IntentPolicy.
type policyConfig struct {
	missHandler  ports.MissHandler // Handler invoked when nothing matches
	exportedOnly bool              // Only consider exported components
}

func defaultPolicyConfig() policyConfig {
	return policyConfig{
		missHandler: &LogMissHandler{Logger: slog.Default()},
	}
}

// PolicyOption configures the IntentPolicy.
type PolicyOption func(*policyConfig)

// WithMissHandler sets the miss handler.
func WithMissHandler(h ports.MissHandler) PolicyOption {
	return func(c *policyConfig) {
		c.missHandler = h
	}
}

// WithExportedOnly restricts resolution to components declared exported.
func WithExportedOnly(enabled bool) PolicyOption {
	return func(c *policyConfig) {
		c.exportedOnly = enabled
	}
}

// IntentPolicy resolves intents against the intent filters declared in
// plugin manifests.
type IntentPolicy struct {
	config policyConfig
	cache  sync.Map // key: *entities.PluginManifest, value: []compiledComponent
}

type compiledComponent struct {
	decl    entities.ComponentDecl
	key     entities.PluginComponentKey
	filters []compiledFilter
}

type compiledFilter struct {
	actions    []string
	categories []string
	schemes    []string
	types      []string
	authority  []compiledAuthority
	paths      []compiledPath
	priority   int
}

type compiledAuthority struct {
	host string
	port string
}

type compiledPath struct {
	kind    entities.MatchKind
	pattern string
	glob    simpleGlob
}

// NewIntentPolicy creates a new IntentPolicy.
func NewIntentPolicy(opts ...PolicyOption) *IntentPolicy {
	cfg := defaultPolicyConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &IntentPolicy{config: cfg}
}

var _ ports.IntentResolver = (*IntentPolicy)(nil)

func (p *IntentPolicy) getCompiled(m *entities.PluginManifest) []compiledComponent {
	if v, ok := p.cache.Load(m); ok {
		return v.([]compiledComponent)
	}

	out := make([]compiledComponent, 0, len(m.Components))
	for _, decl := range m.Components {
		cc := compiledComponent{decl: decl, key: m.Key(decl)}
		for _, f := range decl.Filters {
			cf := compiledFilter{
				actions:    f.Actions,
				categories: f.Categories,
				priority:   f.Priority,
			}
			for _, d := range f.Data {
				if scheme := strings.ToLower(d.Scheme); scheme != "" && !slices.Contains(cf.schemes, scheme) {
					cf.schemes = append(cf.schemes, scheme)
				}
				if d.MimeType != "" {
					cf.types = append(cf.types, strings.ToLower(d.MimeType))
				}
				if d.Host != "" {
					cf.authority = append(cf.authority, compiledAuthority{host: strings.ToLower(d.Host), port: d.Port})
				}
				pattern, kind := d.PathMatcher()
				if pattern == "" {
					continue
				}
				cp := compiledPath{kind: kind, pattern: pattern}
				if kind == entities.MatchSimpleGlob {
					cp.glob = compileGlob(pattern)
				}
				cf.paths = append(cf.paths, cp)
			}
			cc.filters = append(cc.filters, cf)
		}
		out = append(out, cc)
	}

	p.cache.Store(m, out)
	return out
}

// Resolve returns every component that accepts intent, highest filter
// priority first, then by plugin and class name.
//
// Compiled filters are cached per manifest pointer for the life of the
// policy, so manifests must not be mutated once resolved. Callers that
// reload manifests should build a new policy.
func (p *IntentPolicy) Resolve(intent entities.Intent, manifests []*entities.PluginManifest) []entities.ComponentMatch {
	var uri *url.URL
	if intent.Data != "" {
		parsed, err := url.Parse(intent.Data)
		if err != nil {
			p.config.missHandler.OnMiss(intent, "malformed data uri: "+err.Error())
			return nil
		}
		uri = parsed
	}

	var matches []entities.ComponentMatch
	for _, m := range manifests {
		if m == nil {
			continue
		}
		for _, cc := range p.getCompiled(m) {
			if p.config.exportedOnly && !cc.decl.Exported {
				continue
			}
			best, ok := 0, false
			for _, f := range cc.filters {
				if f.matches(intent, uri) && (!ok || f.priority > best) {
					best, ok = f.priority, true
				}
			}
			if ok {
				matches = append(matches, entities.ComponentMatch{Key: cc.key, Decl: cc.decl, Priority: best})
			}
		}
	}

	if len(matches) == 0 {
		p.config.missHandler.OnMiss(intent, "no intent filter matched")
		return nil
	}

	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i], matches[j]
		if a.Priority != b.Priority {
			return a.Priority > b.Priority
		}
		if a.Key.Plugin != b.Key.Plugin {
			return a.Key.Plugin < b.Key.Plugin
		}
		return a.Key.Class < b.Key.Class
	})
	return matches
}

func (f compiledFilter) matches(intent entities.Intent, uri *url.URL) bool {
	if intent.Action != "" {
		if !slices.Contains(f.actions, intent.Action) {
			return false
		}
	} else if len(f.actions) == 0 {
		return false
	}
	for _, c := range intent.Categories {
		if !slices.Contains(f.categories, c) {
			return false
		}
	}
	return f.matchData(intent, uri)
}

func (f compiledFilter) matchData(intent entities.Intent, uri *url.URL) bool {
	scheme := ""
	if uri != nil {
		scheme = strings.ToLower(uri.Scheme)
	}

	if len(f.schemes) > 0 {
		if !slices.Contains(f.schemes, scheme) {
			return false
		}
		if len(f.authority) > 0 && !f.matchAuthority(uri) {
			return false
		}
		if len(f.paths) > 0 && !f.matchPath(uri) {
			return false
		}
	} else if scheme != "" && scheme != "content" && scheme != "file" {
		// Filters without schemes only accept data with no scheme or a
		// content/file scheme.
		return false
	}

	if len(f.types) == 0 {
		return intent.MimeType == ""
	}
	if intent.MimeType == "" {
		return false
	}
	return f.matchType(strings.ToLower(intent.MimeType))
}

func (f compiledFilter) matchAuthority(uri *url.URL) bool {
	if uri == nil {
		return false
	}
	host := strings.ToLower(uri.Hostname())
	port := uri.Port()
	for _, a := range f.authority {
		if a.port != "" && a.port != port {
			continue
		}
		if a.host == "*" || a.host == host {
			return true
		}
		if strings.HasPrefix(a.host, "*") && strings.HasSuffix(host, a.host[1:]) {
			return true
		}
	}
	return false
}

func (f compiledFilter) matchPath(uri *url.URL) bool {
	if uri == nil {
		return false
	}
	path := uri.Path
	for _, cp := range f.paths {
		if cp.kind == entities.MatchSimpleGlob {
			if cp.glob.match(path) {
				return true
			}
			continue
		}
		if MatchPath(cp.kind, cp.pattern, path) {
			return true
		}
	}
	return false
}

func (f compiledFilter) matchType(mime string) bool {
	major, _, _ := strings.Cut(mime, "/")
	for _, t := range f.types {
		if t == mime || t == "*" || t == "*/*" {
			return true
		}
		if tMajor, tMinor, ok := strings.Cut(t, "/"); ok && tMinor == "*" && tMajor == major {
			return true
		}
	}
	return false
}
