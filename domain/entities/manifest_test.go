package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func optString(t *rapid.T, label string) string {
	return rapid.OneOf(rapid.Just(""), rapid.StringMatching(`/[a-z.*]{0,8}`)).Draw(t, label)
}

func TestIntentFilterData_MatchKind_LiteralWithoutPattern(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := IntentFilterData{
			Path:       optString(t, "path"),
			PathPrefix: optString(t, "prefix"),
		}
		if d.MatchKind() != MatchLiteral {
			t.Fatalf("expected literal for %+v, got %s", d, d.MatchKind())
		}
	})
}

func TestIntentFilterData_MatchKind_PrefixWithPattern(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := IntentFilterData{
			Path:        optString(t, "path"),
			PathPattern: rapid.StringMatching(`/[a-z.*]{1,8}`).Draw(t, "pattern"),
			PathPrefix:  rapid.StringMatching(`/[a-z]{1,8}`).Draw(t, "prefix"),
		}
		if d.MatchKind() != MatchPrefix {
			t.Fatalf("expected prefix for %+v, got %s", d, d.MatchKind())
		}
	})
}

func TestIntentFilterData_MatchKind_GlobOtherwise(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		d := IntentFilterData{
			Path:        optString(t, "path"),
			PathPattern: rapid.StringMatching(`/[a-z.*]{1,8}`).Draw(t, "pattern"),
		}
		if d.MatchKind() != MatchSimpleGlob {
			t.Fatalf("expected simple_glob for %+v, got %s", d, d.MatchKind())
		}
	})
}

func TestIntentFilterData_PathMatcher(t *testing.T) {
	tests := []struct {
		name        string
		data        IntentFilterData
		wantPattern string
		wantKind    MatchKind
	}{
		{"literal", IntentFilterData{Path: "/a"}, "/a", MatchLiteral},
		{"prefix without pattern", IntentFilterData{Path: "/a", PathPrefix: "/b"}, "/a", MatchLiteral},
		{"prefix", IntentFilterData{Path: "/a", PathPattern: "/c.*", PathPrefix: "/b"}, "/b", MatchPrefix},
		{"glob", IntentFilterData{Path: "/a", PathPattern: "/c.*"}, "/c.*", MatchSimpleGlob},
		{"empty", IntentFilterData{}, "", MatchLiteral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pattern, kind := tt.data.PathMatcher()
			assert.Equal(t, tt.wantPattern, pattern)
			assert.Equal(t, tt.wantKind, kind)
		})
	}
}

func TestMatchKind_String(t *testing.T) {
	assert.Equal(t, "literal", MatchLiteral.String())
	assert.Equal(t, "prefix", MatchPrefix.String())
	assert.Equal(t, "simple_glob", MatchSimpleGlob.String())
	assert.Equal(t, "unknown", MatchKind(9).String())
}

func TestPluginManifest_Key(t *testing.T) {
	m := &PluginManifest{Name: "demo"}
	key := m.Key(ComponentDecl{Class: "com.demo.Main", Kind: KindActivity})
	assert.Equal(t, NewComponentKey("demo", "com.demo.Main", KindActivity), key)
	assert.Equal(t, "demo/com.demo.Main", key.HandlerName())
	assert.Equal(t, "demo/com.demo.Main (activity)", key.String())
}
