package policy_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/reglet-dev/stubhost/domain/entities"
	"github.com/reglet-dev/stubhost/domain/policy"
)

func FuzzMatchSimpleGlob(f *testing.F) {
	f.Add(".*", "/a/b")
	f.Add("/ab*c", "/abbbc")
	f.Add(`\.`, ".")
	f.Add("a*a*a*a*a*a*b", "aaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa")

	f.Fuzz(func(t *testing.T, pattern, path string) {
		got := policy.MatchPath(entities.MatchSimpleGlob, pattern, path)
		// A pattern without metacharacters is literal.
		if !utf8.ValidString(pattern) || !utf8.ValidString(path) {
			return
		}
		if !strings.ContainsAny(pattern, `.*\`) && got != (pattern == path) {
			t.Fatalf("pattern %q path %q: got %v", pattern, path, got)
		}
	})
}

func FuzzResolve(f *testing.F) {
	p := policy.NewIntentPolicy(policy.WithMissHandler(&policy.NopMissHandler{}))
	manifests := []*entities.PluginManifest{viewerManifest()}
	f.Add("android.intent.action.VIEW", "https://www.example.com/docs")
	f.Add("", "::")

	f.Fuzz(func(t *testing.T, action, data string) {
		// We just ensure it doesn't panic
		p.Resolve(entities.Intent{Action: action, Data: data}, manifests)
	})
}
