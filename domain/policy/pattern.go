package policy

import (
	"strings"

	"github.com/reglet-dev/stubhost/domain/entities"
)

// MatchPath reports whether path matches pattern under the given match kind.
func MatchPath(kind entities.MatchKind, pattern, path string) bool {
	switch kind {
	case entities.MatchLiteral:
		return pattern == path
	case entities.MatchPrefix:
		return strings.HasPrefix(path, pattern)
	case entities.MatchSimpleGlob:
		return compileGlob(pattern).match(path)
	}
	return false
}

// globToken is one element of a compiled simple glob.
type globToken struct {
	ch     rune
	any    bool // "." matches any character
	repeat bool // followed by "*": zero or more
}

type simpleGlob []globToken

// compileGlob compiles a simple glob: "." is any character, a "*" repeats
// the preceding element zero or more times, and "\" escapes the next
// character. A leading "*" is literal.
func compileGlob(pattern string) simpleGlob {
	runes := []rune(pattern)
	tokens := make(simpleGlob, 0, len(runes))
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		var tok globToken
		switch {
		case r == '\\' && i+1 < len(runes):
			i++
			tok.ch = runes[i]
		case r == '.':
			tok.any = true
		case r == '*' && len(tokens) == 0:
			tok.ch = '*'
		default:
			tok.ch = r
		}
		if i+1 < len(runes) && runes[i+1] == '*' {
			tok.repeat = true
			i++
		}
		tokens = append(tokens, tok)
	}
	return tokens
}

func (t globToken) accepts(r rune) bool {
	return t.any || t.ch == r
}

// match runs in O(len(tokens) * len(path)).
func (g simpleGlob) match(path string) bool {
	s := []rune(path)
	// next[j] holds whether g[i+1:] matches s[j:] while row i is computed.
	next := make([]bool, len(s)+1)
	next[len(s)] = true
	cur := make([]bool, len(s)+1)
	for i := len(g) - 1; i >= 0; i-- {
		tok := g[i]
		cur[len(s)] = tok.repeat && next[len(s)]
		for j := len(s) - 1; j >= 0; j-- {
			first := tok.accepts(s[j])
			if tok.repeat {
				cur[j] = next[j] || (first && cur[j+1])
			} else {
				cur[j] = first && next[j+1]
			}
		}
		next, cur = cur, next
	}
	return next[0]
}
