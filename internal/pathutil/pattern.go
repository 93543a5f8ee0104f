package pathutil

import (
	"fmt"
	"regexp"
	"strings"
	"sync"
)

// Pattern is a compiled wildcard pattern. "*" matches any run of characters except '/',
// "**" matches any run including '/' and "?" matches exactly one character other than '/'.
// Everything else matches literally and the whole path must match.
type Pattern struct {
	source string
	re     *regexp.Regexp
}

var patternCache sync.Map // normalized pattern -> *Pattern

// CompilePattern compiles a wildcard pattern. The pattern is normalized to start with '/'.
func CompilePattern(pattern string) (*Pattern, error) {
	normalized := EnsureLeadingSlash(strings.TrimSpace(pattern))
	if cached, ok := patternCache.Load(normalized); ok {
		return cached.(*Pattern), nil
	}

	var sb strings.Builder
	sb.WriteString("^")
	runes := []rune(normalized)
	for i := 0; i < len(runes); i++ {
		switch r := runes[i]; r {
		case '*':
			if i+1 < len(runes) && runes[i+1] == '*' {
				sb.WriteString(".*")
				i++
			} else {
				sb.WriteString("[^/]*")
			}
		case '?':
			sb.WriteString("[^/]")
		default:
			sb.WriteString(regexp.QuoteMeta(string(r)))
		}
	}
	sb.WriteString("$")

	re, err := regexp.Compile(sb.String())
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	compiled := &Pattern{source: normalized, re: re}
	patternCache.Store(normalized, compiled)
	return compiled, nil
}

// String returns the normalized pattern source.
func (p *Pattern) String() string {
	return p.source
}

// Match reports whether the path, normalized with a leading slash, matches the pattern.
func (p *Pattern) Match(path string) bool {
	return p.re.MatchString(EnsureLeadingSlash(path))
}

// MatchPattern compiles pattern and matches path against it.
// Invalid patterns never match.
func MatchPattern(pattern, path string) bool {
	compiled, err := CompilePattern(pattern)
	if err != nil {
		return false
	}
	return compiled.Match(path)
}
