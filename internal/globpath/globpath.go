// Package globpath compiles and matches the glob patterns used to declare
// trackables and exclusions, on top of github.com/bmatcuk/doublestar/v3
// for "**"-capable matching.
package globpath

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v3"
)

// GlobPath is a compiled glob pattern ready for repeated expansion.
type GlobPath struct {
	pattern string
	hasMeta bool
}

// Compile validates pattern by attempting an expansion and returns a
// reusable GlobPath. An invalid pattern (bad syntax) is reported
// immediately, before any discovery loop runs.
func Compile(pattern string) (*GlobPath, error) {
	clean := filepath.ToSlash(pattern)
	if _, err := doublestar.Match(clean, ""); err != nil {
		return nil, err
	}
	return &GlobPath{
		pattern: clean,
		hasMeta: hasMeta(clean),
	}, nil
}

// hasMeta reports whether pattern contains any glob metacharacters. A
// pattern with none is a literal path, so Match can skip the filesystem
// walk doublestar.Glob would otherwise perform.
func hasMeta(pattern string) bool {
	return strings.ContainsAny(pattern, "*?[{")
}

// Match expands the pattern against the filesystem and returns every
// matching absolute path. Non-existent literal paths yield an empty slice,
// not an error — discovery simply finds nothing to track yet.
func (g *GlobPath) Match() []string {
	var matches []string
	if !g.hasMeta {
		if _, err := os.Stat(g.pattern); err == nil {
			matches = []string{g.pattern}
		}
	} else {
		matches, _ = doublestar.Glob(g.pattern)
	}

	abs := make([]string, 0, len(matches))
	for _, m := range matches {
		full, err := filepath.Abs(m)
		if err != nil {
			full = m
		}
		abs = append(abs, full)
	}
	return abs
}

// String returns the original (slash-normalized) pattern.
func (g *GlobPath) String() string {
	return g.pattern
}
