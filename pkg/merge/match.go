// File: pkg/merge/match.go
package merge

import (
	"strings"

	"github.com/gobwas/glob"
)

// patternKind is the closed set of filename pattern shapes the rule set
// understands. Each kind has exactly one evaluator.
type patternKind int

const (
	kindExact     patternKind = iota // literal filename
	kindPrefix                       // "name*"
	kindSuffix                       // "*name"
	kindSubstring                    // "*name*"
	kindGlob                         // anything else containing shell wildcards
)

// namePattern is one compiled filename exclusion pattern.
type namePattern struct {
	kind  patternKind
	value string    // comparison value, de-wildcarded for prefix/suffix/substring
	g     glob.Glob // compiled matcher, kindGlob only
}

func compileNamePattern(raw string) namePattern {
	switch {
	case strings.HasPrefix(raw, "*") && strings.HasSuffix(raw, "*") && len(raw) > 1:
		return namePattern{kind: kindSubstring, value: raw[1 : len(raw)-1]}
	case strings.HasPrefix(raw, "*"):
		return namePattern{kind: kindSuffix, value: raw[1:]}
	case strings.HasSuffix(raw, "*"):
		return namePattern{kind: kindPrefix, value: raw[:len(raw)-1]}
	case strings.ContainsAny(raw, "*?["):
		if g, err := glob.Compile(raw); err == nil {
			return namePattern{kind: kindGlob, value: raw, g: g}
		}
		// Unparseable glob degrades to a literal comparison.
		return namePattern{kind: kindExact, value: raw}
	default:
		return namePattern{kind: kindExact, value: raw}
	}
}

// matches reports whether the basename is excluded by this pattern.
func (p namePattern) matches(name string) bool {
	switch p.kind {
	case kindSubstring:
		return strings.Contains(name, p.value)
	case kindSuffix:
		return strings.HasSuffix(name, p.value)
	case kindPrefix:
		return strings.HasPrefix(name, p.value)
	case kindGlob:
		return p.g.Match(name)
	default:
		return name == p.value
	}
}

// pathPattern is one compiled path-level glob. Recursive-wildcard patterns
// ("**") match by substring containment of the de-wildcarded base, a coarse
// approximation kept for compatibility with the original rule dialect; plain
// wildcard patterns match the whole forward-slash path as a shell glob.
type pathPattern struct {
	substring bool
	value     string
	g         glob.Glob
}

func compilePathPattern(raw string) pathPattern {
	if strings.Contains(raw, "**") {
		base := strings.ReplaceAll(raw, "/**", "")
		base = strings.ReplaceAll(base, "**/", "")
		return pathPattern{substring: true, value: base}
	}
	if g, err := glob.Compile(raw); err == nil {
		return pathPattern{value: raw, g: g}
	}
	return pathPattern{substring: true, value: raw}
}

func (p pathPattern) matches(slashPath string) bool {
	if p.substring {
		return strings.Contains(slashPath, p.value)
	}
	return p.g.Match(slashPath)
}
