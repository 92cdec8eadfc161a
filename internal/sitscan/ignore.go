package sitscan

import (
	"path/filepath"
	"strings"
)

// ignoredDirNames are directory basenames the Scanner never descends into,
// regardless of Config.
var ignoredDirNames = map[string]struct{}{
	"node_modules": {},
	".git":         {},
	".DS_Store":    {},
}

// extraMatcher matches a path against Config.ExtraIgnores: plain
// gitignore-style glob patterns with "**" wildcard support, checked against
// both the path's basename and its full repository-relative form. Unlike a
// full .gitignore matcher this carries no negation or per-file anchoring,
// since ExtraIgnores is a flat configuration list rather than a tree of
// .gitignore files.
type extraMatcher struct {
	patterns []string
}

func newExtraMatcher(patterns []string) extraMatcher {
	return extraMatcher{patterns: patterns}
}

func (m extraMatcher) isIgnored(relPath string) bool {
	base := relPath
	if idx := strings.LastIndex(relPath, "/"); idx >= 0 {
		base = relPath[idx+1:]
	}
	for _, pat := range m.patterns {
		if matchGlob(pat, base) || matchGlob(pat, relPath) {
			return true
		}
	}
	return false
}

// matchGlob matches a gitignore-style glob pattern against a path,
// understanding "**" as zero or more path components.
func matchGlob(pattern, name string) bool {
	if !strings.Contains(pattern, "**") {
		matched, _ := filepath.Match(pattern, name)
		return matched
	}
	return matchSegments(strings.Split(pattern, "/"), strings.Split(name, "/"))
}

func matchSegments(patParts, nameParts []string) bool {
	pi, ni := 0, 0
	for pi < len(patParts) && ni < len(nameParts) {
		if patParts[pi] == "**" {
			pi++
			if pi >= len(patParts) {
				return true
			}
			for tryNi := ni; tryNi <= len(nameParts); tryNi++ {
				if matchSegments(patParts[pi:], nameParts[tryNi:]) {
					return true
				}
			}
			return false
		}
		matched, _ := filepath.Match(patParts[pi], nameParts[ni])
		if !matched {
			return false
		}
		pi++
		ni++
	}
	for pi < len(patParts) {
		if patParts[pi] != "**" {
			return false
		}
		pi++
	}
	return ni >= len(nameParts)
}
