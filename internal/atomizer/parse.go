// Package atomizer extracts atom tokens from source text and turns them into
// CSS rules. It is stateless; every function is safe for concurrent use.
package atomizer

import (
	"regexp"
	"sort"
	"strings"
)

// classPattern is a regex locating a class attribute value in source text.
// The first capture group holds the raw value.
type classPattern struct {
	name  string
	regex *regexp.Regexp
}

var (
	// Patterns for class attribute values across html, jsx, vue and svelte.
	// Matches from all patterns are merged by position so tokens keep
	// their order of appearance in the file.
	classPatterns = []classPattern{
		{
			name:  "double quoted attribute",
			regex: regexp.MustCompile(`\bclass(?:Name)?="([^"]*)"`),
		},
		{
			name:  "single quoted attribute",
			regex: regexp.MustCompile(`\bclass(?:Name)?='([^']*)'`),
		},
		{
			name:  "string literal in braces",
			regex: regexp.MustCompile(`\bclass(?:Name)?=\{\s*"([^"]*)"\s*\}`),
		},
		{
			name:  "template literal in braces",
			regex: regexp.MustCompile("\\bclass(?:Name)?=\\{\\s*`([^`]*)`\\s*\\}"),
		},
		{
			name:  "svelte class directive",
			regex: regexp.MustCompile(`\bclass:([^\s=>/{}"']+)`),
		},
	}
)

type match struct {
	start int
	value string
}

// ParseAtoms returns the candidate atom tokens found in text, in order of
// appearance. Duplicates are kept; deduplication belongs to the caller.
func ParseAtoms(text string) []string {
	var matches []match
	for _, pattern := range classPatterns {
		for _, loc := range pattern.regex.FindAllStringSubmatchIndex(text, -1) {
			if len(loc) < 4 || loc[2] < 0 {
				continue
			}
			matches = append(matches, match{start: loc[0], value: text[loc[2]:loc[3]]})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].start < matches[j].start
	})

	var atoms []string
	for _, m := range matches {
		for _, token := range strings.Fields(m.value) {
			if isInterpolated(token) {
				continue
			}
			atoms = append(atoms, token)
		}
	}
	return atoms
}

// isInterpolated reports tokens that belong to a template expression rather
// than a literal class name ({expr}, ${expr}).
func isInterpolated(token string) bool {
	return strings.ContainsAny(token, "{}") || strings.Contains(token, "${")
}
