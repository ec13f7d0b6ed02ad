package adorable

import (
	"errors"
	"strings"

	"github.com/yacobolo/adorable/internal/atomizer"
	"github.com/yacobolo/adorable/internal/minify"
)

var errEmptyMinify = errors.New("minifier returned empty output")

// Dedupe returns atoms without repeats, keeping the first occurrence of each.
func Dedupe(atoms []string) []string {
	seen := make(map[string]struct{}, len(atoms))
	unique := make([]string, 0, len(atoms))
	for _, atom := range atoms {
		if _, ok := seen[atom]; ok {
			continue
		}
		seen[atom] = struct{}{}
		unique = append(unique, atom)
	}
	return unique
}

// Compose builds the stylesheet for atoms: the reset (unless suppressed)
// followed by one rule per resolvable atom, newline separated.
//
// When minification fails, or yields nothing for non-empty input, the
// unminified text is kept and the failure is reported in MinifyErr.
func Compose(atoms []string, opts ComposeOptions) Stylesheet {
	rules := atomizer.GenerateCSS(Dedupe(atoms))

	parts := make([]string, 0, len(rules)+1)
	if !opts.NoReset {
		parts = append(parts, atomizer.Reset)
	}
	parts = append(parts, rules...)

	sheet := Stylesheet{
		CSS:   strings.Join(parts, "\n"),
		Rules: len(rules),
	}
	if !opts.Minify {
		return sheet
	}

	minified, err := minify.CSS(sheet.CSS)
	switch {
	case err != nil:
		sheet.MinifyErr = err
	case minified == "" && strings.TrimSpace(sheet.CSS) != "":
		sheet.MinifyErr = errEmptyMinify
	default:
		sheet.CSS = minified
		sheet.Minified = true
	}
	return sheet
}
