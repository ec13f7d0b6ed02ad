package atomizer

import (
	"regexp"
	"strings"
)

// declaration is one CSS property/value pair.
type declaration struct {
	property string
	value    string
}

// rule resolves the parenthesised values of a functional atom to
// declarations. A nil result means the atom is not resolvable.
type rule func(values []string) []declaration

var numberPattern = regexp.MustCompile(`^-?(\d+\.?\d*|\.\d+)$`)

// functionalRules maps atom names like "p" in p(4) to their rule.
var functionalRules = map[string]rule{
	// Spacing
	"p":   shorthand("padding"),
	"pt":  single("padding-top", length),
	"pr":  single("padding-right", length),
	"pb":  single("padding-bottom", length),
	"pl":  single("padding-left", length),
	"px":  pair("padding-left", "padding-right"),
	"py":  pair("padding-top", "padding-bottom"),
	"m":   shorthand("margin"),
	"mt":  single("margin-top", length),
	"mr":  single("margin-right", length),
	"mb":  single("margin-bottom", length),
	"ml":  single("margin-left", length),
	"mx":  pair("margin-left", "margin-right"),
	"my":  pair("margin-top", "margin-bottom"),
	"gap": shorthand("gap"),

	// Sizing
	"w":     single("width", length),
	"h":     single("height", length),
	"min-w": single("min-width", length),
	"max-w": single("max-width", length),
	"min-h": single("min-height", length),
	"max-h": single("max-height", length),

	// Visual
	"font":    single("font-size", length),
	"c":       single("color", verbatim),
	"bg":      single("background-color", verbatim),
	"r":       shorthand("border-radius"),
	"opacity": single("opacity", verbatim),
	"z":       single("z-index", verbatim),
}

// keywordRules maps bare atoms like "flex" to fixed declarations.
var keywordRules = map[string][]declaration{
	"block":        {{"display", "block"}},
	"inline":       {{"display", "inline"}},
	"inline-block": {{"display", "inline-block"}},
	"flex":         {{"display", "flex"}},
	"grid":         {{"display", "grid"}},
	"none":         {{"display", "none"}},
	"hidden":       {{"visibility", "hidden"}},
	"bold":         {{"font-weight", "bold"}},
	"italic":       {{"font-style", "italic"}},
	"underline":    {{"text-decoration", "underline"}},
	"pointer":      {{"cursor", "pointer"}},
	"relative":     {{"position", "relative"}},
	"absolute":     {{"position", "absolute"}},
	"fixed":        {{"position", "fixed"}},
	"sticky":       {{"position", "sticky"}},
}

// pseudoPrefixes are the state prefixes accepted before an atom (hover:bg(red)).
var pseudoPrefixes = map[string]string{
	"hover":  ":hover",
	"focus":  ":focus",
	"active": ":active",
}

// length appends px to unitless numbers other than zero.
func length(v string) string {
	if numberPattern.MatchString(v) && strings.Trim(v, "-0.") != "" {
		return v + "px"
	}
	return v
}

func verbatim(v string) string { return v }

func single(property string, conv func(string) string) rule {
	return func(values []string) []declaration {
		if len(values) != 1 {
			return nil
		}
		return []declaration{{property, conv(values[0])}}
	}
}

// shorthand accepts one to four slash-separated values: p(4/8) → padding:4px 8px.
func shorthand(property string) rule {
	return func(values []string) []declaration {
		if len(values) > 4 {
			return nil
		}
		converted := make([]string, len(values))
		for i, v := range values {
			converted[i] = length(v)
		}
		return []declaration{{property, strings.Join(converted, " ")}}
	}
}

// pair applies the same value to two properties, e.g. px(4).
func pair(first, second string) rule {
	return func(values []string) []declaration {
		if len(values) != 1 {
			return nil
		}
		v := length(values[0])
		return []declaration{{first, v}, {second, v}}
	}
}
