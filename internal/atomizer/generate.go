package atomizer

import (
	"strings"
)

// GenerateCSS resolves each atom to a CSS rule. Atoms that do not resolve
// produce nothing. The output order follows the input order.
func GenerateCSS(atoms []string) []string {
	rules := make([]string, 0, len(atoms))
	for _, atom := range atoms {
		if css, ok := Rule(atom); ok {
			rules = append(rules, css)
		}
	}
	return rules
}

// Rule resolves a single atom, reporting false for unknown atoms.
func Rule(atom string) (string, bool) {
	body := atom
	important := strings.HasSuffix(body, "!")
	body = strings.TrimSuffix(body, "!")

	pseudo := ""
	if prefix, rest, ok := splitPrefix(body); ok {
		p, known := pseudoPrefixes[prefix]
		if !known {
			return "", false
		}
		pseudo = p
		body = rest
	}

	decls := resolve(body)
	if len(decls) == 0 {
		return "", false
	}

	var b strings.Builder
	b.WriteByte('.')
	b.WriteString(EscapeSelector(atom))
	b.WriteString(pseudo)
	b.WriteByte('{')
	for i, d := range decls {
		if i > 0 {
			b.WriteByte(';')
		}
		b.WriteString(d.property)
		b.WriteByte(':')
		b.WriteString(d.value)
		if important {
			b.WriteString("!important")
		}
	}
	b.WriteByte('}')
	return b.String(), true
}

// splitPrefix splits "hover:bg(red)" into "hover" and "bg(red)". A colon
// inside the parentheses is part of the value, not a prefix.
func splitPrefix(atom string) (string, string, bool) {
	colon := strings.IndexByte(atom, ':')
	if colon <= 0 {
		return "", atom, false
	}
	if paren := strings.IndexByte(atom, '('); paren >= 0 && paren < colon {
		return "", atom, false
	}
	return atom[:colon], atom[colon+1:], true
}

func resolve(body string) []declaration {
	if decls, ok := keywordRules[body]; ok {
		return decls
	}

	open := strings.IndexByte(body, '(')
	if open <= 0 || !strings.HasSuffix(body, ")") {
		return nil
	}
	name := body[:open]
	args := body[open+1 : len(body)-1]
	if args == "" {
		return nil
	}

	r, ok := functionalRules[name]
	if !ok {
		return nil
	}
	return r(strings.Split(args, "/"))
}

// EscapeSelector escapes every character of a class name that is not valid
// unescaped in a CSS identifier.
func EscapeSelector(class string) string {
	var b strings.Builder
	b.Grow(len(class) + 8)
	for _, r := range class {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '-', r == '_', r >= 0x80:
			b.WriteRune(r)
		default:
			b.WriteByte('\\')
			b.WriteRune(r)
		}
	}
	return b.String()
}
