package codegen

import (
	"strings"
	"unicode"
)

var reservedWords = map[string]bool{
	"break": true, "case": true, "catch": true, "class": true, "const": true,
	"continue": true, "debugger": true, "default": true, "delete": true,
	"do": true, "else": true, "export": true, "extends": true, "false": true,
	"finally": true, "for": true, "function": true, "if": true, "import": true,
	"in": true, "instanceof": true, "new": true, "null": true, "return": true,
	"super": true, "switch": true, "this": true, "throw": true, "true": true,
	"try": true, "typeof": true, "var": true, "void": true, "while": true,
	"with": true, "let": true, "static": true, "yield": true, "await": true,
	"enum": true, "implements": true, "interface": true, "package": true,
	"private": true, "protected": true, "public": true,
}

// isIdentifier reports whether s can be used as a bare JS identifier or
// object key.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || r == '$' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}

// isBindable reports whether s can be declared as a variable.
func isBindable(s string) bool {
	return isIdentifier(s) && !reservedWords[s]
}

// ComponentIdent turns a resolved display name into a PascalCase component
// identifier. Wrapper names like "Memo(Card)" or "ForwardRef(Input)" yield
// the wrapped name; anything unusable becomes "Component".
func ComponentIdent(name string) string {
	if open := strings.LastIndex(name, "("); open >= 0 {
		inner := strings.TrimSuffix(name[open+1:], ")")
		if inner != "" && unicode.IsLetter(rune(inner[0])) && !strings.ContainsAny(inner, "()") {
			name = inner
		}
	}
	var b strings.Builder
	upper := true
	for _, r := range name {
		if r == '_' || r == '$' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			if b.Len() == 0 && unicode.IsDigit(r) {
				continue
			}
			if upper {
				r = unicode.ToUpper(r)
				upper = false
			}
			b.WriteRune(r)
			continue
		}
		upper = true
	}
	if b.Len() == 0 {
		return "Component"
	}
	return b.String()
}

// tagName returns a JSX tag name for a custom component. Dotted names such
// as "Menu.Item" are kept.
func tagName(name string) string {
	if name == "" {
		return "Component"
	}
	parts := strings.Split(name, ".")
	for i, p := range parts {
		parts[i] = ComponentIdent(p)
	}
	return strings.Join(parts, ".")
}

// capitalize upper-cases the first rune.
func capitalize(s string) string {
	for i, r := range s {
		return string(unicode.ToUpper(r)) + s[i+len(string(r)):]
	}
	return s
}
