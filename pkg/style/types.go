// Package style reads styling information off a DOM element, classifies the
// authoring approach it appears to use, and renders style declarations back
// into source text for each approach.
package style

import (
	"strings"

	"github.com/gnana997/fibersnap/pkg/dom"
)

// Strategy is a classified CSS authoring approach.
type Strategy string

const (
	StrategyInline           Strategy = "inline"
	StrategyCSSModule        Strategy = "css-module"
	StrategyStyledComponents Strategy = "styled-components"
	StrategyTailwind         Strategy = "tailwind"
	StrategyPlainCSS         Strategy = "plain-css"
	// StrategyNone disables style output. It is a configuration value only;
	// detection never returns it.
	StrategyNone Strategy = "none"
)

// ParseStrategy maps a configuration string onto a Strategy. The empty string
// and "auto" return "" so callers fall back to the detected strategy.
func ParseStrategy(s string) (Strategy, bool) {
	switch Strategy(strings.ToLower(strings.TrimSpace(s))) {
	case "", "auto":
		return "", true
	case StrategyInline:
		return StrategyInline, true
	case StrategyCSSModule, "cssmodule", "css-modules":
		return StrategyCSSModule, true
	case StrategyStyledComponents, "styled":
		return StrategyStyledComponents, true
	case StrategyTailwind:
		return StrategyTailwind, true
	case StrategyPlainCSS, "css", "plain":
		return StrategyPlainCSS, true
	case StrategyNone:
		return StrategyNone, true
	}
	return "", false
}

func (s Strategy) String() string { return string(s) }

// ExtractedStyles is everything read from one element.
type ExtractedStyles struct {
	Inline   []dom.Declaration `json:"inline"`
	Computed []dom.Declaration `json:"computed"`
	Classes  []string          `json:"classes"`
	Strategy Strategy          `json:"strategy"`
}

// IsEmpty reports whether no declarations or classes were found.
func (e ExtractedStyles) IsEmpty() bool {
	return len(e.Inline) == 0 && len(e.Computed) == 0 && len(e.Classes) == 0
}

// Declarations merges computed and inline declarations, inline winning on
// conflicts. Property order follows first appearance, computed first.
func (e ExtractedStyles) Declarations() []dom.Declaration {
	out := make([]dom.Declaration, 0, len(e.Computed)+len(e.Inline))
	index := make(map[string]int, cap(out))
	for _, group := range [][]dom.Declaration{e.Computed, e.Inline} {
		for _, d := range group {
			if i, ok := index[d.Property]; ok {
				out[i].Value = d.Value
				continue
			}
			index[d.Property] = len(out)
			out = append(out, d)
		}
	}
	return out
}

// KebabCase converts a camelCase property name to kebab-case. Vendor
// prefixes (WebkitTransform) gain a leading dash.
func KebabCase(name string) string {
	if strings.Contains(name, "-") {
		return strings.ToLower(name)
	}
	var b strings.Builder
	for i, r := range name {
		if r >= 'A' && r <= 'Z' {
			if i > 0 || isVendorPrefixed(name) {
				b.WriteByte('-')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isVendorPrefixed(name string) bool {
	for _, p := range []string{"Webkit", "Moz", "Ms"} {
		if strings.HasPrefix(name, p) && len(name) > len(p) {
			return true
		}
	}
	return false
}

// CamelCase converts a kebab-case property name to camelCase.
func CamelCase(name string) string {
	if !strings.Contains(name, "-") {
		return name
	}
	name = strings.TrimPrefix(name, "-")
	parts := strings.Split(name, "-")
	var b strings.Builder
	for i, p := range parts {
		if p == "" {
			continue
		}
		if i == 0 {
			b.WriteString(p)
			continue
		}
		b.WriteString(strings.ToUpper(p[:1]))
		b.WriteString(p[1:])
	}
	return b.String()
}
