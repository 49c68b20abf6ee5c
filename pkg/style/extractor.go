package style

import (
	"github.com/gnana997/fibersnap/pkg/dom"
)

// Extract reads inline and computed styles and classes off el and detects its
// strategy. A nil element yields an empty plain-css result.
func Extract(el dom.Element) ExtractedStyles {
	if el == nil {
		return ExtractedStyles{Strategy: StrategyPlainCSS}
	}

	out := ExtractedStyles{
		Inline:   append([]dom.Declaration(nil), el.InlineStyle()...),
		Computed: ComputedStyles(el),
		Classes:  UniqueClasses(el.ClassList()),
	}
	out.Strategy = DetectStrategy(out.Classes, len(out.Inline) > 0, hasStyledMarker(el))
	return out
}

// ComputedStyles returns the allow-listed computed properties of el whose
// value differs from the property default. Empty values are dropped.
func ComputedStyles(el dom.Element) []dom.Declaration {
	var out []dom.Declaration
	for _, prop := range ImportantProperties {
		v, ok := el.ComputedStyle(prop)
		if !ok || v == "" || IsDefault(prop, v) {
			continue
		}
		out = append(out, dom.Declaration{Property: prop, Value: v})
	}
	return out
}

// UniqueClasses keeps DOM order and drops repeats and empty names.
func UniqueClasses(classes []string) []string {
	if len(classes) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(classes))
	out := make([]string, 0, len(classes))
	for _, c := range classes {
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
