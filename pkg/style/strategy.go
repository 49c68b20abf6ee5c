package style

import (
	"regexp"
	"strings"

	"github.com/gnana997/fibersnap/pkg/dom"
)

// TailwindThreshold is the share of classes that must look like utility
// classes before an element is classified as tailwind.
const TailwindThreshold = 0.3

// tailwindPatterns match the base of a utility class after any variant
// prefixes (hover:, md:, dark:) are removed.
var tailwindPatterns = []*regexp.Regexp{
	// layout
	regexp.MustCompile(`^(block|inline|inline-block|flex|inline-flex|grid|inline-grid|hidden|contents|table)$`),
	regexp.MustCompile(`^(static|fixed|absolute|relative|sticky)$`),
	regexp.MustCompile(`^-?(inset|top|right|bottom|left|z)-`),
	regexp.MustCompile(`^(overflow|overscroll|object|float|clear|box|container)(-|$)`),
	// flex and grid
	regexp.MustCompile(`^(flex|grid|col|row|gap|order|basis|grow|shrink|justify|items|content|self|place|auto-cols|auto-rows)-`),
	// spacing and sizing
	regexp.MustCompile(`^-?(p|px|py|pt|pr|pb|pl|ps|pe|m|mx|my|mt|mr|mb|ml|ms|me|space-x|space-y)-`),
	regexp.MustCompile(`^(w|h|min-w|min-h|max-w|max-h|size)-`),
	// typography
	regexp.MustCompile(`^(text|font|leading|tracking|whitespace|break|truncate|underline|line-through|no-underline|uppercase|lowercase|capitalize|italic|not-italic|antialiased)(-|$)`),
	// color and decoration
	regexp.MustCompile(`^(bg|from|via|to|fill|stroke|decoration|placeholder|caret|accent)-`),
	regexp.MustCompile(`^(border|divide|outline|ring)(-|$)`),
	regexp.MustCompile(`^(rounded)(-|$)`),
	// effects
	regexp.MustCompile(`^(shadow|opacity|blur|brightness|contrast|grayscale|invert|saturate|sepia|drop-shadow|backdrop)(-|$)`),
	regexp.MustCompile(`^(transition|duration|ease|delay|animate|transform|scale|rotate|translate-x|translate-y|skew|origin|cursor|select|pointer-events|sr-only|not-sr-only)(-|$)`),
}

// tailwindVariant is a state or breakpoint prefix such as hover: or md:.
var tailwindVariant = regexp.MustCompile(`^([a-z0-9-]+|\[[^\]]+\]):`)

// cssModulePattern matches Name_name__hash class names.
var cssModulePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9-]*_[A-Za-z0-9-]+__[A-Za-z0-9_-]{3,}$`)

// styledPattern matches runtime CSS-in-JS generated class names.
var styledPattern = regexp.MustCompile(`^(sc-[A-Za-z0-9]+|css-[a-z0-9]{4,}(-[A-Za-z0-9]+)?)$`)

// StyledMarkerAttributes mark elements rendered by a runtime CSS-in-JS
// library.
var StyledMarkerAttributes = []string{"data-styled", "data-styled-components", "data-emotion"}

// IsTailwindClass reports whether class looks like a utility class.
func IsTailwindClass(class string) bool {
	base := class
	for {
		loc := tailwindVariant.FindStringIndex(base)
		if loc == nil {
			break
		}
		base = base[loc[1]:]
	}
	base = strings.TrimPrefix(base, "!")
	if base == "" {
		return false
	}
	for _, re := range tailwindPatterns {
		if re.MatchString(base) {
			return true
		}
	}
	return false
}

// IsCSSModuleClass reports whether class has the Name_name__hash shape.
func IsCSSModuleClass(class string) bool {
	return cssModulePattern.MatchString(class)
}

// IsStyledClass reports whether class looks generated by a CSS-in-JS runtime.
func IsStyledClass(class string) bool {
	return styledPattern.MatchString(class)
}

// DetectStrategy classifies an element's styling approach. Checks run in
// priority order and the first match wins: tailwind, css-module,
// styled-components, inline, then plain-css as the fallback.
func DetectStrategy(classes []string, hasInline, hasMarker bool) Strategy {
	if len(classes) > 0 {
		matches := 0
		for _, c := range classes {
			if IsTailwindClass(c) {
				matches++
			}
		}
		if matches > 0 && float64(matches)/float64(len(classes)) > TailwindThreshold {
			return StrategyTailwind
		}
	}

	for _, c := range classes {
		if IsCSSModuleClass(c) {
			return StrategyCSSModule
		}
	}

	if hasMarker {
		return StrategyStyledComponents
	}
	for _, c := range classes {
		if IsStyledClass(c) {
			return StrategyStyledComponents
		}
	}

	if hasInline {
		return StrategyInline
	}
	return StrategyPlainCSS
}

func hasStyledMarker(el dom.Element) bool {
	for _, name := range StyledMarkerAttributes {
		if _, ok := el.Attribute(name); ok {
			return true
		}
	}
	return false
}
