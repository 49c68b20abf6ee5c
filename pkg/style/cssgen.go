package style

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gnana997/fibersnap/pkg/dom"
)

// RootClass is the class name used for the component root in css-module
// output.
const RootClass = "root"

// Sheet is rendered style text for one strategy.
type Sheet struct {
	Strategy Strategy
	// Text is the rendered source. For inline and styled-components it
	// belongs inside the component file; otherwise it is a separate file.
	Text string
	// External reports whether Text should be written to its own file.
	External bool
	// Extension of the external file, e.g. ".module.css".
	Extension string
}

// RenderInput is what the renderers need from a component.
type RenderInput struct {
	Component    string
	Tag          string
	Declarations []dom.Declaration
	Classes      []string
	Comments     bool
}

// Render renders in.Declarations for the given strategy.
func Render(strategy Strategy, in RenderInput) Sheet {
	switch strategy {
	case StrategyInline:
		return Sheet{Strategy: strategy, Text: "const styles = {\n  root: " + InlineObject(in.Declarations, 1) + ",\n};\n"}
	case StrategyCSSModule:
		return Sheet{Strategy: strategy, Text: header(in) + CSSRule("."+RootClass, in.Declarations), External: true, Extension: ".module.css"}
	case StrategyStyledComponents:
		return Sheet{Strategy: strategy, Text: StyledTemplate(StyledName(in.Component), in.Tag, in.Declarations)}
	case StrategyPlainCSS:
		return Sheet{Strategy: strategy, Text: header(in) + CSSRule("."+PlainClassName(in.Component), in.Declarations), External: true, Extension: ".css"}
	case StrategyTailwind:
		// Utility classes stay on the markup.
		return Sheet{Strategy: strategy}
	}
	return Sheet{Strategy: StrategyNone}
}

func header(in RenderInput) string {
	if !in.Comments {
		return ""
	}
	return fmt.Sprintf("/* Styles for %s */\n\n", in.Component)
}

// StyledName is the identifier of the styled wrapper for a component.
func StyledName(component string) string {
	return "Styled" + component
}

// PlainClassName is the stylesheet class for a component in plain-css output.
func PlainClassName(component string) string {
	return KebabCase(component)
}

// CSSRule renders a stylesheet rule. An empty declaration list still
// produces a valid empty rule.
func CSSRule(selector string, decls []dom.Declaration) string {
	var b strings.Builder
	b.WriteString(selector)
	b.WriteString(" {\n")
	for _, d := range decls {
		fmt.Fprintf(&b, "  %s: %s;\n", KebabCase(d.Property), d.Value)
	}
	b.WriteString("}\n")
	return b.String()
}

// StyledTemplate renders a styled-components template literal binding.
func StyledTemplate(name, tag string, decls []dom.Declaration) string {
	if tag == "" {
		tag = "div"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "const %s = styled.%s`\n", name, tag)
	for _, d := range decls {
		fmt.Fprintf(&b, "  %s: %s;\n", KebabCase(d.Property), escapeTemplate(d.Value))
	}
	b.WriteString("`;\n")
	return b.String()
}

func escapeTemplate(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "`", "\\`")
	return strings.ReplaceAll(s, "${", "\\${")
}

var plainNumber = regexp.MustCompile(`^-?\d+(\.\d+)?$`)

// InlineObject renders declarations as a style object literal with
// camelCase keys. Unitless numeric values are emitted as numbers.
func InlineObject(decls []dom.Declaration, indent int) string {
	if len(decls) == 0 {
		return "{}"
	}
	pad := strings.Repeat("  ", indent+1)
	var b strings.Builder
	b.WriteString("{\n")
	for _, d := range decls {
		key := CamelCase(d.Property)
		if IsUnitless(d.Property) && plainNumber.MatchString(d.Value) {
			fmt.Fprintf(&b, "%s%s: %s,\n", pad, key, d.Value)
			continue
		}
		fmt.Fprintf(&b, "%s%s: '%s',\n", pad, key, strings.ReplaceAll(d.Value, "'", "\\'"))
	}
	b.WriteString(strings.Repeat("  ", indent))
	b.WriteString("}")
	return b.String()
}
