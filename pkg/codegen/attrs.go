package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// inlineObjectKeys caps how many primitive keys an object prop may have to be
// written out in full.
const inlineObjectKeys = 4

var eventHandlerName = regexp.MustCompile(`^on[A-Z]`)

// jsxAttrName matches a JSX attribute name, optionally namespaced
// (xlink:href).
var jsxAttrName = regexp.MustCompile(`^[\p{L}_$][\p{L}\p{N}_$-]*(:[\p{L}_$][\p{L}\p{N}_$-]*)?$`)

// attribute is one rendered JSX attribute. An empty value renders bare.
type attribute struct {
	name  string
	value string
}

func renderAttrs(attrs []attribute) string {
	var b strings.Builder
	for _, a := range attrs {
		b.WriteByte(' ')
		b.WriteString(a.name)
		if a.value != "" {
			b.WriteByte('=')
			b.WriteString(a.value)
		}
	}
	return b.String()
}

// isInternalProp reports whether a prop never becomes an attribute or a
// typed field.
func isInternalProp(key string) bool {
	return key == "children" || key == "key" || key == "ref" || strings.HasPrefix(key, "__")
}

// IsEventHandlerName reports whether key looks like onClick, onChange, ...
func IsEventHandlerName(key string) bool {
	return eventHandlerName.MatchString(key)
}

func (s *synth) attributes(props *fiber.Object) []attribute {
	var out []attribute
	for _, key := range props.Keys() {
		if isInternalProp(key) || !jsxAttrName.MatchString(key) {
			continue
		}
		if strings.HasPrefix(key, "data-") && !s.opts.IncludeDataAttrs {
			continue
		}
		if strings.HasPrefix(key, "aria-") && !s.opts.IncludeAriaAttrs {
			continue
		}
		if IsEventHandlerName(key) {
			if s.opts.IncludeEventHandlers {
				out = append(out, attribute{key, "{" + HandlerName + "}"})
			}
			continue
		}
		v, err := props.Get(key)
		if err != nil {
			continue
		}
		if value, ok := attrValue(key, v); ok {
			out = append(out, attribute{key, value})
		}
	}
	return out
}

// attrValue renders one prop value. ok is false when the attribute is
// omitted.
func attrValue(key string, v fiber.Value) (string, bool) {
	switch x := v.(type) {
	case nil, fiber.Null, fiber.Undefined:
		return "", false
	case fiber.Bool:
		if x {
			return "", true
		}
		return "", false
	case fiber.String:
		return quoteAttr(string(x)), true
	case fiber.Number:
		n := formatNumber(float64(x))
		if n == "" {
			return "", false
		}
		return "{" + n + "}", true
	case *fiber.Array:
		return "{[" + countComment(len(x.Items), "item") + "]}", true
	case *fiber.Object:
		if key == "style" {
			body := styleObject(x)
			if body == "" {
				return "", false
			}
			return "{{ " + body + " }}", true
		}
		return "{" + objectLiteral(x) + "}", true
	case fiber.Function:
		return "{" + HandlerName + "}", true
	case fiber.ElementMarker, fiber.NodeMarker, fiber.DOMHandle:
		return "{null /* element */}", true
	}
	return "", false
}

var attrEscaper = strings.NewReplacer(`"`, "&quot;", "\r\n", "&#10;", "\n", "&#10;")

func quoteAttr(s string) string {
	return `"` + attrEscaper.Replace(s) + `"`
}

func countComment(n int, noun string) string {
	if n != 1 {
		noun += "s"
	}
	return fmt.Sprintf("/* %d %s */", n, noun)
}

// styleObject renders a style prop as kebab-case keyed pairs. Numeric values
// of unit-bearing properties get a px suffix.
func styleObject(o *fiber.Object) string {
	var pairs []string
	for _, k := range o.Keys() {
		prop := style.KebabCase(k)
		var val string
		switch x := o.Lookup(k).(type) {
		case fiber.String:
			val = jsString(string(x))
		case fiber.Number:
			n := formatNumber(float64(x))
			if n == "" {
				continue
			}
			if style.IsUnitless(prop) {
				val = n
			} else {
				val = jsString(n + "px")
			}
		default:
			continue
		}
		pairs = append(pairs, jsString(prop)+": "+val)
	}
	return strings.Join(pairs, ", ")
}

// objectLiteral renders small objects of primitives in full and anything
// else as an empty object with a key count comment.
func objectLiteral(o *fiber.Object) string {
	if o.Len() == 0 {
		return "{}"
	}
	if o.Len() <= inlineObjectKeys {
		pairs := make([]string, 0, o.Len())
		for _, k := range o.Keys() {
			v, err := o.Get(k)
			if err != nil || !isPrimitive(v) {
				pairs = nil
				break
			}
			pairs = append(pairs, objectKey(k)+": "+JSLiteral(v))
		}
		if pairs != nil {
			return "{ " + strings.Join(pairs, ", ") + " }"
		}
	}
	return "{ " + countComment(o.Len(), "key") + " }"
}

func isPrimitive(v fiber.Value) bool {
	switch v.(type) {
	case fiber.Null, fiber.Undefined, fiber.Bool, fiber.Number, fiber.String:
		return true
	}
	return false
}

// applyRootStyle points the root element at the generated styles. Class
// based strategies only replace a className the element already has.
func applyRootStyle(rs RootStyle, tag string, attrs []attribute) (string, []attribute) {
	switch rs.Strategy {
	case style.StrategyCSSModule:
		attrs = replaceAttr(attrs, "className", "{styles."+style.RootClass+"}")
	case style.StrategyInline:
		attrs = setAttr(attrs, "style", "{styles."+style.RootClass+"}")
	case style.StrategyPlainCSS:
		attrs = replaceAttr(attrs, "className", quoteAttr(style.PlainClassName(rs.Component)))
	case style.StrategyStyledComponents:
		tag = style.StyledName(rs.Component)
		attrs = removeAttr(attrs, "className")
	}
	return tag, attrs
}

func setAttr(attrs []attribute, name, value string) []attribute {
	if out, ok := replaced(attrs, name, value); ok {
		return out
	}
	return append([]attribute{{name, value}}, attrs...)
}

func replaceAttr(attrs []attribute, name, value string) []attribute {
	out, _ := replaced(attrs, name, value)
	return out
}

func replaced(attrs []attribute, name, value string) ([]attribute, bool) {
	for i, a := range attrs {
		if a.name == name {
			attrs[i].value = value
			return attrs, true
		}
	}
	return attrs, false
}

func removeAttr(attrs []attribute, name string) []attribute {
	out := attrs[:0]
	for _, a := range attrs {
		if a.name != name {
			out = append(out, a)
		}
	}
	return out
}
