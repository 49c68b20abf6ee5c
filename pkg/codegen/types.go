package codegen

import (
	"fmt"
	"strings"

	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// Type names produced by InferType for non-primitive values.
const (
	TypeCallback     = "() => void"
	// TypeEventHandler is used for on* props so handlers may take the event.
	TypeEventHandler = "(event?: unknown) => void"
	TypeArray        = "unknown[]"
	TypeRecord       = "Record<string, unknown>"
	TypeStyle        = "React.CSSProperties"
	TypeElement      = "React.ReactElement"
	TypeNode         = "React.ReactNode"
	TypeDOMElement   = "HTMLElement"
)

// elementMarkerKey marks renderable elements in raw props.
const elementMarkerKey = "$$typeof"

// TypeOptions controls props type rendering.
type TypeOptions struct {
	// Name is the type name, e.g. ButtonProps.
	Name string
	// UseInterface renders "interface X {}" instead of "type X = {};".
	UseInterface bool
	Comments     bool
	// Export prefixes the declaration with export.
	Export bool
}

// PropsTypeName returns the props type name for a component.
func PropsTypeName(component string) string {
	return component + "Props"
}

// InferType infers a structural type from one sampled value. An array that
// contains itself is typed as unknown[] at the point of the cycle.
func InferType(v fiber.Value) string {
	in := &typeInferrer{active: make(map[*fiber.Array]bool), seen: make(map[arrayAt]string)}
	return in.infer(v, 0)
}

type arrayAt struct {
	arr   *fiber.Array
	depth int
}

// typeInferrer memoizes array results so arrays shared by many parents are
// inferred once per depth.
type typeInferrer struct {
	active map[*fiber.Array]bool
	seen   map[arrayAt]string
}

func (in *typeInferrer) infer(v fiber.Value, depth int) string {
	switch x := v.(type) {
	case fiber.Null:
		return "null"
	case nil, fiber.Undefined:
		return "undefined"
	case fiber.String:
		return "string"
	case fiber.Number:
		return "number"
	case fiber.Bool:
		return "boolean"
	case fiber.Function:
		return TypeCallback
	case fiber.ElementMarker:
		return TypeElement
	case fiber.NodeMarker:
		return "unknown"
	case fiber.DOMHandle:
		return TypeDOMElement
	case *fiber.Array:
		if x == nil || len(x.Items) == 0 || depth >= maxLiteralDepth || in.active[x] {
			return TypeArray
		}
		key := arrayAt{x, depth}
		if t, ok := in.seen[key]; ok {
			return t
		}
		in.active[x] = true
		t := in.arrayType(x, depth)
		delete(in.active, x)
		in.seen[key] = t
		return t
	case *fiber.Object:
		if x == nil {
			return "null"
		}
		if x.Has(elementMarkerKey) {
			return TypeElement
		}
		for _, k := range x.Keys() {
			if style.IsStyleProperty(k) {
				return TypeStyle
			}
		}
		return TypeRecord
	}
	return "unknown"
}

func (in *typeInferrer) arrayType(x *fiber.Array, depth int) string {
	first := in.infer(x.Items[0], depth+1)
	for _, item := range x.Items[1:] {
		if in.infer(item, depth+1) != first {
			return TypeArray
		}
	}
	if strings.Contains(first, "=>") || strings.ContainsAny(first, "|&") {
		return "(" + first + ")[]"
	}
	return first + "[]"
}

// PropField is one inferred props type member.
type PropField struct {
	Name        string
	Type        string
	Optional    bool
	Description string
}

// InferPropFields infers a field per prop key, skipping internal keys.
// children, when present, is typed as a renderable node and placed last.
func InferPropFields(props *fiber.Object) []PropField {
	var fields []PropField
	for _, key := range props.Keys() {
		if isInternalProp(key) {
			continue
		}
		v, err := props.Get(key)
		if err != nil {
			v = fiber.Undefined{}
		}
		typ := InferType(v)
		if IsEventHandlerName(key) && typ == TypeCallback {
			typ = TypeEventHandler
		}
		fields = append(fields, PropField{
			Name:        key,
			Type:        typ,
			Optional:    typ == "undefined",
			Description: describeProp(key),
		})
	}
	if props.Has("children") {
		fields = append(fields, PropField{
			Name:        "children",
			Type:        TypeNode,
			Optional:    true,
			Description: "Content rendered inside the component",
		})
	}
	return fields
}

// InferPropsType renders a props type declaration.
func InferPropsType(props *fiber.Object, opts TypeOptions) string {
	return RenderPropsType(InferPropFields(props), opts)
}

// RenderPropsType renders fields as an interface or type alias.
func RenderPropsType(fields []PropField, opts TypeOptions) string {
	name := opts.Name
	if name == "" {
		name = "Props"
	}
	var b strings.Builder
	if opts.Export {
		b.WriteString("export ")
	}
	if opts.UseInterface {
		fmt.Fprintf(&b, "interface %s {\n", name)
	} else {
		fmt.Fprintf(&b, "type %s = {\n", name)
	}
	for _, f := range fields {
		if opts.Comments && f.Description != "" {
			fmt.Fprintf(&b, "  /** %s */\n", f.Description)
		}
		opt := ""
		if f.Optional {
			opt = "?"
		}
		fmt.Fprintf(&b, "  %s%s: %s;\n", typeKey(f.Name), opt, f.Type)
	}
	if opts.UseInterface {
		b.WriteString("}\n")
	} else {
		b.WriteString("};\n")
	}
	return b.String()
}

func typeKey(k string) string {
	if isIdentifier(k) {
		return k
	}
	return `"` + strings.ReplaceAll(k, `"`, `\"`) + `"`
}

// describeProp derives a field description from naming conventions.
func describeProp(key string) string {
	switch {
	case IsEventHandlerName(key):
		return "Handler for the " + splitWords(key[2:]) + " event"
	case strings.HasSuffix(key, "Ref") && len(key) > 3:
		return "Ref to the " + splitWords(strings.TrimSuffix(key, "Ref")) + " element"
	case key == "className":
		return "Additional CSS class names"
	case key == "style":
		return "Inline style overrides"
	case key == "id":
		return "Element id"
	case strings.HasPrefix(key, "aria-"):
		return "Accessibility attribute " + key
	case strings.HasPrefix(key, "data-"):
		return "Data attribute " + key
	}
	return capitalize(splitWords(key)) + " value"
}

// splitWords lower-cases a camelCase name into space separated words.
func splitWords(s string) string {
	var b strings.Builder
	for i, r := range s {
		if r >= 'A' && r <= 'Z' {
			if i > 0 {
				b.WriteByte(' ')
			}
			b.WriteRune(r + ('a' - 'A'))
			continue
		}
		if r == '-' || r == '_' {
			b.WriteByte(' ')
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
