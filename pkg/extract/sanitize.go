// Package extract pulls props, state, context, hooks and debug metadata off
// tree nodes and turns runtime values into JSON-safe data.
package extract

import (
	"fmt"

	"github.com/gnana997/fibersnap/pkg/fiber"
)

// Placeholders substituted for values that cannot be serialized.
const (
	ElementPlaceholder  = "[React Element]"
	CircularPlaceholder = "[Circular]"
	MaxDepthPlaceholder = "[Max Depth]"
)

// MaxSanitizeDepth caps nesting during sanitization.
const MaxSanitizeDepth = 10

// MaxSanitizeNodes caps the containers copied by one Sanitize call. A value
// shared by many parents is copied once per parent.
const MaxSanitizeNodes = 10000

// FunctionPlaceholder returns the placeholder for a function value.
func FunctionPlaceholder(name string) string {
	if name == "" {
		name = "anonymous"
	}
	return "[Function: " + name + "]"
}

// DOMPlaceholder returns the placeholder for a DOM element handle.
func DOMPlaceholder(tag string) string {
	if tag == "" {
		tag = "unknown"
	}
	return "[DOM Element: " + tag + "]"
}

// ErrorPlaceholder returns the placeholder for a value that failed to read.
func ErrorPlaceholder(err error) string {
	return fmt.Sprintf("[Error: %v]", err)
}

// Sanitize maps a runtime value to a JSON-safe value. Primitives pass through;
// functions, elements, tree nodes and DOM handles become placeholder strings;
// arrays and objects are copied element-wise. A key whose read fails is
// replaced by an error placeholder without affecting its siblings.
//
// Sanitize terminates on cyclic graphs: a container reached again while it is
// still being copied becomes CircularPlaceholder, and nesting beyond
// MaxSanitizeDepth becomes MaxDepthPlaceholder. Once MaxSanitizeNodes
// containers have been copied, every further container also becomes
// MaxDepthPlaceholder. The result is never cyclic.
func Sanitize(v fiber.Value) fiber.Value {
	return newSanitizer().value(v, 0)
}

type sanitizer struct {
	// active holds containers on the current recursion path.
	active map[any]bool
	budget int
}

func newSanitizer() *sanitizer {
	return &sanitizer{active: make(map[any]bool), budget: MaxSanitizeNodes}
}

// enter claims c for copying. It returns a placeholder when c is already on
// the path, too deep, or the budget is spent.
func (s *sanitizer) enter(c any, depth int) (fiber.Value, bool) {
	if s.active[c] {
		return fiber.String(CircularPlaceholder), false
	}
	if depth >= MaxSanitizeDepth || s.budget <= 0 {
		return fiber.String(MaxDepthPlaceholder), false
	}
	s.budget--
	s.active[c] = true
	return nil, true
}

func (s *sanitizer) value(v fiber.Value, depth int) fiber.Value {
	switch x := v.(type) {
	case nil:
		return fiber.Undefined{}
	case fiber.Undefined, fiber.Null, fiber.Bool, fiber.Number, fiber.String:
		return x
	case fiber.Function:
		return fiber.String(FunctionPlaceholder(x.Name))
	case fiber.ElementMarker, fiber.NodeMarker:
		return fiber.String(ElementPlaceholder)
	case fiber.DOMHandle:
		return fiber.String(DOMPlaceholder(x.Tag))
	case *fiber.Array:
		if x == nil {
			return fiber.Null{}
		}
		if p, ok := s.enter(x, depth); !ok {
			return p
		}
		defer delete(s.active, x)
		out := &fiber.Array{Items: make([]fiber.Value, len(x.Items))}
		for i, item := range x.Items {
			out.Items[i] = s.value(item, depth+1)
		}
		return out
	case *fiber.Object:
		if x == nil {
			return fiber.Null{}
		}
		if p, ok := s.enter(x, depth); !ok {
			return p
		}
		defer delete(s.active, x)
		out := fiber.NewObject()
		for _, k := range x.Keys() {
			item, err := x.Get(k)
			if err != nil {
				out.Set(k, fiber.String(ErrorPlaceholder(err)))
				continue
			}
			out.Set(k, s.value(item, depth+1))
		}
		return out
	}
	return fiber.Undefined{}
}

// SanitizeObject sanitizes every key of o except the excluded ones.
func SanitizeObject(o *fiber.Object, exclude ...string) *fiber.Object {
	out := fiber.NewObject()
	if o == nil {
		return out
	}
	skip := make(map[string]bool, len(exclude))
	for _, k := range exclude {
		skip[k] = true
	}
	s := newSanitizer()
	s.active[o] = true
	for _, k := range o.Keys() {
		if skip[k] {
			continue
		}
		item, err := o.Get(k)
		if err != nil {
			out.Set(k, fiber.String(ErrorPlaceholder(err)))
			continue
		}
		out.Set(k, s.value(item, 1))
	}
	return out
}
