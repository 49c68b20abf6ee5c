package extract

import (
	"fmt"

	"github.com/gnana997/fibersnap/pkg/fiber"
)

// maxContextEntries caps the context dependency walk.
const maxContextEntries = 100

// ExtractProps returns n's sanitized props without the children key.
func ExtractProps(n *fiber.Node) *fiber.Object {
	if n == nil {
		return fiber.NewObject()
	}
	return SanitizeObject(n.PropsObject(), "children")
}

// ExtractState returns the sanitized instance state of a class component,
// or nil for any other node.
func ExtractState(n *fiber.Node) fiber.Value {
	if fiber.Classify(n) != fiber.KindClass {
		return nil
	}
	if inst, ok := n.Instance(); ok && !fiber.IsNullish(inst.State) {
		return Sanitize(inst.State)
	}
	if o, ok := fiber.AsObject(n.MemoizedState); ok {
		return Sanitize(o)
	}
	return nil
}

// ExtractContextValues walks n's context dependency list and returns each
// entry's sanitized value under Context_0, Context_1, ... in list order.
// It returns nil when the node has no dependencies.
func ExtractContextValues(n *fiber.Node) *fiber.Object {
	if n == nil {
		return nil
	}
	deps, ok := fiber.AsObject(n.Dependencies)
	if !ok {
		return nil
	}
	out := fiber.NewObject()
	seen := make(map[*fiber.Object]bool)
	cur, _ := fiber.AsObject(deps.Lookup("firstContext"))
	for i := 0; cur != nil && i < maxContextEntries && !seen[cur]; i++ {
		seen[cur] = true
		val, err := cur.Get("memoizedValue")
		key := fmt.Sprintf("Context_%d", i)
		if err != nil {
			out.Set(key, fiber.String(ErrorPlaceholder(err)))
		} else {
			out.Set(key, Sanitize(val))
		}
		cur, _ = fiber.AsObject(cur.Lookup("next"))
	}
	if out.Len() == 0 {
		return nil
	}
	return out
}

// ExtractKey returns n's reconciliation key.
func ExtractKey(n *fiber.Node) (string, bool) {
	if n == nil || !n.HasKey {
		return "", false
	}
	return n.Key, true
}

// ExtractRef returns n's sanitized ref, or nil when absent.
func ExtractRef(n *fiber.Node) fiber.Value {
	if n == nil || fiber.IsNullish(n.Ref) {
		return nil
	}
	return Sanitize(n.Ref)
}

// ExtractOwner returns the name of the component that rendered n, or "".
func ExtractOwner(n *fiber.Node) string {
	if n == nil || n.DebugOwner == nil {
		return ""
	}
	return fiber.NameOf(n.DebugOwner)
}

// ExtractSourceLocation returns n's debug source position, or nil.
func ExtractSourceLocation(n *fiber.Node) *fiber.SourceLocation {
	if n == nil || n.DebugSource == nil || n.DebugSource.FileName == "" {
		return nil
	}
	loc := *n.DebugSource
	return &loc
}
