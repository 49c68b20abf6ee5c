package codegen

import (
	"math"
	"strconv"
	"strings"

	"github.com/gnana997/fibersnap/pkg/fiber"
)

// maxLiteralDepth bounds nested literal output.
const maxLiteralDepth = 6

func formatNumber(f float64) string {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return ""
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

var jsEscaper = strings.NewReplacer(
	`\`, `\\`,
	`'`, `\'`,
	"\n", `\n`,
	"\r", `\r`,
	"\t", `\t`,
	"\u2028", `\u2028`,
	"\u2029", `\u2029`,
)

// jsString renders s as a single-quoted JS string literal.
func jsString(s string) string {
	return "'" + jsEscaper.Replace(s) + "'"
}

// objectKey renders an object key, quoting it when it is not an identifier.
func objectKey(k string) string {
	if isIdentifier(k) {
		return k
	}
	return jsString(k)
}

// JSLiteral renders a runtime value as a JS expression. Values that have no
// literal form (functions, elements, DOM handles) become placeholders that
// still parse. A container reached again while it is being rendered becomes
// circularLiteral, and output stops growing after maxLiteralNodes
// containers.
func JSLiteral(v fiber.Value) string {
	w := &literalWriter{active: make(map[any]bool), budget: maxLiteralNodes}
	return w.literal(v, 0)
}

const (
	// maxLiteralNodes caps the containers rendered by one JSLiteral call.
	maxLiteralNodes = 500
	circularLiteral = "null /* circular */"
)

type literalWriter struct {
	active map[any]bool
	budget int
}

// enter claims container c. empty is returned in its place when it is too
// deep or the budget is spent.
func (w *literalWriter) enter(c any, depth int, empty string) (string, bool) {
	if w.active[c] {
		return circularLiteral, false
	}
	if depth >= maxLiteralDepth || w.budget <= 0 {
		return empty, false
	}
	w.budget--
	w.active[c] = true
	return "", true
}

func (w *literalWriter) literal(v fiber.Value, depth int) string {
	switch x := v.(type) {
	case nil, fiber.Undefined:
		return "undefined"
	case fiber.Null:
		return "null"
	case fiber.Bool:
		return strconv.FormatBool(bool(x))
	case fiber.Number:
		if n := formatNumber(float64(x)); n != "" {
			return n
		}
		return "NaN"
	case fiber.String:
		return jsString(string(x))
	case fiber.Function:
		return "() => {}"
	case fiber.ElementMarker, fiber.NodeMarker, fiber.DOMHandle:
		return "null"
	case *fiber.Array:
		if x == nil {
			return "null"
		}
		if len(x.Items) == 0 {
			return "[]"
		}
		if out, ok := w.enter(x, depth, "[]"); !ok {
			return out
		}
		defer delete(w.active, x)
		items := make([]string, len(x.Items))
		for i, item := range x.Items {
			items[i] = w.literal(item, depth+1)
		}
		return "[" + strings.Join(items, ", ") + "]"
	case *fiber.Object:
		if x == nil {
			return "null"
		}
		if x.Len() == 0 {
			return "{}"
		}
		if out, ok := w.enter(x, depth, "{}"); !ok {
			return out
		}
		defer delete(w.active, x)
		pairs := make([]string, 0, x.Len())
		for _, k := range x.Keys() {
			pairs = append(pairs, objectKey(k)+": "+w.literal(x.Lookup(k), depth+1))
		}
		return "{ " + strings.Join(pairs, ", ") + " }"
	}
	return "undefined"
}
