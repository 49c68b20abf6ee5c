// Package dom defines the DOM element port consumed by the tree accessor and
// the style extractor. Implementations wrap whatever host environment produced
// the element: a decoded snapshot, a live page, or a test fixture.
package dom

// Declaration is a single CSS property/value pair.
type Declaration struct {
	Property string `json:"property"`
	Value    string `json:"value"`
}

// Element is a read-only view over one DOM element.
//
// Property values returned by Property are opaque to this package; the tree
// accessor type-asserts them to tree nodes.
type Element interface {
	// TagName returns the lower-case tag name ("div", "img").
	TagName() string

	// ClassList returns class names in DOM order.
	ClassList() []string

	// InlineStyle returns declarations set on the element's own style attribute,
	// in declaration order.
	InlineStyle() []Declaration

	// ComputedStyle returns the resolved value of a CSS property.
	ComputedStyle(property string) (string, bool)

	// Attribute returns a markup attribute value.
	Attribute(name string) (string, bool)

	// OwnPropertyNames returns the element's own enumerable property names.
	OwnPropertyNames() []string

	// Property returns the value held by an own property, or nil.
	Property(name string) any

	// Children returns child elements in DOM order.
	Children() []Element
}

// Property is a named own property of a StaticElement.
type Property struct {
	Name  string
	Value any
}

// StaticElement is an in-memory Element. The snapshot decoder builds these,
// and tests use them as fixtures.
type StaticElement struct {
	Tag        string
	Classes    []string
	Inline     []Declaration
	Computed   map[string]string
	Attributes map[string]string
	Properties []Property
	Kids       []*StaticElement
}

var _ Element = (*StaticElement)(nil)

// TagName implements Element.
func (e *StaticElement) TagName() string { return e.Tag }

// ClassList implements Element.
func (e *StaticElement) ClassList() []string { return e.Classes }

// InlineStyle implements Element.
func (e *StaticElement) InlineStyle() []Declaration { return e.Inline }

// ComputedStyle implements Element.
func (e *StaticElement) ComputedStyle(property string) (string, bool) {
	v, ok := e.Computed[property]
	return v, ok
}

// Attribute implements Element.
func (e *StaticElement) Attribute(name string) (string, bool) {
	v, ok := e.Attributes[name]
	return v, ok
}

// OwnPropertyNames implements Element.
func (e *StaticElement) OwnPropertyNames() []string {
	names := make([]string, len(e.Properties))
	for i, p := range e.Properties {
		names[i] = p.Name
	}
	return names
}

// Property implements Element.
func (e *StaticElement) Property(name string) any {
	for _, p := range e.Properties {
		if p.Name == name {
			return p.Value
		}
	}
	return nil
}

// Children implements Element.
func (e *StaticElement) Children() []Element {
	out := make([]Element, len(e.Kids))
	for i, k := range e.Kids {
		out[i] = k
	}
	return out
}

// SetProperty adds or replaces an own property, keeping insertion order.
func (e *StaticElement) SetProperty(name string, value any) {
	for i, p := range e.Properties {
		if p.Name == name {
			e.Properties[i].Value = value
			return
		}
	}
	e.Properties = append(e.Properties, Property{Name: name, Value: value})
}

// Walk visits el and its descendants depth-first, pre-order. Traversal stops
// descending below maxDepth (0 means el only).
func Walk(el Element, maxDepth int, visit func(Element)) {
	walk(el, 0, maxDepth, visit)
}

func walk(el Element, depth, maxDepth int, visit func(Element)) {
	if el == nil {
		return
	}
	visit(el)
	if depth >= maxDepth {
		return
	}
	for _, c := range el.Children() {
		walk(c, depth+1, maxDepth, visit)
	}
}
