package validator

import (
	"strings"
	"unicode"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// Usage is one custom-component element in a module's markup.
type Usage struct {
	Name string `json:"name"`
	// Attributes lists attribute names in source order. Spread attributes
	// are recorded as "...".
	Attributes  []string `json:"attributes,omitempty"`
	HasChildren bool     `json:"has_children"`
	// Parent is the nearest enclosing custom component, "" at the top.
	Parent string `json:"parent,omitempty"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
}

// Root returns the identifier a usage resolves through: "Icons" for
// <Icons.Close />.
func (u Usage) Root() string {
	name, _, _ := strings.Cut(u.Name, ".")
	return name
}

// Markup summarizes the JSX of a module.
type Markup struct {
	Usages []Usage `json:"usages"`
	// Elements counts every element, host tags included.
	Elements int `json:"elements"`
	// Fragments counts <>...</> groups.
	Fragments int `json:"fragments"`
}

// ExtractMarkup walks tree and records component usages in document order.
// Host elements (lower-case tags) are counted but not recorded, and do not
// become parents.
func ExtractMarkup(tree *ts.Tree, src []byte) *Markup {
	m := &Markup{}
	if tree == nil {
		return m
	}
	var parents []string
	walkMarkup(tree.RootNode(), src, &parents, m)
	return m
}

func walkMarkup(node *ts.Node, src []byte, parents *[]string, m *Markup) {
	switch node.Kind() {
	case "jsx_element":
		markupElement(node, src, parents, m)
		return
	case "jsx_self_closing_element":
		m.Elements++
		name, attrs := tagAndAttributes(node, src)
		if isComponentName(name) {
			m.Usages = append(m.Usages, newUsage(node, name, attrs, false, *parents))
		}
		return
	}
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		walkMarkup(node.Child(i), src, parents, m)
	}
}

func markupElement(node *ts.Node, src []byte, parents *[]string, m *Markup) {
	var name string
	var attrs []string
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		if child := node.Child(i); child.Kind() == "jsx_opening_element" {
			name, attrs = tagAndAttributes(child, src)
			break
		}
	}

	if name == "" {
		m.Fragments++
	} else {
		m.Elements++
	}
	component := isComponentName(name)
	if component {
		m.Usages = append(m.Usages, newUsage(node, name, attrs, hasChildren(node, src), *parents))
		*parents = append(*parents, name)
	}

	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		if k := child.Kind(); k != "jsx_opening_element" && k != "jsx_closing_element" {
			walkMarkup(child, src, parents, m)
		}
	}

	if component {
		*parents = (*parents)[:len(*parents)-1]
	}
}

func newUsage(node *ts.Node, name string, attrs []string, children bool, parents []string) Usage {
	pos := node.StartPosition()
	u := Usage{
		Name:        name,
		Attributes:  attrs,
		HasChildren: children,
		Line:        int(pos.Row) + 1,
		Column:      int(pos.Column) + 1,
	}
	if len(parents) > 0 {
		u.Parent = parents[len(parents)-1]
	}
	return u
}

// tagAndAttributes reads the tag name and attribute names of an opening or
// self-closing element. Fragments have no name.
func tagAndAttributes(node *ts.Node, src []byte) (string, []string) {
	var name string
	var attrs []string
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "identifier", "member_expression", "nested_identifier", "jsx_namespace_name":
			if name == "" {
				name = child.Utf8Text(src)
			}
		case "jsx_attribute":
			if attr := attributeName(child, src); attr != "" {
				attrs = append(attrs, attr)
			}
		case "jsx_expression":
			if strings.HasPrefix(strings.TrimSpace(strings.TrimPrefix(child.Utf8Text(src), "{")), "...") {
				attrs = append(attrs, "...")
			}
		}
	}
	return name, attrs
}

func attributeName(node *ts.Node, src []byte) string {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "property_identifier", "jsx_namespace_name":
			return child.Utf8Text(src)
		}
	}
	return ""
}

// hasChildren reports whether an element has element, expression or
// non-blank text children.
func hasChildren(node *ts.Node, src []byte) bool {
	for i := uint(0); i < uint(node.ChildCount()); i++ {
		child := node.Child(i)
		switch child.Kind() {
		case "jsx_element", "jsx_self_closing_element", "jsx_expression":
			return true
		case "jsx_text", "html_character_reference":
			if strings.TrimSpace(child.Utf8Text(src)) != "" {
				return true
			}
		}
	}
	return false
}

// isComponentName reports whether a tag names a custom component.
func isComponentName(name string) bool {
	if name == "" {
		return false
	}
	r := []rune(name)[0]
	return unicode.IsUpper(r) || strings.Contains(name, ".")
}
