// Package fiber models the inspected runtime's internal render tree and
// provides the read-only operations the code generator needs: classification,
// locating nodes from DOM elements, name resolution and traversal.
//
// The node shape is not a public contract of the host runtime. Everything that
// depends on internal property names lives in accessor.go; the rest of the
// repository only sees Node.
package fiber

import "github.com/gnana997/fibersnap/pkg/dom"

// Tag is the integer kind-tag carried by every tree node.
type Tag int

// Known kind-tags.
const (
	TagFunctionComponent      Tag = 0
	TagClassComponent         Tag = 1
	TagIndeterminateComponent Tag = 2
	TagHostRoot               Tag = 3
	TagHostPortal             Tag = 4
	TagHostComponent          Tag = 5
	TagHostText               Tag = 6
	TagFragment               Tag = 7
	TagMode                   Tag = 8
	TagContextConsumer        Tag = 9
	TagContextProvider        Tag = 10
	TagForwardRef             Tag = 11
	TagProfiler               Tag = 12
	TagSuspenseComponent      Tag = 13
	TagMemoComponent          Tag = 14
	TagSimpleMemoComponent    Tag = 15
	TagLazyComponent          Tag = 16
	TagHostHoistable          Tag = 26
	TagHostSingleton          Tag = 27
)

// TypeKind describes what a node's type descriptor refers to.
type TypeKind string

const (
	TypeNone     TypeKind = ""
	TypeFunction TypeKind = "function"
	TypeClass    TypeKind = "class"
	TypeString   TypeKind = "string"
	TypeObject   TypeKind = "object"
)

// TypeRef describes a component identity: a function or class reference, a
// host tag name, or a wrapper object (memo, forwardRef, context).
type TypeRef struct {
	Kind        TypeKind `json:"kind"`
	Name        string   `json:"name,omitempty"`
	DisplayName string   `json:"displayName,omitempty"`
}

// IsZero reports whether the descriptor is absent.
func (t TypeRef) IsZero() bool {
	return t.Kind == TypeNone && t.Name == "" && t.DisplayName == ""
}

// Instance is the render target of a class component.
type Instance struct {
	Name  string
	State Value
}

// SourceLocation is the debug source position recorded by development builds.
type SourceLocation struct {
	FileName     string `json:"fileName"`
	LineNumber   int    `json:"lineNumber"`
	ColumnNumber int    `json:"columnNumber,omitempty"`
}

// Node is a read-only view over one internal tree node.
//
// Child, Sibling and Return form a tree under correct runtime behavior.
// Nothing in this repository mutates a Node after it is built, and no
// traversal trusts the links to be acyclic.
type Node struct {
	ID          int
	Tag         Tag
	Type        TypeRef
	ElementType TypeRef

	// Key is the reconciliation key; HasKey distinguishes "" from absent.
	Key    string
	HasKey bool

	Ref Value

	// StateNode is a dom.Element for host nodes and an *Instance for class
	// components. Other kinds leave it nil.
	StateNode any

	MemoizedProps Value
	PendingProps  Value

	// MemoizedState is the hook list head for function components and the
	// instance state for class components.
	MemoizedState Value

	// Dependencies holds the context dependency list, if any.
	Dependencies Value

	DebugSource *SourceLocation
	DebugOwner  *Node

	Child   *Node
	Sibling *Node
	Return  *Node
}

// Element returns the node's render target as a DOM element, if it is one.
func (n *Node) Element() (dom.Element, bool) {
	if n == nil || n.StateNode == nil {
		return nil, false
	}
	el, ok := n.StateNode.(dom.Element)
	return el, ok && el != nil
}

// Instance returns the node's class instance, if it has one.
func (n *Node) Instance() (*Instance, bool) {
	if n == nil {
		return nil, false
	}
	inst, ok := n.StateNode.(*Instance)
	return inst, ok && inst != nil
}

// Props returns the node's current props: MemoizedProps, falling back to
// PendingProps. Text nodes carry their text payload here.
func (n *Node) Props() Value {
	if n == nil {
		return Undefined{}
	}
	if !IsNullish(n.MemoizedProps) {
		return n.MemoizedProps
	}
	if n.PendingProps != nil {
		return n.PendingProps
	}
	return Undefined{}
}

// PropsObject returns Props as an object, or an empty object.
func (n *Node) PropsObject() *Object {
	if o, ok := AsObject(n.Props()); ok {
		return o
	}
	return NewObject()
}

// AppendChild links c as the last child of n. It is a construction helper for
// decoders and fixtures.
func (n *Node) AppendChild(c *Node) *Node {
	c.Return = n
	if n.Child == nil {
		n.Child = c
		return c
	}
	last := n.Child
	for last.Sibling != nil {
		last = last.Sibling
	}
	last.Sibling = c
	return c
}
