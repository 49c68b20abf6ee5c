// Package snapshot reads captured page snapshots: the selected DOM element,
// the elements it references and the reachable render-tree nodes, with
// runtime values in a tagged JSON encoding.
//
// Decoding rebuilds a real object graph. Objects and arrays that the page
// shared between several places, or that contained themselves, come back as
// the same Go pointer, so consumers see the cycles the page had.
//
// Value encoding:
//
//	null, true, 1.5, "s", [...]      primitives and arrays
//	{"k": v, ...}                    objects, key order preserved
//	{"$id": 3, "k": v}               object that is referenced elsewhere
//	{"$id": 4, "$items": [...]}      array that is referenced elsewhere
//	{"$ref": 3}                      back-reference to $id 3
//	{"$type": "undefined"}
//	{"$type": "function", "name": "onClick"}
//	{"$type": "element", "elementType": "Button"}
//	{"$type": "node"}                reference to a tree node
//	{"$type": "dom", "tag": "div"}   reference to a DOM element
//	{"$type": "number", "value": "NaN"}
//	{"$type": "thrown", "message": "..."}  a getter that threw
//
// Object keys that start with "$" are written with one extra "$".
package snapshot

import (
	"encoding/json"
	"time"

	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/gnana997/fibersnap/pkg/fiber"
)

// CurrentVersion is the snapshot format version this package writes and
// reads.
const CurrentVersion = 1

// Document is the on-disk snapshot.
type Document struct {
	Version    int           `json:"version"`
	URL        string        `json:"url,omitempty"`
	Selector   string        `json:"selector,omitempty"`
	CapturedAt time.Time     `json:"capturedAt,omitempty"`
	Runtime    RuntimeHeader `json:"runtime"`
	// Selected is the element id of the selected element, or -1.
	Selected int          `json:"selected"`
	Elements []RawElement `json:"elements"`
	Nodes    []RawNode    `json:"nodes"`
}

// RuntimeHeader records what the capture script learned about the page.
type RuntimeHeader struct {
	Version string `json:"version,omitempty"`
	// DevtoolsHook is true when the page exposed the devtools global hook.
	DevtoolsHook bool `json:"devtoolsHook,omitempty"`
}

// RawElement is one captured DOM element.
type RawElement struct {
	ID         int               `json:"id"`
	Tag        string            `json:"tag"`
	Classes    []string          `json:"classes,omitempty"`
	Inline     []dom.Declaration `json:"inline,omitempty"`
	Computed   map[string]string `json:"computed,omitempty"`
	Attributes map[string]string `json:"attributes,omitempty"`
	Properties []RawProperty     `json:"properties,omitempty"`
	Children   []int             `json:"children,omitempty"`
}

// RawProperty is an own property of an element. Node is set when the
// property holds a tree node; otherwise Value holds a tagged value.
type RawProperty struct {
	Name  string          `json:"name"`
	Node  *int            `json:"node,omitempty"`
	Value json.RawMessage `json:"value,omitempty"`
}

// RawNode is one captured tree node. Links are node ids.
type RawNode struct {
	ID            int                   `json:"id"`
	Tag           fiber.Tag             `json:"tag"`
	Type          fiber.TypeRef         `json:"type"`
	ElementType   fiber.TypeRef         `json:"elementType"`
	Key           *string               `json:"key,omitempty"`
	Ref           json.RawMessage       `json:"ref,omitempty"`
	StateNode     *RawStateNode         `json:"stateNode,omitempty"`
	MemoizedProps json.RawMessage       `json:"memoizedProps,omitempty"`
	PendingProps  json.RawMessage       `json:"pendingProps,omitempty"`
	MemoizedState json.RawMessage       `json:"memoizedState,omitempty"`
	Dependencies  json.RawMessage       `json:"dependencies,omitempty"`
	DebugSource   *fiber.SourceLocation `json:"_debugSource,omitempty"`
	DebugOwner    *int                  `json:"_debugOwner,omitempty"`
	Child         *int                  `json:"child,omitempty"`
	Sibling       *int                  `json:"sibling,omitempty"`
	Return        *int                  `json:"return,omitempty"`
}

// RawStateNode is a node's render target: a DOM element id for host nodes,
// or a class instance.
type RawStateNode struct {
	Element  *int         `json:"element,omitempty"`
	Instance *RawInstance `json:"instance,omitempty"`
}

// RawInstance is a captured class component instance.
type RawInstance struct {
	Name  string          `json:"name,omitempty"`
	State json.RawMessage `json:"state,omitempty"`
}
