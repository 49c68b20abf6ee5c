package snapshot

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/gnana997/fibersnap/pkg/fiber"
)

// Header is the snapshot metadata.
type Header struct {
	Version    int           `json:"version"`
	URL        string        `json:"url,omitempty"`
	Selector   string        `json:"selector,omitempty"`
	CapturedAt time.Time     `json:"capturedAt"`
	Runtime    RuntimeHeader `json:"runtime"`
}

// Snapshot is a decoded capture. It is immutable after Decode and safe for
// concurrent readers.
type Snapshot struct {
	Header Header

	elements []*dom.StaticElement
	elemByID map[int]*dom.StaticElement
	nodes    []*fiber.Node
	nodeByID map[int]*fiber.Node
	selected *dom.StaticElement
}

// Selected returns the selected element, or nil.
func (s *Snapshot) Selected() dom.Element {
	if s.selected == nil {
		return nil
	}
	return s.selected
}

// SelectedNode returns the tree node attached to the selected element.
func (s *Snapshot) SelectedNode() (*fiber.Node, error) {
	if s.selected == nil {
		return nil, ErrNoSelection
	}
	n := fiber.Locate(s.selected)
	if n == nil {
		return nil, ErrNoTreeNode
	}
	return n, nil
}

// Elements returns every captured element in document order.
func (s *Snapshot) Elements() []dom.Element {
	out := make([]dom.Element, len(s.elements))
	for i, el := range s.elements {
		out[i] = el
	}
	return out
}

// Nodes returns every captured tree node in document order.
func (s *Snapshot) Nodes() []*fiber.Node { return s.nodes }

// Node returns the node with the given id, or nil.
func (s *Snapshot) Node(id int) *fiber.Node { return s.nodeByID[id] }

// Element returns the element with the given id, or nil.
func (s *Snapshot) Element(id int) dom.Element {
	if el, ok := s.elemByID[id]; ok {
		return el
	}
	return nil
}

// Runtime reports runtime detection over the captured elements.
func (s *Snapshot) Runtime() fiber.RuntimeInfo {
	return fiber.DetectRuntime(s.Elements())
}

// Decode parses a snapshot document and rebuilds its element and node
// graph. Unknown ids, duplicate ids and dangling references are errors.
func Decode(data []byte) (*Snapshot, error) {
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid snapshot: %w", err)
	}
	return FromDocument(&doc)
}

// FromDocument builds a snapshot from an already parsed document.
func FromDocument(doc *Document) (*Snapshot, error) {
	if doc.Version < 1 || doc.Version > CurrentVersion {
		return nil, fmt.Errorf("%w: %d", ErrUnsupportedVersion, doc.Version)
	}

	b := &builder{
		snap: &Snapshot{
			Header: Header{
				Version:    doc.Version,
				URL:        doc.URL,
				Selector:   doc.Selector,
				CapturedAt: doc.CapturedAt,
				Runtime:    doc.Runtime,
			},
			elemByID: make(map[int]*dom.StaticElement, len(doc.Elements)),
			nodeByID: make(map[int]*fiber.Node, len(doc.Nodes)),
		},
		values: newValueDecoder(),
	}

	if err := b.allocate(doc); err != nil {
		return nil, err
	}
	var errs []error
	for i := range doc.Elements {
		if err := b.element(&doc.Elements[i]); err != nil {
			errs = append(errs, fmt.Errorf("element %d: %w", doc.Elements[i].ID, err))
		}
	}
	for i := range doc.Nodes {
		if err := b.node(&doc.Nodes[i]); err != nil {
			errs = append(errs, fmt.Errorf("node %d: %w", doc.Nodes[i].ID, err))
		}
	}
	if err := errors.Join(errs...); err != nil {
		return nil, err
	}
	if err := b.values.resolve(); err != nil {
		return nil, err
	}

	if doc.Selected >= 0 {
		el, ok := b.snap.elemByID[doc.Selected]
		if !ok {
			return nil, fmt.Errorf("selected element %d not found", doc.Selected)
		}
		b.snap.selected = el
	}
	return b.snap, nil
}

type builder struct {
	snap   *Snapshot
	values *valueDecoder
}

// allocate creates every element and node up front so links may point
// forward.
func (b *builder) allocate(doc *Document) error {
	for _, raw := range doc.Elements {
		if _, dup := b.snap.elemByID[raw.ID]; dup {
			return fmt.Errorf("duplicate element id %d", raw.ID)
		}
		el := &dom.StaticElement{Tag: raw.Tag}
		b.snap.elemByID[raw.ID] = el
		b.snap.elements = append(b.snap.elements, el)
	}
	for _, raw := range doc.Nodes {
		if _, dup := b.snap.nodeByID[raw.ID]; dup {
			return fmt.Errorf("duplicate node id %d", raw.ID)
		}
		n := &fiber.Node{ID: raw.ID}
		b.snap.nodeByID[raw.ID] = n
		b.snap.nodes = append(b.snap.nodes, n)
	}
	return nil
}

func (b *builder) element(raw *RawElement) error {
	el := b.snap.elemByID[raw.ID]
	el.Classes = raw.Classes
	el.Inline = raw.Inline
	el.Computed = raw.Computed
	el.Attributes = raw.Attributes

	for _, id := range raw.Children {
		child, ok := b.snap.elemByID[id]
		if !ok {
			return fmt.Errorf("unknown child element %d", id)
		}
		el.Kids = append(el.Kids, child)
	}

	for _, p := range raw.Properties {
		if p.Node != nil {
			n, ok := b.snap.nodeByID[*p.Node]
			if !ok {
				return fmt.Errorf("property %s: unknown node %d", p.Name, *p.Node)
			}
			el.SetProperty(p.Name, n)
			continue
		}
		name := p.Name
		el.SetProperty(name, fiber.Undefined{})
		if err := b.values.decodeRaw(p.Value, func(v fiber.Value) { el.SetProperty(name, v) }); err != nil {
			return fmt.Errorf("property %s: %w", name, err)
		}
	}
	return nil
}

func (b *builder) node(raw *RawNode) error {
	n := b.snap.nodeByID[raw.ID]
	n.Tag = raw.Tag
	n.Type = raw.Type
	n.ElementType = raw.ElementType
	if raw.Key != nil {
		n.Key, n.HasKey = *raw.Key, true
	}
	if raw.DebugSource != nil {
		loc := *raw.DebugSource
		n.DebugSource = &loc
	}

	links := []struct {
		name string
		id   *int
		dst  **fiber.Node
	}{
		{"child", raw.Child, &n.Child},
		{"sibling", raw.Sibling, &n.Sibling},
		{"return", raw.Return, &n.Return},
		{"_debugOwner", raw.DebugOwner, &n.DebugOwner},
	}
	for _, l := range links {
		if l.id == nil {
			continue
		}
		target, ok := b.snap.nodeByID[*l.id]
		if !ok {
			return fmt.Errorf("%s: unknown node %d", l.name, *l.id)
		}
		*l.dst = target
	}

	if sn := raw.StateNode; sn != nil {
		switch {
		case sn.Element != nil:
			el, ok := b.snap.elemByID[*sn.Element]
			if !ok {
				return fmt.Errorf("stateNode: unknown element %d", *sn.Element)
			}
			n.StateNode = el
		case sn.Instance != nil:
			inst := &fiber.Instance{Name: sn.Instance.Name}
			if err := b.values.decodeRaw(sn.Instance.State, func(v fiber.Value) { inst.State = v }); err != nil {
				return fmt.Errorf("stateNode.state: %w", err)
			}
			n.StateNode = inst
		}
	}

	fields := []struct {
		name string
		raw  json.RawMessage
		dst  *fiber.Value
	}{
		{"ref", raw.Ref, &n.Ref},
		{"memoizedProps", raw.MemoizedProps, &n.MemoizedProps},
		{"pendingProps", raw.PendingProps, &n.PendingProps},
		{"memoizedState", raw.MemoizedState, &n.MemoizedState},
		{"dependencies", raw.Dependencies, &n.Dependencies},
	}
	for _, f := range fields {
		dst := f.dst
		if len(f.raw) == 0 {
			continue
		}
		if err := b.values.decodeRaw(f.raw, func(v fiber.Value) { *dst = v }); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}
	return nil
}
