package extract

import (
	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// ComponentDescriptor is the structured description of one tree node that
// the code generators consume. It is built fresh per request and never
// modified afterwards.
type ComponentDescriptor struct {
	Name     string                 `json:"name"`
	Kind     fiber.Kind             `json:"kind"`
	Props    *fiber.Object          `json:"props"`
	Children []*ComponentDescriptor `json:"children,omitempty"`
	Styles   style.ExtractedStyles  `json:"styles"`
	Hooks    []HookDescriptor       `json:"hooks,omitempty"`

	// Text is set for text nodes.
	Text string `json:"text,omitempty"`

	State   fiber.Value           `json:"state,omitempty"`
	Context *fiber.Object         `json:"context,omitempty"`
	Key     string                `json:"key,omitempty"`
	Ref     fiber.Value           `json:"ref,omitempty"`
	Owner   string                `json:"owner,omitempty"`
	Source  *fiber.SourceLocation `json:"source,omitempty"`
	Path    []string              `json:"path,omitempty"`

	// Truncated is true when children exist below the depth limit.
	Truncated bool `json:"truncated,omitempty"`

	// DOMAnchor is the nearest host element, if any.
	DOMAnchor dom.Element `json:"-"`

	// Node is the tree node the descriptor was built from. It is only valid
	// while the snapshot it came from is alive.
	Node *fiber.Node `json:"-"`
}

// BuildOptions controls descriptor construction.
type BuildOptions struct {
	// MaxDepth bounds how many levels of children are described.
	MaxDepth int
}

// DefaultBuildOptions returns the default descriptor depth.
func DefaultBuildOptions() BuildOptions {
	return BuildOptions{MaxDepth: 10}
}

// Build describes n and its children down to opts.MaxDepth levels.
func Build(n *fiber.Node, opts BuildOptions) *ComponentDescriptor {
	if n == nil {
		return nil
	}
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultBuildOptions().MaxDepth
	}
	d := describe(n, 0, opts)
	d.Path = fiber.Path(n)
	return d
}

func describe(n *fiber.Node, depth int, opts BuildOptions) *ComponentDescriptor {
	kind := fiber.Classify(n)
	d := &ComponentDescriptor{
		Name:   fiber.NameOf(n),
		Kind:   kind,
		Props:  ExtractProps(n),
		Owner:  ExtractOwner(n),
		Source: ExtractSourceLocation(n),
		Ref:    ExtractRef(n),
		Node:   n,
	}
	if kind == fiber.KindText {
		d.Text = TextOf(n)
		d.Props = fiber.NewObject()
	}
	if key, ok := ExtractKey(n); ok {
		d.Key = key
	}
	if kind == fiber.KindFunction {
		d.Hooks = ExtractHooks(n)
	}
	d.State = ExtractState(n)
	d.Context = ExtractContextValues(n)

	if kind != fiber.KindText {
		d.DOMAnchor = fiber.Reverse(n, 0)
		if d.DOMAnchor != nil {
			d.Styles = style.Extract(d.DOMAnchor)
		}
	}

	if depth >= opts.MaxDepth {
		d.Truncated = n.Child != nil
		return d
	}
	for _, c := range fiber.Children(n) {
		d.Children = append(d.Children, describe(c, depth+1, opts))
	}
	return d
}

// TextOf returns the text payload of a text node.
func TextOf(n *fiber.Node) string {
	switch v := n.Props().(type) {
	case fiber.String:
		return string(v)
	case fiber.Number:
		return formatNumber(float64(v))
	}
	return ""
}
