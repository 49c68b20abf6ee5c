package fiber

import (
	"strings"

	"github.com/gnana997/fibersnap/pkg/dom"
)

// InternalKeyPrefixes lists the own-property name prefixes under which the
// runtime attaches its tree node to a DOM element. Earlier entries belong to
// newer runtime versions and win when several match.
var InternalKeyPrefixes = []string{
	"__reactFiber$",
	"__reactInternalInstance$",
	"_reactInternals",
	"_reactInternalFiber",
}

// ContainerKeyPrefix marks a root container element.
const ContainerKeyPrefix = "__reactContainer$"

// DefaultReverseDepth bounds the descent performed by Reverse.
const DefaultReverseDepth = 50

// Locate returns the tree node attached to el, or nil when el carries none.
// Absence is the normal outcome for pages without the runtime.
func Locate(el dom.Element) *Node {
	if el == nil {
		return nil
	}
	names := el.OwnPropertyNames()
	for _, prefix := range InternalKeyPrefixes {
		for _, name := range names {
			if !strings.HasPrefix(name, prefix) {
				continue
			}
			if n, ok := el.Property(name).(*Node); ok && n != nil {
				return n
			}
		}
	}
	return nil
}

// MatchedPrefix returns the internal prefix Locate would use for el, or "".
func MatchedPrefix(el dom.Element) string {
	if el == nil {
		return ""
	}
	names := el.OwnPropertyNames()
	for _, prefix := range InternalKeyPrefixes {
		for _, name := range names {
			if strings.HasPrefix(name, prefix) {
				if n, ok := el.Property(name).(*Node); ok && n != nil {
					return prefix
				}
			}
		}
	}
	return ""
}

// RuntimeInfo summarizes runtime detection over a set of elements.
type RuntimeInfo struct {
	Present bool   `json:"present"`
	Prefix  string `json:"prefix,omitempty"`
	// Modern is true when the newest property family was found.
	Modern bool `json:"modern"`
	// Container is true when some element is a root container.
	Container bool `json:"container"`
}

// DetectRuntime reports whether any element carries a tree node, and which
// property family it uses.
func DetectRuntime(elements []dom.Element) RuntimeInfo {
	var info RuntimeInfo
	best := len(InternalKeyPrefixes)
	for _, el := range elements {
		if el == nil {
			continue
		}
		for _, name := range el.OwnPropertyNames() {
			if strings.HasPrefix(name, ContainerKeyPrefix) {
				info.Container = true
			}
		}
		p := MatchedPrefix(el)
		if p == "" {
			continue
		}
		info.Present = true
		for i, candidate := range InternalKeyPrefixes {
			if candidate == p && i < best {
				best = i
				info.Prefix = p
			}
		}
	}
	info.Modern = info.Present && best == 0
	return info
}

// Reverse returns the DOM element rendered by n. Host nodes return their own
// render target; other nodes are searched depth-first through child links,
// at most maxDepth levels down, for the first host node with an element.
// A maxDepth of zero or less uses DefaultReverseDepth.
func Reverse(n *Node, maxDepth int) dom.Element {
	if n == nil {
		return nil
	}
	if IsHost(n) {
		if el, ok := n.Element(); ok {
			return el
		}
	}
	if maxDepth <= 0 {
		maxDepth = DefaultReverseDepth
	}
	var found dom.Element
	Traverse(n.Child, func(c *Node, _ int) Signal {
		if IsHost(c) {
			if el, ok := c.Element(); ok {
				found = el
				return Stop
			}
		}
		return Continue
	}, maxDepth-1)
	return found
}

// Root follows return links to the top of the tree.
func Root(n *Node) *Node {
	if n == nil {
		return nil
	}
	cur := n
	for i := 0; cur.Return != nil && i < maxAncestorWalk; i++ {
		cur = cur.Return
	}
	return cur
}

// NameOf resolves a human-readable component name. Priority: display name,
// function or class name, host tag, the same checks on ElementType, then a
// name derived from the kind-tag.
func NameOf(n *Node) string {
	if n == nil {
		return ""
	}
	if name := typeName(n.Type); name != "" {
		return name
	}
	if name := typeName(n.ElementType); name != "" {
		return name
	}
	return fallbackName(n.Tag)
}

// typeName reads a descriptor: an explicit display name first, then the
// function, class or host tag name.
func typeName(t TypeRef) string {
	if t.DisplayName != "" {
		return t.DisplayName
	}
	return t.Name
}
