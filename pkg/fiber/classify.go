package fiber

import "fmt"

// Kind is the semantic component category derived from a node's kind-tag.
type Kind string

const (
	KindFunction        Kind = "function"
	KindClass           Kind = "class"
	KindHost            Kind = "host"
	KindFragment        Kind = "fragment"
	KindContextProvider Kind = "context-provider"
	KindContextConsumer Kind = "context-consumer"
	KindForwardRef      Kind = "forward-ref"
	KindMemo            Kind = "memo"
	KindText            Kind = "text"
)

// kindByTag is the authoritative tag table. Every predicate below derives
// from it.
var kindByTag = map[Tag]Kind{
	TagFunctionComponent:      KindFunction,
	TagClassComponent:         KindClass,
	TagIndeterminateComponent: KindFunction,
	TagHostComponent:          KindHost,
	TagHostHoistable:          KindHost,
	TagHostSingleton:          KindHost,
	TagHostText:               KindText,
	TagFragment:               KindFragment,
	TagMode:                   KindFragment,
	TagProfiler:               KindFragment,
	TagContextConsumer:        KindContextConsumer,
	TagContextProvider:        KindContextProvider,
	TagForwardRef:             KindForwardRef,
	TagMemoComponent:          KindMemo,
	TagSimpleMemoComponent:    KindMemo,
}

// ClassifyTag maps a kind-tag to its Kind. Unknown tags classify as
// KindFunction: an unrecognized node is treated as a renderable custom
// component rather than dropped.
func ClassifyTag(tag Tag) Kind {
	if k, ok := kindByTag[tag]; ok {
		return k
	}
	return KindFunction
}

// IsKnownTag reports whether tag has an explicit table entry.
func IsKnownTag(tag Tag) bool {
	_, ok := kindByTag[tag]
	return ok
}

// Classify returns the Kind of n. A nil node is classified as a fragment so
// callers render nothing around it.
func Classify(n *Node) Kind {
	if n == nil {
		return KindFragment
	}
	return ClassifyTag(n.Tag)
}

// IsHost reports whether n is a native markup element.
func IsHost(n *Node) bool { return n != nil && Classify(n) == KindHost }

// IsText reports whether n is a text node.
func IsText(n *Node) bool { return n != nil && Classify(n) == KindText }

// IsFragment reports whether n is a fragment.
func IsFragment(n *Node) bool { return n != nil && Classify(n) == KindFragment }

// IsComponent reports whether n is a user-defined component: function,
// class, forward-ref, memo, or the legacy indeterminate tag.
func IsComponent(n *Node) bool {
	if n == nil {
		return false
	}
	if n.Tag == TagIndeterminateComponent {
		return true
	}
	return Classify(n).IsComponent()
}

// IsComponent reports whether k is a user-defined component kind.
func (k Kind) IsComponent() bool {
	switch k {
	case KindFunction, KindClass, KindForwardRef, KindMemo:
		return true
	}
	return false
}

// IsContext reports whether k is a context provider or consumer.
func (k Kind) IsContext() bool {
	return k == KindContextProvider || k == KindContextConsumer
}

// String implements fmt.Stringer.
func (k Kind) String() string { return string(k) }

// fallbackName is the generated name for nodes without a resolvable identity.
func fallbackName(tag Tag) string {
	return fmt.Sprintf("Unknown(%d)", tag)
}
