package fiber

// Signal tells Traverse how to proceed after visiting a node.
type Signal int

const (
	// Continue descends into the node's children, then its siblings.
	Continue Signal = iota
	// SkipChildren moves on to the node's siblings.
	SkipChildren
	// Stop ends the traversal.
	Stop
)

// Direction selects where FindFirst searches.
type Direction int

const (
	Down Direction = iota
	Up
	Both
)

// DefaultMaxDepth bounds traversals when callers pass a non-positive depth.
const DefaultMaxDepth = 100

// maxAncestorWalk bounds return-link walks against malformed trees.
const maxAncestorWalk = 10000

// VisitFunc is called for each node with its depth relative to the start.
type VisitFunc func(n *Node, depth int) Signal

// Traverse walks depth-first from n: visit the node, recurse into its child
// at depth+1, then continue with its sibling at the same depth. The start
// node's own siblings are included. Nodes deeper than maxDepth are not
// visited. It reports whether the walk was stopped by the visitor.
func Traverse(n *Node, visit VisitFunc, maxDepth int) bool {
	if maxDepth < 0 {
		return false
	}
	return traverse(n, 0, maxDepth, visit)
}

func traverse(n *Node, depth, maxDepth int, visit VisitFunc) bool {
	for cur, i := n, 0; cur != nil && i < maxAncestorWalk; cur, i = cur.Sibling, i+1 {
		switch visit(cur, depth) {
		case Stop:
			return true
		case SkipChildren:
			continue
		}
		if depth < maxDepth && cur.Child != nil {
			if traverse(cur.Child, depth+1, maxDepth, visit) {
				return true
			}
		}
	}
	return false
}

// WalkSubtree is like Traverse but never leaves n's subtree: n's siblings are
// not visited.
func WalkSubtree(n *Node, visit VisitFunc, maxDepth int) bool {
	if n == nil || maxDepth < 0 {
		return false
	}
	switch visit(n, 0) {
	case Stop:
		return true
	case SkipChildren:
		return false
	}
	if maxDepth == 0 {
		return false
	}
	return traverse(n.Child, 1, maxDepth, visit)
}

// Children returns n's direct children in order.
func Children(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	for c, i := n.Child, 0; c != nil && i < maxAncestorWalk; c, i = c.Sibling, i+1 {
		out = append(out, c)
	}
	return out
}

// Siblings returns the other children of n's parent, in order.
func Siblings(n *Node) []*Node {
	if n == nil || n.Return == nil {
		return nil
	}
	var out []*Node
	for _, c := range Children(n.Return) {
		if c != n {
			out = append(out, c)
		}
	}
	return out
}

// Ancestors returns n's ancestors from parent to root.
func Ancestors(n *Node) []*Node {
	if n == nil {
		return nil
	}
	var out []*Node
	seen := map[*Node]bool{n: true}
	for cur := n.Return; cur != nil && len(out) < maxAncestorWalk; cur = cur.Return {
		if seen[cur] {
			break
		}
		seen[cur] = true
		out = append(out, cur)
	}
	return out
}

// Depth returns the number of ancestors of n.
func Depth(n *Node) int {
	return len(Ancestors(n))
}

// Descendants returns every node below n, in traversal order, down to
// maxDepth levels.
func Descendants(n *Node, maxDepth int) []*Node {
	if n == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var out []*Node
	traverse(n.Child, 1, maxDepth, func(c *Node, _ int) Signal {
		out = append(out, c)
		return Continue
	})
	return out
}

// FindFirst returns the first node matching pred, excluding start itself.
// Down searches descendants in traversal order, Up searches ancestors from
// the parent, Both tries Down then Up.
func FindFirst(start *Node, pred func(*Node) bool, dir Direction, maxDepth int) *Node {
	if start == nil || pred == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if dir == Down || dir == Both {
		var found *Node
		traverse(start.Child, 1, maxDepth, func(c *Node, _ int) Signal {
			if pred(c) {
				found = c
				return Stop
			}
			return Continue
		})
		if found != nil {
			return found
		}
	}
	if dir == Up || dir == Both {
		for _, a := range Ancestors(start) {
			if pred(a) {
				return a
			}
		}
	}
	return nil
}

// FindAll returns every node in start's subtree (start included) matching
// pred, down to maxDepth levels.
func FindAll(start *Node, pred func(*Node) bool, maxDepth int) []*Node {
	if start == nil || pred == nil {
		return nil
	}
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	var out []*Node
	WalkSubtree(start, func(c *Node, _ int) Signal {
		if pred(c) {
			out = append(out, c)
		}
		return Continue
	}, maxDepth)
	return out
}

// CommonAncestor returns the nearest node that is an ancestor-or-self of
// both a and b, or nil when they share no tree.
func CommonAncestor(a, b *Node) *Node {
	if a == nil || b == nil {
		return nil
	}
	set := map[*Node]struct{}{a: {}}
	for _, anc := range Ancestors(a) {
		set[anc] = struct{}{}
	}
	if _, ok := set[b]; ok {
		return b
	}
	for _, anc := range Ancestors(b) {
		if _, ok := set[anc]; ok {
			return anc
		}
	}
	return nil
}

// NearestComponent returns n itself if it is a user-defined component,
// otherwise its closest component ancestor.
func NearestComponent(n *Node) *Node {
	if n == nil {
		return nil
	}
	if IsComponent(n) {
		return n
	}
	return FindFirst(n, IsComponent, Up, 0)
}

// Path returns component names from the root down to n, skipping host,
// text and wrapper nodes.
func Path(n *Node) []string {
	if n == nil {
		return nil
	}
	anc := Ancestors(n)
	var out []string
	for i := len(anc) - 1; i >= 0; i-- {
		if IsComponent(anc[i]) {
			out = append(out, NameOf(anc[i]))
		}
	}
	if IsComponent(n) {
		out = append(out, NameOf(n))
	}
	return out
}
