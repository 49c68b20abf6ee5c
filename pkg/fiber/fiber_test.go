package fiber

import (
	"errors"
	"testing"

	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func fn(name string, tag Tag) *Node {
	return &Node{Tag: tag, Type: TypeRef{Kind: TypeFunction, Name: name}}
}

func host(tag string) *Node {
	return &Node{Tag: TagHostComponent, Type: TypeRef{Kind: TypeString, Name: tag}}
}

func text(s string) *Node {
	return &Node{Tag: TagHostText, MemoizedProps: String(s)}
}

// buildTree returns App > (Header > h1 > "Title", main > (Card > div, p)).
func buildTree(t *testing.T) map[string]*Node {
	t.Helper()
	app := fn("App", TagFunctionComponent)
	header := app.AppendChild(fn("Header", TagFunctionComponent))
	h1 := header.AppendChild(host("h1"))
	title := h1.AppendChild(text("Title"))
	main := app.AppendChild(host("main"))
	card := main.AppendChild(fn("Card", TagFunctionComponent))
	div := card.AppendChild(host("div"))
	p := main.AppendChild(host("p"))
	return map[string]*Node{
		"App": app, "Header": header, "h1": h1, "Title": title,
		"main": main, "Card": card, "div": div, "p": p,
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		if IsText(n) {
			out[i] = "#text"
			continue
		}
		out[i] = NameOf(n)
	}
	return out
}

// --- classifier ---

func TestClassifyTag(t *testing.T) {
	tests := []struct {
		tag  Tag
		want Kind
	}{
		{TagFunctionComponent, KindFunction},
		{TagClassComponent, KindClass},
		{TagIndeterminateComponent, KindFunction},
		{TagHostComponent, KindHost},
		{TagHostHoistable, KindHost},
		{TagHostSingleton, KindHost},
		{TagHostText, KindText},
		{TagFragment, KindFragment},
		{TagMode, KindFragment},
		{TagContextConsumer, KindContextConsumer},
		{TagContextProvider, KindContextProvider},
		{TagForwardRef, KindForwardRef},
		{TagMemoComponent, KindMemo},
		{TagSimpleMemoComponent, KindMemo},
		{Tag(99), KindFunction},
		{TagHostRoot, KindFunction},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.want, ClassifyTag(tc.tag), "tag %d", tc.tag)
	}
}

func TestPredicatesConsistentWithTable(t *testing.T) {
	for tag := Tag(0); tag < 40; tag++ {
		n := &Node{Tag: tag}
		k := ClassifyTag(tag)
		assert.Equal(t, k == KindHost, IsHost(n), "tag %d", tag)
		assert.Equal(t, k == KindText, IsText(n), "tag %d", tag)
		assert.Equal(t, k == KindFragment, IsFragment(n), "tag %d", tag)
		assert.Equal(t, k.IsComponent() || tag == TagIndeterminateComponent, IsComponent(n), "tag %d", tag)
	}
	assert.False(t, IsComponent(nil))
}

// --- accessor ---

func TestLocate_PrefersModernPrefix(t *testing.T) {
	modern := fn("Modern", TagFunctionComponent)
	legacy := fn("Legacy", TagFunctionComponent)
	el := &dom.StaticElement{Tag: "div"}
	el.SetProperty("__reactInternalInstance$abc", legacy)
	el.SetProperty("__reactFiber$xyz", modern)

	assert.Same(t, modern, Locate(el))
	assert.Equal(t, "__reactFiber$", MatchedPrefix(el))
}

func TestLocate_SkipsNullValues(t *testing.T) {
	legacy := fn("Legacy", TagFunctionComponent)
	el := &dom.StaticElement{Tag: "div"}
	el.SetProperty("__reactFiber$xyz", nil)
	el.SetProperty("__reactInternalInstance$abc", legacy)

	assert.Same(t, legacy, Locate(el))
}

func TestLocate_NotFound(t *testing.T) {
	el := &dom.StaticElement{Tag: "div"}
	el.SetProperty("someOtherProp", 1)
	assert.Nil(t, Locate(el))
	assert.Nil(t, Locate(nil))
}

func TestDetectRuntime(t *testing.T) {
	a := &dom.StaticElement{Tag: "div"}
	a.SetProperty("__reactInternalInstance$1", fn("X", 0))
	b := &dom.StaticElement{Tag: "div"}
	b.SetProperty("__reactContainer$1", fn("Root", TagHostRoot))

	info := DetectRuntime([]dom.Element{a, b})
	assert.True(t, info.Present)
	assert.False(t, info.Modern)
	assert.True(t, info.Container)
	assert.Equal(t, "__reactInternalInstance$", info.Prefix)

	assert.False(t, DetectRuntime(nil).Present)
}

func TestReverse(t *testing.T) {
	tree := buildTree(t)
	divEl := &dom.StaticElement{Tag: "div"}
	tree["div"].StateNode = divEl
	h1El := &dom.StaticElement{Tag: "h1"}
	tree["h1"].StateNode = h1El

	assert.Same(t, divEl, Reverse(tree["div"], 0), "host node returns its own element")
	assert.Same(t, divEl, Reverse(tree["Card"], 0), "component descends to first host")
	assert.Same(t, h1El, Reverse(tree["App"], 0), "document order: Header's h1 comes first")
	assert.Nil(t, Reverse(tree["App"], 1), "h1 is two levels below App")
	assert.Nil(t, Reverse(nil, 0))
}

func TestRoot(t *testing.T) {
	tree := buildTree(t)
	assert.Same(t, tree["App"], Root(tree["div"]))
	assert.Same(t, tree["App"], Root(tree["App"]))
}

func TestNameOf_Priority(t *testing.T) {
	n := &Node{Tag: 0, Type: TypeRef{Kind: TypeFunction, Name: "Inner", DisplayName: "Shown"}}
	assert.Equal(t, "Shown", NameOf(n))

	n = &Node{Tag: 0, Type: TypeRef{Kind: TypeClass, Name: "Panel"}}
	assert.Equal(t, "Panel", NameOf(n))

	n = host("section")
	assert.Equal(t, "section", NameOf(n))

	n = &Node{Tag: TagMemoComponent, ElementType: TypeRef{Kind: TypeObject, DisplayName: "Memo(List)"}}
	assert.Equal(t, "Memo(List)", NameOf(n))

	n = &Node{Tag: 42}
	assert.Equal(t, "Unknown(42)", NameOf(n))
}

// --- navigator ---

func TestTraverse_DocumentOrder(t *testing.T) {
	tree := buildTree(t)
	var seen []*Node
	Traverse(tree["App"], func(n *Node, _ int) Signal {
		seen = append(seen, n)
		return Continue
	}, 10)
	assert.Equal(t, []string{"App", "Header", "h1", "#text", "main", "Card", "div", "p"}, names(seen))
}

func TestTraverse_MaxDepthAndStop(t *testing.T) {
	tree := buildTree(t)
	var seen []*Node
	Traverse(tree["App"], func(n *Node, depth int) Signal {
		assert.LessOrEqual(t, depth, 1)
		seen = append(seen, n)
		return Continue
	}, 1)
	assert.Equal(t, []string{"App", "Header", "main"}, names(seen))

	seen = nil
	stopped := Traverse(tree["App"], func(n *Node, _ int) Signal {
		seen = append(seen, n)
		if n == tree["h1"] {
			return Stop
		}
		return Continue
	}, 10)
	assert.True(t, stopped)
	assert.Equal(t, []string{"App", "Header", "h1"}, names(seen))
}

func TestTraverse_SkipChildren(t *testing.T) {
	tree := buildTree(t)
	var seen []*Node
	Traverse(tree["App"], func(n *Node, _ int) Signal {
		seen = append(seen, n)
		if n == tree["Header"] {
			return SkipChildren
		}
		return Continue
	}, 10)
	assert.Equal(t, []string{"App", "Header", "main", "Card", "div", "p"}, names(seen))
}

func TestTraverse_TerminatesOnCycle(t *testing.T) {
	a := host("div")
	b := a.AppendChild(host("span"))
	b.Child = a // malformed: child link back to ancestor

	count := 0
	Traverse(a, func(*Node, int) Signal {
		count++
		return Continue
	}, 20)
	assert.Equal(t, 21, count)
}

func TestFindFirst(t *testing.T) {
	tree := buildTree(t)
	isCard := func(n *Node) bool { return NameOf(n) == "Card" }
	isApp := func(n *Node) bool { return NameOf(n) == "App" }

	assert.Same(t, tree["Card"], FindFirst(tree["App"], isCard, Down, 0))
	assert.Nil(t, FindFirst(tree["div"], isCard, Down, 0))
	assert.Same(t, tree["Card"], FindFirst(tree["div"], isCard, Up, 0))
	assert.Same(t, tree["App"], FindFirst(tree["div"], isApp, Both, 0))
	assert.Nil(t, FindFirst(tree["App"], isApp, Down, 0), "start is excluded")
}

func TestFindAll(t *testing.T) {
	tree := buildTree(t)
	got := FindAll(tree["App"], IsComponent, 0)
	assert.Equal(t, []string{"App", "Header", "Card"}, names(got))

	got = FindAll(tree["App"], IsHost, 1)
	assert.Equal(t, []string{"main"}, names(got))
}

func TestAncestorsAndPath(t *testing.T) {
	tree := buildTree(t)
	assert.Equal(t, []string{"Card", "main", "App"}, names(Ancestors(tree["div"])))
	assert.Equal(t, 3, Depth(tree["div"]))
	assert.Equal(t, []string{"App", "Card"}, Path(tree["div"]))
	assert.Same(t, tree["Card"], NearestComponent(tree["div"]))
	assert.Same(t, tree["Card"], NearestComponent(tree["Card"]))
}

func TestChildrenAndSiblings(t *testing.T) {
	tree := buildTree(t)
	assert.Equal(t, []string{"Header", "main"}, names(Children(tree["App"])))
	assert.Equal(t, []string{"main"}, names(Siblings(tree["Header"])))
	assert.Empty(t, Siblings(tree["App"]))
	assert.Equal(t, []string{"Header", "h1", "#text", "main", "Card", "div", "p"}, names(Descendants(tree["App"], 0)))
}

func TestCommonAncestor(t *testing.T) {
	tree := buildTree(t)
	assert.Same(t, tree["App"], CommonAncestor(tree["Title"], tree["div"]))
	assert.Same(t, tree["main"], CommonAncestor(tree["div"], tree["p"]))
	assert.Same(t, tree["Card"], CommonAncestor(tree["Card"], tree["div"]), "ancestor-or-self")
	assert.Nil(t, CommonAncestor(tree["div"], host("orphan")))
}

// --- values ---

func TestObject_OrderAndErrors(t *testing.T) {
	o := NewObject()
	o.Set("b", Number(1))
	o.Set("a", String("x"))
	o.SetError("broken", errors.New("getter threw"))
	o.Set("b", Number(2))

	assert.Equal(t, []string{"b", "a", "broken"}, o.Keys())
	v, err := o.Get("b")
	require.NoError(t, err)
	assert.Equal(t, Number(2), v)

	_, err = o.Get("broken")
	assert.EqualError(t, err, "getter threw")
	assert.Equal(t, Undefined{}, o.Lookup("broken"))
	assert.Equal(t, Undefined{}, o.Lookup("missing"))
}

func TestValue_MarshalJSONKeepsOrder(t *testing.T) {
	v := FromGo(OrderedMap{
		"z", 1,
		"a", []any{true, nil, "s"},
		"m", OrderedMap{"k", 1.5},
	})
	b, err := v.(*Object).MarshalJSON()
	require.NoError(t, err)
	assert.JSONEq(t, `{"z":1,"a":[true,null,"s"],"m":{"k":1.5}}`, string(b))
	assert.Equal(t, `{"z":1,"a":[true,null,"s"],"m":{"k":1.5}}`, string(b))
}

func TestEqual(t *testing.T) {
	a := FromGo(OrderedMap{"x", []any{1, "y"}})
	b := FromGo(OrderedMap{"x", []any{1, "y"}})
	c := FromGo(OrderedMap{"x", []any{2, "y"}})
	assert.True(t, Equal(a, b))
	assert.False(t, Equal(a, c))
	assert.True(t, Equal(Function{Name: "f"}, Function{Name: "f"}))
	assert.False(t, Equal(Null{}, Undefined{}))
}
