package codegen

import (
	"strings"

	"github.com/gnana997/fibersnap/pkg/extract"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// HandlerName is the placeholder handler every event prop is bound to.
const HandlerName = "handleEvent"

// Markers emitted in place of content that was not rendered.
const (
	TruncationMarker = "{/* ... */}"
	ChildrenMarker   = "{/* children */}"
	ExtractedMarker  = "/* extracted separately */"
)

// multiLineWidth is the body length above which children move onto their
// own lines.
const multiLineWidth = 60

const indentUnit = "  "

// SelfClosingTags are void elements rendered as <tag />.
var SelfClosingTags = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "embed": true,
	"hr": true, "img": true, "input": true, "link": true, "meta": true,
	"param": true, "source": true, "track": true, "wbr": true,
}

// JSXOptions controls markup synthesis.
type JSXOptions struct {
	MaxDepth     int
	CurrentDepth int

	IncludeChildren bool
	ExtractDepth    ExtractDepth
	Prettify        bool
	IndentLevel     int

	IncludeDataAttrs     bool
	IncludeAriaAttrs     bool
	IncludeEventHandlers bool
	UseChildPlaceholders bool

	// RootStyle, when set, rewrites the first host element rendered so it
	// picks up the generated styles.
	RootStyle *RootStyle
}

// RootStyle binds generated styles to the rendered root element.
type RootStyle struct {
	Strategy  style.Strategy
	Component string
}

// DefaultJSXOptions returns options for readable, deep output.
func DefaultJSXOptions() JSXOptions {
	return JSXOptions{
		MaxDepth:             DefaultMaxDepth,
		IncludeChildren:      true,
		ExtractDepth:         Deep,
		Prettify:             true,
		IncludeAriaAttrs:     true,
		IncludeEventHandlers: true,
	}
}

// Synthesize renders n as JSX markup. Custom components render as tags named
// after the component; see SynthesizeRender for a component's own output.
//
// Recursion stops at opts.MaxDepth: each node at or below that depth becomes
// one TruncationMarker (nothing when not prettifying).
func Synthesize(n *fiber.Node, opts JSXOptions) string {
	s := newSynth(opts)
	return s.finish(s.node(n, opts.CurrentDepth))
}

// SynthesizeRender renders what a custom component returns: its children,
// wrapped in a fragment when there are several. Host and other nodes render
// as with Synthesize. An empty result renders as "null".
func SynthesizeRender(n *fiber.Node, opts JSXOptions) string {
	if n == nil || !fiber.IsComponent(n) {
		out := Synthesize(n, opts)
		if out == "" {
			return "null"
		}
		return out
	}
	s := newSynth(opts)
	var parts []string
	for _, c := range fiber.Children(n) {
		if out := s.node(c, opts.CurrentDepth+1); out != "" {
			parts = append(parts, out)
		}
	}
	switch len(parts) {
	case 0:
		return "null"
	case 1:
		return s.finish(parts[0])
	}
	return s.finish(s.wrap("<>", "</>", strings.Join(parts, s.sep())))
}

type synth struct {
	opts        JSXOptions
	rootApplied bool
}

func newSynth(opts JSXOptions) *synth {
	if opts.MaxDepth <= 0 {
		opts.MaxDepth = DefaultMaxDepth
	}
	if opts.ExtractDepth == "" {
		opts.ExtractDepth = Deep
	}
	return &synth{opts: opts}
}

func (s *synth) finish(out string) string {
	if !s.opts.Prettify || s.opts.IndentLevel <= 0 {
		return out
	}
	return indentBlock(out, strings.Repeat(indentUnit, s.opts.IndentLevel))
}

func (s *synth) sep() string {
	if s.opts.Prettify {
		return "\n"
	}
	return ""
}

func (s *synth) node(n *fiber.Node, depth int) string {
	if n == nil {
		return ""
	}
	if depth >= s.opts.MaxDepth {
		if s.opts.Prettify {
			return TruncationMarker
		}
		return ""
	}

	switch fiber.Classify(n) {
	case fiber.KindText:
		return escapeText(extract.TextOf(n))
	case fiber.KindFragment:
		body := s.children(n, depth)
		if body == "" {
			return ""
		}
		return s.wrap("<>", "</>", body)
	case fiber.KindContextProvider, fiber.KindContextConsumer:
		return s.children(n, depth)
	case fiber.KindHost:
		return s.element(n, hostTag(n), depth, true)
	default:
		name := tagName(fiber.NameOf(n))
		if s.opts.ExtractDepth == Shallow && depth > 0 {
			return "<" + name + renderAttrs(s.attributes(n.PropsObject())) + " " + ExtractedMarker + " />"
		}
		return s.element(n, name, depth, false)
	}
}

func hostTag(n *fiber.Node) string {
	if n.Type.Kind == fiber.TypeString && n.Type.Name != "" {
		return n.Type.Name
	}
	name := fiber.NameOf(n)
	if !isIdentifier(strings.ReplaceAll(name, "-", "_")) {
		return "div"
	}
	return name
}

func (s *synth) element(n *fiber.Node, tag string, depth int, host bool) string {
	attrs := s.attributes(n.PropsObject())
	if host && s.opts.RootStyle != nil && !s.rootApplied {
		s.rootApplied = true
		tag, attrs = applyRootStyle(*s.opts.RootStyle, tag, attrs)
	}
	open := "<" + tag + renderAttrs(attrs)

	body := ""
	if s.opts.IncludeChildren {
		body = s.children(n, depth)
	}
	if body == "" {
		if SelfClosingTags[strings.ToLower(tag)] {
			return open + " />"
		}
		return open + "></" + tag + ">"
	}
	return s.wrap(open+">", "</"+tag+">", body)
}

// children renders n's child chain at depth+1. A host node with no child
// nodes but a primitive children prop renders that text.
func (s *synth) children(n *fiber.Node, depth int) string {
	kids := fiber.Children(n)
	text, hasText := textChildren(n)
	if len(kids) == 0 && !hasText {
		return ""
	}
	if s.opts.UseChildPlaceholders {
		return ChildrenMarker
	}
	if len(kids) == 0 {
		return escapeText(text)
	}

	var parts []string
	for _, c := range kids {
		if out := s.node(c, depth+1); out != "" {
			parts = append(parts, out)
		}
	}
	return strings.Join(parts, s.sep())
}

func textChildren(n *fiber.Node) (string, bool) {
	if !fiber.IsHost(n) {
		return "", false
	}
	switch v := n.PropsObject().Lookup("children").(type) {
	case fiber.String:
		return string(v), v != ""
	case fiber.Number:
		return formatNumber(float64(v)), true
	}
	return "", false
}

func (s *synth) wrap(open, closing, body string) string {
	if s.opts.Prettify && (strings.Contains(body, "\n") || len(body) > multiLineWidth) {
		return open + "\n" + indentBlock(body, indentUnit) + "\n" + closing
	}
	return open + body + closing
}

// indentBlock prefixes every non-empty line of s with pad.
func indentBlock(s, pad string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = pad + l
		}
	}
	return strings.Join(lines, "\n")
}

var textEscaper = strings.NewReplacer(
	"&", "&amp;",
	"<", "&lt;",
	">", "&gt;",
	"{", "&#123;",
	"}", "&#125;",
)

// escapeText escapes characters that are special in JSX text.
func escapeText(s string) string {
	return textEscaper.Replace(s)
}
