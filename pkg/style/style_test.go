package style

import (
	"testing"

	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputedStyles_FiltersDefaults(t *testing.T) {
	el := &dom.StaticElement{
		Tag: "div",
		Computed: map[string]string{
			"display":     "block",
			"margin":      "0px",
			"padding":     "8px",
			"color":       "rgb(0, 0, 0)",
			"not-a-thing": "1",
		},
	}
	got := ComputedStyles(el)
	assert.Equal(t, []dom.Declaration{
		{Property: "padding", Value: "8px"},
		{Property: "color", Value: "rgb(0, 0, 0)"},
	}, got)

	el.Computed["display"] = "flex"
	got = ComputedStyles(el)
	require.NotEmpty(t, got)
	assert.Equal(t, dom.Declaration{Property: "display", Value: "flex"}, got[0])
}

func TestImportantProperties_HaveNoDuplicates(t *testing.T) {
	seen := map[string]bool{}
	for _, p := range ImportantProperties {
		assert.False(t, seen[p], "duplicate property %q", p)
		seen[p] = true
	}
	for p := range DefaultValues {
		assert.True(t, seen[p], "default for unlisted property %q", p)
	}
}

func TestDetectStrategy(t *testing.T) {
	tests := []struct {
		name      string
		classes   []string
		hasInline bool
		hasMarker bool
		want      Strategy
	}{
		{"tailwind utilities", []string{"flex", "items-center", "px-4", "py-2", "text-sm"}, false, false, StrategyTailwind},
		{"tailwind variants", []string{"hover:bg-blue-500", "md:flex", "card"}, false, false, StrategyTailwind},
		{"css module", []string{"Button_root__a1b2c"}, false, false, StrategyCSSModule},
		{"tailwind wins over css module", []string{"flex", "Button_root__a1b2c"}, false, false, StrategyTailwind},
		{"styled class", []string{"sc-bdVaJa", "kLmNoP"}, false, false, StrategyStyledComponents},
		{"emotion class", []string{"css-1x2y3z4"}, false, false, StrategyStyledComponents},
		{"styled marker", []string{"header"}, false, true, StrategyStyledComponents},
		{"inline", nil, true, false, StrategyInline},
		{"plain fallback", []string{"card", "card-title"}, false, false, StrategyPlainCSS},
		{"empty", nil, false, false, StrategyPlainCSS},
		{"below threshold", []string{"flex", "a", "b", "c", "d"}, true, false, StrategyInline},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DetectStrategy(tt.classes, tt.hasInline, tt.hasMarker))
		})
	}
}

func TestExtract(t *testing.T) {
	el := &dom.StaticElement{
		Tag:        "button",
		Classes:    []string{"btn", "btn", "primary"},
		Inline:     []dom.Declaration{{Property: "color", Value: "red"}},
		Computed:   map[string]string{"display": "inline-block", "cursor": "pointer"},
		Attributes: map[string]string{},
	}
	got := Extract(el)
	assert.Equal(t, []string{"btn", "primary"}, got.Classes)
	assert.Equal(t, StrategyInline, got.Strategy)
	assert.Len(t, got.Computed, 2)

	assert.Equal(t, StrategyPlainCSS, Extract(nil).Strategy)
}

func TestExtract_StyledMarker(t *testing.T) {
	el := &dom.StaticElement{Tag: "div", Attributes: map[string]string{"data-styled": ""}}
	assert.Equal(t, StrategyStyledComponents, Extract(el).Strategy)
}

func TestDeclarations_InlineWins(t *testing.T) {
	e := ExtractedStyles{
		Computed: []dom.Declaration{{Property: "color", Value: "blue"}, {Property: "gap", Value: "4px"}},
		Inline:   []dom.Declaration{{Property: "color", Value: "red"}, {Property: "opacity", Value: "0.5"}},
	}
	assert.Equal(t, []dom.Declaration{
		{Property: "color", Value: "red"},
		{Property: "gap", Value: "4px"},
		{Property: "opacity", Value: "0.5"},
	}, e.Declarations())
}

func TestCaseConversion(t *testing.T) {
	assert.Equal(t, "background-color", KebabCase("backgroundColor"))
	assert.Equal(t, "-webkit-transform", KebabCase("WebkitTransform"))
	assert.Equal(t, "user-card", KebabCase("UserCard"))
	assert.Equal(t, "font-size", KebabCase("font-size"))
	assert.Equal(t, "backgroundColor", CamelCase("background-color"))
	assert.Equal(t, "color", CamelCase("color"))
	assert.True(t, IsStyleProperty("fontSize"))
	assert.True(t, IsStyleProperty("font-size"))
	assert.False(t, IsStyleProperty("label"))
}

func TestParseStrategy(t *testing.T) {
	s, ok := ParseStrategy("CSS-Module")
	assert.True(t, ok)
	assert.Equal(t, StrategyCSSModule, s)

	s, ok = ParseStrategy("")
	assert.True(t, ok)
	assert.Equal(t, Strategy(""), s)

	_, ok = ParseStrategy("sass")
	assert.False(t, ok)
}

func TestAssets(t *testing.T) {
	assert.Equal(t, []string{"/a.png", "b.jpg", "c.svg"},
		ParseBackgroundURLs(`url("/a.png"), url('b.jpg'), url( c.svg )`))
	assert.Nil(t, ParseBackgroundURLs("none"))

	assert.Equal(t, []string{"Inter", "Helvetica Neue", "sans-serif"},
		ParseFontFamily(`"Inter", 'Helvetica Neue', sans-serif`))

	assert.Equal(t, []string{"a.png", "b.png"}, ParseSrcset("a.png 1x, b.png 2x"))

	root := &dom.StaticElement{
		Tag:      "div",
		Computed: map[string]string{"background-image": `url("/hero.jpg")`, "font-family": "Inter, sans-serif"},
		Kids: []*dom.StaticElement{
			{Tag: "img", Attributes: map[string]string{"src": "/logo.png", "srcset": "/logo.png 1x, /logo@2x.png 2x"}},
			{Tag: "picture", Kids: []*dom.StaticElement{
				{Tag: "source", Attributes: map[string]string{"srcset": "/wide.webp"}},
			}},
		},
	}
	got := CollectAssets(root, 5)
	urls := make([]string, len(got.Images))
	for i, a := range got.Images {
		urls[i] = a.URL
	}
	assert.Equal(t, []string{"/hero.jpg", "/logo.png", "/logo@2x.png", "/wide.webp"}, urls)
	assert.Equal(t, []string{"Inter", "sans-serif"}, got.Fonts)
	assert.Equal(t, AssetSource, got.Images[3].Kind)
}

func TestRender(t *testing.T) {
	decls := []dom.Declaration{
		{Property: "display", Value: "flex"},
		{Property: "opacity", Value: "0.5"},
		{Property: "font-family", Value: "'Inter'"},
	}
	in := RenderInput{Component: "UserCard", Tag: "section", Declarations: decls}

	inline := Render(StrategyInline, in)
	assert.False(t, inline.External)
	assert.Contains(t, inline.Text, "display: 'flex',")
	assert.Contains(t, inline.Text, "opacity: 0.5,")
	assert.Contains(t, inline.Text, `fontFamily: '\'Inter\'',`)

	mod := Render(StrategyCSSModule, in)
	assert.True(t, mod.External)
	assert.Equal(t, ".module.css", mod.Extension)
	assert.Equal(t, ".root {\n  display: flex;\n  opacity: 0.5;\n  font-family: 'Inter';\n}\n", mod.Text)

	styled := Render(StrategyStyledComponents, in)
	assert.Contains(t, styled.Text, "const StyledUserCard = styled.section`\n  display: flex;")

	plain := Render(StrategyPlainCSS, RenderInput{Component: "UserCard", Declarations: decls, Comments: true})
	assert.Equal(t, ".css", plain.Extension)
	assert.Contains(t, plain.Text, "/* Styles for UserCard */")
	assert.Contains(t, plain.Text, ".user-card {")

	assert.Empty(t, Render(StrategyTailwind, in).Text)
	assert.Equal(t, StrategyNone, Render(StrategyNone, in).Strategy)
}
