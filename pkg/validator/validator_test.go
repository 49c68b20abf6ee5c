package validator

import (
	"context"
	"testing"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/gnana997/fibersnap/pkg/extract"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const validCard = `import React from 'react';
import Avatar from './Avatar';

interface CardProps {
  title?: string;
}

function Card(props: CardProps) {
  const { title } = props;

  return (
    <div className="card">
      <Avatar />
      <h2>{title}</h2>
    </div>
  );
}

export default Card;
`

func TestCheck_Valid(t *testing.T) {
	v := New(newParser(t), Options{}, nil)

	res, err := v.Check("Card.tsx", []byte(validCard))
	require.NoError(t, err)
	assert.True(t, res.Valid)
	assert.Empty(t, res.Violations)
	require.Len(t, res.Markup.Usages, 1)
	assert.Equal(t, "Avatar", res.Markup.Usages[0].Name)
	assert.True(t, res.Scope.Has("Card"))
	assert.True(t, res.Scope.Imports("./Avatar"))
}

func TestCheck_SyntaxError(t *testing.T) {
	v := New(newParser(t), Options{}, nil)

	res, err := v.Check("Broken.tsx", []byte("function Broken() {\n  return (<div>;\n}\n"))
	require.NoError(t, err)
	assert.False(t, res.Valid)
	require.NotEmpty(t, res.Errors())
	assert.Equal(t, RuleSyntax, res.Errors()[0].Rule)
}

func TestCheck_UnboundComponent(t *testing.T) {
	src := []byte("import React from 'react';\n\nconst Page = () => <Layout><Layout.Header /><Sidebar /></Layout>;\n\nexport default Page;\n")

	lenient := New(newParser(t), Options{}, nil)
	res, err := lenient.Check("Page.jsx", src)
	require.NoError(t, err)
	assert.True(t, res.Valid, "unbound components are warnings by default")
	require.Len(t, res.Violations, 2, "Layout is reported once")
	assert.Equal(t, RuleUnbound, res.Violations[0].Rule)
	assert.Equal(t, SeverityWarning, res.Violations[0].Severity)
	assert.Contains(t, res.Violations[0].Message, "Layout")
	assert.Contains(t, res.Violations[1].Message, "Sidebar")

	strict := New(newParser(t), Options{Strict: true}, nil)
	err = strict.Verify(context.Background(), "Page.jsx", src)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Len(t, verr.Violations, 2)
	assert.Contains(t, err.Error(), "Page.jsx is invalid")
}

func TestVerify(t *testing.T) {
	v := New(newParser(t), Options{}, nil)

	assert.NoError(t, v.Verify(context.Background(), "Card.tsx", []byte(validCard)))
	assert.Error(t, v.Verify(context.Background(), "Card.tsx", []byte("const = ;")))
	assert.Error(t, v.Verify(context.Background(), "Card.css", []byte(".root{}")))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.ErrorIs(t, v.Verify(ctx, "Card.tsx", []byte(validCard)), context.Canceled)
}

func obj(kv ...any) *fiber.Object {
	return fiber.FromGo(fiber.OrderedMap(kv)).(*fiber.Object)
}

func profileDescriptor(t *testing.T) *extract.ComponentDescriptor {
	t.Helper()
	el := &dom.StaticElement{
		Tag:     "section",
		Classes: []string{"Profile_root__x1y2z"},
		Inline:  []dom.Declaration{{Property: "padding", Value: "8px"}},
	}
	section := &fiber.Node{
		Tag:           fiber.TagHostComponent,
		Type:          fiber.TypeRef{Kind: fiber.TypeString, Name: "section"},
		MemoizedProps: obj("className", "Profile_root__x1y2z", "aria-label", "profile"),
		StateNode:     el,
	}
	avatar := &fiber.Node{
		Tag:           fiber.TagFunctionComponent,
		Type:          fiber.TypeRef{Kind: fiber.TypeFunction, Name: "Avatar"},
		MemoizedProps: obj("size", 32),
	}
	img := &fiber.Node{
		Tag:           fiber.TagHostComponent,
		Type:          fiber.TypeRef{Kind: fiber.TypeString, Name: "img"},
		MemoizedProps: obj("src", "/me.png", "alt", "me"),
		StateNode:     &dom.StaticElement{Tag: "img"},
	}
	avatar.AppendChild(img)
	section.AppendChild(avatar)
	section.AppendChild(&fiber.Node{Tag: fiber.TagHostText, MemoizedProps: fiber.String("Hello & welcome")})

	hook := obj("memoizedState", "Ada", "queue", obj("dispatch", fiber.Function{Name: "dispatch"}), "next", fiber.Null{})
	root := &fiber.Node{
		Tag:           fiber.TagFunctionComponent,
		Type:          fiber.TypeRef{Kind: fiber.TypeFunction, Name: "Profile"},
		MemoizedProps: obj("name", "Ada", "onSelect", fiber.Function{Name: "onSelect"}),
		MemoizedState: hook,
	}
	root.AppendChild(section)
	return extract.Build(root, extract.DefaultBuildOptions())
}

func TestVerify_GeneratedPackages(t *testing.T) {
	v := New(newParser(t), Options{Strict: true}, nil)

	for _, strategy := range []style.Strategy{
		style.StrategyCSSModule,
		style.StrategyInline,
		style.StrategyStyledComponents,
		style.StrategyPlainCSS,
		style.StrategyTailwind,
	} {
		for _, ts := range []bool{true, false} {
			for _, class := range []bool{false, true} {
				cfg := codegen.DefaultConfig()
				cfg.StyleStrategy = strategy
				cfg.TypeScript = ts
				cfg.ClassComponent = class
				cfg.IncludeTests = true
				cfg.IncludeStories = true
				cfg.IncludeTypesFile = ts

				arts, err := codegen.BuildPackageContext(context.Background(), profileDescriptor(t), cfg, v)
				require.NoError(t, err, "strategy=%s ts=%v class=%v", strategy, ts, class)
				require.NotEmpty(t, arts)
			}
		}
	}
}
