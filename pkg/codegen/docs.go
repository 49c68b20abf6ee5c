package codegen

import (
	"fmt"
	"strings"

	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// assetDepth bounds the subtree scanned for README assets.
const assetDepth = 10

func (p *packager) readme() string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s\n\n", p.name)
	b.WriteString("Generated from a live page snapshot. Prop types are inferred from the values\n")
	b.WriteString("sampled at capture time and may be narrower than the original component.\n\n")

	lang := "jsx"
	if p.cfg.TypeScript {
		lang = "tsx"
	}
	b.WriteString("## Usage\n\n")
	fmt.Fprintf(&b, "```%s\nimport %s from './%s';\n\n%s\n```\n\n", lang, p.name, p.name, p.usageTag())

	if len(p.fields) > 0 {
		b.WriteString("## Props\n\n")
		b.WriteString("| Prop | Type | Description |\n|---|---|---|\n")
		for _, f := range p.fields {
			name := f.Name
			if f.Optional {
				name += "?"
			}
			fmt.Fprintf(&b, "| `%s` | `%s` | %s |\n", name, strings.ReplaceAll(f.Type, "|", `\|`), f.Description)
		}
		b.WriteByte('\n')
	}

	b.WriteString("## Styling\n\n")
	fmt.Fprintf(&b, "Strategy: `%s`", p.strategy)
	if p.desc.Styles.Strategy != "" && p.desc.Styles.Strategy != p.strategy {
		fmt.Fprintf(&b, " (detected `%s`)", p.desc.Styles.Strategy)
	}
	b.WriteString("\n")
	if p.strategy == style.StrategyTailwind && len(p.desc.Styles.Classes) > 0 {
		fmt.Fprintf(&b, "\nUtility classes: `%s`\n", strings.Join(p.desc.Styles.Classes, " "))
	}
	b.WriteByte('\n')

	if len(p.desc.Hooks) > 0 {
		b.WriteString("## Hooks\n\n")
		for i, h := range p.desc.Hooks {
			name := h.Kind.HookName()
			if name == "" {
				name = string(h.Kind)
			}
			fmt.Fprintf(&b, "%d. `%s`\n", i+1, name)
		}
		b.WriteByte('\n')
	}

	if assets := style.CollectAssets(p.desc.DOMAnchor, assetDepth); len(assets.Images) > 0 || len(assets.Fonts) > 0 {
		b.WriteString("## Assets\n\n")
		for _, a := range assets.Images {
			fmt.Fprintf(&b, "- %s: %s\n", a.Kind, a.URL)
		}
		if len(assets.Fonts) > 0 {
			fmt.Fprintf(&b, "- fonts: %s\n", strings.Join(assets.Fonts, ", "))
		}
		b.WriteByte('\n')
	}

	if src := p.desc.Source; src != nil {
		b.WriteString("## Source\n\n")
		fmt.Fprintf(&b, "`%s:%d`\n\n", src.FileName, src.LineNumber)
	}
	if len(p.desc.Path) > 0 {
		fmt.Fprintf(&b, "Component path: %s\n", strings.Join(p.desc.Path, " > "))
	}
	return b.String()
}

// usageTag renders the component as it was used, with its sampled props.
func (p *packager) usageTag() string {
	opts := DefaultJSXOptions()
	attrs := (&synth{opts: opts}).attributes(p.props)
	return "<" + p.name + renderAttrs(attrs) + " />"
}

// sampleArgs renders the sampled props as an object literal. Values with
// no literal form are left out.
func (p *packager) sampleArgs() string {
	args := fiber.NewObject()
	for _, k := range p.props.Keys() {
		if isInternalProp(k) {
			continue
		}
		switch v := p.props.Lookup(k).(type) {
		case fiber.ElementMarker, fiber.NodeMarker, fiber.DOMHandle, fiber.Undefined:
			continue
		default:
			args.Set(k, v)
		}
	}
	return JSLiteral(args)
}

func (p *packager) testStub() string {
	var b strings.Builder
	b.WriteString("import React from 'react';\n")
	b.WriteString("import { render } from '@testing-library/react';\n")
	fmt.Fprintf(&b, "import %s from './%s';\n", p.name, p.name)
	if p.cfg.TypeScript {
		fmt.Fprintf(&b, "import type { %s } from './%s';\n", PropsTypeName(p.name), p.typesModule())
	}
	b.WriteByte('\n')

	if p.cfg.TypeScript {
		fmt.Fprintf(&b, "const defaultProps = %s as %s;\n\n", p.sampleArgs(), PropsTypeName(p.name))
	} else {
		fmt.Fprintf(&b, "const defaultProps = %s;\n\n", p.sampleArgs())
	}
	fmt.Fprintf(&b, "describe('%s', () => {\n", p.name)
	b.WriteString("  it('renders without crashing', () => {\n")
	fmt.Fprintf(&b, "    const { container } = render(<%s {...defaultProps} />);\n", p.name)
	b.WriteString("    expect(container.firstChild).toBeTruthy();\n")
	b.WriteString("  });\n")
	b.WriteString("});\n")
	return b.String()
}

func (p *packager) storyStub() string {
	var b strings.Builder
	if p.cfg.TypeScript {
		b.WriteString("import type { Meta, StoryObj } from '@storybook/react';\n")
	}
	fmt.Fprintf(&b, "import %s from './%s';\n\n", p.name, p.name)

	if p.cfg.TypeScript {
		fmt.Fprintf(&b, "const meta: Meta<typeof %s> = {\n", p.name)
	} else {
		b.WriteString("const meta = {\n")
	}
	fmt.Fprintf(&b, "  title: 'Components/%s',\n", p.name)
	fmt.Fprintf(&b, "  component: %s,\n", p.name)
	b.WriteString("};\n\n")
	b.WriteString("export default meta;\n\n")

	if p.cfg.TypeScript {
		fmt.Fprintf(&b, "type Story = StoryObj<typeof %s>;\n\n", p.name)
		b.WriteString("export const Default: Story = {\n")
	} else {
		b.WriteString("export const Default = {\n")
	}
	fmt.Fprintf(&b, "  args: %s,\n", p.sampleArgs())
	b.WriteString("};\n")
	return b.String()
}

func (p *packager) typesModule() string {
	if p.cfg.IncludeTypesFile {
		return p.name + ".types"
	}
	return p.name
}
