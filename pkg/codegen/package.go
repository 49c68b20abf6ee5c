package codegen

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/gnana997/fibersnap/pkg/extract"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/style"
)

// ArtifactKind classifies a generated file.
type ArtifactKind string

const (
	ArtifactComponent  ArtifactKind = "component"
	ArtifactStylesheet ArtifactKind = "stylesheet"
	ArtifactTypes      ArtifactKind = "types"
	ArtifactIndex      ArtifactKind = "index"
	ArtifactReadme     ArtifactKind = "readme"
	ArtifactTest       ArtifactKind = "test"
	ArtifactStory      ArtifactKind = "story"
)

// Artifact is one generated file.
type Artifact struct {
	Name    string       `json:"name"`
	Kind    ArtifactKind `json:"kind"`
	Content string       `json:"content"`
}

// IsScript reports whether the artifact is JavaScript or TypeScript source.
func (a Artifact) IsScript() bool {
	switch path.Ext(a.Name) {
	case ".ts", ".tsx", ".js", ".jsx":
		return true
	}
	return false
}

// Verifier checks generated source for syntax errors.
type Verifier interface {
	Verify(ctx context.Context, name string, src []byte) error
}

// BuildPackage generates the file package for desc without verification.
func BuildPackage(desc *extract.ComponentDescriptor, cfg Config) ([]Artifact, error) {
	return BuildPackageContext(context.Background(), desc, cfg, nil)
}

// BuildPackageContext generates the file package for desc. When cfg.Verify
// is set and v is non-nil, every script artifact is verified.
//
// Artifacts are returned whole or not at all: any failure, including a
// panic inside a synthesizer, yields a *SynthesisError and no artifacts.
func BuildPackageContext(ctx context.Context, desc *extract.ComponentDescriptor, cfg Config, v Verifier) (artifacts []Artifact, err error) {
	if desc == nil {
		return nil, &SynthesisError{Stage: StageComponent, Err: errors.New("no component descriptor")}
	}
	if err := cfg.Validate(); err != nil {
		return nil, &SynthesisError{Stage: StageComponent, Component: desc.Name, Err: err}
	}

	p := &packager{desc: desc, cfg: cfg, name: resolveName(desc, cfg), stage: StageComponent}
	defer func() {
		if r := recover(); r != nil {
			artifacts = nil
			err = &SynthesisError{Stage: p.stage, Component: p.name, Err: fmt.Errorf("panic: %v", r)}
		}
	}()

	artifacts, err = p.build()
	if err != nil {
		return nil, err
	}
	if cfg.Verify && v != nil {
		p.stage = StageVerify
		if err := verifyAll(ctx, v, artifacts); err != nil {
			return nil, &SynthesisError{Stage: StageVerify, Component: p.name, Err: err}
		}
	}
	return artifacts, nil
}

func verifyAll(ctx context.Context, v Verifier, artifacts []Artifact) error {
	var errs []error
	for _, a := range artifacts {
		if !a.IsScript() {
			continue
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := v.Verify(ctx, a.Name, []byte(a.Content)); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", a.Name, err))
		}
	}
	return errors.Join(errs...)
}

// resolveName picks the component identifier.
func resolveName(desc *extract.ComponentDescriptor, cfg Config) string {
	if cfg.ComponentName != "" {
		return cfg.ComponentName
	}
	return ComponentIdent(desc.Name)
}

// ResolveStrategy returns the configured strategy, or the detected one when
// none is configured.
func ResolveStrategy(desc *extract.ComponentDescriptor, cfg Config) style.Strategy {
	if s, ok := style.ParseStrategy(string(cfg.StyleStrategy)); ok && s != "" {
		return s
	}
	if desc != nil && desc.Styles.Strategy != "" {
		return desc.Styles.Strategy
	}
	return style.StrategyPlainCSS
}

// RawProps returns the unsanitized props of desc's node, falling back to the
// sanitized copy when the node is gone.
func RawProps(desc *extract.ComponentDescriptor) *fiber.Object {
	if desc.Node != nil {
		return desc.Node.PropsObject()
	}
	if desc.Props != nil {
		return desc.Props
	}
	return fiber.NewObject()
}

type packager struct {
	desc  *extract.ComponentDescriptor
	cfg   Config
	name  string
	stage Stage

	strategy style.Strategy
	props    *fiber.Object
	fields   []PropField
	markup   string
	sheet    style.Sheet
}

func (p *packager) fail(err error) error {
	return &SynthesisError{Stage: p.stage, Component: p.name, Err: err}
}

func (p *packager) build() ([]Artifact, error) {
	p.strategy = ResolveStrategy(p.desc, p.cfg)
	p.props = RawProps(p.desc)

	p.stage = StageJSX
	if p.desc.Node == nil {
		return nil, p.fail(errors.New("descriptor has no tree node"))
	}
	p.markup = SynthesizeRender(p.desc.Node, p.jsxOptions())

	p.stage = StageTypes
	p.fields = InferPropFields(p.props)

	p.stage = StageStyles
	p.sheet = style.Render(p.strategy, style.RenderInput{
		Component:    p.name,
		Tag:          p.rootTag(),
		Declarations: p.desc.Styles.Declarations(),
		Classes:      p.desc.Styles.Classes,
		Comments:     p.cfg.IncludeComments,
	})

	p.stage = StageImports
	imports := SynthesizeImports(p.importInput())

	p.stage = StageComponent
	var out []Artifact
	out = append(out, Artifact{
		Name:    p.name + p.cfg.ScriptExt(),
		Kind:    ArtifactComponent,
		Content: p.componentFile(imports),
	})
	if p.sheet.External {
		out = append(out, Artifact{Name: p.name + p.sheet.Extension, Kind: ArtifactStylesheet, Content: p.sheet.Text})
	}
	if p.cfg.TypeScript && p.cfg.IncludeTypesFile {
		out = append(out, Artifact{Name: p.name + ".types.ts", Kind: ArtifactTypes, Content: p.typesFile()})
	}
	if p.cfg.IncludeIndex {
		out = append(out, Artifact{Name: "index" + p.cfg.ModuleExt(), Kind: ArtifactIndex, Content: p.indexFile()})
	}
	if p.cfg.IncludeReadme {
		out = append(out, Artifact{Name: "README.md", Kind: ArtifactReadme, Content: p.readme()})
	}
	if p.cfg.IncludeTests {
		out = append(out, Artifact{Name: p.name + ".test" + p.cfg.ScriptExt(), Kind: ArtifactTest, Content: p.testStub()})
	}
	if p.cfg.IncludeStories {
		out = append(out, Artifact{Name: p.name + ".stories" + p.cfg.ScriptExt(), Kind: ArtifactStory, Content: p.storyStub()})
	}
	return out, nil
}

func (p *packager) jsxOptions() JSXOptions {
	opts := DefaultJSXOptions()
	opts.MaxDepth = p.cfg.maxDepth()
	opts.ExtractDepth = p.cfg.extractDepth()
	switch p.strategy {
	case style.StrategyCSSModule, style.StrategyInline, style.StrategyPlainCSS, style.StrategyStyledComponents:
		opts.RootStyle = &RootStyle{Strategy: p.strategy, Component: p.name}
	}
	return opts
}

func (p *packager) rootTag() string {
	if p.desc.DOMAnchor != nil {
		return strings.ToLower(p.desc.DOMAnchor.TagName())
	}
	return "div"
}

func (p *packager) stateHooks() []extract.HookDescriptor {
	if p.cfg.ClassComponent {
		return nil
	}
	var out []extract.HookDescriptor
	for _, h := range p.desc.Hooks {
		if h.Kind == extract.HookState {
			out = append(out, h)
		}
	}
	return out
}

func (p *packager) importInput() ImportInput {
	in := ImportInput{Component: p.name, Markup: p.markup, Strategy: p.strategy}
	if len(p.stateHooks()) > 0 {
		in.Hooks = []string{extract.HookState.HookName()}
	}
	if p.cfg.TypeScript && p.cfg.IncludeTypesFile {
		in.TypesModule = "./" + p.name + ".types"
		in.TypesName = PropsTypeName(p.name)
	}
	return in
}

func (p *packager) typeOptions() TypeOptions {
	return TypeOptions{
		Name:         PropsTypeName(p.name),
		UseInterface: p.cfg.UseInterface,
		Comments:     p.cfg.IncludeComments,
		Export:       true,
	}
}

func (p *packager) componentFile(imports *ImportSet) string {
	var b strings.Builder
	b.WriteString(imports.Render(p.cfg.SortImports))

	if p.cfg.TypeScript && !p.cfg.IncludeTypesFile {
		b.WriteByte('\n')
		b.WriteString(RenderPropsType(p.fields, p.typeOptions()))
	}
	if !p.sheet.External && p.sheet.Text != "" {
		b.WriteByte('\n')
		b.WriteString(p.sheet.Text)
	}

	in := BodyInput{
		Name:     p.name,
		PropKeys: p.props.Keys(),
		JSX:      p.markup,
		Class:    p.cfg.ClassComponent,
		Comments: p.cfg.IncludeComments,
		DocLines: p.docLines(),
		Reserved: imports.Bindings(),
	}
	if p.cfg.TypeScript {
		in.PropsType = PropsTypeName(p.name)
	}
	for _, h := range p.stateHooks() {
		in.StateInits = append(in.StateInits, JSLiteral(h.Value))
	}
	if p.cfg.ClassComponent && p.desc.State != nil {
		in.ClassState = JSLiteral(p.desc.State)
	}

	b.WriteByte('\n')
	b.WriteString(ComponentBody(in))
	return b.String()
}

func (p *packager) docLines() []string {
	lines := []string{"", "Generated from a live page snapshot. Props and state reflect the", "values sampled at capture time."}
	if src := p.desc.Source; src != nil {
		lines = append(lines, "", fmt.Sprintf("Original source: %s:%d", src.FileName, src.LineNumber))
	}
	return lines
}

func (p *packager) typesFile() string {
	var b strings.Builder
	if usesReactTypes(p.fields) {
		b.WriteString("import type React from 'react';\n\n")
	}
	b.WriteString(RenderPropsType(p.fields, p.typeOptions()))
	return b.String()
}

func usesReactTypes(fields []PropField) bool {
	for _, f := range fields {
		if strings.Contains(f.Type, "React.") {
			return true
		}
	}
	return false
}

func (p *packager) indexFile() string {
	var b strings.Builder
	fmt.Fprintf(&b, "export { default } from './%s';\n", p.name)
	if p.cfg.TypeScript {
		from := "./" + p.name
		if p.cfg.IncludeTypesFile {
			from += ".types"
		}
		fmt.Fprintf(&b, "export type { %s } from '%s';\n", PropsTypeName(p.name), from)
	}
	return b.String()
}

// QuickGenerate builds the package and concatenates every artifact under a
// banner line naming the file.
func QuickGenerate(desc *extract.ComponentDescriptor, cfg Config) (string, error) {
	artifacts, err := BuildPackage(desc, cfg)
	if err != nil {
		return "", err
	}
	return JoinArtifacts(artifacts), nil
}

// JoinArtifacts concatenates artifacts with "// ---- name ----" banners.
func JoinArtifacts(artifacts []Artifact) string {
	var b strings.Builder
	for i, a := range artifacts {
		if i > 0 {
			b.WriteByte('\n')
		}
		fmt.Fprintf(&b, "// ---- %s ----\n", a.Name)
		b.WriteString(a.Content)
		if !strings.HasSuffix(a.Content, "\n") {
			b.WriteByte('\n')
		}
	}
	return b.String()
}
