// Package generator is the service layer around the code generation core. It
// loads snapshots, picks the tree node to generate from, runs descriptor
// extraction and package synthesis, verifies the output, and writes it to
// disk. The CLI and the MCP server both drive it.
package generator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/extract"
	"github.com/gnana997/fibersnap/pkg/fiber"
	"github.com/gnana997/fibersnap/pkg/parser"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/gnana997/fibersnap/pkg/style"
	"github.com/gnana997/fibersnap/pkg/validator"
)

// Target selects which node a snapshot is generated from.
type Target string

const (
	// TargetComponent generates the nearest custom component enclosing the
	// selected element.
	TargetComponent Target = "component"
	// TargetElement generates the selected element's own node.
	TargetElement Target = "element"
)

// ParseTarget parses "component" or "element". Empty means component.
func ParseTarget(s string) (Target, error) {
	switch Target(strings.ToLower(strings.TrimSpace(s))) {
	case "", TargetComponent:
		return TargetComponent, nil
	case TargetElement:
		return TargetElement, nil
	}
	return "", fmt.Errorf("invalid target %q (want component or element)", s)
}

// Options configures a Generator.
type Options struct {
	Target    Target
	StoreSize int
	// PoolSize bounds parsers per grammar and batch workers. Zero uses the
	// CPU-based default.
	PoolSize int
	// Strict makes unbound components in generated markup fail verification.
	Strict bool
}

// Result is one generated component package.
type Result struct {
	Source     string                       `json:"source,omitempty"`
	Component  string                       `json:"component"`
	Kind       fiber.Kind                   `json:"kind"`
	Strategy   style.Strategy               `json:"strategy"`
	Artifacts  []codegen.Artifact           `json:"artifacts"`
	Usages     []validator.Usage            `json:"usages,omitempty"`
	Descriptor *extract.ComponentDescriptor `json:"-"`
	Duration   time.Duration                `json:"duration"`
}

// Stats counts generation outcomes.
type Stats struct {
	Generated int64               `json:"generated"`
	Failed    int64               `json:"failed"`
	Store     snapshot.StoreStats `json:"store"`
	Parser    parser.Stats        `json:"parser"`
}

// Generator turns snapshots into component packages. It is safe for
// concurrent use.
//
// Usage:
//
//	g, err := generator.New(generator.Options{}, logger)
//	if err != nil {
//	    return err
//	}
//	defer g.Close()
//	res, err := g.GenerateFile(ctx, "profile.snapshot.json", codegen.DefaultConfig())
type Generator struct {
	opts      Options
	store     *snapshot.Store
	parser    *parser.Manager
	validator *validator.Validator
	logger    *slog.Logger

	generated atomic.Int64
	failed    atomic.Int64
}

// New returns a Generator with its own snapshot store and parser pools.
func New(opts Options, logger *slog.Logger) (*Generator, error) {
	if logger == nil {
		logger = slog.Default()
	}
	target, err := ParseTarget(string(opts.Target))
	if err != nil {
		return nil, err
	}
	opts.Target = target

	store, err := snapshot.NewStore(opts.StoreSize, logger)
	if err != nil {
		return nil, err
	}
	pm := parser.NewManagerWithPoolSize(logger, opts.PoolSize)
	return &Generator{
		opts:      opts,
		store:     store,
		parser:    pm,
		validator: validator.New(pm, validator.Options{Strict: opts.Strict}, logger),
		logger:    logger,
	}, nil
}

// Close releases parser resources.
func (g *Generator) Close() error {
	return g.parser.Close()
}

// Store returns the snapshot cache.
func (g *Generator) Store() *snapshot.Store { return g.store }

// Validator returns the validator used for verification.
func (g *Generator) Validator() *validator.Validator { return g.validator }

// Stats returns counters for the generator and its caches.
func (g *Generator) Stats() Stats {
	return Stats{
		Generated: g.generated.Load(),
		Failed:    g.failed.Load(),
		Store:     g.store.Stats(),
		Parser:    g.parser.Stats(),
	}
}

// Load returns the snapshot at path through the store.
func (g *Generator) Load(path string) (*snapshot.Snapshot, error) {
	return g.store.Get(path)
}

// GenerateFile generates the package for the snapshot at path.
func (g *Generator) GenerateFile(ctx context.Context, path string, cfg codegen.Config) (*Result, error) {
	snap, err := g.store.Get(path)
	if err != nil {
		g.failed.Add(1)
		return nil, err
	}
	res, err := g.GenerateSnapshot(ctx, snap, cfg)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	res.Source = path
	return res, nil
}

// GenerateBytes decodes an inline snapshot document and generates it.
func (g *Generator) GenerateBytes(ctx context.Context, data []byte, cfg codegen.Config) (*Result, error) {
	snap, err := snapshot.Decode(data)
	if err != nil {
		g.failed.Add(1)
		return nil, err
	}
	return g.GenerateSnapshot(ctx, snap, cfg)
}

// GenerateSnapshot generates the package for an already decoded snapshot.
func (g *Generator) GenerateSnapshot(ctx context.Context, snap *snapshot.Snapshot, cfg codegen.Config) (*Result, error) {
	res, err := g.generate(ctx, snap, cfg)
	if err != nil {
		g.failed.Add(1)
		return nil, err
	}
	g.generated.Add(1)
	return res, nil
}

func (g *Generator) generate(ctx context.Context, snap *snapshot.Snapshot, cfg codegen.Config) (*Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	start := time.Now()

	node, err := g.TargetNode(snap)
	if err != nil {
		return nil, err
	}

	desc := extract.Build(node, extract.BuildOptions{MaxDepth: cfg.MaxDepth})
	g.logger.Debug("built descriptor",
		"component", desc.Name,
		"kind", desc.Kind,
		"ms", time.Since(start).Milliseconds())

	synth := time.Now()
	artifacts, err := codegen.BuildPackageContext(ctx, desc, cfg, g.validator)
	if err != nil {
		return nil, err
	}
	g.logger.Debug("synthesized package",
		"component", desc.Name,
		"artifacts", len(artifacts),
		"ms", time.Since(synth).Milliseconds())

	res := &Result{
		Component:  componentName(artifacts, desc, cfg),
		Kind:       desc.Kind,
		Strategy:   codegen.ResolveStrategy(desc, cfg),
		Artifacts:  artifacts,
		Descriptor: desc,
	}
	res.Usages, err = g.usages(artifacts)
	if err != nil {
		return nil, err
	}
	res.Duration = time.Since(start)

	g.logger.Info("generated component",
		"component", res.Component,
		"strategy", res.Strategy,
		"artifacts", len(artifacts),
		"ms", res.Duration.Milliseconds())
	return res, nil
}

// TargetNode resolves the node a snapshot is generated from.
func (g *Generator) TargetNode(snap *snapshot.Snapshot) (*fiber.Node, error) {
	n, err := snap.SelectedNode()
	if err != nil {
		return nil, err
	}
	if g.opts.Target == TargetElement {
		return n, nil
	}
	if comp := fiber.NearestComponent(n); comp != nil {
		return comp, nil
	}
	return n, nil
}

// usages reports the custom components used by the component artifact.
func (g *Generator) usages(artifacts []codegen.Artifact) ([]validator.Usage, error) {
	for _, a := range artifacts {
		if a.Kind != codegen.ArtifactComponent {
			continue
		}
		check, err := g.validator.Check(a.Name, []byte(a.Content))
		if err != nil {
			return nil, fmt.Errorf("check %s: %w", a.Name, err)
		}
		return check.Markup.Usages, nil
	}
	return nil, nil
}

// componentName returns the generated identifier: the stem of the
// component artifact.
func componentName(artifacts []codegen.Artifact, desc *extract.ComponentDescriptor, cfg codegen.Config) string {
	for _, a := range artifacts {
		if a.Kind == codegen.ArtifactComponent {
			return strings.TrimSuffix(a.Name, cfg.ScriptExt())
		}
	}
	return codegen.ComponentIdent(desc.Name)
}
