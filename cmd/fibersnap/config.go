package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/style"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

const defaultConfigPath = ".fibersnap/config.yaml"

// ProjectConfig holds the contents of .fibersnap/config.yaml. Pointer fields
// distinguish "unset" from an explicit false or zero.
type ProjectConfig struct {
	OutputDir      string `yaml:"output_dir"`
	Target         string `yaml:"target"`
	TypeScript     *bool  `yaml:"typescript"`
	StyleStrategy  string `yaml:"style_strategy"`
	ExtractDepth   string `yaml:"extract_depth"`
	MaxDepth       int    `yaml:"max_depth"`
	IncludeTests   *bool  `yaml:"include_tests"`
	IncludeStories *bool  `yaml:"include_stories"`
	ClassComponent *bool  `yaml:"class_component"`
	Workers        int    `yaml:"workers"`
	LogLevel       string `yaml:"log_level"`
	LogFormat      string `yaml:"log_format"`
	MCPLog         string `yaml:"mcp_log"`
}

// loadProjectConfig reads the project config at path. A missing file
// returns nil, nil.
func loadProjectConfig(path string) (*ProjectConfig, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var cfg ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return &cfg, nil
}

// generationConfig layers the project config over codegen.DefaultConfig.
// A nil receiver yields the defaults.
func (p *ProjectConfig) generationConfig() (codegen.Config, error) {
	cfg := codegen.DefaultConfig()
	if p == nil {
		return cfg, nil
	}
	if p.TypeScript != nil {
		cfg.TypeScript = *p.TypeScript
	}
	if p.StyleStrategy != "" {
		s, ok := style.ParseStrategy(p.StyleStrategy)
		if !ok {
			return cfg, fmt.Errorf("config: unknown style strategy %q", p.StyleStrategy)
		}
		cfg.StyleStrategy = s
	}
	if p.ExtractDepth != "" {
		d, err := codegen.ParseExtractDepth(p.ExtractDepth)
		if err != nil {
			return cfg, fmt.Errorf("config: %w", err)
		}
		cfg.ExtractDepth = d
	}
	if p.MaxDepth > 0 {
		cfg.MaxDepth = p.MaxDepth
	}
	if p.IncludeTests != nil {
		cfg.IncludeTests = *p.IncludeTests
	}
	if p.IncludeStories != nil {
		cfg.IncludeStories = *p.IncludeStories
	}
	if p.ClassComponent != nil {
		cfg.ClassComponent = *p.ClassComponent
	}
	return cfg, nil
}

// genFlags are the generation options shared by generate, batch, watch and
// capture. A flag only overrides the project config when it was set.
type genFlags struct {
	typescript     bool
	style          string
	depth          string
	name           string
	maxDepth       int
	tests          bool
	stories        bool
	classComponent bool
	verify         bool
	target         string
	outDir         string
	overwrite      bool
	flat           bool
}

func (f *genFlags) register(cmd *cobra.Command, withName bool) {
	defaults := codegen.DefaultConfig()
	fl := cmd.Flags()
	fl.BoolVar(&f.typescript, "typescript", defaults.TypeScript, "emit .tsx/.ts (false emits .jsx/.js)")
	fl.StringVar(&f.style, "style", "", "style strategy: auto, inline, css-module, styled-components, tailwind, plain-css, none")
	fl.StringVar(&f.depth, "depth", "", "nested components: deep (inline) or shallow (placeholder tags)")
	if withName {
		fl.StringVar(&f.name, "name", "", "override the component name")
	}
	fl.IntVar(&f.maxDepth, "max-depth", defaults.MaxDepth, "maximum JSX nesting depth")
	fl.BoolVar(&f.tests, "tests", false, "add a test file")
	fl.BoolVar(&f.stories, "stories", false, "add a stories file")
	fl.BoolVar(&f.classComponent, "class", false, "emit a class component")
	fl.BoolVar(&f.verify, "verify", defaults.Verify, "parse generated files and fail on syntax errors")
	fl.StringVar(&f.target, "target", "", "generate the nearest component or the selected element: component, element")
	fl.StringVarP(&f.outDir, "out", "o", "", "output directory (default from config output_dir)")
	fl.BoolVar(&f.overwrite, "overwrite", false, "replace existing files")
	fl.BoolVar(&f.flat, "flat", false, "write into the output directory instead of a per-component subdirectory")
}

// resolve applies flag > project config > defaults.
func (f *genFlags) resolve(cmd *cobra.Command, project *ProjectConfig) (codegen.Config, error) {
	cfg, err := project.generationConfig()
	if err != nil {
		return cfg, err
	}
	fl := cmd.Flags()
	if fl.Changed("typescript") {
		cfg.TypeScript = f.typescript
	}
	if fl.Changed("style") {
		s, ok := style.ParseStrategy(f.style)
		if !ok {
			return cfg, fmt.Errorf("unknown style strategy %q", f.style)
		}
		cfg.StyleStrategy = s
	}
	if fl.Changed("depth") {
		d, err := codegen.ParseExtractDepth(f.depth)
		if err != nil {
			return cfg, err
		}
		cfg.ExtractDepth = d
	}
	if fl.Changed("name") {
		cfg.ComponentName = f.name
	}
	if fl.Changed("max-depth") {
		cfg.MaxDepth = f.maxDepth
	}
	if fl.Changed("tests") {
		cfg.IncludeTests = f.tests
	}
	if fl.Changed("stories") {
		cfg.IncludeStories = f.stories
	}
	if fl.Changed("class") {
		cfg.ClassComponent = f.classComponent
	}
	if fl.Changed("verify") {
		cfg.Verify = f.verify
	}
	return cfg, cfg.Validate()
}

func (f *genFlags) resolveTarget(project *ProjectConfig) string {
	if f.target != "" || project == nil {
		return f.target
	}
	return project.Target
}

func (f *genFlags) resolveOutDir(project *ProjectConfig) string {
	if f.outDir != "" || project == nil {
		return f.outDir
	}
	return project.OutputDir
}
