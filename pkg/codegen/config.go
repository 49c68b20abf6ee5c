// Package codegen turns tree nodes and component descriptors into source
// text: JSX markup, prop types, import blocks, component bodies and complete
// file packages.
package codegen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/fibersnap/pkg/style"
)

// ExtractDepth selects how nested custom components are rendered.
type ExtractDepth string

const (
	// Shallow renders nested custom components as placeholder tags.
	Shallow ExtractDepth = "shallow"
	// Deep inlines nested custom components.
	Deep ExtractDepth = "deep"
)

// ParseExtractDepth parses "shallow" or "deep" (case-insensitive).
func ParseExtractDepth(s string) (ExtractDepth, error) {
	switch ExtractDepth(strings.ToLower(strings.TrimSpace(s))) {
	case Shallow:
		return Shallow, nil
	case Deep, "":
		return Deep, nil
	}
	return "", fmt.Errorf("invalid extract depth %q (want shallow or deep)", s)
}

// Config holds generation options.
type Config struct {
	TypeScript bool `json:"typescript" yaml:"typescript"`

	// StyleStrategy overrides the detected strategy. Empty means use the
	// detected one; style.StrategyNone disables style output.
	StyleStrategy   style.Strategy `json:"styleStrategy,omitempty" yaml:"style_strategy"`
	IncludeComments bool           `json:"includeComments" yaml:"include_comments"`
	ExtractDepth    ExtractDepth   `json:"extractDepth" yaml:"extract_depth"`

	// ComponentName overrides the resolved component name.
	ComponentName string `json:"componentName,omitempty" yaml:"component_name"`

	IncludeTypesFile bool `json:"includeTypesFile" yaml:"include_types_file"`
	IncludeIndex     bool `json:"includeIndex" yaml:"include_index"`
	IncludeReadme    bool `json:"includeReadme" yaml:"include_readme"`
	IncludeTests     bool `json:"includeTests" yaml:"include_tests"`
	IncludeStories   bool `json:"includeStories" yaml:"include_stories"`
	ClassComponent   bool `json:"classComponent" yaml:"class_component"`
	UseInterface     bool `json:"useInterface" yaml:"use_interface"`
	SortImports      bool `json:"sortImports" yaml:"sort_imports"`

	// MaxDepth bounds JSX recursion.
	MaxDepth int `json:"maxDepth" yaml:"max_depth"`

	// Verify parses every generated script artifact and fails the request
	// on syntax errors. It needs a Verifier.
	Verify bool `json:"verify" yaml:"verify"`
}

// DefaultMaxDepth is the default JSX recursion bound.
const DefaultMaxDepth = 10

// DefaultConfig returns the default generation options.
func DefaultConfig() Config {
	return Config{
		TypeScript:      true,
		StyleStrategy:   style.StrategyCSSModule,
		IncludeComments: true,
		ExtractDepth:    Deep,
		IncludeIndex:    true,
		IncludeReadme:   true,
		UseInterface:    true,
		SortImports:     true,
		MaxDepth:        DefaultMaxDepth,
		Verify:          true,
	}
}

// Validate checks option values.
func (c Config) Validate() error {
	var errs []error
	if c.StyleStrategy != "" {
		if _, ok := style.ParseStrategy(string(c.StyleStrategy)); !ok {
			errs = append(errs, fmt.Errorf("unknown style strategy %q", c.StyleStrategy))
		}
	}
	if c.ExtractDepth != "" && c.ExtractDepth != Shallow && c.ExtractDepth != Deep {
		errs = append(errs, fmt.Errorf("invalid extract depth %q", c.ExtractDepth))
	}
	if c.MaxDepth < 0 {
		errs = append(errs, fmt.Errorf("max depth must not be negative, got %d", c.MaxDepth))
	}
	if c.ComponentName != "" && !isIdentifier(c.ComponentName) {
		errs = append(errs, fmt.Errorf("component name %q is not a valid identifier", c.ComponentName))
	}
	return errors.Join(errs...)
}

func (c Config) maxDepth() int {
	if c.MaxDepth <= 0 {
		return DefaultMaxDepth
	}
	return c.MaxDepth
}

func (c Config) extractDepth() ExtractDepth {
	if c.ExtractDepth == "" {
		return Deep
	}
	return c.ExtractDepth
}

// ScriptExt returns the component file extension.
func (c Config) ScriptExt() string {
	if c.TypeScript {
		return ".tsx"
	}
	return ".jsx"
}

// ModuleExt returns the extension for non-JSX modules.
func (c Config) ModuleExt() string {
	if c.TypeScript {
		return ".ts"
	}
	return ".js"
}
