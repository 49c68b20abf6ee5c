package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
)

// RegisteredTools returns the tools the server exposes.
func RegisteredTools() []mcp.Tool {
	return []mcp.Tool{
		generateComponentTool(),
		inspectSnapshotTool(),
		detectStyleStrategyTool(),
		generatorStatsTool(),
	}
}

func snapshotSourceOptions() []mcp.ToolOption {
	return []mcp.ToolOption{
		mcp.WithString("path",
			mcp.Description("Path to a .snapshot.json file written by `fibersnap capture`. Give either path or snapshot."),
		),
		mcp.WithString("snapshot",
			mcp.Description("Inline snapshot document (JSON). Give either path or snapshot."),
		),
	}
}

func generateComponentTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(`Generate a component package (component, styles, index, README, optional tests and stories) from a captured page snapshot.

The package is built from the nearest custom component above the selected element. Options left out use the server defaults.
Returns JSON: component name, kind, style strategy, artifacts [{name, kind, content}] and the custom components the markup uses.`),
	}
	opts = append(opts, snapshotSourceOptions()...)
	opts = append(opts,
		mcp.WithBoolean("typescript",
			mcp.Description("Emit .tsx/.ts with prop types instead of .jsx/.js"),
		),
		mcp.WithString("style_strategy",
			mcp.Description("Style output: auto, inline, css-module, styled-components, tailwind, plain-css or none"),
			mcp.Enum("auto", "inline", "css-module", "styled-components", "tailwind", "plain-css", "none"),
		),
		mcp.WithString("extract_depth",
			mcp.Description("deep inlines nested components; shallow renders them as placeholder tags"),
			mcp.Enum("deep", "shallow"),
		),
		mcp.WithString("component_name",
			mcp.Description("Override the generated component name"),
		),
		mcp.WithNumber("max_depth",
			mcp.Description("Maximum JSX nesting depth"),
		),
		mcp.WithBoolean("include_tests",
			mcp.Description("Add a test file"),
		),
		mcp.WithBoolean("include_stories",
			mcp.Description("Add a stories file"),
		),
		mcp.WithBoolean("class_component",
			mcp.Description("Emit a class component instead of a function component"),
		),
	)
	return mcp.NewTool("generate_component", opts...)
}

func inspectSnapshotTool() mcp.Tool {
	opts := []mcp.ToolOption{
		mcp.WithDescription(`Describe what a snapshot would generate without generating it: component name and kind, ancestor path, sanitized props, hooks, classes, detected style strategy, source location and referenced assets (images, backgrounds, fonts).`),
	}
	opts = append(opts, snapshotSourceOptions()...)
	return mcp.NewTool("inspect_snapshot", opts...)
}

func detectStyleStrategyTool() mcp.Tool {
	return mcp.NewTool("detect_style_strategy",
		mcp.WithDescription(`Classify a styling approach from an element's class list. Checks tailwind, css-module, styled-components and inline in that order; plain-css is the fallback.`),
		mcp.WithArray("classes",
			mcp.Description("Class names. A single space-separated string is also accepted."),
			mcp.WithStringItems(),
		),
		mcp.WithBoolean("has_inline",
			mcp.Description("The element has an inline style attribute"),
		),
		mcp.WithBoolean("has_styled_marker",
			mcp.Description("The element carries a styled-components marker attribute"),
		),
	)
}

func generatorStatsTool() mcp.Tool {
	return mcp.NewTool("generator_stats",
		mcp.WithDescription("Generation counters plus snapshot cache and parser pool statistics."),
	)
}
