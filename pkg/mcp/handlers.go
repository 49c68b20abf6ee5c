package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/gnana997/fibersnap/pkg/style"
	"github.com/mark3labs/mcp-go/mcp"
)

func jsonResult(v any) (*mcp.CallToolResult, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("failed to encode result: %v", err)), nil
	}
	return mcp.NewToolResultText(string(b)), nil
}

// loadSnapshot resolves the path or inline snapshot argument.
func (s *Server) loadSnapshot(req mcp.CallToolRequest) (*snapshot.Snapshot, string, error) {
	path := req.GetString("path", "")
	inline := req.GetString("snapshot", "")
	switch {
	case path != "" && inline != "":
		return nil, "", errors.New("give either path or snapshot, not both")
	case path != "":
		snap, err := s.gen.Load(path)
		return snap, path, err
	case inline != "":
		snap, err := snapshot.Decode([]byte(inline))
		return snap, "", err
	}
	return nil, "", errors.New("path or snapshot is required")
}

// requestConfig overlays the call's options on the server defaults.
func (s *Server) requestConfig(req mcp.CallToolRequest) (codegen.Config, error) {
	cfg := s.config
	cfg.TypeScript = req.GetBool("typescript", cfg.TypeScript)
	cfg.IncludeTests = req.GetBool("include_tests", cfg.IncludeTests)
	cfg.IncludeStories = req.GetBool("include_stories", cfg.IncludeStories)
	cfg.ClassComponent = req.GetBool("class_component", cfg.ClassComponent)
	cfg.MaxDepth = req.GetInt("max_depth", cfg.MaxDepth)
	if name := req.GetString("component_name", ""); name != "" {
		cfg.ComponentName = name
	}
	if v := req.GetString("style_strategy", ""); v != "" {
		strategy, ok := style.ParseStrategy(v)
		if !ok {
			return cfg, fmt.Errorf("unknown style strategy %q", v)
		}
		cfg.StyleStrategy = strategy
	}
	if v := req.GetString("extract_depth", ""); v != "" {
		depth, err := codegen.ParseExtractDepth(v)
		if err != nil {
			return cfg, err
		}
		cfg.ExtractDepth = depth
	}
	return cfg, cfg.Validate()
}

func (s *Server) handleGenerateComponent(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg, err := s.requestConfig(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	snap, path, err := s.loadSnapshot(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res, err := s.gen.GenerateSnapshot(ctx, snap, cfg)
	if err != nil {
		if path != "" {
			err = fmt.Errorf("%s: %w", path, err)
		}
		return mcp.NewToolResultError(err.Error()), nil
	}
	res.Source = path
	return jsonResult(res)
}

func (s *Server) handleInspectSnapshot(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	snap, _, err := s.loadSnapshot(req)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	in, err := s.gen.Inspect(snap)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	return jsonResult(in)
}

type classReport struct {
	Class     string `json:"class"`
	Tailwind  bool   `json:"tailwind,omitempty"`
	CSSModule bool   `json:"css_module,omitempty"`
	Styled    bool   `json:"styled,omitempty"`
}

type strategyReport struct {
	Strategy style.Strategy `json:"strategy"`
	Classes  []classReport  `json:"classes,omitempty"`
}

func (s *Server) handleDetectStyleStrategy(_ context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	var classes []string
	switch v := req.GetArguments()["classes"].(type) {
	case nil:
	case string:
		classes = strings.Fields(v)
	case []any:
		for _, c := range v {
			str, ok := c.(string)
			if !ok {
				return mcp.NewToolResultError(fmt.Sprintf("classes must be strings, got %T", c)), nil
			}
			classes = append(classes, strings.Fields(str)...)
		}
	default:
		return mcp.NewToolResultError(fmt.Sprintf("classes must be an array or string, got %T", v)), nil
	}

	classes = style.UniqueClasses(classes)
	report := strategyReport{
		Strategy: style.DetectStrategy(classes,
			req.GetBool("has_inline", false),
			req.GetBool("has_styled_marker", false)),
	}
	for _, c := range classes {
		report.Classes = append(report.Classes, classReport{
			Class:     c,
			Tailwind:  style.IsTailwindClass(c),
			CSSModule: style.IsCSSModuleClass(c),
			Styled:    style.IsStyledClass(c),
		})
	}
	return jsonResult(report)
}

func (s *Server) handleGeneratorStats(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return jsonResult(s.gen.Stats())
}
