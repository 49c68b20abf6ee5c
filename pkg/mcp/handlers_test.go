package mcp

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/dom"
	"github.com/gnana997/fibersnap/pkg/generator"
	"github.com/gnana997/fibersnap/pkg/mcplog"
	"github.com/gnana997/fibersnap/pkg/style"
	"github.com/gnana997/fibersnap/pkg/util"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// --- helpers ---

func fixturePath(name string) string {
	return filepath.Join("..", "snapshot", "testdata", name)
}

func testServer(t *testing.T, callLog *mcplog.Logger) *Server {
	t.Helper()
	gen, err := generator.New(generator.Options{}, util.NewDiscardLogger())
	require.NoError(t, err)
	t.Cleanup(func() { gen.Close() })
	return NewServer(gen, codegen.DefaultConfig(), callLog, util.NewDiscardLogger())
}

func callTool(t *testing.T, s *Server, req mcp.CallToolRequest) *mcp.CallToolResult {
	t.Helper()
	var handler func(context.Context, mcp.CallToolRequest) (*mcp.CallToolResult, error)

	switch req.Params.Name {
	case "generate_component":
		handler = s.handleGenerateComponent
	case "inspect_snapshot":
		handler = s.handleInspectSnapshot
	case "detect_style_strategy":
		handler = s.handleDetectStyleStrategy
	case "generator_stats":
		handler = s.handleGeneratorStats
	default:
		t.Fatalf("unknown tool: %s", req.Params.Name)
	}
	if s.callLog != nil {
		handler = s.loggingMiddleware()(handler)
	}

	result, err := handler(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, result)
	return result
}

func makeRequest(toolName string, args map[string]any) mcp.CallToolRequest {
	var arguments any
	if args != nil {
		arguments = args
	}
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      toolName,
			Arguments: arguments,
		},
	}
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	textContent, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return textContent.Text
}

type generated struct {
	Source    string `json:"source"`
	Component string `json:"component"`
	Strategy  string `json:"strategy"`
	Artifacts []struct {
		Name    string `json:"name"`
		Content string `json:"content"`
	} `json:"artifacts"`
}

func decodeGenerated(t *testing.T, result *mcp.CallToolResult) generated {
	t.Helper()
	require.False(t, result.IsError, resultText(t, result))
	var g generated
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &g))
	return g
}

func (g generated) names() []string {
	out := make([]string, len(g.Artifacts))
	for i, a := range g.Artifacts {
		out[i] = a.Name
	}
	return out
}

// --- generate_component ---

func TestHandleGenerateComponent_Path(t *testing.T) {
	s := testServer(t, nil)
	path := fixturePath("profile.snapshot.json")
	g := decodeGenerated(t, callTool(t, s, makeRequest("generate_component", map[string]any{
		"path":          path,
		"include_tests": true,
	})))

	assert.Equal(t, path, g.Source)
	assert.Equal(t, "ProfileCard", g.Component)
	assert.Equal(t, "css-module", g.Strategy)
	assert.Contains(t, g.names(), "ProfileCard.tsx")
	assert.Contains(t, g.names(), "ProfileCard.test.tsx")
}

func TestHandleGenerateComponent_Inline(t *testing.T) {
	s := testServer(t, nil)
	data, err := os.ReadFile(fixturePath("profile.snapshot.json"))
	require.NoError(t, err)

	g := decodeGenerated(t, callTool(t, s, makeRequest("generate_component", map[string]any{
		"snapshot":       string(data),
		"typescript":     false,
		"component_name": "UserCard",
		"style_strategy": "inline",
	})))

	assert.Empty(t, g.Source)
	assert.Equal(t, "UserCard", g.Component)
	assert.Equal(t, "inline", g.Strategy)
	assert.Contains(t, g.names(), "UserCard.jsx")
	assert.NotContains(t, g.names(), "UserCard.module.css")
}

func TestHandleGenerateComponent_Errors(t *testing.T) {
	s := testServer(t, nil)
	profile := fixturePath("profile.snapshot.json")

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"no source", nil, "path or snapshot is required"},
		{"both sources", map[string]any{"path": profile, "snapshot": "{}"}, "not both"},
		{"bad strategy", map[string]any{"path": profile, "style_strategy": "sass"}, "unknown style strategy"},
		{"bad depth", map[string]any{"path": profile, "extract_depth": "medium"}, "invalid extract depth"},
		{"bad name", map[string]any{"path": profile, "component_name": "my card"}, "not a valid identifier"},
		{"not rendered", map[string]any{"path": fixturePath("static.snapshot.json")}, "not rendered by a component tree"},
		{"missing file", map[string]any{"path": fixturePath("missing.snapshot.json")}, "missing.snapshot.json"},
		{"bad inline", map[string]any{"snapshot": "not json"}, ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("generate_component", tc.args))
			assert.True(t, result.IsError)
			if tc.want != "" {
				assert.Contains(t, resultText(t, result), tc.want)
			}
		})
	}
}

// --- inspect_snapshot ---

func TestHandleInspectSnapshot(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("inspect_snapshot", map[string]any{
		"path": fixturePath("profile.snapshot.json"),
	}))
	require.False(t, result.IsError, resultText(t, result))

	var in map[string]any
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &in))
	assert.Equal(t, "ProfileCard", in["component"])
	assert.Equal(t, "h2", in["selected_tag"])
	assert.Equal(t, "css-module", in["strategy"])
	assert.Equal(t, []any{"ProfileCard"}, in["path"])
}

func TestHandleInspectSnapshot_NoRuntime(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("inspect_snapshot", map[string]any{
		"path": fixturePath("static.snapshot.json"),
	}))
	assert.True(t, result.IsError)
}

// --- detect_style_strategy ---

func TestHandleDetectStyleStrategy(t *testing.T) {
	s := testServer(t, nil)

	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"tailwind array", map[string]any{"classes": []any{"flex", "items-center", "p-4"}}, "tailwind"},
		{"css module string", map[string]any{"classes": "ProfileCard_root__a1b2c"}, "css-module"},
		{"styled marker", map[string]any{"has_styled_marker": true}, "styled-components"},
		{"inline", map[string]any{"has_inline": true}, "inline"},
		{"fallback", nil, "plain-css"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			result := callTool(t, s, makeRequest("detect_style_strategy", tc.args))
			require.False(t, result.IsError, resultText(t, result))

			var report strategyReport
			require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
			assert.Equal(t, tc.want, string(report.Strategy))
		})
	}
}

func TestHandleDetectStyleStrategy_DedupesLikeExtraction(t *testing.T) {
	s := testServer(t, nil)
	classes := []string{"flex", "custom", "custom", "custom"}

	args := make([]any, len(classes))
	for i, c := range classes {
		args[i] = c
	}
	result := callTool(t, s, makeRequest("detect_style_strategy", map[string]any{"classes": args}))
	require.False(t, result.IsError, resultText(t, result))

	var report strategyReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	require.Len(t, report.Classes, 2)

	el := &dom.StaticElement{Tag: "div", Classes: classes}
	assert.Equal(t, style.Extract(el).Strategy, report.Strategy)
	assert.Equal(t, style.StrategyTailwind, report.Strategy)
}

func TestHandleDetectStyleStrategy_ClassBreakdown(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("detect_style_strategy", map[string]any{
		"classes": []any{"flex Button_root__x9y8z"},
	}))

	var report strategyReport
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &report))
	require.Len(t, report.Classes, 2)
	assert.True(t, report.Classes[0].Tailwind)
	assert.True(t, report.Classes[1].CSSModule)
}

func TestHandleDetectStyleStrategy_BadClasses(t *testing.T) {
	s := testServer(t, nil)
	result := callTool(t, s, makeRequest("detect_style_strategy", map[string]any{"classes": 42}))
	assert.True(t, result.IsError)

	result = callTool(t, s, makeRequest("detect_style_strategy", map[string]any{"classes": []any{"ok", 1}}))
	assert.True(t, result.IsError)
}

// --- generator_stats ---

func TestHandleGeneratorStats(t *testing.T) {
	s := testServer(t, nil)
	callTool(t, s, makeRequest("generate_component", map[string]any{"path": fixturePath("profile.snapshot.json")}))
	callTool(t, s, makeRequest("generate_component", map[string]any{"path": fixturePath("static.snapshot.json")}))

	result := callTool(t, s, makeRequest("generator_stats", nil))
	var stats generator.Stats
	require.NoError(t, json.Unmarshal([]byte(resultText(t, result)), &stats))
	assert.Equal(t, int64(1), stats.Generated)
	assert.Equal(t, int64(1), stats.Failed)
}

// --- call log ---

func TestLoggingMiddleware(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	callLog, err := mcplog.NewLogger(path)
	require.NoError(t, err)

	s := testServer(t, callLog)
	callTool(t, s, makeRequest("generate_component", map[string]any{"path": fixturePath("profile.snapshot.json")}))
	callTool(t, s, makeRequest("inspect_snapshot", nil))
	require.NoError(t, callLog.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	lines := splitLines(data)
	require.Len(t, lines, 2)

	var first, second mcplog.LogEntry
	require.NoError(t, json.Unmarshal(lines[0], &first))
	require.NoError(t, json.Unmarshal(lines[1], &second))

	assert.Equal(t, "generate_component", first.Tool)
	assert.Equal(t, "ProfileCard", first.Component)
	assert.Positive(t, first.Artifacts)
	assert.Positive(t, first.ResponseBytes)
	assert.False(t, first.ToolError)

	assert.Equal(t, "inspect_snapshot", second.Tool)
	assert.True(t, second.ToolError)
}

func splitLines(data []byte) [][]byte {
	var out [][]byte
	start := 0
	for i, b := range data {
		if b == '\n' {
			if i > start {
				out = append(out, data[start:i])
			}
			start = i + 1
		}
	}
	return out
}

func TestRegisteredTools(t *testing.T) {
	names := make([]string, 0, 4)
	for _, tool := range RegisteredTools() {
		names = append(names, tool.Name)
	}
	assert.Equal(t, []string{"generate_component", "inspect_snapshot", "detect_style_strategy", "generator_stats"}, names)

	s := testServer(t, nil)
	assert.NotNil(t, s.mcpServer)
}
