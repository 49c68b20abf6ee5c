package main

import (
	"context"
	"encoding/json"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/client"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// binaryPath is set by TestMain after building the binary.
var binaryPath string

func TestMain(m *testing.M) {
	if os.Getenv("INTEGRATION") == "" {
		os.Exit(m.Run())
	}

	tmp, err := os.MkdirTemp("", "fibersnap-integration-*")
	if err != nil {
		panic(err)
	}
	binaryPath = filepath.Join(tmp, "fibersnap")
	cmd := exec.Command("go", "build", "-o", binaryPath, ".")
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		os.RemoveAll(tmp)
		panic("failed to build binary: " + err.Error())
	}

	code := m.Run()
	os.RemoveAll(tmp)
	os.Exit(code)
}

func skipIfNotIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION") == "" {
		t.Skip("set INTEGRATION=1 to run integration tests")
	}
}

// startServer launches `fibersnap serve` and returns an initialized client.
func startServer(t *testing.T) *client.Client {
	t.Helper()

	c, err := client.NewStdioMCPClient(binaryPath, nil, "serve", "--log-level", "error")
	require.NoError(t, err, "failed to start MCP server")
	t.Cleanup(func() { c.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	initReq := mcp.InitializeRequest{}
	initReq.Params.ProtocolVersion = mcp.LATEST_PROTOCOL_VERSION
	initReq.Params.ClientInfo = mcp.Implementation{Name: "fibersnap-integration-test", Version: "1.0.0"}

	result, err := c.Initialize(ctx, initReq)
	require.NoError(t, err, "failed to initialize MCP session")
	assert.Equal(t, "fibersnap", result.ServerInfo.Name)
	return c
}

func callToolHelper(t *testing.T, c *client.Client, name string, args map[string]any) *mcp.CallToolResult {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	req := mcp.CallToolRequest{}
	req.Params.Name = name
	if args != nil {
		req.Params.Arguments = args
	}
	result, err := c.CallTool(ctx, req)
	require.NoError(t, err, "CallTool(%s) failed", name)
	return result
}

func extractText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, result.Content)
	text, ok := result.Content[0].(mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return text.Text
}

func TestIntegration_ListTools(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	tools, err := c.ListTools(ctx, mcp.ListToolsRequest{})
	require.NoError(t, err)

	var names []string
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	for _, want := range []string{"generate_component", "inspect_snapshot", "detect_style_strategy", "generator_stats"} {
		assert.Contains(t, names, want)
	}
}

func TestIntegration_GenerateComponent(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	path, err := filepath.Abs(fixture("profile.snapshot.json"))
	require.NoError(t, err)

	result := callToolHelper(t, c, "generate_component", map[string]any{"path": path, "include_stories": true})
	require.False(t, result.IsError, extractText(t, result))

	var res struct {
		Component string `json:"component"`
		Artifacts []struct {
			Name string `json:"name"`
		} `json:"artifacts"`
	}
	require.NoError(t, json.Unmarshal([]byte(extractText(t, result)), &res))
	assert.Equal(t, "ProfileCard", res.Component)

	var names []string
	for _, a := range res.Artifacts {
		names = append(names, a.Name)
	}
	assert.Contains(t, names, "ProfileCard.stories.tsx")
}

func TestIntegration_InspectMissing(t *testing.T) {
	skipIfNotIntegration(t)
	c := startServer(t)

	result := callToolHelper(t, c, "inspect_snapshot", map[string]any{"path": "/nonexistent.snapshot.json"})
	assert.True(t, result.IsError)
}
