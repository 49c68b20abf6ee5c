package mcplog

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var got []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal([]byte(line), &e), "torn line %q", line)
		got = append(got, e)
	}
	require.NoError(t, scanner.Err())
	return got
}

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name     string
		input    map[string]any
		wantKeys []string
		wantSkip []string
	}{
		{
			name:     "nil map",
			input:    nil,
			wantKeys: nil,
		},
		{
			name:     "short string passes through",
			input:    map[string]any{"path": "profile.snapshot.json"},
			wantKeys: []string{"path"},
		},
		{
			name:     "inline snapshot replaced with length",
			input:    map[string]any{"snapshot": strings.Repeat("x", 500)},
			wantKeys: []string{"snapshot_len"},
			wantSkip: []string{"snapshot"},
		},
		{
			name:     "bools and nil pass through",
			input:    map[string]any{"typescript": true, "component_name": nil},
			wantKeys: []string{"typescript", "component_name"},
		},
		{
			name: "long class list replaced with count",
			input: map[string]any{
				"classes": make([]any, 40),
				"short":   []any{"flex", "p-4"},
			},
			wantKeys: []string{"classes_count", "short"},
			wantSkip: []string{"classes"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			out := SanitizeParams(tc.input)
			for _, k := range tc.wantKeys {
				assert.Contains(t, out, k)
			}
			for _, k := range tc.wantSkip {
				assert.NotContains(t, out, k)
			}
		})
	}
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))
	assert.Positive(t, ResponseBytes(mcp.NewToolResultText(`{"component":"Card"}`)))
}

func TestAnnotate(t *testing.T) {
	var e LogEntry
	Annotate(&e, mcp.NewToolResultText(`{"component":"ProfileCard","strategy":"css-module","artifacts":[{"name":"a"},{"name":"b"}]}`))
	assert.Equal(t, "ProfileCard", e.Component)
	assert.Equal(t, "css-module", e.Strategy)
	assert.Equal(t, 2, e.Artifacts)
	assert.False(t, e.ToolError)

	var failed LogEntry
	Annotate(&failed, mcp.NewToolResultError("no tree node"))
	assert.True(t, failed.ToolError)
	assert.Empty(t, failed.Component)

	var plain LogEntry
	Annotate(&plain, mcp.NewToolResultText("not json"))
	assert.Empty(t, plain.Component)
	assert.Zero(t, plain.Artifacts)

	Annotate(&plain, nil)
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "calls.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	assert.Equal(t, path, logger.Path())

	now := time.Now().UTC().Format(time.RFC3339)
	entries := []LogEntry{
		{Ts: now, Tool: "inspect_snapshot", Params: map[string]any{"path": "a.snapshot.json"}, DurationMs: 5, ResponseBytes: 100, TokensEst: 25},
		{Ts: now, Tool: "generate_component", Params: map[string]any{"snapshot_len": 4096}, DurationMs: 42, Component: "Card", Artifacts: 3},
		{Ts: now, Tool: "detect_style_strategy", Params: map[string]any{"has_inline": true}, DurationMs: 1},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, len(entries))
	for i, e := range entries {
		assert.Equal(t, e.Tool, got[i].Tool)
		assert.Equal(t, e.DurationMs, got[i].DurationMs)
		assert.Equal(t, e.Component, got[i].Component)
	}
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines = 50
	const writesEach = 10

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Ts: time.Now().UTC().Format(time.RFC3339), Tool: "generate_component"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), goroutines*writesEach)
}

func TestNewLogger_CreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewLogger_EmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)
}
