// Package mcplog writes one JSONL line per MCP tool call so generation
// requests can be replayed and measured offline.
package mcplog

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/buger/jsonparser"
	"github.com/mark3labs/mcp-go/mcp"
)

// LogEntry is the schema for one JSONL line.
type LogEntry struct {
	Ts            string         `json:"ts"`
	Tool          string         `json:"tool"`
	Params        map[string]any `json:"params"`
	DurationMs    int64          `json:"duration_ms"`
	ResponseBytes int            `json:"response_bytes"`
	TokensEst     int            `json:"tokens_est"`
	Component     string         `json:"component,omitempty"`
	Strategy      string         `json:"strategy,omitempty"`
	Artifacts     int            `json:"artifacts,omitempty"`
	ToolError     bool           `json:"tool_error,omitempty"`
	Error         *string        `json:"error"`
}

// Logger appends entries to a file. It is safe for concurrent use.
type Logger struct {
	mu   sync.Mutex
	path string
	f    *os.File
	enc  *json.Encoder
}

// NewLogger opens path for appending, creating parent directories. An empty
// path returns nil, nil; callers treat a nil Logger as disabled.
func NewLogger(path string) (*Logger, error) {
	if path == "" {
		return nil, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("mcplog: create log directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("mcplog: open log file: %w", err)
	}
	return &Logger{path: path, f: f, enc: json.NewEncoder(f)}, nil
}

// Path returns the log file path.
func (l *Logger) Path() string { return l.path }

// Write appends one entry.
func (l *Logger) Write(entry LogEntry) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.enc.Encode(entry)
}

// Close closes the log file.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.f.Close()
}

const (
	shortStringMax = 64
	shortListMax   = 16
)

// SanitizeParams returns a copy of args safe for logging. Inline snapshot
// documents and other long strings become a "{key}_len" entry, long arrays a
// "{key}_count" entry.
func SanitizeParams(args map[string]any) map[string]any {
	out := make(map[string]any, len(args))
	for k, v := range args {
		switch tv := v.(type) {
		case string:
			if len(tv) > shortStringMax {
				out[k+"_len"] = len(tv)
				continue
			}
		case []any:
			if len(tv) > shortListMax {
				out[k+"_count"] = len(tv)
				continue
			}
		}
		out[k] = v
	}
	return out
}

// ResponseBytes returns the serialized length of a result's content, or 0
// for a nil result.
func ResponseBytes(result *mcp.CallToolResult) int {
	if result == nil {
		return 0
	}
	b, err := json.Marshal(result.Content)
	if err != nil {
		return 0
	}
	return len(b)
}

// Annotate copies the generation summary of a successful result into entry.
// Results that are not JSON objects leave entry unchanged.
func Annotate(entry *LogEntry, result *mcp.CallToolResult) {
	if result == nil {
		return
	}
	entry.ToolError = result.IsError
	if result.IsError || len(result.Content) == 0 {
		return
	}
	text, ok := result.Content[0].(mcp.TextContent)
	if !ok {
		return
	}
	data := []byte(text.Text)
	if c, err := jsonparser.GetString(data, "component"); err == nil {
		entry.Component = c
	}
	if s, err := jsonparser.GetString(data, "strategy"); err == nil {
		entry.Strategy = s
	}
	n := 0
	_, err := jsonparser.ArrayEach(data, func([]byte, jsonparser.ValueType, int, error) { n++ }, "artifacts")
	if err == nil {
		entry.Artifacts = n
	}
}

// Now is a replaceable clock for tests.
var Now = time.Now
