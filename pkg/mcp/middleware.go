package mcp

import (
	"context"
	"time"

	"github.com/gnana997/fibersnap/pkg/mcplog"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// loggingMiddleware records every tool call in the call log. NewServer only
// installs it when the call log is set.
func (s *Server) loggingMiddleware() server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			start := mcplog.Now()
			result, err := next(ctx, req)
			elapsed := time.Since(start).Milliseconds()

			rb := mcplog.ResponseBytes(result)
			entry := mcplog.LogEntry{
				Ts:            start.UTC().Format(time.RFC3339),
				Tool:          req.Params.Name,
				Params:        mcplog.SanitizeParams(req.GetArguments()),
				DurationMs:    elapsed,
				ResponseBytes: rb,
				TokensEst:     rb / 4,
			}
			mcplog.Annotate(&entry, result)
			if err != nil {
				msg := err.Error()
				entry.Error = &msg
			}
			if werr := s.callLog.Write(entry); werr != nil {
				s.logger.Warn("failed to write call log", "tool", entry.Tool, "error", werr)
			}

			return result, err
		}
	}
}
