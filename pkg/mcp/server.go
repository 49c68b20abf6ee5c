// Package mcp exposes the generator as MCP tools so an agent can turn
// captured snapshots into component packages without touching the CLI.
package mcp

import (
	"log/slog"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/generator"
	"github.com/gnana997/fibersnap/pkg/mcplog"
	"github.com/mark3labs/mcp-go/server"
)

const serverVersion = "0.1.0-dev"

// Server implements the fibersnap MCP server.
type Server struct {
	mcpServer *server.MCPServer
	gen       *generator.Generator
	config    codegen.Config
	callLog   *mcplog.Logger // nil disables call logging
	logger    *slog.Logger
}

// NewServer creates a server backed by gen. cfg supplies the defaults for
// options a tool call leaves out.
func NewServer(gen *generator.Generator, cfg codegen.Config, callLog *mcplog.Logger, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{gen: gen, config: cfg, callLog: callLog, logger: logger}

	opts := []server.ServerOption{
		server.WithToolCapabilities(false),
		server.WithRecovery(),
	}
	if callLog != nil {
		opts = append(opts, server.WithToolHandlerMiddleware(s.loggingMiddleware()))
	}
	s.mcpServer = server.NewMCPServer("fibersnap", serverVersion, opts...)

	s.mcpServer.AddTools(
		server.ServerTool{Tool: generateComponentTool(), Handler: s.handleGenerateComponent},
		server.ServerTool{Tool: inspectSnapshotTool(), Handler: s.handleInspectSnapshot},
		server.ServerTool{Tool: detectStyleStrategyTool(), Handler: s.handleDetectStyleStrategy},
		server.ServerTool{Tool: generatorStatsTool(), Handler: s.handleGeneratorStats},
	)

	return s
}

// ServeStdio serves MCP on stdin/stdout until the client disconnects.
func (s *Server) ServeStdio() error {
	s.logger.Info("serving MCP on stdio", "tools", len(RegisteredTools()))
	return server.ServeStdio(s.mcpServer)
}
