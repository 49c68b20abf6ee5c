package main

import (
	"github.com/gnana997/fibersnap/pkg/mcp"
	"github.com/gnana997/fibersnap/pkg/mcplog"
	"github.com/spf13/cobra"
)

func newServeCmd(a *app) *cobra.Command {
	var (
		callLogPath string
		target      string
	)
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the MCP server on stdio",
		Long: `Start the MCP server on stdin/stdout. Tool calls use the project config as
defaults. Logs go to stderr; --mcp-log appends one JSON line per tool call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := a.project.generationConfig()
			if err != nil {
				return err
			}
			if callLogPath == "" && a.project != nil {
				callLogPath = a.project.MCPLog
			}
			if target == "" && a.project != nil {
				target = a.project.Target
			}

			callLog, err := mcplog.NewLogger(callLogPath)
			if err != nil {
				return err
			}
			if callLog != nil {
				defer callLog.Close()
			}

			gen, err := a.newGenerator(target, 0)
			if err != nil {
				return err
			}
			defer gen.Close()

			return mcp.NewServer(gen, cfg, callLog, a.logger).ServeStdio()
		},
	}
	cmd.Flags().StringVar(&callLogPath, "mcp-log", "", "append tool calls to this JSONL file")
	cmd.Flags().StringVar(&target, "target", "", "component or element")
	return cmd
}
