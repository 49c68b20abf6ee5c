package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/gnana997/fibersnap/pkg/capture"
	"github.com/gnana997/fibersnap/pkg/generator"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/gnana997/fibersnap/pkg/util"
	"github.com/spf13/cobra"
)

// Version information (set by ldflags during build).
var (
	Version = "0.1.0-dev"
	Commit  = "unknown"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", userMessage(err))
		os.Exit(1)
	}
}

// userMessage turns the sentinel errors users hit most into advice.
func userMessage(err error) string {
	switch {
	case errors.Is(err, capture.ErrNoRuntime):
		return "no React runtime found on the page; make sure the selector matches an element rendered by React"
	case errors.Is(err, snapshot.ErrNoTreeNode):
		return err.Error() + " (recapture with a selector inside the React root)"
	case errors.Is(err, snapshot.ErrNoSelection):
		return err.Error() + " (the capture selector matched nothing)"
	}
	return err.Error()
}

// app carries what every subcommand shares: the project config and the
// logger, both resolved before the subcommand runs.
type app struct {
	configPath string
	logLevel   string
	logFormat  string

	project *ProjectConfig
	logger  *slog.Logger
}

func newRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "fibersnap",
		Short: "Turn rendered React components into source packages",
		Long: `fibersnap captures the React tree behind an element on a live page and
generates a component package from it: the component (JSX or TSX), its
styles, prop types, an index, a README and optional tests and stories.

Commands:
  capture    Capture a page element into a snapshot file
  generate   Generate a component package from a snapshot
  inspect    Show what a snapshot would generate
  batch      Generate every snapshot under a directory
  watch      Regenerate snapshots as they change
  serve      Start the MCP server on stdio
  setup      Register the MCP server with installed AI agents`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.configPath, "config", defaultConfigPath, "project config file")
	pf.StringVar(&a.logLevel, "log-level", "", "log level: debug, info, warn, error")
	pf.StringVar(&a.logFormat, "log-format", "", "log format: text or json")

	root.AddCommand(
		newCaptureCmd(a),
		newGenerateCmd(a),
		newInspectCmd(a),
		newBatchCmd(a),
		newWatchCmd(a),
		newServeCmd(a),
		newSetupCmd(),
		newVersionCmd(),
	)
	return root
}

func (a *app) init(cmd *cobra.Command) error {
	project, err := loadProjectConfig(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if project == nil && cmd.Flag("config").Changed {
		return fmt.Errorf("config file %s not found", a.configPath)
	}
	a.project = project

	lc := util.DefaultLoggerConfig()
	if project != nil {
		if project.LogLevel != "" {
			lc.Level = util.LogLevel(project.LogLevel)
		}
		if project.LogFormat != "" {
			lc.Format = util.LogFormat(project.LogFormat)
		}
	}
	if a.logLevel != "" {
		lc.Level = util.LogLevel(a.logLevel)
	}
	if a.logFormat != "" {
		lc.Format = util.LogFormat(a.logFormat)
	}
	lc.Output = cmd.ErrOrStderr()
	a.logger = util.NewLogger(lc)
	return nil
}

func (a *app) newGenerator(target string, workers int) (*generator.Generator, error) {
	if workers == 0 && a.project != nil {
		workers = a.project.Workers
	}
	return generator.New(generator.Options{
		Target:   generator.Target(target),
		PoolSize: workers,
	}, a.logger)
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "fibersnap %s\n", Version)
			fmt.Fprintf(out, "  commit: %s\n", Commit)
			fmt.Fprintf(out, "  go: %s\n", runtime.Version())
			fmt.Fprintf(out, "  os/arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	}
}
