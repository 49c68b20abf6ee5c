package main

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gnana997/fibersnap/pkg/capture"
	"github.com/spf13/cobra"
)

func newCaptureCmd(a *app) *cobra.Command {
	var (
		selector    string
		snapshotDir string
		generate    bool
		opts        capture.Options
		f           genFlags
	)
	cmd := &cobra.Command{
		Use:   "capture <url>",
		Short: "Capture a page element into a snapshot file",
		Long: `Open a page in Chrome, select an element and save the React tree behind it
as a snapshot file.

Chrome is launched headless unless --control-url points at a running
instance. With --generate the component package is generated right away
using the generate flags.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			pageURL := args[0]
			if err := capture.ValidateURL(pageURL); err != nil {
				return err
			}
			cfg, err := f.resolve(cmd, a.project)
			if err != nil {
				return err
			}

			c := capture.New(opts, a.logger)
			defer c.Close()

			res, err := c.Capture(cmd.Context(), pageURL, selector)
			if err != nil {
				return err
			}

			if err := os.MkdirAll(snapshotDir, 0o755); err != nil {
				return fmt.Errorf("failed to create %s: %w", snapshotDir, err)
			}
			path := filepath.Join(snapshotDir, capture.FileName(pageURL, selector))
			if err := os.WriteFile(path, res.Data, 0o644); err != nil {
				return fmt.Errorf("failed to write snapshot: %w", err)
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "saved %s\n", path)

			if !generate {
				return nil
			}
			gen, err := a.newGenerator(f.resolveTarget(a.project), 1)
			if err != nil {
				return err
			}
			defer gen.Close()

			gres, err := gen.GenerateSnapshot(cmd.Context(), res.Snapshot, cfg)
			if err != nil {
				return err
			}
			gres.Source = path
			return emitResult(out, gres, f.resolveOutDir(a.project), f.writeOptions(), false)
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&selector, "selector", "s", capture.DefaultSelector, "CSS selector of the element to capture")
	fl.StringVar(&snapshotDir, "snapshot-dir", ".", "directory the snapshot file is written to")
	fl.BoolVar(&generate, "generate", false, "generate the component package after capturing")
	fl.StringVar(&opts.ControlURL, "control-url", "", "DevTools endpoint of a running Chrome (ws:// URL, http address or port)")
	fl.StringVar(&opts.Bin, "chrome", "", "Chrome binary to launch")
	fl.BoolVar(&opts.Headful, "headful", false, "show the browser window")
	fl.BoolVar(&opts.Stealth, "stealth", false, "hide automation fingerprints")
	fl.DurationVar(&opts.Timeout, "timeout", capture.DefaultTimeout, "overall capture timeout")
	fl.DurationVar(&opts.Settle, "settle", 500*time.Millisecond, "extra wait after load for client rendering")
	fl.IntVar(&opts.MaxNodes, "max-nodes", capture.DefaultMaxNodes, "maximum tree nodes captured")
	fl.IntVar(&opts.MaxElements, "max-elements", capture.DefaultMaxElements, "maximum DOM elements captured")
	f.register(cmd, true)
	return cmd
}
