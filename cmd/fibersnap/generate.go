package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/generator"
	"github.com/gnana997/fibersnap/pkg/snapshot"
	"github.com/spf13/cobra"
)

func newGenerateCmd(a *app) *cobra.Command {
	var (
		f      genFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "generate <snapshot.json>",
		Short: "Generate a component package from a snapshot",
		Long: `Generate a component package from a snapshot file.

Without an output directory (--out or output_dir in the project config) the
files are printed to stdout, separated by filename banners.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, a.project)
			if err != nil {
				return err
			}
			gen, err := a.newGenerator(f.resolveTarget(a.project), 0)
			if err != nil {
				return err
			}
			defer gen.Close()

			res, err := gen.GenerateFile(cmd.Context(), args[0], cfg)
			if err != nil {
				return err
			}
			return emitResult(cmd.OutOrStdout(), res, f.resolveOutDir(a.project), f.writeOptions(), asJSON)
		},
	}
	f.register(cmd, true)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func (f *genFlags) writeOptions() generator.WriteOptions {
	return generator.WriteOptions{Overwrite: f.overwrite, Flat: f.flat}
}

// emitResult writes res under outDir when set and reports it on w.
func emitResult(w io.Writer, res *generator.Result, outDir string, opts generator.WriteOptions, asJSON bool) error {
	var written []string
	if outDir != "" {
		paths, err := res.Write(outDir, opts)
		if err != nil {
			if errors.Is(err, generator.ErrExists) {
				return fmt.Errorf("%w (use --overwrite to replace)", err)
			}
			return err
		}
		written = paths
	}

	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(res)
	}
	if outDir == "" {
		_, err := io.WriteString(w, codegen.JoinArtifacts(res.Artifacts))
		return err
	}

	fmt.Fprintf(w, "%s (%s, %s)\n", res.Component, res.Kind, res.Strategy)
	for _, p := range written {
		fmt.Fprintf(w, "  wrote %s\n", p)
	}
	if len(res.Usages) > 0 {
		seen := make(map[string]bool)
		var names []string
		for _, u := range res.Usages {
			if !seen[u.Name] {
				seen[u.Name] = true
				names = append(names, u.Name)
			}
		}
		fmt.Fprintf(w, "  uses: %s\n", strings.Join(names, ", "))
	}
	return nil
}

func newInspectCmd(a *app) *cobra.Command {
	var (
		target string
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "inspect <snapshot.json>",
		Short: "Show what a snapshot would generate",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if target == "" && a.project != nil {
				target = a.project.Target
			}
			gen, err := a.newGenerator(target, 1)
			if err != nil {
				return err
			}
			defer gen.Close()

			in, err := gen.InspectFile(args[0])
			if err != nil {
				return err
			}
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(in)
			}
			printInspection(cmd.OutOrStdout(), in)
			return nil
		},
	}
	cmd.Flags().StringVar(&target, "target", "", "component or element")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newBatchCmd(a *app) *cobra.Command {
	var (
		f       genFlags
		include []string
		exclude []string
		workers int
		asJSON  bool
	)
	cmd := &cobra.Command{
		Use:   "batch <dir>",
		Short: "Generate every snapshot under a directory",
		Long: `Generate every snapshot file under a directory with a pool of workers.

A failing snapshot is reported and does not stop the others. Without an
output directory the packages are generated and verified but not written.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, a.project)
			if err != nil {
				return err
			}
			paths, err := snapshot.Discover(args[0], snapshot.DiscoverOptions{Include: include, Exclude: exclude})
			if err != nil {
				return err
			}
			if len(paths) == 0 {
				return fmt.Errorf("no snapshots found under %s", args[0])
			}

			gen, err := a.newGenerator(f.resolveTarget(a.project), workers)
			if err != nil {
				return err
			}
			defer gen.Close()

			out := cmd.OutOrStdout()
			opts := generator.BatchOptions{
				Config:  cfg,
				OutDir:  f.resolveOutDir(a.project),
				Write:   f.writeOptions(),
				Workers: workers,
			}
			if !asJSON {
				opts.OnItem = func(item generator.BatchItem) { printBatchItem(out, item) }
			}
			report, err := gen.Batch(cmd.Context(), paths, opts)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(report); err != nil {
					return err
				}
			} else {
				fmt.Fprintf(out, "\n%d succeeded, %d failed in %s\n", report.Succeeded, report.Failed, report.Duration.Round(time.Millisecond))
			}
			if report.Failed > 0 {
				return fmt.Errorf("%d of %d snapshots failed", report.Failed, len(report.Items))
			}
			return nil
		},
	}
	f.register(cmd, false)
	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns to include (default **/*.snapshot.json, **/*.fiber.json)")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().IntVar(&workers, "workers", 0, "concurrent generations (default: CPU count)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the report as JSON")
	return cmd
}

func printBatchItem(w io.Writer, item generator.BatchItem) {
	if !item.OK() {
		fmt.Fprintf(w, "FAIL %s: %s\n", item.Path, item.Error)
		return
	}
	fmt.Fprintf(w, "ok   %s -> %s", item.Path, item.Component)
	if len(item.Files) > 0 {
		fmt.Fprintf(w, " (%d files)", len(item.Files))
	}
	fmt.Fprintln(w)
}

func newWatchCmd(a *app) *cobra.Command {
	var (
		f        genFlags
		include  []string
		exclude  []string
		debounce = snapshot.DefaultDebounce
		skipInit bool
	)
	cmd := &cobra.Command{
		Use:   "watch <dir|file>",
		Short: "Regenerate snapshots as they change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := f.resolve(cmd, a.project)
			if err != nil {
				return err
			}
			outDir := f.resolveOutDir(a.project)
			if outDir == "" {
				return errors.New("watch needs an output directory (--out or output_dir in the project config)")
			}
			if _, err := os.Stat(args[0]); err != nil {
				return err
			}

			gen, err := a.newGenerator(f.resolveTarget(a.project), 0)
			if err != nil {
				return err
			}
			defer gen.Close()

			out := cmd.OutOrStdout()
			var mu sync.Mutex
			opts := generator.WatchOptions{
				Batch: generator.BatchOptions{
					Config: cfg,
					OutDir: outDir,
					// Regeneration replaces the previous output.
					Write: generator.WriteOptions{Overwrite: true, Flat: f.flat},
					OnItem: func(item generator.BatchItem) {
						mu.Lock()
						defer mu.Unlock()
						printBatchItem(out, item)
					},
				},
				Filter:   snapshot.DiscoverOptions{Include: include, Exclude: exclude},
				Debounce: debounce,
				Initial:  !skipInit,
			}
			a.logger.Info("watching snapshots", "target", args[0], "out", outDir)
			return gen.Watch(cmd.Context(), args[0], opts)
		},
	}
	f.register(cmd, false)
	cmd.Flags().StringSliceVar(&include, "include", nil, "glob patterns to include")
	cmd.Flags().StringSliceVar(&exclude, "exclude", nil, "glob patterns to exclude")
	cmd.Flags().DurationVar(&debounce, "debounce", debounce, "quiet period before a changed file is regenerated")
	cmd.Flags().BoolVar(&skipInit, "no-initial", false, "skip generating existing snapshots at startup")
	return cmd
}
