package generator

import (
	"context"
	"os"
	"time"

	"github.com/gnana997/fibersnap/pkg/snapshot"
)

// WatchOptions configures Watch.
type WatchOptions struct {
	Batch    BatchOptions
	Filter   snapshot.DiscoverOptions
	Debounce time.Duration
	// Initial generates every matching file once before watching.
	Initial bool
}

// Watch regenerates snapshots under target, a file or a directory, whenever
// they change. Each run is reported through opts.Batch.OnItem, which may be
// called concurrently for different files. Watch blocks until ctx is done.
func (g *Generator) Watch(ctx context.Context, target string, opts WatchOptions) error {
	if opts.Initial {
		paths, err := g.watchTargets(target, opts.Filter)
		if err != nil {
			return err
		}
		if _, err := g.Batch(ctx, paths, opts.Batch); err != nil {
			return err
		}
	}

	w, err := snapshot.NewWatcher(snapshot.WatchOptions{
		Debounce: opts.Debounce,
		Filter:   opts.Filter,
		OnChange: func(path string) {
			g.store.Invalidate(path)
			item := g.batchItem(ctx, path, opts.Batch)
			if opts.Batch.OnItem != nil {
				opts.Batch.OnItem(item)
			}
		},
		OnRemove: func(path string) {
			g.store.Invalidate(path)
			g.logger.Info("snapshot removed", "path", path)
		},
	}, g.logger)
	if err != nil {
		return err
	}
	if err := w.Start(target); err != nil {
		w.Stop()
		return err
	}
	defer w.Stop()

	<-ctx.Done()
	return nil
}

func (g *Generator) watchTargets(target string, filter snapshot.DiscoverOptions) ([]string, error) {
	info, err := os.Stat(target)
	if err != nil {
		return nil, err
	}
	if !info.IsDir() {
		return []string{target}, nil
	}
	return snapshot.Discover(target, filter)
}
