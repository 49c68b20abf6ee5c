package generator

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gnana997/fibersnap/pkg/codegen"
	"github.com/gnana997/fibersnap/pkg/util"
)

// BatchOptions configures Batch.
type BatchOptions struct {
	Config codegen.Config
	// OutDir receives one directory per component. Empty skips writing.
	OutDir string
	Write  WriteOptions
	// Workers is the number of concurrent generations. Zero uses
	// util.GetOptimalPoolSize.
	Workers int
	// OnItem is called once per file as it finishes, never concurrently.
	OnItem func(BatchItem)
}

// BatchItem is the outcome for one snapshot file.
type BatchItem struct {
	Path      string        `json:"path"`
	Component string        `json:"component,omitempty"`
	Files     []string      `json:"files,omitempty"`
	Error     string        `json:"error,omitempty"`
	Duration  time.Duration `json:"duration"`
}

// OK reports whether the item succeeded.
func (i BatchItem) OK() bool { return i.Error == "" }

// BatchReport summarizes a batch run. Items are sorted by path.
type BatchReport struct {
	Items     []BatchItem   `json:"items"`
	Succeeded int           `json:"succeeded"`
	Failed    int           `json:"failed"`
	Duration  time.Duration `json:"duration"`
}

// Batch generates every path with a bounded pool of workers. A failing file
// is recorded in the report and does not stop the others; only context
// cancellation aborts the run.
func (g *Generator) Batch(ctx context.Context, paths []string, opts BatchOptions) (*BatchReport, error) {
	start := time.Now()
	pool := newWorkerPool(opts.Workers, func(ctx context.Context, path string) BatchItem {
		return g.batchItem(ctx, path, opts)
	}, g.logger)
	pool.start(ctx)

	report := &BatchReport{}
	done := make(chan struct{})
	go func() {
		defer close(done)
		for item := range pool.results {
			if opts.OnItem != nil {
				opts.OnItem(item)
			}
			report.Items = append(report.Items, item)
		}
	}()

	var submitErr error
	for _, p := range paths {
		if err := pool.submit(ctx, p); err != nil {
			submitErr = err
			break
		}
	}
	pool.stop()
	<-done

	sort.Slice(report.Items, func(i, j int) bool { return report.Items[i].Path < report.Items[j].Path })
	for _, item := range report.Items {
		if item.OK() {
			report.Succeeded++
		} else {
			report.Failed++
		}
	}
	report.Duration = time.Since(start)

	g.logger.Info("batch finished",
		"files", len(paths),
		"succeeded", report.Succeeded,
		"failed", report.Failed,
		"workers", pool.numWorkers,
		"ms", report.Duration.Milliseconds())

	if submitErr != nil {
		return report, submitErr
	}
	return report, ctx.Err()
}

func (g *Generator) batchItem(ctx context.Context, path string, opts BatchOptions) BatchItem {
	start := time.Now()
	item := BatchItem{Path: path}
	res, err := g.GenerateFile(ctx, path, opts.Config)
	if err == nil {
		item.Component = res.Component
		if opts.OutDir != "" {
			item.Files, err = res.Write(opts.OutDir, opts.Write)
		}
	}
	if err != nil {
		item.Error = err.Error()
		g.logger.Warn("batch item failed", "path", path, "error", err)
	}
	item.Duration = time.Since(start)
	return item
}

// workerPool runs a job function over submitted paths.
type workerPool struct {
	numWorkers int
	jobs       chan string
	results    chan BatchItem
	wg         sync.WaitGroup
	run        func(context.Context, string) BatchItem
	logger     *slog.Logger

	stopped   atomic.Bool
	submitted atomic.Int64
	processed atomic.Int64
}

func newWorkerPool(numWorkers int, run func(context.Context, string) BatchItem, logger *slog.Logger) *workerPool {
	if numWorkers <= 0 {
		numWorkers = util.GetOptimalPoolSize()
	}
	return &workerPool{
		numWorkers: numWorkers,
		jobs:       make(chan string, numWorkers*2),
		results:    make(chan BatchItem, numWorkers),
		run:        run,
		logger:     logger,
	}
}

func (wp *workerPool) start(ctx context.Context) {
	wp.logger.Debug("starting worker pool", "workers", wp.numWorkers)
	for i := 0; i < wp.numWorkers; i++ {
		wp.wg.Add(1)
		go wp.worker(ctx, i)
	}
}

func (wp *workerPool) worker(ctx context.Context, id int) {
	defer wp.wg.Done()
	for {
		select {
		case <-ctx.Done():
			wp.logger.Debug("worker cancelled", "worker_id", id)
			return
		case path, ok := <-wp.jobs:
			if !ok {
				return
			}
			item := wp.run(ctx, path)
			wp.processed.Add(1)
			wp.results <- item
		}
	}
}

func (wp *workerPool) submit(ctx context.Context, path string) error {
	if wp.stopped.Load() {
		return fmt.Errorf("worker pool is stopped")
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case wp.jobs <- path:
		wp.submitted.Add(1)
		return nil
	}
}

// stop closes the queue, waits for in-flight jobs and closes results. It is
// idempotent.
func (wp *workerPool) stop() {
	if !wp.stopped.CompareAndSwap(false, true) {
		return
	}
	close(wp.jobs)
	wp.wg.Wait()
	close(wp.results)
	wp.logger.Debug("worker pool stopped",
		"submitted", wp.submitted.Load(),
		"processed", wp.processed.Load())
}
