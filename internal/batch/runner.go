// Package batch runs many extraction requests concurrently against a shared
// parse cache.
package batch

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/mvp-joe/extract-method/internal/analyzer"
	"github.com/mvp-joe/extract-method/internal/extractor"
	"github.com/mvp-joe/extract-method/internal/linemap"
	"github.com/mvp-joe/extract-method/internal/parsers"
)

// Item is the outcome of one request: an analysis, optionally an
// extraction, or an error message.
type Item struct {
	ID         string            `json:"id"`
	File       string            `json:"file"`
	Lines      string            `json:"lines"`
	Name       string            `json:"name,omitempty"`
	Analysis   *analyzer.Report  `json:"analysis,omitempty"`
	Extraction *extractor.Result `json:"extraction,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// Failed reports whether the request produced an error.
func (i *Item) Failed() bool { return i.Error != "" }

// Summary collects the items of a run in request order.
type Summary struct {
	Items       []Item        `json:"items"`
	Succeeded   int           `json:"succeeded"`
	Failed      int           `json:"failed"`
	CacheHits   int64         `json:"cacheHits"`
	CacheMisses int64         `json:"cacheMisses"`
	Duration    time.Duration `json:"durationNs"`
}

// Options configures a Runner. Zero values fall back to defaults.
type Options struct {
	Concurrency    int
	CacheSize      int
	MaxParameters  int
	Printer        extractor.Printer
	Placement      extractor.Placement
	TransformBreak *bool
	Progress       ProgressReporter
	Logger         *slog.Logger
}

// Runner executes batches. Each Run owns its parse cache.
type Runner struct {
	opts Options
}

func NewRunner(opts Options) *Runner {
	if opts.Concurrency <= 0 {
		opts.Concurrency = 4
	}
	if opts.CacheSize <= 0 {
		opts.CacheSize = 128
	}
	if opts.Progress == nil {
		opts.Progress = &NoOpProgressReporter{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	return &Runner{opts: opts}
}

// Run processes reqs. Per-request failures are recorded on their items; the
// returned error is only set when ctx is canceled.
func (r *Runner) Run(ctx context.Context, reqs []Request) (*Summary, error) {
	start := time.Now()

	cache, err := parsers.NewCache(r.opts.CacheSize)
	if err != nil {
		return nil, err
	}
	defer cache.Close()

	az := analyzer.New(analyzer.WithMaxParameters(r.opts.MaxParameters), analyzer.WithLoader(cache))
	gen := extractor.NewGenerator(r.opts.Printer)

	reqs = append([]Request(nil), reqs...)
	items := make([]Item, len(reqs))
	for i, req := range reqs {
		if req.ID == "" {
			req.ID = uuid.New().String()
		}
		items[i] = Item{ID: req.ID, File: req.File, Lines: req.Lines, Name: req.Name}
		reqs[i] = req
	}

	r.opts.Progress.OnBatchStart(len(reqs))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(1, min(r.opts.Concurrency, len(reqs))))

	for i, req := range reqs {
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			r.process(gctx, az, gen, req, &items[i])
			r.opts.Logger.Debug("batch request done",
				"id", req.ID, "file", req.File, "lines", req.Lines, "error", items[i].Error)

			mu.Lock()
			r.opts.Progress.OnRequestDone(&items[i])
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	stats := cache.Stats()
	summary := &Summary{
		Items:       items,
		CacheHits:   stats.Hits,
		CacheMisses: stats.Misses,
		Duration:    time.Since(start),
	}
	for i := range items {
		if items[i].Failed() {
			summary.Failed++
		} else {
			summary.Succeeded++
		}
	}

	r.opts.Progress.OnBatchComplete(summary)
	r.opts.Logger.Info("batch complete",
		"requests", len(items), "failed", summary.Failed,
		"cache_hits", stats.Hits, "cache_misses", stats.Misses)
	return summary, nil
}

func (r *Runner) process(ctx context.Context, az *analyzer.Analyzer, gen *extractor.Generator, req Request, item *Item) {
	rng, err := linemap.ParseRange(req.Lines)
	if err != nil {
		item.Error = err.Error()
		return
	}

	report, err := az.AnalyzeFile(ctx, req.File, rng)
	if err != nil {
		item.Error = err.Error()
		return
	}
	item.Analysis = report

	if req.Name == "" {
		return
	}

	opts := extractor.Options{TransformBreak: r.opts.TransformBreak, Placement: r.opts.Placement}
	if req.TransformBreak != nil {
		opts.TransformBreak = req.TransformBreak
	}
	if req.Placement != "" {
		placement, err := extractor.ParsePlacement(req.Placement)
		if err != nil {
			item.Error = err.Error()
			return
		}
		opts.Placement = placement
	}

	res, err := gen.Generate(report, req.Name, opts)
	if err != nil {
		item.Error = err.Error()
		return
	}
	item.Extraction = res
}
