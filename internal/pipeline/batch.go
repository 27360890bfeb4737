package pipeline

import (
	"context"
	"log/slog"
	"sync"

	"github.com/nao1215/mailscrub/internal/model"
	"golang.org/x/sync/errgroup"
)

// DefaultBatchConcurrency is the number of documents transformed at once
// when no concurrency is configured.
const DefaultBatchConcurrency = 4

// BatchItem is one document of a batch.
type BatchItem struct {
	// Name identifies the document, usually its file path.
	Name string

	// Markup is the document text.
	Markup string
}

// BatchResult is the outcome of transforming one BatchItem.
type BatchResult struct {
	// Name is copied from the BatchItem.
	Name string

	// Output is the transformed markup. Empty when Err is set.
	Output string

	// Steps lists the passes that ran.
	Steps []string

	// Err is the per-document error, such as ErrEmptyInput.
	Err error
}

// BatchProcessor applies one set of targets and flags to many documents
// concurrently. Documents are independent, so a failing document never
// affects the others.
type BatchProcessor struct {
	targets     model.RedirectTargets
	flags       model.CleanupFlags
	concurrency int
	logger      *slog.Logger
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithConcurrency limits the number of documents processed at once.
// Values below 1 are ignored.
func WithConcurrency(n int) BatchOption {
	return func(bp *BatchProcessor) {
		if n > 0 {
			bp.concurrency = n
		}
	}
}

// WithBatchLogger sets the logger used by the processor and its pipelines.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(bp *BatchProcessor) {
		bp.logger = logger
	}
}

// NewBatchProcessor creates a processor for the given targets and flags.
func NewBatchProcessor(targets model.RedirectTargets, flags model.CleanupFlags, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		targets:     targets,
		flags:       flags,
		concurrency: DefaultBatchConcurrency,
	}
	for _, opt := range opts {
		opt(bp)
	}
	if bp.logger == nil {
		bp.logger = slog.Default()
	}
	return bp
}

// ProcessBatch transforms all items and returns their results in input
// order. Per-document errors are reported in BatchResult.Err. The returned
// error is non-nil only when ctx is cancelled; items that never started
// then carry the context error.
func (bp *BatchProcessor) ProcessBatch(ctx context.Context, items []BatchItem) ([]BatchResult, error) {
	results := make([]BatchResult, len(items))
	err := bp.ProcessBatchWithCallback(ctx, items, func(i int, r BatchResult) {
		results[i] = r
	})
	return results, err
}

// ProcessBatchWithCallback transforms all items and calls fn with each
// result as it completes. fn is never called concurrently.
func (bp *BatchProcessor) ProcessBatchWithCallback(ctx context.Context, items []BatchItem, fn func(index int, result BatchResult)) error {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	var mu sync.Mutex
	report := func(i int, r BatchResult) {
		mu.Lock()
		defer mu.Unlock()
		fn(i, r)
	}

	// The built-in steps are stateless, so one pipeline serves every document.
	p := DefaultPipeline(WithLogger(bp.logger))

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				report(i, BatchResult{Name: item.Name, Err: err})
				return err
			}

			job := model.NewJob(item.Markup, bp.targets, bp.flags)
			err := p.Execute(gctx, job)
			result := BatchResult{Name: item.Name, Steps: job.PerformedSteps, Err: err}
			if err == nil {
				result.Output = job.Markup
			} else {
				bp.logger.Warn("document failed", "name", item.Name, "error", err)
			}
			report(i, result)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}
	return ctx.Err()
}
