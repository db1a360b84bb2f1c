package pipeline

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// CrawlFunc crawls one named site end-to-end and returns its summary.
// The batch processor calls it once per site, possibly concurrently.
type CrawlFunc func(ctx context.Context, site string) (*model.CrawlSummary, error)

// SiteResult pairs a site name with its crawl outcome. Exactly one of
// Summary and Err is meaningful: Err is set when the crawl could not run
// at all (bad configuration, store failure), while per-page problems live
// inside the summary.
type SiteResult struct {
	// Site is the configured site name.
	Site string

	// Summary is the crawl outcome, nil when Err is set.
	Summary *model.CrawlSummary

	// Err is the reason the site's crawl could not run.
	Err error
}

// BatchProcessor crawls multiple sites concurrently.
//
// Design decision: We keep the BatchProcessor separate from the crawl
// engine because:
//  1. The engine stays focused on single-site traversal
//  2. It allows different batch strategies (rate limiting, retries)
//  3. It provides cleaner separation of concerns
type BatchProcessor struct {
	// crawl runs one site. A factory-provided function rather than a
	// shared engine instance, so each site gets fresh crawl state.
	crawl CrawlFunc

	// concurrency is the maximum number of sites crawled at once.
	concurrency int

	// logger is used for batch-level logging.
	logger *slog.Logger

	// results stores per-site outcomes in input order.
	// Access is synchronized via mutex.
	results []SiteResult
	mu      sync.Mutex
}

// BatchOption configures a BatchProcessor.
type BatchOption func(*BatchProcessor)

// WithBatchLogger sets a custom logger for batch processing.
func WithBatchLogger(logger *slog.Logger) BatchOption {
	return func(b *BatchProcessor) {
		if logger != nil {
			b.logger = logger
		}
	}
}

// WithConcurrency sets the maximum number of sites crawled concurrently.
// Default is 3 if not specified.
func WithConcurrency(n int) BatchOption {
	return func(b *BatchProcessor) {
		if n > 0 {
			b.concurrency = n
		}
	}
}

// NewBatchProcessor creates a BatchProcessor around the given crawl
// function.
func NewBatchProcessor(crawl CrawlFunc, opts ...BatchOption) *BatchProcessor {
	bp := &BatchProcessor{
		crawl:       crawl,
		concurrency: 3,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, opt := range opts {
		opt(bp)
	}

	return bp
}

// Process crawls every named site, at most the configured number
// concurrently, and returns one result per site in input order.
//
// A site whose crawl fails outright gets its error recorded in the
// result; other sites continue. The error return is non-nil only when
// the batch itself was cancelled via ctx.
func (bp *BatchProcessor) Process(ctx context.Context, sites []string) ([]SiteResult, error) {
	bp.logger.Info("starting batch crawl",
		"total_sites", len(sites),
		"concurrency", bp.concurrency,
	)
	startTime := time.Now()

	// Pre-allocate to keep results in input order.
	bp.results = make([]SiteResult, len(sites))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(bp.concurrency)

	for i, site := range sites {
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}

			bp.logger.Info("crawling site",
				"site", site,
				"index", i+1,
				"total", len(sites),
			)

			summary, err := bp.crawl(ctx, site)

			bp.mu.Lock()
			bp.results[i] = SiteResult{Site: site, Summary: summary, Err: err}
			bp.mu.Unlock()

			if err != nil {
				// Recorded in the result; other sites keep going.
				bp.logger.Warn("site crawl failed", "site", site, "error", err)
				return nil
			}

			bp.logger.Info("site crawl completed",
				"site", site,
				"archived", summary.Archived(),
				"skipped", summary.Skipped(),
				"failed", summary.Failed(),
			)
			return nil
		})
	}

	err := g.Wait()

	bp.logger.Info("batch crawl complete",
		"total_sites", len(sites),
		"elapsed", time.Since(startTime),
	)
	return bp.results, err
}
