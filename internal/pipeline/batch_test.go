package pipeline

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

func TestBatchProcessorProcess(t *testing.T) {
	t.Parallel()

	t.Run("crawls every site and preserves input order", func(t *testing.T) {
		t.Parallel()

		crawl := func(_ context.Context, site string) (*model.CrawlSummary, error) {
			return &model.CrawlSummary{Site: site}, nil
		}

		bp := NewBatchProcessor(crawl, WithConcurrency(2))
		sites := []string{"a.example.com", "b.example.com", "c.example.com"}

		results, err := bp.Process(context.Background(), sites)
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}
		if len(results) != len(sites) {
			t.Fatalf("Process() returned %d results, want %d", len(results), len(sites))
		}
		for i, result := range results {
			if result.Site != sites[i] {
				t.Errorf("results[%d].Site = %q, want %q", i, result.Site, sites[i])
			}
			if result.Summary == nil || result.Summary.Site != sites[i] {
				t.Errorf("results[%d].Summary = %+v, want summary for %q", i, result.Summary, sites[i])
			}
		}
	})

	t.Run("one failing site does not stop the others", func(t *testing.T) {
		t.Parallel()

		crawlErr := errors.New("unknown site")
		crawl := func(_ context.Context, site string) (*model.CrawlSummary, error) {
			if site == "bad.example.com" {
				return nil, crawlErr
			}
			return &model.CrawlSummary{Site: site}, nil
		}

		bp := NewBatchProcessor(crawl)
		results, err := bp.Process(context.Background(), []string{
			"a.example.com", "bad.example.com", "c.example.com",
		})
		if err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		if !errors.Is(results[1].Err, crawlErr) {
			t.Errorf("results[1].Err = %v, want %v", results[1].Err, crawlErr)
		}
		if results[0].Err != nil || results[2].Err != nil {
			t.Errorf("healthy sites carried errors: %v, %v", results[0].Err, results[2].Err)
		}
	})

	t.Run("respects the concurrency limit", func(t *testing.T) {
		t.Parallel()

		var active, peak int32
		var mu sync.Mutex

		crawl := func(_ context.Context, site string) (*model.CrawlSummary, error) {
			n := atomic.AddInt32(&active, 1)
			mu.Lock()
			if n > peak {
				peak = n
			}
			mu.Unlock()

			time.Sleep(10 * time.Millisecond)
			atomic.AddInt32(&active, -1)
			return &model.CrawlSummary{Site: site}, nil
		}

		bp := NewBatchProcessor(crawl, WithConcurrency(2))
		sites := []string{"a", "b", "c", "d", "e"}
		if _, err := bp.Process(context.Background(), sites); err != nil {
			t.Fatalf("Process() error = %v", err)
		}

		mu.Lock()
		defer mu.Unlock()
		if peak > 2 {
			t.Errorf("peak concurrency = %d, want at most 2", peak)
		}
	})

	t.Run("cancellation stops the batch", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		crawl := func(ctx context.Context, site string) (*model.CrawlSummary, error) {
			return &model.CrawlSummary{Site: site}, nil
		}

		bp := NewBatchProcessor(crawl, WithConcurrency(1))
		_, err := bp.Process(ctx, []string{"a", "b"})
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Process() error = %v, want %v", err, context.Canceled)
		}
	})
}
