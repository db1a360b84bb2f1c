package crawler

import (
	"context"
	"io"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// Fetcher retrieves raw page markup for a URL. A transport error after the
// fetcher's bounded timeout fails only the page being fetched; the
// controller never retries.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) ([]byte, error)
}

// Converter transforms a page's raw content block into readable markdown.
type Converter interface {
	Convert(ctx context.Context, content string) (string, error)
}

// Store is the archive the crawl reads resume state from and writes pages
// into. Exists and FileName take the URL's path component; the mapping
// must be a pure function of it.
type Store interface {
	FileName(urlPath string) string
	Exists(urlPath string) bool
	Write(pageURL *url.URL, body string) (string, error)
}

// Recorder observes per-page outcomes as they happen. Recording is
// observational: a recorder failure is logged and never affects the crawl.
type Recorder interface {
	RecordPage(ctx context.Context, result model.PageResult) error
}

// Spider drives a breadth-first crawl over a documentation site.
// It owns the frontier queue and the visited set; both are per-run state,
// so a single Spider can be reused for consecutive runs.
//
// Design decision: We call it "Spider" rather than "Crawler" because:
//  1. "Spider" is the traditional term for web crawlers
//  2. Distinguishes the component from the package name
//  3. Clearer in code: crawler.NewSpider() vs crawler.NewCrawler()
type Spider struct {
	// baseURL is the site origin links resolve against.
	baseURL *url.URL

	// baseRoot is baseURL's string form without a trailing slash, used
	// when turning navigation identifiers into absolute URLs.
	baseRoot string

	fetcher   Fetcher
	converter Converter
	store     Store

	// recorder receives per-page outcomes; nil disables recording.
	recorder Recorder

	// delay is the politeness pause after each fetch. Skipped pages that
	// required no fetch do not pause.
	delay time.Duration

	// skipExisting makes the crawl resume against the archive directory:
	// a URL whose mapped file already exists is not refetched.
	skipExisting bool

	logger *slog.Logger
}

// Option configures a Spider.
type Option func(*Spider)

// WithDelay sets the politeness delay applied after each fetch.
func WithDelay(d time.Duration) Option {
	return func(s *Spider) {
		s.delay = d
	}
}

// WithSkipExisting enables resume mode: URLs whose archive file already
// exists are skipped without a fetch.
func WithSkipExisting(skip bool) Option {
	return func(s *Spider) {
		s.skipExisting = skip
	}
}

// WithRecorder attaches a per-page outcome recorder.
func WithRecorder(r Recorder) Option {
	return func(s *Spider) {
		s.recorder = r
	}
}

// WithLogger sets the structured logger. Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Spider) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewSpider creates a Spider for the site at baseURL.
//
// Design decision: We require the collaborators as constructor arguments
// rather than options because:
//  1. A spider without a fetcher, converter, or store cannot run at all
//  2. Misses surface at construction time, not mid-crawl
//  3. Tests can pass small fakes without building real clients
func NewSpider(baseURL string, fetcher Fetcher, converter Converter, store Store, opts ...Option) (*Spider, error) {
	base, err := url.Parse(baseURL)
	if err != nil || base.Host == "" || (base.Scheme != "http" && base.Scheme != "https") {
		return nil, ErrInvalidBaseURL
	}
	if fetcher == nil {
		return nil, ErrNilFetcher
	}
	if converter == nil {
		return nil, ErrNilConverter
	}
	if store == nil {
		return nil, ErrNilStore
	}

	s := &Spider{
		baseURL:   base,
		baseRoot:  strings.TrimSuffix(base.String(), "/"),
		fetcher:   fetcher,
		converter: converter,
		store:     store,
		delay:     1 * time.Second,
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Run crawls the site starting from startURL and returns a summary of every
// processed page. The run terminates only when the frontier is empty or ctx
// is cancelled; per-page failures are recorded and never abort the run.
func (s *Spider) Run(ctx context.Context, startURL string) (*model.CrawlSummary, error) {
	summary := &model.CrawlSummary{
		Site:      s.baseURL.Host,
		StartURL:  startURL,
		StartedAt: time.Now(),
	}

	// Frontier state is local to the run so one Spider can crawl again
	// with a fresh visited set.
	queue := []string{startURL}
	visited := make(map[string]bool)
	navigationExtracted := false

	for len(queue) > 0 {
		select {
		case <-ctx.Done():
			summary.FinishedAt = time.Now()
			return summary, ctx.Err()
		default:
		}

		pageURL := queue[0]
		queue = queue[1:]

		// Sole de-duplication point. The queue may hold duplicates; the
		// visited set filters them here, and marking happens on dequeue
		// so nothing processed this iteration can be re-enqueued.
		if visited[pageURL] {
			continue
		}
		visited[pageURL] = true

		u, err := url.Parse(pageURL)
		if err != nil {
			s.logger.Warn("discarding unparseable URL", "url", pageURL, "error", err)
			s.record(ctx, summary, model.PageResult{
				URL:    pageURL,
				Site:   s.baseURL.Host,
				Status: model.StatusFailed,
				Error:  err.Error(),
			})
			continue
		}

		if s.skipExisting && s.store.Exists(u.Path) {
			fetched := false
			// The start page is still fetched once, without persisting,
			// when its navigation has not been consumed yet. Resume runs
			// need the navigation links even though the page itself is
			// already archived.
			if pageURL == startURL && !navigationExtracted {
				fetched = true
				navigationExtracted = true
				if desc, err := s.fetchDescriptor(ctx, pageURL); err != nil {
					s.logger.Warn("navigation refetch failed", "url", pageURL, "error", err)
				} else {
					queue = enqueue(queue, visited, s.navigationLinks(desc.Navigation))
				}
			}

			s.logger.Debug("skipping archived page", "url", pageURL)
			s.record(ctx, summary, model.PageResult{
				URL:      pageURL,
				Site:     s.baseURL.Host,
				FileName: s.store.FileName(u.Path),
				Status:   model.StatusSkipped,
			})

			if fetched {
				if err := s.pause(ctx, len(queue)); err != nil {
					summary.FinishedAt = time.Now()
					return summary, err
				}
			}
			continue
		}

		desc, err := s.fetchDescriptor(ctx, pageURL)
		if err == nil && !desc.HasContent() {
			err = ErrNoContent
		}
		if err != nil {
			s.logger.Warn("page failed", "url", pageURL, "error", err)
			s.record(ctx, summary, model.PageResult{
				URL:      pageURL,
				Site:     s.baseURL.Host,
				FileName: s.store.FileName(u.Path),
				Status:   model.StatusFailed,
				Error:    err.Error(),
			})
			if err := s.pause(ctx, len(queue)); err != nil {
				summary.FinishedAt = time.Now()
				return summary, err
			}
			continue
		}

		body, err := s.converter.Convert(ctx, desc.Content)
		if err != nil {
			// Conversion is best-effort: archive the raw block rather
			// than losing the page.
			s.logger.Warn("conversion failed, archiving raw content", "url", pageURL, "error", err)
			body = desc.Content
		}

		name, err := s.store.Write(u, body)
		if err != nil {
			s.logger.Warn("failed to archive page", "url", pageURL, "error", err)
			s.record(ctx, summary, model.PageResult{
				URL:      pageURL,
				Site:     s.baseURL.Host,
				FileName: s.store.FileName(u.Path),
				Status:   model.StatusFailed,
				Error:    err.Error(),
			})
			if err := s.pause(ctx, len(queue)); err != nil {
				summary.FinishedAt = time.Now()
				return summary, err
			}
			continue
		}

		s.logger.Info("archived page", "url", pageURL, "file", name)
		s.record(ctx, summary, model.PageResult{
			URL:         pageURL,
			Site:        s.baseURL.Host,
			FileName:    name,
			Status:      model.StatusArchived,
			ContentHash: model.ContentHash(body),
		})

		// Navigation links enqueue before content links so the start
		// page's authoritative ordering wins the frontier.
		if pageURL == startURL && !navigationExtracted {
			navigationExtracted = true
			queue = enqueue(queue, visited, s.navigationLinks(desc.Navigation))
		}
		queue = enqueue(queue, visited, ScanLinks(body, s.baseURL))

		if err := s.pause(ctx, len(queue)); err != nil {
			summary.FinishedAt = time.Now()
			return summary, err
		}
	}

	summary.FinishedAt = time.Now()
	return summary, nil
}

// fetchDescriptor fetches a page and parses its embedded payload.
func (s *Spider) fetchDescriptor(ctx context.Context, pageURL string) (*model.PageDescriptor, error) {
	body, err := s.fetcher.Fetch(ctx, pageURL)
	if err != nil {
		return nil, err
	}
	return ParsePage(pageURL, body)
}

// navigationLinks turns the navigation tree's relative identifiers into
// absolute URLs under the base origin.
func (s *Spider) navigationLinks(nav *model.Navigation) []string {
	ids := FlattenNavigation(nav)
	if len(ids) == 0 {
		return nil
	}

	links := make([]string, 0, len(ids))
	for _, id := range ids {
		links = append(links, s.baseRoot+"/"+id)
	}
	return links
}

// record appends the page outcome to the summary and forwards it to the
// recorder when one is attached.
func (s *Spider) record(ctx context.Context, summary *model.CrawlSummary, result model.PageResult) {
	result.ArchivedAt = time.Now()
	summary.Pages = append(summary.Pages, result)

	if s.recorder == nil {
		return
	}
	if err := s.recorder.RecordPage(ctx, result); err != nil {
		s.logger.Warn("failed to record page outcome", "url", result.URL, "error", err)
	}
}

// enqueue appends every link not yet visited. Already-queued duplicates
// are allowed; the dequeue-time visited check filters them.
func enqueue(queue []string, visited map[string]bool, links []string) []string {
	for _, link := range links {
		if !visited[link] {
			queue = append(queue, link)
		}
	}
	return queue
}

// pause applies the politeness delay between fetches. No pause when the
// frontier is empty, since there is no next request to be polite about.
func (s *Spider) pause(ctx context.Context, queueLen int) error {
	if s.delay <= 0 || queueLen == 0 {
		return nil
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(s.delay):
		return nil
	}
}
