package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/junhoyeo/docs-archiver/internal/archive"
	"github.com/junhoyeo/docs-archiver/internal/config"
	"github.com/junhoyeo/docs-archiver/internal/convert"
	"github.com/junhoyeo/docs-archiver/internal/crawler"
	"github.com/junhoyeo/docs-archiver/internal/database"
	"github.com/junhoyeo/docs-archiver/internal/fetch"
	"github.com/junhoyeo/docs-archiver/internal/log"
	"github.com/junhoyeo/docs-archiver/internal/model"
	"github.com/junhoyeo/docs-archiver/internal/pipeline"
	"github.com/junhoyeo/docs-archiver/internal/report"
)

// NewCrawlCmd creates the crawl command.
func NewCrawlCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "crawl",
		Short: "Crawl a documentation site into a local markdown archive",
		Long: `Crawl walks a documentation site breadth-first starting from the start URL,
converts each page's embedded content payload to markdown via the Gemini API,
and writes one file per page into the archive directory.

Links are discovered from the start page's navigation tree and from link
references inside each converted page. The crawl fetches one page at a time
with a politeness delay between requests.

The GEMINI_API_KEY environment variable must be set (a .env file in the
working directory is also read). DOCS_BASE_URL and DOCS_START_URL provide
defaults for --base-url and --start-url.

Examples:
  # Crawl a site into ./docs
  docs-archiver crawl --base-url https://docs.example.com

  # Resume an interrupted crawl
  docs-archiver crawl --base-url https://docs.example.com --skip-existing

  # Crawl sites declared in .docs-archiver.yml, two at a time
  docs-archiver crawl --site example --site other --batch 2

  # Print the run summary as JSON
  docs-archiver crawl --base-url https://docs.example.com --json`,
		Args: cobra.NoArgs,
		RunE: runCrawlCmd,
	}

	// Crawl target flags
	cmd.Flags().String("base-url", "",
		"Site origin links resolve against (default: $DOCS_BASE_URL)")
	cmd.Flags().String("start-url", "",
		"URL the crawl starts from (default: $DOCS_START_URL, else the base URL)")
	cmd.Flags().StringSlice("site", nil,
		"Named site from the config file to crawl (repeatable; enables batch mode)")

	// Crawl behavior flags
	cmd.Flags().BoolP("skip-existing", "s", false,
		"Skip pages whose archive file already exists")
	cmd.Flags().StringP("output", "o", config.DefaultOutputDir,
		"Archive directory")
	cmd.Flags().Duration("delay", config.DefaultCrawlDelay,
		"Politeness delay between page fetches")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout,
		"Timeout for each individual page fetch")
	cmd.Flags().String("user-agent", "",
		"User-Agent header sent with requests")
	cmd.Flags().String("index-alias", "",
		"Landing-page path that shares the root page's archive file")
	cmd.Flags().String("model", config.DefaultModel,
		"Gemini model used for content conversion")
	cmd.Flags().IntP("batch", "b", config.DefaultBatchSize,
		"Number of sites crawled concurrently in batch mode")

	// Configuration file
	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .docs-archiver.yml in current or home directory)")

	// Report flags
	cmd.Flags().BoolP("json", "j", false,
		"Print the run summary as JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Print the run summary as Markdown (mutually exclusive with --json)")
	cmd.Flags().String("report-file", "",
		"Also write a Markdown report to this file")

	return cmd
}

// reportOptions carries the crawl command's output format selection.
type reportOptions struct {
	json     bool
	markdown bool
	file     string
	verbose  bool
}

// runCrawlCmd executes the crawl command.
func runCrawlCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildCrawlConfig(cmd)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	opts, err := buildReportOptions(cmd, cfg.Verbose)
	if err != nil {
		return err
	}

	logger := log.NewSecureLogger(os.Stderr, cfg.Verbose)
	slog.SetDefault(logger)

	// Graceful shutdown on interrupt: the frontier loop observes the
	// context between pages.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return runCrawl(ctx, cfg, opts, logger)
}

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// buildCrawlConfig creates a Config from environment variables and flags.
// Flags override the environment.
func buildCrawlConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	// Environment defaults
	cfg.APIKey = os.Getenv(config.EnvAPIKey)
	cfg.BaseURL = os.Getenv(config.EnvBaseURL)
	cfg.StartURL = os.Getenv(config.EnvStartURL)

	var err error

	if v, err := cmd.Flags().GetString("base-url"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.BaseURL = v
	}

	if v, err := cmd.Flags().GetString("start-url"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.StartURL = v
	}

	cfg.SkipExisting, err = cmd.Flags().GetBool("skip-existing")
	if err != nil {
		return nil, err
	}

	cfg.OutputDir, err = cmd.Flags().GetString("output")
	if err != nil {
		return nil, err
	}

	cfg.Delay, err = cmd.Flags().GetDuration("delay")
	if err != nil {
		return nil, err
	}

	cfg.Timeout, err = cmd.Flags().GetDuration("timeout")
	if err != nil {
		return nil, err
	}

	if v, err := cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.UserAgent = v
	}

	if v, err := cmd.Flags().GetString("index-alias"); err != nil {
		return nil, err
	} else if v != "" {
		cfg.IndexAlias = v
	}

	cfg.Model, err = cmd.Flags().GetString("model")
	if err != nil {
		return nil, err
	}

	cfg.BatchSize, err = cmd.Flags().GetInt("batch")
	if err != nil {
		return nil, err
	}

	cfg.Sites, err = cmd.Flags().GetStringSlice("site")
	if err != nil {
		return nil, err
	}

	cfg.ConfigFilePath, err = cmd.Flags().GetString("config")
	if err != nil {
		return nil, err
	}

	// Load site configurations from the config file. An explicitly
	// specified file must exist; an absent default file is fine.
	explicitConfigPath := cfg.ConfigFilePath != ""
	configPath := config.FindConfigFile(cfg.ConfigFilePath)

	if configPath != "" {
		cfg.SiteConfigs, err = config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	} else if explicitConfigPath {
		return nil, fmt.Errorf("%w: %s", config.ErrConfigNotFound, cfg.ConfigFilePath)
	} else {
		cfg.SiteConfigs = &config.File{
			Sites: make(map[string]config.SiteConfig),
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)

	// Crawl history always lands in the XDG data directory.
	cfg.SaveToDB = true
	cfg.DBDir = config.XDGDataDir()

	return cfg, nil
}

// buildReportOptions reads the report format flags.
func buildReportOptions(cmd *cobra.Command, verbose bool) (reportOptions, error) {
	var opts reportOptions
	var err error

	opts.json, err = cmd.Flags().GetBool("json")
	if err != nil {
		return opts, err
	}
	opts.markdown, err = cmd.Flags().GetBool("markdown")
	if err != nil {
		return opts, err
	}
	// The report command shares this helper but has no --report-file flag.
	if cmd.Flags().Lookup("report-file") != nil {
		opts.file, err = cmd.Flags().GetString("report-file")
		if err != nil {
			return opts, err
		}
	}
	opts.verbose = verbose

	if opts.json && opts.markdown {
		return opts, errors.New("--json and --markdown are mutually exclusive")
	}
	return opts, nil
}

// siteParams are the per-site values a single crawl needs.
type siteParams struct {
	baseURL    string
	startURL   string
	outputDir  string
	userAgent  string
	indexAlias string
}

// runCrawl executes the crawl in single-site or batch mode.
func runCrawl(ctx context.Context, cfg *config.Config, opts reportOptions, logger *slog.Logger) error {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		// History is observational; a broken database should not block
		// the crawl itself.
		logger.Warn("crawl history disabled", "dir", cfg.DBDir, "error", err)
		db = nil
	} else {
		defer db.Close()
	}

	converter, err := convert.NewGemini(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return err
	}
	defer converter.Close()

	writer, closeWriter, err := buildReportWriter(opts)
	if err != nil {
		return err
	}
	defer func() {
		if err := closeWriter(); err != nil {
			logger.Warn("failed to close report output", "error", err)
		}
	}()

	if len(cfg.Sites) > 0 {
		return runBatchCrawl(ctx, cfg, converter, db, writer, logger)
	}

	params := siteParams{
		baseURL:    cfg.BaseURL,
		startURL:   cfg.StartURL,
		outputDir:  cfg.OutputDir,
		userAgent:  cfg.UserAgent,
		indexAlias: cfg.IndexAlias,
	}
	summary, err := crawlSite(ctx, cfg, params, converter, db, logger)
	if summary != nil {
		if _, werr := writer.Write(summary); werr != nil {
			logger.Warn("failed to write report", "error", werr)
		}
	}
	return err
}

// runBatchCrawl crawls every named site through the batch processor.
func runBatchCrawl(ctx context.Context, cfg *config.Config, converter crawler.Converter, db *database.CrawlDB, writer report.Writer, logger *slog.Logger) error {
	crawl := func(ctx context.Context, name string) (*model.CrawlSummary, error) {
		site, ok := cfg.SiteConfigs.GetSiteConfig(name)
		if !ok || site.BaseURL == "" {
			return nil, fmt.Errorf("%w: %s", config.ErrUnknownSite, name)
		}

		params := siteParams{
			baseURL:    site.BaseURL,
			startURL:   site.StartURL,
			outputDir:  firstNonEmpty(site.OutputDir, cfg.OutputDir),
			userAgent:  firstNonEmpty(site.UserAgent, cfg.UserAgent),
			indexAlias: firstNonEmpty(site.IndexAlias, cfg.IndexAlias),
		}
		return crawlSite(ctx, cfg, params, converter, db, logger)
	}

	bp := pipeline.NewBatchProcessor(crawl,
		pipeline.WithConcurrency(cfg.BatchSize),
		pipeline.WithBatchLogger(logger),
	)

	results, err := bp.Process(ctx, cfg.Sites)
	for _, result := range results {
		if result.Err != nil {
			fmt.Fprintf(os.Stderr, "crawl failed for %s: %v\n", result.Site, result.Err)
			continue
		}
		if _, werr := writer.Write(result.Summary); werr != nil {
			logger.Warn("failed to write report", "site", result.Site, "error", werr)
		}
	}
	return err
}

// crawlSite crawls one site end-to-end and records its history.
func crawlSite(ctx context.Context, cfg *config.Config, params siteParams, converter crawler.Converter, db *database.CrawlDB, logger *slog.Logger) (*model.CrawlSummary, error) {
	store, err := archive.NewStore(params.outputDir, archive.WithIndexAlias(params.indexAlias))
	if err != nil {
		return nil, err
	}

	fetcher := fetch.NewClient(cfg.Timeout,
		fetch.WithUserAgent(params.userAgent),
		fetch.WithMaxBodySize(cfg.MaxBodySize),
	)

	startURL := params.startURL
	if startURL == "" {
		startURL = params.baseURL
	}

	spiderOpts := []crawler.Option{
		crawler.WithDelay(cfg.Delay),
		crawler.WithSkipExisting(cfg.SkipExisting),
		crawler.WithLogger(logger),
	}

	var runID int64
	if db != nil {
		runID, err = db.InsertRun(ctx, hostOf(params.baseURL), startURL)
		if err != nil {
			logger.Warn("failed to record run start", "error", err)
		} else {
			spiderOpts = append(spiderOpts, crawler.WithRecorder(database.NewRunRecorder(db, runID)))
		}
	}

	spider, err := crawler.NewSpider(params.baseURL, fetcher, converter, store, spiderOpts...)
	if err != nil {
		return nil, err
	}

	summary, runErr := spider.Run(ctx, startURL)

	if db != nil && runID != 0 && summary != nil {
		if err := db.FinishRun(ctx, runID, summary); err != nil {
			logger.Warn("failed to record run finish", "error", err)
		}
	}
	return summary, runErr
}

// buildReportWriter assembles the report writer for the selected formats.
// The returned closer flushes the optional report file.
func buildReportWriter(opts reportOptions) (report.Writer, func() error, error) {
	var stdout report.Writer
	switch {
	case opts.json:
		stdout = report.NewJSONWriter(os.Stdout, report.WithIndent(true))
	case opts.markdown:
		stdout = report.NewMarkdownWriter(os.Stdout)
	default:
		stdout = report.NewSimpleWriter(os.Stdout, report.WithVerbose(opts.verbose))
	}

	if opts.file == "" {
		return stdout, func() error { return nil }, nil
	}

	if dir := filepath.Dir(opts.file); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return nil, nil, fmt.Errorf("failed to create report directory: %w", err)
		}
	}
	f, err := os.Create(opts.file)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create report file: %w", err)
	}

	// The report file is always markdown regardless of the stdout format.
	return report.NewMultiWriter(stdout, report.NewMarkdownWriter(f)), f.Close, nil
}

// hostOf returns the host of a URL, or the raw string when it cannot be
// parsed. Used only as the site label in crawl history.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return rawURL
	}
	return u.Host
}

// firstNonEmpty returns the first non-empty string.
func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
