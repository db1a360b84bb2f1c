package config

import (
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
)

// Default configuration values.
// These values are chosen for politeness toward documentation hosts and
// stay aligned with the original archiver's fixed defaults where applicable.
const (
	// DefaultTimeout bounds each individual page fetch. The crawl as a
	// whole carries no timeout; a fetch that exceeds this bound fails that
	// single page only.
	DefaultTimeout = 30 * time.Second

	// DefaultCrawlDelay is the fixed politeness delay applied after each
	// successful fetch (never after a skip). One second keeps sequential
	// crawling gentle on documentation hosts and the conversion API alike.
	DefaultCrawlDelay = 1 * time.Second

	// DefaultUserAgent identifies docs-archiver in HTTP requests.
	// A descriptive User-Agent lets site operators identify archiver
	// traffic in their logs.
	DefaultUserAgent = "docs-archiver/1.0 (+https://github.com/junhoyeo/docs-archiver)"

	// DefaultMaxBodySize limits the response body size read per page.
	// 5MB covers any realistic documentation page while preventing memory
	// exhaustion from unexpectedly large responses.
	DefaultMaxBodySize = 5 * 1024 * 1024 // 5MB

	// DefaultOutputDir is the archive directory, relative to the working
	// directory unless overridden.
	DefaultOutputDir = "docs"

	// DefaultIndexAlias is the landing-page path that maps to the same
	// archive file as the site root. It is a property of the target site
	// and can be overridden per site in the config file.
	DefaultIndexAlias = "starthere"

	// DefaultModel is the Gemini model used for markdown conversion.
	DefaultModel = "gemini-1.5-flash"

	// DefaultBatchSize is the number of sites crawled concurrently in
	// batch mode. Each site's own crawl remains strictly sequential; this
	// only bounds how many independent sites run at once.
	DefaultBatchSize = 3

	// AppName is the application name used for XDG directory paths.
	AppName = "docs-archiver"
)

// Environment variable names. These provide defaults for the credential and
// the site URLs; command-line flags override them.
const (
	// EnvAPIKey holds the conversion API credential. Its absence is a
	// fatal startup error: no crawling begins without it.
	EnvAPIKey = "GEMINI_API_KEY"

	// EnvBaseURL provides the default --base-url value.
	EnvBaseURL = "DOCS_BASE_URL"

	// EnvStartURL provides the default --start-url value.
	EnvStartURL = "DOCS_START_URL"
)

// Config holds all configuration options for docs-archiver.
// This struct is designed to be populated from environment variables and CLI
// flags and passed through the application via dependency injection rather
// than global state.
type Config struct {
	// BaseURL is the site origin all discovered links are resolved
	// against, e.g. "https://docs.example.com". Required.
	BaseURL string

	// StartURL is the URL the crawl starts from. When empty it defaults
	// to BaseURL.
	StartURL string

	// OutputDir is the archive directory. A flat directory of markdown
	// files, one per archived page.
	OutputDir string

	// SkipExisting enables resume mode: URLs whose archive file already
	// exists are skipped without fetching. The start URL is still fetched
	// once, without persisting, when the navigation tree has not been
	// extracted yet.
	SkipExisting bool

	// APIKey is the conversion API credential, sourced from EnvAPIKey.
	APIKey string

	// Model is the Gemini model used for conversion.
	Model string

	// Delay is the fixed politeness delay between successful fetches.
	Delay time.Duration

	// Timeout bounds each individual page fetch.
	Timeout time.Duration

	// UserAgent is the User-Agent header sent with HTTP requests.
	UserAgent string

	// MaxBodySize is the maximum response body size in bytes to read.
	// Set to 0 to use the default.
	MaxBodySize int64

	// IndexAlias is the landing-page path treated as equivalent to the
	// site root for archive-filename purposes, without its leading slash.
	IndexAlias string

	// Verbose enables detailed log output using slog.LevelDebug.
	// When false, only warnings and errors are logged.
	Verbose bool

	// ConfigFilePath is the path to the configuration file. If empty, the
	// tool searches for .docs-archiver.yml in the current directory and
	// then in the user's home directory.
	ConfigFilePath string

	// SiteConfigs holds site configurations loaded from the config file.
	// Populated by LoadConfigFile; consulted for batch mode and per-site
	// overrides.
	SiteConfigs *File

	// Sites is the list of named sites (keys of SiteConfigs.Sites) to
	// crawl in batch mode. Empty means single-site mode using BaseURL.
	Sites []string

	// BatchSize is the number of sites crawled concurrently in batch mode.
	BatchSize int

	// DBDir is the directory for the SQLite crawl-history database.
	// Defaults to the XDG data directory. The database is observational:
	// the skip decision never consults it.
	DBDir string

	// SaveToDB indicates whether to record crawl history to the database.
	SaveToDB bool
}

// NewConfig creates a new Config with default values.
// All fields are set to safe, sensible defaults; callers override specific
// values from flags and environment variables after creation.
func NewConfig() *Config {
	return &Config{
		OutputDir:   DefaultOutputDir,
		Model:       DefaultModel,
		Delay:       DefaultCrawlDelay,
		Timeout:     DefaultTimeout,
		UserAgent:   DefaultUserAgent,
		MaxBodySize: DefaultMaxBodySize,
		IndexAlias:  DefaultIndexAlias,
		BatchSize:   DefaultBatchSize,
	}
}

// XDGDataDir returns the XDG data directory for docs-archiver.
// This follows the XDG Base Directory Specification.
// On Linux: ~/.local/share/docs-archiver
// On macOS: ~/Library/Application Support/docs-archiver
// On Windows: %LOCALAPPDATA%\docs-archiver
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for docs-archiver.
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}

// Validate checks if the configuration is valid.
// It returns a specific error describing what is invalid.
//
// Validation happens once after flag parsing, before any crawling begins,
// so configuration problems fail fast with a clear message. The first error
// found is returned: fixing one error often makes others irrelevant.
func (c *Config) Validate() error {
	// The credential gates the conversion API; without it no crawl starts.
	if c.APIKey == "" {
		return ErrMissingAPIKey
	}

	// Batch mode resolves site URLs from the config file instead.
	if c.BaseURL == "" && len(c.Sites) == 0 {
		return ErrMissingBaseURL
	}

	// Zero timeout would cause immediate fetch failures
	if c.Timeout <= 0 {
		return ErrInvalidTimeout
	}

	// Delay must be non-negative
	if c.Delay < 0 {
		return ErrInvalidDelay
	}

	// MaxBodySize must be non-negative; 0 means use the default
	if c.MaxBodySize < 0 {
		return ErrInvalidMaxBodySize
	}

	// BatchSize must be positive; zero would mean no crawling in batch mode
	if c.BatchSize <= 0 {
		return ErrInvalidBatchSize
	}

	return nil
}
