package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and provide specific
// information about what is wrong with the configuration.
//
// Design decision: We use package-level sentinel errors rather than
// creating new error instances in Validate(). This allows callers to use
// errors.Is() for programmatic error handling while still providing
// human-readable messages.
var (
	// ErrMissingAPIKey is returned when no conversion API credential is
	// configured. The credential comes from the GEMINI_API_KEY environment
	// variable (a .env file is honored); crawling never starts without it.
	ErrMissingAPIKey = errors.New("missing API key: set GEMINI_API_KEY")

	// ErrMissingBaseURL is returned when neither --base-url (or
	// DOCS_BASE_URL) nor a named site from the config file is provided.
	ErrMissingBaseURL = errors.New("missing base URL: use --base-url, set DOCS_BASE_URL, or name a configured site")

	// ErrInvalidTimeout is returned when the fetch timeout is not positive.
	// A timeout of zero or negative would cause immediate fetch failures.
	ErrInvalidTimeout = errors.New("invalid timeout: must be positive")

	// ErrInvalidDelay is returned when the politeness delay is negative.
	// Use 0 for no delay between requests.
	ErrInvalidDelay = errors.New("invalid crawl delay: must be non-negative")

	// ErrInvalidMaxBodySize is returned when the max body size is negative.
	// Use 0 to fall back to the default limit.
	ErrInvalidMaxBodySize = errors.New("invalid max body size: must be non-negative")

	// ErrInvalidBatchSize is returned when the batch size is not positive.
	// A batch size of zero would mean no sites are crawled in batch mode.
	ErrInvalidBatchSize = errors.New("invalid batch size: must be positive")

	// ErrUnknownSite is returned when a site named on the command line has
	// no entry in the configuration file.
	ErrUnknownSite = errors.New("unknown site: not present in configuration file")
)
