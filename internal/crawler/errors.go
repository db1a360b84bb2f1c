package crawler

import "errors"

var (
	// ErrNilFetcher is returned when a Spider is created without a fetcher.
	ErrNilFetcher = errors.New("crawler: fetcher is required")
	// ErrNilConverter is returned when a Spider is created without a converter.
	ErrNilConverter = errors.New("crawler: converter is required")
	// ErrNilStore is returned when a Spider is created without an archive store.
	ErrNilStore = errors.New("crawler: archive store is required")
	// ErrInvalidBaseURL is returned when the base URL cannot be parsed or
	// has no host.
	ErrInvalidBaseURL = errors.New("crawler: invalid base URL")

	// ErrNoEmbeddedData is returned when a page does not carry the
	// embedded structured data block.
	ErrNoEmbeddedData = errors.New("crawler: embedded data block not found")
	// ErrMalformedData is returned when the embedded data block is present
	// but cannot be decoded.
	ErrMalformedData = errors.New("crawler: embedded data block is not valid JSON")
	// ErrNoContent is returned when a page's payload carries no convertible
	// content block.
	ErrNoContent = errors.New("crawler: page has no convertible content")
)
