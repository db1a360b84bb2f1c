package model

import (
	"encoding/hex"
	"encoding/json"
	"time"

	"golang.org/x/crypto/sha3"
)

// PageDescriptor is the structured payload extracted from one fetched page.
// It is ephemeral: it exists only while a single URL is being processed and
// is never persisted as-is.
//
// The source sites are built on a server-rendered React framework, so every
// page carries a <script id="__NEXT_DATA__" type="application/json"> block.
// That block is decoded into this descriptor.
type PageDescriptor struct {
	// URL is the absolute URL the page was fetched from.
	URL string `json:"url"`

	// Content is the convertible content block (raw MDX/markdown source)
	// found at props.pageProps.mdxSource in the embedded payload.
	// Empty when the page carries no convertible content.
	Content string `json:"content"`

	// Navigation is the site navigation tree, when the payload carries one.
	// Only the start page's tree is ever consumed, and at most once per run.
	Navigation *Navigation `json:"navigation,omitempty"`
}

// HasContent reports whether the descriptor carries a convertible content
// block. Pages without one degrade to StatusFailed.
func (d *PageDescriptor) HasContent() bool {
	return d != nil && d.Content != ""
}

// Navigation is the recursive navigation structure embedded in the start
// page's payload: tabs contain groups, groups contain pages, and a page
// entry is either a leaf identifier or a nested group.
type Navigation struct {
	// Tabs are the top-level navigation tabs.
	Tabs []NavTab `json:"tabs"`
}

// NavTab is a named top-level tab holding navigation groups.
type NavTab struct {
	// Tab is the display name of the tab.
	Tab string `json:"tab"`

	// Groups are the groups shown under this tab.
	Groups []NavGroup `json:"groups"`
}

// NavGroup is a named group holding page entries and nested subgroups.
type NavGroup struct {
	// Group is the display name of the group.
	Group string `json:"group"`

	// Pages are the entries in this group, in display order.
	Pages []NavEntry `json:"pages"`
}

// NavEntry is one entry in a navigation group: either a leaf page
// identifier (a relative path such as "quickstart" or "api/errors") or a
// nested subgroup. Exactly one of Page and Group is set.
type NavEntry struct {
	// Page is the relative page identifier when the entry is a leaf.
	Page string

	// Group is the nested subgroup when the entry is not a leaf.
	Group *NavGroup
}

// UnmarshalJSON decodes a navigation entry from either a JSON string (leaf
// page) or a JSON object (nested group). Any other shape is rejected so a
// malformed tree surfaces as a parse failure rather than a silent gap.
func (e *NavEntry) UnmarshalJSON(data []byte) error {
	var page string
	if err := json.Unmarshal(data, &page); err == nil {
		e.Page = page
		e.Group = nil
		return nil
	}

	var group NavGroup
	if err := json.Unmarshal(data, &group); err != nil {
		return err
	}
	e.Page = ""
	e.Group = &group
	return nil
}

// IsLeaf reports whether the entry is a leaf page identifier.
func (e NavEntry) IsLeaf() bool {
	return e.Group == nil
}

// PageStatus is the terminal state of one URL within a crawl run.
// Every dequeued URL ends in exactly one of these states.
type PageStatus string

// Page states. A URL is StatusSkipped when skip-existing mode found an
// archive entry for it, StatusArchived on a successful
// fetch+convert+persist, and StatusFailed when the fetch or payload
// extraction yielded no usable content.
const (
	StatusArchived PageStatus = "archived"
	StatusSkipped  PageStatus = "skipped"
	StatusFailed   PageStatus = "failed"
)

// PageResult records the outcome of processing one URL.
type PageResult struct {
	// URL is the page URL exactly as it was dequeued.
	// No normalization is applied: two textually distinct URLs are
	// distinct, even if they would resolve to the same resource.
	URL string `json:"url"`

	// Site is the host of the site the page belongs to.
	Site string `json:"site"`

	// FileName is the archive file the page maps to.
	FileName string `json:"file_name"`

	// Status is the terminal state of this URL.
	Status PageStatus `json:"status"`

	// ContentHash is the SHA3-256 hash of the archived content.
	// Empty unless Status is StatusArchived.
	ContentHash string `json:"content_hash,omitempty"`

	// Error holds the failure reason when Status is StatusFailed.
	Error string `json:"error,omitempty"`

	// ArchivedAt is when the page reached its terminal state.
	ArchivedAt time.Time `json:"archived_at"`
}

// ContentHash returns the SHA3-256 hash of content as a hex string.
// Used for change detection across runs in the crawl-history database.
func ContentHash(content string) string {
	sum := sha3.Sum256([]byte(content))
	return hex.EncodeToString(sum[:])
}

// CrawlSummary is the aggregate outcome of one crawl run over one site.
type CrawlSummary struct {
	// Site is the host of the crawled site.
	Site string `json:"site"`

	// StartURL is the URL the crawl started from.
	StartURL string `json:"start_url"`

	// StartedAt and FinishedAt bound the run.
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Pages holds one result per processed URL, in processing order.
	Pages []PageResult `json:"pages"`
}

// Archived returns the number of pages that were fetched, converted, and
// persisted in this run.
func (s *CrawlSummary) Archived() int { return s.count(StatusArchived) }

// Skipped returns the number of pages skipped because an archive entry
// already existed.
func (s *CrawlSummary) Skipped() int { return s.count(StatusSkipped) }

// Failed returns the number of pages that yielded no usable content.
func (s *CrawlSummary) Failed() int { return s.count(StatusFailed) }

func (s *CrawlSummary) count(status PageStatus) int {
	n := 0
	for _, p := range s.Pages {
		if p.Status == status {
			n++
		}
	}
	return n
}
