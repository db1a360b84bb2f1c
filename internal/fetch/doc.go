// Package fetch provides the HTTP client used to retrieve documentation
// pages.
//
// The client is deliberately narrow: one GET per URL, a bounded per-request
// timeout, a response body size cap, and no retries. A fetch that fails for
// any reason fails that single page; the crawl engine never retries a URL
// within a run.
package fetch
