// Package crawler provides the crawl engine for documentation sites.
//
// # Architecture
//
// The package is designed around the Spider type, which owns the crawl
// frontier: a FIFO work queue plus a visited set. A single logical thread
// processes one URL end-to-end (fetch, convert, persist, link harvest)
// before the next one starts, which is also what bounds the load placed on
// the target site and the conversion API.
//
// Design decision: We implement our own frontier loop rather than using a
// third-party crawling framework because:
//  1. Link discovery comes from an embedded JSON payload, not from HTML
//     anchors, so generic spider callbacks add no value
//  2. The skip-existing resume policy needs tight control over when a
//     fetch happens and when it is elided
//  3. We need strict FIFO ordering for predictable, breadth-first archives
//
// # Components
//
//   - Spider: the frontier controller coordinating the crawl
//   - ParsePage: extracts the embedded structured payload from raw markup
//   - FlattenNavigation: flattens the start page's navigation tree
//   - ScanLinks: scans converted text for same-origin link references
//
// # Link discovery
//
// Links are discovered through two independent channels. The structured
// navigation tree embedded in the start page is the authoritative channel,
// consumed at most once per run. Scanning the converted text for
// root-relative href references is the fallback channel, applied to every
// archived page. Both channels feed the same frontier without
// distinguishing their origin.
//
// # Error policy
//
// Per-page failures never abort a run: a page with no embedded payload, an
// unparseable payload, or a failed fetch is logged, marked failed, and the
// queue simply advances.
//
// # Usage
//
//	spider, err := crawler.NewSpider(baseURL, fetcher, converter, store,
//		crawler.WithSkipExisting(true))
//	summary, err := spider.Run(ctx, startURL)
package crawler
