// Package pipeline provides batch orchestration over multiple sites.
//
// A single site is always crawled sequentially: the crawl engine fetches
// one page at a time to bound load on the target server. Batch mode adds
// concurrency only across sites, which hit different servers, so the
// per-site politeness discipline is preserved.
//
// Design decision: We use errgroup with SetLimit rather than a hand-rolled
// worker pool because:
//  1. errgroup handles the concurrency limit and context propagation
//  2. Each site maps naturally to one goroutine
//  3. Per-site failures are recorded in the results, not raised, so one
//     failing site never cancels the others
package pipeline
