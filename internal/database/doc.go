// Package database provides SQLite-based storage for crawl history.
//
// This package implements the CrawlDB, which stores:
//   - One row per crawl run with aggregate outcome counts
//   - One row per processed page with its status and content hash
//
// The database is observational: the crawl engine reads resume state from
// the archive directory on disk, never from here. What the database adds
// is history across runs: when each site was crawled, which pages were
// archived or failed, and content hashes for change detection. The report
// command aggregates this history after the fact.
//
// Design decision: We use SQLite (via modernc.org/sqlite) instead of other
// databases because:
//  1. No external dependencies - the database is a single file
//  2. CGO-free implementation allows easy cross-compilation
//  3. Sufficient performance for our use case
//  4. WAL mode provides good concurrent read performance
package database
