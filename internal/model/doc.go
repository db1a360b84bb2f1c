// Package model defines the core data structures used throughout docs-archiver.
//
// This package contains the following main types:
//   - PageDescriptor: The structured payload extracted from a fetched page
//   - Navigation: The recursive navigation tree embedded in the start page
//   - PageResult: The terminal state of one URL within a crawl run
//   - CrawlSummary: The aggregate outcome of a crawl run
//
// Design decision: We separate models into their own package to avoid circular
// dependencies. Multiple packages (crawler, archive, database, report) need to
// use these types, so centralizing them prevents import cycles.
//
// The models are designed to be serializable to JSON for database storage and
// report output.
package model
