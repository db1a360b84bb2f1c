// Package archive persists crawled pages as flat markdown files.
//
// The output directory is the system of record for crawl state: a page is
// considered archived exactly when its mapped file exists on disk. Resume
// decisions are made against the filesystem, never against any in-memory
// or database state, so an interrupted crawl can always be picked up by
// re-running with skip-existing enabled.
//
// Path mapping is a pure, stateless function from URL path to file name.
// All pages land in a single directory; path separators collapse into
// hyphens so that "/docs/setup/install" and "/docs-setup-install" map to
// the same file. That collision is accepted: documentation sites do not
// use both forms for distinct pages in practice.
package archive
