// Package main provides the entry point for the docs-archiver CLI.
//
// docs-archiver crawls a documentation website, converts each page's
// embedded content to markdown, and persists the result to a local archive
// with resumability.
//
// Usage:
//
//	docs-archiver crawl --base-url https://docs.example.com
//	docs-archiver crawl --skip-existing --site example
//
// See --help for all available options.
package main

import "github.com/joho/godotenv"

// main is the entry point for docs-archiver.
func main() {
	// Best effort: a missing .env file is not an error, real environment
	// variables always win.
	_ = godotenv.Load()

	Execute()
}
