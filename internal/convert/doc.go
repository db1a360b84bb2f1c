// Package convert turns a page's raw embedded content block into readable
// markdown documentation via an external LLM API.
//
// The converter is an external collaborator with a narrow contract: raw
// content in, human-readable text out. Failures are recoverable by design —
// when a conversion fails, the crawl engine archives the raw block verbatim
// rather than failing the page, so a flaky API never aborts a run.
package convert
