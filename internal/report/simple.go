package report

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// timeRounding is the precision durations are displayed at.
const timeRounding = time.Second

// SimpleWriter outputs human-readable text summaries.
// This format is designed for terminal display after a crawl finishes.
//
// Design decision: We use plain text with ASCII formatting rather than
// ANSI colors by default because:
//  1. It works in all terminals without compatibility issues
//  2. It's easier to pipe to files or other tools
//  3. Color can be added as an option later if needed
type SimpleWriter struct {
	baseWriter

	// verbose lists every archived file instead of counts only.
	verbose bool
}

// SimpleWriterOption configures a SimpleWriter.
type SimpleWriterOption func(*SimpleWriter)

// WithVerbose enables verbose output listing every archived page.
func WithVerbose(verbose bool) SimpleWriterOption {
	return func(w *SimpleWriter) {
		w.verbose = verbose
	}
}

// NewSimpleWriter creates a SimpleWriter that outputs to the given writer.
func NewSimpleWriter(output io.Writer, opts ...SimpleWriterOption) *SimpleWriter {
	w := &SimpleWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl summary in human-readable format.
func (w *SimpleWriter) Write(summary *model.CrawlSummary) (int, error) {
	var sb strings.Builder

	w.writeHeader(&sb, summary)
	w.writeCounts(&sb, summary)
	w.writeFailures(&sb, summary)
	if w.verbose {
		w.writeArchivedPages(&sb, summary)
	}

	return w.output.Write([]byte(sb.String()))
}

// writeHeader writes the summary header with run information.
func (w *SimpleWriter) writeHeader(sb *strings.Builder, summary *model.CrawlSummary) {
	sb.WriteString("\n")
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n")
	fmt.Fprintf(sb, "Crawl Report: %s\n", summary.Site)
	sb.WriteString(strings.Repeat("=", 70))
	sb.WriteString("\n\n")

	fmt.Fprintf(sb, "Start URL:  %s\n", summary.StartURL)
	if !summary.StartedAt.IsZero() {
		fmt.Fprintf(sb, "Started:    %s\n", summary.StartedAt.Format("2006-01-02 15:04:05 MST"))
	}
	if !summary.FinishedAt.IsZero() {
		fmt.Fprintf(sb, "Finished:   %s\n", summary.FinishedAt.Format("2006-01-02 15:04:05 MST"))
		fmt.Fprintf(sb, "Duration:   %s\n", summary.FinishedAt.Sub(summary.StartedAt).Round(timeRounding))
	}
	sb.WriteString("\n")
}

// writeCounts writes the per-status page counts.
func (w *SimpleWriter) writeCounts(sb *strings.Builder, summary *model.CrawlSummary) {
	fmt.Fprintf(sb, "Pages processed: %d\n", len(summary.Pages))
	fmt.Fprintf(sb, "  archived: %d\n", summary.Archived())
	fmt.Fprintf(sb, "  skipped:  %d\n", summary.Skipped())
	fmt.Fprintf(sb, "  failed:   %d\n", summary.Failed())
	sb.WriteString("\n")
}

// writeFailures lists every failed page with its reason. Failures are
// always shown; they are the part of a run worth acting on.
func (w *SimpleWriter) writeFailures(sb *strings.Builder, summary *model.CrawlSummary) {
	if summary.Failed() == 0 {
		return
	}

	sb.WriteString("Failed pages:\n")
	for _, page := range summary.Pages {
		if page.Status != model.StatusFailed {
			continue
		}
		fmt.Fprintf(sb, "  %s\n", page.URL)
		if page.Error != "" {
			fmt.Fprintf(sb, "      %s\n", page.Error)
		}
	}
	sb.WriteString("\n")
}

// writeArchivedPages lists every archived page and its file.
func (w *SimpleWriter) writeArchivedPages(sb *strings.Builder, summary *model.CrawlSummary) {
	if summary.Archived() == 0 {
		return
	}

	sb.WriteString("Archived pages:\n")
	for _, page := range summary.Pages {
		if page.Status != model.StatusArchived {
			continue
		}
		fmt.Fprintf(sb, "  %-40s %s\n", page.FileName, page.URL)
	}
	sb.WriteString("\n")
}
