package report

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// JSONWriter outputs crawl summaries as JSON.
// This format is designed for tool integration and scripting.
type JSONWriter struct {
	baseWriter

	// indent enables pretty-printed output.
	indent bool
}

// JSONWriterOption configures a JSONWriter.
type JSONWriterOption func(*JSONWriter)

// WithIndent enables pretty-printed JSON output.
func WithIndent(indent bool) JSONWriterOption {
	return func(w *JSONWriter) {
		w.indent = indent
	}
}

// NewJSONWriter creates a JSONWriter that outputs to the given writer.
func NewJSONWriter(output io.Writer, opts ...JSONWriterOption) *JSONWriter {
	w := &JSONWriter{
		baseWriter: newBaseWriter(output),
	}

	for _, opt := range opts {
		opt(w)
	}

	return w
}

// Write outputs the crawl summary as JSON followed by a trailing newline.
func (w *JSONWriter) Write(summary *model.CrawlSummary) (int, error) {
	var (
		data []byte
		err  error
	)
	if w.indent {
		data, err = json.MarshalIndent(summary, "", "  ")
	} else {
		data, err = json.Marshal(summary)
	}
	if err != nil {
		return 0, fmt.Errorf("failed to serialize summary: %w", err)
	}

	return w.output.Write(append(data, '\n'))
}
