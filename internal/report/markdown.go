package report

import (
	"io"
	"strconv"
	"strings"

	"github.com/nao1215/markdown"
	"github.com/nao1215/markdown/mermaid/piechart"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// MarkdownWriter outputs crawl summaries in Markdown format.
// This format is designed for documentation and sharing.
//
// Design decision: We use the nao1215/markdown library for fluent markdown
// generation which provides:
//  1. Type-safe markdown generation
//  2. Support for tables, lists, and code blocks
//  3. GitHub-flavored markdown alerts
type MarkdownWriter struct {
	baseWriter

	titleCaser cases.Caser
}

// NewMarkdownWriter creates a MarkdownWriter that outputs to the given writer.
func NewMarkdownWriter(output io.Writer) *MarkdownWriter {
	return &MarkdownWriter{
		baseWriter: newBaseWriter(output),
		titleCaser: cases.Title(language.English),
	}
}

// Write outputs the crawl summary in Markdown format.
func (w *MarkdownWriter) Write(summary *model.CrawlSummary) (int, error) {
	md := markdown.NewMarkdown(w.output)

	w.writeHeader(md, summary)
	w.writeOutcome(md, summary)
	w.writePages(md, summary)
	w.writeFooter(md)

	return len(md.String()), md.Build()
}

// writeHeader writes the report header with run information.
func (w *MarkdownWriter) writeHeader(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H1("Crawl Report")
	md.PlainText("")

	rows := [][]string{
		{"Site", "`" + summary.Site + "`"},
		{"Start URL", "`" + summary.StartURL + "`"},
		{"Pages Processed", strconv.Itoa(len(summary.Pages))},
	}
	if !summary.StartedAt.IsZero() {
		rows = append(rows, []string{"Started", summary.StartedAt.Format("2006-01-02 15:04:05 MST")})
	}
	if !summary.FinishedAt.IsZero() {
		rows = append(rows, []string{"Duration", summary.FinishedAt.Sub(summary.StartedAt).Round(timeRounding).String()})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Property", "Value"},
		Rows:   rows,
	})
	md.PlainText("")
}

// writeOutcome writes the per-status counts with a distribution chart.
func (w *MarkdownWriter) writeOutcome(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Outcome")
	md.PlainText("")

	md.Table(markdown.TableSet{
		Header: []string{"Status", "Count"},
		Rows: [][]string{
			{"Archived", strconv.Itoa(summary.Archived())},
			{"Skipped", strconv.Itoa(summary.Skipped())},
			{"Failed", strconv.Itoa(summary.Failed())},
		},
	})
	md.PlainText("")

	if len(summary.Pages) > 0 {
		w.writePieChart(md, summary)
	}

	w.writeAlert(md, summary)
}

// writePieChart writes a mermaid pie chart of page statuses.
func (w *MarkdownWriter) writePieChart(md *markdown.Markdown, summary *model.CrawlSummary) {
	chart := piechart.NewPieChart(
		io.Discard,
		piechart.WithTitle("Page Status Distribution"),
		piechart.WithShowData(true),
	)

	if n := summary.Archived(); n > 0 {
		chart.LabelAndIntValue("Archived", uint64(n))
	}
	if n := summary.Skipped(); n > 0 {
		chart.LabelAndIntValue("Skipped", uint64(n))
	}
	if n := summary.Failed(); n > 0 {
		chart.LabelAndIntValue("Failed", uint64(n))
	}

	md.PlainText("")
	md.CodeBlocks(markdown.SyntaxHighlightMermaid, chart.String())
	md.PlainText("")
}

// writeAlert writes an alert reflecting how the run went.
func (w *MarkdownWriter) writeAlert(md *markdown.Markdown, summary *model.CrawlSummary) {
	switch {
	case len(summary.Pages) == 0:
		md.Warning("The crawl processed no pages. Check the start URL.")
	case summary.Failed() > 0:
		md.Warningf("%d page(s) failed and were not archived. See the page table below.", summary.Failed())
	case summary.Archived() == 0 && summary.Skipped() > 0:
		md.Note("Every page was already archived; nothing was written.")
	default:
		md.Tipf("All %d page(s) archived successfully.", summary.Archived())
	}
	md.PlainText("")
}

// writePages writes the per-page table.
func (w *MarkdownWriter) writePages(md *markdown.Markdown, summary *model.CrawlSummary) {
	md.H2("Pages")
	md.PlainText("")

	if len(summary.Pages) == 0 {
		md.PlainText("No pages were processed.")
		md.PlainText("")
		return
	}

	rows := make([][]string, 0, len(summary.Pages))
	for _, page := range summary.Pages {
		detail := page.Error
		if detail == "" {
			detail = "-"
		}
		rows = append(rows, []string{
			w.pageTitle(page.FileName),
			"`" + page.URL + "`",
			string(page.Status),
			truncateString(detail, 60),
		})
	}

	md.Table(markdown.TableSet{
		Header: []string{"Page", "URL", "Status", "Detail"},
		Rows:   rows,
	})
	md.PlainText("")
}

// pageTitle derives a display title from an archive file name:
// "guides-install.md" becomes "Guides Install".
func (w *MarkdownWriter) pageTitle(fileName string) string {
	if fileName == "" {
		return "-"
	}

	name := strings.TrimSuffix(fileName, ".md")
	name = strings.ReplaceAll(name, "-", " ")
	return w.titleCaser.String(name)
}

// writeFooter writes the report footer.
func (w *MarkdownWriter) writeFooter(md *markdown.Markdown) {
	md.HorizontalRule()
	md.PlainText("")
	md.PlainTextf("*Report generated by [docs-archiver](https://github.com/junhoyeo/docs-archiver)*")
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
