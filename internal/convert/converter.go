package convert

import "context"

// Converter transforms a page's raw embedded content block into markdown
// documentation. Implementations must be safe for sequential reuse across
// many pages within a single crawl.
type Converter interface {
	// Convert transforms raw page content into readable markdown.
	// The returned string is archived as the document body.
	Convert(ctx context.Context, content string) (string, error)
}

// conversionPrompt is prepended to every content block sent to the model.
// It pins the output to documentation-only markdown so that archived files
// stay free of conversational framing.
const conversionPrompt = `Convert the following raw documentation page content into clean, well-structured markdown.

Rules:
- Preserve all technical information, code samples, and links exactly.
- Use proper markdown headings, lists, and code blocks.
- Do not add commentary, preamble, or explanation of your own.
- Output only the converted markdown document.

Content:
`
