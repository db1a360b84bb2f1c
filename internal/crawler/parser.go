package crawler

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/junhoyeo/docs-archiver/internal/model"
)

// nextDataSelector matches the embedded JSON payload that server-rendered
// React sites ship on every page.
const nextDataSelector = `script#__NEXT_DATA__`

// nextData mirrors the slice of the embedded payload the crawler consumes.
// Everything else in the payload is ignored.
type nextData struct {
	Props struct {
		PageProps struct {
			MDXSource  json.RawMessage   `json:"mdxSource"`
			Navigation *model.Navigation `json:"navigation"`
		} `json:"pageProps"`
	} `json:"props"`
}

// ParsePage extracts the structured page descriptor from raw page markup.
//
// It returns ErrNoEmbeddedData when the page carries no embedded data
// block and ErrMalformedData when the block cannot be decoded. Both are
// per-page conditions: the caller marks the page failed and moves on.
//
// Design decision: We use goquery to locate the script element rather than
// regex over the raw bytes because:
//  1. It correctly handles attribute ordering and malformed surrounding HTML
//  2. The selector reads as what it means
//  3. The payload itself is still decoded with encoding/json, so the HTML
//     layer stays thin
func ParsePage(pageURL string, body []byte) (*model.PageDescriptor, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("crawler: failed to parse page markup: %w", err)
	}

	raw := doc.Find(nextDataSelector).First().Text()
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoEmbeddedData
	}

	var payload nextData
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("%w: %s", ErrMalformedData, err)
	}

	return &model.PageDescriptor{
		URL:        pageURL,
		Content:    contentBlock(payload.Props.PageProps.MDXSource),
		Navigation: payload.Props.PageProps.Navigation,
	}, nil
}

// contentBlock normalizes the convertible content block. The field is
// usually a JSON string of raw MDX, but some framework versions emit a
// serialized object instead; in that case the object's JSON text is used
// verbatim so the converter still has something to work with.
func contentBlock(raw json.RawMessage) string {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return ""
	}

	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return trimmed
}
