package crawler

import (
	"net/url"
	"regexp"
	"strings"
)

// hrefPattern matches href attributes in converted page text. The scan is
// textual on purpose: converted markdown is not HTML, so a DOM parse would
// see nothing, while leftover anchor fragments and inline HTML still carry
// real links.
var hrefPattern = regexp.MustCompile(`href=["']([^"']+)["']`)

// ScanLinks scans converted page text for link references and returns the
// root-relative ones resolved against base, in order of appearance.
//
// Only values beginning with a single "/" are kept: absolute URLs point
// off-site and protocol-relative "//" references are external CDNs. The
// scan is a best-effort fallback channel — it both over- and under-matches
// the true link graph, and the frontier's visited set absorbs the
// duplicates it produces.
func ScanLinks(text string, base *url.URL) []string {
	matches := hrefPattern.FindAllStringSubmatch(text, -1)
	if len(matches) == 0 {
		return nil
	}

	links := make([]string, 0, len(matches))
	for _, m := range matches {
		ref := m[1]
		if !strings.HasPrefix(ref, "/") || strings.HasPrefix(ref, "//") {
			continue
		}
		links = append(links, base.Scheme+"://"+base.Host+ref)
	}
	return links
}
