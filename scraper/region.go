package scraper

import (
	"bytes"
	"strings"

	"github.com/andybalholm/cascadia"
	"golang.org/x/net/html"
)

// regionSelectors locate the article content region, most specific first.
// The matched region's HTML feeds the Markdown artifact.
var regionSelectors = []string{
	"article .a_c",
	"article .article_body",
	"article [data-dtm-region='articulo_cuerpo']",
	"article",
}

// contentRegionHTML returns the outer HTML of the first content region a
// selector in the chain matches, or "" when none does. Parse or render
// failures also yield "": the region is only needed for the optional
// Markdown artifact, never for the record itself.
func contentRegionHTML(rawHTML string) string {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return ""
	}

	for _, selector := range regionSelectors {
		sel, err := cascadia.Parse(selector)
		if err != nil {
			continue
		}
		node := cascadia.Query(doc, sel)
		if node == nil {
			continue
		}

		var buf bytes.Buffer
		if err := html.Render(&buf, node); err != nil {
			return ""
		}
		return buf.String()
	}
	return ""
}
