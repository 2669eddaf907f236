package scraper

import (
	"log/slog"
	nurl "net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"

	"github.com/umbral-dev/gaceta/models"
)

// Selector fallback chains, most specific first. The site uses several
// article templates, so every extraction point has a degrade ladder instead
// of a single selector.
var (
	titleSelectors = []string{
		"article header h1",
		"h1.a_t",
		"h1",
	}

	// bodySelector targets the known content regions; bodyFallback takes
	// any paragraph inside the article when none of them match.
	bodySelector = "article .a_c p, article .article_body p, " +
		"article [data-dtm-region='articulo_cuerpo'] p"
	bodyFallback = "article p"

	coverSelector = "article figure img, article .a_m_w img"
)

// minReadabilityChars is the minimum plain-text length for readability
// output to count as real content rather than boilerplate.
const minReadabilityChars = 50

// parseArticle extracts a record from rendered article HTML. It never
// fails: a broken document yields sentinels, missing pieces yield empty
// values. The second return is the cover image URL, "" when absent.
func parseArticle(html, articleURL string) (models.ArticleRecord, string) {
	record := models.ArticleRecord{URL: articleURL}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("article HTML unparseable", "url", articleURL, "error", err)
		record.Title = models.TitleSentinel
		record.Content = models.ContentSentinel
		return record, ""
	}

	record.Title = extractTitle(doc)
	record.Content = extractBody(doc, html, articleURL)
	record.ContentHTML = contentRegionHTML(html)

	return record, extractCoverURL(doc, articleURL)
}

// extractTitle walks the title selector chain and takes the first non-empty
// text. Exhausting the chain yields the sentinel, never an error.
func extractTitle(doc *goquery.Document) string {
	for _, sel := range titleSelectors {
		if text := strings.TrimSpace(doc.Find(sel).First().Text()); text != "" {
			return text
		}
	}
	return models.TitleSentinel
}

// extractBody joins the non-empty paragraph texts of the content region in
// document order. When the specific selectors come up empty it widens to any
// paragraph inside the article, then to readability over the whole page.
// An empty result is legitimate (paywalled or teaser-only articles).
func extractBody(doc *goquery.Document, html, articleURL string) string {
	paragraphs := collectParagraphs(doc, bodySelector)
	if len(paragraphs) == 0 {
		paragraphs = collectParagraphs(doc, bodyFallback)
	}
	if len(paragraphs) > 0 {
		return strings.Join(paragraphs, "\n")
	}

	// Last rung: let readability locate the main content. Opinion pieces
	// on alternate templates sometimes keep their body outside <article>.
	if u, err := nurl.Parse(articleURL); err == nil {
		if art, err := readability.FromReader(strings.NewReader(html), u); err == nil {
			if text := strings.TrimSpace(art.TextContent); len(text) >= minReadabilityChars {
				return text
			}
		}
	}
	return ""
}

func collectParagraphs(doc *goquery.Document, selector string) []string {
	var out []string
	doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
		if text := strings.TrimSpace(s.Text()); text != "" {
			out = append(out, text)
		}
	})
	return out
}

// extractCoverURL looks for an image inside the article figure region.
// Most opinion pieces have none; that is a silent normal case.
func extractCoverURL(doc *goquery.Document, articleURL string) string {
	src, ok := doc.Find(coverSelector).First().Attr("src")
	if !ok || strings.TrimSpace(src) == "" {
		return ""
	}
	return resolveURL(articleURL, strings.TrimSpace(src))
}

// collectArticleLinks pulls up to count article URLs from listing HTML.
//
// Primary strategy: container articles with a nested heading link. When that
// yields fewer than count after dedup, a broader pass over every heading
// link whose path carries the listing prefix fills the remainder, keeping
// the already-found order and skipping duplicates.
func collectArticleLinks(html, listingURL string, count int) []string {
	if count <= 0 {
		return nil
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		slog.Warn("listing HTML unparseable", "url", listingURL, "error", err)
		return nil
	}

	seen := make(map[string]struct{}, count)
	var links []string
	add := func(href string) bool {
		abs := resolveURL(listingURL, href)
		if abs == "" {
			return len(links) < count
		}
		if _, dup := seen[abs]; dup {
			return len(links) < count
		}
		seen[abs] = struct{}{}
		links = append(links, abs)
		return len(links) < count
	}

	doc.Find("article").EachWithBreak(func(_ int, art *goquery.Selection) bool {
		href, ok := art.Find("h2 a").First().Attr("href")
		if !ok {
			return true
		}
		return add(href)
	})

	if len(links) < count {
		prefix := listingPathPrefix(listingURL)
		doc.Find("h2 a").EachWithBreak(func(_ int, a *goquery.Selection) bool {
			href, ok := a.Attr("href")
			if !ok {
				return true
			}
			u, err := nurl.Parse(resolveURL(listingURL, href))
			if err != nil || !strings.HasPrefix(u.Path, prefix) {
				return true
			}
			return add(href)
		})
	}

	return links
}

// resolveURL makes href absolute against base. Returns "" when either side
// is unparseable.
func resolveURL(base, href string) string {
	b, err := nurl.Parse(base)
	if err != nil {
		return ""
	}
	h, err := nurl.Parse(href)
	if err != nil {
		return ""
	}
	return b.ResolveReference(h).String()
}
