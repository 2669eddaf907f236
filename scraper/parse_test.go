package scraper

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/umbral-dev/gaceta/models"
)

const listingURL = "https://elpais.com/opinion/"

func TestExtractTitle_StructuredHeader(t *testing.T) {
	record, _ := parseArticle(`
		<html><body>
			<article>
				<header><h1>La deriva institucional</h1></header>
				<h1 class="a_t">wrong</h1>
			</article>
			<h1>also wrong</h1>
		</body></html>`, listingURL+"a.html")

	assert.Equal(t, "La deriva institucional", record.Title)
}

func TestExtractTitle_ClassBasedFallback(t *testing.T) {
	record, _ := parseArticle(`
		<html><body>
			<article><h1 class="a_t">Una tregua frágil</h1></article>
		</body></html>`, listingURL+"a.html")

	assert.Equal(t, "Una tregua frágil", record.Title)
}

func TestExtractTitle_GenericHeadingFallback(t *testing.T) {
	// Only a bare top-level heading: the last rung of the chain must win,
	// never the sentinel.
	record, _ := parseArticle(`
		<html><body>
			<h1>El precio del silencio</h1>
			<p>cuerpo</p>
		</body></html>`, listingURL+"a.html")

	assert.Equal(t, "El precio del silencio", record.Title)
}

func TestExtractTitle_SentinelWhenChainExhausted(t *testing.T) {
	record, _ := parseArticle(`<html><body><p>sin título</p></body></html>`,
		listingURL+"a.html")

	assert.Equal(t, models.TitleSentinel, record.Title)
}

func TestExtractBody_ContentRegionParagraphsInOrder(t *testing.T) {
	record, _ := parseArticle(`
		<html><body><article>
			<div class="a_c">
				<p>Primer párrafo.</p>
				<p>   </p>
				<p>Segundo párrafo.</p>
			</div>
			<aside><p>fuera del cuerpo</p></aside>
		</article></body></html>`, listingURL+"a.html")

	assert.Equal(t, "Primer párrafo.\nSegundo párrafo.", record.Content)
}

func TestExtractBody_FallsBackToAnyArticleParagraph(t *testing.T) {
	record, _ := parseArticle(`
		<html><body><article>
			<h1>Titular</h1>
			<div class="otra-cosa"><p>Párrafo suelto.</p></div>
		</article></body></html>`, listingURL+"a.html")

	assert.Equal(t, "Párrafo suelto.", record.Content)
}

func TestExtractBody_EmptyIsLegitimate(t *testing.T) {
	// Teaser-only page: no paragraphs anywhere and nothing readability
	// could call main content. Content stays empty, not a sentinel.
	record, _ := parseArticle(`
		<html><body><article><h1>Solo titular</h1></article></body></html>`,
		listingURL+"a.html")

	assert.Equal(t, "Solo titular", record.Title)
	assert.Empty(t, record.Content)
}

func TestParseArticle_CoverImage(t *testing.T) {
	record, cover := parseArticle(`
		<html><body><article>
			<h1>Con imagen</h1>
			<figure><img src="/img/cover.webp"></figure>
			<p>cuerpo</p>
		</article></body></html>`, listingURL+"a.html")

	assert.Equal(t, "https://elpais.com/img/cover.webp", cover)
	assert.Empty(t, record.ImagePath, "fetching is the caller's job")
}

func TestParseArticle_NoCoverImageIsSilent(t *testing.T) {
	_, cover := parseArticle(`
		<html><body><article><h1>Sin imagen</h1><p>cuerpo</p></article></body></html>`,
		listingURL+"a.html")

	assert.Empty(t, cover)
}

func TestCollectArticleLinks_PrimarySelector(t *testing.T) {
	var b strings.Builder
	b.WriteString("<html><body>")
	for i := 0; i < 6; i++ {
		fmt.Fprintf(&b, `<article><h2><a href="/opinion/2026-08-30/pieza-%d.html">t</a></h2></article>`, i)
	}
	b.WriteString("</body></html>")

	links := collectArticleLinks(b.String(), listingURL, 5)
	require.Len(t, links, 5)
	assert.Equal(t, "https://elpais.com/opinion/2026-08-30/pieza-0.html", links[0])
	assert.Equal(t, "https://elpais.com/opinion/2026-08-30/pieza-4.html", links[4])
}

func TestCollectArticleLinks_FallbackFillsRemainder(t *testing.T) {
	html := `
		<html><body>
			<article><h2><a href="/opinion/uno.html">uno</a></h2></article>
			<article><div>no heading link</div></article>
			<h2><a href="/opinion/uno.html">duplicate</a></h2>
			<h2><a href="/opinion/dos.html">dos</a></h2>
			<h2><a href="/internacional/fuera.html">other section</a></h2>
			<h2><a href="/opinion/tres.html">tres</a></h2>
		</body></html>`

	links := collectArticleLinks(html, listingURL, 3)
	require.Len(t, links, 3)

	// Primary results keep their position; the fallback fills without
	// reordering or duplicating, and skips links outside the section.
	assert.Equal(t, []string{
		"https://elpais.com/opinion/uno.html",
		"https://elpais.com/opinion/dos.html",
		"https://elpais.com/opinion/tres.html",
	}, links)
}

func TestCollectArticleLinks_EmptyPageIsValid(t *testing.T) {
	links := collectArticleLinks("<html><body></body></html>", listingURL, 5)
	assert.Empty(t, links)
}

func TestCollectArticleLinks_Dedup(t *testing.T) {
	html := `
		<html><body>
			<article><h2><a href="/opinion/misma.html">a</a></h2></article>
			<article><h2><a href="/opinion/misma.html">b</a></h2></article>
		</body></html>`

	links := collectArticleLinks(html, listingURL, 5)
	assert.Len(t, links, 1)
}

func TestContentRegionHTML(t *testing.T) {
	html := `<html><body><article><div class="a_c"><p>cuerpo</p></div></article></body></html>`
	region := contentRegionHTML(html)
	assert.Contains(t, region, `class="a_c"`)
	assert.Contains(t, region, "<p>cuerpo</p>")

	assert.Empty(t, contentRegionHTML("<html><body><p>sin article</p></body></html>"))
}

func TestListingPathPrefix(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://elpais.com/opinion/", "/opinion/"},
		{"https://elpais.com/opinion", "/opinion/"},
		{"https://elpais.com/", "/"},
		{"https://elpais.com", "/"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, listingPathPrefix(tt.in), "input %q", tt.in)
	}
}
