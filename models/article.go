package models

// ArticleRecord is one scraped article. It is created by the extractor,
// immutable afterwards, and owned by the target run that requested it.
type ArticleRecord struct {
	// URL is the canonical article URL that was scraped.
	URL string `json:"url"`

	// Title is the extracted headline. Never empty: if every title
	// strategy fails, it holds TitleSentinel instead.
	Title string `json:"title"`

	// Content is the article body, paragraphs joined with newlines in
	// document order. May legitimately be empty (paywalled or teaser-only
	// articles).
	Content string `json:"content"`

	// ContentHTML is the raw HTML of the content region, kept so the
	// report writer can render a Markdown artifact. Not persisted in the
	// JSON record.
	ContentHTML string `json:"-"`

	// ImagePath is the local path of the downloaded cover image, or empty
	// when the article has none (common for opinion pieces) or the
	// download failed.
	ImagePath string `json:"image_path,omitempty"`
}

// Sentinel values distinguish "extraction broke" from "legitimately empty".
const (
	TitleSentinel   = "(could not extract title)"
	ContentSentinel = "(could not extract content)"
)

// TranslationPair is one original/translated headline pair, persisted for
// later validation.
type TranslationPair struct {
	Original   string `json:"original"`
	Translated string `json:"translated"`
}

// WordCount is one entry of the repeated-word analysis in display order.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}
