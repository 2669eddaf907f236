// Package report persists run artifacts to a well-known location and
// validates them afterwards. The JSON artifacts are the contract consumed by
// the validator and the report server.
package report

import (
	"encoding/json"
	"fmt"
	"log/slog"
	nurl "net/url"
	"os"
	"path/filepath"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"

	"github.com/umbral-dev/gaceta/models"
)

// Artifact filenames inside the output directory.
const (
	ArticlesFile     = "articles_data.json"
	TranslationsFile = "translated_headers.json"
	AnalysisFile     = "word_analysis.json"
	ReportFile       = "validation_report.json"
)

// Writer persists run artifacts into one output directory.
type Writer struct {
	dir  string
	conv *converter.Converter
}

// NewWriter creates a Writer rooted at dir.
func NewWriter(dir string) *Writer {
	return &Writer{
		dir: dir,
		// base strips script/style/head noise, commonmark renders the rest.
		conv: converter.NewConverter(
			converter.WithPlugins(
				base.NewBasePlugin(),
				commonmark.NewCommonmarkPlugin(),
			),
		),
	}
}

// Dir returns the output directory.
func (w *Writer) Dir() string {
	return w.dir
}

// WriteArticles persists the article records.
func (w *Writer) WriteArticles(records []models.ArticleRecord) error {
	return w.writeJSON(ArticlesFile, records)
}

// WriteTranslations persists the original/translated headline pairs.
func (w *Writer) WriteTranslations(pairs []models.TranslationPair) error {
	return w.writeJSON(TranslationsFile, pairs)
}

// WriteAnalysis persists the repeated-word analysis in display order.
func (w *Writer) WriteAnalysis(words []models.WordCount) error {
	if words == nil {
		words = []models.WordCount{}
	}
	return w.writeJSON(AnalysisFile, words)
}

// WriteReport persists the validation report itself.
func (w *Writer) WriteReport(r Report) error {
	return w.writeJSON(ReportFile, r)
}

// WriteArticleMarkdown renders the article's content region to Markdown,
// resolving relative links against the article's own host. Articles without
// a captured region are skipped silently; a conversion failure is logged
// and skipped, the Markdown files are convenience artifacts only.
func (w *Writer) WriteArticleMarkdown(idx int, record models.ArticleRecord) {
	if record.ContentHTML == "" {
		return
	}

	domain := ""
	if u, err := nurl.Parse(record.URL); err == nil {
		domain = u.Scheme + "://" + u.Host
	}

	md, err := w.conv.ConvertString(record.ContentHTML, converter.WithDomain(domain))
	if err != nil {
		slog.Warn("markdown conversion failed", "url", record.URL, "error", err)
		return
	}

	path := filepath.Join(w.dir, fmt.Sprintf("article_%d.md", idx+1))
	content := fmt.Sprintf("# %s\n\n%s\n", record.Title, md)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		slog.Warn("markdown write failed", "path", path, "error", err)
	}
}

// WriteAll persists the full artifact set for one run.
func (w *Writer) WriteAll(records []models.ArticleRecord, pairs []models.TranslationPair, words []models.WordCount) error {
	if err := w.WriteArticles(records); err != nil {
		return err
	}
	if err := w.WriteTranslations(pairs); err != nil {
		return err
	}
	if err := w.WriteAnalysis(words); err != nil {
		return err
	}
	for i, rec := range records {
		w.WriteArticleMarkdown(i, rec)
	}
	return nil
}

func (w *Writer) writeJSON(name string, v any) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("report: create %s: %w", w.dir, err)
	}

	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("report: marshal %s: %w", name, err)
	}

	path := filepath.Join(w.dir, name)
	if err := os.WriteFile(path, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("report: write %s: %w", path, err)
	}
	slog.Debug("artifact written", "path", path)
	return nil
}
