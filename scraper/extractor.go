// Package scraper extracts opinion articles from a news-site listing page.
//
// Navigation, consent handling and the language check go through the browser
// session; the extraction itself runs over the rendered HTML with ordered
// selector fallback chains, so partial or alternate page templates degrade
// to weaker selectors instead of failing the run.
package scraper

import (
	"context"
	"log/slog"
	"net/url"
	"strings"
	"time"

	"github.com/umbral-dev/gaceta/browser"
	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
)

// consentButton is the id of the cookie-consent accept button the site shows
// on first visit. Absence within the timeout is a normal outcome.
const consentButton = "#didomi-notice-agree-button"

// Extractor pulls article links and article records out of a session.
type Extractor struct {
	cfg    config.ScrapeConfig
	images *ImageFetcher
}

// NewExtractor creates an Extractor. images may be nil, in which case cover
// images are skipped entirely.
func NewExtractor(cfg config.ScrapeConfig, images *ImageFetcher) *Extractor {
	return &Extractor{cfg: cfg, images: images}
}

// ListArticleLinks opens the listing page and returns up to
// cfg.ArticleCount article URLs in page order. An empty slice is a valid
// result; an error is returned only when the listing itself cannot be
// reached or read.
func (e *Extractor) ListArticleLinks(ctx context.Context, sess *browser.Session) ([]string, error) {
	navCtx, cancel := context.WithTimeout(ctx, e.cfg.NavigationTimeout)
	defer cancel()

	slog.Info("opening listing", "url", e.cfg.ListingURL)
	if err := sess.Navigate(navCtx, e.cfg.ListingURL); err != nil {
		return nil, err
	}

	e.dismissConsent(ctx, sess)
	e.checkLanguage(ctx, sess)

	html, err := sess.HTML(ctx)
	if err != nil {
		return nil, err
	}

	links := collectArticleLinks(html, e.cfg.ListingURL, e.cfg.ArticleCount)
	slog.Info("listing parsed", "links", len(links), "wanted", e.cfg.ArticleCount)
	return links, nil
}

// ExtractArticle visits one article page and produces its record. It never
// fails: every extraction point degrades to a sentinel or an absent value.
// idx keys the cover-image filename.
func (e *Extractor) ExtractArticle(ctx context.Context, sess *browser.Session, articleURL string, idx int) models.ArticleRecord {
	navCtx, cancel := context.WithTimeout(ctx, e.cfg.NavigationTimeout)
	defer cancel()

	if err := sess.Navigate(navCtx, articleURL); err != nil {
		slog.Warn("article navigation failed", "url", articleURL, "error", err)
		return models.ArticleRecord{
			URL:     articleURL,
			Title:   models.TitleSentinel,
			Content: models.ContentSentinel,
		}
	}

	// Give slow templates a chance to render the headline before grabbing
	// the DOM; a miss is fine, the fallback chain handles it.
	sess.WaitFor(ctx, "h1", 10*time.Second)

	html, err := sess.HTML(ctx)
	if err != nil {
		slog.Warn("article HTML read failed", "url", articleURL, "error", err)
		return models.ArticleRecord{
			URL:     articleURL,
			Title:   models.TitleSentinel,
			Content: models.ContentSentinel,
		}
	}

	record, coverURL := parseArticle(html, articleURL)

	if coverURL != "" && e.images != nil {
		record.ImagePath = e.images.Fetch(ctx, coverURL, idx)
	}
	return record
}

// ExtractAll runs ListArticleLinks and then ExtractArticle for each link.
func (e *Extractor) ExtractAll(ctx context.Context, sess *browser.Session) ([]models.ArticleRecord, error) {
	links, err := e.ListArticleLinks(ctx, sess)
	if err != nil {
		return nil, err
	}

	records := make([]models.ArticleRecord, 0, len(links))
	for i, link := range links {
		slog.Info("extracting article", "index", i+1, "total", len(links), "url", link)
		rec := e.ExtractArticle(ctx, sess, link, i)
		slog.Info("article extracted",
			"index", i+1,
			"title", rec.Title,
			"contentChars", len(rec.Content),
			"image", rec.ImagePath != "",
		)
		records = append(records, rec)
	}
	return records, nil
}

// dismissConsent clicks the cookie-consent banner if it shows up within the
// configured window. No banner is the common case on repeat visits.
func (e *Extractor) dismissConsent(ctx context.Context, sess *browser.Session) {
	if err := sess.ClickFirst(ctx, consentButton, e.cfg.ConsentTimeout); err != nil {
		slog.Debug("no consent banner", "error", err)
		return
	}
	slog.Info("consent banner accepted")
}

// checkLanguage verifies the page declares the expected source language.
// Verification only: a mismatch is logged and the run continues.
func (e *Extractor) checkLanguage(ctx context.Context, sess *browser.Session) {
	lang := sess.PageLang(ctx)
	if strings.HasPrefix(lang, e.cfg.SourceLang) {
		slog.Info("page language verified", "lang", lang)
		return
	}
	slog.Warn("unexpected page language, continuing anyway",
		"want", e.cfg.SourceLang, "got", lang)
}

// listingPathPrefix derives the path prefix used by the fallback link
// selector from the listing URL, e.g. "/opinion/".
func listingPathPrefix(listingURL string) string {
	u, err := url.Parse(listingURL)
	if err != nil || u.Path == "" || u.Path == "/" {
		return "/"
	}
	p := u.Path
	if !strings.HasSuffix(p, "/") {
		p += "/"
	}
	return p
}
