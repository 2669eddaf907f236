// Package translate turns Spanish headlines into English through the
// RapidAPI translation endpoint. Every failure degrades to keeping the
// original text: translation problems never fail a run.
package translate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"golang.org/x/time/rate"

	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
)

// Translator is a rate-limited client for the translation API. It is safe
// for concurrent use: parallel target runs share one instance so the cache
// deduplicates identical headlines and the limiter bounds the combined rate.
type Translator struct {
	cfg     config.TranslateConfig
	client  *http.Client
	limiter *rate.Limiter
	cache   *resultCache
	baseURL string
}

// New creates a Translator from config.
func New(cfg config.TranslateConfig) *Translator {
	return &Translator{
		cfg:     cfg,
		client:  &http.Client{Timeout: cfg.Timeout},
		limiter: rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), max(cfg.Burst, 1)),
		cache:   newResultCache(),
		baseURL: "https://" + cfg.APIHost + "/api/v1/translator/text",
	}
}

// request and response mirror the RapidAPI wire format.
type request struct {
	From string `json:"from"`
	To   string `json:"to"`
	Text string `json:"text"`
}

type response struct {
	Trans string `json:"trans"`
}

// Titles translates each headline individually (the free tier rejects
// batches). A title that cannot be translated keeps its original text and
// the returned pair count always equals the input count.
func (t *Translator) Titles(ctx context.Context, titles []string) []models.TranslationPair {
	pairs := make([]models.TranslationPair, 0, len(titles))
	for _, title := range titles {
		translated, err := t.translate(ctx, title)
		if err != nil {
			slog.Warn("translation failed, keeping original", "title", title, "error", err)
			translated = title
		}
		pairs = append(pairs, models.TranslationPair{Original: title, Translated: translated})
	}
	return pairs
}

// Translated projects the translated side of the pairs.
func Translated(pairs []models.TranslationPair) []string {
	out := make([]string, len(pairs))
	for i, p := range pairs {
		out[i] = p.Translated
	}
	return out
}

func (t *Translator) translate(ctx context.Context, text string) (string, error) {
	if t.cfg.APIKey == "" {
		return "", models.NewScrapeError(models.ErrCodeTranslation, "no API key configured", nil)
	}
	if text == "" {
		return "", nil
	}

	if cached, ok := t.cache.get(text); ok {
		slog.Debug("translation cache hit", "title", text)
		return cached, nil
	}

	if err := t.limiter.Wait(ctx); err != nil {
		return "", err
	}

	body, err := json.Marshal(request{From: t.cfg.SourceLang, To: t.cfg.DestLang, Text: text})
	if err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, t.baseURL, bytes.NewReader(body))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-rapidapi-host", t.cfg.APIHost)
	req.Header.Set("x-rapidapi-key", t.cfg.APIKey)

	resp, err := t.client.Do(req)
	if err != nil {
		return "", models.NewScrapeError(models.ErrCodeTranslation, "request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", models.NewScrapeError(models.ErrCodeTranslation,
			fmt.Sprintf("endpoint returned status %d", resp.StatusCode), nil)
	}

	var parsed response
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&parsed); err != nil {
		return "", models.NewScrapeError(models.ErrCodeTranslation, "unparseable response", err)
	}
	if parsed.Trans == "" {
		// The endpoint answered but without a translation; keep the original.
		return text, nil
	}

	t.cache.set(text, parsed.Trans)
	return parsed.Trans, nil
}
