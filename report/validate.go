package report

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/umbral-dev/gaceta/models"
)

// minImageBytes is the size below which a downloaded cover image is
// considered a broken download rather than a real picture.
const minImageBytes = 1000

// Check is one validation assertion over the persisted artifacts.
type Check struct {
	Name   string `json:"name"`
	Passed bool   `json:"passed"`
	Detail string `json:"detail,omitempty"`
}

// Report is the outcome of validating one run's artifacts.
type Report struct {
	GeneratedAt time.Time `json:"generated_at"`
	Passed      int       `json:"passed"`
	Failed      int       `json:"failed"`
	Checks      []Check   `json:"checks"`
}

// Ok reports whether every check passed.
func (r Report) Ok() bool {
	return r.Failed == 0
}

func (r *Report) check(name string, passed bool, detail string) {
	if passed {
		r.Passed++
	} else {
		r.Failed++
	}
	r.Checks = append(r.Checks, Check{Name: name, Passed: passed, Detail: detail})
}

// Validate inspects the artifacts of the latest run: file presence, JSON
// validity, per-article field completeness, translation completeness and
// downloaded image plausibility. wantArticles is the configured article
// count the run aimed for.
func Validate(outputDir, imagesDir string, wantArticles int) Report {
	r := Report{GeneratedAt: time.Now().UTC()}

	r.validateArticles(outputDir, wantArticles)
	r.validateTranslations(outputDir, wantArticles)
	r.validateAnalysis(outputDir)
	r.validateImages(imagesDir)

	return r
}

func (r *Report) validateArticles(outputDir string, want int) {
	var articles []models.ArticleRecord
	if !r.loadJSON(outputDir, ArticlesFile, &articles) {
		return
	}

	r.check("article count", len(articles) == want,
		fmt.Sprintf("found %d, want %d", len(articles), want))

	for i, a := range articles {
		label := fmt.Sprintf("article %d", i+1)
		r.check(label+" has title",
			a.Title != "" && a.Title != models.TitleSentinel, a.Title)
		r.check(label+" has content",
			a.Content != "" && a.Content != models.ContentSentinel,
			fmt.Sprintf("%d chars", len(a.Content)))
		r.check(label+" has url", a.URL != "", a.URL)
	}
}

func (r *Report) validateTranslations(outputDir string, want int) {
	var pairs []models.TranslationPair
	if !r.loadJSON(outputDir, TranslationsFile, &pairs) {
		return
	}

	r.check("translation count", len(pairs) == want,
		fmt.Sprintf("found %d, want %d", len(pairs), want))

	for i, p := range pairs {
		// A pair counts as completed when both sides are present and the
		// translation actually changed the text.
		done := p.Original != "" && p.Translated != "" && p.Original != p.Translated
		r.check(fmt.Sprintf("translation %d completed", i+1), done, p.Translated)
	}
}

func (r *Report) validateAnalysis(outputDir string) {
	var words []models.WordCount
	if !r.loadJSON(outputDir, AnalysisFile, &words) {
		return
	}

	sorted := true
	for i := 1; i < len(words); i++ {
		if words[i].Count > words[i-1].Count {
			sorted = false
			break
		}
	}
	r.check("analysis ordered by count", sorted, fmt.Sprintf("%d entries", len(words)))

	for _, w := range words {
		if w.Count <= 2 || len(w.Word) <= 1 {
			r.check("analysis entry above threshold", false,
				fmt.Sprintf("%q x%d", w.Word, w.Count))
			return
		}
	}
	r.check("analysis entries above threshold", true, "")
}

func (r *Report) validateImages(imagesDir string) {
	entries, err := os.ReadDir(imagesDir)
	if err != nil {
		// Opinion pieces are often text-only; a missing images dir is
		// informational, not a failure.
		r.check("images downloaded", true, "no images directory")
		return
	}

	count := 0
	for _, e := range entries {
		name := e.Name()
		if !strings.HasSuffix(name, ".jpg") && !strings.HasSuffix(name, ".png") &&
			!strings.HasSuffix(name, ".webp") {
			continue
		}
		count++
		info, err := e.Info()
		ok := err == nil && info.Size() > minImageBytes
		detail := name
		if err == nil {
			detail = fmt.Sprintf("%s (%d bytes)", name, info.Size())
		}
		r.check("image plausible", ok, detail)
	}
	r.check("images downloaded", true, fmt.Sprintf("found %d", count))
}

// loadJSON records presence and validity checks for an artifact and decodes
// it into v. Returns false when the follow-up checks cannot run.
func (r *Report) loadJSON(dir, name string, v any) bool {
	path := filepath.Join(dir, name)
	raw, err := os.ReadFile(path)
	if err != nil {
		r.check(name+" exists", false, err.Error())
		return false
	}
	r.check(name+" exists", true, "")

	if err := json.Unmarshal(raw, v); err != nil {
		r.check(name+" valid JSON", false, err.Error())
		return false
	}
	r.check(name+" valid JSON", true, "")
	return true
}
