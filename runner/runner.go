// Package runner executes the scrape → translate → analyze pipeline for one
// target and fans it out across the whole target matrix.
package runner

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"time"
	"unicode"

	"github.com/umbral-dev/gaceta/analyzer"
	"github.com/umbral-dev/gaceta/browser"
	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
	"github.com/umbral-dev/gaceta/report"
	"github.com/umbral-dev/gaceta/scraper"
	"github.com/umbral-dev/gaceta/translate"
)

// notifyTimeout bounds the status report back to the remote session; it must
// not be able to hang a finished run.
const notifyTimeout = 10 * time.Second

// Translator is the headline translation dependency.
type Translator interface {
	Titles(ctx context.Context, titles []string) []models.TranslationPair
}

// Runner executes the full pipeline for one target: create session, scrape,
// translate, analyze, persist artifacts, report status, close. One Runner is
// shared across concurrent targets; all per-run state lives on the stack.
type Runner struct {
	factory    *browser.Factory
	translator Translator
	scrapeCfg  config.ScrapeConfig
	outputCfg  config.OutputConfig
	remote     bool
}

// NewRunner creates a Runner. With remote set, sessions are negotiated on
// the hub and artifacts land in per-target subdirectories; otherwise a local
// browser is launched and artifacts go directly to the configured dirs.
func NewRunner(factory *browser.Factory, translator Translator, scrapeCfg config.ScrapeConfig, outputCfg config.OutputConfig, remote bool) *Runner {
	return &Runner{
		factory:    factory,
		translator: translator,
		scrapeCfg:  scrapeCfg,
		outputCfg:  outputCfg,
		remote:     remote,
	}
}

// LocalTarget is the synthetic descriptor used for single local runs.
func LocalTarget() models.TargetDescriptor {
	return models.TargetDescriptor{
		DisplayName: "Chrome (local)",
		PlatformOptions: map[string]string{
			models.OptBrowserName: "Chrome",
		},
	}
}

// Run executes the pipeline for one target and always produces a result.
// Whatever the outcome, the final verdict is reported to the session before
// it is closed, and the session is closed on every exit path.
func (r *Runner) Run(ctx context.Context, target models.TargetDescriptor) models.RunResult {
	log := slog.With("target", target.DisplayName)
	log.Info("run starting", "phase", "creating")

	sess, err := r.openSession(ctx, target)
	if err != nil {
		log.Error("session creation failed", "error", err)
		return models.RunResult{
			Target: target.DisplayName,
			Status: models.StatusFailed,
			Reason: fmt.Sprintf("session creation failed: %v", err),
		}
	}

	status := models.StatusFailed
	reason := ""
	defer func() {
		// The notification must not be cut short by a canceled run
		// context, and its failure must never mask the run's verdict.
		nctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), notifyTimeout)
		defer cancel()
		if err := sess.SetStatus(nctx, status, reason); err != nil {
			log.Warn("status notification failed", "error", err)
		}
		sess.Close()
		log.Info("run finished", "phase", "closed", "status", status)
	}()

	log.Info("scraping articles", "phase", "scraping")
	extractor := scraper.NewExtractor(r.scrapeCfg, scraper.NewImageFetcher(
		r.imagesDirFor(target), r.scrapeCfg.ImageTimeout))

	articles, err := extractor.ExtractAll(ctx, sess)
	if err != nil {
		reason = fmt.Sprintf("listing unreachable: %v", err)
		log.Error("scrape failed", "error", err)
		return models.RunResult{Target: target.DisplayName, Status: status, Reason: reason}
	}
	if len(articles) == 0 {
		reason = "could not scrape any articles"
		log.Error("scrape produced nothing")
		return models.RunResult{Target: target.DisplayName, Status: status, Reason: reason}
	}

	log.Info("translating headlines", "phase", "translating", "titles", len(articles))
	titles := make([]string, len(articles))
	for i, a := range articles {
		titles[i] = a.Title
	}
	pairs := r.translator.Titles(ctx, titles)

	log.Info("analyzing headlines", "phase", "analyzing")
	repeated := analyzer.FindRepeatedWords(translate.Translated(pairs))
	for _, wc := range analyzer.Sorted(repeated) {
		log.Info("repeated word", "word", wc.Word, "count", wc.Count)
	}

	r.persistArtifacts(target, articles, pairs, repeated, log)

	status = models.StatusPassed
	reason = fmt.Sprintf("scraped %d articles successfully", len(articles))
	log.Info("run passed", "phase", "reporting", "articles", len(articles))
	return models.RunResult{Target: target.DisplayName, Status: status, Reason: reason}
}

func (r *Runner) openSession(ctx context.Context, target models.TargetDescriptor) (*browser.Session, error) {
	if r.remote {
		return r.factory.NewRemote(ctx, target)
	}
	return r.factory.NewLocal(ctx, target)
}

// persistArtifacts writes the run's output files. Persistence problems are
// logged but never change the verdict: the scrape itself succeeded.
func (r *Runner) persistArtifacts(target models.TargetDescriptor, articles []models.ArticleRecord, pairs []models.TranslationPair, repeated map[string]int, log *slog.Logger) {
	w := report.NewWriter(r.outputDirFor(target))
	if err := w.WriteAll(articles, pairs, analyzer.Sorted(repeated)); err != nil {
		log.Warn("artifact persistence failed", "error", err)
	}
}

func (r *Runner) outputDirFor(target models.TargetDescriptor) string {
	if !r.remote {
		return r.outputCfg.Dir
	}
	return filepath.Join(r.outputCfg.Dir, slug(target.DisplayName))
}

func (r *Runner) imagesDirFor(target models.TargetDescriptor) string {
	if !r.remote {
		return r.outputCfg.ImagesDir
	}
	return filepath.Join(r.outputDirFor(target), "images")
}

// slug turns a display name into a filesystem-safe directory name.
func slug(name string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(name) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.Trim(b.String(), "-")
}
