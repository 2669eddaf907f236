package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/umbral-dev/gaceta/api"
	"github.com/umbral-dev/gaceta/browser"
	"github.com/umbral-dev/gaceta/config"
	"github.com/umbral-dev/gaceta/models"
	"github.com/umbral-dev/gaceta/report"
	"github.com/umbral-dev/gaceta/runner"
	"github.com/umbral-dev/gaceta/translate"
	"github.com/umbral-dev/gaceta/webhook"
)

func main() {
	var (
		local  = flag.Bool("local", false, "run the scrape once against a local headless browser")
		remote = flag.Bool("remote", false, "fan the scrape out across the remote target matrix")
		serve  = flag.Bool("serve", false, "serve the artifacts of the last run over HTTP")
	)
	flag.Parse()

	if !*local && !*remote && !*serve {
		fmt.Fprintln(os.Stderr, "usage: gaceta [--local | --remote] [--serve]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	// ── 1. Load configuration ───────────────────────────────────────
	cfg := config.Load()

	// ── 2. Initialise structured logging ────────────────────────────
	initLogger(cfg.Log)
	slog.Info("gaceta starting",
		"listing", cfg.Scrape.ListingURL,
		"articles", cfg.Scrape.ArticleCount,
		"local", *local,
		"remote", *remote,
		"serve", *serve,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	exitCode := 0
	switch {
	case *local:
		if !runLocal(ctx, cfg) {
			exitCode = 1
		}
	case *remote:
		if !runRemote(ctx, cfg) {
			exitCode = 1
		}
	}

	if *serve {
		serveReports(ctx, cfg)
	}

	slog.Info("gaceta stopped")
	os.Exit(exitCode)
}

// runLocal performs a single run against a local headless browser and
// validates the produced artifacts. Returns true when the run and every
// validation check passed.
func runLocal(ctx context.Context, cfg *config.Config) bool {
	factory := browser.NewFactory(cfg.Browser, cfg.Remote)
	translator := translate.New(cfg.Translate)
	r := runner.NewRunner(factory, translator, cfg.Scrape, cfg.Output, false)

	result := r.Run(ctx, runner.LocalTarget())
	slog.Info("local run finished", "status", result.Status, "reason", result.Reason)

	rep := report.Validate(cfg.Output.Dir, cfg.Output.ImagesDir, cfg.Scrape.ArticleCount)
	printValidation(rep)
	if err := report.NewWriter(cfg.Output.Dir).WriteReport(rep); err != nil {
		slog.Warn("failed to persist validation report", "error", err)
	}

	return result.Passed() && rep.Ok()
}

// runRemote fans the scrape out across the target matrix, one session
// per target in parallel, and reports the aggregate outcome.
func runRemote(ctx context.Context, cfg *config.Config) bool {
	targets, err := config.LoadTargets(cfg.Remote.TargetsFile)
	if err != nil {
		slog.Error("failed to load target matrix", "error", err)
		return false
	}

	factory := browser.NewFactory(cfg.Browser, cfg.Remote)
	translator := translate.New(cfg.Translate)
	r := runner.NewRunner(factory, translator, cfg.Scrape, cfg.Output, true)

	summary := models.Summarize(runner.NewOrchestrator(r).RunAll(ctx, targets))

	// Delivery blocks until done: a detached send would race process exit.
	if cfg.Webhook.URL != "" {
		event := webhook.NewRunCompleted(summary)
		if err := webhook.DeliverWithRetry(ctx, cfg.Webhook.URL, cfg.Webhook.Secret, event); err != nil {
			slog.Warn("run summary webhook not delivered", "error", err)
		}
	}

	return summary.Passed == summary.Total
}

// serveReports exposes the run artifacts over HTTP until interrupted.
func serveReports(ctx context.Context, cfg *config.Config) {
	router := api.NewRouter(cfg, time.Now())

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:    addr,
		Handler: router,
	}

	go func() {
		slog.Info("report server listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("report server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received")

	// Give in-flight requests 5 seconds to complete.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("report server forced shutdown", "error", err)
	} else {
		slog.Info("report server drained gracefully")
	}
}

func printValidation(rep report.Report) {
	for _, c := range rep.Checks {
		mark := "PASS"
		if !c.Passed {
			mark = "FAIL"
		}
		fmt.Printf("[%s] %-28s %s\n", mark, c.Name, c.Detail)
	}
	fmt.Printf("validation: %d passed, %d failed\n", rep.Passed, rep.Failed)
}

// initLogger configures slog based on the LogConfig.
func initLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.Level {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Format == "json" {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		handler = slog.NewTextHandler(os.Stdout, opts)
	}

	slog.SetDefault(slog.New(handler))
}
