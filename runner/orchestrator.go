package runner

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/umbral-dev/gaceta/models"
)

// TargetRunner runs the pipeline for one target. It is expected to convert
// its own failures into RunResults; anything that still escapes is a defect
// handled at the orchestrator boundary.
type TargetRunner interface {
	Run(ctx context.Context, target models.TargetDescriptor) models.RunResult
}

// RunnerFunc adapts a function to the TargetRunner interface.
type RunnerFunc func(ctx context.Context, target models.TargetDescriptor) models.RunResult

// Run implements TargetRunner.
func (f RunnerFunc) Run(ctx context.Context, target models.TargetDescriptor) models.RunResult {
	return f(ctx, target)
}

// Orchestrator fans one TargetRunner out across a target matrix.
type Orchestrator struct {
	runner TargetRunner
}

// NewOrchestrator creates an Orchestrator.
func NewOrchestrator(r TargetRunner) *Orchestrator {
	return &Orchestrator{runner: r}
}

// RunAll runs every target concurrently, one goroutine per target with no
// queueing, and returns exactly one result per descriptor. Results are
// collected in completion order but returned in declaration order so callers
// see a stable sequence. A panic escaping a target run is converted into a
// StatusError result for that target; it never takes down the batch.
func (o *Orchestrator) RunAll(ctx context.Context, targets []models.TargetDescriptor) []models.RunResult {
	slog.Info("parallel run starting", "targets", len(targets))

	type indexed struct {
		idx    int
		result models.RunResult
	}
	done := make(chan indexed, len(targets))

	for i, target := range targets {
		go func(i int, target models.TargetDescriptor) {
			defer func() {
				if p := recover(); p != nil {
					slog.Error("target run panicked",
						"target", target.DisplayName, "panic", p)
					done <- indexed{i, models.RunResult{
						Target: target.DisplayName,
						Status: models.StatusError,
						Reason: fmt.Sprintf("internal error: %v", p),
					}}
				}
			}()
			done <- indexed{i, o.runner.Run(ctx, target)}
		}(i, target)
	}

	results := make([]models.RunResult, len(targets))
	for range targets {
		d := <-done
		results[d.idx] = d.result
		slog.Info("target finished",
			"target", results[d.idx].Target,
			"status", results[d.idx].Status,
			"reason", results[d.idx].Reason,
		)
	}

	summary := models.Summarize(results)
	slog.Info("parallel run finished", "passed", summary.Passed, "total", summary.Total)
	return results
}
