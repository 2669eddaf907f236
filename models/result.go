package models

// RunStatus is the final verdict of one target run.
type RunStatus string

const (
	// StatusPassed means the pipeline completed and at least one article
	// was extracted.
	StatusPassed RunStatus = "passed"

	// StatusFailed means the run terminated on an expected target-fatal
	// condition: session negotiation failed or zero articles came back.
	StatusFailed RunStatus = "failed"

	// StatusError means a defect escaped the target runner and was caught
	// at the orchestrator boundary.
	StatusError RunStatus = "error"
)

// RunResult is produced exactly once per configured target. The orchestrator
// never drops one: a panic or escaped error is converted into a StatusError
// result for its target.
type RunResult struct {
	Target string    `json:"target"`
	Status RunStatus `json:"status"`
	Reason string    `json:"reason"`
}

// Passed reports whether the run ended with StatusPassed.
func (r RunResult) Passed() bool {
	return r.Status == StatusPassed
}

// Summary aggregates the outcome of a multi-target run.
type Summary struct {
	Passed  int         `json:"passed"`
	Total   int         `json:"total"`
	Results []RunResult `json:"results"`
}

// Summarize counts passed results and wraps them for reporting.
func Summarize(results []RunResult) Summary {
	s := Summary{Total: len(results), Results: results}
	for _, r := range results {
		if r.Passed() {
			s.Passed++
		}
	}
	return s
}
