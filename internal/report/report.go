// Package report accumulates validation outcomes for a run and renders them
// as a markdown document. A report is mutable while the run is in flight and
// finalized exactly once before rendering.
package report

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/catalog-tools/catqa/internal/validate"
)

// Report is the ordered collection of per-record results plus summary
// counts for one formatter run.
type Report struct {
	RunID       string
	GeneratedAt time.Time

	TotalModels     int
	ProcessedModels int
	FailedModels    int

	// order preserves first-seen model order for rendering.
	order  []string
	issues map[string][]validate.Issue

	Errors []string

	finalized bool
}

// New creates an empty report with a fresh run ID.
func New() *Report {
	return &Report{
		RunID:  uuid.NewString(),
		issues: make(map[string][]validate.Issue),
	}
}

// AddResult folds one validation result into the report.
func (r *Report) AddResult(res validate.Result) {
	if r.finalized {
		return
	}
	if res.Failed {
		r.FailedModels++
		if res.Err != nil {
			r.Errors = append(r.Errors, res.Err.Error())
		}
		return
	}
	r.ProcessedModels++
	if len(res.Issues) > 0 {
		if _, seen := r.issues[res.Model]; !seen {
			r.order = append(r.order, res.Model)
		}
		r.issues[res.Model] = append(r.issues[res.Model], res.Issues...)
	}
}

// AddError records a run-level error (unparseable file, degraded AI batch).
func (r *Report) AddError(format string, args ...interface{}) {
	if r.finalized {
		return
	}
	r.Errors = append(r.Errors, fmt.Sprintf(format, args...))
}

// TotalIssues returns the number of recorded fixes across all models.
func (r *Report) TotalIssues() int {
	n := 0
	for _, list := range r.issues {
		n += len(list)
	}
	return n
}

// AIUsedCount returns how many fixes were produced by the AI cleaner.
func (r *Report) AIUsedCount() int {
	n := 0
	for _, list := range r.issues {
		for _, i := range list {
			if i.AIUsed {
				n++
			}
		}
	}
	return n
}

// Finalize stamps the generation time and freezes the report. Further
// AddResult/AddError calls are ignored.
func (r *Report) Finalize() {
	if r.finalized {
		return
	}
	r.GeneratedAt = time.Now()
	r.finalized = true
}

// Finalized reports whether Finalize has been called.
func (r *Report) Finalized() bool { return r.finalized }
