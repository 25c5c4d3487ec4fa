package orchestrator

import (
	"fmt"

	"sqlnamer/internal/audit"
)

func (r *Report) add(result Result) {
	r.Results = append(r.Results, result)
	switch result.Outcome {
	case OutcomeRenamed:
		r.Renamed++
	case OutcomeUnchanged:
		r.Unchanged++
	case OutcomeFailed:
		r.Failed++
	}
}

// Planned returns how many files a dry run would rename.
func (r *Report) Planned() int {
	n := 0
	for _, res := range r.Results {
		if res.Outcome == OutcomePlanned {
			n++
		}
	}
	return n
}

// Summary renders the closing line of a batch.
func (r *Report) Summary() string {
	switch {
	case r.Declined:
		return "Rename cancelled."
	case r.DryRun:
		return fmt.Sprintf("Dry run: %d of %d files would be renamed.", r.Planned(), r.Total)
	default:
		return fmt.Sprintf("Done! %d of %d files renamed.", r.Renamed, r.Total)
	}
}

// HasErrors returns true if any rename failed.
func (r *Report) HasErrors() bool {
	return r.Failed > 0
}

func (r *Report) runStatus() audit.RunStatus {
	switch {
	case r.Declined:
		return audit.RunStatusDeclined
	case r.HasErrors():
		return audit.RunStatusFailed
	default:
		return audit.RunStatusCompleted
	}
}

func (r *Report) auditSummary() audit.RunSummary {
	return audit.RunSummary{
		TotalFiles: r.Total,
		Renamed:    r.Renamed,
		Unchanged:  r.Unchanged,
		Errors:     r.Failed,
	}
}
