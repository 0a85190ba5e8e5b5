package service

import (
	"time"

	"production_advisor/internal/models"
	"production_advisor/internal/normalize"
)

// EvaluateInput is an inline snapshot submitted by a client.
type EvaluateInput struct {
	Shape   string                // "kera" | "legacy" | "canonical" (default)
	Raw     normalize.RawSnapshot // collections as delivered by the producer
	Now     time.Time             // zero means the service clock
	Persist bool                  // store the run so decisions can reference it
}

// DecisionParams identifies one recommendation of a run by its rank.
type DecisionParams struct {
	RunID  string
	Rank   int    // 0-based position in the run's recommendation list
	Action string // "ACCEPT" | "REJECT", case-insensitive
	Note   string
	UserID int
}

// TopN returns a copy of run keeping only the n most urgent recommendations.
// n <= 0 keeps everything.
func TopN(run *models.AnalysisRun, n int) *models.AnalysisRun {
	if run == nil {
		return nil
	}
	out := *run
	if n > 0 && n < len(run.Recommendations) {
		out.Recommendations = run.Recommendations[:n:n]
	}
	return &out
}
