package models

import "time"

// Decision actions.
const (
	ActionAccept = "ACCEPT"
	ActionReject = "REJECT"
)

// Decision records a planner accepting or rejecting one recommendation of a run.
type Decision struct {
	DecisionID string    `json:"decision_id"`
	RunID      string    `json:"run_id"`
	Rank       int       `json:"rank"`   // position in the run's ordered list, 0-based
	Action     string    `json:"action"` // ACCEPT | REJECT
	Note       string    `json:"note,omitempty"`
	DecidedBy  int       `json:"decided_by"`
	DecidedAt  time.Time `json:"decided_at"`
}

// DecisionFilter narrows a decision listing. Zero values mean "any".
type DecisionFilter struct {
	From   time.Time
	To     time.Time
	Action string
	RunID  string
}
