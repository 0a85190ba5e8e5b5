package models

import "time"

// Run origins.
const (
	OriginUpstream = "UPSTREAM"
	OriginInline   = "INLINE"
	OriginPoller   = "POLLER"
)

// Diagnostic describes one input record that was dropped during normalization.
type Diagnostic struct {
	Collection string `json:"collection"` // orders | machines | schedule
	Index      int    `json:"index"`
	RecordID   string `json:"record_id,omitempty"`
	Field      string `json:"field,omitempty"`
	Reason     string `json:"reason"`
}

// RunCounts summarizes the size of one evaluation pass.
type RunCounts struct {
	RawOrders   int              `json:"raw_orders"`
	RawMachines int              `json:"raw_machines"`
	RawSchedule int              `json:"raw_schedule"`
	Orders      int              `json:"orders"`
	Machines    int              `json:"machines"`
	Schedule    int              `json:"schedule"`
	Dropped     int              `json:"dropped"`
	ByKind      map[Kind]int     `json:"by_kind,omitempty"`
	BySeverity  map[Severity]int `json:"by_severity,omitempty"`
}

// AnalysisRun is the persisted result of one evaluation pass.
// EvaluatedAt is the instant the plan was judged against and may be caller supplied;
// CreatedAt is the service clock when the run was produced and orders stored runs.
type AnalysisRun struct {
	RunID           string           `json:"run_id"`
	EvaluatedAt     time.Time        `json:"evaluated_at"`
	CreatedAt       time.Time        `json:"created_at"`
	Origin          string           `json:"origin"` // UPSTREAM | INLINE | POLLER
	Recommendations []Recommendation `json:"recommendations"`
	Diagnostics     []Diagnostic     `json:"diagnostics,omitempty"`
	FixedOrders     []string         `json:"fixed_orders,omitempty"`
	Counts          RunCounts        `json:"counts"`
}

// RunSummary is the listing view of an AnalysisRun.
type RunSummary struct {
	RunID       string    `json:"run_id"`
	EvaluatedAt time.Time `json:"evaluated_at"`
	CreatedAt   time.Time `json:"created_at"`
	Origin      string    `json:"origin"`
	Counts      RunCounts `json:"counts"`
}
