package models

// Kind identifies which condition produced a recommendation.
type Kind string

const (
	KindIdleMachine Kind = "IdleMachine"
	KindOverload    Kind = "Overload"
	KindUrgentOrder Kind = "UrgentOrder"
)

// Severity is the ranked urgency of a recommendation.
type Severity string

const (
	SeverityCritical Severity = "Critical"
	SeverityHigh     Severity = "High"
	SeverityMedium   Severity = "Medium"
)

// Rank returns the sort position of the severity (lower = more urgent).
// Unknown severities sort after Medium.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 0
	case SeverityHigh:
		return 1
	case SeverityMedium:
		return 2
	default:
		return 3
	}
}

// Recommendation is one detected condition with a proposed next step.
type Recommendation struct {
	Kind            Kind     `json:"kind"`       // IdleMachine | Overload | UrgentOrder
	SubjectID       string   `json:"subject_id"` // machine id or order id depending on Kind
	Reason          string   `json:"reason"`
	SuggestedAction string   `json:"suggested_action"`
	Severity        Severity `json:"severity"` // Critical | High | Medium
	OperationName   string   `json:"operation_name,omitempty"`
}
