package models

import "time"

// ScheduleEntry is one planned unit of work assigned to an operation.
type ScheduleEntry struct {
	OperationName string    `json:"operation_name"`
	Quantity      int       `json:"quantity"`
	DurationHours float64   `json:"duration_hours"`
	StartTime     time.Time `json:"start_time,omitempty"` // zero when the producer omitted it
	EndTime       time.Time `json:"end_time,omitempty"`
}
