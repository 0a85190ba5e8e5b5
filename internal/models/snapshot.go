package models

import "slices"

// Snapshot is a point-in-time read of the production plan.
// A nil collection means the producer did not supply it; an empty one means there is nothing in it.
type Snapshot struct {
	Orders   []Order         `json:"orders"`
	Machines []Machine       `json:"machines"`
	Schedule []ScheduleEntry `json:"schedule"`
}

// Clone returns a copy that shares no backing arrays with s. Nil collections stay nil.
func (s Snapshot) Clone() Snapshot {
	return Snapshot{
		Orders:   slices.Clone(s.Orders),
		Machines: slices.Clone(s.Machines),
		Schedule: slices.Clone(s.Schedule),
	}
}
