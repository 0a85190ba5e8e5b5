package models

// Machine is a schedulable resource. OperationName joins it to schedule entries.
type Machine struct {
	MachineID       string  `json:"machine_id"`
	OperationName   string  `json:"operation_name"`
	CapacityPerHour float64 `json:"capacity_per_hour,omitempty"` // 0 = unknown
}

// HasCapacity reports whether the machine carries a usable capacity figure.
func (m Machine) HasCapacity() bool {
	return m.CapacityPerHour > 0
}
