package advisor

import (
	"fmt"
	"math"
	"strconv"

	"production_advisor/internal/models"
)

// DetectOverloads flags each schedule entry whose required hours on its machine
// exceed the window budget. Entries with no matching machine, or whose machine
// has unknown capacity, are skipped. One recommendation per offending entry.
func DetectOverloads(machines []models.Machine, schedule []models.ScheduleEntry, cfg Config) []models.Recommendation {
	// first machine per operation wins
	byOperation := make(map[string]models.Machine, len(machines))
	for _, m := range machines {
		key := cfg.OperationMatch.operationKey(m.OperationName)
		if _, ok := byOperation[key]; !ok {
			byOperation[key] = m
		}
	}

	out := make([]models.Recommendation, 0)
	for _, e := range schedule {
		m, ok := byOperation[cfg.OperationMatch.operationKey(e.OperationName)]
		if !ok || !m.HasCapacity() {
			continue
		}
		required := RequiredHours(e.DurationHours, m.CapacityPerHour)
		if !(required > cfg.HoursAvailablePerWindow) {
			continue
		}
		out = append(out, models.Recommendation{
			Kind:      models.KindOverload,
			SubjectID: m.MachineID,
			Reason: fmt.Sprintf("Overload: Requires %s hours vs %s available",
				formatHours(math.Ceil(required)), formatHours(cfg.HoursAvailablePerWindow)),
			SuggestedAction: cfg.OverloadAction,
			Severity:        models.SeverityHigh,
			OperationName:   e.OperationName,
		})
	}
	return out
}

// RequiredHours is duration / capacity. Callers guarantee capacity > 0.
func RequiredHours(durationHours, capacityPerHour float64) float64 {
	return durationHours / capacityPerHour
}

func formatHours(h float64) string {
	return strconv.FormatFloat(h, 'f', -1, 64)
}
