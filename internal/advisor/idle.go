package advisor

import (
	"fmt"

	"production_advisor/internal/models"
)

// DetectIdleMachines flags every machine whose operation has no schedule entry.
// Output follows machine input order; a machine id is flagged at most once.
func DetectIdleMachines(machines []models.Machine, schedule []models.ScheduleEntry, cfg Config) []models.Recommendation {
	scheduled := make(map[string]struct{}, len(schedule))
	for _, e := range schedule {
		scheduled[cfg.OperationMatch.operationKey(e.OperationName)] = struct{}{}
	}

	out := make([]models.Recommendation, 0)
	flagged := make(map[string]struct{})
	for _, m := range machines {
		if _, busy := scheduled[cfg.OperationMatch.operationKey(m.OperationName)]; busy {
			continue
		}
		if _, dup := flagged[m.MachineID]; dup {
			continue
		}
		flagged[m.MachineID] = struct{}{}

		out = append(out, models.Recommendation{
			Kind:            models.KindIdleMachine,
			SubjectID:       m.MachineID,
			Reason:          fmt.Sprintf("%s machine is currently idle", m.OperationName),
			SuggestedAction: cfg.IdleAction,
			Severity:        models.SeverityMedium,
			OperationName:   m.OperationName,
		})
	}
	return out
}
