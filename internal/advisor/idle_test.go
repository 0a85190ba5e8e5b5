package advisor

import (
	"testing"

	"production_advisor/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDetectIdleMachines_TuftingScenario(t *testing.T) {
	machines := []models.Machine{
		machine("TUFT-1", "TUFTING", 80),
		machine("CUT-1", "CUTTING", 10),
	}
	schedule := []models.ScheduleEntry{entry("CUTTING", 4)}

	recs := DetectIdleMachines(machines, schedule, testConfig(t))

	require.Len(t, recs, 1)
	r := recs[0]
	assert.Equal(t, models.KindIdleMachine, r.Kind)
	assert.Equal(t, "TUFT-1", r.SubjectID)
	assert.Equal(t, models.SeverityMedium, r.Severity)
	assert.Equal(t, "TUFTING machine is currently idle", r.Reason)
	assert.Equal(t, DefaultIdleAction, r.SuggestedAction)
	assert.Equal(t, "TUFTING", r.OperationName)
}

func TestDetectIdleMachines_AllIdleWhenNoSchedule(t *testing.T) {
	machines := []models.Machine{machine("A", "MIX", 1), machine("B", "CUT", 0), machine("C", "PACK", 5)}

	recs := DetectIdleMachines(machines, []models.ScheduleEntry{}, testConfig(t))

	assert.Equal(t, []string{"A", "B", "C"}, subjects(recs))
}

func TestDetectIdleMachines_SharedOperationBothBusy(t *testing.T) {
	machines := []models.Machine{machine("L1", "LOOM", 1), machine("L2", "LOOM", 1)}

	recs := DetectIdleMachines(machines, []models.ScheduleEntry{entry("LOOM", 1)}, testConfig(t))

	assert.Empty(t, recs)
}

func TestDetectIdleMachines_NoDoubleFlag(t *testing.T) {
	machines := []models.Machine{machine("X", "DYE", 1), machine("X", "DYE", 1)}

	recs := DetectIdleMachines(machines, nil, testConfig(t))

	assert.Equal(t, []string{"X"}, subjects(recs))
}

func TestDetectIdleMachines_CaseSensitiveByDefault(t *testing.T) {
	machines := []models.Machine{machine("T", "TUFTING", 1)}
	schedule := []models.ScheduleEntry{entry("tufting", 1)}

	exact := DetectIdleMachines(machines, schedule, testConfig(t))
	assert.Len(t, exact, 1)

	cfg := testConfig(t)
	cfg.OperationMatch = MatchFold
	folded := DetectIdleMachines(machines, schedule, cfg)
	assert.Empty(t, folded)
}

func TestDetectIdleMachines_Idempotent(t *testing.T) {
	machines := []models.Machine{machine("A", "MIX", 1), machine("B", "CUT", 1)}
	schedule := []models.ScheduleEntry{entry("CUT", 2)}
	cfg := testConfig(t)

	assert.Equal(t, DetectIdleMachines(machines, schedule, cfg), DetectIdleMachines(machines, schedule, cfg))
}
