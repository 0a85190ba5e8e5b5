package advisor

import (
	"testing"
	"time"

	"production_advisor/internal/models"

	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func testConfig(t *testing.T) Config {
	t.Helper()
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	return cfg
}

func machine(id, op string, capacity float64) models.Machine {
	return models.Machine{MachineID: id, OperationName: op, CapacityPerHour: capacity}
}

func entry(op string, hours float64) models.ScheduleEntry {
	return models.ScheduleEntry{OperationName: op, DurationHours: hours}
}

func orderDueIn(id string, d time.Duration) models.Order {
	return models.Order{OrderID: id, Quantity: 1, DeliveryDate: testNow.Add(d)}
}

func subjects(recs []models.Recommendation) []string {
	out := make([]string, len(recs))
	for i, r := range recs {
		out[i] = r.SubjectID
	}
	return out
}
