package advisor

import (
	"fmt"
	"math"
	"time"

	"production_advisor/internal/models"
)

// DaysUntil returns ceil((delivery - now) / 24h). Past deliveries give zero or negative values.
func DaysUntil(delivery, now time.Time) int {
	return int(math.Ceil(delivery.Sub(now).Hours() / 24))
}

// DetectUrgentOrders flags orders due within the configured thresholds.
// Fixed orders are evaluated like any other.
func DetectUrgentOrders(orders []models.Order, now time.Time, cfg Config) []models.Recommendation {
	out := make([]models.Recommendation, 0)
	for _, o := range orders {
		days := DaysUntil(o.DeliveryDate, now)
		switch {
		case days <= cfg.CriticalWithinDays:
			out = append(out, models.Recommendation{
				Kind:            models.KindUrgentOrder,
				SubjectID:       o.OrderID,
				Reason:          fmt.Sprintf("Critical: Order due in %d days", days),
				SuggestedAction: cfg.CriticalAction,
				Severity:        models.SeverityCritical,
			})
		case days <= cfg.HighWithinDays:
			out = append(out, models.Recommendation{
				Kind:            models.KindUrgentOrder,
				SubjectID:       o.OrderID,
				Reason:          fmt.Sprintf("Order due in %d days", days),
				SuggestedAction: cfg.HighAction,
				Severity:        models.SeverityHigh,
			})
		}
	}
	return out
}
