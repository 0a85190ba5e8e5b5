package advisor

import (
	"cmp"
	"slices"

	"production_advisor/internal/models"
)

// Rank concatenates the groups in argument order and stable-sorts by severity,
// most urgent first. Ties keep their concatenation order. No deduplication.
func Rank(groups ...[]models.Recommendation) []models.Recommendation {
	total := 0
	for _, g := range groups {
		total += len(g)
	}
	out := make([]models.Recommendation, 0, total)
	for _, g := range groups {
		out = append(out, g...)
	}
	slices.SortStableFunc(out, func(a, b models.Recommendation) int {
		return cmp.Compare(a.Severity.Rank(), b.Severity.Rank())
	})
	return out
}

// Summarize counts recommendations by kind and by severity.
func Summarize(recs []models.Recommendation) (map[models.Kind]int, map[models.Severity]int) {
	byKind := make(map[models.Kind]int)
	bySeverity := make(map[models.Severity]int)
	for _, r := range recs {
		byKind[r.Kind]++
		bySeverity[r.Severity]++
	}
	return byKind, bySeverity
}

// FixedOrderIDs lists the ids of orders whose schedule is locked, in input order.
func FixedOrderIDs(orders []models.Order) []string {
	var ids []string
	for _, o := range orders {
		if o.IsFixed {
			ids = append(ids, o.OrderID)
		}
	}
	return ids
}
