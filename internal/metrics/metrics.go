// Package metrics holds the prometheus collectors exported on /metrics.
package metrics

import (
	"time"

	"production_advisor/internal/models"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	Evaluations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_evaluations_total",
			Help: "The total number of engine evaluations by input origin",
		},
		[]string{"origin"},
	)
	Recommendations = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_recommendations_total",
			Help: "The total number of recommendations produced",
		},
		[]string{"kind", "severity"},
	)
	NormalizeDropped = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_normalize_dropped_total",
			Help: "The total number of upstream records dropped during normalization",
		},
		[]string{"collection"},
	)
	UpstreamFetchFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_upstream_fetch_failures_total",
			Help: "The total number of failed upstream fetch attempts",
		},
		[]string{"collection"},
	)
	Decisions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "advisor_decisions_total",
			Help: "The total number of planner decisions recorded",
		},
		[]string{"action"},
	)
	EvaluationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "advisor_evaluation_duration_seconds",
			Help:    "Time spent normalizing and evaluating one snapshot",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14),
		},
	)
)

// ObserveRun records one finished evaluation.
func ObserveRun(run *models.AnalysisRun, took time.Duration) {
	Evaluations.WithLabelValues(run.Origin).Inc()
	EvaluationDuration.Observe(took.Seconds())
	for _, r := range run.Recommendations {
		Recommendations.WithLabelValues(string(r.Kind), string(r.Severity)).Inc()
	}
	for _, d := range run.Diagnostics {
		NormalizeDropped.WithLabelValues(d.Collection).Inc()
	}
}
