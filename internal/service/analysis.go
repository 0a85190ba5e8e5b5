package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"production_advisor/internal/advisor"
	"production_advisor/internal/logger"
	"production_advisor/internal/metrics"
	"production_advisor/internal/models"
	"production_advisor/internal/normalize"
	"production_advisor/internal/repository"

	"github.com/google/uuid"
)

var (
	ErrRunNotFound         = errors.New("analysis run not found")
	ErrNoUpstream          = errors.New("no upstream source configured")
	ErrUpstreamUnavailable = errors.New("upstream source unavailable")
	ErrInvalidInput        = errors.New("invalid evaluation input")
)

type AnalysisService struct {
	runs       repository.RunRepo
	engine     *advisor.Engine
	fetcher    Fetcher
	normalizer *normalize.Normalizer
	log        *logger.Logger
	now        func() time.Time
}

func NewAnalysisService(runs repository.RunRepo, deps Deps) (*AnalysisService, error) {
	if deps.Engine == nil {
		return nil, errors.New("analysis service requires an engine")
	}
	n, err := normalize.New(deps.UpstreamShape)
	if err != nil {
		return nil, err
	}
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}
	return &AnalysisService{
		runs:       runs,
		engine:     deps.Engine,
		fetcher:    deps.Fetcher,
		normalizer: n,
		log:        deps.Log,
		now:        deps.Now,
	}, nil
}

// Run fetches the plan from upstream, evaluates it and stores the run.
func (s *AnalysisService) Run(ctx context.Context) (*models.AnalysisRun, error) {
	return s.runUpstream(ctx, models.OriginUpstream)
}

func (s *AnalysisService) runUpstream(ctx context.Context, origin string) (*models.AnalysisRun, error) {
	if s.fetcher == nil {
		return nil, ErrNoUpstream
	}
	raw, err := s.fetcher.Fetch(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUpstreamUnavailable, err)
	}
	return s.evaluate(ctx, s.normalizer, raw, s.now(), origin, true)
}

// Evaluate runs the engine over an inline snapshot.
func (s *AnalysisService) Evaluate(ctx context.Context, in EvaluateInput) (*models.AnalysisRun, error) {
	n, err := normalize.New(normalize.Shape(in.Shape))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
	}
	now := in.Now
	if now.IsZero() {
		now = s.now()
	}
	return s.evaluate(ctx, n, in.Raw, now, models.OriginInline, in.Persist)
}

func (s *AnalysisService) evaluate(
	ctx context.Context,
	n *normalize.Normalizer,
	raw normalize.RawSnapshot,
	now time.Time,
	origin string,
	persist bool,
) (*models.AnalysisRun, error) {
	start := time.Now()

	res := n.Normalize(raw)
	for _, d := range res.Diagnostics {
		s.log.Debugw("normalize_record_dropped",
			"collection", d.Collection, "index", d.Index, "record_id", d.RecordID,
			"field", d.Field, "reason", d.Reason)
	}

	recs, err := s.engine.Evaluate(&res.Snapshot, now)
	if err != nil {
		if errors.Is(err, advisor.ErrMissingCollection) {
			return nil, fmt.Errorf("%w: %w", ErrInvalidInput, err)
		}
		return nil, err
	}

	byKind, bySeverity := advisor.Summarize(recs)
	run := &models.AnalysisRun{
		RunID:           uuid.NewString(),
		EvaluatedAt:     now.UTC(),
		CreatedAt:       s.now().UTC(),
		Origin:          origin,
		Recommendations: recs,
		Diagnostics:     res.Diagnostics,
		FixedOrders:     advisor.FixedOrderIDs(res.Snapshot.Orders),
		Counts: models.RunCounts{
			RawOrders:   len(raw.Orders),
			RawMachines: len(raw.Machines),
			RawSchedule: len(raw.Schedule),
			Orders:      len(res.Snapshot.Orders),
			Machines:    len(res.Snapshot.Machines),
			Schedule:    len(res.Snapshot.Schedule),
			Dropped:     len(res.Diagnostics),
			ByKind:      byKind,
			BySeverity:  bySeverity,
		},
	}
	metrics.ObserveRun(run, time.Since(start))

	s.log.Infow("analysis_completed",
		"run_id", run.RunID,
		"origin", origin,
		"raw_orders", run.Counts.RawOrders,
		"raw_machines", run.Counts.RawMachines,
		"raw_schedule", run.Counts.RawSchedule,
		"dropped", run.Counts.Dropped,
		"recommendations", len(recs),
		"by_kind", byKind,
	)

	if persist {
		if err := s.runs.Save(ctx, *run); err != nil {
			return nil, fmt.Errorf("save run: %w", err)
		}
	}
	return run, nil
}

func (s *AnalysisService) Latest(ctx context.Context) (*models.AnalysisRun, error) {
	run, err := s.runs.Latest(ctx)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (s *AnalysisService) Get(ctx context.Context, runID string) (*models.AnalysisRun, error) {
	run, err := s.runs.Get(ctx, runID)
	if err != nil {
		return nil, err
	}
	if run == nil {
		return nil, ErrRunNotFound
	}
	return run, nil
}

func (s *AnalysisService) List(ctx context.Context, limit int) ([]models.RunSummary, error) {
	return s.runs.List(ctx, limit)
}
