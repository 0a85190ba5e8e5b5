package advisor

import (
	"errors"
	"fmt"
	"time"

	"production_advisor/internal/models"

	"golang.org/x/sync/errgroup"
)

var (
	// ErrNilSnapshot means the caller supplied no snapshot at all.
	ErrNilSnapshot = errors.New("snapshot is nil")
	// ErrMissingCollection means one of the three collections was absent (nil), not empty.
	ErrMissingCollection = errors.New("snapshot collection missing")
)

// Engine evaluates plan snapshots. It holds only its config and is safe for concurrent use.
type Engine struct {
	cfg Config
}

// NewEngine validates cfg and returns an engine bound to it.
func NewEngine(cfg Config) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Engine{cfg: cfg}, nil
}

// Config returns a copy of the engine configuration.
func (e *Engine) Config() Config {
	return e.cfg
}

// Evaluate runs the three detectors over snap and returns the ranked recommendations.
// The snapshot is copied first, so the caller may mutate it afterwards.
func (e *Engine) Evaluate(snap *models.Snapshot, now time.Time) ([]models.Recommendation, error) {
	if err := checkSnapshot(snap); err != nil {
		return nil, err
	}
	in := snap.Clone()

	var idle, overloads, urgent []models.Recommendation
	detectIdle := func() error {
		idle = DetectIdleMachines(in.Machines, in.Schedule, e.cfg)
		return nil
	}
	detectOverloads := func() error {
		overloads = DetectOverloads(in.Machines, in.Schedule, e.cfg)
		return nil
	}
	detectUrgent := func() error {
		urgent = DetectUrgentOrders(in.Orders, now, e.cfg)
		return nil
	}

	if e.cfg.ConcurrentDetectors {
		var g errgroup.Group
		g.Go(detectIdle)
		g.Go(detectOverloads)
		g.Go(detectUrgent)
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		_ = detectIdle()
		_ = detectOverloads()
		_ = detectUrgent()
	}

	return Rank(idle, overloads, urgent), nil
}

// Evaluate is a one-shot helper that builds an engine from cfg and evaluates snap.
func Evaluate(snap *models.Snapshot, now time.Time, cfg Config) ([]models.Recommendation, error) {
	e, err := NewEngine(cfg)
	if err != nil {
		return nil, err
	}
	return e.Evaluate(snap, now)
}

func checkSnapshot(snap *models.Snapshot) error {
	if snap == nil {
		return ErrNilSnapshot
	}
	switch {
	case snap.Orders == nil:
		return fmt.Errorf("%w: orders", ErrMissingCollection)
	case snap.Machines == nil:
		return fmt.Errorf("%w: machines", ErrMissingCollection)
	case snap.Schedule == nil:
		return fmt.Errorf("%w: schedule", ErrMissingCollection)
	}
	return nil
}
