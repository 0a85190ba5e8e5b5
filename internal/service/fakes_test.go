package service

import (
	"context"
	"sort"
	"sync"

	"production_advisor/internal/models"
	"production_advisor/internal/normalize"
)

// fakeRunRepo is an in-memory repository.RunRepo.
type fakeRunRepo struct {
	mu      sync.Mutex
	runs    []models.AnalysisRun
	saveErr error
	getErr  error
}

func (f *fakeRunRepo) Save(_ context.Context, run models.AnalysisRun) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.saveErr != nil {
		return f.saveErr
	}
	f.runs = append(f.runs, run)
	return nil
}

func (f *fakeRunRepo) Get(_ context.Context, id string) (*models.AnalysisRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	for i := range f.runs {
		if f.runs[i].RunID == id {
			r := f.runs[i]
			return &r, nil
		}
	}
	return nil, nil
}

// newestFirst mirrors the sqlite ordering: created_at DESC, then insertion DESC.
func (f *fakeRunRepo) newestFirst() []models.AnalysisRun {
	out := make([]models.AnalysisRun, 0, len(f.runs))
	for i := len(f.runs) - 1; i >= 0; i-- {
		out = append(out, f.runs[i])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (f *fakeRunRepo) Latest(_ context.Context) (*models.AnalysisRun, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.runs) == 0 {
		return nil, nil
	}
	r := f.newestFirst()[0]
	return &r, nil
}

func (f *fakeRunRepo) List(_ context.Context, limit int) ([]models.RunSummary, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.RunSummary, 0, len(f.runs))
	for _, r := range f.newestFirst() {
		if limit > 0 && len(out) >= limit {
			break
		}
		out = append(out, models.RunSummary{RunID: r.RunID, EvaluatedAt: r.EvaluatedAt, CreatedAt: r.CreatedAt, Origin: r.Origin, Counts: r.Counts})
	}
	return out, nil
}

func (f *fakeRunRepo) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.runs)
}

// fakeDecisionRepo records appended decisions and echoes them back.
type fakeDecisionRepo struct {
	appended  []models.Decision
	gotFilter models.DecisionFilter
	appendErr error
}

func (f *fakeDecisionRepo) Append(_ context.Context, d models.Decision) (models.Decision, error) {
	if f.appendErr != nil {
		return models.Decision{}, f.appendErr
	}
	d.DecisionID = "d-" + d.RunID
	f.appended = append(f.appended, d)
	return d, nil
}

func (f *fakeDecisionRepo) List(_ context.Context, filter models.DecisionFilter) ([]models.Decision, error) {
	f.gotFilter = filter
	return f.appended, nil
}

// fakeFetcher returns a fixed payload or error.
type fakeFetcher struct {
	mu    sync.Mutex
	raw   normalize.RawSnapshot
	err   error
	calls int
}

func (f *fakeFetcher) Fetch(_ context.Context) (normalize.RawSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.raw, f.err
}

func (f *fakeFetcher) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}
