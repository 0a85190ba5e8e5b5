package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"production_advisor/internal/advisor"
	"production_advisor/internal/models"
	"production_advisor/internal/normalize"
)

var testNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

// keraPlan has one idle machine, one overloaded machine, one critical and one
// fixed high-urgency order, plus one order without a delivery date.
func keraPlan() normalize.RawSnapshot {
	return normalize.RawSnapshot{
		Orders: []normalize.Record{
			{"orderId": "ORD-1", "item": "RUG", "quantity": 10.0, "deliveryDate": "2025-03-16T12:00:00Z"},
			{"orderId": "ORD-2", "item": "RUG", "quantity": 5.0, "deliveryDate": "2025-03-20T12:00:00Z", "fixed": true},
			{"orderId": "ORD-3", "item": "RUG"},
		},
		Machines: []normalize.Record{
			{"_id": "M-TUFT", "name": "TUFTING", "capacity": 10.0},
			{"_id": "M-DYE", "name": "DYEING", "capacity": 5.0},
		},
		Schedule: []normalize.Record{
			{"operation": "TUFTING", "duration": 200.0},
		},
	}
}

func newTestAnalysis(t *testing.T, runs *fakeRunRepo, fetcher Fetcher) *AnalysisService {
	t.Helper()
	engine, err := advisor.NewEngine(advisor.DefaultConfig())
	if err != nil {
		t.Fatalf("NewEngine: %v", err)
	}
	deps := Deps{
		Engine:        engine,
		UpstreamShape: normalize.ShapeKera,
		Now:           func() time.Time { return testNow },
	}
	if fetcher != nil {
		deps.Fetcher = fetcher
	}
	svc, err := NewAnalysisService(runs, deps)
	if err != nil {
		t.Fatalf("NewAnalysisService: %v", err)
	}
	return svc
}

func TestAnalysisRun_FetchNormalizeEvaluatePersist(t *testing.T) {
	runs := &fakeRunRepo{}
	svc := newTestAnalysis(t, runs, &fakeFetcher{raw: keraPlan()})

	run, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	if run.Origin != models.OriginUpstream || run.RunID == "" || !run.EvaluatedAt.Equal(testNow) {
		t.Fatalf("unexpected run header: %+v", run)
	}
	wantSubjects := []string{"ORD-1", "M-TUFT", "ORD-2", "M-DYE"}
	if len(run.Recommendations) != len(wantSubjects) {
		t.Fatalf("expected %d recommendations, got %+v", len(wantSubjects), run.Recommendations)
	}
	for i, want := range wantSubjects {
		if got := run.Recommendations[i].SubjectID; got != want {
			t.Fatalf("recommendation %d: subject %q, want %q", i, got, want)
		}
	}
	if run.Counts.RawOrders != 3 || run.Counts.Orders != 2 || run.Counts.Dropped != 1 {
		t.Fatalf("unexpected counts: %+v", run.Counts)
	}
	if run.Counts.ByKind[models.KindUrgentOrder] != 2 {
		t.Fatalf("expected 2 urgent orders in counts, got %v", run.Counts.ByKind)
	}
	if len(run.FixedOrders) != 1 || run.FixedOrders[0] != "ORD-2" {
		t.Fatalf("unexpected fixed orders: %v", run.FixedOrders)
	}
	if runs.count() != 1 {
		t.Fatalf("expected run to be persisted")
	}
}

func TestAnalysisRun_NoUpstream(t *testing.T) {
	svc := newTestAnalysis(t, &fakeRunRepo{}, nil)
	if _, err := svc.Run(context.Background()); !errors.Is(err, ErrNoUpstream) {
		t.Fatalf("expected ErrNoUpstream, got %v", err)
	}
}

func TestAnalysisRun_FetchErrorIsWrapped(t *testing.T) {
	fetchErr := errors.New("connection refused")
	svc := newTestAnalysis(t, &fakeRunRepo{}, &fakeFetcher{err: fetchErr})

	_, err := svc.Run(context.Background())
	if !errors.Is(err, ErrUpstreamUnavailable) || !errors.Is(err, fetchErr) {
		t.Fatalf("expected wrapped upstream error, got %v", err)
	}
}

func TestAnalysisRun_MissingCollectionIsInvalidInput(t *testing.T) {
	raw := keraPlan()
	raw.Schedule = nil
	svc := newTestAnalysis(t, &fakeRunRepo{}, &fakeFetcher{raw: raw})

	_, err := svc.Run(context.Background())
	if !errors.Is(err, ErrInvalidInput) || !errors.Is(err, advisor.ErrMissingCollection) {
		t.Fatalf("expected ErrInvalidInput wrapping ErrMissingCollection, got %v", err)
	}
}

func TestAnalysisRun_SaveError(t *testing.T) {
	svc := newTestAnalysis(t, &fakeRunRepo{saveErr: errors.New("locked")}, &fakeFetcher{raw: keraPlan()})
	if _, err := svc.Run(context.Background()); err == nil {
		t.Fatalf("expected save error")
	}
}

func TestAnalysisEvaluate_Inline(t *testing.T) {
	runs := &fakeRunRepo{}
	svc := newTestAnalysis(t, runs, nil)

	in := EvaluateInput{
		Shape: "canonical",
		Raw: normalize.RawSnapshot{
			Orders:   []normalize.Record{{"orderId": "A", "deliveryDate": "2025-03-17"}},
			Machines: []normalize.Record{},
			Schedule: []normalize.Record{},
		},
		Now: time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC),
	}
	run, err := svc.Evaluate(context.Background(), in)
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if run.Origin != models.OriginInline {
		t.Fatalf("origin = %q", run.Origin)
	}
	if len(run.Recommendations) != 1 || run.Recommendations[0].Reason != "Critical: Order due in 2 days" {
		t.Fatalf("unexpected recommendations: %+v", run.Recommendations)
	}
	if runs.count() != 0 {
		t.Fatalf("inline evaluation should not persist unless asked")
	}

	in.Persist = true
	if _, err := svc.Evaluate(context.Background(), in); err != nil {
		t.Fatalf("Evaluate persist: %v", err)
	}
	if runs.count() != 1 {
		t.Fatalf("expected persisted run")
	}
}

func TestAnalysisEvaluate_UnknownShape(t *testing.T) {
	svc := newTestAnalysis(t, &fakeRunRepo{}, nil)
	_, err := svc.Evaluate(context.Background(), EvaluateInput{Shape: "xml"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestAnalysisGetAndLatest(t *testing.T) {
	runs := &fakeRunRepo{}
	svc := newTestAnalysis(t, runs, nil)

	if _, err := svc.Latest(context.Background()); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound on empty store, got %v", err)
	}
	_ = runs.Save(context.Background(), models.AnalysisRun{RunID: "r1"})
	_ = runs.Save(context.Background(), models.AnalysisRun{RunID: "r2"})

	latest, err := svc.Latest(context.Background())
	if err != nil || latest.RunID != "r2" {
		t.Fatalf("Latest = %+v, %v", latest, err)
	}
	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrRunNotFound) {
		t.Fatalf("expected ErrRunNotFound, got %v", err)
	}
	list, err := svc.List(context.Background(), 1)
	if err != nil || len(list) != 1 || list[0].RunID != "r2" {
		t.Fatalf("List = %+v, %v", list, err)
	}
}

func TestAnalysisLatest_FutureInlineRunDoesNotPinLatest(t *testing.T) {
	runs := &fakeRunRepo{}
	svc := newTestAnalysis(t, runs, &fakeFetcher{raw: keraPlan()})
	clock := testNow
	svc.now = func() time.Time { return clock }

	whatIf, err := svc.Evaluate(context.Background(), EvaluateInput{
		Shape:   "kera",
		Raw:     keraPlan(),
		Now:     time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
		Persist: true,
	})
	if err != nil {
		t.Fatalf("Evaluate: %v", err)
	}
	if !whatIf.CreatedAt.Equal(testNow) {
		t.Fatalf("created_at = %v, want service clock %v", whatIf.CreatedAt, testNow)
	}
	if whatIf.EvaluatedAt.Year() != 2030 {
		t.Fatalf("evaluated_at should keep the requested instant, got %v", whatIf.EvaluatedAt)
	}

	clock = testNow.Add(time.Minute)
	polled, err := svc.Run(context.Background())
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	latest, err := svc.Latest(context.Background())
	if err != nil {
		t.Fatalf("Latest: %v", err)
	}
	if latest.RunID != polled.RunID {
		t.Fatalf("Latest = %s, want the upstream run %s", latest.RunID, polled.RunID)
	}
}

func TestTopN(t *testing.T) {
	run := &models.AnalysisRun{Recommendations: make([]models.Recommendation, 5)}

	if got := TopN(run, 2); len(got.Recommendations) != 2 {
		t.Fatalf("TopN(2) kept %d", len(got.Recommendations))
	}
	if got := TopN(run, 0); len(got.Recommendations) != 5 {
		t.Fatalf("TopN(0) kept %d", len(got.Recommendations))
	}
	if len(run.Recommendations) != 5 {
		t.Fatalf("TopN must not modify its input")
	}
	if TopN(nil, 3) != nil {
		t.Fatalf("TopN(nil) should be nil")
	}
}
