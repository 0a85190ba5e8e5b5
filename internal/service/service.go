package service

import (
	"context"
	"time"

	"production_advisor/internal/advisor"
	"production_advisor/internal/logger"
	"production_advisor/internal/models"
	"production_advisor/internal/normalize"
	"production_advisor/internal/repository"
)

type Authorization interface {
	SignUp(username, password string) (int, error)
	GenerateToken(username, password string) (string, error)
	ParseToken(accessToken string) (int, error)
}

// Analysis produces and reads back ranked recommendation runs.
type Analysis interface {
	Run(ctx context.Context) (*models.AnalysisRun, error)
	Evaluate(ctx context.Context, in EvaluateInput) (*models.AnalysisRun, error)
	Latest(ctx context.Context) (*models.AnalysisRun, error)
	Get(ctx context.Context, runID string) (*models.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]models.RunSummary, error)
}

// Decisions records planner accept/reject actions against stored runs.
type Decisions interface {
	Record(ctx context.Context, p DecisionParams) (models.Decision, error)
	List(ctx context.Context, f models.DecisionFilter) ([]models.Decision, error)
}

// Poller re-runs the upstream analysis periodically.
// Stop via context cancellation in main() for graceful shutdown.
type Poller interface {
	Run(ctx context.Context, interval time.Duration)
}

// Health reports readiness of the backing store.
type Health interface {
	Ready(ctx context.Context) error
}

// Fetcher supplies the raw plan collections; implemented by source.Client.
type Fetcher interface {
	Fetch(ctx context.Context) (normalize.RawSnapshot, error)
}

// Deps are the non-repository collaborators of the services.
type Deps struct {
	Engine *advisor.Engine
	// Fetcher may be nil when no upstream is configured; Run then fails with ErrNoUpstream.
	Fetcher       Fetcher
	UpstreamShape normalize.Shape
	Auth          AuthConfig
	Log           *logger.Logger
	// Now defaults to time.Now.
	Now func() time.Time
}

type Service struct {
	Analysis
	Decisions
	Poller
	Authorization
	Health
}

// NewService wires repository layer and collaborators into concrete services.
func NewService(repos *repository.Repository, deps Deps) (*Service, error) {
	if deps.Log == nil {
		deps.Log = logger.Nop()
	}
	if deps.Now == nil {
		deps.Now = time.Now
	}

	analysis, err := NewAnalysisService(repos.Runs, deps)
	if err != nil {
		return nil, err
	}

	return &Service{
		Analysis:      analysis,
		Decisions:     NewDecisionService(repos.Runs, repos.Decisions, deps.Log),
		Poller:        NewPollerService(analysis, deps.Log),
		Authorization: NewAuthService(repos.Auth, deps.Auth),
		Health:        NewHealthService(repos.Health),
	}, nil
}
