package repository

import (
	"context"
	"database/sql"

	"production_advisor/internal/models"
)

type Authorization interface {
	Create(username, hash string) (int, error)
	GetByUsername(username string) (*models.User, error)
}

type RunRepo interface {
	Save(ctx context.Context, run models.AnalysisRun) error
	Get(ctx context.Context, runID string) (*models.AnalysisRun, error)
	Latest(ctx context.Context) (*models.AnalysisRun, error)
	List(ctx context.Context, limit int) ([]models.RunSummary, error)
}

type DecisionRepo interface {
	Append(ctx context.Context, d models.Decision) (models.Decision, error)
	List(ctx context.Context, f models.DecisionFilter) ([]models.Decision, error)
}

// Pinger reports whether the backing store is reachable.
type Pinger interface {
	PingContext(ctx context.Context) error
}

type Repository struct {
	Runs      RunRepo
	Decisions DecisionRepo
	Auth      Authorization
	Health    Pinger
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Runs:      NewRunSQLite(db),
		Decisions: NewDecisionSQLite(db),
		Auth:      NewUserRepository(db),
		Health:    db,
	}
}
