package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"production_advisor/internal/models"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
)

// RunSQLite persists analysis runs; recommendation lists are stored as JSON in rank order.
type RunSQLite struct {
	db *sql.DB
}

func NewRunSQLite(db *sql.DB) *RunSQLite {
	return &RunSQLite{db: db}
}

var _ RunRepo = (*RunSQLite)(nil)

const (
	defaultRunListLimit = 20
	maxRunListLimit     = 500

	insertRunSQL = `
		INSERT INTO analysis_runs (id, evaluated_at, created_at, origin, recommendations, diagnostics, fixed_orders, counts)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	selectRunColumns = `SELECT id, evaluated_at, created_at, origin, recommendations, diagnostics, fixed_orders, counts FROM analysis_runs`

	// runs are ordered by the service clock; evaluated_at can be any caller-chosen instant
	selectRunByIDSQL   = selectRunColumns + ` WHERE id = ?`
	selectLatestRunSQL = selectRunColumns + ` ORDER BY created_at DESC, rowid DESC LIMIT 1`

	listRunsSQL = `
		SELECT id, evaluated_at, created_at, origin, counts FROM analysis_runs
		ORDER BY created_at DESC, rowid DESC LIMIT ?
	`
)

// Save inserts a run. Missing RunID, EvaluatedAt or CreatedAt are filled in.
func (r *RunSQLite) Save(ctx context.Context, run models.AnalysisRun) error {
	if run.RunID == "" {
		run.RunID = uuid.NewString()
	}
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}
	if run.EvaluatedAt.IsZero() {
		run.EvaluatedAt = run.CreatedAt
	}
	if run.Recommendations == nil {
		run.Recommendations = []models.Recommendation{}
	}

	recs, err := json.Marshal(run.Recommendations)
	if err != nil {
		return fmt.Errorf("marshal recommendations: %w", err)
	}
	diags, err := marshalOptional(run.Diagnostics)
	if err != nil {
		return fmt.Errorf("marshal diagnostics: %w", err)
	}
	fixed, err := marshalOptional(run.FixedOrders)
	if err != nil {
		return fmt.Errorf("marshal fixed orders: %w", err)
	}
	counts, err := json.Marshal(run.Counts)
	if err != nil {
		return fmt.Errorf("marshal counts: %w", err)
	}

	_, err = r.db.ExecContext(ctx, insertRunSQL,
		run.RunID,
		formatTime(run.EvaluatedAt),
		formatTime(run.CreatedAt),
		run.Origin,
		string(recs),
		diags,
		fixed,
		string(counts),
	)
	if err != nil {
		return fmt.Errorf("insert run %s: %w", run.RunID, err)
	}
	return nil
}

// Get returns the run with runID, or (nil, nil) if there is none.
func (r *RunSQLite) Get(ctx context.Context, runID string) (*models.AnalysisRun, error) {
	return r.one(ctx, selectRunByIDSQL, runID)
}

// Latest returns the most recently created run, or (nil, nil) if none was stored yet.
func (r *RunSQLite) Latest(ctx context.Context) (*models.AnalysisRun, error) {
	return r.one(ctx, selectLatestRunSQL)
}

// List returns run summaries, newest first.
func (r *RunSQLite) List(ctx context.Context, limit int) ([]models.RunSummary, error) {
	if limit <= 0 {
		limit = defaultRunListLimit
	}
	if limit > maxRunListLimit {
		limit = maxRunListLimit
	}

	rows, err := r.db.QueryContext(ctx, listRunsSQL, limit)
	if err != nil {
		return nil, fmt.Errorf("list runs: %w", err)
	}
	defer rows.Close()

	out := make([]models.RunSummary, 0, limit)
	for rows.Next() {
		var (
			s         models.RunSummary
			evaluated string
			created   string
			counts    string
		)
		if err := rows.Scan(&s.RunID, &evaluated, &created, &s.Origin, &counts); err != nil {
			return nil, fmt.Errorf("scan run summary: %w", err)
		}
		if s.EvaluatedAt, err = parseTime(evaluated); err != nil {
			return nil, err
		}
		if s.CreatedAt, err = parseTime(created); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(counts), &s.Counts); err != nil {
			return nil, fmt.Errorf("unmarshal counts of run %s: %w", s.RunID, err)
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *RunSQLite) one(ctx context.Context, query string, args ...any) (*models.AnalysisRun, error) {
	var (
		run       models.AnalysisRun
		evaluated string
		created   string
		recs      string
		diags     sql.NullString
		fixed     sql.NullString
		counts    string
	)
	err := r.db.QueryRowContext(ctx, query, args...).
		Scan(&run.RunID, &evaluated, &created, &run.Origin, &recs, &diags, &fixed, &counts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("select run: %w", err)
	}

	if run.EvaluatedAt, err = parseTime(evaluated); err != nil {
		return nil, err
	}
	if run.CreatedAt, err = parseTime(created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(recs), &run.Recommendations); err != nil {
		return nil, fmt.Errorf("unmarshal recommendations of run %s: %w", run.RunID, err)
	}
	if run.Recommendations == nil {
		run.Recommendations = []models.Recommendation{}
	}
	if diags.Valid && diags.String != "" {
		if err := json.Unmarshal([]byte(diags.String), &run.Diagnostics); err != nil {
			return nil, fmt.Errorf("unmarshal diagnostics of run %s: %w", run.RunID, err)
		}
	}
	if fixed.Valid && fixed.String != "" {
		if err := json.Unmarshal([]byte(fixed.String), &run.FixedOrders); err != nil {
			return nil, fmt.Errorf("unmarshal fixed orders of run %s: %w", run.RunID, err)
		}
	}
	if err := json.Unmarshal([]byte(counts), &run.Counts); err != nil {
		return nil, fmt.Errorf("unmarshal counts of run %s: %w", run.RunID, err)
	}
	return &run, nil
}

// marshalOptional stores empty slices as NULL.
func marshalOptional[T any](v []T) (*string, error) {
	if len(v) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	s := string(b)
	return &s, nil
}
