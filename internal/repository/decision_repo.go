package repository

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"production_advisor/internal/models"

	"github.com/google/uuid"
)

type DecisionSQLite struct {
	db *sql.DB
}

func NewDecisionSQLite(db *sql.DB) *DecisionSQLite { return &DecisionSQLite{db: db} }

var _ DecisionRepo = (*DecisionSQLite)(nil)

const (
	insertDecisionSQL = `
		INSERT INTO decisions (id, run_id, rank, action, note, decided_by, decided_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	selectDecisionsSQL = `SELECT id, run_id, rank, action, note, decided_by, decided_at FROM decisions`
)

// Append inserts a decision. If DecisionID or DecidedAt are empty, they're set.
// The stored decision is returned.
func (r *DecisionSQLite) Append(ctx context.Context, d models.Decision) (models.Decision, error) {
	if d.DecisionID == "" {
		d.DecisionID = uuid.NewString()
	}
	if d.DecidedAt.IsZero() {
		d.DecidedAt = time.Now()
	}
	d.DecidedAt = d.DecidedAt.UTC()
	d.Action = strings.ToUpper(strings.TrimSpace(d.Action))

	var note *string
	if d.Note != "" {
		note = &d.Note
	}

	_, err := r.db.ExecContext(ctx, insertDecisionSQL,
		d.DecisionID,
		d.RunID,
		d.Rank,
		d.Action,
		note,
		d.DecidedBy,
		formatTime(d.DecidedAt),
	)
	if err != nil {
		return models.Decision{}, fmt.Errorf("insert decision for run %s: %w", d.RunID, err)
	}
	return d, nil
}

// List returns decisions filtered by [From, To] (inclusive), action and run, ordered ASC.
func (r *DecisionSQLite) List(ctx context.Context, f models.DecisionFilter) ([]models.Decision, error) {
	var (
		conds []string
		args  []any
	)

	if !f.From.IsZero() {
		conds = append(conds, "decided_at >= ?")
		args = append(args, formatTime(f.From))
	}
	if !f.To.IsZero() {
		conds = append(conds, "decided_at <= ?")
		args = append(args, formatTime(f.To))
	}
	if action := strings.ToUpper(strings.TrimSpace(f.Action)); action != "" {
		conds = append(conds, "action = ?")
		args = append(args, action)
	}
	if runID := strings.TrimSpace(f.RunID); runID != "" {
		conds = append(conds, "run_id = ?")
		args = append(args, runID)
	}

	q := selectDecisionsSQL
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY decided_at ASC, rowid ASC"

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list decisions: %w", err)
	}
	defer rows.Close()

	out := make([]models.Decision, 0, 16)
	for rows.Next() {
		var (
			d       models.Decision
			note    sql.NullString
			decided string
		)
		if err := rows.Scan(&d.DecisionID, &d.RunID, &d.Rank, &d.Action, &note, &d.DecidedBy, &decided); err != nil {
			return nil, fmt.Errorf("scan decision: %w", err)
		}
		if d.DecidedAt, err = parseTime(decided); err != nil {
			return nil, err
		}
		d.Note = note.String
		out = append(out, d)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
