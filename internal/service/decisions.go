package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"production_advisor/internal/logger"
	"production_advisor/internal/metrics"
	"production_advisor/internal/models"
	"production_advisor/internal/repository"
)

var (
	ErrInvalidDecision  = errors.New("decision action must be ACCEPT or REJECT")
	ErrRankOutOfRange   = errors.New("recommendation rank out of range")
	ErrInvalidTimeRange = errors.New("invalid time range: From must be <= To")
)

const maxNoteLength = 1000

type DecisionService struct {
	runs      repository.RunRepo
	decisions repository.DecisionRepo
	log       *logger.Logger
}

func NewDecisionService(runs repository.RunRepo, decisions repository.DecisionRepo, log *logger.Logger) *DecisionService {
	if log == nil {
		log = logger.Nop()
	}
	return &DecisionService{runs: runs, decisions: decisions, log: log}
}

// normalizeAction trims spaces and uppercases the action.
func normalizeAction(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// normalizeToUTC returns t in UTC, preserving zero time values.
func normalizeToUTC(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC()
}

func validAction(a string) bool {
	return a == models.ActionAccept || a == models.ActionReject
}

// Record stores an accept or reject for the recommendation at p.Rank of run p.RunID.
func (s *DecisionService) Record(ctx context.Context, p DecisionParams) (models.Decision, error) {
	action := normalizeAction(p.Action)
	if !validAction(action) {
		return models.Decision{}, ErrInvalidDecision
	}
	note := strings.TrimSpace(p.Note)
	if len(note) > maxNoteLength {
		return models.Decision{}, fmt.Errorf("%w: note longer than %d bytes", ErrInvalidDecision, maxNoteLength)
	}

	run, err := s.runs.Get(ctx, p.RunID)
	if err != nil {
		return models.Decision{}, err
	}
	if run == nil {
		return models.Decision{}, ErrRunNotFound
	}
	if p.Rank < 0 || p.Rank >= len(run.Recommendations) {
		return models.Decision{}, fmt.Errorf("%w: run %s has %d recommendations", ErrRankOutOfRange, run.RunID, len(run.Recommendations))
	}

	d, err := s.decisions.Append(ctx, models.Decision{
		RunID:     run.RunID,
		Rank:      p.Rank,
		Action:    action,
		Note:      note,
		DecidedBy: p.UserID,
	})
	if err != nil {
		return models.Decision{}, err
	}

	metrics.Decisions.WithLabelValues(action).Inc()
	rec := run.Recommendations[p.Rank]
	s.log.Infow("decision_recorded",
		"decision_id", d.DecisionID,
		"run_id", run.RunID,
		"rank", p.Rank,
		"kind", rec.Kind,
		"subject_id", rec.SubjectID,
		"action", action,
		"user_id", p.UserID,
	)
	return d, nil
}

// List returns decisions matching f after normalizing it.
func (s *DecisionService) List(ctx context.Context, f models.DecisionFilter) ([]models.Decision, error) {
	f.From = normalizeToUTC(f.From)
	f.To = normalizeToUTC(f.To)
	if !f.From.IsZero() && !f.To.IsZero() && f.From.After(f.To) {
		return nil, ErrInvalidTimeRange
	}
	if f.Action = normalizeAction(f.Action); f.Action != "" && !validAction(f.Action) {
		return nil, ErrInvalidDecision
	}
	f.RunID = strings.TrimSpace(f.RunID)
	return s.decisions.List(ctx, f)
}
