package service

import (
	"context"
	"errors"
	"time"

	"production_advisor/internal/repository"
)

const readyTimeout = 2 * time.Second

type HealthService struct {
	db repository.Pinger
}

func NewHealthService(db repository.Pinger) *HealthService {
	return &HealthService{db: db}
}

// Ready pings the database.
func (h *HealthService) Ready(ctx context.Context) error {
	if h.db == nil {
		return errors.New("no database configured")
	}
	ctx, cancel := context.WithTimeout(ctx, readyTimeout)
	defer cancel()
	return h.db.PingContext(ctx)
}
