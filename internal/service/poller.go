package service

import (
	"context"
	"time"

	"production_advisor/internal/logger"
	"production_advisor/internal/models"
)

type upstreamRunner interface {
	runUpstream(ctx context.Context, origin string) (*models.AnalysisRun, error)
}

// PollerService periodically evaluates the upstream plan.
type PollerService struct {
	analysis upstreamRunner
	log      *logger.Logger
}

func NewPollerService(analysis upstreamRunner, log *logger.Logger) *PollerService {
	if log == nil {
		log = logger.Nop()
	}
	return &PollerService{analysis: analysis, log: log}
}

// Run ticks at the given interval until ctx is canceled. A failed pass is logged and
// the loop continues; a non-positive interval disables polling.
func (p *PollerService) Run(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		return
	}
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			run, err := p.analysis.runUpstream(ctx, models.OriginPoller)
			if err != nil {
				if ctx.Err() != nil {
					return
				}
				p.log.Warnw("poll_failed", "err", err)
				continue
			}
			p.log.Debugw("poll_completed", "run_id", run.RunID, "recommendations", len(run.Recommendations))
		}
	}
}
