package leaderboard

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// defaultComputeInterval recomputes snapshots weekly.
const defaultComputeInterval = 168 * time.Hour

// Scheduler periodically recomputes every leaderboard snapshot.
type Scheduler struct {
	computer *Computer
	interval time.Duration
}

// NewScheduler constructs a Scheduler.
func NewScheduler(computer *Computer, interval time.Duration) *Scheduler {
	if computer == nil {
		return nil
	}
	if interval <= 0 {
		interval = defaultComputeInterval
	}
	return &Scheduler{computer: computer, interval: interval}
}

// Start launches the compute loop in a background goroutine.
func (s *Scheduler) Start(ctx context.Context) {
	if s == nil {
		return
	}
	if ctx == nil {
		ctx = context.Background()
	}
	go s.run(ctx)
	log.Infof("leaderboard scheduler started (interval=%s)", s.interval)
}

func (s *Scheduler) run(ctx context.Context) {
	for {
		if ctx.Err() != nil {
			return
		}
		if errCompute := s.computer.ComputeAll(ctx); errCompute != nil {
			log.WithError(errCompute).Warn("leaderboard scheduler: compute failed")
		}
		if ctx.Err() != nil {
			return
		}
		timer := time.NewTimer(s.interval)
		select {
		case <-ctx.Done():
			if !timer.Stop() {
				<-timer.C
			}
			return
		case <-timer.C:
		}
	}
}
