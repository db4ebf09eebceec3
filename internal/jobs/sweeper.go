package jobs

import (
	"context"
	"time"

	"github.com/yungbote/sporthub-backend/internal/logger"
	"github.com/yungbote/sporthub-backend/internal/services"
)

// Sweeper drives the time-based activity lifecycle: past-deadline
// activities close, due activities start, finished activities end and
// their remaining confirmed registrations become absent. Each tick is
// one plain service call; nothing here is self-scheduling beyond the
// ticker.
type Sweeper struct {
	log      *logger.Logger
	interval time.Duration
	activity services.ActivityService
	regs     services.RegistrationService
}

func NewSweeper(baseLog *logger.Logger, interval time.Duration, activity services.ActivityService, regs services.RegistrationService) *Sweeper {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Sweeper{
		log:      baseLog.With("component", "LifecycleSweeper"),
		interval: interval,
		activity: activity,
		regs:     regs,
	}
}

func (s *Sweeper) Start(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				s.runOnce(ctx)
			}
		}
	}()
}

func (s *Sweeper) runOnce(ctx context.Context) {
	defer func() {
		if r := recover(); r != nil {
			s.log.Error("Sweep panic", "panic", r)
		}
	}()
	result, err := s.activity.AutoUpdateActivityStatus(ctx)
	if err != nil {
		s.log.Warn("Status sweep failed", "error", err)
		return
	}
	if len(result.Ended) == 0 {
		return
	}
	if err := s.regs.MarkAbsentForEnded(ctx, result.Ended); err != nil {
		s.log.Warn("Absentee sweep failed", "error", err)
	}
}
