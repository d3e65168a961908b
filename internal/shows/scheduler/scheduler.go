package scheduler

import (
	"context"
	"fmt"
	"quickshow/internal/shows/service"
	"quickshow/pkg/durable"
	"quickshow/pkg/logger"
	"time"
)

// Scheduler fires the reminder pass on a fixed interval. The invocation
// ID is derived from the tick's interval bucket, so a worker restarted
// mid-window resumes the same durable invocation instead of double
// sending.
type Scheduler struct {
	reminders *service.ReminderService
	ledger    durable.Ledger
	interval  time.Duration
	log       *logger.Logger
	now       func() time.Time
}

func New(reminders *service.ReminderService, ledger durable.Ledger, interval time.Duration, log *logger.Logger) *Scheduler {
	return &Scheduler{
		reminders: reminders,
		ledger:    ledger,
		interval:  interval,
		log:       log.WithComponent("reminder-scheduler"),
		now:       time.Now,
	}
}

// Start blocks until the context is cancelled, running one reminder
// pass per interval.
func (s *Scheduler) Start(ctx context.Context) {
	s.log.Info("Reminder scheduler started", "interval", s.interval)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("Reminder scheduler stopped")
			return
		case <-ticker.C:
			s.runOnce(ctx)
		}
	}
}

func (s *Scheduler) runOnce(ctx context.Context) {
	now := s.now()
	inv := durable.NewInvocation(s.invocationID(now), s.ledger, s.log)

	summary, err := s.reminders.Run(ctx, inv, now)
	if err != nil {
		s.log.Error("Reminder run failed", "invocation", inv.ID, "error", err)
		return
	}
	s.log.Info(summary.Message, "invocation", inv.ID, "sent", summary.Sent, "failed", summary.Failed)
}

// invocationID buckets the tick time by the interval. Every process
// that ticks inside the same bucket shares one invocation.
func (s *Scheduler) invocationID(now time.Time) string {
	bucket := now.UTC().Truncate(s.interval)
	return fmt.Sprintf("show-reminders-%s", bucket.Format(time.RFC3339))
}
