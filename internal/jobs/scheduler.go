// Package jobs runs periodic maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"finance-tracker-backend/internal/log"
)

// jobTimeout bounds a single run of any job.
const jobTimeout = time.Minute

// SessionPurger deletes sessions that expired before now.
type SessionPurger interface {
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

type Scheduler struct {
	cron   *cron.Cron
	logger *log.Logger
}

func NewScheduler(logger *log.Logger) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		logger: logger.WithComponent(log.ComponentJobs),
	}
}

// Add registers fn under name on spec. Failures are logged; the job keeps its schedule.
func (s *Scheduler) Add(name, spec string, fn func(context.Context) error) error {
	_, err := s.cron.AddFunc(spec, func() {
		ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
		defer cancel()

		start := time.Now()
		if err := fn(ctx); err != nil {
			s.logger.Error("Job failed", "job", name, log.FieldError, err)
			return
		}
		s.logger.Debug("Job finished", "job", name, log.FieldDuration, time.Since(start).Milliseconds())
	})
	if err != nil {
		return fmt.Errorf("schedule job %s on %q: %w", name, spec, err)
	}
	return nil
}

// AddSessionPurge schedules the removal of expired sessions.
func (s *Scheduler) AddSessionPurge(spec string, purger SessionPurger) error {
	return s.Add("session-purge", spec, func(ctx context.Context) error {
		return PurgeSessions(ctx, purger, time.Now(), s.logger)
	})
}

// PurgeSessions deletes sessions expired at now and logs how many were removed.
func PurgeSessions(ctx context.Context, purger SessionPurger, now time.Time, logger *log.Logger) error {
	n, err := purger.DeleteExpiredSessions(ctx, now)
	if err != nil {
		return fmt.Errorf("purge expired sessions: %w", err)
	}
	if n > 0 {
		logger.InfoContext(ctx, "Purged expired sessions", log.FieldOperation, log.OpPurge, log.FieldCount, n)
	}
	return nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("Scheduler started", log.FieldCount, len(s.cron.Entries()))
}

// Stop halts the schedule and waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()
	select {
	case <-done.Done():
		return nil
	case <-ctx.Done():
		return fmt.Errorf("waiting for running jobs: %w", ctx.Err())
	}
}
