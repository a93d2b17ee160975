package backup

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/robfig/cron/v3"
)

const dailyJobLabel = "daily-backup"

// Scheduler runs a daily backup on a cron schedule. A fire that finds the
// guard occupied is skipped outright; the next scheduled fire is the only
// retry. Failures are logged and swallowed so a bad run never takes the
// process down.
type Scheduler struct {
	cron     *cron.Cron
	guard    *Guard
	executor *Executor
	logger   *slog.Logger
}

// NewScheduler wires the recurring backup onto expr (standard 5-field cron
// syntax). An unparseable expression is a construction error.
func NewScheduler(expr string, guard *Guard, executor *Executor, logger *slog.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:     cron.New(),
		guard:    guard,
		executor: executor,
		logger:   logger,
	}
	if _, err := s.cron.AddFunc(expr, s.run); err != nil {
		return nil, fmt.Errorf("invalid backup schedule %q: %w", expr, err)
	}
	return s, nil
}

// Start begins firing on schedule.
func (s *Scheduler) Start() {
	s.cron.Start()
}

// Stop ends scheduling. The returned context is done once any in-flight run
// has finished.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) run() {
	current, ok := s.guard.TryAcquire(dailyJobLabel)
	if !ok {
		s.logger.Info("scheduled backup skipped, job already running", "current", current)
		return
	}
	defer s.guard.Release()

	if _, err := s.executor.CreateBackup(context.Background(), KindDaily); err != nil {
		s.logger.Error("scheduled backup failed", "error", err)
	}
}
