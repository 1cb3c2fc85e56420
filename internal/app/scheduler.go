package app

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/riskibarqy/prissleague/internal/platform/logging"
	"github.com/riskibarqy/prissleague/internal/usecase"
	"github.com/robfig/cron/v3"
)

type roleSyncRunner interface {
	Run(ctx context.Context) (usecase.RoleSyncReport, error)
}

// RoleSyncScheduler fires one role sync run at start and then on a cron
// schedule. Overlapping ticks are skipped while a run is still going.
type RoleSyncScheduler struct {
	cron   *cron.Cron
	job    cron.Job
	runner roleSyncRunner
	logger *logging.Logger

	mu     sync.Mutex
	runCtx context.Context
	cancel context.CancelFunc
}

func NewRoleSyncScheduler(schedule string, runner roleSyncRunner, logger *logging.Logger) (*RoleSyncScheduler, error) {
	if runner == nil {
		return nil, errors.New("role sync runner cannot be nil")
	}
	if logger == nil {
		logger = logging.Default()
	}
	logger = logger.Named("scheduler")
	cronLog := cronLogger{logger: logger}

	s := &RoleSyncScheduler{
		runner: runner,
		logger: logger,
		runCtx: context.Background(),
		cancel: func() {},
	}
	s.job = cron.NewChain(cron.Recover(cronLog), cron.SkipIfStillRunning(cronLog)).Then(cron.FuncJob(s.runOnce))
	s.cron = cron.New(cron.WithLogger(cronLog))
	if _, err := s.cron.AddJob(schedule, s.job); err != nil {
		return nil, fmt.Errorf("parse role sync schedule %q: %w", schedule, err)
	}

	return s, nil
}

// Start runs once synchronously, then hands over to cron. Runs use a
// context derived from ctx that Stop cancels if shutdown times out.
func (s *RoleSyncScheduler) Start(ctx context.Context) {
	runCtx, cancel := context.WithCancel(ctx)
	s.mu.Lock()
	s.runCtx, s.cancel = runCtx, cancel
	s.mu.Unlock()

	s.job.Run()
	s.cron.Start()
	s.logger.InfoContext(ctx, "role sync scheduler started", "entries", len(s.cron.Entries()))
}

// Stop halts the schedule and waits for an in-flight run until ctx is done.
func (s *RoleSyncScheduler) Stop(ctx context.Context) error {
	done := s.cron.Stop()

	s.mu.Lock()
	cancel := s.cancel
	s.mu.Unlock()

	select {
	case <-done.Done():
		cancel()
		s.logger.InfoContext(ctx, "role sync scheduler stopped")
		return nil
	case <-ctx.Done():
		cancel()
		return fmt.Errorf("wait for running role sync: %w", ctx.Err())
	}
}

func (s *RoleSyncScheduler) runOnce() {
	s.mu.Lock()
	ctx := s.runCtx
	s.mu.Unlock()

	report, err := s.runner.Run(ctx)
	switch {
	case errors.Is(err, usecase.ErrRunInProgress):
		s.logger.InfoContext(ctx, "role sync skipped, another run holds the lock")
	case err != nil:
		s.logger.ErrorContext(ctx, "role sync run failed", "error", err)
	default:
		s.logger.InfoContext(ctx, "role sync run finished",
			"run_id", report.RunID,
			"players", report.PlayerCount,
			"updated", report.Updated,
			"failed", report.Failed,
			"duration", report.FinishedAt.Sub(report.StartedAt),
		)
	}
}

// cronLogger adapts logging.Logger to cron.Logger.
type cronLogger struct {
	logger *logging.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...any) {
	l.logger.Debug("cron: "+msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...any) {
	args := append([]any{"error", err}, keysAndValues...)
	l.logger.Error("cron: "+msg, args...)
}
