package scheduler

import (
	"context"
	"sync"
	"time"

	"github.com/schoolfees/backend/internal/infrastructure/config"
	"go.uber.org/zap"
)

// sweepTickerInterval is the interval at which the scheduler checks for execution
const sweepTickerInterval = 1 * time.Minute

// SweepScheduler runs a job once a day at a configured local time. It is used
// to trigger the overdue-invoice notification sweep without an external cron.
type SweepScheduler struct {
	cfg    config.SweepConfig
	run    func(ctx context.Context) error
	logger *zap.Logger

	cancel    context.CancelFunc
	wg        sync.WaitGroup
	mu        sync.Mutex
	isRunning bool

	lastRunAt *time.Time
	nextRunAt *time.Time
}

// NewSweepScheduler creates a daily scheduler for the given job
func NewSweepScheduler(cfg config.SweepConfig, run func(ctx context.Context) error, logger *zap.Logger) *SweepScheduler {
	return &SweepScheduler{
		cfg:    cfg,
		run:    run,
		logger: logger,
	}
}

// Start begins the daily ticker loop. Calling Start on a running scheduler is a no-op.
func (s *SweepScheduler) Start(ctx context.Context) error {
	s.mu.Lock()
	if s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = true
	s.mu.Unlock()

	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.calculateNextRunTime()

	s.wg.Add(1)
	go s.loop(ctx)

	s.logger.Info("Overdue sweep scheduler started",
		zap.Int("hour", s.cfg.Hour),
		zap.Int("minute", s.cfg.Minute),
		zap.Timep("next_run_at", s.NextRunAt()),
	)
	return nil
}

// Stop cancels the loop and waits for an in-flight run to finish, bounded by ctx.
func (s *SweepScheduler) Stop(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return nil
	}
	s.isRunning = false
	s.mu.Unlock()

	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		s.logger.Info("Overdue sweep scheduler stopped")
		return nil
	case <-ctx.Done():
		s.logger.Warn("Overdue sweep scheduler stop timed out")
		return ctx.Err()
	}
}

func (s *SweepScheduler) loop(ctx context.Context) {
	defer s.wg.Done()

	ticker := time.NewTicker(sweepTickerInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if s.shouldRun(now) {
				s.runOnce(ctx)
				s.calculateNextRunTime()
			}
		}
	}
}

// shouldRun checks whether the ticker tick lands on the configured daily slot
func (s *SweepScheduler) shouldRun(now time.Time) bool {
	return now.Hour() == s.cfg.Hour && now.Minute() == s.cfg.Minute
}

func (s *SweepScheduler) calculateNextRunTime() {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), s.cfg.Hour, s.cfg.Minute, 0, 0, now.Location())
	if now.After(next) {
		next = next.AddDate(0, 0, 1)
	}

	s.mu.Lock()
	s.nextRunAt = &next
	s.mu.Unlock()
}

func (s *SweepScheduler) runOnce(ctx context.Context) {
	now := time.Now()
	s.mu.Lock()
	s.lastRunAt = &now
	s.mu.Unlock()

	jobCtx := ctx
	if s.cfg.JobTimeout > 0 {
		var cancel context.CancelFunc
		jobCtx, cancel = context.WithTimeout(ctx, s.cfg.JobTimeout)
		defer cancel()
	}

	if err := s.run(jobCtx); err != nil {
		s.logger.Error("Overdue sweep failed", zap.Error(err))
		return
	}
}

// TriggerManualRun starts a run outside the daily schedule. The job runs on a
// background context so it is not cancelled when the caller's request completes.
func (s *SweepScheduler) TriggerManualRun(ctx context.Context) error {
	s.mu.Lock()
	if !s.isRunning {
		s.mu.Unlock()
		return ErrSchedulerNotRunning
	}
	s.mu.Unlock()

	go s.runOnce(context.Background())
	return nil
}

// Status reports the scheduler state for diagnostics
func (s *SweepScheduler) Status() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()

	return map[string]any{
		"enabled":     s.cfg.Enabled,
		"is_running":  s.isRunning,
		"hour":        s.cfg.Hour,
		"minute":      s.cfg.Minute,
		"last_run_at": s.lastRunAt,
		"next_run_at": s.nextRunAt,
	}
}

// NextRunAt returns when the next scheduled run will occur
func (s *SweepScheduler) NextRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.nextRunAt
}

// LastRunAt returns when the last run occurred
func (s *SweepScheduler) LastRunAt() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRunAt
}
