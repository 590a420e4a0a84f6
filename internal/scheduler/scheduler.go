// Package scheduler keeps the materialized feast table topped up on a cron schedule.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/zapponejosh/feastday-api/internal/materialize"
)

// Materializer runs one materialization pass.
type Materializer interface {
	Run(ctx context.Context, fromYear, toYear int) (*materialize.Result, error)
}

// Scheduler runs the materializer on a cron spec over a rolling window of
// [current year - 1, current year + yearsAhead].
type Scheduler struct {
	cron       *cron.Cron
	spec       string
	yearsAhead int
	runner     Materializer
	logger     *slog.Logger
	now        func() time.Time

	// mu keeps passes from overlapping when one runs longer than the interval.
	mu sync.Mutex
}

// New creates a scheduler. An empty spec disables the periodic job; Start
// still runs one pass so a fresh database is usable immediately.
func New(spec string, yearsAhead int, runner Materializer, logger *slog.Logger) *Scheduler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{
		cron:       cron.New(cron.WithLocation(time.UTC)),
		spec:       spec,
		yearsAhead: yearsAhead,
		runner:     runner,
		logger:     logger,
		now:        time.Now,
	}
}

// Window returns the Gregorian years the next pass will cover.
func (s *Scheduler) Window() (fromYear, toYear int) {
	year := s.now().UTC().Year()
	return year - 1, year + s.yearsAhead
}

// Start schedules the job, runs it once, and blocks until ctx is cancelled.
func (s *Scheduler) Start(ctx context.Context) error {
	if s.spec != "" {
		if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
			return fmt.Errorf("add materialize job: %w", err)
		}
	}

	s.cron.Start()
	s.logger.Info("scheduler started",
		slog.String("spec", s.spec),
		slog.Int("years_ahead", s.yearsAhead),
	)

	s.RunOnce(ctx)

	<-ctx.Done()
	return nil
}

// Stop halts the cron loop and waits for any pass in flight, including the
// one Start runs directly, to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	s.mu.Lock()
	s.mu.Unlock()
	s.logger.Info("scheduler stopped")
}

// RunOnce materializes the current window. Errors are logged, not returned:
// the next tick retries.
func (s *Scheduler) RunOnce(ctx context.Context) {
	if !s.mu.TryLock() {
		s.logger.Warn("materialization already running, skipping tick")
		return
	}
	defer s.mu.Unlock()

	from, to := s.Window()
	if _, err := s.runner.Run(ctx, from, to); err != nil {
		s.logger.Error("scheduled materialization failed",
			slog.Any("error", err),
			slog.Int("from_year", from),
			slog.Int("to_year", to),
		)
	}
}
