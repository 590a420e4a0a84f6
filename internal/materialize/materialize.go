// Package materialize writes computed feast days into storage so they can be
// queried by date without recomputing every tradition.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/database"
	"github.com/zapponejosh/feastday-api/internal/metrics"
)

// Store is the part of the database the materializer writes to.
type Store interface {
	ReplaceYear(ctx context.Context, system calendar.CalendarSystem, traditionYear int, feasts []calendar.FeastInstance) error
	LogMaterializationRun(ctx context.Context, run *database.MaterializationRun) error
}

// MaxSpan caps how many Gregorian years one pass may cover.
const MaxSpan = 200

// MaxYear is the last Gregorian year that can be materialized. The Coptic
// year starting in it keeps its Easter in the following Gregorian year, and
// stored dates stop at 9999.
const MaxYear = calendar.MaxGregorianYear - 1

// ErrInvalidRange is returned for an empty, reversed or oversized year range.
var ErrInvalidRange = errors.New("invalid year range")

// Service computes every tradition for a range of Gregorian years and
// replaces the stored rows.
type Service struct {
	registry *calendar.Registry
	store    Store
	metrics  *metrics.Metrics
	logger   *slog.Logger
}

// NewService creates a materializer. m may be nil.
func NewService(registry *calendar.Registry, store Store, m *metrics.Metrics, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		registry: registry,
		store:    store,
		metrics:  m,
		logger:   logger,
	}
}

// Result summarizes one pass.
type Result struct {
	FromYear int                             `json:"from_year"`
	ToYear   int                             `json:"to_year"`
	Rows     int                             `json:"rows"`
	BySystem map[calendar.CalendarSystem]int `json:"by_system"`
	Duration time.Duration                   `json:"duration_ns"`
}

// TraditionYear returns the year of a tradition that begins in the given
// Gregorian year. Hebrew and Coptic years start in the autumn, so e.g.
// Gregorian 2024 maps to Hebrew 5785 and Coptic 1741.
func TraditionYear(system calendar.CalendarSystem, gregorianYear int) int {
	switch system {
	case calendar.Hebrew:
		return gregorianYear + calendar.HebrewEpochOffset
	case calendar.Coptic:
		return gregorianYear - calendar.CopticEraOffset + 1
	default:
		return gregorianYear
	}
}

// Run materializes fromYear..toYear (Gregorian, inclusive). Each calendar
// system is computed and written by its own goroutine; the first failure
// cancels the rest. Every pass is logged to the store, failed or not.
func (s *Service) Run(ctx context.Context, fromYear, toYear int) (*Result, error) {
	if fromYear > toYear || toYear-fromYear+1 > MaxSpan {
		return nil, fmt.Errorf("%w: %d..%d", ErrInvalidRange, fromYear, toYear)
	}
	if toYear > MaxYear {
		return nil, fmt.Errorf("%w: %d is past the last storable year %d", ErrInvalidRange, toYear, MaxYear)
	}

	start := time.Now()
	systems := calendar.AllSystems()
	counts := make([]int, len(systems))

	s.logger.Info("materialization started",
		slog.Int("from_year", fromYear),
		slog.Int("to_year", toYear),
	)

	g, gctx := errgroup.WithContext(ctx)
	for i, system := range systems {
		i, system := i, system
		g.Go(func() error {
			n, err := s.runSystem(gctx, system, fromYear, toYear)
			counts[i] = n
			return err
		})
	}
	err := g.Wait()

	result := &Result{
		FromYear: fromYear,
		ToYear:   toYear,
		BySystem: make(map[calendar.CalendarSystem]int, len(systems)),
		Duration: time.Since(start),
	}
	for i, system := range systems {
		result.BySystem[system] = counts[i]
		result.Rows += counts[i]
	}

	if s.metrics != nil {
		s.metrics.ObserveMaterialize(start, err)
	}
	s.logRun(ctx, result, err)

	if err != nil {
		return result, fmt.Errorf("materialize %d..%d: %w", fromYear, toYear, err)
	}

	s.logger.Info("materialization complete",
		slog.Int("rows", result.Rows),
		slog.Duration("duration", result.Duration),
	)
	return result, nil
}

func (s *Service) runSystem(ctx context.Context, system calendar.CalendarSystem, fromYear, toYear int) (int, error) {
	written := 0
	for y := fromYear; y <= toYear; y++ {
		if err := ctx.Err(); err != nil {
			return written, err
		}

		year := TraditionYear(system, y)
		feasts, err := s.registry.ListHolyDays(system, year)
		if err != nil {
			return written, fmt.Errorf("compute %v %d: %w", system, year, err)
		}
		if err := s.store.ReplaceYear(ctx, system, year, feasts); err != nil {
			return written, fmt.Errorf("store %v %d: %w", system, year, err)
		}

		written += len(feasts)
		if s.metrics != nil {
			s.metrics.AddMaterialized(system.String(), len(feasts))
		}
		s.logger.Debug("materialized year",
			slog.String("calendar", system.String()),
			slog.Int("year", year),
			slog.Int("feasts", len(feasts)),
		)
	}
	return written, nil
}

// logRun records the pass even if ctx was cancelled.
func (s *Service) logRun(ctx context.Context, result *Result, runErr error) {
	run := &database.MaterializationRun{
		FromYear:    result.FromYear,
		ToYear:      result.ToYear,
		RowsWritten: result.Rows,
		Success:     runErr == nil,
		DurationMs:  result.Duration.Milliseconds(),
	}
	if runErr != nil {
		msg := runErr.Error()
		run.ErrorMessage = &msg
	}

	if err := s.store.LogMaterializationRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Error("failed to log materialization run", slog.Any("error", err))
	}
}
