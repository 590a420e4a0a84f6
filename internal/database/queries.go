package database

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

// =============================================================================
// Helper Functions
// =============================================================================

// parseTimestamp parses a timestamp from SQLite TEXT format.
// Tries multiple formats and returns the zero time if parsing fails.
func parseTimestamp(s string) time.Time {
	for _, layout := range []string{time.RFC3339, "2006-01-02 15:04:05", "2006-01-02T15:04:05.999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}

func nullInt(p *int) sql.NullInt64 {
	if p == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: int64(*p), Valid: true}
}

func intFromNull(n sql.NullInt64) *int {
	if !n.Valid {
		return nil
	}
	v := int(n.Int64)
	return &v
}

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

const feastColumns = `
	id, calendar_system, tradition_year, name_key, gregorian_date,
	kind, category, offset_days, native_month, native_day, created_at
`

func scanFeast(row rowScanner) (FeastRecord, error) {
	var rec FeastRecord
	var system, date, createdAt string
	var offset, month, day sql.NullInt64

	err := row.Scan(
		&rec.ID,
		&system,
		&rec.TraditionYear,
		&rec.NameKey,
		&date,
		&rec.Kind,
		&rec.Category,
		&offset,
		&month,
		&day,
		&createdAt,
	)
	if err != nil {
		return FeastRecord{}, fmt.Errorf("scan feast row: %w", err)
	}

	if rec.System, err = calendar.ParseCalendarSystem(system); err != nil {
		return FeastRecord{}, fmt.Errorf("feast %d: %w", rec.ID, err)
	}
	if rec.Date, err = civil.ParseDate(date); err != nil {
		return FeastRecord{}, fmt.Errorf("feast %d date: %w", rec.ID, err)
	}
	rec.OffsetDays = intFromNull(offset)
	rec.NativeMonth = intFromNull(month)
	rec.NativeDay = intFromNull(day)
	rec.CreatedAt = parseTimestamp(createdAt)

	return rec, nil
}

func collectFeasts(rows *sql.Rows) ([]FeastRecord, error) {
	defer rows.Close()

	var feasts []FeastRecord
	for rows.Next() {
		rec, err := scanFeast(rows)
		if err != nil {
			return nil, err
		}
		feasts = append(feasts, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feast rows: %w", err)
	}
	return feasts, nil
}

// =============================================================================
// Feast Queries
// =============================================================================

// ReplaceYear atomically swaps the stored feasts of one tradition year.
//
// This is IDEMPOTENT: the slice for (system, traditionYear) is deleted and
// rewritten in one transaction, so readers never see a half-written year.
// Returns ErrDuplicate if two feasts share a name key and ErrUnstorableDate
// if a date falls outside years 1..9999.
func (db *DB) ReplaceYear(ctx context.Context, system calendar.CalendarSystem, traditionYear int, feasts []calendar.FeastInstance) error {
	for _, inst := range feasts {
		if !inst.Date.IsValid() || inst.Date.Year < 1 || inst.Date.Year > 9999 {
			return fmt.Errorf("feast %s on %s: %w", inst.NameKey, inst.Date, ErrUnstorableDate)
		}
	}

	return db.WithTx(ctx, func(tx *Tx) error {
		_, err := tx.ExecContext(ctx,
			`DELETE FROM feast_days WHERE calendar_system = ? AND tradition_year = ?`,
			system.String(), traditionYear,
		)
		if err != nil {
			return fmt.Errorf("delete feast year: %w", err)
		}

		stmt, err := tx.PrepareContext(ctx, `
			INSERT INTO feast_days (
				calendar_system, tradition_year, name_key, gregorian_date,
				kind, category, offset_days, native_month, native_day
			) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		`)
		if err != nil {
			return fmt.Errorf("prepare feast insert: %w", err)
		}
		defer stmt.Close()

		for _, inst := range feasts {
			rec := RecordFromInstance(traditionYear, inst)
			_, err := stmt.ExecContext(ctx,
				system.String(),
				traditionYear,
				rec.NameKey,
				rec.Date.String(),
				string(rec.Kind),
				string(rec.Category),
				nullInt(rec.OffsetDays),
				nullInt(rec.NativeMonth),
				nullInt(rec.NativeDay),
			)
			if err != nil {
				if isUniqueViolation(err) {
					return fmt.Errorf("insert feast %s: %w", rec.NameKey, ErrDuplicate)
				}
				return fmt.Errorf("insert feast %s: %w", rec.NameKey, err)
			}
		}

		return nil
	})
}

// GetFeastsByDate returns every stored feast that falls on date, across all
// traditions. Returns an empty slice (not ErrNotFound) when nothing is stored.
func (db *DB) GetFeastsByDate(ctx context.Context, date civil.Date) ([]FeastRecord, error) {
	query := `SELECT ` + feastColumns + `
		FROM feast_days
		WHERE gregorian_date = ?
		ORDER BY calendar_system, kind, name_key
	`

	rows, err := db.QueryContext(ctx, query, date.String())
	if err != nil {
		return nil, fmt.Errorf("query feasts by date: %w", err)
	}
	return collectFeasts(rows)
}

// GetFeastsInRange returns stored feasts between from and to (inclusive),
// optionally limited to some calendar systems, ordered by date.
func (db *DB) GetFeastsInRange(ctx context.Context, from, to civil.Date, systems ...calendar.CalendarSystem) ([]FeastRecord, error) {
	query := `SELECT ` + feastColumns + `
		FROM feast_days
		WHERE gregorian_date >= ? AND gregorian_date <= ?
	`
	args := []any{from.String(), to.String()}

	if len(systems) > 0 {
		placeholders := make([]string, len(systems))
		for i, s := range systems {
			placeholders[i] = "?"
			args = append(args, s.String())
		}
		query += ` AND calendar_system IN (` + strings.Join(placeholders, ", ") + `)`
	}
	query += ` ORDER BY gregorian_date, calendar_system, kind, name_key`

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feasts by range: %w", err)
	}
	return collectFeasts(rows)
}

// CountYear returns how many feasts are stored for one tradition year.
func (db *DB) CountYear(ctx context.Context, system calendar.CalendarSystem, traditionYear int) (int, error) {
	var count int
	err := db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM feast_days WHERE calendar_system = ? AND tradition_year = ?`,
		system.String(), traditionYear,
	).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count feast year: %w", err)
	}
	return count, nil
}

// GetCoverage summarizes the stored years of every tradition.
//
// Useful for:
// - Checking the materializer kept up
// - The coverage CLI command
func (db *DB) GetCoverage(ctx context.Context) ([]YearCoverage, error) {
	query := `
		SELECT
			calendar_system, tradition_year, COUNT(*),
			MIN(gregorian_date), MAX(gregorian_date)
		FROM feast_days
		GROUP BY calendar_system, tradition_year
		ORDER BY calendar_system, tradition_year
	`

	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("query coverage: %w", err)
	}
	defer rows.Close()

	var coverage []YearCoverage
	for rows.Next() {
		var c YearCoverage
		var system string
		if err := rows.Scan(&system, &c.TraditionYear, &c.Feasts, &c.EarliestDate, &c.LatestDate); err != nil {
			return nil, fmt.Errorf("scan coverage row: %w", err)
		}
		if c.System, err = calendar.ParseCalendarSystem(system); err != nil {
			return nil, fmt.Errorf("coverage row: %w", err)
		}
		coverage = append(coverage, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate coverage rows: %w", err)
	}

	return coverage, nil
}

// =============================================================================
// Materialization Log Queries
// =============================================================================

// LogMaterializationRun records a materializer pass.
func (db *DB) LogMaterializationRun(ctx context.Context, run *MaterializationRun) error {
	query := `
		INSERT INTO materialization_runs (
			from_year, to_year, rows_written, success, error_message, duration_ms
		) VALUES (?, ?, ?, ?, ?, ?)
	`

	result, err := db.ExecContext(ctx, query,
		run.FromYear,
		run.ToYear,
		run.RowsWritten,
		run.Success,
		run.ErrorMessage,
		run.DurationMs,
	)
	if err != nil {
		return fmt.Errorf("log materialization run: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("get run id: %w", err)
	}
	run.ID = id

	return nil
}

// GetLatestMaterializationRun returns the most recent materializer pass.
// Returns ErrNotFound if none has been logged.
func (db *DB) GetLatestMaterializationRun(ctx context.Context) (*MaterializationRun, error) {
	query := `
		SELECT id, from_year, to_year, rows_written, success, error_message, duration_ms, started_at
		FROM materialization_runs
		ORDER BY id DESC
		LIMIT 1
	`

	var run MaterializationRun
	var errorMessage sql.NullString
	var durationMs sql.NullInt64
	var startedAt string

	err := db.QueryRowContext(ctx, query).Scan(
		&run.ID,
		&run.FromYear,
		&run.ToYear,
		&run.RowsWritten,
		&run.Success,
		&errorMessage,
		&durationMs,
		&startedAt,
	)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("query latest run: %w", err)
	}

	if errorMessage.Valid {
		run.ErrorMessage = &errorMessage.String
	}
	run.DurationMs = durationMs.Int64
	run.StartedAt = parseTimestamp(startedAt)

	return &run, nil
}
