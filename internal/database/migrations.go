package database

// migrationsSQL contains all database migrations.
// Migrations are applied in order by version number.
// Each migration should be idempotent (safe to run multiple times).
var migrationsSQL = map[int]string{
	1: migrationV1FeastDays,
	2: migrationV2MaterializationRuns,
}

// migrationV1FeastDays creates the materialized feast table.
//
// Rows are derived data: the calendar engine is the source of truth and a
// (calendar_system, tradition_year) slice is always replaced as a whole.
// tradition_year is in the tradition's own era (Hebrew 5785, Coptic 1741).
const migrationV1FeastDays = `
-- Migration 001: feast_days

CREATE TABLE IF NOT EXISTS feast_days (
    id INTEGER PRIMARY KEY AUTOINCREMENT,

    calendar_system TEXT NOT NULL CHECK (calendar_system IN (
        'western',
        'eastern',
        'hebrew',
        'coptic'
    )),
    tradition_year INTEGER NOT NULL,
    name_key TEXT NOT NULL,

    -- ISO 8601 civil date: YYYY-MM-DD
    gregorian_date TEXT NOT NULL,

    kind TEXT NOT NULL CHECK (kind IN ('fixed', 'movable')),
    category TEXT NOT NULL CHECK (category IN ('major', 'minor', 'fast')),

    -- Days from the anchor; NULL for fixed feasts
    offset_days INTEGER,

    -- Native calendar date for fixed feasts; NULL for movable feasts
    native_month INTEGER,
    native_day INTEGER,

    created_at TEXT NOT NULL DEFAULT (datetime('now')),

    UNIQUE (calendar_system, tradition_year, name_key)
);

-- Most common lookup: everything on a given day
CREATE INDEX IF NOT EXISTS idx_feast_days_date
    ON feast_days(gregorian_date);

CREATE INDEX IF NOT EXISTS idx_feast_days_system_year
    ON feast_days(calendar_system, tradition_year);
`

// migrationV2MaterializationRuns adds a log of materializer passes.
const migrationV2MaterializationRuns = `
-- Migration 002: materialization_runs

CREATE TABLE IF NOT EXISTS materialization_runs (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    from_year INTEGER NOT NULL,
    to_year INTEGER NOT NULL,
    rows_written INTEGER NOT NULL DEFAULT 0,
    success BOOLEAN NOT NULL,
    error_message TEXT,
    duration_ms INTEGER,
    started_at TEXT NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_materialization_runs_started
    ON materialization_runs(started_at);
`
