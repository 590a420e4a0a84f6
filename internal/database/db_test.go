package database

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"testing"
	"time"

	"cloud.google.com/go/civil"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

// testDB creates a temporary in-memory database for testing.
func testDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests
	cfg := Config{
		Path:            ":memory:",
		MaxOpenConns:    1,
		MaxIdleConns:    1,
		ConnMaxLifetime: time.Hour,
	}

	// Quiet logger for tests
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))

	db, err := Open(cfg, logger)
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}

	// Run migrations
	ctx := context.Background()
	if _, err := db.Migrate(ctx); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// seedYear stores the built-in feasts of one tradition year.
func seedYear(t *testing.T, db *DB, system calendar.CalendarSystem, year int) []calendar.FeastInstance {
	t.Helper()

	feasts, err := calendar.ListHolyDays(system, year)
	if err != nil {
		t.Fatalf("list holy days: %v", err)
	}
	if err := db.ReplaceYear(context.Background(), system, year, feasts); err != nil {
		t.Fatalf("replace year: %v", err)
	}
	return feasts
}

func day(y int, m time.Month, d int) civil.Date {
	return civil.Date{Year: y, Month: m, Day: d}
}

// -----------------------------------------------------------------
// DB tests
// -----------------------------------------------------------------

func TestOpen(t *testing.T) {
	db := testDB(t)

	// Verify connection works
	ctx := context.Background()
	if err := db.Health(ctx); err != nil {
		t.Errorf("Health() error = %v", err)
	}
}

func TestMigrate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	// Migrations should have run (in testDB)
	// Running again should be a no-op
	count, err := db.Migrate(ctx)
	if err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	if count != 0 {
		t.Errorf("Migrate() count = %d, want 0 (already applied)", count)
	}
}

// -----------------------------------------------------------------
// Feast tests
// -----------------------------------------------------------------

func TestReplaceYear(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	feasts := seedYear(t, db, calendar.Western, 2025)

	count, err := db.CountYear(ctx, calendar.Western, 2025)
	if err != nil {
		t.Fatalf("CountYear() error = %v", err)
	}
	if count != len(feasts) {
		t.Errorf("CountYear() = %d, want %d", count, len(feasts))
	}

	// Replacing again must not duplicate rows.
	seedYear(t, db, calendar.Western, 2025)
	count, err = db.CountYear(ctx, calendar.Western, 2025)
	if err != nil {
		t.Fatalf("CountYear() error = %v", err)
	}
	if count != len(feasts) {
		t.Errorf("CountYear() after replace = %d, want %d", count, len(feasts))
	}

	// Other years are untouched.
	count, err = db.CountYear(ctx, calendar.Western, 2026)
	if err != nil {
		t.Fatalf("CountYear() error = %v", err)
	}
	if count != 0 {
		t.Errorf("CountYear(2026) = %d, want 0", count)
	}
}

func TestReplaceYear_UnstorableDate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedYear(t, db, calendar.Coptic, 1741)

	late := []calendar.FeastInstance{
		{NameKey: "coptic.easter", Date: day(10000, time.April, 16), Calendar: calendar.Coptic, Kind: calendar.KindMovable, Category: calendar.CategoryMajor},
	}
	err := db.ReplaceYear(ctx, calendar.Coptic, 1741, late)
	if !errors.Is(err, ErrUnstorableDate) {
		t.Fatalf("ReplaceYear() error = %v, want ErrUnstorableDate", err)
	}

	count, err := db.CountYear(ctx, calendar.Coptic, 1741)
	if err != nil {
		t.Fatalf("CountYear() error = %v", err)
	}
	if count == 0 {
		t.Error("CountYear() = 0, rejected write removed the previous year")
	}
}

func TestReplaceYear_Duplicate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedYear(t, db, calendar.Coptic, 1741)

	dup := []calendar.FeastInstance{
		{NameKey: "x", Date: day(2025, time.January, 1), Calendar: calendar.Coptic, Kind: calendar.KindFixed, Category: calendar.CategoryMinor},
		{NameKey: "x", Date: day(2025, time.January, 2), Calendar: calendar.Coptic, Kind: calendar.KindFixed, Category: calendar.CategoryMinor},
	}

	err := db.ReplaceYear(ctx, calendar.Coptic, 1741, dup)
	if !errors.Is(err, ErrDuplicate) {
		t.Fatalf("ReplaceYear() error = %v, want ErrDuplicate", err)
	}

	// The failed transaction must leave the previous rows in place.
	count, err := db.CountYear(ctx, calendar.Coptic, 1741)
	if err != nil {
		t.Fatalf("CountYear() error = %v", err)
	}
	if count == 0 {
		t.Error("CountYear() = 0, rollback lost the previous year")
	}
}

func TestGetFeastsByDate(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedYear(t, db, calendar.Western, 2025)
	seedYear(t, db, calendar.Eastern, 2025)
	seedYear(t, db, calendar.Coptic, 1741)

	// 2025-04-20 is Easter in all three traditions.
	feasts, err := db.GetFeastsByDate(ctx, day(2025, time.April, 20))
	if err != nil {
		t.Fatalf("GetFeastsByDate() error = %v", err)
	}

	keys := make(map[string]FeastRecord)
	for _, f := range feasts {
		keys[f.NameKey] = f
	}
	for _, want := range []string{"western.easter", "eastern.pascha", "coptic.easter"} {
		rec, ok := keys[want]
		if !ok {
			t.Errorf("GetFeastsByDate() missing %s", want)
			continue
		}
		if rec.OffsetDays == nil || *rec.OffsetDays != 0 {
			t.Errorf("%s offset = %v, want 0", want, rec.OffsetDays)
		}
		if rec.NativeMonth != nil {
			t.Errorf("%s native month = %v, want nil for a movable feast", want, *rec.NativeMonth)
		}
	}

	// Fixed feasts keep their native date.
	feasts, err = db.GetFeastsByDate(ctx, day(2025, time.January, 7))
	if err != nil {
		t.Fatalf("GetFeastsByDate() error = %v", err)
	}
	var found bool
	for _, f := range feasts {
		if f.NameKey == "coptic.christmas" {
			found = true
			if f.NativeMonth == nil || *f.NativeMonth != 4 || f.NativeDay == nil || *f.NativeDay != 29 {
				t.Errorf("coptic.christmas native date = %v/%v, want 4/29", f.NativeMonth, f.NativeDay)
			}
			if f.System != calendar.Coptic || f.TraditionYear != 1741 {
				t.Errorf("coptic.christmas = %v %d, want coptic 1741", f.System, f.TraditionYear)
			}
		}
	}
	if !found {
		t.Error("GetFeastsByDate(2025-01-07) missing coptic.christmas")
	}
}

func TestGetFeastsByDate_Empty(t *testing.T) {
	db := testDB(t)

	feasts, err := db.GetFeastsByDate(context.Background(), day(2025, time.July, 1))
	if err != nil {
		t.Fatalf("GetFeastsByDate() error = %v", err)
	}
	if len(feasts) != 0 {
		t.Errorf("GetFeastsByDate() returned %d feasts, want 0", len(feasts))
	}
}

func TestGetFeastsInRange(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	seedYear(t, db, calendar.Western, 2025)
	seedYear(t, db, calendar.Hebrew, 5785)

	from, to := day(2025, time.March, 1), day(2025, time.April, 30)

	all, err := db.GetFeastsInRange(ctx, from, to)
	if err != nil {
		t.Fatalf("GetFeastsInRange() error = %v", err)
	}
	if len(all) == 0 {
		t.Fatal("GetFeastsInRange() returned nothing")
	}
	for i, f := range all {
		if f.Date.Before(from) || f.Date.After(to) {
			t.Errorf("%s on %s outside range", f.NameKey, f.Date)
		}
		if i > 0 && f.Date.Before(all[i-1].Date) {
			t.Errorf("%s sorted after %s", f.NameKey, all[i-1].NameKey)
		}
	}

	hebrew, err := db.GetFeastsInRange(ctx, from, to, calendar.Hebrew)
	if err != nil {
		t.Fatalf("GetFeastsInRange(hebrew) error = %v", err)
	}
	if len(hebrew) == 0 || len(hebrew) >= len(all) {
		t.Errorf("GetFeastsInRange(hebrew) returned %d of %d", len(hebrew), len(all))
	}
	for _, f := range hebrew {
		if f.System != calendar.Hebrew {
			t.Errorf("%s has system %v, want hebrew", f.NameKey, f.System)
		}
	}
}

func TestGetCoverage(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	western := seedYear(t, db, calendar.Western, 2025)
	seedYear(t, db, calendar.Hebrew, 5785)

	coverage, err := db.GetCoverage(ctx)
	if err != nil {
		t.Fatalf("GetCoverage() error = %v", err)
	}
	if len(coverage) != 2 {
		t.Fatalf("GetCoverage() returned %d rows, want 2", len(coverage))
	}

	// Ordered by system name: hebrew before western.
	if coverage[0].System != calendar.Hebrew || coverage[1].System != calendar.Western {
		t.Errorf("coverage order = %v, %v", coverage[0].System, coverage[1].System)
	}
	if coverage[1].Feasts != len(western) {
		t.Errorf("western feasts = %d, want %d", coverage[1].Feasts, len(western))
	}
	if coverage[1].EarliestDate != "2025-01-06" || coverage[1].LatestDate != "2025-12-25" {
		t.Errorf("western span = %s..%s", coverage[1].EarliestDate, coverage[1].LatestDate)
	}
}

func TestRecordRoundTrip(t *testing.T) {
	feasts, err := calendar.ListHolyDays(calendar.Hebrew, 5784)
	if err != nil {
		t.Fatalf("list holy days: %v", err)
	}

	for _, inst := range feasts {
		got := RecordFromInstance(5784, inst).Instance()
		if got.NameKey != inst.NameKey || got.Date != inst.Date || got.NativeMonth != inst.NativeMonth || got.NativeDay != inst.NativeDay {
			t.Errorf("round trip of %s = %+v, want %+v", inst.NameKey, got, inst)
		}
	}
}

// -----------------------------------------------------------------
// Materialization log tests
// -----------------------------------------------------------------

func TestMaterializationRuns(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()

	if _, err := db.GetLatestMaterializationRun(ctx); !IsNotFound(err) {
		t.Fatalf("GetLatestMaterializationRun() error = %v, want ErrNotFound", err)
	}

	msg := "boom"
	runs := []*MaterializationRun{
		{FromYear: 2024, ToYear: 2030, RowsWritten: 400, Success: true, DurationMs: 12},
		{FromYear: 2025, ToYear: 2031, Success: false, ErrorMessage: &msg, DurationMs: 3},
	}
	for _, run := range runs {
		if err := db.LogMaterializationRun(ctx, run); err != nil {
			t.Fatalf("LogMaterializationRun() error = %v", err)
		}
		if run.ID == 0 {
			t.Error("LogMaterializationRun() did not set ID")
		}
	}

	latest, err := db.GetLatestMaterializationRun(ctx)
	if err != nil {
		t.Fatalf("GetLatestMaterializationRun() error = %v", err)
	}
	if latest.ID != runs[1].ID || latest.Success {
		t.Errorf("latest run = %+v, want the failed run", latest)
	}
	if latest.ErrorMessage == nil || *latest.ErrorMessage != "boom" {
		t.Errorf("latest error message = %v, want boom", latest.ErrorMessage)
	}
	if latest.StartedAt.IsZero() {
		t.Error("latest run has no start time")
	}
}
