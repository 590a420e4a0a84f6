package database

import (
	"time"

	"cloud.google.com/go/civil"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

// FeastRecord is one stored row of feast_days.
type FeastRecord struct {
	ID            int64                   `json:"id"`
	System        calendar.CalendarSystem `json:"calendar_system"`
	TraditionYear int                     `json:"tradition_year"` // in the tradition's own era
	NameKey       string                  `json:"name_key"`
	Date          civil.Date              `json:"date"`
	Kind          calendar.Kind           `json:"kind"`
	Category      calendar.Category       `json:"category"`
	OffsetDays    *int                    `json:"offset_days,omitempty"`  // nil for fixed feasts
	NativeMonth   *int                    `json:"native_month,omitempty"` // nil for movable feasts
	NativeDay     *int                    `json:"native_day,omitempty"`
	CreatedAt     time.Time               `json:"created_at"`
}

// RecordFromInstance builds a record for a feast computed for traditionYear.
func RecordFromInstance(traditionYear int, inst calendar.FeastInstance) FeastRecord {
	rec := FeastRecord{
		System:        inst.Calendar,
		TraditionYear: traditionYear,
		NameKey:       inst.NameKey,
		Date:          inst.Date,
		Kind:          inst.Kind,
		Category:      inst.Category,
		OffsetDays:    inst.Offset,
	}
	if inst.Kind == calendar.KindFixed {
		month, day := inst.NativeMonth, inst.NativeDay
		rec.NativeMonth = &month
		rec.NativeDay = &day
	}
	return rec
}

// Instance converts the record back to the engine's type.
func (r FeastRecord) Instance() calendar.FeastInstance {
	inst := calendar.FeastInstance{
		NameKey:  r.NameKey,
		Date:     r.Date,
		Calendar: r.System,
		Kind:     r.Kind,
		Category: r.Category,
		Offset:   r.OffsetDays,
	}
	if r.NativeMonth != nil {
		inst.NativeMonth = *r.NativeMonth
	}
	if r.NativeDay != nil {
		inst.NativeDay = *r.NativeDay
	}
	return inst
}

// YearCoverage summarizes what is stored for one tradition year.
type YearCoverage struct {
	System        calendar.CalendarSystem `json:"calendar_system"`
	TraditionYear int                     `json:"tradition_year"`
	Feasts        int                     `json:"feasts"`
	EarliestDate  string                  `json:"earliest_date"`
	LatestDate    string                  `json:"latest_date"`
}

// MaterializationRun is one entry in the materializer log.
type MaterializationRun struct {
	ID           int64     `json:"id"`
	FromYear     int       `json:"from_year"`
	ToYear       int       `json:"to_year"`
	RowsWritten  int       `json:"rows_written"`
	Success      bool      `json:"success"`
	ErrorMessage *string   `json:"error_message,omitempty"`
	DurationMs   int64     `json:"duration_ms"`
	StartedAt    time.Time `json:"started_at"`
}
