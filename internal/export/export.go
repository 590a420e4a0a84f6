// Package export renders feast lists as iCalendar feeds and CSV.
package export

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/emersion/go-ical"
	"github.com/gocarina/gocsv"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

// iCalendar headers
const (
	ProductID = "-//feastday-api//Feast Days//EN"
	uidDomain = "feastday-api"
)

// Labeler turns a feast name key into display text. A nil Labeler prints the key.
type Labeler func(key string) string

func (l Labeler) label(key string) string {
	if l == nil {
		return key
	}
	return l(key)
}

// ErrUnknownFormat is returned by ParseFormat for an unsupported name.
var ErrUnknownFormat = errors.New("unknown format")

// Format selects an output encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatICS  Format = "ics"
)

// ParseFormat accepts json, csv and ics. The empty string means json.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatCSV, FormatICS:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w %q: want json, csv or ics", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type for a format.
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatICS:
		return "text/calendar; charset=utf-8"
	default:
		return "application/json"
	}
}

// =============================================================================
// iCalendar
// =============================================================================

// EventUID is stable across regenerations so calendar clients update events
// instead of duplicating them.
func EventUID(f calendar.FeastInstance) string {
	return fmt.Sprintf("%s-%s-%s@%s", f.Calendar, f.NameKey, f.Date, uidDomain)
}

// BuildCalendar turns feasts into a VCALENDAR of all-day events.
// stamp is written as DTSTAMP on every event.
func BuildCalendar(name string, feasts []calendar.FeastInstance, label Labeler, stamp time.Time) *ical.Calendar {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, ProductID)
	cal.Props.SetText(ical.PropCalendarScale, "GREGORIAN")
	if name != "" {
		cal.Props.SetText("X-WR-CALNAME", name)
	}

	for _, f := range feasts {
		start := f.Date.In(time.UTC)

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, EventUID(f))
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp.UTC())
		event.Props.SetDate(ical.PropDateTimeStart, start)
		event.Props.SetDate(ical.PropDateTimeEnd, start.AddDate(0, 0, 1))
		event.Props.SetText(ical.PropSummary, label.label(f.NameKey))
		event.Props.SetText(ical.PropCategories, string(f.Category))
		event.Props.SetText(ical.PropDescription, describe(f))
		event.Props.SetText(ical.PropTransparency, "TRANSPARENT")

		cal.Children = append(cal.Children, event.Component)
	}

	return cal
}

func describe(f calendar.FeastInstance) string {
	if f.Offset != nil {
		return fmt.Sprintf("%s %s feast, %+d days from the anchor", f.Calendar, f.Kind, *f.Offset)
	}
	return fmt.Sprintf("%s %s feast, native date %d/%d", f.Calendar, f.Kind, f.NativeMonth, f.NativeDay)
}

// WriteICS encodes feasts as an iCalendar feed.
func WriteICS(w io.Writer, name string, feasts []calendar.FeastInstance, label Labeler, stamp time.Time) error {
	cal := BuildCalendar(name, feasts, label, stamp)
	if len(cal.Children) == 0 {
		// An empty VCALENDAR is still a valid feed for subscribers.
		_, err := io.WriteString(w, "BEGIN:VCALENDAR\r\nVERSION:2.0\r\nPRODID:"+ProductID+"\r\nEND:VCALENDAR\r\n")
		return err
	}
	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("encode ics: %w", err)
	}
	return nil
}

// =============================================================================
// CSV
// =============================================================================

// Row is one CSV line.
type Row struct {
	Date        string `csv:"date"`
	Weekday     string `csv:"weekday"`
	Calendar    string `csv:"calendar"`
	NameKey     string `csv:"name_key"`
	Name        string `csv:"name"`
	Kind        string `csv:"kind"`
	Category    string `csv:"category"`
	Offset      string `csv:"offset"`
	NativeMonth string `csv:"native_month"`
	NativeDay   string `csv:"native_day"`
}

// Rows converts feasts to CSV rows. Offset is empty for fixed feasts and the
// native date is empty for movable ones.
func Rows(feasts []calendar.FeastInstance, label Labeler) []*Row {
	rows := make([]*Row, 0, len(feasts))
	for _, f := range feasts {
		row := &Row{
			Date:     f.Date.String(),
			Weekday:  calendar.DayName(f.Date),
			Calendar: f.Calendar.String(),
			NameKey:  f.NameKey,
			Name:     label.label(f.NameKey),
			Kind:     string(f.Kind),
			Category: string(f.Category),
		}
		if f.Offset != nil {
			row.Offset = strconv.Itoa(*f.Offset)
		}
		if f.Kind == calendar.KindFixed {
			row.NativeMonth = strconv.Itoa(f.NativeMonth)
			row.NativeDay = strconv.Itoa(f.NativeDay)
		}
		rows = append(rows, row)
	}
	return rows
}

// WriteCSV encodes feasts as CSV with a header line.
func WriteCSV(w io.Writer, feasts []calendar.FeastInstance, label Labeler) error {
	if err := gocsv.Marshal(Rows(feasts, label), w); err != nil {
		return fmt.Errorf("encode csv: %w", err)
	}
	return nil
}
