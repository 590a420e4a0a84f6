package export

import (
	"bytes"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/emersion/go-ical"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zapponejosh/feastday-api/internal/calendar"
)

var stamp = time.Date(2025, time.January, 1, 12, 0, 0, 0, time.UTC)

func western2025(t *testing.T) []calendar.FeastInstance {
	t.Helper()
	feasts, err := calendar.ListHolyDays(calendar.Western, 2025)
	require.NoError(t, err)
	return feasts
}

func upper(key string) string { return strings.ToUpper(key) }

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatJSON, false},
		{"json", FormatJSON, false},
		{"csv", FormatCSV, false},
		{"ics", FormatICS, false},
		{"xml", "", true},
	}

	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, ErrUnknownFormat, tt.in)
			continue
		}
		assert.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got)
	}

	assert.Equal(t, "text/calendar; charset=utf-8", FormatICS.ContentType())
	assert.Equal(t, "text/csv; charset=utf-8", FormatCSV.ContentType())
	assert.Equal(t, "application/json", FormatJSON.ContentType())
}

func TestWriteICS(t *testing.T) {
	feasts := western2025(t)

	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, "Western 2025", feasts, upper, stamp))

	cal, err := ical.NewDecoder(&buf).Decode()
	require.NoError(t, err)

	prodID, err := cal.Props.Text(ical.PropProductID)
	require.NoError(t, err)
	assert.Equal(t, ProductID, prodID)

	events := cal.Events()
	require.Len(t, events, len(feasts))

	var easter *ical.Event
	uids := make(map[string]bool)
	for i := range events {
		uid, err := events[i].Props.Text(ical.PropUID)
		require.NoError(t, err)
		assert.False(t, uids[uid], "duplicate uid %s", uid)
		uids[uid] = true

		summary, err := events[i].Props.Text(ical.PropSummary)
		require.NoError(t, err)
		if summary == "WESTERN.EASTER" {
			easter = &events[i]
		}
	}
	require.NotNil(t, easter, "easter event missing")

	start, err := easter.DateTimeStart(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, time.April, 20, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, ical.ValueDate, easter.Props.Get(ical.PropDateTimeStart).ValueType())

	end, err := easter.DateTimeEnd(time.UTC)
	require.NoError(t, err)
	assert.Equal(t, start.AddDate(0, 0, 1), end)
}

func TestWriteICS_StableUIDs(t *testing.T) {
	feasts := western2025(t)

	var first, second bytes.Buffer
	require.NoError(t, WriteICS(&first, "", feasts, nil, stamp))
	require.NoError(t, WriteICS(&second, "", feasts, nil, stamp.Add(24*time.Hour)))

	uidsOf := func(buf *bytes.Buffer) []string {
		cal, err := ical.NewDecoder(buf).Decode()
		require.NoError(t, err)
		var uids []string
		for _, ev := range cal.Events() {
			uid, err := ev.Props.Text(ical.PropUID)
			require.NoError(t, err)
			uids = append(uids, uid)
		}
		return uids
	}

	assert.Equal(t, uidsOf(&first), uidsOf(&second))
}

func TestWriteICS_Empty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteICS(&buf, "", nil, nil, stamp))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "BEGIN:VCALENDAR"))
	assert.Contains(t, out, "END:VCALENDAR")
	assert.NotContains(t, out, "VEVENT")
}

func TestEventUID(t *testing.T) {
	offset := 0
	f := calendar.FeastInstance{
		NameKey:  "western.easter",
		Date:     calendar.WesternEaster(2025),
		Calendar: calendar.Western,
		Kind:     calendar.KindMovable,
		Offset:   &offset,
	}
	assert.Equal(t, "western-western.easter-2025-04-20@feastday-api", EventUID(f))
}

func TestWriteCSV(t *testing.T) {
	feasts := western2025(t)

	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, feasts, upper))

	records, err := csv.NewReader(&buf).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, len(feasts)+1)

	assert.Equal(t, []string{
		"date", "weekday", "calendar", "name_key", "name",
		"kind", "category", "offset", "native_month", "native_day",
	}, records[0])

	byKey := make(map[string][]string)
	for _, rec := range records[1:] {
		byKey[rec[3]] = rec
	}

	easter := byKey["western.easter"]
	require.NotNil(t, easter)
	assert.Equal(t, []string{
		"2025-04-20", "Sunday", "western", "western.easter", "WESTERN.EASTER",
		"movable", "major", "0", "", "",
	}, easter)

	christmas := byKey["western.christmas"]
	require.NotNil(t, christmas)
	assert.Equal(t, "2025-12-25", christmas[0])
	assert.Equal(t, "fixed", christmas[5])
	assert.Empty(t, christmas[7])
	assert.Equal(t, "12", christmas[8])
	assert.Equal(t, "25", christmas[9])
}

func TestRows_NilLabeler(t *testing.T) {
	rows := Rows(western2025(t), nil)
	for _, row := range rows {
		assert.Equal(t, row.NameKey, row.Name)
	}
}
