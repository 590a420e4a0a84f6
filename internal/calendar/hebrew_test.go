package calendar

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestIsHebrewLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{5782, true},
		{5783, false},
		{5784, true},
		{5785, false},
		{5786, false},
		{5787, true},
	}

	for _, tt := range tests {
		if got := IsHebrewLeapYear(tt.year); got != tt.want {
			t.Errorf("IsHebrewLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestHebrewLeapYearsPerCycle(t *testing.T) {
	for start := MinHebrewYear; start <= MinHebrewYear+200; start++ {
		count := 0
		for y := start; y < start+19; y++ {
			if IsHebrewLeapYear(y) {
				count++
			}
		}
		if count != 7 {
			t.Fatalf("years %d..%d have %d leap years, want 7", start, start+18, count)
		}
	}
}

func TestHebrewMonthLength(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		want    int
		wantErr error
	}{
		{"tishrei", 5785, 1, 30, nil},
		{"cheshvan", 5785, 2, 29, nil},
		{"adar regular", 5785, 6, 29, nil},
		{"elul regular", 5785, 12, 29, nil},
		{"adar I leap", 5784, 6, 30, nil},
		{"adar II leap", 5784, 7, 29, nil},
		{"elul leap", 5784, 13, 29, nil},
		{"month 13 in regular year", 5785, 13, 0, ErrInvalidMonth},
		{"month 0", 5785, 0, 0, ErrInvalidMonth},
		{"year before domain", 3760, 1, 0, ErrInvalidYear},
		{"year after domain", 12001, 1, 0, ErrInvalidYear},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HebrewMonthLength(tt.year, tt.month)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("HebrewMonthLength(%d, %d) error = %v, want %v", tt.year, tt.month, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("HebrewMonthLength(%d, %d) unexpected error: %v", tt.year, tt.month, err)
			}
			if got != tt.want {
				t.Errorf("HebrewMonthLength(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
			}
		})
	}
}

func TestHebrewYearContext(t *testing.T) {
	regular, err := HebrewYear(5785)
	if err != nil {
		t.Fatalf("HebrewYear(5785): %v", err)
	}
	if regular.Leap || regular.MonthCount != 12 || regular.DaysInYear() != 354 {
		t.Errorf("HebrewYear(5785) = %+v, want 12 months, 354 days", regular)
	}

	leap, err := HebrewYear(5784)
	if err != nil {
		t.Fatalf("HebrewYear(5784): %v", err)
	}
	if !leap.Leap || leap.MonthCount != 13 || leap.DaysInYear() != 384 {
		t.Errorf("HebrewYear(5784) = %+v, want 13 months, 384 days", leap)
	}

	// The context is a copy; changing it must not touch the tables.
	leap.MonthLengths[0] = 1
	if n, _ := HebrewMonthLength(5784, 1); n != 30 {
		t.Errorf("HebrewMonthLength(5784, 1) = %d after mutating context, want 30", n)
	}
}

func TestRoshHashanah(t *testing.T) {
	tests := []struct {
		year int
		want civil.Date
	}{
		{5784, date(2023, time.October, 11)},
		{5785, date(2024, time.October, 1)},
		{5786, date(2025, time.September, 20)},
	}

	for _, tt := range tests {
		got, err := RoshHashanah(tt.year)
		if err != nil {
			t.Fatalf("RoshHashanah(%d): %v", tt.year, err)
		}
		if got != tt.want {
			t.Errorf("RoshHashanah(%d) = %s, want %s", tt.year, got, tt.want)
		}
	}
}

func TestRoshHashanahDomain(t *testing.T) {
	for _, year := range []int{MinHebrewYear, 5000, MaxHebrewYear} {
		d, err := RoshHashanah(year)
		if err != nil {
			t.Fatalf("RoshHashanah(%d): %v", year, err)
		}
		if d.Year != year-HebrewEpochOffset {
			t.Errorf("RoshHashanah(%d) = %s, want Gregorian year %d", year, d, year-HebrewEpochOffset)
		}
		if d.Month != time.September && d.Month != time.October {
			t.Errorf("RoshHashanah(%d) = %s, want September or October", year, d)
		}
	}

	if _, err := RoshHashanah(MinHebrewYear - 1); !errors.Is(err, ErrInvalidYear) {
		t.Errorf("RoshHashanah(%d) error = %v, want ErrInvalidYear", MinHebrewYear-1, err)
	}
}

func TestHebrewToGregorian(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
		want  civil.Date
	}{
		{"rosh hashanah", 5785, 1, 1, date(2024, time.October, 1)},
		{"yom kippur", 5785, 1, 10, date(2024, time.October, 10)},
		{"hanukkah", 5785, 3, 25, date(2024, time.December, 23)},
		{"purim regular year", 5785, 6, 14, date(2025, time.March, 11)},
		{"passover regular year", 5785, 7, 15, date(2025, time.April, 10)},
		{"purim leap year", 5784, 7, 14, date(2024, time.April, 19)},
		{"passover leap year", 5784, 8, 15, date(2024, time.May, 19)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HebrewToGregorian(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("HebrewToGregorian(%d, %d, %d): %v", tt.year, tt.month, tt.day, err)
			}
			if got != tt.want {
				t.Errorf("HebrewToGregorian(%d, %d, %d) = %s, want %s", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestHebrewToGregorianErrors(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		day     int
		wantErr error
	}{
		{"year too small", 3000, 1, 1, ErrInvalidYear},
		{"month 13 in regular year", 5785, 13, 1, ErrInvalidMonth},
		{"day 30 in 29-day month", 5785, 2, 30, ErrInvalidDay},
		{"day 0", 5785, 1, 0, ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := HebrewToGregorian(tt.year, tt.month, tt.day)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("HebrewToGregorian(%d, %d, %d) error = %v, want %v", tt.year, tt.month, tt.day, err, tt.wantErr)
			}
		})
	}

	var rangeErr *RangeError
	_, err := HebrewToGregorian(5785, 2, 30)
	if !errors.As(err, &rangeErr) {
		t.Fatalf("error %v is not a *RangeError", err)
	}
	if rangeErr.Field != "day" || rangeErr.Value != 30 || rangeErr.Max != 29 {
		t.Errorf("RangeError = %+v, want day 30 with max 29", rangeErr)
	}
}

func TestHebrewMonthBoundariesAreContiguous(t *testing.T) {
	for _, year := range []int{5784, 5785} {
		count := HebrewMonthCount(year)
		for month := 1; month < count; month++ {
			length, err := HebrewMonthLength(year, month)
			if err != nil {
				t.Fatalf("HebrewMonthLength(%d, %d): %v", year, month, err)
			}
			last, err := HebrewToGregorian(year, month, length)
			if err != nil {
				t.Fatalf("HebrewToGregorian(%d, %d, %d): %v", year, month, length, err)
			}
			first, err := HebrewToGregorian(year, month+1, 1)
			if err != nil {
				t.Fatalf("HebrewToGregorian(%d, %d, 1): %v", year, month+1, err)
			}
			if DaysBetween(last, first) != 1 {
				t.Errorf("year %d: month %d ends %s, month %d starts %s", year, month, last, month+1, first)
			}
		}
	}
}

func TestHebrewMonthNumber(t *testing.T) {
	tests := []struct {
		month HebrewMonth
		year  int
		want  int
	}{
		{Tishrei, 5785, 1},
		{Adar, 5785, 6},
		{AdarII, 5785, 6},
		{Nisan, 5785, 7},
		{Elul, 5785, 12},
		{Adar, 5784, 6},
		{AdarII, 5784, 7},
		{Nisan, 5784, 8},
		{Elul, 5784, 13},
	}

	for _, tt := range tests {
		if got := tt.month.Number(tt.year); got != tt.want {
			t.Errorf("%v.Number(%d) = %d, want %d", tt.month, tt.year, got, tt.want)
		}
	}
}

func TestHebrewMonthOf(t *testing.T) {
	for _, year := range []int{5784, 5785} {
		for n := 1; n <= HebrewMonthCount(year); n++ {
			m := HebrewMonthOf(year, n)
			if got := m.Number(year); got != n {
				t.Errorf("HebrewMonthOf(%d, %d) = %v, which numbers back as %d", year, n, m, got)
			}
		}
	}

	if got := HebrewMonthOf(5785, 7); got != Nisan {
		t.Errorf("HebrewMonthOf(5785, 7) = %v, want nisan", got)
	}
	if got := HebrewMonthOf(5784, 7); got != AdarII {
		t.Errorf("HebrewMonthOf(5784, 7) = %v, want adar_ii", got)
	}
}
