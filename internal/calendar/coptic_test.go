package calendar

import (
	"errors"
	"testing"
	"time"

	"cloud.google.com/go/civil"
)

func TestIsCopticLeapYear(t *testing.T) {
	tests := []struct {
		year int
		want bool
	}{
		{3, true},
		{4, false},
		{5, false},
		{7, true},
		{1739, true},
		{1740, false},
		{1741, false},
	}

	for _, tt := range tests {
		if got := IsCopticLeapYear(tt.year); got != tt.want {
			t.Errorf("IsCopticLeapYear(%d) = %v, want %v", tt.year, got, tt.want)
		}
	}
}

func TestCopticToGregorian(t *testing.T) {
	tests := []struct {
		name  string
		year  int
		month int
		day   int
		want  civil.Date
	}{
		{"era epoch", 1, 1, 1, date(284, time.August, 29)},
		{"nayrouz 1741", 1741, 1, 1, date(2024, time.September, 11)},
		{"christmas 1741", 1741, 4, 29, date(2025, time.January, 7)},
		{"last day of leap year", 1739, 13, 6, date(2023, time.September, 11)},
		{"last day of regular year", 1740, 13, 5, date(2024, time.September, 10)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CopticToGregorian(tt.year, tt.month, tt.day)
			if err != nil {
				t.Fatalf("CopticToGregorian(%d, %d, %d): %v", tt.year, tt.month, tt.day, err)
			}
			if got != tt.want {
				t.Errorf("CopticToGregorian(%d, %d, %d) = %s, want %s", tt.year, tt.month, tt.day, got, tt.want)
			}
		})
	}
}

func TestCopticYearsAreContiguous(t *testing.T) {
	for year := MinCopticYear; year < 2000; year++ {
		last, err := CopticToJDN(year, CopticMonths, copticMonthLength(year, CopticMonths))
		if err != nil {
			t.Fatalf("CopticToJDN(%d, 13, last): %v", year, err)
		}
		next, err := CopticToJDN(year+1, 1, 1)
		if err != nil {
			t.Fatalf("CopticToJDN(%d, 1, 1): %v", year+1, err)
		}
		if next-last != 1 {
			t.Fatalf("gap of %d days between Coptic years %d and %d", next-last, year, year+1)
		}
	}
}

func TestCopticToGregorianErrors(t *testing.T) {
	tests := []struct {
		name    string
		year    int
		month   int
		day     int
		wantErr error
	}{
		{"year 0", 0, 1, 1, ErrInvalidYear},
		{"year past domain", 10000, 1, 1, ErrInvalidYear},
		{"month 14", 1741, 14, 1, ErrInvalidMonth},
		{"day 31", 1741, 1, 31, ErrInvalidDay},
		{"sixth epagomenal day in regular year", 1740, 13, 6, ErrInvalidDay},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := CopticToGregorian(tt.year, tt.month, tt.day)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("CopticToGregorian(%d, %d, %d) error = %v, want %v", tt.year, tt.month, tt.day, err, tt.wantErr)
			}
		})
	}
}

func TestCopticYearContext(t *testing.T) {
	yc, err := CopticYear(1739)
	if err != nil {
		t.Fatalf("CopticYear(1739): %v", err)
	}
	if !yc.Leap || yc.MonthCount != 13 || yc.DaysInYear() != 366 {
		t.Errorf("CopticYear(1739) = %+v, want leap year of 366 days", yc)
	}

	yc, err = CopticYear(1741)
	if err != nil {
		t.Fatalf("CopticYear(1741): %v", err)
	}
	if yc.Leap || yc.DaysInYear() != 365 {
		t.Errorf("CopticYear(1741) = %+v, want regular year of 365 days", yc)
	}
}

func TestCopticEaster(t *testing.T) {
	if got, want := CopticEaster(1741), date(2025, time.April, 20); got != want {
		t.Errorf("CopticEaster(1741) = %s, want %s", got, want)
	}
	if got, want := CopticEaster(1740), EasternEaster(2024); got != want {
		t.Errorf("CopticEaster(1740) = %s, want %s", got, want)
	}
}
