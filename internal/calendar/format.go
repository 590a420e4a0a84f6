package calendar

import (
	"fmt"
	"regexp"
	"strconv"

	"cloud.google.com/go/civil"
)

// DayName returns the day of week name (Sunday, Monday, etc.)
func DayName(date civil.Date) string {
	return Weekday(date).String()
}

// Ordinal returns the ordinal form of a number (1st, 2nd, 3rd, 4th, etc.)
func Ordinal(n int) string {
	if n%100 >= 11 && n%100 <= 13 {
		return fmt.Sprintf("%dth", n)
	}
	switch n % 10 {
	case 1:
		return fmt.Sprintf("%dst", n)
	case 2:
		return fmt.Sprintf("%dnd", n)
	case 3:
		return fmt.Sprintf("%drd", n)
	}
	return fmt.Sprintf("%dth", n)
}

// ParseDate parses a YYYY-MM-DD string into a civil date.
func ParseDate(s string) (civil.Date, error) {
	d, err := civil.ParseDate(s)
	if err != nil {
		return civil.Date{}, fmt.Errorf("%w %q: %w", ErrInvalidDate, s, err)
	}
	return d, nil
}

var nativeDatePattern = regexp.MustCompile(`^(\d{1,5})-(\d{1,2})-(\d{1,2})$`)

// ParseNativeDate parses a year-month-day triple written in a non-Gregorian
// calendar, e.g. "5785-7-14". The values are not range checked here; the
// converters do that.
func ParseNativeDate(s string) (year, month, day int, err error) {
	matches := nativeDatePattern.FindStringSubmatch(s)
	if len(matches) != 4 {
		return 0, 0, 0, fmt.Errorf("%w %q: want year-month-day", ErrInvalidDate, s)
	}

	// The pattern guarantees digits, so Atoi only fails on overflow.
	if year, err = strconv.Atoi(matches[1]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid year: %w", err)
	}
	if month, err = strconv.Atoi(matches[2]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid month: %w", err)
	}
	if day, err = strconv.Atoi(matches[3]); err != nil {
		return 0, 0, 0, fmt.Errorf("invalid day: %w", err)
	}
	return year, month, day, nil
}
