// Package calendar converts dates between the Gregorian, Julian, Hebrew and
// Coptic calendars and derives religious holy days from computed anchors.
//
// Everything in this package is a pure function of its arguments. There is no
// package state besides the read-only feast tables.
package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// Computus domain (Gregorian years).
const (
	MinGregorianYear = 1583
	MaxGregorianYear = 9999

	// DefaultJulianOffsetDays is the Julian→Gregorian gap for 1900-2099.
	DefaultJulianOffsetDays = 13
)

// ValidateGregorianYear reports whether year is inside the computus domain.
func ValidateGregorianYear(year int) error {
	return checkRange(ErrInvalidYear, "year", year, MinGregorianYear, MaxGregorianYear)
}

// WesternEaster calculates the date of Easter Sunday for a given year
// using the computus algorithm for the Gregorian calendar.
//
// The algorithm is the Anonymous Gregorian algorithm (Meeus/Jones/Butcher)
// and is valid for all years in the Gregorian calendar. Domain checks are the
// caller's responsibility; see ValidateGregorianYear.
func WesternEaster(year int) civil.Date {
	// See: https://en.wikipedia.org/wiki/Date_of_Easter#Anonymous_Gregorian_algorithm
	a := year % 19
	b := year / 100
	c := year % 100
	d := b / 4
	e := b % 4
	f := (b + 8) / 25
	g := (b - f + 1) / 3
	h := (19*a + b - d - g + 15) % 30
	i := c / 4
	k := c % 4
	l := (32 + 2*e + 2*i - h - k) % 7
	m := (a + 11*h + 22*l) / 451
	month := (h + l - 7*m + 114) / 31
	day := ((h + l - 7*m + 114) % 31) + 1

	return civil.Date{Year: year, Month: time.Month(month), Day: day}
}

// JulianOffset returns the number of days to add to a Julian calendar date in
// the given year to obtain the Gregorian date.
type JulianOffset func(year int) int

// FixedJulianOffset always returns days. FixedJulianOffset(13) is correct for
// 1900-2099 only.
func FixedJulianOffset(days int) JulianOffset {
	return func(int) int { return days }
}

// CenturyJulianOffset derives the gap from the century, which is exact for
// Julian dates between March 1 and the end of February of the next year.
func CenturyJulianOffset(year int) int {
	return year/100 - year/400 - 2
}

// JulianEaster returns Easter Sunday in the Julian calendar, using Meeus'
// Julian algorithm. The returned value holds Julian month and day numbers;
// it is NOT a Gregorian date.
func JulianEaster(year int) (month time.Month, day int) {
	a := year % 4
	b := year % 7
	c := year % 19
	d := (19*c + 15) % 30
	e := (2*a + 4*b - d + 34) % 7
	m := (d + e + 114) / 31
	dd := ((d + e + 114) % 31) + 1

	return time.Month(m), dd
}

// EasternEaster calculates Orthodox Easter for a given year, expressed in the
// Gregorian calendar with the fixed 13-day Julian offset.
func EasternEaster(year int) civil.Date {
	return EasternEasterWith(year, FixedJulianOffset(DefaultJulianOffsetDays))
}

// EasternEasterWith calculates Orthodox Easter using the supplied offset policy.
func EasternEasterWith(year int, offset JulianOffset) civil.Date {
	month, day := JulianEaster(year)
	// The Julian date is laid onto the Gregorian grid and then shifted.
	// March/April always have the same lengths in both calendars.
	julian := civil.Date{Year: year, Month: month, Day: day}
	return AddDays(julian, offset(year))
}
