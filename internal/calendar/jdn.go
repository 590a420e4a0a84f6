package calendar

import (
	"time"

	"cloud.google.com/go/civil"
)

// JDN is a Julian Day Number: the count of days since noon, 1 January 4713 BC
// (proleptic Julian). Each civil day maps to exactly one JDN, which makes it
// the interchange format between calendar systems.
type JDN int64

// floorDiv divides rounding toward negative infinity.
func floorDiv(a, b int64) int64 {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// CivilToJDN returns the Julian Day Number of a proleptic Gregorian date.
func CivilToJDN(d civil.Date) JDN {
	a := floorDiv(14-int64(d.Month), 12)
	y := int64(d.Year) + 4800 - a
	m := int64(d.Month) + 12*a - 3

	return JDN(int64(d.Day) + floorDiv(153*m+2, 5) + 365*y +
		floorDiv(y, 4) - floorDiv(y, 100) + floorDiv(y, 400) - 32045)
}

// JDNToCivil converts a Julian Day Number to a proleptic Gregorian date.
//
// This is the Meeus inverse with the Gregorian century correction applied
// unconditionally. The fractional constants of the textbook version are
// scaled to integers so the result is exact:
//
//	A = ⌊(Z − 1867216.25) / 36524.25⌋
//	B = Z + 1 + A − ⌊A/4⌋
//	C = B + 1524
//	D = ⌊(C − 122.1) / 365.25⌋
//	E = ⌊365.25 D⌋
//	F = ⌊(C − E) / 30.6001⌋
func JDNToCivil(j JDN) civil.Date {
	z := int64(j)
	a := floorDiv(4*z-7468865, 146097)
	b := z + 1 + a - floorDiv(a, 4)
	c := b + 1524
	d := floorDiv(20*c-2442, 7305)
	e := floorDiv(1461*d, 4)
	f := floorDiv(10000*(c-e), 306001)

	day := c - e - floorDiv(306001*f, 10000)
	month := f - 1
	if f >= 14 {
		month = f - 13
	}
	year := d - 4715
	if month > 2 {
		year = d - 4716
	}

	return civil.Date{Year: int(year), Month: time.Month(month), Day: int(day)}
}

// AddDays returns d shifted by n calendar days.
func AddDays(d civil.Date, n int) civil.Date {
	return JDNToCivil(CivilToJDN(d) + JDN(n))
}

// DaysBetween returns the number of days from a to b (negative when b is earlier).
func DaysBetween(a, b civil.Date) int {
	return int(CivilToJDN(b) - CivilToJDN(a))
}

// Weekday returns the day of the week for a civil date.
func Weekday(d civil.Date) time.Weekday {
	// JDN 0 was a Monday.
	return time.Weekday((int64(CivilToJDN(d))%7 + 8) % 7)
}
