package calendar

import (
	"cloud.google.com/go/civil"
)

// Coptic calendar constants
const (
	// CopticEpochJDN is 1 Thout 1 A.M., i.e. 29 August 284 (Julian), the
	// start of the Era of the Martyrs.
	CopticEpochJDN JDN = 1825030

	// CopticEraOffset is added to a Coptic year to get the Gregorian year in
	// which its Easter falls.
	CopticEraOffset = 284

	MinCopticYear = 1
	MaxCopticYear = 9999

	// CopticMonths counts the twelve 30-day months plus the epagomenal month.
	CopticMonths = 13
)

// IsCopticLeapYear reports whether the epagomenal month of a Coptic year has six days.
func IsCopticLeapYear(year int) bool {
	r := year % 4
	if r < 0 {
		r += 4
	}
	return r == 3
}

// ValidateCopticYear reports whether year is inside the supported range.
func ValidateCopticYear(year int) error {
	return checkRange(ErrInvalidYear, "year", year, MinCopticYear, MaxCopticYear)
}

// CopticMonthLength returns the number of days in a Coptic month.
func CopticMonthLength(year, month int) (int, error) {
	if err := ValidateCopticYear(year); err != nil {
		return 0, err
	}
	if err := checkRange(ErrInvalidMonth, "month", month, 1, CopticMonths); err != nil {
		return 0, err
	}
	return copticMonthLength(year, month), nil
}

func copticMonthLength(year, month int) int {
	if month < CopticMonths {
		return 30
	}
	if IsCopticLeapYear(year) {
		return 6
	}
	return 5
}

// CopticYear returns the year context for a Coptic year.
func CopticYear(year int) (YearContext, error) {
	if err := ValidateCopticYear(year); err != nil {
		return YearContext{}, err
	}
	lengths := make([]int, CopticMonths)
	for m := 1; m <= CopticMonths; m++ {
		lengths[m-1] = copticMonthLength(year, m)
	}

	return YearContext{
		System:       Coptic,
		Year:         year,
		Leap:         IsCopticLeapYear(year),
		MonthCount:   CopticMonths,
		MonthLengths: lengths,
	}, nil
}

// CopticToJDN returns the Julian Day Number of a Coptic date.
func CopticToJDN(year, month, day int) (JDN, error) {
	length, err := CopticMonthLength(year, month)
	if err != nil {
		return 0, err
	}
	if err := checkRange(ErrInvalidDay, "day", day, 1, length); err != nil {
		return 0, err
	}

	days := int64(year-1)*365 + int64(year/4) + int64(month-1)*30 + int64(day-1)
	return CopticEpochJDN + JDN(days), nil
}

// CopticToGregorian converts a Coptic date to a proleptic Gregorian date.
func CopticToGregorian(year, month, day int) (civil.Date, error) {
	j, err := CopticToJDN(year, month, day)
	if err != nil {
		return civil.Date{}, err
	}
	return JDNToCivil(j), nil
}

// CopticEaster returns Easter of a Coptic year with the fixed 13-day offset.
// The Coptic church follows the Julian computus, so this is EasternEaster of
// the Gregorian year the feast falls in.
func CopticEaster(year int) civil.Date {
	return CopticEasterWith(year, FixedJulianOffset(DefaultJulianOffsetDays))
}

// CopticEasterWith returns Easter of a Coptic year using the supplied offset policy.
func CopticEasterWith(year int, offset JulianOffset) civil.Date {
	return EasternEasterWith(year+CopticEraOffset, offset)
}
