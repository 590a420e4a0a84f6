package calendar

import (
	"fmt"
	"math"
	"time"

	"cloud.google.com/go/civil"
)

// Hebrew calendar constants
const (
	// MinHebrewYear is the first Hebrew year whose Rosh Hashanah falls in
	// the Gregorian era (year 3761 → Gregorian year 0).
	MinHebrewYear = 3761

	// MaxHebrewYear bounds the approximation to a range it has been checked over.
	MaxHebrewYear = 12000

	// HebrewEpochOffset is subtracted from a Hebrew year to get the Gregorian
	// year in which its Rosh Hashanah falls.
	HebrewEpochOffset = 3761
)

// HebrewMonth names a month of the Hebrew civil year, independent of whether
// the year is a leap year. Feast tables use it so that a definition does not
// need to know the year type.
type HebrewMonth int

const (
	Tishrei HebrewMonth = iota + 1
	Cheshvan
	Kislev
	Tevet
	Shevat
	// Adar is plain Adar in a regular year and Adar I in a leap year.
	Adar
	// AdarII is the intercalary month. In a regular year it resolves to Adar,
	// which is where Adar observances (Purim) are kept.
	AdarII
	Nisan
	Iyar
	Sivan
	Tammuz
	Av
	Elul
)

var hebrewMonthNames = map[HebrewMonth]string{
	Tishrei:  "tishrei",
	Cheshvan: "cheshvan",
	Kislev:   "kislev",
	Tevet:    "tevet",
	Shevat:   "shevat",
	Adar:     "adar",
	AdarII:   "adar_ii",
	Nisan:    "nisan",
	Iyar:     "iyar",
	Sivan:    "sivan",
	Tammuz:   "tammuz",
	Av:       "av",
	Elul:     "elul",
}

func (m HebrewMonth) String() string {
	if name, ok := hebrewMonthNames[m]; ok {
		return name
	}
	return fmt.Sprintf("HebrewMonth(%d)", int(m))
}

// Number returns the civil-order month number of m in the given year
// (Tishrei = 1). In a regular year AdarII and every later month are numbered one lower.
func (m HebrewMonth) Number(year int) int {
	if IsHebrewLeapYear(year) || m <= Adar {
		return int(m)
	}
	return int(m) - 1
}

// HebrewMonthOf is the inverse of Number: it names the month at a
// civil-order position in the given year.
func HebrewMonthOf(year, number int) HebrewMonth {
	if IsHebrewLeapYear(year) || number <= int(Adar) {
		return HebrewMonth(number)
	}
	return HebrewMonth(number + 1)
}

// Month lengths in civil order. Cheshvan and Kislev are treated as fixed
// (29 and 30) even though they vary with the year type.
var (
	hebrewRegularMonths = []int{30, 29, 30, 29, 30, 29, 30, 29, 30, 29, 30, 29}
	hebrewLeapMonths    = []int{30, 29, 30, 29, 30, 30, 29, 30, 29, 30, 29, 30, 29}
)

// hebrewLeapPositions are the leap years within the 19-year Metonic cycle.
var hebrewLeapPositions = map[int]bool{3: true, 6: true, 8: true, 11: true, 14: true, 17: true, 19: true}

// IsHebrewLeapYear reports whether a Hebrew year has thirteen months.
func IsHebrewLeapYear(year int) bool {
	return hebrewLeapPositions[HebrewCyclePosition(year)]
}

// HebrewCyclePosition returns the 1-based position of year in its Metonic cycle.
func HebrewCyclePosition(year int) int {
	pos := (year - 1) % 19
	if pos < 0 {
		pos += 19
	}
	return pos + 1
}

// HebrewMonthCount returns 13 for leap years and 12 otherwise.
func HebrewMonthCount(year int) int {
	if IsHebrewLeapYear(year) {
		return 13
	}
	return 12
}

func hebrewMonthTable(year int) []int {
	if IsHebrewLeapYear(year) {
		return hebrewLeapMonths
	}
	return hebrewRegularMonths
}

// ValidateHebrewYear reports whether year is inside the supported range.
func ValidateHebrewYear(year int) error {
	return checkRange(ErrInvalidYear, "year", year, MinHebrewYear, MaxHebrewYear)
}

// HebrewMonthLength returns the number of days in a civil-order month.
func HebrewMonthLength(year, month int) (int, error) {
	if err := ValidateHebrewYear(year); err != nil {
		return 0, err
	}
	if err := checkRange(ErrInvalidMonth, "month", month, 1, HebrewMonthCount(year)); err != nil {
		return 0, err
	}
	return hebrewMonthTable(year)[month-1], nil
}

// HebrewYear returns the year context for a Hebrew year.
func HebrewYear(year int) (YearContext, error) {
	if err := ValidateHebrewYear(year); err != nil {
		return YearContext{}, err
	}
	table := hebrewMonthTable(year)
	lengths := make([]int, len(table))
	copy(lengths, table)

	return YearContext{
		System:       Hebrew,
		Year:         year,
		Leap:         IsHebrewLeapYear(year),
		MonthCount:   len(lengths),
		MonthLengths: lengths,
	}, nil
}

// RoshHashanah approximates 1 Tishrei of a Hebrew year as a Gregorian date.
//
// It uses Gauss's molad formula without the postponement rules:
//
//	a = (12y + 17) mod 19
//	b = y mod 4
//	m = 32.044093161144 + 1.5542417966212·a + b/4 − 0.0031777940220923·y
//
// and returns September ⌊m⌋ of Gregorian year y − 3761, letting day numbers
// past 30 roll into October.
func RoshHashanah(year int) (civil.Date, error) {
	if err := ValidateHebrewYear(year); err != nil {
		return civil.Date{}, err
	}

	a := (12*year + 17) % 19
	b := year % 4
	m := 32.044093161144 + 1.5542417966212*float64(a) + float64(b)/4 - 0.0031777940220923*float64(year)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return civil.Date{}, fmt.Errorf("rosh hashanah %d: %w", year, ErrArithmeticDomain)
	}

	day := int(math.Floor(m))
	sept1 := civil.Date{Year: year - HebrewEpochOffset, Month: time.September, Day: 1}
	return AddDays(sept1, day-1), nil
}

// HebrewToGregorian converts a Hebrew date (civil month order, Tishrei = 1)
// to a Gregorian date by counting days from Rosh Hashanah.
func HebrewToGregorian(year, month, day int) (civil.Date, error) {
	offset, err := DaysSinceRoshHashanah(year, month, day)
	if err != nil {
		return civil.Date{}, err
	}

	anchor, err := RoshHashanah(year)
	if err != nil {
		return civil.Date{}, err
	}
	return AddDays(anchor, offset), nil
}

// DaysSinceRoshHashanah returns the offset of a Hebrew date from 1 Tishrei.
func DaysSinceRoshHashanah(year, month, day int) (int, error) {
	length, err := HebrewMonthLength(year, month)
	if err != nil {
		return 0, err
	}
	if err := checkRange(ErrInvalidDay, "day", day, 1, length); err != nil {
		return 0, err
	}

	offset := day - 1
	for _, n := range hebrewMonthTable(year)[:month-1] {
		offset += n
	}
	return offset, nil
}
