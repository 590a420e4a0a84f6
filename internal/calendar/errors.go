package calendar

import (
	"errors"
	"fmt"
)

// =============================================================================
// Error Types
// =============================================================================

var (
	// ErrInvalidYear is returned when a year is outside a calendar's domain.
	ErrInvalidYear = errors.New("invalid year")

	// ErrInvalidMonth is returned when a month does not exist in the given year.
	ErrInvalidMonth = errors.New("invalid month")

	// ErrInvalidDay is returned when a day does not exist in the given month.
	ErrInvalidDay = errors.New("invalid day")

	// ErrInvalidDate is returned when a date string cannot be parsed.
	ErrInvalidDate = errors.New("invalid date")

	// ErrArithmeticDomain guards against non-finite intermediate results.
	// It should never surface for in-domain input.
	ErrArithmeticDomain = errors.New("arithmetic domain error")

	// ErrUnknownCalendar is returned when a calendar system name can't be parsed.
	ErrUnknownCalendar = errors.New("unknown calendar system")

	// ErrNotSupported is returned when a tradition lacks the requested table.
	ErrNotSupported = errors.New("not supported")
)

// RangeError describes an input that fell outside its allowed range.
// It unwraps to one of ErrInvalidYear, ErrInvalidMonth or ErrInvalidDay.
type RangeError struct {
	Kind  error
	Field string
	Value int
	Min   int
	Max   int
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("%v: %s %d outside [%d, %d]", e.Kind, e.Field, e.Value, e.Min, e.Max)
}

func (e *RangeError) Unwrap() error {
	return e.Kind
}

func checkRange(kind error, field string, value, min, max int) error {
	if value < min || value > max {
		return &RangeError{Kind: kind, Field: field, Value: value, Min: min, Max: max}
	}
	return nil
}
