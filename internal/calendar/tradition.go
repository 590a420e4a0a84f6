package calendar

import (
	"fmt"
	"strings"
	"time"

	"cloud.google.com/go/civil"
)

// CalendarSystem selects a tradition: which anchor to compute and which feast
// tables to resolve against it.
type CalendarSystem int

const (
	Western CalendarSystem = iota + 1
	Eastern
	Hebrew
	Coptic
)

// AllSystems lists every calendar system in a stable order.
func AllSystems() []CalendarSystem {
	return []CalendarSystem{Western, Eastern, Hebrew, Coptic}
}

func (s CalendarSystem) String() string {
	switch s {
	case Western:
		return "western"
	case Eastern:
		return "eastern"
	case Hebrew:
		return "hebrew"
	case Coptic:
		return "coptic"
	default:
		return fmt.Sprintf("CalendarSystem(%d)", int(s))
	}
}

// ParseCalendarSystem accepts the lowercase names returned by String.
func ParseCalendarSystem(name string) (CalendarSystem, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "western":
		return Western, nil
	case "eastern":
		return Eastern, nil
	case "hebrew":
		return Hebrew, nil
	case "coptic":
		return Coptic, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCalendar, name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (s CalendarSystem) MarshalText() ([]byte, error) {
	switch s {
	case Western, Eastern, Hebrew, Coptic:
		return []byte(s.String()), nil
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownCalendar, int(s))
	}
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (s *CalendarSystem) UnmarshalText(text []byte) error {
	parsed, err := ParseCalendarSystem(string(text))
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}

// AnchorFunc computes the reference date that movable feasts are offset from.
type AnchorFunc func(year int) (civil.Date, error)

// Tradition bundles everything needed to list one calendar system's holy days.
// Adding a tradition means supplying one of these; the converters stay as-is.
type Tradition struct {
	System       CalendarSystem
	ValidateYear func(year int) error
	Anchor       AnchorFunc
	Fixed        []FixedFeast
	Movable      []FeastDefinition
	HolyWeek     []FeastDefinition
}

// Registry maps calendar systems to traditions. A Registry is immutable after
// construction and safe for concurrent use.
type Registry struct {
	offset     JulianOffset
	traditions map[CalendarSystem]Tradition
}

// Option configures a Registry.
type Option func(*Registry)

// WithJulianOffset sets the Julian→Gregorian policy used by the Eastern and
// Coptic anchors. The default is FixedJulianOffset(13).
func WithJulianOffset(offset JulianOffset) Option {
	return func(r *Registry) {
		if offset != nil {
			r.offset = offset
		}
	}
}

// WithTradition replaces the tradition registered for t.System.
func WithTradition(t Tradition) Option {
	return func(r *Registry) {
		r.traditions[t.System] = t
	}
}

// NewRegistry builds a registry holding the built-in traditions.
func NewRegistry(opts ...Option) *Registry {
	r := &Registry{
		offset:     FixedJulianOffset(DefaultJulianOffsetDays),
		traditions: make(map[CalendarSystem]Tradition),
	}

	// Defaults close over the final offset; traditions set by options win.
	for _, opt := range opts {
		opt(r)
	}
	for _, t := range r.defaults() {
		if _, ok := r.traditions[t.System]; !ok {
			r.traditions[t.System] = t
		}
	}
	return r
}

func (r *Registry) defaults() []Tradition {
	offset := r.offset
	return []Tradition{
		{
			System:       Western,
			ValidateYear: ValidateGregorianYear,
			Anchor: func(year int) (civil.Date, error) {
				return WesternEaster(year), nil
			},
			Fixed:    westernFixedFeasts,
			Movable:  westernMovableFeasts,
			HolyWeek: holyWeekDays,
		},
		{
			System:       Eastern,
			ValidateYear: ValidateGregorianYear,
			Anchor: func(year int) (civil.Date, error) {
				return EasternEasterWith(year, offset), nil
			},
			Fixed:    easternFixedFeasts,
			Movable:  easternMovableFeasts,
			HolyWeek: holyWeekDays,
		},
		{
			System:       Hebrew,
			ValidateYear: ValidateHebrewYear,
			Anchor:       RoshHashanah,
			Fixed:        hebrewFixedFeasts,
		},
		{
			System:       Coptic,
			ValidateYear: ValidateCopticYear,
			Anchor: func(year int) (civil.Date, error) {
				return CopticEasterWith(year, offset), nil
			},
			Fixed:    copticFixedFeasts,
			Movable:  copticMovableFeasts,
			HolyWeek: holyWeekDays,
		},
	}
}

// Tradition returns the tradition registered for a system.
func (r *Registry) Tradition(system CalendarSystem) (Tradition, error) {
	t, ok := r.traditions[system]
	if !ok {
		return Tradition{}, fmt.Errorf("%w: %v", ErrUnknownCalendar, system)
	}
	return t, nil
}

// JulianOffset returns the offset policy in use.
func (r *Registry) JulianOffset() JulianOffset {
	return r.offset
}

// Anchor validates year and computes the tradition's anchor date.
func (r *Registry) Anchor(system CalendarSystem, year int) (civil.Date, error) {
	t, err := r.Tradition(system)
	if err != nil {
		return civil.Date{}, err
	}
	return t.anchor(year)
}

func (t Tradition) anchor(year int) (civil.Date, error) {
	if t.ValidateYear != nil {
		if err := t.ValidateYear(year); err != nil {
			return civil.Date{}, err
		}
	}
	if t.Anchor == nil {
		return civil.Date{}, fmt.Errorf("%v has no anchor: %w", t.System, ErrNotSupported)
	}
	return t.Anchor(year)
}

// ListHolyDays returns every fixed and movable feast of a tradition for one
// year, sorted by date. Fixed feasts come first when two share a date.
func (r *Registry) ListHolyDays(system CalendarSystem, year int) ([]FeastInstance, error) {
	t, err := r.Tradition(system)
	if err != nil {
		return nil, err
	}
	if t.ValidateYear != nil {
		if err := t.ValidateYear(year); err != nil {
			return nil, err
		}
	}

	result := make([]FeastInstance, 0, len(t.Fixed)+len(t.Movable))
	for _, f := range t.Fixed {
		inst, err := resolveFixed(f, year, r.offset)
		if err != nil {
			return nil, fmt.Errorf("resolve %s: %w", f.NameKey, err)
		}
		inst.Calendar = system
		result = append(result, inst)
	}

	if len(t.Movable) > 0 {
		anchor, err := t.anchor(year)
		if err != nil {
			return nil, err
		}
		for _, inst := range DeriveMovableFeasts(anchor, t.Movable) {
			inst.Calendar = system
			result = append(result, inst)
		}
	}

	SortByDate(result)
	return result, nil
}

// HolyWeek returns the days from Lazarus Saturday to Easter Monday.
func (r *Registry) HolyWeek(system CalendarSystem, year int) ([]FeastInstance, error) {
	t, err := r.Tradition(system)
	if err != nil {
		return nil, err
	}
	if len(t.HolyWeek) == 0 {
		return nil, fmt.Errorf("holy week for %v: %w", system, ErrNotSupported)
	}

	anchor, err := t.anchor(year)
	if err != nil {
		return nil, err
	}

	days := DeriveMovableFeasts(anchor, t.HolyWeek)
	for i := range days {
		days[i].Calendar = system
	}
	return days, nil
}

// resolveFixed converts a fixed feast's native date for the given year.
// offset places Julian feasts on the Gregorian grid.
func resolveFixed(f FixedFeast, year int, offset JulianOffset) (FeastInstance, error) {
	inst := FeastInstance{
		NameKey:   f.NameKey,
		Kind:      KindFixed,
		Category:  f.Category,
		NativeDay: f.Day,
	}

	switch f.Calendar {
	case Western, Eastern:
		if err := checkRange(ErrInvalidMonth, "month", f.Month, 1, 12); err != nil {
			return FeastInstance{}, err
		}
		d := civil.Date{Year: year, Month: time.Month(f.Month), Day: f.Day}
		if !d.IsValid() {
			return FeastInstance{}, &RangeError{Kind: ErrInvalidDay, Field: "day", Value: f.Day, Min: 1, Max: daysIn(year, time.Month(f.Month))}
		}
		if f.Julian {
			d = julianFeastDate(f, year, offset)
		}
		inst.Date = d
		inst.NativeMonth = f.Month
	case Hebrew:
		month := HebrewMonth(f.Month).Number(year)
		d, err := HebrewToGregorian(year, month, f.Day)
		if err != nil {
			return FeastInstance{}, err
		}
		inst.Date = d
		inst.NativeMonth = month
	case Coptic:
		d, err := CopticToGregorian(year, f.Month, f.Day)
		if err != nil {
			return FeastInstance{}, err
		}
		inst.Date = d
		inst.NativeMonth = f.Month
	default:
		return FeastInstance{}, fmt.Errorf("%w: %v", ErrUnknownCalendar, f.Calendar)
	}

	return inst, nil
}

// julianFeastDate shifts a Julian month/day into Gregorian year. When the
// shift carries the Julian date into the next year (Christmas), the previous
// Julian year is used instead.
func julianFeastDate(f FixedFeast, year int, offset JulianOffset) civil.Date {
	days := offset(year)
	d := AddDays(civil.Date{Year: year, Month: time.Month(f.Month), Day: f.Day}, days)
	if d.Year > year {
		d = AddDays(civil.Date{Year: year - 1, Month: time.Month(f.Month), Day: f.Day}, days)
	}
	return d
}

// daysIn returns the length of a Gregorian month.
func daysIn(year int, month time.Month) int {
	first := civil.Date{Year: year, Month: month, Day: 1}
	next := first.In(time.UTC).AddDate(0, 1, 0)
	return DaysBetween(first, civil.DateOf(next))
}

// ListHolyDays lists a tradition's holy days using the built-in tables and
// the fixed 13-day Julian offset.
func ListHolyDays(system CalendarSystem, year int) ([]FeastInstance, error) {
	return NewRegistry().ListHolyDays(system, year)
}
