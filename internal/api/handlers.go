package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"cloud.google.com/go/civil"
	"github.com/go-chi/chi/v5"

	"github.com/zapponejosh/feastday-api/internal/calendar"
	"github.com/zapponejosh/feastday-api/internal/config"
	"github.com/zapponejosh/feastday-api/internal/database"
	"github.com/zapponejosh/feastday-api/internal/export"
	"github.com/zapponejosh/feastday-api/internal/i18n"
	"github.com/zapponejosh/feastday-api/internal/logger"
	"github.com/zapponejosh/feastday-api/internal/materialize"
	"github.com/zapponejosh/feastday-api/internal/metrics"
)

// Materializer runs one materialization pass.
type Materializer interface {
	Run(ctx context.Context, fromYear, toYear int) (*materialize.Result, error)
}

// Deps are the collaborators the handlers need.
type Deps struct {
	DB           *database.DB
	Registry     *calendar.Registry
	Translator   *i18n.Translator
	Materializer Materializer
	Metrics      *metrics.Metrics
	Config       *config.Config
	Logger       *slog.Logger
}

// Handlers contains all HTTP handlers and their dependencies.
type Handlers struct {
	db           *database.DB
	registry     *calendar.Registry
	translator   *i18n.Translator
	materializer Materializer
	metrics      *metrics.Metrics
	cfg          *config.Config
	logger       *slog.Logger
	now          func() time.Time
}

// NewHandlers creates a new Handlers instance. A nil Metrics gets a private registry.
func NewHandlers(deps Deps) *Handlers {
	if deps.Metrics == nil {
		deps.Metrics = metrics.New()
	}
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	return &Handlers{
		db:           deps.DB,
		registry:     deps.Registry,
		translator:   deps.Translator,
		materializer: deps.Materializer,
		metrics:      deps.Metrics,
		cfg:          deps.Config,
		logger:       deps.Logger,
		now:          time.Now,
	}
}

// =============================================================================
// Views
// =============================================================================

type dateView struct {
	Date    civil.Date `json:"date"`
	Weekday string     `json:"weekday"`
}

func viewDate(d civil.Date) dateView {
	return dateView{Date: d, Weekday: calendar.DayName(d)}
}

type feastView struct {
	NameKey     string                  `json:"name_key"`
	Name        string                  `json:"name"`
	Date        civil.Date              `json:"date"`
	Weekday     string                  `json:"weekday"`
	Calendar    calendar.CalendarSystem `json:"calendar"`
	Kind        calendar.Kind           `json:"kind"`
	Category    calendar.Category       `json:"category"`
	Offset      *int                    `json:"offset,omitempty"`
	NativeMonth int                     `json:"native_month,omitempty"`
	NativeDay   int                     `json:"native_day,omitempty"`
}

func viewFeasts(feasts []calendar.FeastInstance, label func(string) string) []feastView {
	views := make([]feastView, 0, len(feasts))
	for _, f := range feasts {
		views = append(views, feastView{
			NameKey:     f.NameKey,
			Name:        label(f.NameKey),
			Date:        f.Date,
			Weekday:     calendar.DayName(f.Date),
			Calendar:    f.Calendar,
			Kind:        f.Kind,
			Category:    f.Category,
			Offset:      f.Offset,
			NativeMonth: f.NativeMonth,
			NativeDay:   f.NativeDay,
		})
	}
	return views
}

type monthView struct {
	Number int    `json:"number"`
	Key    string `json:"key"`
	Name   string `json:"name"`
	Days   int    `json:"days"`
}

// =============================================================================
// Health
// =============================================================================

// HealthCheck handles GET /health
func (h *Handlers) HealthCheck(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := h.db.Health(ctx); err != nil {
		h.logger.Warn("health check failed", slog.Any("error", err))
		WriteError(w, http.StatusServiceUnavailable, "Database unhealthy", CodeUnhealthy)
		return
	}

	WriteSuccess(w, map[string]string{
		"status": "healthy",
	})
}

// =============================================================================
// Computation
// =============================================================================

// GetEaster handles GET /api/v1/easter/{year}
func (h *Handlers) GetEaster(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", calendar.ErrInvalidYear)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	western, err := h.registry.Anchor(calendar.Western, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	eastern, err := h.registry.Anchor(calendar.Eastern, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(calendar.Western.String(), 1)
	h.metrics.AddComputed(calendar.Eastern.String(), 1)

	WriteSuccess(w, map[string]interface{}{
		"year":               year,
		"western":            viewDate(western),
		"eastern":            viewDate(eastern),
		"days_apart":         calendar.DaysBetween(western, eastern),
		"julian_offset_days": h.registry.JulianOffset()(year),
	})
}

// GetHebrewYear handles GET /api/v1/hebrew/{year}
func (h *Handlers) GetHebrewYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", calendar.ErrInvalidYear)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	yc, err := calendar.HebrewYear(year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	roshHashanah, err := calendar.RoshHashanah(year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	lang := h.lang(w, r)
	months := make([]monthView, 0, yc.MonthCount)
	for n := 1; n <= yc.MonthCount; n++ {
		m := calendar.HebrewMonthOf(year, n)
		months = append(months, monthView{
			Number: n,
			Key:    m.String(),
			Name:   h.translator.Label(lang, i18n.HebrewMonthKey(m.String())),
			Days:   yc.MonthLengths[n-1],
		})
	}
	h.metrics.AddComputed(calendar.Hebrew.String(), 1)

	WriteSuccess(w, map[string]interface{}{
		"year":           year,
		"leap":           yc.Leap,
		"cycle_position": calendar.HebrewCyclePosition(year),
		"month_count":    yc.MonthCount,
		"days":           yc.DaysInYear(),
		"rosh_hashanah":  viewDate(roshHashanah),
		"months":         months,
	})
}

// ConvertHebrewDate handles GET /api/v1/hebrew/{year}/{month}/{day}
func (h *Handlers) ConvertHebrewDate(w http.ResponseWriter, r *http.Request) {
	year, month, day, err := nativeDateParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	date, err := calendar.HebrewToGregorian(year, month, day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(calendar.Hebrew.String(), 1)

	m := calendar.HebrewMonthOf(year, month)
	WriteSuccess(w, map[string]interface{}{
		"hebrew": map[string]interface{}{
			"year":       year,
			"month":      month,
			"day":        day,
			"month_key":  m.String(),
			"month_name": h.translator.Label(h.lang(w, r), i18n.HebrewMonthKey(m.String())),
		},
		"gregorian": viewDate(date),
	})
}

// GetCopticYear handles GET /api/v1/coptic/{year}
func (h *Handlers) GetCopticYear(w http.ResponseWriter, r *http.Request) {
	year, err := intParam(r, "year", calendar.ErrInvalidYear)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	yc, err := calendar.CopticYear(year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	nayrouz, err := calendar.CopticToGregorian(year, 1, 1)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	easter, err := h.registry.Anchor(calendar.Coptic, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(calendar.Coptic.String(), 1)

	WriteSuccess(w, map[string]interface{}{
		"year":          year,
		"leap":          yc.Leap,
		"month_count":   yc.MonthCount,
		"month_lengths": yc.MonthLengths,
		"days":          yc.DaysInYear(),
		"new_year":      viewDate(nayrouz),
		"easter":        viewDate(easter),
	})
}

// ConvertCopticDate handles GET /api/v1/coptic/{year}/{month}/{day}
func (h *Handlers) ConvertCopticDate(w http.ResponseWriter, r *http.Request) {
	year, month, day, err := nativeDateParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	date, err := calendar.CopticToGregorian(year, month, day)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(calendar.Coptic.String(), 1)

	WriteSuccess(w, map[string]interface{}{
		"coptic": map[string]int{
			"year":  year,
			"month": month,
			"day":   day,
		},
		"gregorian": viewDate(date),
	})
}

// GetHolyDays handles GET /api/v1/holydays/{system}/{year}?format=json|csv|ics&lang=
func (h *Handlers) GetHolyDays(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	system, year, err := systemYearParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	feasts, err := h.registry.ListHolyDays(system, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(system.String(), len(feasts))

	lang := h.lang(w, r)
	label := h.translator.Labeler(lang)

	switch format {
	case export.FormatCSV, export.FormatICS:
		h.writeFeed(w, r, format, system, year, feasts, label)
	default:
		WriteSuccess(w, map[string]interface{}{
			"calendar": system,
			"year":     year,
			"lang":     lang,
			"feasts":   viewFeasts(feasts, label),
		})
	}
}

// GetHolyWeek handles GET /api/v1/holyweek/{system}/{year}
func (h *Handlers) GetHolyWeek(w http.ResponseWriter, r *http.Request) {
	system, year, err := systemYearParams(r)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	days, err := h.registry.HolyWeek(system, year)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	h.metrics.AddComputed(system.String(), len(days))

	WriteSuccess(w, map[string]interface{}{
		"calendar": system,
		"year":     year,
		"days":     viewFeasts(days, h.translator.Labeler(h.lang(w, r))),
	})
}

// writeFeed renders feasts as a downloadable CSV or iCalendar file.
func (h *Handlers) writeFeed(w http.ResponseWriter, r *http.Request, format export.Format, system calendar.CalendarSystem, year int, feasts []calendar.FeastInstance, label func(string) string) {
	var buf bytes.Buffer
	var err error
	if format == export.FormatICS {
		name := fmt.Sprintf("%s %d", label(i18n.SystemKey(system.String())), year)
		err = export.WriteICS(&buf, name, feasts, label, h.now())
	} else {
		err = export.WriteCSV(&buf, feasts, label)
	}
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf(`attachment; filename="%s-%d.%s"`, system, year, format))
	w.WriteHeader(http.StatusOK)
	w.Write(buf.Bytes())
}

// =============================================================================
// Materialized lookups
// =============================================================================

// GetFeastsByDate handles GET /api/v1/feasts/date/{YYYY-MM-DD}
func (h *Handlers) GetFeastsByDate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	date, err := calendar.ParseDate(chi.URLParam(r, "date"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	records, err := h.db.GetFeastsByDate(ctx, date)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	feasts := make([]calendar.FeastInstance, len(records))
	for i, rec := range records {
		feasts[i] = rec.Instance()
	}

	WriteSuccess(w, map[string]interface{}{
		"date":    date,
		"weekday": calendar.DayName(date),
		"feasts":  viewFeasts(feasts, h.translator.Labeler(h.lang(w, r))),
	})
}

// MaxRangeDays caps the span of one /feasts/range request.
const MaxRangeDays = 366

// GetFeastsInRange handles GET /api/v1/feasts/range?from=&to=&system=
// system may be repeated or comma separated; omitted means every calendar.
func (h *Handlers) GetFeastsInRange(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	from, err := calendar.ParseDate(q.Get("from"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	to, err := calendar.ParseDate(q.Get("to"))
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	if span := calendar.DaysBetween(from, to); span < 0 || span >= MaxRangeDays {
		h.writeError(w, r, fmt.Errorf("%w: %s to %s must be ascending and at most %d days", materialize.ErrInvalidRange, from, to, MaxRangeDays))
		return
	}

	var systems []calendar.CalendarSystem
	for _, raw := range q["system"] {
		for _, name := range strings.Split(raw, ",") {
			if name = strings.TrimSpace(name); name == "" {
				continue
			}
			system, err := calendar.ParseCalendarSystem(name)
			if err != nil {
				h.writeError(w, r, err)
				return
			}
			systems = append(systems, system)
		}
	}

	records, err := h.db.GetFeastsInRange(r.Context(), from, to, systems...)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	feasts := make([]calendar.FeastInstance, len(records))
	for i, rec := range records {
		feasts[i] = rec.Instance()
	}

	WriteSuccess(w, map[string]interface{}{
		"from":   from,
		"to":     to,
		"feasts": viewFeasts(feasts, h.translator.Labeler(h.lang(w, r))),
	})
}

// GetCoverage handles GET /api/v1/feasts/coverage
func (h *Handlers) GetCoverage(w http.ResponseWriter, r *http.Request) {
	coverage, err := h.db.GetCoverage(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteSuccess(w, map[string]interface{}{
		"coverage": coverage,
	})
}

// =============================================================================
// Admin
// =============================================================================

// Materialize handles POST /api/v1/admin/materialize?from=&to=
// Missing bounds default to the current year and the configured look-ahead.
func (h *Handlers) Materialize(w http.ResponseWriter, r *http.Request) {
	current := h.now().UTC().Year()
	ahead := 0
	if h.cfg != nil {
		ahead = h.cfg.MaterializeYearsAhead
	}

	from, err := queryInt(r, "from", current)
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	to, err := queryInt(r, "to", from+ahead)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	result, err := h.materializer.Run(r.Context(), from, to)
	if err != nil {
		h.writeError(w, r, err)
		return
	}

	WriteSuccess(w, result)
}

// GetLatestRun handles GET /api/v1/admin/materialize/latest
func (h *Handlers) GetLatestRun(w http.ResponseWriter, r *http.Request) {
	run, err := h.db.GetLatestMaterializationRun(r.Context())
	if err != nil {
		h.writeError(w, r, err)
		return
	}
	WriteSuccess(w, run)
}

// =============================================================================
// Helpers
// =============================================================================

// lang picks the label locale from ?lang= then Accept-Language.
func (h *Handlers) lang(w http.ResponseWriter, r *http.Request) string {
	tag := h.translator.Match(r.URL.Query().Get("lang"), r.Header.Get("Accept-Language")).String()
	w.Header().Set("Content-Language", tag)
	return tag
}

func intParam(r *http.Request, name string, kind error) (int, error) {
	raw := chi.URLParam(r, name)
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", kind, name, raw)
	}
	return n, nil
}

func nativeDateParams(r *http.Request) (year, month, day int, err error) {
	if year, err = intParam(r, "year", calendar.ErrInvalidYear); err != nil {
		return
	}
	if month, err = intParam(r, "month", calendar.ErrInvalidMonth); err != nil {
		return
	}
	day, err = intParam(r, "day", calendar.ErrInvalidDay)
	return
}

func systemYearParams(r *http.Request) (calendar.CalendarSystem, int, error) {
	system, err := calendar.ParseCalendarSystem(chi.URLParam(r, "system"))
	if err != nil {
		return 0, 0, err
	}
	year, err := intParam(r, "year", calendar.ErrInvalidYear)
	if err != nil {
		return 0, 0, err
	}
	return system, year, nil
}

func queryInt(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q is not a number", materialize.ErrInvalidRange, name, raw)
	}
	return n, nil
}

// errorStatus maps domain errors to an HTTP status and error code.
func errorStatus(err error) (int, string) {
	switch {
	case errors.Is(err, calendar.ErrInvalidYear):
		return http.StatusBadRequest, CodeInvalidYear
	case errors.Is(err, calendar.ErrInvalidMonth):
		return http.StatusBadRequest, CodeInvalidMonth
	case errors.Is(err, calendar.ErrInvalidDay):
		return http.StatusBadRequest, CodeInvalidDay
	case errors.Is(err, calendar.ErrUnknownCalendar):
		return http.StatusBadRequest, CodeUnknownCalendar
	case errors.Is(err, calendar.ErrInvalidDate):
		return http.StatusBadRequest, CodeInvalidDate
	case errors.Is(err, calendar.ErrNotSupported):
		return http.StatusBadRequest, CodeNotSupported
	case errors.Is(err, materialize.ErrInvalidRange):
		return http.StatusBadRequest, CodeInvalidRange
	case errors.Is(err, export.ErrUnknownFormat):
		return http.StatusBadRequest, CodeInvalidFormat
	case database.IsNotFound(err):
		return http.StatusNotFound, CodeNotFound
	default:
		return http.StatusInternalServerError, CodeInternal
	}
}

func (h *Handlers) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status, code := errorStatus(err)

	switch status {
	case http.StatusInternalServerError:
		h.logger.Error("request failed",
			slog.Any("error", err),
			slog.String("path", r.URL.Path),
			slog.String("request_id", logger.RequestID(r.Context())),
		)
		WriteInternalError(w, "Internal server error")
		return
	case http.StatusBadRequest:
		h.metrics.IncrementCalendarError(code)
	}

	WriteError(w, status, err.Error(), code)
}
