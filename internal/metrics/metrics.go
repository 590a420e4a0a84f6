// Package metrics exposes Prometheus metrics for the API and the materializer.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds every collector the service exports. Each instance owns its
// registry, so tests can build as many as they like.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPDuration        *prometheus.HistogramVec
	FeastsComputed      *prometheus.CounterVec
	CalendarErrors      *prometheus.CounterVec
	FeastsMaterialized  *prometheus.CounterVec
	MaterializeDuration prometheus.Histogram
	MaterializeFailures prometheus.Counter
	LastMaterializeOK   prometheus.Gauge
}

// New creates a Metrics instance with all collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		HTTPRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feastday_http_requests_total",
			Help: "HTTP requests by route pattern, method and status code",
		}, []string{"route", "method", "status"}),
		HTTPDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "feastday_http_request_duration_seconds",
			Help:    "HTTP request latency by route pattern",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}, []string{"route"}),
		FeastsComputed: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feastday_feasts_computed_total",
			Help: "Feast instances computed on request, by calendar system",
		}, []string{"calendar"}),
		CalendarErrors: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feastday_calendar_errors_total",
			Help: "Rejected calendar inputs by error code",
		}, []string{"code"}),
		FeastsMaterialized: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "feastday_feasts_materialized_total",
			Help: "Feast rows written by the materializer, by calendar system",
		}, []string{"calendar"}),
		MaterializeDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "feastday_materialize_duration_seconds",
			Help:    "Duration of a full materializer pass",
			Buckets: []float64{0.01, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		MaterializeFailures: factory.NewCounter(prometheus.CounterOpts{
			Name: "feastday_materialize_failures_total",
			Help: "Materializer passes that returned an error",
		}),
		LastMaterializeOK: factory.NewGauge(prometheus.GaugeOpts{
			Name: "feastday_materialize_last_success_timestamp_seconds",
			Help: "Unix time of the last successful materializer pass",
		}),
	}
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// ObserveRequest records one finished HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, start time.Time) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.HTTPDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
}

// AddComputed counts feasts computed for a response.
func (m *Metrics) AddComputed(calendar string, n int) {
	m.FeastsComputed.WithLabelValues(calendar).Add(float64(n))
}

// IncrementCalendarError counts a rejected input.
func (m *Metrics) IncrementCalendarError(code string) {
	m.CalendarErrors.WithLabelValues(code).Inc()
}

// AddMaterialized counts rows written for one calendar system.
func (m *Metrics) AddMaterialized(calendar string, n int) {
	m.FeastsMaterialized.WithLabelValues(calendar).Add(float64(n))
}

// ObserveMaterialize records a materializer pass.
// Call with time.Now() at the start of the pass.
func (m *Metrics) ObserveMaterialize(start time.Time, err error) {
	m.MaterializeDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.MaterializeFailures.Inc()
		return
	}
	m.LastMaterializeOK.SetToCurrentTime()
}
