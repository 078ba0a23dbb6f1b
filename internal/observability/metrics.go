package observability

import (
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registry *prometheus.Registry

	// HTTP request rate. Watch for: sudden drops (service down) or spikes (traffic surge).
	HTTPRequestsTotal *prometheus.CounterVec

	// HTTP request latency per request. Includes provider round trips.
	HTTPRequestDuration *prometheus.HistogramVec

	// Concurrent requests in flight.
	HTTPRequestsInFlight prometheus.Gauge

	// OpenWeatherMap API call rate by response class.
	WeatherAPICallsTotal *prometheus.CounterVec

	// External API latency per call. Comparison pages pay this twice.
	WeatherAPIDuration *prometheus.HistogramVec

	// Provider failures by category (location_not_found, timeout, ...).
	WeatherAPIErrorsTotal *prometheus.CounterVec

	// Weather lookups by page and units token (unknown tokens use units=other).
	WeatherQueriesTotal *prometheus.CounterVec

	// Template renders by page and outcome.
	PageRendersTotal *prometheus.CounterVec

	// Rate limit denials.
	RateLimitDeniedTotal prometheus.Counter
)

// knownUnits bounds the units label; the query string is free text.
var knownUnits = map[string]struct{}{
	"metric":   {},
	"imperial": {},
	"standard": {},
}

func init() {
	registry = prometheus.NewRegistry()

	registry.MustRegister(
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		collectors.NewGoCollector(),
	)

	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "httpRequestsTotal",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "statusCode"},
	)
	HTTPRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "httpRequestDurationSeconds",
			Help:    "HTTP request latency in seconds (per request)",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)
	HTTPRequestsInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "httpRequestsInFlight",
			Help: "Number of HTTP requests currently being served",
		},
	)
	WeatherAPICallsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiCallsTotal",
			Help: "Total number of OpenWeatherMap API calls",
		},
		[]string{"status"},
	)
	WeatherAPIDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "weatherApiDurationSeconds",
			Help:    "OpenWeatherMap API latency in seconds (per call)",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"status"},
	)
	WeatherAPIErrorsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherApiErrorsTotal",
			Help: "OpenWeatherMap API failures by category",
		},
		[]string{"category"},
	)
	WeatherQueriesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "weatherQueriesTotal",
			Help: "Weather lookups by page and units (unknown units use units=other)",
		},
		[]string{"page", "units"},
	)
	PageRendersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pageRendersTotal",
			Help: "HTML page renders by page and outcome",
		},
		[]string{"page", "outcome"},
	)
	RateLimitDeniedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "rateLimitDeniedTotal",
			Help: "Total number of requests denied by rate limiter (429)",
		},
	)

	registry.MustRegister(
		HTTPRequestsTotal, HTTPRequestDuration, HTTPRequestsInFlight,
		WeatherAPICallsTotal, WeatherAPIDuration, WeatherAPIErrorsTotal,
		WeatherQueriesTotal, PageRendersTotal,
		RateLimitDeniedTotal,
	)
}

// RecordWeatherQuery records one provider lookup made for page.
func RecordWeatherQuery(page, units string) {
	WeatherQueriesTotal.WithLabelValues(page, UnitsLabel(units)).Inc()
}

// RecordWeatherError records a provider failure under its category label.
func RecordWeatherError(category string) {
	if category == "" {
		category = "unknown"
	}
	WeatherAPIErrorsTotal.WithLabelValues(category).Inc()
}

// RecordPageRender records a template render outcome ("ok" or "error").
func RecordPageRender(page string, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	PageRendersTotal.WithLabelValues(page, outcome).Inc()
}

// UnitsLabel maps a units token to a bounded label value.
func UnitsLabel(units string) string {
	u := strings.ToLower(strings.TrimSpace(units))
	if u == "" {
		return "none"
	}
	if _, ok := knownUnits[u]; ok {
		return u
	}
	return "other"
}

// MetricsHandler returns an http.Handler that serves application and runtime metrics.
func MetricsHandler() http.Handler {
	return promhttp.HandlerFor(registry, promhttp.HandlerOpts{})
}
