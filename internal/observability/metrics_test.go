package observability

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

// TestMetrics_Usable verifies that label dimensions match how the client,
// http and service packages use each metric.
func TestMetrics_Usable(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/results", "2xx").Inc()
	HTTPRequestDuration.WithLabelValues("GET", "/comparison_results").Observe(0.01)
	WeatherAPICallsTotal.WithLabelValues("success").Inc()
	WeatherAPIDuration.WithLabelValues("client_error").Observe(0.1)
	WeatherAPIErrorsTotal.WithLabelValues("location_not_found").Inc()
	PageRendersTotal.WithLabelValues("results", "ok").Inc()
	RateLimitDeniedTotal.Inc()
}

func TestUnitsLabel(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"metric", "metric"},
		{"IMPERIAL", "imperial"},
		{" standard ", "standard"},
		{"", "none"},
		{"furlongs", "other"},
	}
	for _, tt := range tests {
		if got := UnitsLabel(tt.in); got != tt.want {
			t.Errorf("UnitsLabel(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRecordWeatherQuery_BoundsUnitsLabel(t *testing.T) {
	before := testutil.ToFloat64(WeatherQueriesTotal.WithLabelValues("results", "other"))
	RecordWeatherQuery("results", "parsecs")
	after := testutil.ToFloat64(WeatherQueriesTotal.WithLabelValues("results", "other"))
	if after-before != 1 {
		t.Errorf("results/other counter delta = %v, want 1", after-before)
	}
}

func TestRecordPageRender_Outcome(t *testing.T) {
	okBefore := testutil.ToFloat64(PageRendersTotal.WithLabelValues("home", "ok"))
	errBefore := testutil.ToFloat64(PageRendersTotal.WithLabelValues("home", "error"))
	RecordPageRender("home", nil)
	RecordPageRender("home", errors.New("boom"))
	if d := testutil.ToFloat64(PageRendersTotal.WithLabelValues("home", "ok")) - okBefore; d != 1 {
		t.Errorf("ok delta = %v, want 1", d)
	}
	if d := testutil.ToFloat64(PageRendersTotal.WithLabelValues("home", "error")) - errBefore; d != 1 {
		t.Errorf("error delta = %v, want 1", d)
	}
}

func TestRecordWeatherError_EmptyCategory(t *testing.T) {
	before := testutil.ToFloat64(WeatherAPIErrorsTotal.WithLabelValues("unknown"))
	RecordWeatherError("")
	if d := testutil.ToFloat64(WeatherAPIErrorsTotal.WithLabelValues("unknown")) - before; d != 1 {
		t.Errorf("unknown delta = %v, want 1", d)
	}
}

// TestMetricsHandler_ServesPrometheusFormat verifies that MetricsHandler serves
// Prometheus text exposition format with correct HTTP status and metric output.
func TestMetricsHandler_ServesPrometheusFormat(t *testing.T) {
	HTTPRequestsTotal.WithLabelValues("GET", "/", "2xx").Inc()

	handler := MetricsHandler()
	req := httptest.NewRequest("GET", "/metrics", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("MetricsHandler status = %d, want 200", w.Code)
	}
	body := w.Body.String()
	if !strings.Contains(body, "httpRequestsTotal") {
		t.Error("MetricsHandler response should contain metric output")
	}
}
