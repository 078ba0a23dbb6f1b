package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/city-weather-web/internal/client"
	"github.com/kjstillabower/city-weather-web/internal/lifecycle"
	"github.com/kjstillabower/city-weather-web/internal/models"
	"github.com/kjstillabower/city-weather-web/internal/observability"
	"github.com/kjstillabower/city-weather-web/internal/views"
)

// WeatherPages builds the page contexts. Satisfied by *service.WeatherService.
type WeatherPages interface {
	Home() models.HomePage
	Results(ctx context.Context, city, units string) (models.ResultsPage, error)
	Compare(ctx context.Context, city1, city2, units string) (models.ComparisonPage, error)
}

// HealthConfig controls what /health checks beyond the shutdown flag.
type HealthConfig struct {
	// ValidateAPIKey makes /health probe the provider with the configured key.
	ValidateAPIKey bool
}

// Handler holds dependencies for HTTP handlers.
type Handler struct {
	pages            WeatherPages
	client           client.WeatherClient
	healthConfig     HealthConfig
	logger           *zap.Logger
	healthStatusMu   sync.Mutex
	healthStatusPrev string
}

func NewHandler(pages WeatherPages, client client.WeatherClient, healthConfig HealthConfig, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		pages:        pages,
		client:       client,
		healthConfig: healthConfig,
		logger:       logger,
	}
}

// Home handles GET /.
func (h *Handler) Home(w http.ResponseWriter, r *http.Request) {
	page := h.pages.Home()
	h.renderPage(w, r, "home", http.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderHome(buf, &page)
	})
}

// Results handles GET /results?city=&units=.
func (h *Handler) Results(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.pages.Results(r.Context(), q.Get("city"), q.Get("units"))
	if err != nil {
		h.writePageError(w, r, err)
		return
	}
	h.renderPage(w, r, "results", http.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderResults(buf, &page)
	})
}

// ComparisonResults handles GET /comparison_results?city1=&city2=&units=.
func (h *Handler) ComparisonResults(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.pages.Compare(r.Context(), q.Get("city1"), q.Get("city2"), q.Get("units"))
	if err != nil {
		h.writePageError(w, r, err)
		return
	}
	h.renderPage(w, r, "comparison_results", http.StatusOK, func(buf *bytes.Buffer) error {
		return views.RenderComparison(buf, &page)
	})
}

// renderPage renders into a buffer first so a template failure becomes a
// clean 500 instead of a truncated 200.
func (h *Handler) renderPage(w http.ResponseWriter, r *http.Request, page string, status int, render func(*bytes.Buffer) error) {
	var buf bytes.Buffer
	err := render(&buf)
	observability.RecordPageRender(page, err)
	if err != nil {
		observability.LoggerFromContext(r.Context(), h.logger).Error("render page",
			zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}

// writePageError maps a provider failure to a status and renders the error page.
func (h *Handler) writePageError(w http.ResponseWriter, r *http.Request, err error) {
	status, title, message := classifyError(err)

	logger := observability.LoggerFromContext(r.Context(), h.logger)
	if status >= http.StatusInternalServerError {
		logger.Warn("weather lookup failed", zap.Int("status", status), zap.Error(err))
	} else {
		logger.Debug("weather lookup rejected", zap.Int("status", status), zap.Error(err))
	}

	page := models.ErrorPage{
		Status:    status,
		Title:     title,
		Message:   message,
		RequestID: correlationID(r),
	}
	h.renderPage(w, r, "error", status, func(buf *bytes.Buffer) error {
		return views.RenderError(buf, &page)
	})
}

func classifyError(err error) (status int, title, message string) {
	switch {
	case errors.Is(err, client.ErrInvalidQuery):
		return http.StatusBadRequest, "Invalid request", "Enter a city name and try again."
	case errors.Is(err, client.ErrLocationNotFound):
		return http.StatusNotFound, "City not found", "The weather provider does not know that city."
	case errors.Is(err, client.ErrRateLimited):
		return http.StatusServiceUnavailable, "Try again later", "The weather provider is rate limiting requests."
	case errors.Is(err, client.ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "Weather provider timed out", "The weather provider did not answer in time."
	case errors.Is(err, client.ErrInvalidAPIKey):
		return http.StatusBadGateway, "Weather unavailable", "The weather provider rejected this service's credentials."
	case errors.Is(err, client.ErrMalformedPayload):
		return http.StatusBadGateway, "Weather unavailable", "The weather provider sent an unexpected response."
	default:
		return http.StatusBadGateway, "Weather unavailable", "Unable to fetch weather data."
	}
}

// healthResult holds the computed health status and metadata for logging.
type healthResult struct {
	status     string
	statusCode int
	reason     string
}

// GetHealth handles GET /health.
func (h *Handler) GetHealth(w http.ResponseWriter, r *http.Request) {
	result := h.computeHealthStatus(r.Context())

	h.healthStatusMu.Lock()
	prev := h.healthStatusPrev
	if prev != "" && prev != result.status {
		h.logger.Info("health status transition",
			zap.String("previous_status", prev),
			zap.String("current_status", result.status),
			zap.String("reason", result.reason))
	}
	h.healthStatusPrev = result.status
	h.healthStatusMu.Unlock()

	checks := map[string]string{}
	if h.healthConfig.ValidateAPIKey {
		checks["weatherApi"] = "healthy"
		if result.reason == "api_key_invalid" {
			checks["weatherApi"] = "unhealthy"
		}
	}
	now := time.Now()
	writeJSON(w, result.statusCode, map[string]interface{}{
		"status":        result.status,
		"service":       observability.ServiceName,
		"checks":        checks,
		"inFlight":      InFlightCount(),
		"uptimeSeconds": int64(lifecycle.Uptime(now).Seconds()),
		"timestamp":     now.UTC().Format(time.RFC3339),
	})
}

// computeHealthStatus evaluates in order: shutting-down, then API key validity
// when enabled, else healthy.
func (h *Handler) computeHealthStatus(ctx context.Context) healthResult {
	if lifecycle.IsShuttingDown() {
		return healthResult{"shutting-down", http.StatusServiceUnavailable, "signal"}
	}
	if h.healthConfig.ValidateAPIKey && h.client != nil {
		if err := h.client.ValidateAPIKey(ctx); err != nil {
			return healthResult{"degraded", http.StatusServiceUnavailable, "api_key_invalid"}
		}
	}
	return healthResult{"healthy", http.StatusOK, ""}
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func correlationID(r *http.Request) string {
	if v, ok := r.Context().Value("correlation_id").(string); ok {
		return v
	}
	return ""
}
