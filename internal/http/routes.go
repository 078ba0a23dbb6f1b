package http

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/city-weather-web/internal/observability"
)

// RouterOptions configures the middleware applied to page routes.
type RouterOptions struct {
	Logger *zap.Logger
	// Limiter throttles page routes; nil disables rate limiting.
	Limiter        *rate.Limiter
	RequestTimeout time.Duration
}

// NewRouter wires the page, health and metrics routes. Health and metrics
// skip the rate limiter and request timeout.
func NewRouter(h *Handler, opts RouterOptions) *mux.Router {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	router := mux.NewRouter()
	router.Use(CorrelationIDMiddleware(logger))
	router.Use(MetricsMiddleware)
	router.HandleFunc("/health", h.GetHealth).Methods(http.MethodGet)
	router.Handle("/metrics", observability.MetricsHandler()).Methods(http.MethodGet)

	pages := router.NewRoute().Subrouter()
	pages.Use(RateLimitMiddleware(opts.Limiter))
	if opts.RequestTimeout > 0 {
		pages.Use(TimeoutMiddleware(opts.RequestTimeout))
	}
	pages.HandleFunc("/", h.Home).Methods(http.MethodGet)
	pages.HandleFunc("/results", h.Results).Methods(http.MethodGet)
	pages.HandleFunc("/comparison_results", h.ComparisonResults).Methods(http.MethodGet)

	return router
}
