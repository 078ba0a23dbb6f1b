package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/kjstillabower/city-weather-web/internal/client"
	"github.com/kjstillabower/city-weather-web/internal/config"
	httphandler "github.com/kjstillabower/city-weather-web/internal/http"
	"github.com/kjstillabower/city-weather-web/internal/lifecycle"
	"github.com/kjstillabower/city-weather-web/internal/observability"
	"github.com/kjstillabower/city-weather-web/internal/service"
	"github.com/kjstillabower/city-weather-web/internal/views"
)

func main() {
	logger, err := observability.NewLogger()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = logger.Sync() }()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("config", zap.Error(err))
	}
	if cfg.WeatherAPIKey == "" {
		logger.Warn("WEATHER_API_KEY is not set; the weather provider will reject lookups")
	}

	if err := views.LoadTemplates(); err != nil {
		logger.Fatal("load templates", zap.Error(err))
	}

	weatherClient, err := client.NewOpenWeatherClient(client.Options{
		APIKey:       cfg.WeatherAPIKey,
		APIURL:       cfg.WeatherAPIURL,
		Timeout:      cfg.WeatherAPITimeout,
		RetryMax:     cfg.WeatherAPIRetryMax,
		RetryWaitMin: cfg.WeatherAPIRetryWaitMin,
		RetryWaitMax: cfg.WeatherAPIRetryWaitMax,
	})
	if err != nil {
		logger.Fatal("weather client", zap.Error(err))
	}

	weatherService := service.NewWeatherService(weatherClient, cfg.DisplayLocation, time.Now)
	handler := httphandler.NewHandler(weatherService, weatherClient, httphandler.HealthConfig{
		ValidateAPIKey: cfg.HealthValidateAPIKey,
	}, logger)

	var limiter *rate.Limiter
	if cfg.RateLimitRPS > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	}
	router := httphandler.NewRouter(handler, httphandler.RouterOptions{
		Logger:         logger,
		Limiter:        limiter,
		RequestTimeout: cfg.RequestTimeout,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.ServerPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
	}

	go func() {
		logger.Info("server starting",
			zap.String("addr", ":"+cfg.ServerPort),
			zap.String("display_timezone", cfg.DisplayLocation.String()),
			zap.Int("weather_api_retry_max", cfg.WeatherAPIRetryMax))
		lifecycle.MarkStarted(time.Now())
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	logger.Info("graceful shutdown triggered")
	lifecycle.SetShuttingDown(true)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}

	logger.Info("waiting for in-flight requests", zap.Int64("count", httphandler.InFlightCount()))
	waitCtx, waitCancel := context.WithTimeout(context.Background(), cfg.ShutdownInFlightTimeout)
	defer waitCancel()
	if err := httphandler.WaitForInFlight(waitCtx, cfg.ShutdownInFlightCheckInterval); err != nil {
		logger.Warn("in-flight requests not completed", zap.Error(err), zap.Int64("remaining", httphandler.InFlightCount()))
	}

	if err := observability.FlushTelemetry(context.Background(), logger); err != nil {
		logger.Error("telemetry flush", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
