//go:build integration

// Package testhelpers builds live-provider fixtures for integration tests.
package testhelpers

import (
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/city-weather-web/internal/client"
	"github.com/kjstillabower/city-weather-web/internal/service"
)

// IntegrationTestConfig holds configuration for integration tests.
type IntegrationTestConfig struct {
	APIKey   string
	APIURL   string
	RetryMax int
}

// GetIntegrationConfig reads WEATHER_API_KEY and WEATHER_API_URL. Skips the
// test when no key is set.
func GetIntegrationConfig(t *testing.T) IntegrationTestConfig {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}
	apiURL := os.Getenv("WEATHER_API_URL")
	if apiURL == "" {
		apiURL = client.DefaultAPIURL
	}
	// One retry smooths over transient provider hiccups in CI.
	return IntegrationTestConfig{APIKey: apiKey, APIURL: apiURL, RetryMax: 1}
}

// SetupIntegrationClient creates a provider client for integration tests.
func SetupIntegrationClient(t *testing.T, cfg IntegrationTestConfig) *client.OpenWeatherClient {
	t.Helper()
	c, err := client.NewOpenWeatherClient(client.Options{
		APIKey:   cfg.APIKey,
		APIURL:   cfg.APIURL,
		Timeout:  5 * time.Second,
		RetryMax: cfg.RetryMax,
	})
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	return c
}

// SetupIntegrationService returns a WeatherService rendering times in UTC.
func SetupIntegrationService(t *testing.T, cfg IntegrationTestConfig) *service.WeatherService {
	t.Helper()
	return service.NewWeatherService(SetupIntegrationClient(t, cfg), time.UTC, nil)
}
