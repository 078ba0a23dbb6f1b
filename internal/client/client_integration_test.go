//go:build integration
// +build integration

package client

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/kjstillabower/city-weather-web/internal/models"
)

func integrationClient(t *testing.T) *OpenWeatherClient {
	t.Helper()
	apiKey := os.Getenv("WEATHER_API_KEY")
	if apiKey == "" {
		t.Skip("WEATHER_API_KEY not set, skipping integration test")
	}
	client, err := NewOpenWeatherClient(Options{APIKey: apiKey, Timeout: 5 * time.Second})
	if err != nil {
		t.Fatalf("NewOpenWeatherClient() error = %v", err)
	}
	return client
}

func TestOpenWeatherClient_ValidateAPIKey_Integration(t *testing.T) {
	client := integrationClient(t)
	if err := client.ValidateAPIKey(context.Background()); err != nil {
		t.Fatalf("ValidateAPIKey() error = %v", err)
	}
}

func TestOpenWeatherClient_GetCurrentWeather_Integration(t *testing.T) {
	client := integrationClient(t)
	got, err := client.GetCurrentWeather(context.Background(), models.WeatherQuery{City: "London", Units: "metric"})
	if err != nil {
		t.Fatalf("GetCurrentWeather() error = %v", err)
	}
	if got.Description == "" {
		t.Error("Description is empty")
	}
	if got.Sunrise == 0 || got.Sunset == 0 {
		t.Errorf("Sunrise/Sunset = %d/%d, want non-zero", got.Sunrise, got.Sunset)
	}
}

func TestOpenWeatherClient_UnknownCity_Integration(t *testing.T) {
	client := integrationClient(t)
	_, err := client.GetCurrentWeather(context.Background(), models.WeatherQuery{City: "Nowhereville-zzz", Units: "metric"})
	if !errors.Is(err, ErrLocationNotFound) {
		t.Fatalf("GetCurrentWeather() error = %v, want ErrLocationNotFound", err)
	}
}
