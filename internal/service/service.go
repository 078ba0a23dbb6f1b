package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/kjstillabower/city-weather-web/internal/client"
	"github.com/kjstillabower/city-weather-web/internal/format"
	"github.com/kjstillabower/city-weather-web/internal/models"
	"github.com/kjstillabower/city-weather-web/internal/observability"
)

// WeatherService turns provider readings into page contexts. It holds no
// per-request state; every call fetches fresh data.
type WeatherService struct {
	client client.WeatherClient
	loc    *time.Location
	now    func() time.Time
}

// NewWeatherService creates a WeatherService. loc is the zone sunrise, sunset
// and the page date are shown in; nil means the host zone. now defaults to
// time.Now.
func NewWeatherService(c client.WeatherClient, loc *time.Location, now func() time.Time) *WeatherService {
	if loc == nil {
		loc = time.Local
	}
	if now == nil {
		now = time.Now
	}
	return &WeatherService{client: c, loc: loc, now: now}
}

// Home returns the landing page context with the historical date bounds.
func (s *WeatherService) Home() models.HomePage {
	earliest, latest := format.DateRange(s.now().In(s.loc))
	return models.HomePage{
		MinDate: format.InputDate(earliest),
		MaxDate: format.InputDate(latest),
	}
}

// Results fetches current conditions for one city. city and units are passed
// to the provider unvalidated.
func (s *WeatherService) Results(ctx context.Context, city, units string) (models.ResultsPage, error) {
	observability.RecordWeatherQuery("results", units)

	reading, err := s.fetch(ctx, city, units)
	if err != nil {
		return models.ResultsPage{}, err
	}

	return models.ResultsPage{
		Date:        format.LongDate(s.now().In(s.loc)),
		City:        city,
		Units:       units,
		Description: reading.Description,
		Temp:        reading.Temp,
		Humidity:    reading.Humidity,
		WindSpeed:   reading.WindSpeed,
		Sunrise:     format.Clock(reading.Sunrise, s.loc),
		Sunset:      format.Clock(reading.Sunset, s.loc),
		UnitsLetter: format.UnitLetter(units),
	}, nil
}

// Compare fetches both cities one after the other. city2 is not requested
// when city1 fails.
func (s *WeatherService) Compare(ctx context.Context, city1, city2, units string) (models.ComparisonPage, error) {
	observability.RecordWeatherQuery("comparison_results", units)

	first, err := s.cityInfo(ctx, city1, units)
	if err != nil {
		return models.ComparisonPage{}, err
	}
	second, err := s.cityInfo(ctx, city2, units)
	if err != nil {
		return models.ComparisonPage{}, err
	}

	return models.ComparisonPage{
		Date:        format.LongDate(s.now().In(s.loc)),
		Units:       units,
		UnitsLetter: format.UnitLetter(units),
		City1Info:   first,
		City2Info:   second,
	}, nil
}

func (s *WeatherService) cityInfo(ctx context.Context, city, units string) (models.CityInfo, error) {
	reading, err := s.fetch(ctx, city, units)
	if err != nil {
		return models.CityInfo{}, err
	}
	return models.CityInfo{
		City:      city,
		Temp:      reading.Temp,
		Humidity:  reading.Humidity,
		WindSpeed: reading.WindSpeed,
		Sunrise:   reading.Sunrise,
		Sunset:    format.Hour(reading.Sunset, s.loc),
	}, nil
}

func (s *WeatherService) fetch(ctx context.Context, city, units string) (models.WeatherReading, error) {
	start := time.Now()
	logger := observability.LoggerFromContext(ctx, nil)

	reading, err := s.client.GetCurrentWeather(ctx, models.WeatherQuery{City: city, Units: units})
	if err != nil {
		category := client.CategorizeError(err)
		observability.RecordWeatherError(string(category))
		logger.Debug("weather fetch failed",
			zap.String("city", city),
			zap.String("category", string(category)),
			zap.Error(err),
		)
		return models.WeatherReading{}, fmt.Errorf("fetch weather for %q: %w", city, err)
	}

	logger.Debug("weather fetched",
		zap.String("city", city),
		zap.String("units", units),
		zap.Duration("duration", time.Since(start)),
	)
	return reading, nil
}
