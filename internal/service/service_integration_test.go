//go:build integration

package service_test

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/kjstillabower/city-weather-web/internal/client"
	"github.com/kjstillabower/city-weather-web/internal/testhelpers"
)

var clockPattern = regexp.MustCompile(`^\d{2}:\d{2}$`)

func TestResults_Integration(t *testing.T) {
	svc := testhelpers.SetupIntegrationService(t, testhelpers.GetIntegrationConfig(t))

	page, err := svc.Results(context.Background(), "London", "metric")
	if err != nil {
		t.Fatalf("Results() error = %v", err)
	}
	if page.UnitsLetter != "C" || page.Description == "" {
		t.Errorf("page = %+v", page)
	}
	if !clockPattern.MatchString(page.Sunrise) || !clockPattern.MatchString(page.Sunset) {
		t.Errorf("sunrise/sunset = %q/%q, want HH:MM", page.Sunrise, page.Sunset)
	}
}

func TestCompare_Integration(t *testing.T) {
	svc := testhelpers.SetupIntegrationService(t, testhelpers.GetIntegrationConfig(t))

	page, err := svc.Compare(context.Background(), "London", "Paris", "imperial")
	if err != nil {
		t.Fatalf("Compare() error = %v", err)
	}
	for _, info := range []struct {
		city    string
		sunrise int64
		sunset  int
	}{
		{page.City1Info.City, page.City1Info.Sunrise, page.City1Info.Sunset},
		{page.City2Info.City, page.City2Info.Sunrise, page.City2Info.Sunset},
	} {
		if info.sunrise < 1_000_000_000 {
			t.Errorf("%s sunrise = %d, want raw epoch", info.city, info.sunrise)
		}
		if info.sunset < 0 || info.sunset > 23 {
			t.Errorf("%s sunset = %d, want hour 0-23", info.city, info.sunset)
		}
	}
}

func TestResults_UnknownCity_Integration(t *testing.T) {
	svc := testhelpers.SetupIntegrationService(t, testhelpers.GetIntegrationConfig(t))

	if _, err := svc.Results(context.Background(), "Nowhereville-zzz", "metric"); !errors.Is(err, client.ErrLocationNotFound) {
		t.Fatalf("Results() error = %v, want ErrLocationNotFound", err)
	}
}
