package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/kjstillabower/city-weather-web/internal/models"
	"github.com/kjstillabower/city-weather-web/internal/observability"
)

// DefaultAPIURL is the OpenWeatherMap current-weather endpoint.
const DefaultAPIURL = "https://api.openweathermap.org/data/2.5/weather"

type WeatherClient interface {
	GetCurrentWeather(ctx context.Context, query models.WeatherQuery) (models.WeatherReading, error)
	ValidateAPIKey(ctx context.Context) error
}

var (
	ErrInvalidAPIKey    = errors.New("invalid API key")
	ErrLocationNotFound = errors.New("location not found")
	ErrInvalidQuery     = errors.New("invalid query")
	ErrUpstreamFailure  = errors.New("upstream failure")
	ErrRateLimited      = errors.New("rate limited")
	ErrMalformedPayload = errors.New("malformed payload")
	ErrTimeout          = errors.New("request timeout")
	ErrTransport        = errors.New("http request failed")
)

// Options configures an OpenWeatherClient. Zero values fall back to defaults.
type Options struct {
	APIKey string
	APIURL string
	// Timeout bounds one provider call including retries.
	Timeout time.Duration
	// RetryMax is the number of retries after the first attempt. 0 means a
	// single attempt.
	RetryMax     int
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration
}

type OpenWeatherClient struct {
	apiKey  string
	apiURL  string
	timeout time.Duration
	client  *http.Client
}

func NewOpenWeatherClient(opts Options) (*OpenWeatherClient, error) {
	apiURL := strings.TrimSpace(opts.APIURL)
	if apiURL == "" {
		apiURL = DefaultAPIURL
	}
	if _, err := url.Parse(apiURL); err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	retryMax := opts.RetryMax
	if retryMax < 0 {
		retryMax = 0
	}

	rc := retryablehttp.NewClient()
	rc.Logger = nil
	rc.RetryMax = retryMax
	if opts.RetryWaitMin > 0 {
		rc.RetryWaitMin = opts.RetryWaitMin
	}
	if opts.RetryWaitMax > 0 {
		rc.RetryWaitMax = opts.RetryWaitMax
	}
	if rc.RetryWaitMax < rc.RetryWaitMin {
		rc.RetryWaitMax = rc.RetryWaitMin
	}
	rc.ErrorHandler = retryablehttp.PassthroughErrorHandler
	httpClient := rc.StandardClient()
	httpClient.Timeout = timeout

	return &OpenWeatherClient{
		apiKey:  opts.APIKey,
		apiURL:  apiURL,
		timeout: timeout,
		client:  httpClient,
	}, nil
}

type openWeatherResponse struct {
	Cod     json.RawMessage `json:"cod"`
	Message string          `json:"message"`
	Name    string          `json:"name"`
	Main    *struct {
		Temp     float64 `json:"temp"`
		Humidity int     `json:"humidity"`
	} `json:"main"`
	Weather []struct {
		Main        string `json:"main"`
		Description string `json:"description"`
	} `json:"weather"`
	Wind *struct {
		Speed float64 `json:"speed"`
	} `json:"wind"`
	Sys *struct {
		Sunrise int64 `json:"sunrise"`
		Sunset  int64 `json:"sunset"`
	} `json:"sys"`
}

// GetCurrentWeather issues one GET for query and returns the decoded reading.
// Provider error payloads come back as errors wrapping one of the package
// sentinels, never as a partially filled reading.
func (c *OpenWeatherClient) GetCurrentWeather(ctx context.Context, query models.WeatherQuery) (models.WeatherReading, error) {
	start := time.Now()

	reqCtx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(reqCtx, query)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		return models.WeatherReading{}, fmt.Errorf("build request: %w", err)
	}

	if corrID := extractCorrelationID(ctx); corrID != "" {
		req.Header.Set("X-Correlation-ID", corrID)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		observability.WeatherAPICallsTotal.WithLabelValues("error").Inc()
		observability.WeatherAPIDuration.WithLabelValues("error").Observe(time.Since(start).Seconds())
		if isTimeout(err) {
			return models.WeatherReading{}, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return models.WeatherReading{}, fmt.Errorf("%w: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	status := statusLabel(resp.StatusCode)
	observability.WeatherAPICallsTotal.WithLabelValues(status).Inc()
	observability.WeatherAPIDuration.WithLabelValues(status).Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return models.WeatherReading{}, fmt.Errorf("%w: read response body: %w", ErrTimeout, err)
		}
		return models.WeatherReading{}, fmt.Errorf("%w: read response body: %w", ErrTransport, err)
	}

	var apiResp openWeatherResponse
	decodeErr := json.Unmarshal(body, &apiResp)

	if err := c.handleErrorResponse(resp.StatusCode, apiResp); err != nil {
		return models.WeatherReading{}, err
	}
	if decodeErr != nil {
		return models.WeatherReading{}, fmt.Errorf("%w: parse response: %v", ErrMalformedPayload, decodeErr)
	}

	return mapResponse(apiResp)
}

func (c *OpenWeatherClient) buildRequest(ctx context.Context, query models.WeatherQuery) (*http.Request, error) {
	baseURL, err := url.Parse(c.apiURL)
	if err != nil {
		return nil, fmt.Errorf("invalid API URL: %w", err)
	}

	params := baseURL.Query()
	params.Set("appid", c.apiKey)
	if query.City != "" {
		params.Set("q", query.City)
	}
	if query.Units != "" {
		params.Set("units", query.Units)
	}
	baseURL.RawQuery = params.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, baseURL.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}

	req.Header.Set("Accept", "application/json")
	return req, nil
}

// handleErrorResponse classifies a provider reply. The payload's cod field is
// consulted as well as the HTTP status, since the provider reports failures
// in both places.
func (c *OpenWeatherClient) handleErrorResponse(statusCode int, apiResp openWeatherResponse) error {
	code := statusCode
	if cod, ok := parseCod(apiResp.Cod); ok && cod >= 400 && code < 400 {
		code = cod
	}
	msg := strings.TrimSpace(apiResp.Message)

	switch code {
	case http.StatusBadRequest:
		return withMessage(ErrInvalidQuery, msg)
	case http.StatusUnauthorized:
		return withMessage(ErrInvalidAPIKey, msg)
	case http.StatusNotFound:
		return withMessage(ErrLocationNotFound, msg)
	case http.StatusTooManyRequests:
		return withMessage(ErrRateLimited, msg)
	}

	if code < 200 || code >= 300 {
		return fmt.Errorf("%w: HTTP %d", ErrUpstreamFailure, code)
	}
	return nil
}

func withMessage(sentinel error, msg string) error {
	if msg == "" {
		return fmt.Errorf("%w", sentinel)
	}
	return fmt.Errorf("%w: %s", sentinel, msg)
}

// parseCod reads the payload's cod field, which the provider sends as a
// number on success and as a string on errors.
func parseCod(raw json.RawMessage) (int, bool) {
	s := strings.Trim(strings.TrimSpace(string(raw)), `"`)
	if s == "" {
		return 0, false
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}

func mapResponse(apiResp openWeatherResponse) (models.WeatherReading, error) {
	var missing []string
	if len(apiResp.Weather) == 0 {
		missing = append(missing, "weather[0]")
	}
	if apiResp.Main == nil {
		missing = append(missing, "main")
	}
	if apiResp.Wind == nil {
		missing = append(missing, "wind")
	}
	if apiResp.Sys == nil {
		missing = append(missing, "sys")
	}
	if len(missing) > 0 {
		return models.WeatherReading{}, fmt.Errorf("%w: missing %s", ErrMalformedPayload, strings.Join(missing, ", "))
	}

	return models.WeatherReading{
		Name:        apiResp.Name,
		Description: apiResp.Weather[0].Description,
		Temp:        apiResp.Main.Temp,
		Humidity:    apiResp.Main.Humidity,
		WindSpeed:   apiResp.Wind.Speed,
		Sunrise:     apiResp.Sys.Sunrise,
		Sunset:      apiResp.Sys.Sunset,
	}, nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func extractCorrelationID(ctx context.Context) string {
	if corrIDVal := ctx.Value("correlation_id"); corrIDVal != nil {
		if corrID, ok := corrIDVal.(string); ok {
			return corrID
		}
	}
	return ""
}

func statusLabel(statusCode int) string {
	if statusCode >= 200 && statusCode < 300 {
		return "success"
	}
	if statusCode == 429 {
		return "rate_limited"
	}
	if statusCode >= 400 && statusCode < 500 {
		return "client_error"
	}
	if statusCode >= 500 {
		return "server_error"
	}
	return "error"
}

// ValidateAPIKey probes the provider with a known city and reports whether
// the configured key is accepted. The probe is bounded by the same timeout as
// lookups.
func (c *OpenWeatherClient) ValidateAPIKey(ctx context.Context) error {
	if c.apiKey == "" {
		return fmt.Errorf("%w: API key is not configured", ErrInvalidAPIKey)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := c.buildRequest(ctx, models.WeatherQuery{City: "London", Units: "metric"})
	if err != nil {
		return fmt.Errorf("build validation request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		if isTimeout(err) {
			return fmt.Errorf("%w: validation request: %w", ErrTimeout, err)
		}
		return fmt.Errorf("%w: validation request: %w", ErrTransport, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusUnauthorized {
		return fmt.Errorf("%w: API key is invalid or not activated", ErrInvalidAPIKey)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("validation failed: HTTP %d", resp.StatusCode)
	}

	return nil
}
