package models

// WeatherQuery is built per request from the query string. Neither field is
// validated; empty values are forwarded to the provider as-is.
type WeatherQuery struct {
	City  string
	Units string
}

// WeatherReading is the subset of the provider's current-weather payload the
// pages display. Sunrise and Sunset are UNIX epoch seconds.
type WeatherReading struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Temp        float64 `json:"temp"`
	Humidity    int     `json:"humidity"`
	WindSpeed   float64 `json:"windSpeed"`
	Sunrise     int64   `json:"sunrise"`
	Sunset      int64   `json:"sunset"`
}

// HomePage is the landing page context. MinDate and MaxDate are display-only.
type HomePage struct {
	MinDate string
	MaxDate string
}

// ResultsPage is the flat context for the single-city page.
type ResultsPage struct {
	Date        string
	City        string
	Units       string
	Description string
	Temp        float64
	Humidity    int
	WindSpeed   float64
	Sunrise     string // HH:MM
	Sunset      string // HH:MM
	UnitsLetter string
}

// CityInfo is one column of the comparison page. Sunrise stays a raw epoch
// and Sunset is only the hour, unlike ResultsPage.
type CityInfo struct {
	City      string
	Temp      float64
	Humidity  int
	WindSpeed float64
	Sunrise   int64
	Sunset    int
}

// ComparisonPage is the context for the two-city page.
type ComparisonPage struct {
	Date        string
	Units       string
	UnitsLetter string
	City1Info   CityInfo
	City2Info   CityInfo
}

// ErrorPage is rendered when a page cannot be built.
type ErrorPage struct {
	Status  int
	Title   string
	Message string
	// RequestID is the correlation ID of the failed request.
	RequestID string
}
