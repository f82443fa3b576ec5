package weather

import (
	"context"
)

// ProviderReading is a single provider's raw current-weather reading.
type ProviderReading struct {
	ProviderName string

	// Code is the provider's numeric condition code (OpenWeatherMap groups).
	Code         int
	Description  string
	TemperatureC float64
}

// Provider abstracts a current-weather data source.
type Provider interface {
	Name() string
	Fetch(ctx context.Context, coords Coordinates) (ProviderReading, error)
}

// Locator resolves a city name to coordinates.
type Locator interface {
	Locate(ctx context.Context, city, country string) (Coordinates, error)
}
