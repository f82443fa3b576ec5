package providers

import (
	"context"
	"errors"

	"github.com/kelvins/geocoder"

	"github.com/i474232898/walkd/internal/weather"
)

// GoogleGeocoder resolves city names through the Google Geocoding API.
type GoogleGeocoder struct {
	apiKey string
}

// NewGoogleGeocoder sets the process-wide geocoder key; construct it once at startup.
func NewGoogleGeocoder(apiKey string) *GoogleGeocoder {
	geocoder.ApiKey = apiKey
	return &GoogleGeocoder{apiKey: apiKey}
}

// Locate looks up city (and optional country). The underlying client has no
// context support, so the lookup is abandoned when ctx expires.
func (g *GoogleGeocoder) Locate(ctx context.Context, city, country string) (weather.Coordinates, error) {
	if g.apiKey == "" {
		return weather.Coordinates{}, errors.New("geocoder api key is not configured")
	}
	if city == "" {
		return weather.Coordinates{}, errors.New("city is required")
	}

	type result struct {
		loc geocoder.Location
		err error
	}
	ch := make(chan result, 1)
	go func() {
		loc, err := geocoder.Geocoding(geocoder.Address{City: city, Country: country})
		ch <- result{loc: loc, err: err}
	}()

	select {
	case <-ctx.Done():
		return weather.Coordinates{}, ctx.Err()
	case r := <-ch:
		if r.err != nil {
			return weather.Coordinates{}, r.err
		}
		return weather.Coordinates{Lat: r.loc.Latitude, Lon: r.loc.Longitude}, nil
	}
}
