package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/sony/gobreaker"

	"github.com/i474232898/walkd/internal/weather"
)

// DefaultOpenWeatherURL is the OpenWeatherMap current-weather endpoint.
const DefaultOpenWeatherURL = "https://api.openweathermap.org/data/2.5/weather"

// OpenWeatherConfig holds the OpenWeatherMap credentials and request options.
type OpenWeatherConfig struct {
	APIKey  string
	BaseURL string // defaults to DefaultOpenWeatherURL
	Lang    string // description language, e.g. "kr"
}

// OpenWeatherProvider implements the weather.Provider interface for OpenWeatherMap.
type OpenWeatherProvider struct {
	name    string
	apiKey  string
	baseURL string
	lang    string
	client  *http.Client
	circuit *gobreaker.CircuitBreaker
}

func NewOpenWeatherProvider(client *http.Client, cfg OpenWeatherConfig) *OpenWeatherProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = DefaultOpenWeatherURL
	}

	return &OpenWeatherProvider{
		name:    "openweathermap",
		apiKey:  cfg.APIKey,
		baseURL: baseURL,
		lang:    cfg.Lang,
		client:  client,
		circuit: newCircuitBreaker("openweather"),
	}
}

func (p *OpenWeatherProvider) Name() string {
	return p.name
}

func (p *OpenWeatherProvider) Fetch(ctx context.Context, coords weather.Coordinates) (weather.ProviderReading, error) {
	if p.apiKey == "" {
		return weather.ProviderReading{}, fmt.Errorf("openweather api key is not configured")
	}

	buildRequest := func(ctx context.Context) (*http.Request, error) {
		values := url.Values{}
		values.Set("lat", strconv.FormatFloat(coords.Lat, 'f', -1, 64))
		values.Set("lon", strconv.FormatFloat(coords.Lon, 'f', -1, 64))
		values.Set("appid", p.apiKey)
		values.Set("units", "metric")
		if p.lang != "" {
			values.Set("lang", p.lang)
		}

		u := fmt.Sprintf("%s?%s", p.baseURL, values.Encode())
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	}

	resp, err := doRequest(ctx, p.client, p.circuit, buildRequest)
	if err != nil {
		return weather.ProviderReading{}, err
	}
	defer resp.Body.Close()

	// Pointers distinguish an absent field from a zero value.
	var payload struct {
		Main struct {
			Temp *float64 `json:"temp"`
		} `json:"main"`
		Weather []struct {
			ID          *int    `json:"id"`
			Description *string `json:"description"`
		} `json:"weather"`
	}

	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return weather.ProviderReading{}, fmt.Errorf("decode openweather response: %w", err)
	}

	if payload.Main.Temp == nil {
		return weather.ProviderReading{}, fmt.Errorf("%w: main.temp", errMissingField)
	}
	if len(payload.Weather) == 0 {
		return weather.ProviderReading{}, fmt.Errorf("%w: weather", errMissingField)
	}
	current := payload.Weather[0]
	if current.ID == nil {
		return weather.ProviderReading{}, fmt.Errorf("%w: weather[0].id", errMissingField)
	}
	if current.Description == nil {
		return weather.ProviderReading{}, fmt.Errorf("%w: weather[0].description", errMissingField)
	}

	return weather.ProviderReading{
		ProviderName: p.name,
		Code:         *current.ID,
		Description:  *current.Description,
		TemperatureC: *payload.Main.Temp,
	}, nil
}
