package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/i474232898/walkd/internal/weather"
)

const rainyPayload = `{
	"coord": {"lon": 126.978, "lat": 37.5665},
	"weather": [{"id": 310, "main": "Drizzle", "description": "실 비", "icon": "09d"}],
	"main": {"temp": 17.46, "feels_like": 17.1, "humidity": 82},
	"name": "Seoul"
}`

func newTestProvider(t *testing.T, handler http.HandlerFunc) *OpenWeatherProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewOpenWeatherProvider(srv.Client(), OpenWeatherConfig{
		APIKey:  "test-key",
		BaseURL: srv.URL,
		Lang:    "kr",
	})
}

func TestOpenWeatherFetchSuccess(t *testing.T) {
	queries := make(chan url.Values, 1)
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		queries <- r.URL.Query()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(rainyPayload))
	})

	reading, err := p.Fetch(context.Background(), weather.Coordinates{Lat: 35.1796, Lon: 129.0756})
	require.NoError(t, err)
	require.Equal(t, weather.ProviderReading{
		ProviderName: "openweathermap",
		Code:         310,
		Description:  "실 비",
		TemperatureC: 17.46,
	}, reading)

	q := <-queries
	require.Equal(t, "35.1796", q.Get("lat"))
	require.Equal(t, "129.0756", q.Get("lon"))
	require.Equal(t, "test-key", q.Get("appid"))
	require.Equal(t, "metric", q.Get("units"))
	require.Equal(t, "kr", q.Get("lang"))
}

func TestOpenWeatherFetchErrors(t *testing.T) {
	cases := []struct {
		name    string
		handler http.HandlerFunc
		wantErr error
	}{
		{
			name: "server error",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusInternalServerError)
			},
			wantErr: errServerError,
		},
		{
			name: "unauthorized",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = w.Write([]byte(`{"cod":401,"message":"Invalid API key"}`))
			},
			wantErr: errUnexpected,
		},
		{
			name: "rate limited",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusTooManyRequests)
			},
			wantErr: errRateLimited,
		},
		{
			name: "missing temperature",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[{"id":800,"description":"맑음"}],"main":{}}`))
			},
			wantErr: errMissingField,
		},
		{
			name: "empty weather list",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[],"main":{"temp":3.2}}`))
			},
			wantErr: errMissingField,
		},
		{
			name: "missing condition id",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[{"description":"맑음"}],"main":{"temp":3.2}}`))
			},
			wantErr: errMissingField,
		},
		{
			name: "missing description",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`{"weather":[{"id":800}],"main":{"temp":3.2}}`))
			},
			wantErr: errMissingField,
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			p := newTestProvider(t, tc.handler)
			_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
			require.ErrorIs(t, err, tc.wantErr)
		})
	}
}

func TestOpenWeatherFetchMalformedBody(t *testing.T) {
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"main": {"temp": `))
	})

	_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
	require.Error(t, err)
}

func TestOpenWeatherFetchRequiresAPIKey(t *testing.T) {
	var called atomic.Bool
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	t.Cleanup(srv.Close)

	p := NewOpenWeatherProvider(srv.Client(), OpenWeatherConfig{BaseURL: srv.URL})
	_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
	require.Error(t, err)
	require.False(t, called.Load())
}

func TestOpenWeatherCircuitOpensAfterRepeatedFailures(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})

	for i := 0; i < 5; i++ {
		_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
		require.ErrorIs(t, err, errServerError)
	}

	_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
	require.ErrorIs(t, err, errCircuitOpen)
	require.Equal(t, int32(5), calls.Load())
}

func TestOpenWeatherDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	p := newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.WriteHeader(http.StatusServiceUnavailable)
	})

	_, err := p.Fetch(context.Background(), weather.DefaultCoordinates())
	require.Error(t, err)
	require.Equal(t, int32(1), calls.Load())
}

// The service must answer with the same fallback whatever the upstream failure.
func TestServiceFallbackIsIdenticalForEveryFailure(t *testing.T) {
	failures := map[string]http.HandlerFunc{
		"timeout": func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-r.Context().Done():
			case <-time.After(2 * time.Second):
			}
		},
		"status 500": func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		},
		"malformed json": func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`<html>upstream maintenance</html>`))
		},
	}

	for name, handler := range failures {
		t.Run(name, func(t *testing.T) {
			svc := weather.NewService(newTestProvider(t, handler), nil, 100*time.Millisecond)

			snapshot, source := svc.Current(context.Background(), weather.Query{})
			require.Equal(t, weather.SourceFallback, source)
			require.Equal(t, weather.Snapshot{Temperature: 18.0, Condition: "맑음", Icon: "☀️"}, snapshot)
		})
	}
}

func TestServiceLiveSnapshotFromOpenWeather(t *testing.T) {
	svc := weather.NewService(newTestProvider(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(rainyPayload))
	}), nil, time.Second)

	snapshot, source := svc.Current(context.Background(), weather.Query{})
	require.Equal(t, weather.SourceLive, source)
	require.Equal(t, weather.Snapshot{Temperature: 17.5, Condition: "실 비", Icon: weather.IconRain}, snapshot)
}

func TestGoogleGeocoderRequiresKeyAndCity(t *testing.T) {
	_, err := (&GoogleGeocoder{}).Locate(context.Background(), "Seoul", "KR")
	require.Error(t, err)

	_, err = (&GoogleGeocoder{apiKey: "k"}).Locate(context.Background(), "", "KR")
	require.Error(t, err)
}
