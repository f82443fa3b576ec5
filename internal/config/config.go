package config

import (
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/i474232898/walkd/internal/store"
	"github.com/i474232898/walkd/internal/weather"
	"github.com/i474232898/walkd/internal/weather/providers"
)

type AppConfig struct {
	Port string

	// Persistence backend: sqlite, postgres or memory.
	StoreDriver string
	DatabaseURL string

	OpenWeatherAPIKey  string
	OpenWeatherBaseURL string
	WeatherLang        string
	WeatherTimeout     time.Duration

	// GeocoderAPIKey enables ?city= lookups on the weather endpoint.
	GeocoderAPIKey string

	CORSAllowOrigins string

	// StoreProbeInterval controls how often the store is pinged in the background.
	StoreProbeInterval time.Duration
}

// Load reads configuration from environment with sensible defaults.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}
	cfg := &AppConfig{}

	cfg.Port = getenvDefault("PORT", "8000")

	cfg.StoreDriver = strings.ToLower(getenvDefault("STORE_DRIVER", store.DriverSQLite))
	switch cfg.StoreDriver {
	case store.DriverSQLite, store.DriverPostgres, store.DriverMemory:
	default:
		return nil, fmt.Errorf("invalid STORE_DRIVER %q: want sqlite, postgres or memory", cfg.StoreDriver)
	}

	cfg.DatabaseURL = getenvDefault("DATABASE_URL", "walks.db")
	if cfg.StoreDriver == store.DriverPostgres && !strings.HasPrefix(cfg.DatabaseURL, "postgres") {
		return nil, fmt.Errorf("DATABASE_URL must be a postgres:// URL when STORE_DRIVER=postgres")
	}

	cfg.OpenWeatherAPIKey = os.Getenv("OPENWEATHER_API_KEY")
	cfg.OpenWeatherBaseURL = getenvDefault("OPENWEATHER_BASE_URL", providers.DefaultOpenWeatherURL)
	cfg.WeatherLang = getenvDefault("WEATHER_LANG", "kr")

	timeout, err := getenvDuration("WEATHER_TIMEOUT", weather.DefaultTimeout)
	if err != nil {
		return nil, err
	}
	if timeout <= 0 {
		return nil, fmt.Errorf("invalid WEATHER_TIMEOUT: must be positive")
	}
	cfg.WeatherTimeout = timeout

	cfg.GeocoderAPIKey = os.Getenv("GEOCODER_API_KEY")
	cfg.CORSAllowOrigins = getenvDefault("CORS_ALLOW_ORIGINS", "http://localhost:5173")

	probe, err := getenvDuration("STORE_PROBE_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	cfg.StoreProbeInterval = probe

	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
