package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
)

// AppConfig holds every setting the service reads from the environment.
type AppConfig struct {
	Port        string `env:"PORT" env-default:"8080"`
	Environment string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel    string `env:"LOG_LEVEL" env-default:"info"`

	// DatabaseURL selects the Postgres store; empty keeps data in memory.
	DatabaseURL string `env:"DATABASE_URL" env-default:""`
	// RedisURL selects the Redis geocode cache; empty uses an in-process cache.
	RedisURL string `env:"REDIS_URL" env-default:""`

	ForecastAPIURL        string        `env:"FORECAST_API_URL" env-default:"https://api.open-meteo.com/v1/forecast"`
	ArchiveAPIURL         string        `env:"ARCHIVE_API_URL" env-default:"https://archive-api.open-meteo.com/v1/archive"`
	GeocodingAPIURL       string        `env:"GEOCODING_API_URL" env-default:"https://geocoding-api.open-meteo.com/v1"`
	GoogleGeocodingAPIKey string        `env:"GOOGLE_GEOCODING_API_KEY" env-default:""`
	HTTPTimeout           time.Duration `env:"HTTP_TIMEOUT" env-default:"10s"`
	ProviderMaxRetries    int           `env:"PROVIDER_MAX_RETRIES" env-default:"0"`

	HourlyLimit         int           `env:"HOURLY_LIMIT" env-default:"12"`
	GeocodeCacheTTL     time.Duration `env:"GEOCODE_CACHE_TTL" env-default:"24h"`
	HistoryWarmInterval time.Duration `env:"HISTORY_WARM_INTERVAL" env-default:"24h"`
	CORSAllowOrigins    string        `env:"CORS_ALLOW_ORIGINS" env-default:"*"`
}

// Load reads an optional .env file and then the environment.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		log.Printf("INFO: No .env file found or error loading it: %v", err)
	}

	cfg := &AppConfig{}
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("read environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values that parse but make no sense.
func (c *AppConfig) Validate() error {
	switch {
	case strings.TrimSpace(c.Port) == "":
		return fmt.Errorf("PORT must not be empty")
	case c.HTTPTimeout <= 0:
		return fmt.Errorf("HTTP_TIMEOUT must be positive, got %s", c.HTTPTimeout)
	case c.ProviderMaxRetries < 0:
		return fmt.Errorf("PROVIDER_MAX_RETRIES must not be negative, got %d", c.ProviderMaxRetries)
	case c.HourlyLimit <= 0:
		return fmt.Errorf("HOURLY_LIMIT must be positive, got %d", c.HourlyLimit)
	case c.GeocodeCacheTTL < 0:
		return fmt.Errorf("GEOCODE_CACHE_TTL must not be negative, got %s", c.GeocodeCacheTTL)
	case c.HistoryWarmInterval < 0:
		return fmt.Errorf("HISTORY_WARM_INTERVAL must not be negative, got %s", c.HistoryWarmInterval)
	}
	return nil
}

// IsDevelopment reports whether the service runs with development defaults.
func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}
