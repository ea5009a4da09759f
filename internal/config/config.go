package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

const defaultPort = 8080

var validate = validator.New()

type AppConfig struct {
	// Port the HTTP server binds on all interfaces.
	Port int `validate:"min=1,max=65535"`

	// Upstream bulletin source.
	UpstreamBaseURL string        `validate:"required,url"`
	StationID       string        `validate:"required,numeric"`
	HTTPTimeout     time.Duration `validate:"gte=0s"`

	// Circuit breaker around upstream transport failures.
	BreakerMaxFailures uint32        `validate:"min=1"`
	BreakerOpenTimeout time.Duration `validate:"gt=0s"`

	// Location is the zone the current bulletin hour is computed in.
	Location *time.Location `validate:"required"`

	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level
}

// Load reads configuration from environment with sensible defaults.
// An optional .env file is honoured but never required.
func Load() (*AppConfig, error) {
	_ = godotenv.Load()

	cfg := &AppConfig{
		Port:               getenvPort("PORT", defaultPort),
		UpstreamBaseURL:    getenvDefault("UPSTREAM_BASE_URL", "http://www.arpa.veneto.it/bollettini/meteo/h24"),
		StationID:          getenvDefault("STATION_ID", "0182"),
		BreakerMaxFailures: uint32(getenvInt("BREAKER_MAX_FAILURES", 5)),
		AppEnv:             getenvDefault("APP_ENV", "prod"),
	}

	var err error
	if cfg.HTTPTimeout, err = getenvDuration("UPSTREAM_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.BreakerOpenTimeout, err = getenvDuration("BREAKER_OPEN_TIMEOUT", "30s"); err != nil {
		return nil, err
	}

	tz := getenvDefault("BULLETIN_TIMEZONE", "UTC")
	if cfg.Location, err = time.LoadLocation(tz); err != nil {
		return nil, fmt.Errorf("invalid BULLETIN_TIMEZONE: %w", err)
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(getenvDefault("LOG_LEVEL", "INFO"))); err != nil {
		return nil, fmt.Errorf("invalid LOG_LEVEL: %w", err)
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Addr is the listen address on all interfaces.
func (c *AppConfig) Addr() string {
	return fmt.Sprintf("0.0.0.0:%d", c.Port)
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

// getenvPort falls back to def when the value is missing, unparsable or not a
// usable TCP port.
func getenvPort(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.ParseUint(v, 10, 16)
		if err == nil && n > 0 {
			return int(n)
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	d, err := time.ParseDuration(getenvDefault(key, def))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}
