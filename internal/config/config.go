// Package config loads the storefront configuration from STOREFRONT_*
// environment variables.
package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/goliatone/go-storefront/cache"
	"github.com/goliatone/go-storefront/store"
)

// Prefix is prepended to every environment key.
const Prefix = "STOREFRONT_"

type Config struct {
	HTTP  HTTPConfig  `envPrefix:"HTTP_"`
	Log   LogConfig   `envPrefix:"LOG_"`
	DB    DBConfig    `envPrefix:"DB_"`
	Auth  AuthConfig  `envPrefix:"AUTH_"`
	Cache CacheConfig `envPrefix:"CACHE_"`
	Media MediaConfig `envPrefix:"MEDIA_"`
	OTel  OTelConfig  `envPrefix:"OTEL_"`
}

type HTTPConfig struct {
	Addr              string        `env:"ADDR"                envDefault:":8000"`
	ReadHeaderTimeout time.Duration `env:"READ_HEADER_TIMEOUT" envDefault:"5s"`
	ShutdownTimeout   time.Duration `env:"SHUTDOWN_TIMEOUT"    envDefault:"10s"`
}

type LogConfig struct {
	Level  string `env:"LEVEL"  envDefault:"info"`
	Format string `env:"FORMAT" envDefault:"json"`
}

type DBConfig struct {
	Driver       string        `env:"DRIVER"         envDefault:"sqlite"`
	DSN          string        `env:"DSN"            envDefault:"file:storefront.db?cache=shared"`
	MaxOpenConns int           `env:"MAX_OPEN_CONNS" envDefault:"10"`
	Timeout      time.Duration `env:"TIMEOUT"        envDefault:"5s"`
	SlowQuery    time.Duration `env:"SLOW_QUERY"     envDefault:"200ms"`
	// Seed inserts the default statuses on startup.
	Seed bool `env:"SEED" envDefault:"true"`
}

type AuthConfig struct {
	Secret     string        `env:"SECRET"`
	AccessTTL  time.Duration `env:"ACCESS_TTL"  envDefault:"5m"`
	RefreshTTL time.Duration `env:"REFRESH_TTL" envDefault:"24h"`
	// RateLimit requests per RateWindow for each authenticated user.
	RateLimit  int           `env:"RATE_LIMIT"  envDefault:"100"`
	RateWindow time.Duration `env:"RATE_WINDOW" envDefault:"1m"`
}

type CacheConfig struct {
	Capacity           int           `env:"CAPACITY"            envDefault:"10000"`
	Shards             int           `env:"SHARDS"              envDefault:"256"`
	TTL                time.Duration `env:"TTL"                 envDefault:"5m"`
	EvictionPercentage int           `env:"EVICTION_PERCENTAGE" envDefault:"10"`
	EvictionInterval   time.Duration `env:"EVICTION_INTERVAL"   envDefault:"0s"`
	Timeout            time.Duration `env:"TIMEOUT"             envDefault:"100ms"`
}

type MediaConfig struct {
	// CloudinaryURL selects the Cloudinary image store when set.
	CloudinaryURL  string `env:"CLOUDINARY_URL"`
	Dir            string `env:"DIR"              envDefault:"media"`
	BaseURL        string `env:"BASE_URL"         envDefault:"/media/"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"5242880"`
}

type OTelConfig struct {
	// Endpoint of the OTLP/HTTP collector. Empty disables export.
	Endpoint    string `env:"ENDPOINT"`
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront"`
}

// Load parses the environment and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: Prefix}); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if err := validation.ValidateStruct(&c.Log,
		validation.Field(&c.Log.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&c.Log.Format, validation.In("json", "text")),
	); err != nil {
		return fmt.Errorf("log config: %w", err)
	}

	if err := validation.ValidateStruct(&c.DB,
		validation.Field(&c.DB.Driver, validation.Required,
			validation.In(store.DriverSQLite, store.DriverPostgres, store.DriverMySQL)),
		validation.Field(&c.DB.DSN, validation.Required),
	); err != nil {
		return fmt.Errorf("db config: %w", err)
	}

	if err := validation.ValidateStruct(&c.Auth,
		validation.Field(&c.Auth.Secret, validation.Required, validation.Length(32, 0)),
		validation.Field(&c.Auth.AccessTTL, validation.Required),
		validation.Field(&c.Auth.RefreshTTL, validation.Required),
		validation.Field(&c.Auth.RateLimit, validation.Min(0)),
		validation.Field(&c.Auth.RateWindow, validation.Required, validation.Min(time.Nanosecond)),
	); err != nil {
		return fmt.Errorf("auth config: %w", err)
	}

	if err := validation.ValidateStruct(&c.OTel,
		validation.Field(&c.OTel.Endpoint, is.URL),
	); err != nil {
		return fmt.Errorf("otel config: %w", err)
	}

	return c.Cache.Options().Validate()
}

// Options converts the cache section into cache service options.
func (c CacheConfig) Options() cache.Config {
	return cache.Config{
		Capacity:           c.Capacity,
		NumShards:          c.Shards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

// Options converts the db section into store connection options.
func (c DBConfig) Options() store.Config {
	return store.Config{
		Driver:       c.Driver,
		DSN:          c.DSN,
		MaxOpenConns: c.MaxOpenConns,
		SlowQuery:    c.SlowQuery,
	}
}

// NewLogger builds the process logger writing to w.
func (c LogConfig) NewLogger(w io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: c.SlogLevel()}
	if strings.EqualFold(c.Format, "text") {
		return slog.New(slog.NewTextHandler(w, opts))
	}
	return slog.New(slog.NewJSONHandler(w, opts))
}

func (c LogConfig) SlogLevel() slog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
