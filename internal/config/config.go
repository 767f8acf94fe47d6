// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	DBPath        string `env:"LUNAR_DB_PATH" envDefault:"./data/lunar.db"`
	SessionSecret string `env:"LUNAR_SESSION_SECRET,required"`
	ServerHost    string `env:"LUNAR_SERVER_HOST" envDefault:"localhost"`
	ServerPort    int    `env:"LUNAR_SERVER_PORT" envDefault:"8080"`
	Env           string `env:"LUNAR_ENV" envDefault:"development"`
	LogLevel      string `env:"LUNAR_LOG_LEVEL" envDefault:"info"`
	UploadsDir    string `env:"LUNAR_UPLOADS_DIR" envDefault:"./uploads"`

	// Cache configuration
	RedisURL    string `env:"LUNAR_REDIS_URL"`                       // Optional Redis URL for distributed caching
	CachePrefix string `env:"LUNAR_CACHE_PREFIX" envDefault:"lunar:"` // Redis key prefix
	CacheTTL    int    `env:"LUNAR_CACHE_TTL" envDefault:"300"`       // Default cache TTL in seconds

	// GeoIP configuration
	GeoIPDBPath string `env:"LUNAR_GEOIP_DB_PATH"` // Path to GeoLite2-Country.mmdb file

	// Event log retention
	EventRetentionDays int `env:"LUNAR_EVENT_RETENTION_DAYS" envDefault:"90"`

	// Seeding configuration
	DoSeed bool `env:"LUNAR_DO_SEED" envDefault:"false"` // Enable database seeding
}

// IsDevelopment returns true if the application is running in development mode.
func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

// ServerAddr returns the full server address in host:port format.
func (c Config) ServerAddr() string {
	return fmt.Sprintf("%s:%d", c.ServerHost, c.ServerPort)
}

// UseRedisCache returns true if Redis caching is configured.
func (c Config) UseRedisCache() bool {
	return c.RedisURL != ""
}

// GeoIPEnabled returns true if GeoIP database is configured.
func (c Config) GeoIPEnabled() bool {
	return c.GeoIPDBPath != ""
}

// MinSessionSecretLength is the minimum required length for the session secret.
const MinSessionSecretLength = 32

// Load parses environment variables and returns a Config struct.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if len(cfg.SessionSecret) < MinSessionSecretLength {
		return nil, fmt.Errorf("LUNAR_SESSION_SECRET must be at least %d bytes long, got %d bytes; "+
			"generate a secure secret with: openssl rand -base64 32",
			MinSessionSecretLength, len(cfg.SessionSecret))
	}

	if cfg.EventRetentionDays < 1 {
		return nil, fmt.Errorf("LUNAR_EVENT_RETENTION_DAYS must be positive, got %d", cfg.EventRetentionDays)
	}

	return cfg, nil
}
