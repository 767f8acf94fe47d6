package config

import (
	"strings"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Run("valid config", func(t *testing.T) {
		t.Setenv("LUNAR_SESSION_SECRET", "0123456789abcdef0123456789abcdef")
		t.Setenv("LUNAR_SERVER_PORT", "9090")
		t.Setenv("LUNAR_ENV", "production")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.ServerPort != 9090 {
			t.Errorf("ServerPort = %d, want 9090", cfg.ServerPort)
		}
		if cfg.IsDevelopment() {
			t.Error("IsDevelopment() = true for production env")
		}
		if got := cfg.ServerAddr(); got != "localhost:9090" {
			t.Errorf("ServerAddr() = %q, want %q", got, "localhost:9090")
		}
	})

	t.Run("missing secret", func(t *testing.T) {
		t.Setenv("LUNAR_SESSION_SECRET", "")

		if _, err := Load(); err == nil {
			t.Fatal("Load() succeeded with empty session secret")
		}
	})

	t.Run("short secret", func(t *testing.T) {
		t.Setenv("LUNAR_SESSION_SECRET", "too-short")

		_, err := Load()
		if err == nil {
			t.Fatal("Load() succeeded with short session secret")
		}
		if !strings.Contains(err.Error(), "at least") {
			t.Errorf("error %q does not mention minimum length", err)
		}
	})

	t.Run("defaults", func(t *testing.T) {
		t.Setenv("LUNAR_SESSION_SECRET", "0123456789abcdef0123456789abcdef")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if cfg.DBPath != "./data/lunar.db" {
			t.Errorf("DBPath = %q, want default", cfg.DBPath)
		}
		if cfg.UseRedisCache() {
			t.Error("UseRedisCache() = true without LUNAR_REDIS_URL")
		}
		if cfg.GeoIPEnabled() {
			t.Error("GeoIPEnabled() = true without LUNAR_GEOIP_DB_PATH")
		}
		if cfg.EventRetentionDays != 90 {
			t.Errorf("EventRetentionDays = %d, want 90", cfg.EventRetentionDays)
		}
	})
}
