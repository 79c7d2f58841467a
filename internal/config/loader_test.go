package config

import (
	"os"
	"strings"
	"testing"
	"time"
)

func TestLoader_ParseEnvironment(t *testing.T) {

	t.Run("applies defaults when variables are missing", func(t *testing.T) {
		unset := []string{
			"PORT",
			"SQLITE_DSN",
			"ALLOWED_TIMEZONES",
			"ALLOWED_ORIGINS",
			"BUSINESS_START_HOUR",
			"BUSINESS_END_HOUR",
			"MIN_DURATION_MINUTES",
			"MAX_DURATION_MINUTES",
			"SEARCH_HORIZON_DAYS",
		}
		for _, key := range unset {
			if err := os.Unsetenv(key); err != nil {
				t.Fatalf("failed to unset %s: %v", key, err)
			}
		}

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 3001 {
			t.Fatalf("expected default HTTP port 3001, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:reservations.db" {
			t.Fatalf("unexpected default DSN: %q", cfg.SQLiteDSN)
		}
		if len(cfg.AllowedTimezones) != 3 || cfg.AllowedTimezones[0] != "America/New_York" {
			t.Fatalf("unexpected default zones: %v", cfg.AllowedTimezones)
		}
		if cfg.BusinessStartHour != 9 || cfg.BusinessEndHour != 17 {
			t.Fatalf("unexpected default business hours: %d-%d", cfg.BusinessStartHour, cfg.BusinessEndHour)
		}
		if cfg.MinDuration != 30*time.Minute || cfg.MaxDuration != 120*time.Minute {
			t.Fatalf("unexpected default durations: %s-%s", cfg.MinDuration, cfg.MaxDuration)
		}
		if cfg.SearchHorizonDays != 30 {
			t.Fatalf("expected default horizon 30 days, got %d", cfg.SearchHorizonDays)
		}
	})

	t.Run("parses numeric and list fields", func(t *testing.T) {
		t.Setenv("PORT", "8081")
		t.Setenv("SQLITE_DSN", "file:/tmp/reservations.db")
		t.Setenv("ALLOWED_TIMEZONES", "Asia/Tokyo, Europe/Madrid")
		t.Setenv("ALLOWED_ORIGINS", "http://localhost:3000,https://rooms.example.com")
		t.Setenv("BUSINESS_START_HOUR", "8")
		t.Setenv("BUSINESS_END_HOUR", "18")
		t.Setenv("MIN_DURATION_MINUTES", "15")
		t.Setenv("MAX_DURATION_MINUTES", "240")
		t.Setenv("SEARCH_HORIZON_DAYS", "60")

		cfg, err := Load()
		if err != nil {
			t.Fatalf("Load returned error: %v", err)
		}

		if cfg.HTTPPort != 8081 {
			t.Fatalf("expected HTTP port 8081, got %d", cfg.HTTPPort)
		}
		if cfg.SQLiteDSN != "file:/tmp/reservations.db" {
			t.Fatalf("unexpected DSN: %q", cfg.SQLiteDSN)
		}
		if len(cfg.AllowedTimezones) != 2 || cfg.AllowedTimezones[1] != "Europe/Madrid" {
			t.Fatalf("unexpected zones: %v", cfg.AllowedTimezones)
		}
		if len(cfg.AllowedOrigins) != 2 {
			t.Fatalf("unexpected origins: %v", cfg.AllowedOrigins)
		}
		if cfg.BusinessStartHour != 8 || cfg.BusinessEndHour != 18 {
			t.Fatalf("unexpected business hours: %d-%d", cfg.BusinessStartHour, cfg.BusinessEndHour)
		}
		if cfg.MinDuration != 15*time.Minute || cfg.MaxDuration != 240*time.Minute {
			t.Fatalf("unexpected durations: %s-%s", cfg.MinDuration, cfg.MaxDuration)
		}
		if cfg.SearchHorizonDays != 60 {
			t.Fatalf("expected horizon 60 days, got %d", cfg.SearchHorizonDays)
		}
	})

	t.Run("rejects unknown timezones", func(t *testing.T) {
		t.Setenv("ALLOWED_TIMEZONES", "Mars/Olympus")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for unknown timezone")
		}
		if !strings.Contains(err.Error(), "ALLOWED_TIMEZONES") {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})

	t.Run("rejects inverted business hours", func(t *testing.T) {
		t.Setenv("BUSINESS_START_HOUR", "18")
		t.Setenv("BUSINESS_END_HOUR", "9")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for inverted business hours")
		}
	})

	t.Run("rejects malformed numbers", func(t *testing.T) {
		t.Setenv("PORT", "not-a-port")

		_, err := Load()
		if err == nil {
			t.Fatal("expected error for malformed port")
		}
		if !strings.Contains(err.Error(), "PORT") {
			t.Fatalf("unexpected error message: %q", err.Error())
		}
	})
}
