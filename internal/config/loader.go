package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures environment driven configuration values for the reservation service.
type Config struct {
	HTTPPort          int
	SQLiteDSN         string
	AllowedTimezones  []string
	AllowedOrigins    []string
	BusinessStartHour int
	BusinessEndHour   int
	MinDuration       time.Duration
	MaxDuration       time.Duration
	SearchHorizonDays int
}

// Load parses configuration values from the current process environment.
//
// Every field has a default so the service starts with an empty environment.
// Invalid values are collected and reported together rather than one at a
// time.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:          3001,
		SQLiteDSN:         "file:reservations.db",
		AllowedTimezones:  []string{"America/New_York", "Asia/Tokyo", "America/Mexico_City"},
		AllowedOrigins:    []string{"http://localhost:3000"},
		BusinessStartHour: 9,
		BusinessEndHour:   17,
		MinDuration:       30 * time.Minute,
		MaxDuration:       120 * time.Minute,
		SearchHorizonDays: 30,
	}

	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 {
			invalid = append(invalid, "PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if dsn := strings.TrimSpace(os.Getenv("SQLITE_DSN")); dsn != "" {
		cfg.SQLiteDSN = dsn
	}

	if zones := splitCSV(os.Getenv("ALLOWED_TIMEZONES")); len(zones) > 0 {
		if validZones(zones) {
			cfg.AllowedTimezones = zones
		} else {
			invalid = append(invalid, "ALLOWED_TIMEZONES")
		}
	}

	if origins := splitCSV(os.Getenv("ALLOWED_ORIGINS")); len(origins) > 0 {
		cfg.AllowedOrigins = origins
	}

	if hourValue := strings.TrimSpace(os.Getenv("BUSINESS_START_HOUR")); hourValue != "" {
		hour, err := strconv.Atoi(hourValue)
		if err != nil || hour < 0 || hour > 23 {
			invalid = append(invalid, "BUSINESS_START_HOUR")
		} else {
			cfg.BusinessStartHour = hour
		}
	}

	if hourValue := strings.TrimSpace(os.Getenv("BUSINESS_END_HOUR")); hourValue != "" {
		hour, err := strconv.Atoi(hourValue)
		if err != nil || hour < 1 || hour > 24 {
			invalid = append(invalid, "BUSINESS_END_HOUR")
		} else {
			cfg.BusinessEndHour = hour
		}
	}

	if minutesValue := strings.TrimSpace(os.Getenv("MIN_DURATION_MINUTES")); minutesValue != "" {
		minutes, err := strconv.Atoi(minutesValue)
		if err != nil || minutes <= 0 {
			invalid = append(invalid, "MIN_DURATION_MINUTES")
		} else {
			cfg.MinDuration = time.Duration(minutes) * time.Minute
		}
	}

	if minutesValue := strings.TrimSpace(os.Getenv("MAX_DURATION_MINUTES")); minutesValue != "" {
		minutes, err := strconv.Atoi(minutesValue)
		if err != nil || minutes <= 0 {
			invalid = append(invalid, "MAX_DURATION_MINUTES")
		} else {
			cfg.MaxDuration = time.Duration(minutes) * time.Minute
		}
	}

	if daysValue := strings.TrimSpace(os.Getenv("SEARCH_HORIZON_DAYS")); daysValue != "" {
		days, err := strconv.Atoi(daysValue)
		if err != nil || days <= 0 {
			invalid = append(invalid, "SEARCH_HORIZON_DAYS")
		} else {
			cfg.SearchHorizonDays = days
		}
	}

	if cfg.BusinessStartHour >= cfg.BusinessEndHour {
		invalid = append(invalid, "BUSINESS_START_HOUR")
	}
	if cfg.MinDuration > cfg.MaxDuration {
		invalid = append(invalid, "MIN_DURATION_MINUTES")
	}

	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	if len(result) == 0 {
		return nil
	}
	return result
}

func validZones(zones []string) bool {
	for _, zone := range zones {
		if _, err := time.LoadLocation(zone); err != nil {
			return false
		}
	}
	return true
}
