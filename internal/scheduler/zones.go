package scheduler

import (
	"fmt"
	"time"
)

// Zones is the allow-list of IANA zone identifiers reservations may be
// requested in.
type Zones []string

// Contains reports whether name is part of the allow-list.
func (z Zones) Contains(name string) bool {
	for _, zone := range z {
		if zone == name {
			return true
		}
	}
	return false
}

// DefaultZones returns the stock allow-list.
func DefaultZones() Zones {
	return Zones{"America/New_York", "Asia/Tokyo", "America/Mexico_City"}
}

// Wall-clock layouts accepted from callers, tried in order. Values carrying an
// explicit offset are honored as-is via RFC 3339.
var wallClockLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
}

// ToUTC interprets a wall-clock value in the named zone and returns the
// equivalent UTC instant. The caller is responsible for checking the zone
// against the allow-list first.
func ToUTC(value, zone string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, value); err == nil {
		return ts.UTC(), nil
	}

	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler: load zone %q: %w", zone, err)
	}

	for _, layout := range wallClockLayouts {
		if ts, err := time.ParseInLocation(layout, value, loc); err == nil {
			return ts.UTC(), nil
		}
	}

	return time.Time{}, fmt.Errorf("scheduler: parse wall-clock time %q", value)
}

// FromUTC converts a UTC instant into the named zone for presentation. It is
// the inverse of ToUTC: FromUTC(ToUTC(x, zone), zone) reproduces x. Daylight
// saving transitions are delegated entirely to the tz database.
func FromUTC(t time.Time, zone string) (time.Time, error) {
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return time.Time{}, fmt.Errorf("scheduler: load zone %q: %w", zone, err)
	}
	return t.In(loc), nil
}
