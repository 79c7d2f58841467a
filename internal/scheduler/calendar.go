package scheduler

import "time"

// BusinessCalendar holds the configurable business-hour and duration bounds
// applied to every reservation. The zero value is not usable; construct one
// with DefaultCalendar or from configuration.
//
// All predicates interpret instants in UTC. The business day of an instant is
// the weekday of its UTC representation, regardless of the zone a reservation
// was requested in.
type BusinessCalendar struct {
	StartHour   int
	EndHour     int
	MinDuration time.Duration
	MaxDuration time.Duration
}

// DefaultCalendar returns the stock 09:00-17:00 calendar with 30-120 minute
// reservation bounds.
func DefaultCalendar() BusinessCalendar {
	return BusinessCalendar{
		StartHour:   9,
		EndHour:     17,
		MinDuration: 30 * time.Minute,
		MaxDuration: 120 * time.Minute,
	}
}

// IsBusinessDay reports whether the instant falls on Monday through Friday in
// UTC.
func (c BusinessCalendar) IsBusinessDay(t time.Time) bool {
	weekday := t.UTC().Weekday()
	return weekday >= time.Monday && weekday <= time.Friday
}

// WithinBusinessHours reports whether [start, end) sits entirely inside the
// business window of a single UTC calendar day. The end may touch the closing
// hour exactly (17:00) but not pass it.
func (c BusinessCalendar) WithinBusinessHours(start, end time.Time) bool {
	start = start.UTC()
	end = end.UTC()

	sy, sm, sd := start.Date()
	ey, em, ed := end.Date()
	if sy != ey || sm != em || sd != ed {
		return false
	}

	if start.Hour() < c.StartHour || start.Hour() >= c.EndHour {
		return false
	}

	if end.Hour() > c.EndHour {
		return false
	}
	if end.Hour() == c.EndHour && (end.Minute() > 0 || end.Second() > 0 || end.Nanosecond() > 0) {
		return false
	}

	return true
}

// ValidDuration reports whether the span between start and end lies inside the
// configured duration bounds. A non-positive span is never valid.
func (c BusinessCalendar) ValidDuration(start, end time.Time) bool {
	d := end.Sub(start)
	return d >= c.MinDuration && d <= c.MaxDuration
}

// DurationMinutes returns the whole minutes between start and end.
func DurationMinutes(start, end time.Time) int {
	return int(end.Sub(start) / time.Minute)
}

// NextMorning returns the opening instant of the UTC day after t.
func (c BusinessCalendar) NextMorning(t time.Time) time.Time {
	t = t.UTC().AddDate(0, 0, 1)
	return time.Date(t.Year(), t.Month(), t.Day(), c.StartHour, 0, 0, 0, time.UTC)
}

// MorningOf clamps t to the opening hour of its own UTC day.
func (c BusinessCalendar) MorningOf(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), c.StartHour, 0, 0, 0, time.UTC)
}

// RoundUpToHalfHour rounds t up to the next :00 or :30 boundary. Instants
// already on a boundary are returned unchanged.
func RoundUpToHalfHour(t time.Time) time.Time {
	t = t.UTC()
	rounded := t.Truncate(30 * time.Minute)
	if rounded.Before(t) {
		rounded = rounded.Add(30 * time.Minute)
	}
	return rounded
}
