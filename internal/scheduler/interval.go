package scheduler

import "time"

// Interval is a half-open [Start, End) time range. The engine keeps every
// interval in UTC; conversions to a reservation's display zone happen at the
// edges.
type Interval struct {
	Start time.Time
	End   time.Time
}

// Overlaps reports whether two intervals share at least one instant. The
// predicate is total: it covers the cases where one interval contains the
// other, overlaps its start, or overlaps its end.
func (iv Interval) Overlaps(other Interval) bool {
	return other.Start.Before(iv.End) && other.End.After(iv.Start)
}

// Duration returns the length of the interval.
func (iv Interval) Duration() time.Duration {
	return iv.End.Sub(iv.Start)
}

// IsValid reports whether the interval is well formed (Start strictly before End).
func (iv Interval) IsValid() bool {
	return iv.Start.Before(iv.End)
}
