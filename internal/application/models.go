package application

import (
	"time"

	"github.com/example/room-reservations/internal/scheduler"
)

// Resources describes what a reservation claims besides the room itself.
type Resources struct {
	Projector bool
	Capacity  int
}

// ResourcesInput carries the caller supplied resource fields. Pointers
// distinguish "absent" from zero values so malformed payloads can be rejected.
type ResourcesInput struct {
	Projector *bool
	Capacity  *int
}

// ReservationInput captures a create request before normalization. StartTime
// and EndTime are wall-clock strings interpreted in Timezone.
type ReservationInput struct {
	StartTime string
	EndTime   string
	Priority  string
	Resources *ResourcesInput
	Timezone  string
}

// Reservation is a persisted booking with UTC endpoints.
type Reservation struct {
	ID        int64
	Start     time.Time
	End       time.Time
	Priority  scheduler.Priority
	Resources Resources
	Timezone  string
	CreatedAt time.Time
}

// Interval returns the reservation's occupied time range.
func (r Reservation) Interval() scheduler.Interval {
	return scheduler.Interval{Start: r.Start, End: r.End}
}

// ReservationView pairs a reservation with its wall-clock presentation in the
// zone it was requested in.
type ReservationView struct {
	Reservation
	LocalStart time.Time
	LocalEnd   time.Time
}

// Slot is a free window reported by the next-available search.
type Slot struct {
	StartUTC   time.Time
	LocalStart time.Time
	Timezone   string
}
