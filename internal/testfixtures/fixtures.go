package testfixtures

import (
	"time"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/scheduler"
)

// referenceTime is a Monday morning just before business hours open.
var referenceTime = time.Date(2024, time.March, 4, 8, 0, 0, 0, time.UTC)

// ReferenceTime returns the canonical baseline timestamp used by fixtures.
func ReferenceTime() time.Time {
	return referenceTime
}

// ReservationFixture represents a deterministic booking that can be
// materialised as either an application or a persistence model.
type ReservationFixture struct {
	Start     time.Time
	End       time.Time
	Priority  scheduler.Priority
	Projector bool
	Capacity  int
	Timezone  string
	CreatedAt time.Time
}

// NewReservationFixture returns a one hour booking starting when business
// hours open on the reference day.
func NewReservationFixture() ReservationFixture {
	start := referenceTime.Add(time.Hour)
	return ReservationFixture{
		Start:     start,
		End:       start.Add(time.Hour),
		Priority:  scheduler.PriorityNormal,
		Projector: false,
		Capacity:  4,
		Timezone:  "Asia/Tokyo",
		CreatedAt: referenceTime,
	}
}

// At shifts the fixture so it starts at the given instant, preserving its
// duration.
func (f ReservationFixture) At(start time.Time) ReservationFixture {
	duration := f.End.Sub(f.Start)
	f.Start = start
	f.End = start.Add(duration)
	return f
}

// HighPriority marks the fixture as a high priority booking.
func (f ReservationFixture) HighPriority() ReservationFixture {
	f.Priority = scheduler.PriorityHigh
	return f
}

// Application materialises the fixture as an application model.
func (f ReservationFixture) Application() application.Reservation {
	return application.Reservation{
		Start:     f.Start,
		End:       f.End,
		Priority:  f.Priority,
		Resources: application.Resources{Projector: f.Projector, Capacity: f.Capacity},
		Timezone:  f.Timezone,
		CreatedAt: f.CreatedAt,
	}
}

// Persistence materialises the fixture as a persistence model.
func (f ReservationFixture) Persistence() persistence.Reservation {
	return persistence.Reservation{
		Start:     f.Start,
		End:       f.End,
		Priority:  string(f.Priority),
		Projector: f.Projector,
		Capacity:  f.Capacity,
		Timezone:  f.Timezone,
		CreatedAt: f.CreatedAt,
	}
}
