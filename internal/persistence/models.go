package persistence

import "time"

// Reservation is a stored booking of the meeting room. Start and End are UTC
// instants; Timezone records the IANA zone the booking was requested in and is
// used only for presentation and re-anchoring after displacement.
type Reservation struct {
	ID        int64
	Start     time.Time
	End       time.Time
	Priority  string
	Projector bool
	Capacity  int
	Timezone  string
	CreatedAt time.Time
}
