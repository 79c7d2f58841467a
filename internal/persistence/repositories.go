package persistence

import (
	"context"
	"time"
)

// ReservationTx is the transaction-scoped view of the reservation store. The
// collision-check-then-insert and find-slot-then-update sequences both run
// against a single ReservationTx so no other writer can interleave.
type ReservationTx interface {
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	InsertReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	UpdateReservationTimes(ctx context.Context, id int64, start, end time.Time) error
}

// ReservationRepository exposes the operations the reservation engine needs
// from the interval store.
type ReservationRepository interface {
	InTransaction(ctx context.Context, fn func(tx ReservationTx) error) error
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
}
