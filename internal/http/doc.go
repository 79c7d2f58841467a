// Package http provides HTTP handlers and middleware for the reservation API.
//
// The router exposes the following endpoints:
//   - GET /: liveness banner for quick manual checks.
//   - POST /api/reservations: creates a reservation from the `reservationRequest`
//     payload defined in reservation_handler.go. Responds 201 with the stored
//     booking, 400 on validation failures, or 409 when the slot is taken by a
//     reservation the candidate cannot displace; conflict responses carry the
//     next free slot when one exists inside the search horizon.
//   - GET /api/reservations: lists every booking ordered by start time, with
//     wall-clock times rendered in each booking's own timezone.
//   - GET /api/next-available?start_time=...&timezone=...: reports the earliest
//     free slot at or after the given wall-clock floor, or 404 when the search
//     horizon is fully booked.
//
// Request/response DTOs live alongside their handler so tests and
// documentation share the same ground truth.
package http
