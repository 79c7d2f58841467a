package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/example/room-reservations/internal/persistence"
)

const schema = `
CREATE TABLE IF NOT EXISTS reservations (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	start_time TEXT NOT NULL,
	end_time TEXT NOT NULL,
	priority TEXT NOT NULL,
	projector INTEGER NOT NULL,
	capacity INTEGER NOT NULL CHECK (capacity >= 1 AND capacity <= 8),
	timezone TEXT NOT NULL,
	created_at TEXT NOT NULL,
	CHECK (start_time < end_time)
);
CREATE INDEX IF NOT EXISTS idx_reservations_start_time ON reservations (start_time);
`

// executor abstracts *sql.DB and *sql.Tx so queries can run either directly
// or inside a transaction.
type executor interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// ReservationRepository implements persistence.ReservationRepository on SQLite.
//
// Timestamps are stored as RFC 3339 UTC text; because the format is fixed
// width with a trailing Z, lexicographic comparison in SQL matches
// chronological order.
type ReservationRepository struct {
	pool *ConnectionPool
}

// NewReservationRepository creates a repository backed by the given pool.
func NewReservationRepository(pool *ConnectionPool) *ReservationRepository {
	return &ReservationRepository{pool: pool}
}

// Migrate creates the reservations table if it does not exist yet.
func (r *ReservationRepository) Migrate(ctx context.Context) error {
	if _, err := r.pool.DB().ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply reservations schema: %w", err)
	}
	return nil
}

// InTransaction runs fn against a transaction-scoped store. The pool allows a
// single connection, so the collision-check/insert and find-slot/update pairs
// inside fn cannot interleave with another writer.
func (r *ReservationRepository) InTransaction(ctx context.Context, fn func(tx persistence.ReservationTx) error) error {
	return r.pool.WithTransaction(ctx, func(tx *sql.Tx) error {
		return fn(&txStore{exec: tx})
	})
}

// FindOverlapping returns stored reservations overlapping [start, end),
// ordered by start time.
func (r *ReservationRepository) FindOverlapping(ctx context.Context, start, end time.Time) ([]persistence.Reservation, error) {
	return findOverlapping(ctx, r.pool.DB(), start, end)
}

// ListReservations returns every reservation ordered by UTC start ascending.
func (r *ReservationRepository) ListReservations(ctx context.Context) ([]persistence.Reservation, error) {
	rows, err := r.pool.DB().QueryContext(ctx, `
		SELECT id, start_time, end_time, priority, projector, capacity, timezone, created_at
		FROM reservations
		ORDER BY start_time ASC, id ASC
	`)
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

// txStore is the transaction-scoped implementation of persistence.ReservationTx.
type txStore struct {
	exec executor
}

func (s *txStore) FindOverlapping(ctx context.Context, start, end time.Time) ([]persistence.Reservation, error) {
	return findOverlapping(ctx, s.exec, start, end)
}

func (s *txStore) GetReservation(ctx context.Context, id int64) (persistence.Reservation, error) {
	row := s.exec.QueryRowContext(ctx, `
		SELECT id, start_time, end_time, priority, projector, capacity, timezone, created_at
		FROM reservations
		WHERE id = ?
	`, id)

	reservation, err := scanReservation(row)
	if err != nil {
		return persistence.Reservation{}, MapError(err)
	}
	return reservation, nil
}

func (s *txStore) InsertReservation(ctx context.Context, reservation persistence.Reservation) (persistence.Reservation, error) {
	result, err := s.exec.ExecContext(ctx, `
		INSERT INTO reservations (start_time, end_time, priority, projector, capacity, timezone, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`,
		formatTime(reservation.Start),
		formatTime(reservation.End),
		reservation.Priority,
		boolToInt(reservation.Projector),
		reservation.Capacity,
		reservation.Timezone,
		formatTime(reservation.CreatedAt),
	)
	if err != nil {
		return persistence.Reservation{}, MapError(err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to read inserted id: %w", err)
	}

	reservation.ID = id
	return reservation, nil
}

func (s *txStore) UpdateReservationTimes(ctx context.Context, id int64, start, end time.Time) error {
	result, err := s.exec.ExecContext(ctx, `
		UPDATE reservations SET start_time = ?, end_time = ? WHERE id = ?
	`, formatTime(start), formatTime(end), id)
	if err != nil {
		return MapError(err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return persistence.ErrNotFound
	}

	return nil
}

func findOverlapping(ctx context.Context, exec executor, start, end time.Time) ([]persistence.Reservation, error) {
	// Overlap of half-open intervals: stored.start < end AND stored.end > start.
	rows, err := exec.QueryContext(ctx, `
		SELECT id, start_time, end_time, priority, projector, capacity, timezone, created_at
		FROM reservations
		WHERE start_time < ? AND end_time > ?
		ORDER BY start_time ASC, id ASC
	`, formatTime(end), formatTime(start))
	if err != nil {
		return nil, MapError(err)
	}
	defer rows.Close()

	return scanReservations(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReservation(row rowScanner) (persistence.Reservation, error) {
	var (
		reservation                            persistence.Reservation
		startStr, endStr, createdStr, priority string
		projector                              int
	)

	err := row.Scan(
		&reservation.ID,
		&startStr,
		&endStr,
		&priority,
		&projector,
		&reservation.Capacity,
		&reservation.Timezone,
		&createdStr,
	)
	if err != nil {
		return persistence.Reservation{}, err
	}

	reservation.Priority = priority
	reservation.Projector = projector != 0

	if reservation.Start, err = time.Parse(time.RFC3339, startStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse start_time: %w", err)
	}
	if reservation.End, err = time.Parse(time.RFC3339, endStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse end_time: %w", err)
	}
	if reservation.CreatedAt, err = time.Parse(time.RFC3339, createdStr); err != nil {
		return persistence.Reservation{}, fmt.Errorf("failed to parse created_at: %w", err)
	}

	return reservation, nil
}

func scanReservations(rows *sql.Rows) ([]persistence.Reservation, error) {
	var reservations []persistence.Reservation

	for rows.Next() {
		reservation, err := scanReservation(rows)
		if err != nil {
			return nil, MapError(err)
		}
		reservations = append(reservations, reservation)
	}

	if err := rows.Err(); err != nil {
		return nil, MapError(err)
	}

	return reservations, nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(time.RFC3339)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
