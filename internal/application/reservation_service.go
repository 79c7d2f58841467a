package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/example/room-reservations/internal/persistence"
	"github.com/example/room-reservations/internal/scheduler"
)

// The room itself caps attendance regardless of configuration.
const maxCapacity = 8

// ReservationTx is the transaction-scoped slice of the interval store the
// create path works against.
type ReservationTx interface {
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Reservation, error)
	GetReservation(ctx context.Context, id int64) (Reservation, error)
	InsertReservation(ctx context.Context, reservation Reservation) (Reservation, error)
	UpdateReservationTimes(ctx context.Context, id int64, start, end time.Time) error
}

// ReservationStore captures the persistence interactions needed by the
// service. Every mutating flow goes through InTransaction so that the
// collision check, an eventual displacement and the insert commit or fail as
// one unit.
type ReservationStore interface {
	InTransaction(ctx context.Context, fn func(tx ReservationTx) error) error
	FindOverlapping(ctx context.Context, start, end time.Time) ([]Reservation, error)
	ListReservations(ctx context.Context) ([]Reservation, error)
}

// ReservationService orchestrates validation, collision resolution and
// persistence for the single shared meeting room.
type ReservationService struct {
	store    ReservationStore
	zones    scheduler.Zones
	calendar scheduler.BusinessCalendar
	finder   scheduler.SlotFinder
	now      func() time.Time
	logger   *slog.Logger
}

// NewReservationService wires dependencies for reservation operations.
func NewReservationService(store ReservationStore, zones scheduler.Zones, calendar scheduler.BusinessCalendar, finder scheduler.SlotFinder, now func() time.Time) *ReservationService {
	if now == nil {
		now = time.Now
	}
	return &ReservationService{
		store:    store,
		zones:    zones,
		calendar: calendar,
		finder:   finder,
		now:      now,
	}
}

// NewReservationServiceWithLogger wires dependencies together with a base
// logger used when the context carries none.
func NewReservationServiceWithLogger(store ReservationStore, zones scheduler.Zones, calendar scheduler.BusinessCalendar, finder scheduler.SlotFinder, now func() time.Time, logger *slog.Logger) *ReservationService {
	svc := NewReservationService(store, zones, calendar, finder, now)
	svc.logger = defaultLogger(logger)
	return svc
}

// CreateReservation validates the candidate, resolves collisions by priority
// and persists the result. A conflict the candidate cannot displace is
// returned as a *ConflictError carrying a suggested alternative slot.
func (s *ReservationService) CreateReservation(ctx context.Context, input ReservationInput) (ReservationView, error) {
	if s == nil {
		return ReservationView{}, fmt.Errorf("ReservationService is nil")
	}
	logger := serviceLogger(ctx, s.logger, "reservations", "create")

	priority, start, end, vErr := s.validateInput(input)
	if vErr.HasErrors() {
		logger.InfoContext(ctx, "reservation rejected", "error_kind", "validation")
		return ReservationView{}, vErr
	}

	if s.store == nil {
		return ReservationView{}, fmt.Errorf("reservation store not configured")
	}

	candidate := Reservation{
		Start:    start,
		End:      end,
		Priority: priority,
		Resources: Resources{
			Projector: *input.Resources.Projector,
			Capacity:  *input.Resources.Capacity,
		},
		Timezone:  input.Timezone,
		CreatedAt: s.now().UTC(),
	}

	var persisted Reservation
	err := s.store.InTransaction(ctx, func(tx ReservationTx) error {
		collision, err := s.detectCollision(ctx, tx, candidate)
		if err != nil {
			return err
		}

		if collision != nil {
			if !collision.canDisplace {
				suggestion, serr := s.suggestSlot(ctx, txOverlapSource{tx: tx}, candidate.Start, candidate.Timezone)
				if serr != nil {
					return serr
				}
				return &ConflictError{ConflictingID: collision.id, NextAvailable: suggestion}
			}
			if err := s.displace(ctx, tx, collision.id); err != nil {
				return err
			}
		}

		persisted, err = tx.InsertReservation(ctx, candidate)
		if err != nil {
			return mapStoreError(err)
		}
		return nil
	})
	if err != nil {
		logger.InfoContext(ctx, "reservation rejected", "error_kind", ErrorKind(err))
		return ReservationView{}, err
	}

	logger.InfoContext(ctx, "reservation created", "reservation_id", persisted.ID)
	return s.toView(persisted)
}

// ListReservations returns every booking ordered by UTC start, annotated with
// wall-clock times in each booking's own zone.
func (s *ReservationService) ListReservations(ctx context.Context) ([]ReservationView, error) {
	if s == nil || s.store == nil {
		return nil, fmt.Errorf("reservation store not configured")
	}

	reservations, err := s.store.ListReservations(ctx)
	if err != nil {
		return nil, mapStoreError(err)
	}

	views := make([]ReservationView, 0, len(reservations))
	for _, reservation := range reservations {
		view, err := s.toView(reservation)
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}
	return views, nil
}

// NextAvailable finds the earliest free, rule-compliant slot at or after the
// given wall-clock floor. It never mutates the store. Horizon exhaustion is
// reported as ErrNoSlotAvailable.
func (s *ReservationService) NextAvailable(ctx context.Context, startTime, timezone string) (Slot, error) {
	if s == nil || s.store == nil {
		return Slot{}, fmt.Errorf("reservation store not configured")
	}

	vErr := &ValidationError{}
	if startTime == "" {
		vErr.add("start_time", "start time is required")
	}
	if !s.zones.Contains(timezone) {
		vErr.add("timezone", "timezone is not allowed")
	}
	if vErr.HasErrors() {
		return Slot{}, vErr
	}

	from, err := scheduler.ToUTC(startTime, timezone)
	if err != nil {
		vErr.add("start_time", "not a valid wall-clock time")
		return Slot{}, vErr
	}

	slotStart, found, err := s.finder.FindNext(ctx, storeOverlapSource{store: s.store}, from)
	if err != nil {
		return Slot{}, mapStoreError(err)
	}
	if !found {
		return Slot{}, ErrNoSlotAvailable
	}

	local, err := scheduler.FromUTC(slotStart, timezone)
	if err != nil {
		return Slot{}, err
	}
	return Slot{StartUTC: slotStart, LocalStart: local, Timezone: timezone}, nil
}

func (s *ReservationService) validateInput(input ReservationInput) (scheduler.Priority, time.Time, time.Time, *ValidationError) {
	vErr := &ValidationError{}

	if !s.zones.Contains(input.Timezone) {
		vErr.add("timezone", "timezone is not allowed")
	}

	priority, ok := scheduler.ParsePriority(input.Priority)
	if !ok {
		vErr.add("priority", "priority must be normal or high")
	}

	switch {
	case input.Resources == nil:
		vErr.add("resources", "resources are required")
	case input.Resources.Projector == nil:
		vErr.add("resources", "projector flag is required")
	case input.Resources.Capacity == nil:
		vErr.add("resources", "capacity is required")
	case *input.Resources.Capacity < 1 || *input.Resources.Capacity > maxCapacity:
		vErr.add("capacity", fmt.Sprintf("capacity must be between 1 and %d", maxCapacity))
	}

	if vErr.HasErrors() {
		return priority, time.Time{}, time.Time{}, vErr
	}

	start, err := scheduler.ToUTC(input.StartTime, input.Timezone)
	if err != nil {
		vErr.add("start_time", "not a valid wall-clock time")
	}
	end, err := scheduler.ToUTC(input.EndTime, input.Timezone)
	if err != nil {
		vErr.add("end_time", "not a valid wall-clock time")
	}
	if vErr.HasErrors() {
		return priority, start, end, vErr
	}

	if !s.calendar.IsBusinessDay(start) {
		vErr.add("start_time", "reservations are limited to business days")
	}
	if !s.calendar.WithinBusinessHours(start, end) {
		vErr.add("time", fmt.Sprintf("reservations must fall between %02d:00 and %02d:00 UTC", s.calendar.StartHour, s.calendar.EndHour))
	}
	if !s.calendar.ValidDuration(start, end) {
		vErr.add("duration", fmt.Sprintf("duration must be between %d and %d minutes",
			int(s.calendar.MinDuration/time.Minute), int(s.calendar.MaxDuration/time.Minute)))
	}

	return priority, start, end, vErr
}

// collision describes the one stored reservation the detector reports.
type collision struct {
	id          int64
	canDisplace bool
	timezone    string
}

// detectCollision returns the first stored reservation overlapping the
// candidate, or nil. Only a single conflict is ever reported even when
// several reservations overlap the candidate; the walk stops at the first row
// the store returns. Projector contention and plain temporal overlap resolve
// identically, so one priority comparison decides displacement.
func (s *ReservationService) detectCollision(ctx context.Context, tx ReservationTx, candidate Reservation) (*collision, error) {
	overlapping, err := tx.FindOverlapping(ctx, candidate.Start, candidate.End)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if len(overlapping) == 0 {
		return nil, nil
	}

	first := overlapping[0]
	return &collision{
		id:          first.ID,
		canDisplace: scheduler.CanDisplace(candidate.Priority, first.Priority),
		timezone:    first.Timezone,
	}, nil
}

// displace relocates the losing reservation to the earliest free slot after
// its current end, rewriting only its start and end. It runs inside the same
// transaction as the create that triggered it, so a failed relocation aborts
// the whole operation.
func (s *ReservationService) displace(ctx context.Context, tx ReservationTx, id int64) error {
	target, err := tx.GetReservation(ctx, id)
	if err != nil {
		return mapStoreError(err)
	}

	duration := target.End.Sub(target.Start)

	slotStart, found, err := s.finder.FindNext(ctx, txOverlapSource{tx: tx}, target.End)
	if err != nil {
		return mapStoreError(err)
	}
	if !found {
		return fmt.Errorf("relocating reservation %d: %w", id, ErrNoSlotAvailable)
	}

	if err := tx.UpdateReservationTimes(ctx, id, slotStart, slotStart.Add(duration)); err != nil {
		return mapStoreError(err)
	}

	logger := serviceLogger(ctx, s.logger, "reservations", "displace")
	logger.InfoContext(ctx, "reservation displaced", "reservation_id", id, "new_start", slotStart)
	return nil
}

func (s *ReservationService) suggestSlot(ctx context.Context, source scheduler.OverlapSource, from time.Time, timezone string) (*Slot, error) {
	slotStart, found, err := s.finder.FindNext(ctx, source, from)
	if err != nil {
		return nil, mapStoreError(err)
	}
	if !found {
		return nil, nil
	}

	local, err := scheduler.FromUTC(slotStart, timezone)
	if err != nil {
		return nil, err
	}
	return &Slot{StartUTC: slotStart, LocalStart: local, Timezone: timezone}, nil
}

func (s *ReservationService) toView(reservation Reservation) (ReservationView, error) {
	localStart, err := scheduler.FromUTC(reservation.Start, reservation.Timezone)
	if err != nil {
		return ReservationView{}, err
	}
	localEnd, err := scheduler.FromUTC(reservation.End, reservation.Timezone)
	if err != nil {
		return ReservationView{}, err
	}
	return ReservationView{Reservation: reservation, LocalStart: localStart, LocalEnd: localEnd}, nil
}

// txOverlapSource exposes a transaction as the slot finder's overlap query.
type txOverlapSource struct {
	tx ReservationTx
}

func (a txOverlapSource) FindOverlapping(ctx context.Context, start, end time.Time) ([]scheduler.Interval, error) {
	reservations, err := a.tx.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toIntervals(reservations), nil
}

// storeOverlapSource serves the read-only next-available query outside any
// transaction.
type storeOverlapSource struct {
	store ReservationStore
}

func (a storeOverlapSource) FindOverlapping(ctx context.Context, start, end time.Time) ([]scheduler.Interval, error) {
	reservations, err := a.store.FindOverlapping(ctx, start, end)
	if err != nil {
		return nil, err
	}
	return toIntervals(reservations), nil
}

func toIntervals(reservations []Reservation) []scheduler.Interval {
	if len(reservations) == 0 {
		return nil
	}
	intervals := make([]scheduler.Interval, 0, len(reservations))
	for _, reservation := range reservations {
		intervals = append(intervals, reservation.Interval())
	}
	return intervals
}

func mapStoreError(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, persistence.ErrNotFound) {
		return ErrNotFound
	}
	if errors.Is(err, persistence.ErrConstraintViolation) {
		vErr := &ValidationError{}
		vErr.add("reservation", "reservation violates a storage constraint")
		return vErr
	}
	return err
}
