package http

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/example/room-reservations/internal/application"
	"github.com/example/room-reservations/internal/scheduler"
)

type reservationServiceStub struct {
	view    application.ReservationView
	views   []application.ReservationView
	slot    application.Slot
	err     error
	gotInput application.ReservationInput
	gotStart string
	gotZone  string
}

func (s *reservationServiceStub) CreateReservation(ctx context.Context, input application.ReservationInput) (application.ReservationView, error) {
	s.gotInput = input
	if s.err != nil {
		return application.ReservationView{}, s.err
	}
	return s.view, nil
}

func (s *reservationServiceStub) ListReservations(ctx context.Context) ([]application.ReservationView, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.views, nil
}

func (s *reservationServiceStub) NextAvailable(ctx context.Context, startTime, timezone string) (application.Slot, error) {
	s.gotStart = startTime
	s.gotZone = timezone
	if s.err != nil {
		return application.Slot{}, s.err
	}
	return s.slot, nil
}

func sampleView(t *testing.T) application.ReservationView {
	t.Helper()

	tokyo, err := time.LoadLocation("Asia/Tokyo")
	require.NoError(t, err)

	start := time.Date(2024, time.March, 4, 10, 0, 0, 0, time.UTC)
	return application.ReservationView{
		Reservation: application.Reservation{
			ID:        1,
			Start:     start,
			End:       start.Add(time.Hour),
			Priority:  scheduler.PriorityNormal,
			Resources: application.Resources{Projector: true, Capacity: 4},
			Timezone:  "Asia/Tokyo",
			CreatedAt: time.Date(2024, time.March, 1, 8, 0, 0, 0, time.UTC),
		},
		LocalStart: start.In(tokyo),
		LocalEnd:   start.Add(time.Hour).In(tokyo),
	}
}

func createBody(t *testing.T) *bytes.Buffer {
	t.Helper()
	return bytes.NewBufferString(`{
		"start_time": "2024-03-04T19:00:00",
		"end_time": "2024-03-04T20:00:00",
		"priority": "normal",
		"resources": {"projector": true, "capacity": 4},
		"timezone": "Asia/Tokyo"
	}`)
}

func TestReservationHandler_CreateReturnsStoredBooking(t *testing.T) {
	t.Parallel()

	service := &reservationServiceStub{view: sampleView(t)}
	handler := NewReservationHandler(service, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", createBody(t))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusCreated, rec.Code)

	var resp reservationResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))

	assert.Equal(t, int64(1), resp.Reservation.ID)
	assert.Equal(t, "2024-03-04T19:00:00", resp.Reservation.StartTime)
	assert.Equal(t, "2024-03-04T10:00:00Z", resp.Reservation.StartTimeUTC)
	assert.Equal(t, "normal", resp.Reservation.Priority)
	assert.True(t, resp.Reservation.Resources.Projector)
	assert.Equal(t, 4, resp.Reservation.Resources.Capacity)
	assert.Equal(t, "Asia/Tokyo", resp.Reservation.Timezone)

	require.NotNil(t, service.gotInput.Resources)
	require.NotNil(t, service.gotInput.Resources.Capacity)
	assert.Equal(t, 4, *service.gotInput.Resources.Capacity)
}

func TestReservationHandler_CreateRejectsMalformedBody(t *testing.T) {
	t.Parallel()

	handler := NewReservationHandler(&reservationServiceStub{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestReservationHandler_CreateMapsValidationErrors(t *testing.T) {
	t.Parallel()

	vErr := &application.ValidationError{FieldErrors: map[string]string{"timezone": "timezone is not allowed"}}
	handler := NewReservationHandler(&reservationServiceStub{err: vErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", createBody(t))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusBadRequest, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "timezone is not allowed", resp.Errors["timezone"])
}

func TestReservationHandler_CreateMapsConflictWithSuggestion(t *testing.T) {
	t.Parallel()

	slotStart := time.Date(2024, time.March, 4, 11, 0, 0, 0, time.UTC)
	cErr := &application.ConflictError{
		ConflictingID: 7,
		NextAvailable: &application.Slot{
			StartUTC:   slotStart,
			LocalStart: slotStart.Add(9 * time.Hour),
			Timezone:   "Asia/Tokyo",
		},
	}
	handler := NewReservationHandler(&reservationServiceStub{err: cErr}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", createBody(t))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)

	var resp errorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "RESERVATION_CONFLICT", resp.ErrorCode)
	assert.Equal(t, int64(7), resp.ConflictingID)
	require.NotNil(t, resp.NextAvailable)
	assert.Equal(t, "2024-03-04T11:00:00Z", resp.NextAvailable.StartTimeUTC)
}

func TestReservationHandler_ConflictWithoutSuggestionOmitsSlot(t *testing.T) {
	t.Parallel()

	handler := NewReservationHandler(&reservationServiceStub{err: &application.ConflictError{ConflictingID: 3}}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/reservations", createBody(t))
	rec := httptest.NewRecorder()

	handler.Create(rec, req)

	require.Equal(t, http.StatusConflict, rec.Code)
	assert.NotContains(t, rec.Body.String(), "next_available")
}

func TestReservationHandler_ListRendersLocalAndUTC(t *testing.T) {
	t.Parallel()

	service := &reservationServiceStub{views: []application.ReservationView{sampleView(t)}}
	handler := NewReservationHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	rec := httptest.NewRecorder()

	handler.List(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp listReservationsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	require.Len(t, resp.Reservations, 1)
	assert.Equal(t, "2024-03-04T19:00:00", resp.Reservations[0].StartTime)
	assert.Equal(t, "2024-03-04T10:00:00Z", resp.Reservations[0].StartTimeUTC)
}

func TestReservationHandler_NextAvailablePassesQueryParams(t *testing.T) {
	t.Parallel()

	slotStart := time.Date(2024, time.March, 4, 12, 0, 0, 0, time.UTC)
	service := &reservationServiceStub{slot: application.Slot{
		StartUTC:   slotStart,
		LocalStart: slotStart.Add(-5 * time.Hour),
		Timezone:   "America/New_York",
	}}
	handler := NewReservationHandler(service, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/next-available?start_time=2024-03-04T06:00:00&timezone=America/New_York", nil)
	rec := httptest.NewRecorder()

	handler.NextAvailable(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "2024-03-04T06:00:00", service.gotStart)
	assert.Equal(t, "America/New_York", service.gotZone)

	var resp nextAvailableResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.Equal(t, "2024-03-04T12:00:00Z", resp.NextAvailable.StartTimeUTC)
	assert.Equal(t, "America/New_York", resp.NextAvailable.Timezone)
}

func TestReservationHandler_NextAvailableMapsExhaustionTo404(t *testing.T) {
	t.Parallel()

	handler := NewReservationHandler(&reservationServiceStub{err: application.ErrNoSlotAvailable}, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/next-available?start_time=2024-03-04T06:00:00&timezone=Asia/Tokyo", nil)
	rec := httptest.NewRecorder()

	handler.NextAvailable(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRouter_ServesBannerAndRoutes(t *testing.T) {
	t.Parallel()

	service := &reservationServiceStub{views: nil}
	router := NewRouter(RouterConfig{
		Reservations:   NewReservationHandler(service, nil),
		AllowedOrigins: []string{"http://localhost:3000"},
	})

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "running")

	req = httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)

	req = httptest.NewRequest(http.MethodDelete, "/api/reservations", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}
