package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/example/room-reservations/internal/application"
)

// wallClockLayout renders timestamps the way callers submit them: local
// wall-clock time without a zone suffix.
const wallClockLayout = "2006-01-02T15:04:05"

type reservationService interface {
	CreateReservation(ctx context.Context, input application.ReservationInput) (application.ReservationView, error)
	ListReservations(ctx context.Context) ([]application.ReservationView, error)
	NextAvailable(ctx context.Context, startTime, timezone string) (application.Slot, error)
}

type ReservationHandler struct {
	service   reservationService
	responder responder
}

func NewReservationHandler(service reservationService, logger *slog.Logger) *ReservationHandler {
	return &ReservationHandler{service: service, responder: newResponder(logger)}
}

func (h *ReservationHandler) Create(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	var req reservationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.responder.writeError(r.Context(), w, http.StatusBadRequest, errBadRequestBody)
		return
	}

	view, err := h.service.CreateReservation(r.Context(), req.toInput())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	logger := handlerLogger(r.Context(), h.responder.logger, "reservations", "create")
	logger.InfoContext(r.Context(), "reservation created", "reservation_id", view.ID)

	h.responder.writeJSON(r.Context(), w, http.StatusCreated, reservationResponse{
		Reservation: toReservationDTO(view),
	})
}

func (h *ReservationHandler) List(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	views, err := h.service.ListReservations(r.Context())
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, listReservationsResponse{
		Reservations: toReservationDTOs(views),
	})
}

func (h *ReservationHandler) NextAvailable(w http.ResponseWriter, r *http.Request) {
	if h == nil || h.service == nil {
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	query := r.URL.Query()
	startTime := strings.TrimSpace(query.Get("start_time"))
	if startTime == "" {
		// Older clients send camelCase query parameters.
		startTime = strings.TrimSpace(query.Get("startTime"))
	}
	timezone := strings.TrimSpace(query.Get("timezone"))

	slot, err := h.service.NextAvailable(r.Context(), startTime, timezone)
	if err != nil {
		h.responder.handleServiceError(r.Context(), w, err)
		return
	}

	h.responder.writeJSON(r.Context(), w, http.StatusOK, nextAvailableResponse{
		NextAvailable: toSlotDTO(slot),
	})
}

type reservationRequest struct {
	StartTime string        `json:"start_time"`
	EndTime   string        `json:"end_time"`
	Priority  string        `json:"priority"`
	Resources *resourcesDTO `json:"resources"`
	Timezone  string        `json:"timezone"`
}

func (r reservationRequest) toInput() application.ReservationInput {
	input := application.ReservationInput{
		StartTime: strings.TrimSpace(r.StartTime),
		EndTime:   strings.TrimSpace(r.EndTime),
		Priority:  strings.TrimSpace(r.Priority),
		Timezone:  strings.TrimSpace(r.Timezone),
	}
	if r.Resources != nil {
		input.Resources = &application.ResourcesInput{
			Projector: r.Resources.Projector,
			Capacity:  r.Resources.Capacity,
		}
	}
	return input
}

type resourcesDTO struct {
	Projector *bool `json:"projector"`
	Capacity  *int  `json:"capacity"`
}

type reservationResponse struct {
	Reservation reservationDTO `json:"reservation"`
}

type listReservationsResponse struct {
	Reservations []reservationDTO `json:"reservations"`
}

type nextAvailableResponse struct {
	NextAvailable slotDTO `json:"next_available"`
}

type reservationDTO struct {
	ID           int64            `json:"id"`
	StartTime    string           `json:"start_time"`
	EndTime      string           `json:"end_time"`
	StartTimeUTC string           `json:"start_time_utc"`
	EndTimeUTC   string           `json:"end_time_utc"`
	Priority     string           `json:"priority"`
	Resources    resourcesOutDTO  `json:"resources"`
	Timezone     string           `json:"timezone"`
	CreatedAt    string           `json:"created_at"`
}

type resourcesOutDTO struct {
	Projector bool `json:"projector"`
	Capacity  int  `json:"capacity"`
}

func toReservationDTO(view application.ReservationView) reservationDTO {
	return reservationDTO{
		ID:           view.ID,
		StartTime:    view.LocalStart.Format(wallClockLayout),
		EndTime:      view.LocalEnd.Format(wallClockLayout),
		StartTimeUTC: view.Start.UTC().Format(time.RFC3339),
		EndTimeUTC:   view.End.UTC().Format(time.RFC3339),
		Priority:     string(view.Priority),
		Resources: resourcesOutDTO{
			Projector: view.Resources.Projector,
			Capacity:  view.Resources.Capacity,
		},
		Timezone:  view.Timezone,
		CreatedAt: view.CreatedAt.UTC().Format(time.RFC3339),
	}
}

func toReservationDTOs(views []application.ReservationView) []reservationDTO {
	if len(views) == 0 {
		return nil
	}
	out := make([]reservationDTO, 0, len(views))
	for _, view := range views {
		out = append(out, toReservationDTO(view))
	}
	return out
}

type slotDTO struct {
	StartTime    string `json:"start_time"`
	StartTimeUTC string `json:"start_time_utc"`
	Timezone     string `json:"timezone"`
}

func toSlotDTO(slot application.Slot) slotDTO {
	return slotDTO{
		StartTime:    slot.LocalStart.Format(wallClockLayout),
		StartTimeUTC: slot.StartUTC.UTC().Format(time.RFC3339),
		Timezone:     slot.Timezone,
	}
}

func toSlotDTOPtr(slot *application.Slot) *slotDTO {
	if slot == nil {
		return nil
	}
	dto := toSlotDTO(*slot)
	return &dto
}
