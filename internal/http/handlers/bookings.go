package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/salonops/booking-engine/internal/bookings"
	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
	"github.com/salonops/booking-engine/pkg/logging"
)

// BookingService is the lifecycle surface the HTTP layer exposes.
type BookingService interface {
	Create(ctx context.Context, input bookings.CreateInput) (*bookings.Booking, error)
	Cancel(ctx context.Context, id uuid.UUID, reason string) error
	Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time) (*bookings.Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, target bookings.Status) error
	Lookup(ctx context.Context, confirmationCode string) (*bookings.Booking, error)
	OverrideFinalPrice(ctx context.Context, id uuid.UUID, finalPriceCents int64) error
}

// AvailabilityChecker answers slot queries.
type AvailabilityChecker interface {
	Check(ctx context.Context, start, end time.Time, exclude *uuid.UUID) (*bookings.Availability, error)
}

// BookingHandler serves the booking lifecycle endpoints.
type BookingHandler struct {
	service      BookingService
	availability AvailabilityChecker
	logger       *logging.Logger
}

// NewBookingHandler creates the booking endpoints.
func NewBookingHandler(service BookingService, availability AvailabilityChecker, logger *logging.Logger) *BookingHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &BookingHandler{service: service, availability: availability, logger: logger}
}

type createBookingRequest struct {
	ClientID    string `json:"client_id,omitempty"`
	ClientPhone string `json:"client_phone,omitempty"`
	ClientName  string `json:"client_name,omitempty"`
	ClientEmail string `json:"client_email,omitempty"`
	ServiceID   string `json:"service_id"`
	StartTime   string `json:"start_time"`
	Notes       string `json:"notes,omitempty"`
	ClientNotes string `json:"client_notes,omitempty"`
}

// Create handles POST /bookings.
func (h *BookingHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req createBookingRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	serviceID, err := uuid.Parse(req.ServiceID)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid service_id")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_time must be RFC3339")
		return
	}

	input := bookings.CreateInput{
		ClientPhone: req.ClientPhone,
		ClientName:  req.ClientName,
		ClientEmail: req.ClientEmail,
		ServiceID:   serviceID,
		StartTime:   start,
		Notes:       req.Notes,
		ClientNotes: req.ClientNotes,
	}
	if req.ClientID != "" {
		clientID, err := uuid.Parse(req.ClientID)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid client_id")
			return
		}
		input.ClientID = &clientID
	}

	booking, err := h.service.Create(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, booking)
}

type cancelRequest struct {
	Reason string `json:"reason,omitempty"`
}

// Cancel handles POST /bookings/{id}/cancel.
func (h *BookingHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req cancelRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	if err := h.service.Cancel(r.Context(), id, req.Reason); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "cancelled"})
}

type rescheduleRequest struct {
	StartTime string `json:"start_time"`
}

// Reschedule handles POST /bookings/{id}/reschedule.
func (h *BookingHandler) Reschedule(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req rescheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		writeError(w, http.StatusBadRequest, "start_time must be RFC3339")
		return
	}

	booking, err := h.service.Reschedule(r.Context(), id, start)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

type statusRequest struct {
	Status string `json:"status"`
}

// UpdateStatus handles PATCH /bookings/{id}/status (staff only).
func (h *BookingHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req statusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if err := h.service.UpdateStatus(r.Context(), id, bookings.Status(req.Status)); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": req.Status})
}

type priceOverrideRequest struct {
	FinalPriceCents int64 `json:"final_price_cents"`
}

// OverridePrice handles PATCH /bookings/{id}/price (staff only).
func (h *BookingHandler) OverridePrice(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var req priceOverrideRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.FinalPriceCents < 0 {
		writeError(w, http.StatusBadRequest, "final_price_cents must be non-negative")
		return
	}

	if err := h.service.OverrideFinalPrice(r.Context(), id, req.FinalPriceCents); err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"final_price_cents": req.FinalPriceCents})
}

// Lookup handles GET /bookings/lookup/{code}.
func (h *BookingHandler) Lookup(w http.ResponseWriter, r *http.Request) {
	code := chi.URLParam(r, "code")
	if code == "" {
		writeError(w, http.StatusBadRequest, "confirmation code required")
		return
	}
	booking, err := h.service.Lookup(r.Context(), code)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, booking)
}

// Availability handles GET /availability?start=...&end=...
func (h *BookingHandler) Availability(w http.ResponseWriter, r *http.Request) {
	start, err := time.Parse(time.RFC3339, r.URL.Query().Get("start"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "start must be RFC3339")
		return
	}
	end, err := time.Parse(time.RFC3339, r.URL.Query().Get("end"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "end must be RFC3339")
		return
	}

	avail, err := h.availability.Check(r.Context(), start, end, nil)
	if err != nil {
		h.writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, avail)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid booking id")
		return uuid.Nil, false
	}
	return id, true
}

func (h *BookingHandler) writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, bookings.ErrSlotUnavailable):
		writeError(w, http.StatusConflict, "requested slot is unavailable")
	case errors.Is(err, bookings.ErrBookingNotFound),
		errors.Is(err, clients.ErrClientNotFound),
		errors.Is(err, catalog.ErrServiceNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, bookings.ErrInvalidWindow),
		errors.Is(err, bookings.ErrPastStartTime),
		errors.Is(err, bookings.ErrInvalidStatus),
		errors.Is(err, bookings.ErrClientRequired):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, bookings.ErrTerminalStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	default:
		h.logger.Error("booking request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
