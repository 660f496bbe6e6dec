package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"github.com/salonops/booking-engine/internal/notifications"
	"github.com/salonops/booking-engine/pkg/logging"
)

// NotificationReader lists a booking's notification history.
type NotificationReader interface {
	ListByBooking(ctx context.Context, bookingID uuid.UUID) ([]notifications.Record, error)
}

// NotificationHandler serves staff visibility into notification delivery.
type NotificationHandler struct {
	store  NotificationReader
	logger *logging.Logger
}

// NewNotificationHandler creates the notification endpoints.
func NewNotificationHandler(store NotificationReader, logger *logging.Logger) *NotificationHandler {
	if logger == nil {
		logger = logging.Default()
	}
	return &NotificationHandler{store: store, logger: logger}
}

// ListForBooking handles GET /bookings/{id}/notifications (staff only).
func (h *NotificationHandler) ListForBooking(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	records, err := h.store.ListByBooking(r.Context(), id)
	if err != nil {
		h.logger.Error("list notifications failed", "booking_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "internal error")
		return
	}
	if records == nil {
		records = []notifications.Record{}
	}
	writeJSON(w, http.StatusOK, records)
}
