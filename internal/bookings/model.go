package bookings

import (
	"time"

	"github.com/google/uuid"
)

// Status tracks the lifecycle of a booking.
type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
	StatusNoShow    Status = "no_show"
)

// ValidStatus reports whether s is one of the five enumerated statuses.
func ValidStatus(s Status) bool {
	switch s {
	case StatusPending, StatusConfirmed, StatusCancelled, StatusCompleted, StatusNoShow:
		return true
	}
	return false
}

// Terminal reports whether no further transition is permitted from s.
func (s Status) Terminal() bool {
	return s == StatusCancelled || s == StatusCompleted || s == StatusNoShow
}

// Active reports whether a booking in this status occupies its window.
func (s Status) Active() bool {
	return s == StatusPending || s == StatusConfirmed
}

// ActiveStatuses are the statuses that participate in conflict checks.
var ActiveStatuses = []string{string(StatusPending), string(StatusConfirmed)}

// Booking occupies the half-open window [StartTime, EndTime).
type Booking struct {
	ID               uuid.UUID `json:"id"`
	BookingNumber    string    `json:"booking_number"`
	ConfirmationCode string    `json:"confirmation_code"`
	ClientID         uuid.UUID `json:"client_id"`
	ServiceID        uuid.UUID `json:"service_id"`
	StartTime        time.Time `json:"start_time"`
	EndTime          time.Time `json:"end_time"`
	Status           Status    `json:"status"`

	// Price snapshot taken at creation. Later catalog price changes never
	// touch these; only OverrideFinalPrice may.
	OriginalPriceCents int64  `json:"original_price_cents"`
	FinalPriceCents    int64  `json:"final_price_cents"`
	Currency           string `json:"currency"`

	// Set once the external calendar twin exists. Absence never blocks the
	// booking itself.
	CalendarEventID  string `json:"calendar_event_id,omitempty"`
	CalendarPlatform string `json:"calendar_platform,omitempty"`

	Notes              string `json:"notes,omitempty"`
	ClientNotes        string `json:"client_notes,omitempty"`
	StaffNotes         string `json:"staff_notes,omitempty"`
	CancellationReason string `json:"cancellation_reason,omitempty"`

	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CancelledAt *time.Time `json:"cancelled_at,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Availability is the result of a conflict check over a proposed window.
type Availability struct {
	Available bool `json:"available"`
	Conflicts int  `json:"conflicts"`
}
