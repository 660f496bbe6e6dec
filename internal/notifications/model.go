package notifications

import (
	"time"

	"github.com/google/uuid"
)

// Type identifies the message a record covers. One record exists per
// (booking, client, type); its presence alone dedupes future sends.
type Type string

const (
	TypeConfirmation Type = "booking_confirmation"
	TypeReminder24h  Type = "booking_reminder_24h"
	TypeReminder2h   Type = "booking_reminder_2h"
	TypePreparation  Type = "preparation_instructions"
)

// Status tracks delivery of one notification record.
type Status string

const (
	StatusPending Status = "pending"
	StatusSent    Status = "sent"
	StatusFailed  Status = "failed"
	// StatusFailedMaxRetries is terminal; the retry queue gave up.
	StatusFailedMaxRetries Status = "failed_max_retries"
)

// Channel specifies how the notification is delivered.
type Channel string

const (
	ChannelSMS   Channel = "sms"
	ChannelEmail Channel = "email"
)

// Record is the persisted unit of notification work and the dedup key store.
type Record struct {
	ID        uuid.UUID `json:"id"`
	BookingID uuid.UUID `json:"booking_id"`
	ClientID  uuid.UUID `json:"client_id"`
	Type      Type      `json:"notification_type"`
	Status    Status    `json:"status"`
	Channel   Channel   `json:"channel"`
	Recipient string    `json:"recipient"`
	Body      string    `json:"body"`
	LastError string    `json:"last_error,omitempty"`

	// ScheduledFor is when the scan (or creation hook) derived the
	// notification as due.
	ScheduledFor time.Time  `json:"scheduled_for"`
	SentAt       *time.Time `json:"sent_at,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}
