package calendar

import (
	"context"
	"time"

	"github.com/salonops/booking-engine/pkg/logging"
)

// EventDetails describes a calendar event to mirror a booking.
type EventDetails struct {
	Summary     string
	Description string
	Start       time.Time
	End         time.Time
}

// Event is the provider's handle for a mirrored booking.
type Event struct {
	ID          string
	MeetingLink string
}

// Sync mirrors bookings into an external calendar. Every call is best-effort
// at the call site: failures are logged, never fatal to booking state.
type Sync interface {
	// Platform names the provider, recorded next to the event id.
	Platform() string
	CreateEvent(ctx context.Context, details EventDetails) (*Event, error)
	CancelEvent(ctx context.Context, eventID, reason string) error
	UpdateEvent(ctx context.Context, eventID string, details EventDetails) error
	// CheckAvailability probes the provider's view of a window. Advisory
	// only; the booking store stays authoritative for conflicts.
	CheckAvailability(ctx context.Context, start, end time.Time) (bool, error)
}

// Stub is a no-op sync used in tests and when no provider is configured.
// CreateEvent returns no event, so bookings stay unmirrored.
type Stub struct {
	logger *logging.Logger
}

// NewStub creates a stub calendar sync.
func NewStub(logger *logging.Logger) *Stub {
	if logger == nil {
		logger = logging.Default()
	}
	return &Stub{logger: logger}
}

func (s *Stub) Platform() string { return "stub" }

func (s *Stub) CreateEvent(ctx context.Context, details EventDetails) (*Event, error) {
	s.logger.Info("stub calendar: would create event", "summary", details.Summary, "start", details.Start)
	return nil, nil
}

func (s *Stub) CancelEvent(ctx context.Context, eventID, reason string) error {
	s.logger.Info("stub calendar: would cancel event", "event_id", eventID)
	return nil
}

func (s *Stub) UpdateEvent(ctx context.Context, eventID string, details EventDetails) error {
	s.logger.Info("stub calendar: would update event", "event_id", eventID)
	return nil
}

func (s *Stub) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	return true, nil
}

var _ Sync = (*Stub)(nil)
