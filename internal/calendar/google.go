package calendar

import (
	"context"
	"fmt"
	"time"

	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/salonops/booking-engine/pkg/logging"
)

// GoogleSync mirrors bookings into a Google Calendar. Construction requires a
// service account credentials file and a target calendar id.
type GoogleSync struct {
	svc        *gcal.Service
	calendarID string
	timeout    time.Duration
	logger     *logging.Logger
}

// GoogleConfig configures the Google Calendar adapter.
type GoogleConfig struct {
	CredentialsFile string
	CalendarID      string
	// Timeout bounds each API call. Zero means 15s.
	Timeout time.Duration
}

// NewGoogleSync builds the adapter, validating credentials up front so a
// misconfigured deployment fails at startup rather than on the first booking.
func NewGoogleSync(ctx context.Context, cfg GoogleConfig, logger *logging.Logger) (*GoogleSync, error) {
	if cfg.CalendarID == "" {
		return nil, fmt.Errorf("calendar: google calendar id required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	svc, err := gcal.NewService(ctx,
		option.WithCredentialsFile(cfg.CredentialsFile),
		option.WithScopes(gcal.CalendarEventsScope, gcal.CalendarReadonlyScope),
	)
	if err != nil {
		return nil, fmt.Errorf("calendar: init google client: %w", err)
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	return &GoogleSync{svc: svc, calendarID: cfg.CalendarID, timeout: timeout, logger: logger}, nil
}

func (g *GoogleSync) Platform() string { return "google" }

// CreateEvent inserts the booking's event and returns its id and meeting link.
func (g *GoogleSync) CreateEvent(ctx context.Context, details EventDetails) (*Event, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	created, err := g.svc.Events.Insert(g.calendarID, toGoogleEvent(details)).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("calendar: create event: %w", err)
	}
	g.logger.Info("calendar event created", "event_id", created.Id, "summary", details.Summary)
	return &Event{ID: created.Id, MeetingLink: created.HangoutLink}, nil
}

// CancelEvent deletes the event. A reason is appended to the description first
// so the audit trail survives in the provider's trash.
func (g *GoogleSync) CancelEvent(ctx context.Context, eventID, reason string) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if reason != "" {
		patch := &gcal.Event{Description: "Cancelled: " + reason}
		if _, err := g.svc.Events.Patch(g.calendarID, eventID, patch).Context(ctx).Do(); err != nil {
			g.logger.Warn("calendar cancel note failed", "event_id", eventID, "error", err)
		}
	}
	if err := g.svc.Events.Delete(g.calendarID, eventID).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: cancel event: %w", err)
	}
	return nil
}

// UpdateEvent rewrites the event's window and summary.
func (g *GoogleSync) UpdateEvent(ctx context.Context, eventID string, details EventDetails) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	if _, err := g.svc.Events.Update(g.calendarID, eventID, toGoogleEvent(details)).Context(ctx).Do(); err != nil {
		return fmt.Errorf("calendar: update event: %w", err)
	}
	return nil
}

// CheckAvailability asks the provider whether the window is free of busy
// blocks.
func (g *GoogleSync) CheckAvailability(ctx context.Context, start, end time.Time) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	resp, err := g.svc.Freebusy.Query(&gcal.FreeBusyRequest{
		TimeMin: start.Format(time.RFC3339),
		TimeMax: end.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: g.calendarID}},
	}).Context(ctx).Do()
	if err != nil {
		return false, fmt.Errorf("calendar: freebusy query: %w", err)
	}
	cal, ok := resp.Calendars[g.calendarID]
	if !ok {
		return true, nil
	}
	return len(cal.Busy) == 0, nil
}

func toGoogleEvent(details EventDetails) *gcal.Event {
	return &gcal.Event{
		Summary:     details.Summary,
		Description: details.Description,
		Start:       &gcal.EventDateTime{DateTime: details.Start.Format(time.RFC3339)},
		End:         &gcal.EventDateTime{DateTime: details.End.Format(time.RFC3339)},
	}
}

var _ Sync = (*GoogleSync)(nil)
