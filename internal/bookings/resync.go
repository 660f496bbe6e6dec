package bookings

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/salonops/booking-engine/internal/calendar"
	"github.com/salonops/booking-engine/pkg/logging"
)

// resyncBatch caps how many unmirrored bookings one pass picks up.
const resyncBatch = 25

// ResyncStore is the store surface the calendar resync pass needs.
type ResyncStore interface {
	ListConfirmedWithoutCalendarEvent(ctx context.Context, limit int) ([]Booking, error)
	SetCalendarEvent(ctx context.Context, id uuid.UUID, eventID, platform string) error
}

// Resyncer retries the calendar mirror for confirmed bookings whose create-time
// mirror failed. It runs periodically; each pass is independent and a failure
// on one booking does not stop the rest.
type Resyncer struct {
	store   ResyncStore
	catalog ServiceResolver
	cal     calendar.Sync
	logger  *logging.Logger
}

// NewResyncer creates the resync pass.
func NewResyncer(store ResyncStore, resolver ServiceResolver, cal calendar.Sync, logger *logging.Logger) *Resyncer {
	if logger == nil {
		logger = logging.Default()
	}
	return &Resyncer{store: store, catalog: resolver, cal: cal, logger: logger}
}

// Run mirrors one batch of unmirrored bookings and returns how many succeeded.
func (r *Resyncer) Run(ctx context.Context) (int, error) {
	if r.cal == nil {
		return 0, nil
	}
	pending, err := r.store.ListConfirmedWithoutCalendarEvent(ctx, resyncBatch)
	if err != nil {
		return 0, fmt.Errorf("bookings: resync list: %w", err)
	}

	synced := 0
	for i := range pending {
		b := &pending[i]
		summary := b.BookingNumber
		if svc, err := r.catalog.Get(ctx, b.ServiceID); err == nil {
			summary = fmt.Sprintf("%s - %s", b.BookingNumber, svc.Name)
		}

		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		event, err := r.cal.CreateEvent(callCtx, calendar.EventDetails{
			Summary: summary,
			Start:   b.StartTime,
			End:     b.EndTime,
		})
		cancel()
		if err != nil {
			r.logger.Warn("calendar resync failed", "booking_id", b.ID, "error", err)
			continue
		}
		if event == nil || event.ID == "" {
			continue
		}
		if err := r.store.SetCalendarEvent(ctx, b.ID, event.ID, r.cal.Platform()); err != nil {
			r.logger.Warn("calendar resync record failed", "booking_id", b.ID, "error", err)
			continue
		}
		synced++
	}
	if synced > 0 {
		r.logger.Info("calendar resync pass complete", "synced", synced, "pending", len(pending))
	}
	return synced, nil
}
