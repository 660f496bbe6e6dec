package notifications

import (
	"context"

	"github.com/salonops/booking-engine/internal/bookings"
	"github.com/salonops/booking-engine/internal/clients"
	"github.com/salonops/booking-engine/pkg/logging"
)

// CreationHook sends the booking confirmation through the same record and
// dispatch path the scan uses, so a crash between create and send still
// leaves at most one confirmation per booking.
type CreationHook struct {
	store      RecordStore
	dispatcher *Dispatcher
	services   ServiceSource
	salonName  string
	logger     *logging.Logger
}

// NewCreationHook builds the post-create confirmation hook.
func NewCreationHook(store RecordStore, dispatcher *Dispatcher, services ServiceSource, salonName string, logger *logging.Logger) *CreationHook {
	if logger == nil {
		logger = logging.Default()
	}
	return &CreationHook{
		store:      store,
		dispatcher: dispatcher,
		services:   services,
		salonName:  salonName,
		logger:     logger,
	}
}

var _ bookings.CreatedHook = (*CreationHook)(nil)

// BookingCreated enqueues the confirmation notification. Failures are logged
// only; the booking itself is already committed.
func (h *CreationHook) BookingCreated(ctx context.Context, b *bookings.Booking, c *clients.Client) {
	handled, err := h.store.Exists(ctx, b.ID, b.ClientID, TypeConfirmation)
	if err != nil {
		h.logger.Error("confirmation dedup check failed", "booking_id", b.ID, "error", err)
		return
	}
	if handled {
		return
	}

	in := MessageInput{
		ClientName:       firstName(c.Name),
		SalonName:        h.salonName,
		StartTime:        b.StartTime,
		ConfirmationCode: b.ConfirmationCode,
	}
	if svc, err := h.services.Get(ctx, b.ServiceID); err == nil {
		in.ServiceName = svc.Name
		in.ServiceCategory = svc.Category
	} else {
		in.ServiceName = "appointment"
	}

	channel, recipient := PickChannel(c)
	record := &Record{
		BookingID: b.ID,
		ClientID:  b.ClientID,
		Type:      TypeConfirmation,
		Channel:   channel,
		Recipient: recipient,
		Body:      BuildMessage(TypeConfirmation, in),
	}
	if err := h.dispatcher.Enqueue(ctx, record); err != nil {
		h.logger.Error("confirmation enqueue failed", "booking_id", b.ID, "error", err)
	}
}
