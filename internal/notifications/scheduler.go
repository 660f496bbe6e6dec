package notifications

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/salonops/booking-engine/internal/bookings"
	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
	"github.com/salonops/booking-engine/internal/messaging"
	"github.com/salonops/booking-engine/pkg/logging"
)

const (
	reminder24hLead = 24 * time.Hour
	reminder2hLead  = 2 * time.Hour
)

// BookingSource lists upcoming active bookings for the scan.
type BookingSource interface {
	ListStartingBetween(ctx context.Context, from, to time.Time) ([]bookings.Booking, error)
}

// ClientSource resolves booking clients to their contact details.
type ClientSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*clients.Client, error)
}

// ServiceSource resolves booking services for template context.
type ServiceSource interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}

// Scheduler derives due notifications from upcoming bookings. The persisted
// record store is the dedup authority: a scan may run any number of times, on
// any replica, and each (booking, type) still dispatches at most once.
type Scheduler struct {
	bookings   BookingSource
	clients    ClientSource
	services   ServiceSource
	store      RecordStore
	dispatcher *Dispatcher
	prep       map[string]bool
	salonName  string
	logger     *logging.Logger
}

// NewScheduler wires the scan. prepCategories names the service categories
// that get preparation instructions; everything else only gets reminders.
func NewScheduler(src BookingSource, clientSrc ClientSource, svcSrc ServiceSource, store RecordStore, dispatcher *Dispatcher, prepCategories []string, salonName string, logger *logging.Logger) *Scheduler {
	if logger == nil {
		logger = logging.Default()
	}
	prep := make(map[string]bool, len(prepCategories))
	for _, c := range prepCategories {
		prep[normalizeCategory(c)] = true
	}
	return &Scheduler{
		bookings:   src,
		clients:    clientSrc,
		services:   svcSrc,
		store:      store,
		dispatcher: dispatcher,
		prep:       prep,
		salonName:  salonName,
		logger:     logger,
	}
}

// Scan finds bookings starting within 24h and dispatches whichever
// notifications their lead time makes due: the 24h reminder (plus preparation
// instructions for allow-listed categories) in the (2h, 24h] band, the 2h
// reminder in the (0, 2h] band. Returns how many notifications went out.
func (s *Scheduler) Scan(ctx context.Context, now time.Time) (int, error) {
	upcoming, err := s.bookings.ListStartingBetween(ctx, now, now.Add(reminder24hLead))
	if err != nil {
		return 0, fmt.Errorf("notifications: scan: %w", err)
	}
	if len(upcoming) == 0 {
		return 0, nil
	}

	dispatched := 0
	for i := range upcoming {
		b := &upcoming[i]
		for _, typ := range s.dueTypes(ctx, b, now) {
			sent, err := s.dispatchOnce(ctx, b, typ, now)
			if err != nil {
				s.logger.Error("scan dispatch failed", "booking_id", b.ID, "type", string(typ), "error", err)
				continue
			}
			if sent {
				dispatched++
			}
		}
	}
	if dispatched > 0 {
		s.logger.Info("notification scan complete", "bookings", len(upcoming), "dispatched", dispatched)
	}
	return dispatched, nil
}

func (s *Scheduler) dueTypes(ctx context.Context, b *bookings.Booking, now time.Time) []Type {
	lead := b.StartTime.Sub(now)
	switch {
	case lead <= 0:
		return nil
	case lead <= reminder2hLead:
		return []Type{TypeReminder2h}
	default:
		types := []Type{TypeReminder24h}
		if svc, err := s.services.Get(ctx, b.ServiceID); err == nil && s.prep[normalizeCategory(svc.Category)] {
			types = append(types, TypePreparation)
		}
		return types
	}
}

// dispatchOnce checks the dedup store, then builds and enqueues the record.
// Reports whether a new notification was dispatched.
func (s *Scheduler) dispatchOnce(ctx context.Context, b *bookings.Booking, typ Type, now time.Time) (bool, error) {
	handled, err := s.store.Exists(ctx, b.ID, b.ClientID, typ)
	if err != nil {
		return false, err
	}
	if handled {
		return false, nil
	}

	client, err := s.clients.GetByID(ctx, b.ClientID)
	if err != nil {
		return false, err
	}
	in := MessageInput{
		ClientName:       firstName(client.Name),
		SalonName:        s.salonName,
		StartTime:        b.StartTime,
		ConfirmationCode: b.ConfirmationCode,
	}
	if svc, err := s.services.Get(ctx, b.ServiceID); err == nil {
		in.ServiceName = svc.Name
		in.ServiceCategory = svc.Category
	} else {
		in.ServiceName = "appointment"
	}

	channel, recipient := PickChannel(client)
	record := &Record{
		BookingID:    b.ID,
		ClientID:     b.ClientID,
		Type:         typ,
		Channel:      channel,
		Recipient:    recipient,
		Body:         BuildMessage(typ, in),
		ScheduledFor: now,
	}
	if err := s.dispatcher.Enqueue(ctx, record); err != nil {
		return false, err
	}
	return true, nil
}

// PickChannel chooses SMS for a dialable phone, email as the fallback. When
// neither exists the SMS channel is kept so the record fails terminally
// instead of being re-derived on every scan.
func PickChannel(c *clients.Client) (Channel, string) {
	if messaging.ValidPhone(c.Phone) {
		return ChannelSMS, messaging.NormalizeE164(c.Phone)
	}
	if c.Email != "" {
		return ChannelEmail, c.Email
	}
	return ChannelSMS, c.Phone
}

func firstName(full string) string {
	full = strings.TrimSpace(full)
	if i := strings.IndexByte(full, ' '); i > 0 {
		return full[:i]
	}
	return full
}
