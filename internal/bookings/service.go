package bookings

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"

	"github.com/salonops/booking-engine/internal/calendar"
	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
	"github.com/salonops/booking-engine/internal/timeutil"
	"github.com/salonops/booking-engine/pkg/logging"
)

var tracer = otel.Tracer("bookingengine.internal.bookings")

// createAttempts bounds regeneration when a booking number or confirmation
// code collides with an existing row.
const createAttempts = 3

// collaboratorTimeout bounds every external calendar call.
const collaboratorTimeout = 30 * time.Second

// BookingStore is the persistence surface the lifecycle manager drives.
type BookingStore interface {
	Create(ctx context.Context, b *Booking) error
	GetByID(ctx context.Context, id uuid.UUID) (*Booking, error)
	GetByConfirmationCode(ctx context.Context, code string) (*Booking, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, expected []Status, target Status, reason string) error
	Reschedule(ctx context.Context, id uuid.UUID, start, end time.Time) error
	SetCalendarEvent(ctx context.Context, id uuid.UUID, eventID, platform string) error
	OverrideFinalPrice(ctx context.Context, id uuid.UUID, finalPriceCents int64) error
}

// ClientDirectory resolves and (when needed) creates clients in master data.
type ClientDirectory interface {
	FindByPhone(ctx context.Context, phone string) (*clients.Client, error)
	GetByID(ctx context.Context, id uuid.UUID) (*clients.Client, error)
	Create(ctx context.Context, name, phone, email string) (*clients.Client, error)
}

// ServiceResolver looks up the bookable service a request names.
type ServiceResolver interface {
	Get(ctx context.Context, id uuid.UUID) (*catalog.Service, error)
}

// CreatedHook runs after a booking is persisted; the notification layer uses
// it to enqueue the confirmation message. Failures there never affect the
// booking.
type CreatedHook interface {
	BookingCreated(ctx context.Context, b *Booking, c *clients.Client)
}

// Metrics records lifecycle outcomes.
type Metrics interface {
	ObserveBooking(operation, status string)
	ObserveConflict()
}

// Service orchestrates the booking lifecycle: create, cancel, reschedule and
// status transitions, plus best-effort calendar mirroring.
type Service struct {
	store   BookingStore
	clients ClientDirectory
	catalog ServiceResolver
	cal     calendar.Sync
	created CreatedHook
	metrics Metrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewService constructs the lifecycle manager. The calendar sync and created
// hook may be nil; both are optional side effects.
func NewService(store BookingStore, dir ClientDirectory, resolver ServiceResolver, cal calendar.Sync, logger *logging.Logger) *Service {
	if store == nil {
		panic("bookings: store required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		store:   store,
		clients: dir,
		catalog: resolver,
		cal:     cal,
		logger:  logger,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// WithCreatedHook registers the post-create hook.
func (s *Service) WithCreatedHook(h CreatedHook) *Service {
	s.created = h
	return s
}

// WithMetrics registers lifecycle instrumentation.
func (s *Service) WithMetrics(m Metrics) *Service {
	s.metrics = m
	return s
}

// WithClock overrides the time source in tests.
func (s *Service) WithClock(now func() time.Time) *Service {
	if now != nil {
		s.now = now
	}
	return s
}

// CreateInput carries a booking request. Either ClientID or ClientPhone must
// be set; an unknown phone creates a minimal client record.
type CreateInput struct {
	ClientID    *uuid.UUID
	ClientPhone string
	ClientName  string
	ClientEmail string
	ServiceID   uuid.UUID
	StartTime   time.Time
	// EndOverride replaces the service-duration end when set.
	EndOverride *time.Time
	Notes       string
	ClientNotes string
	// Confirmed marks bookings from trusted internal flows; client-facing
	// requests start pending.
	Confirmed bool
}

// Create validates the request, snapshots the price, persists the booking
// inside the conflict-checked transaction, and mirrors it to the calendar.
func (s *Service) Create(ctx context.Context, input CreateInput) (*Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.create")
	defer span.End()
	span.SetAttributes(attribute.String("booking.service_id", input.ServiceID.String()))

	svc, err := s.catalog.Get(ctx, input.ServiceID)
	if err != nil {
		return nil, err
	}

	client, err := s.resolveClient(ctx, input)
	if err != nil {
		return nil, err
	}

	now := s.now()
	start := input.StartTime.UTC()
	if start.Before(now) {
		return nil, ErrPastStartTime
	}
	end := timeutil.End(start, svc.DurationMinutes)
	if input.EndOverride != nil {
		end = input.EndOverride.UTC()
	}
	if !timeutil.ValidWindow(start, end) {
		return nil, ErrInvalidWindow
	}

	status := StatusPending
	if input.Confirmed {
		status = StatusConfirmed
	}

	var b *Booking
	for attempt := 0; attempt < createAttempts; attempt++ {
		b = &Booking{
			ID:                 uuid.New(),
			BookingNumber:      NewBookingNumber(now),
			ConfirmationCode:   NewConfirmationCode(),
			ClientID:           client.ID,
			ServiceID:          svc.ID,
			StartTime:          start,
			EndTime:            end,
			Status:             status,
			OriginalPriceCents: svc.PriceCents,
			FinalPriceCents:    svc.PriceCents,
			Currency:           svc.Currency,
			Notes:              input.Notes,
			ClientNotes:        input.ClientNotes,
			CreatedAt:          now,
			UpdatedAt:          now,
		}
		err = s.store.Create(ctx, b)
		if err == nil || !errors.Is(err, errCodeCollision) {
			break
		}
	}
	if err != nil {
		span.RecordError(err)
		if s.metrics != nil {
			if errors.Is(err, ErrSlotUnavailable) {
				s.metrics.ObserveConflict()
				s.metrics.ObserveBooking("create", "conflict")
			} else {
				s.metrics.ObserveBooking("create", "error")
			}
		}
		if errors.Is(err, errCodeCollision) {
			return nil, fmt.Errorf("bookings: create: code collision persisted after %d attempts", createAttempts)
		}
		return nil, err
	}
	if s.metrics != nil {
		s.metrics.ObserveBooking("create", "ok")
	}

	s.logger.Info("booking created",
		"booking_id", b.ID,
		"booking_number", b.BookingNumber,
		"client_id", client.ID,
		"service", svc.Name,
		"start", b.StartTime.Format(time.RFC3339),
		"status", string(b.Status),
	)

	s.mirrorCreate(ctx, b, svc.Name, client.Name)

	if s.created != nil {
		s.created.BookingCreated(ctx, b, client)
	}
	return b, nil
}

func (s *Service) resolveClient(ctx context.Context, input CreateInput) (*clients.Client, error) {
	if input.ClientID != nil {
		return s.clients.GetByID(ctx, *input.ClientID)
	}
	if input.ClientPhone == "" {
		return nil, ErrClientRequired
	}
	client, err := s.clients.FindByPhone(ctx, input.ClientPhone)
	if err != nil {
		return nil, err
	}
	if client != nil {
		return client, nil
	}
	name := input.ClientName
	if name == "" {
		name = "Client " + input.ClientPhone
	}
	return s.clients.Create(ctx, name, input.ClientPhone, input.ClientEmail)
}

// Cancel transitions an active booking to cancelled and drops the calendar
// twin. The local status write is the source of truth; calendar failures are
// only logged.
func (s *Service) Cancel(ctx context.Context, id uuid.UUID, reason string) error {
	ctx, span := tracer.Start(ctx, "bookings.cancel")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id.String()))

	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status.Terminal() {
		return ErrTerminalStatus
	}

	if err := s.store.UpdateStatus(ctx, id, []Status{StatusPending, StatusConfirmed}, StatusCancelled, reason); err != nil {
		span.RecordError(err)
		return err
	}
	s.logger.Info("booking cancelled", "booking_id", id, "reason", reason)
	if s.metrics != nil {
		s.metrics.ObserveBooking("cancel", "ok")
	}

	if s.cal != nil && b.CalendarEventID != "" {
		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		defer cancel()
		if err := s.cal.CancelEvent(callCtx, b.CalendarEventID, reason); err != nil {
			s.logger.Warn("calendar cancel failed", "booking_id", id, "event_id", b.CalendarEventID, "error", err)
		}
	}
	return nil
}

// Reschedule moves a non-terminal booking to a new window. The conflict check
// excludes the booking's own id, and the calendar twin is updated in place.
func (s *Service) Reschedule(ctx context.Context, id uuid.UUID, newStart time.Time) (*Booking, error) {
	ctx, span := tracer.Start(ctx, "bookings.reschedule")
	defer span.End()
	span.SetAttributes(attribute.String("booking.id", id.String()))

	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status.Terminal() {
		return nil, ErrTerminalStatus
	}

	svc, err := s.catalog.Get(ctx, b.ServiceID)
	if err != nil {
		return nil, err
	}

	start := newStart.UTC()
	if start.Before(s.now()) {
		return nil, ErrPastStartTime
	}
	end := timeutil.End(start, svc.DurationMinutes)

	if err := s.store.Reschedule(ctx, id, start, end); err != nil {
		span.RecordError(err)
		if s.metrics != nil && errors.Is(err, ErrSlotUnavailable) {
			s.metrics.ObserveConflict()
		}
		return nil, err
	}
	s.logger.Info("booking rescheduled", "booking_id", id, "start", start.Format(time.RFC3339))
	if s.metrics != nil {
		s.metrics.ObserveBooking("reschedule", "ok")
	}

	updated, err := s.store.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if s.cal != nil && updated.CalendarEventID != "" {
		callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
		defer cancel()
		details := calendar.EventDetails{
			Summary: fmt.Sprintf("%s - %s", updated.BookingNumber, svc.Name),
			Start:   updated.StartTime,
			End:     updated.EndTime,
		}
		if err := s.cal.UpdateEvent(callCtx, updated.CalendarEventID, details); err != nil {
			s.logger.Warn("calendar update failed", "booking_id", id, "event_id", updated.CalendarEventID, "error", err)
		}
	}
	return updated, nil
}

// UpdateStatus applies a generic transition with the state-machine guards:
// unknown targets are rejected, terminal bookings stay terminal, completed
// and no_show are only reachable from confirmed.
func (s *Service) UpdateStatus(ctx context.Context, id uuid.UUID, target Status) error {
	if !ValidStatus(target) {
		return ErrInvalidStatus
	}

	b, err := s.store.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if b.Status.Terminal() {
		return ErrTerminalStatus
	}

	var expected []Status
	switch target {
	case StatusCancelled:
		expected = []Status{StatusPending, StatusConfirmed}
	case StatusConfirmed:
		expected = []Status{StatusPending}
	case StatusCompleted, StatusNoShow:
		expected = []Status{StatusConfirmed}
	default:
		return ErrInvalidStatus
	}

	if err := s.store.UpdateStatus(ctx, id, expected, target, ""); err != nil {
		return err
	}
	s.logger.Info("booking status updated", "booking_id", id, "status", string(target))
	return nil
}

// Lookup returns a booking by its client-facing confirmation code.
func (s *Service) Lookup(ctx context.Context, confirmationCode string) (*Booking, error) {
	return s.store.GetByConfirmationCode(ctx, confirmationCode)
}

// OverrideFinalPrice applies an explicit staff price override, the only
// sanctioned mutation of the creation-time price snapshot.
func (s *Service) OverrideFinalPrice(ctx context.Context, id uuid.UUID, finalPriceCents int64) error {
	if err := s.store.OverrideFinalPrice(ctx, id, finalPriceCents); err != nil {
		return err
	}
	s.logger.Info("booking price overridden", "booking_id", id, "final_price_cents", finalPriceCents)
	return nil
}

// mirrorCreate pushes the booking into the external calendar. Best-effort: a
// failure leaves the booking unmirrored for the resync pass to pick up.
func (s *Service) mirrorCreate(ctx context.Context, b *Booking, serviceName, clientName string) {
	if s.cal == nil {
		return
	}
	callCtx, cancel := context.WithTimeout(ctx, collaboratorTimeout)
	defer cancel()

	event, err := s.cal.CreateEvent(callCtx, calendar.EventDetails{
		Summary:     fmt.Sprintf("%s - %s", b.BookingNumber, serviceName),
		Description: fmt.Sprintf("Client: %s", clientName),
		Start:       b.StartTime,
		End:         b.EndTime,
	})
	if err != nil {
		s.logger.Warn("calendar mirror failed", "booking_id", b.ID, "error", err)
		return
	}
	if event == nil || event.ID == "" {
		return
	}
	if err := s.store.SetCalendarEvent(ctx, b.ID, event.ID, s.cal.Platform()); err != nil {
		s.logger.Warn("record calendar event failed", "booking_id", b.ID, "error", err)
		return
	}
	b.CalendarEventID = event.ID
	b.CalendarPlatform = s.cal.Platform()
}
