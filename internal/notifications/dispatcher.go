package notifications

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/salonops/booking-engine/internal/messaging"
	"github.com/salonops/booking-engine/pkg/logging"
)

// ErrInvalidRecipient marks a record whose recipient can never be delivered
// to; such records fail without entering the retry queue.
var ErrInvalidRecipient = errors.New("notifications: invalid recipient")

// RecordStore is the persistence surface the dispatcher and scheduler share.
type RecordStore interface {
	Insert(ctx context.Context, r *Record) error
	Exists(ctx context.Context, bookingID, clientID uuid.UUID, typ Type) (bool, error)
	GetByID(ctx context.Context, id uuid.UUID) (*Record, error)
	MarkSent(ctx context.Context, id uuid.UUID) error
	MarkFailed(ctx context.Context, id uuid.UUID, cause string, terminal bool) error
}

// DispatchMetrics counts dispatch outcomes; nil-safe so tests can skip it.
type DispatchMetrics interface {
	NotificationSent(typ string)
	NotificationFailed(typ string)
	NotificationRetried(typ string)
}

// Dispatcher delivers notification records over SMS or email, records the
// outcome, and feeds failures into the retry queue.
type Dispatcher struct {
	store   RecordStore
	sms     messaging.Sender
	email   messaging.EmailSender
	queue   *RetryQueue
	metrics DispatchMetrics
	logger  *logging.Logger
	now     func() time.Time
}

// NewDispatcher wires the delivery path. Email is optional; queue is required
// so failures always have somewhere to go.
func NewDispatcher(store RecordStore, sms messaging.Sender, queue *RetryQueue, logger *logging.Logger) *Dispatcher {
	if store == nil {
		panic("notifications: record store required")
	}
	if queue == nil {
		panic("notifications: retry queue required")
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Dispatcher{
		store:  store,
		sms:    sms,
		queue:  queue,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}
}

// WithEmail adds the email channel.
func (d *Dispatcher) WithEmail(sender messaging.EmailSender) *Dispatcher {
	d.email = sender
	return d
}

// WithMetrics adds dispatch counters.
func (d *Dispatcher) WithMetrics(m DispatchMetrics) *Dispatcher {
	d.metrics = m
	return d
}

// WithClock overrides the time source in tests.
func (d *Dispatcher) WithClock(now func() time.Time) *Dispatcher {
	if now != nil {
		d.now = now
	}
	return d
}

// Enqueue inserts a record and attempts immediate delivery. The insert is the
// dedup commitment: once it lands, no later scan re-derives this notification,
// whatever the send outcome.
func (d *Dispatcher) Enqueue(ctx context.Context, r *Record) error {
	if err := d.store.Insert(ctx, r); err != nil {
		return err
	}
	d.Deliver(ctx, r)
	return nil
}

// Deliver attempts to send a persisted record and records the outcome.
func (d *Dispatcher) Deliver(ctx context.Context, r *Record) {
	err := d.send(ctx, r)
	if err == nil {
		if markErr := d.store.MarkSent(ctx, r.ID); markErr != nil {
			d.logger.Error("mark sent failed", "record_id", r.ID, "error", markErr)
		}
		if d.metrics != nil {
			d.metrics.NotificationSent(string(r.Type))
		}
		d.logger.Info("notification sent", "record_id", r.ID, "type", string(r.Type), "channel", string(r.Channel))
		return
	}

	terminal := errors.Is(err, ErrInvalidRecipient)
	if markErr := d.store.MarkFailed(ctx, r.ID, err.Error(), terminal); markErr != nil {
		d.logger.Error("mark failed failed", "record_id", r.ID, "error", markErr)
	}
	if d.metrics != nil {
		d.metrics.NotificationFailed(string(r.Type))
	}
	if terminal {
		d.logger.Warn("notification unroutable", "record_id", r.ID, "recipient", r.Recipient)
		return
	}
	d.queue.Push(r.ID, d.now())
	d.logger.Warn("notification send failed, queued for retry", "record_id", r.ID, "type", string(r.Type), "error", err)
}

func (d *Dispatcher) send(ctx context.Context, r *Record) error {
	switch r.Channel {
	case ChannelEmail:
		if d.email == nil {
			return errors.New("notifications: email channel not configured")
		}
		return d.email.SendEmail(ctx, messaging.EmailMessage{
			To:      r.Recipient,
			Subject: EmailSubject(r.Type),
			Body:    r.Body,
		})
	default:
		if d.sms == nil {
			return errors.New("notifications: sms channel not configured")
		}
		if !messaging.ValidPhone(r.Recipient) {
			return fmt.Errorf("%w: %q", ErrInvalidRecipient, r.Recipient)
		}
		return d.sms.Send(ctx, messaging.SMS{To: r.Recipient, Body: r.Body})
	}
}

// DrainRetries re-attempts every due retry entry. Successful sends clear the
// entry; failures back off until the attempts run out, then the record goes
// terminal.
func (d *Dispatcher) DrainRetries(ctx context.Context, now time.Time) int {
	due := d.queue.Due(now)
	retried := 0
	for _, entry := range due {
		r, err := d.store.GetByID(ctx, entry.RecordID)
		if err != nil {
			d.logger.Error("retry fetch failed", "record_id", entry.RecordID, "error", err)
			d.queue.Remove(entry.RecordID)
			continue
		}
		if d.metrics != nil {
			d.metrics.NotificationRetried(string(r.Type))
		}

		if err := d.send(ctx, r); err == nil {
			if markErr := d.store.MarkSent(ctx, r.ID); markErr != nil {
				d.logger.Error("mark sent failed", "record_id", r.ID, "error", markErr)
			}
			d.queue.Remove(r.ID)
			retried++
			d.logger.Info("notification retry succeeded", "record_id", r.ID, "attempt", entry.Attempts)
			continue
		} else if d.queue.Reschedule(r.ID, now) {
			d.logger.Warn("notification retry failed, rescheduled", "record_id", r.ID, "attempt", entry.Attempts, "error", err)
		} else {
			if markErr := d.store.MarkFailed(ctx, r.ID, err.Error(), true); markErr != nil {
				d.logger.Error("mark terminal failed", "record_id", r.ID, "error", markErr)
			}
			d.logger.Error("notification retries exhausted", "record_id", r.ID, "error", err)
		}
	}
	return retried
}
