package notifications

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonops/booking-engine/internal/messaging"
)

// memRecordStore is an in-memory RecordStore for scheduler and dispatcher tests.
type memRecordStore struct {
	records   map[uuid.UUID]*Record
	insertErr error
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{records: make(map[uuid.UUID]*Record)}
}

func (m *memRecordStore) Insert(ctx context.Context, r *Record) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	if r.Status == "" {
		r.Status = StatusPending
	}
	if r.Channel == "" {
		r.Channel = ChannelSMS
	}
	cp := *r
	m.records[r.ID] = &cp
	return nil
}

func (m *memRecordStore) Exists(ctx context.Context, bookingID, clientID uuid.UUID, typ Type) (bool, error) {
	for _, r := range m.records {
		if r.BookingID == bookingID && r.ClientID == clientID && r.Type == typ {
			return true, nil
		}
	}
	return false, nil
}

func (m *memRecordStore) GetByID(ctx context.Context, id uuid.UUID) (*Record, error) {
	r, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("notifications: record %s not found", id)
	}
	cp := *r
	return &cp, nil
}

func (m *memRecordStore) MarkSent(ctx context.Context, id uuid.UUID) error {
	r, ok := m.records[id]
	if !ok {
		return fmt.Errorf("notifications: record %s not found", id)
	}
	now := time.Now().UTC()
	r.Status = StatusSent
	r.SentAt = &now
	return nil
}

func (m *memRecordStore) MarkFailed(ctx context.Context, id uuid.UUID, cause string, terminal bool) error {
	r, ok := m.records[id]
	if !ok {
		return fmt.Errorf("notifications: record %s not found", id)
	}
	if terminal {
		r.Status = StatusFailedMaxRetries
	} else {
		r.Status = StatusFailed
	}
	r.LastError = cause
	return nil
}

func (m *memRecordStore) status(id uuid.UUID) Status {
	if r, ok := m.records[id]; ok {
		return r.Status
	}
	return ""
}

type scriptedSender struct {
	errs []error
	sent []messaging.SMS
}

func (s *scriptedSender) Send(ctx context.Context, msg messaging.SMS) error {
	var err error
	if len(s.errs) > 0 {
		err = s.errs[0]
		s.errs = s.errs[1:]
	}
	if err == nil {
		s.sent = append(s.sent, msg)
	}
	return err
}

func frozenClock() func() time.Time {
	at := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	return func() time.Time { return at }
}

func smsRecord() *Record {
	return &Record{
		BookingID: uuid.New(),
		ClientID:  uuid.New(),
		Type:      TypeReminder24h,
		Channel:   ChannelSMS,
		Recipient: "+15551234567",
		Body:      "see you tomorrow",
	}
}

func TestEnqueueDeliversAndMarksSent(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{}
	d := NewDispatcher(store, sender, NewRetryQueue(3, time.Minute), nil).WithClock(frozenClock())

	r := smsRecord()
	require.NoError(t, d.Enqueue(context.Background(), r))

	assert.Equal(t, StatusSent, store.status(r.ID))
	require.Len(t, sender.sent, 1)
	assert.Equal(t, r.Recipient, sender.sent[0].To)
}

func TestFailedSendGoesToRetryQueue(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{errs: []error{errors.New("provider down")}}
	queue := NewRetryQueue(3, time.Minute)
	d := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())

	r := smsRecord()
	require.NoError(t, d.Enqueue(context.Background(), r))

	assert.Equal(t, StatusFailed, store.status(r.ID))
	assert.Equal(t, 1, queue.Len())
}

func TestInvalidPhoneFailsTerminallyWithoutRetry(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{}
	queue := NewRetryQueue(3, time.Minute)
	d := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())

	r := smsRecord()
	r.Recipient = "12345"
	require.NoError(t, d.Enqueue(context.Background(), r))

	assert.Equal(t, StatusFailedMaxRetries, store.status(r.ID))
	assert.Zero(t, queue.Len())
	assert.Empty(t, sender.sent)
}

func TestDrainRetriesSucceeds(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{errs: []error{errors.New("blip")}}
	queue := NewRetryQueue(3, time.Minute)
	d := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())

	r := smsRecord()
	require.NoError(t, d.Enqueue(context.Background(), r))
	require.Equal(t, StatusFailed, store.status(r.ID))

	retried := d.DrainRetries(context.Background(), frozenClock()().Add(2*time.Minute))
	assert.Equal(t, 1, retried)
	assert.Equal(t, StatusSent, store.status(r.ID))
	assert.Zero(t, queue.Len())
}

func TestDrainRetriesExhaustsToTerminal(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{errs: []error{
		errors.New("down"), errors.New("down"), errors.New("down"), errors.New("down"),
	}}
	queue := NewRetryQueue(3, time.Minute)
	d := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())

	r := smsRecord()
	require.NoError(t, d.Enqueue(context.Background(), r))

	// each drain lands after the backoff of the previous attempt
	at := frozenClock()()
	for i := 0; i < 3; i++ {
		at = at.Add(10 * time.Minute)
		d.DrainRetries(context.Background(), at)
	}

	assert.Equal(t, StatusFailedMaxRetries, store.status(r.ID))
	assert.Zero(t, queue.Len())
	assert.Empty(t, sender.sent)
}

func TestDrainSkipsEntriesNotYetDue(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{errs: []error{errors.New("down")}}
	queue := NewRetryQueue(3, 5*time.Minute)
	d := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())

	r := smsRecord()
	require.NoError(t, d.Enqueue(context.Background(), r))

	retried := d.DrainRetries(context.Background(), frozenClock()().Add(time.Minute))
	assert.Zero(t, retried)
	assert.Equal(t, 1, queue.Len())
}

func TestEmailChannelDelivery(t *testing.T) {
	store := newMemRecordStore()
	email := messaging.NewStubEmailSender(nil)
	d := NewDispatcher(store, &scriptedSender{}, NewRetryQueue(3, time.Minute), nil).
		WithEmail(email).WithClock(frozenClock())

	r := smsRecord()
	r.Channel = ChannelEmail
	r.Recipient = "dana@example.com"
	require.NoError(t, d.Enqueue(context.Background(), r))

	assert.Equal(t, StatusSent, store.status(r.ID))
	require.Len(t, email.Sent, 1)
	assert.Equal(t, "dana@example.com", email.Sent[0].To)
}
