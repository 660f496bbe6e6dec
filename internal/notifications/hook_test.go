package notifications

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salonops/booking-engine/internal/catalog"
	"github.com/salonops/booking-engine/internal/clients"
)

func TestBookingCreatedSendsConfirmation(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{}
	dispatcher := NewDispatcher(store, sender, NewRetryQueue(3, time.Minute), nil).WithClock(frozenClock())

	svcID := uuid.New()
	services := &fixedServiceSource{byID: map[uuid.UUID]*catalog.Service{
		svcID: {ID: svcID, Name: "Balayage", Category: "coloring"},
	}}
	hook := NewCreationHook(store, dispatcher, services, "Studio North", nil)

	client := &clients.Client{ID: uuid.New(), Name: "Dana Reed", Phone: "+15551234567"}
	b := upcomingBooking(client.ID, svcID, frozenClock()().Add(48*time.Hour))

	hook.BookingCreated(context.Background(), &b, client)

	require.Len(t, sender.sent, 1)
	msg := sender.sent[0].Body
	assert.True(t, strings.Contains(msg, "A1B2C3"), "confirmation must carry the code: %q", msg)
	assert.True(t, strings.Contains(msg, "Balayage"), "confirmation must name the service: %q", msg)

	handled, err := store.Exists(context.Background(), b.ID, client.ID, TypeConfirmation)
	require.NoError(t, err)
	assert.True(t, handled)
}

func TestBookingCreatedIsIdempotent(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{}
	dispatcher := NewDispatcher(store, sender, NewRetryQueue(3, time.Minute), nil).WithClock(frozenClock())
	services := &fixedServiceSource{byID: map[uuid.UUID]*catalog.Service{}}
	hook := NewCreationHook(store, dispatcher, services, "Studio North", nil)

	client := &clients.Client{ID: uuid.New(), Name: "Dana", Phone: "+15551234567"}
	b := upcomingBooking(client.ID, uuid.New(), frozenClock()().Add(48*time.Hour))

	hook.BookingCreated(context.Background(), &b, client)
	hook.BookingCreated(context.Background(), &b, client)

	assert.Len(t, sender.sent, 1)
}

func TestFailedConfirmationRecoversOnDrain(t *testing.T) {
	store := newMemRecordStore()
	sender := &scriptedSender{errs: []error{errors.New("gateway down")}}
	queue := NewRetryQueue(3, time.Minute)
	dispatcher := NewDispatcher(store, sender, queue, nil).WithClock(frozenClock())
	services := &fixedServiceSource{byID: map[uuid.UUID]*catalog.Service{}}
	hook := NewCreationHook(store, dispatcher, services, "Studio North", nil)

	client := &clients.Client{ID: uuid.New(), Name: "Dana", Phone: "+15551234567"}
	b := upcomingBooking(client.ID, uuid.New(), frozenClock()().Add(48*time.Hour))

	hook.BookingCreated(context.Background(), &b, client)
	require.Empty(t, sender.sent)
	require.Equal(t, 1, queue.Len())

	// The scan never re-derives a confirmation once its record exists, so the
	// dispatcher that enqueued it must also drain it.
	retried := dispatcher.DrainRetries(context.Background(), frozenClock()().Add(2*time.Minute))
	assert.Equal(t, 1, retried)
	require.Len(t, sender.sent, 1)
	assert.Zero(t, queue.Len())
}

func TestCleanupPurgesBeyondRetention(t *testing.T) {
	store := &fakePurger{purged: 7}
	cleanup := NewCleanup(store, 30*24*time.Hour, nil)

	now := frozenClock()()
	purged, err := cleanup.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, int64(7), purged)
	assert.Equal(t, now.Add(-30*24*time.Hour), store.cutoff)
}

func TestCleanupDefaultRetention(t *testing.T) {
	store := &fakePurger{}
	cleanup := NewCleanup(store, 0, nil)

	now := frozenClock()()
	_, err := cleanup.Run(context.Background(), now)
	require.NoError(t, err)
	assert.Equal(t, now.Add(-defaultRetention), store.cutoff)
}

type fakePurger struct {
	cutoff time.Time
	purged int64
}

func (f *fakePurger) PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	f.cutoff = cutoff
	return f.purged, nil
}
