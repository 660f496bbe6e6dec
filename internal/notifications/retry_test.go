package notifications

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestRetryQueuePushAndDue(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	q := NewRetryQueue(3, 5*time.Minute)
	id := uuid.New()

	q.Push(id, now)
	assert.Equal(t, 1, q.Len())

	assert.Empty(t, q.Due(now), "nothing due before the base delay")
	assert.Empty(t, q.Due(now.Add(4*time.Minute)))

	due := q.Due(now.Add(5 * time.Minute))
	assert.Len(t, due, 1)
	assert.Equal(t, id, due[0].RecordID)
	assert.Equal(t, 1, due[0].Attempts)
}

func TestRetryQueuePushIsIdempotent(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	q := NewRetryQueue(3, 5*time.Minute)
	id := uuid.New()

	q.Push(id, now)
	q.Push(id, now.Add(time.Hour))
	assert.Equal(t, 1, q.Len())

	// the original schedule wins
	assert.Len(t, q.Due(now.Add(5*time.Minute)), 1)
}

func TestRetryQueueBackoffGrows(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	q := NewRetryQueue(3, 5*time.Minute)
	id := uuid.New()

	q.Push(id, now)
	assert.True(t, q.Reschedule(id, now))

	// second attempt waits 2*base
	assert.Empty(t, q.Due(now.Add(9*time.Minute)))
	due := q.Due(now.Add(10 * time.Minute))
	assert.Len(t, due, 1)
	assert.Equal(t, 2, due[0].Attempts)
}

func TestRetryQueueExhaustsAfterMaxRetries(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	q := NewRetryQueue(3, time.Minute)
	id := uuid.New()

	q.Push(id, now)
	assert.True(t, q.Reschedule(id, now))  // attempt 2
	assert.True(t, q.Reschedule(id, now))  // attempt 3
	assert.False(t, q.Reschedule(id, now)) // exhausted, dropped
	assert.Zero(t, q.Len())
}

func TestRetryQueueRemove(t *testing.T) {
	now := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	q := NewRetryQueue(3, time.Minute)
	id := uuid.New()

	q.Push(id, now)
	q.Remove(id)
	assert.Zero(t, q.Len())
	assert.False(t, q.Reschedule(id, now))
}
