package notifications

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// defaultMaxRetries is how many re-attempts a record gets before the
// failed_max_retries terminal status.
const defaultMaxRetries = 3

// defaultRetryBaseDelay spaces retry attempts; attempt n waits n*base.
const defaultRetryBaseDelay = 5 * time.Minute

// RetryEntry is one failed notification waiting for another attempt.
type RetryEntry struct {
	RecordID    uuid.UUID
	Attempts    int
	NextRetryAt time.Time
}

// RetryQueue holds failed sends in process memory. Entries do not survive a
// restart: the persisted record already marks the notification handled, so a
// lost retry degrades to a missed resend, never a duplicate.
type RetryQueue struct {
	mu         sync.Mutex
	entries    map[uuid.UUID]*RetryEntry
	maxRetries int
	baseDelay  time.Duration
}

// NewRetryQueue creates a queue with the given bounds; zero values pick the
// defaults (3 attempts, 5m base delay).
func NewRetryQueue(maxRetries int, baseDelay time.Duration) *RetryQueue {
	if maxRetries <= 0 {
		maxRetries = defaultMaxRetries
	}
	if baseDelay <= 0 {
		baseDelay = defaultRetryBaseDelay
	}
	return &RetryQueue{
		entries:    make(map[uuid.UUID]*RetryEntry),
		maxRetries: maxRetries,
		baseDelay:  baseDelay,
	}
}

// Push schedules the first retry for a record. A record already queued keeps
// its existing entry.
func (q *RetryQueue) Push(recordID uuid.UUID, now time.Time) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if _, ok := q.entries[recordID]; ok {
		return
	}
	q.entries[recordID] = &RetryEntry{
		RecordID:    recordID,
		Attempts:    1,
		NextRetryAt: now.Add(q.baseDelay),
	}
}

// Due returns entries whose retry time has arrived.
func (q *RetryQueue) Due(now time.Time) []RetryEntry {
	q.mu.Lock()
	defer q.mu.Unlock()
	var due []RetryEntry
	for _, e := range q.entries {
		if !e.NextRetryAt.After(now) {
			due = append(due, *e)
		}
	}
	return due
}

// Reschedule records another failed attempt. It returns false when the entry
// has exhausted its attempts and was dropped; the caller then writes the
// terminal status.
func (q *RetryQueue) Reschedule(recordID uuid.UUID, now time.Time) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	e, ok := q.entries[recordID]
	if !ok {
		return false
	}
	if e.Attempts >= q.maxRetries {
		delete(q.entries, recordID)
		return false
	}
	e.Attempts++
	e.NextRetryAt = now.Add(q.baseDelay * time.Duration(e.Attempts))
	return true
}

// Remove drops an entry after a successful retry.
func (q *RetryQueue) Remove(recordID uuid.UUID) {
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.entries, recordID)
}

// Len reports how many entries are waiting.
func (q *RetryQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.entries)
}
