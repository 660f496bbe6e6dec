package bookings

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OverlapCounter is the slice of the store the checker needs.
type OverlapCounter interface {
	CountOverlapping(ctx context.Context, q Querier, start, end time.Time, exclude *uuid.UUID) (int, error)
}

// Checker answers "is this window free" against active bookings. It performs
// no locking by itself; Create and Reschedule re-run the same count inside
// their transactions.
type Checker struct {
	store OverlapCounter
}

// NewChecker creates an availability checker.
func NewChecker(store OverlapCounter) *Checker {
	return &Checker{store: store}
}

// Check reports whether [start, end) is free of active bookings, excluding
// one booking id when a reschedule supplies its own. Inverted and zero-length
// windows are rejected before touching the store.
func (c *Checker) Check(ctx context.Context, start, end time.Time, exclude *uuid.UUID) (*Availability, error) {
	if !end.After(start) {
		return nil, ErrInvalidWindow
	}
	conflicts, err := c.store.CountOverlapping(ctx, nil, start, end, exclude)
	if err != nil {
		return nil, err
	}
	return &Availability{Available: conflicts == 0, Conflicts: conflicts}, nil
}
