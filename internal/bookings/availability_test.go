package bookings

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCounter struct {
	count   int
	err     error
	gotFrom time.Time
	gotTo   time.Time
	gotExcl *uuid.UUID
}

func (f *fakeCounter) CountOverlapping(ctx context.Context, q Querier, start, end time.Time, exclude *uuid.UUID) (int, error) {
	f.gotFrom, f.gotTo, f.gotExcl = start, end, exclude
	return f.count, f.err
}

func TestCheckAvailable(t *testing.T) {
	counter := &fakeCounter{count: 0}
	checker := NewChecker(counter)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	avail, err := checker.Check(context.Background(), start, start.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.True(t, avail.Available)
	assert.Zero(t, avail.Conflicts)
}

func TestCheckConflicts(t *testing.T) {
	counter := &fakeCounter{count: 2}
	checker := NewChecker(counter)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	avail, err := checker.Check(context.Background(), start, start.Add(time.Hour), nil)
	require.NoError(t, err)
	assert.False(t, avail.Available)
	assert.Equal(t, 2, avail.Conflicts)
}

func TestCheckRejectsInvertedWindow(t *testing.T) {
	checker := NewChecker(&fakeCounter{})
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	_, err := checker.Check(context.Background(), start, start, nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)

	_, err = checker.Check(context.Background(), start, start.Add(-time.Minute), nil)
	assert.ErrorIs(t, err, ErrInvalidWindow)
}

func TestCheckPassesExclusion(t *testing.T) {
	counter := &fakeCounter{}
	checker := NewChecker(counter)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)
	id := uuid.New()

	_, err := checker.Check(context.Background(), start, start.Add(time.Hour), &id)
	require.NoError(t, err)
	require.NotNil(t, counter.gotExcl)
	assert.Equal(t, id, *counter.gotExcl)
}

func TestCheckPropagatesStoreError(t *testing.T) {
	counter := &fakeCounter{err: errors.New("db down")}
	checker := NewChecker(counter)
	start := time.Date(2025, 3, 10, 10, 0, 0, 0, time.UTC)

	_, err := checker.Check(context.Background(), start, start.Add(time.Hour), nil)
	assert.Error(t, err)
}
