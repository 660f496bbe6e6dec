package notifications

import (
	"context"
	"time"

	"github.com/salonops/booking-engine/pkg/logging"
)

// defaultRetention keeps records long enough for dedup and support questions.
const defaultRetention = 30 * 24 * time.Hour

// Purger is the store surface the cleanup task needs.
type Purger interface {
	PurgeOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// Cleanup deletes notification records past their retention. Runs daily.
type Cleanup struct {
	store     Purger
	retention time.Duration
	logger    *logging.Logger
}

// NewCleanup creates the cleanup task; retention <= 0 picks the 30-day default.
func NewCleanup(store Purger, retention time.Duration, logger *logging.Logger) *Cleanup {
	if retention <= 0 {
		retention = defaultRetention
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Cleanup{store: store, retention: retention, logger: logger}
}

// Run purges one batch and returns how many records were removed.
func (c *Cleanup) Run(ctx context.Context, now time.Time) (int64, error) {
	purged, err := c.store.PurgeOlderThan(ctx, now.Add(-c.retention))
	if err != nil {
		return 0, err
	}
	if purged > 0 {
		c.logger.Info("notification records purged", "purged", purged, "retention", c.retention.String())
	}
	return purged, nil
}
