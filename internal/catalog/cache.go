package catalog

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"

	"github.com/salonops/booking-engine/pkg/logging"
)

// Lister is the slice of the store the cache needs.
type Lister interface {
	ListActive(ctx context.Context) ([]Service, error)
}

// Cache holds the active services in memory so availability and notification
// paths avoid a catalog query per booking. It is constructed explicitly and
// refreshed by a named periodic task; there is no hidden global.
type Cache struct {
	store  Lister
	logger *logging.Logger

	mu       sync.RWMutex
	services map[uuid.UUID]Service
}

// NewCache creates an empty cache. Call Refresh before first use.
func NewCache(store Lister, logger *logging.Logger) *Cache {
	if logger == nil {
		logger = logging.Default()
	}
	return &Cache{
		store:    store,
		logger:   logger,
		services: make(map[uuid.UUID]Service),
	}
}

// Refresh replaces the cached set with the store's current active services.
// On error the previous snapshot stays in place.
func (c *Cache) Refresh(ctx context.Context) error {
	services, err := c.store.ListActive(ctx)
	if err != nil {
		return fmt.Errorf("catalog: refresh cache: %w", err)
	}
	next := make(map[uuid.UUID]Service, len(services))
	for _, svc := range services {
		next[svc.ID] = svc
	}

	c.mu.Lock()
	c.services = next
	c.mu.Unlock()

	c.logger.Debug("catalog cache refreshed", "services", len(next))
	return nil
}

// Get returns a cached service.
func (c *Cache) Get(id uuid.UUID) (*Service, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	svc, ok := c.services[id]
	if !ok {
		return nil, false
	}
	return &svc, true
}

// Len returns the number of cached services.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.services)
}
