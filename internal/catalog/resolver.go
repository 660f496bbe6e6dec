package catalog

import (
	"context"

	"github.com/google/uuid"
)

// Getter is the store lookup the resolver falls back to on a cache miss.
type Getter interface {
	GetByID(ctx context.Context, id uuid.UUID) (*Service, error)
}

// Resolver answers service lookups from the cache first, then the store, so a
// service added since the last refresh still resolves.
type Resolver struct {
	cache *Cache
	store Getter
}

// NewResolver creates a cache-first resolver.
func NewResolver(cache *Cache, store Getter) *Resolver {
	return &Resolver{cache: cache, store: store}
}

// Get returns the service or ErrServiceNotFound.
func (r *Resolver) Get(ctx context.Context, id uuid.UUID) (*Service, error) {
	if r.cache != nil {
		if svc, ok := r.cache.Get(id); ok {
			return svc, nil
		}
	}
	if r.store == nil {
		return nil, ErrServiceNotFound
	}
	return r.store.GetByID(ctx, id)
}
