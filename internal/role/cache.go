package role

import (
	"context"
	"sync"
	"time"

	id "workpaper/pkg/domain"
)

// Cache holds derived role sets between mutations. Consistency comes from
// synchronous invalidation fired by the lifecycle services, never from the
// TTL, which is only a safety net against missed invalidations.
type Cache interface {
	Get(ctx context.Context, identityID id.IdentityID) (Set, bool)
	Set(ctx context.Context, identityID id.IdentityID, set Set)
	Invalidate(ctx context.Context, identityID id.IdentityID)
}

// Clock lets tests control cache expiry.
type Clock func() time.Time

type memoryEntry struct {
	set      Set
	cachedAt time.Time
}

// MemoryCache is a process-local role cache with an injected clock.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[id.IdentityID]memoryEntry
	ttl     time.Duration
	clock   Clock
}

type MemoryCacheOption func(*MemoryCache)

// WithClock sets the clock function for testability.
func WithClock(clock Clock) MemoryCacheOption {
	return func(c *MemoryCache) {
		if clock != nil {
			c.clock = clock
		}
	}
}

func NewMemoryCache(ttl time.Duration, opts ...MemoryCacheOption) *MemoryCache {
	c := &MemoryCache{
		entries: make(map[id.IdentityID]memoryEntry),
		ttl:     ttl,
		clock:   time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *MemoryCache) Get(_ context.Context, identityID id.IdentityID) (Set, bool) {
	c.mu.RLock()
	entry, ok := c.entries[identityID]
	c.mu.RUnlock()
	if !ok {
		return Set{}, false
	}
	if c.ttl > 0 && c.clock().Sub(entry.cachedAt) > c.ttl {
		c.Invalidate(context.Background(), identityID)
		return Set{}, false
	}
	return entry.set, true
}

func (c *MemoryCache) Set(_ context.Context, identityID id.IdentityID, set Set) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[identityID] = memoryEntry{set: set, cachedAt: c.clock()}
}

func (c *MemoryCache) Invalidate(_ context.Context, identityID id.IdentityID) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, identityID)
}
