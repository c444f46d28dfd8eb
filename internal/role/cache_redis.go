package role

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	id "workpaper/pkg/domain"
	"workpaper/pkg/platform/circuit"
)

// RedisCache shares derived role sets across instances. Invalidation is a
// synchronous DEL inside the mutating request, so a permission check that
// observes the mutation's acknowledgement never reads a stale set. Redis
// failures degrade to cache misses; derivation always has the store to fall
// back on, and a circuit breaker stops hammering a Redis that is down.
type RedisCache struct {
	client  *redis.Client
	ttl     time.Duration
	logger  *slog.Logger
	breaker *circuit.Breaker
}

func NewRedisCache(client *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	return &RedisCache{
		client:  client,
		ttl:     ttl,
		logger:  logger,
		breaker: circuit.New("role-cache"),
	}
}

func cacheKey(identityID id.IdentityID) string {
	return "workpaper:roles:" + identityID.String()
}

func (c *RedisCache) Get(ctx context.Context, identityID id.IdentityID) (Set, bool) {
	if c.breaker.IsOpen() {
		return Set{}, false
	}
	raw, err := c.client.Get(ctx, cacheKey(identityID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			c.recordSuccess(ctx)
			return Set{}, false
		}
		c.recordFailure(ctx, "role cache read failed", identityID, err)
		return Set{}, false
	}
	c.recordSuccess(ctx)
	var roles []Role
	if err := json.Unmarshal(raw, &roles); err != nil {
		return Set{}, false
	}
	return NewSet(roles...), true
}

func (c *RedisCache) Set(ctx context.Context, identityID id.IdentityID, set Set) {
	if c.breaker.IsOpen() {
		return
	}
	raw, err := json.Marshal(set.Roles())
	if err != nil {
		return
	}
	if err := c.client.Set(ctx, cacheKey(identityID), raw, c.ttl).Err(); err != nil {
		c.recordFailure(ctx, "role cache write failed", identityID, err)
		return
	}
	c.recordSuccess(ctx)
}

// Invalidate always attempts the DEL, open breaker or not. A skipped
// invalidation could leave a stale set to be served after Redis recovers.
func (c *RedisCache) Invalidate(ctx context.Context, identityID id.IdentityID) {
	if err := c.client.Del(ctx, cacheKey(identityID)).Err(); err != nil {
		c.recordFailure(ctx, "role cache invalidation failed", identityID, err)
		return
	}
	c.recordSuccess(ctx)
}

func (c *RedisCache) recordFailure(ctx context.Context, msg string, identityID id.IdentityID, err error) {
	useFallback, change := c.breaker.RecordFailure()
	if c.logger == nil {
		return
	}
	c.logger.WarnContext(ctx, msg, "identity_id", identityID, "error", err)
	if change.Opened {
		c.logger.ErrorContext(ctx, "role cache circuit opened; derivation serves from storage",
			"breaker", c.breaker.Name(), "fallback", useFallback)
	}
}

func (c *RedisCache) recordSuccess(ctx context.Context) {
	if _, change := c.breaker.RecordSuccess(); change.Closed && c.logger != nil {
		c.logger.InfoContext(ctx, "role cache circuit closed", "breaker", c.breaker.Name())
	}
}
