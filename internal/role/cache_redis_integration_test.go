//go:build integration

package role

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	id "workpaper/pkg/domain"
	"workpaper/pkg/testutil/containers"
)

func TestRedisCacheRoundTrip(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := NewRedisCache(rc.Client, time.Minute, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	identity := id.NewIdentityID()
	business := id.NewBusinessID()
	set := NewSet(
		Role{Type: id.RoleSeeker},
		Role{Type: id.RoleWorker, BusinessID: &business},
	)

	_, ok := cache.Get(ctx, identity)
	assert.False(t, ok, "empty cache must miss")

	cache.Set(ctx, identity, set)

	got, ok := cache.Get(ctx, identity)
	require.True(t, ok)
	assert.True(t, set.Equal(got), "cached set must survive the round trip")

	cache.Invalidate(ctx, identity)

	_, ok = cache.Get(ctx, identity)
	assert.False(t, ok, "invalidation must clear the entry")
}

func TestRedisCacheEntriesAreScopedPerIdentity(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := NewRedisCache(rc.Client, time.Minute, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	first := id.NewIdentityID()
	second := id.NewIdentityID()
	cache.Set(ctx, first, NewSet(Role{Type: id.RoleSeeker}))

	_, ok := cache.Get(ctx, second)
	assert.False(t, ok)

	cache.Invalidate(ctx, second)

	_, ok = cache.Get(ctx, first)
	assert.True(t, ok, "invalidating one identity must not clear another")
}

func TestRedisCacheHonorsTTL(t *testing.T) {
	rc := containers.NewRedisContainer(t)
	cache := NewRedisCache(rc.Client, 100*time.Millisecond, slog.New(slog.DiscardHandler))
	ctx := context.Background()

	identity := id.NewIdentityID()
	cache.Set(ctx, identity, NewSet(Role{Type: id.RoleSeeker}))

	_, ok := cache.Get(ctx, identity)
	require.True(t, ok)

	time.Sleep(200 * time.Millisecond)

	_, ok = cache.Get(ctx, identity)
	assert.False(t, ok, "entries must expire after the configured TTL")
}
