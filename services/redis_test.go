package services

import (
	"context"
	"testing"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenBlacklist(t *testing.T) {
	client := testutils.RedisClient(t)
	ctx := context.Background()
	bl := NewTokenBlacklist(client)

	revoked, err := bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.False(t, revoked)

	require.NoError(t, bl.Revoke(ctx, "token-a", AccessToken, time.Now().Add(time.Minute)))
	require.NoError(t, bl.Revoke(ctx, "token-b", RefreshToken, time.Now().Add(-time.Minute)))

	revoked, err = bl.IsRevoked(ctx, "token-a")
	require.NoError(t, err)
	assert.True(t, revoked)

	revoked, err = bl.IsRevoked(ctx, "token-b")
	require.NoError(t, err)
	assert.False(t, revoked, "expired tokens are not stored")
}

func TestLeaderboardCache(t *testing.T) {
	client := testutils.RedisClient(t)
	ctx := context.Background()
	cache := NewLeaderboardCache(client, time.Minute)

	gen, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(0), gen)

	_, hit, err := cache.Get(ctx, gen, 10)
	require.NoError(t, err)
	assert.False(t, hit)

	entries := []model.LeaderboardEntry{{Rank: 1, UserID: "u1", DisplayName: "Ada", Points: 55}}
	require.NoError(t, cache.Set(ctx, gen, 10, entries))
	require.NoError(t, cache.Set(ctx, gen, 0, entries))

	got, hit, err := cache.Get(ctx, gen, 10)
	require.NoError(t, err)
	assert.True(t, hit)
	assert.Equal(t, entries, got)

	require.NoError(t, cache.Invalidate(ctx))
	next, err := cache.Generation(ctx)
	require.NoError(t, err)
	assert.Equal(t, gen+1, next)
	for _, limit := range []int{0, 10} {
		_, hit, err = cache.Get(ctx, next, limit)
		require.NoError(t, err)
		assert.False(t, hit, "limit %d still cached", limit)
	}

	// A board computed before the invalidation lands in the old generation.
	require.NoError(t, cache.Set(ctx, gen, 10, entries))
	_, hit, err = cache.Get(ctx, next, 10)
	require.NoError(t, err)
	assert.False(t, hit)
}

func TestSessionCache(t *testing.T) {
	client := testutils.RedisClient(t)
	ctx := context.Background()
	cache := NewSessionCache(client, time.Hour)

	session := &model.Session{
		SessionID: "s1",
		UserID:    "u1",
		IsActive:  true,
		ExpiresAt: time.Now().Add(time.Hour).UTC().Truncate(time.Second),
	}
	require.NoError(t, cache.SetSession(ctx, session))

	got, err := cache.GetSession(ctx, "s1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "u1", got.UserID)

	require.NoError(t, cache.DeleteSession(ctx, "s1"))
	got, err = cache.GetSession(ctx, "s1")
	require.NoError(t, err)
	assert.Nil(t, got)
}
