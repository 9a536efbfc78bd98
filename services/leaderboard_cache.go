package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"

	"github.com/redis/go-redis/v9"
)

const (
	leaderboardKeyPrefix     = "leaderboard:top:"
	leaderboardGenerationKey = "leaderboard:generation"
)

// LeaderboardCache stores ranked boards per limit under a generation
// number. Invalidate bumps the generation, so a board computed before an
// invalidation is written under a generation no reader asks for.
type LeaderboardCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewLeaderboardCache(client *redis.Client, ttl time.Duration) *LeaderboardCache {
	return &LeaderboardCache{client: client, ttl: ttl}
}

// Generation returns the current invalidation generation, 0 before the
// first invalidation.
func (lc *LeaderboardCache) Generation(ctx context.Context) (int64, error) {
	gen, err := lc.client.Get(ctx, leaderboardGenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read leaderboard generation: %w", err)
	}
	return gen, nil
}

// Get returns the cached board for limit in generation gen. A miss is
// (nil, false, nil).
func (lc *LeaderboardCache) Get(ctx context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool, error) {
	data, err := lc.client.Get(ctx, leaderboardKey(gen, limit)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("failed to read leaderboard cache: %w", err)
	}

	var entries []model.LeaderboardEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		// A corrupt entry is treated as a miss and overwritten on the next Set.
		return nil, false, nil
	}
	return entries, true, nil
}

func (lc *LeaderboardCache) Set(ctx context.Context, gen int64, limit int, entries []model.LeaderboardEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal leaderboard: %w", err)
	}
	if err := lc.client.Set(ctx, leaderboardKey(gen, limit), data, lc.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache leaderboard: %w", err)
	}
	return nil
}

// Invalidate moves readers to a new generation. Boards of older
// generations expire with their TTL.
func (lc *LeaderboardCache) Invalidate(ctx context.Context) error {
	if err := lc.client.Incr(ctx, leaderboardGenerationKey).Err(); err != nil {
		return fmt.Errorf("failed to invalidate leaderboard cache: %w", err)
	}
	return nil
}

func leaderboardKey(gen int64, limit int) string {
	return fmt.Sprintf("%s%d:%d", leaderboardKeyPrefix, gen, limit)
}
