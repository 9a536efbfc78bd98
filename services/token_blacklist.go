package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisTokenBlacklist stores revoked tokens until they would have expired.
type RedisTokenBlacklist struct {
	client *redis.Client
}

func NewTokenBlacklist(client *redis.Client) *RedisTokenBlacklist {
	return &RedisTokenBlacklist{client: client}
}

// Revoke blacklists token until expiresAt. Tokens that are already expired
// are ignored.
func (tb *RedisTokenBlacklist) Revoke(ctx context.Context, token, tokenType string, expiresAt time.Time) error {
	ttl := time.Until(expiresAt)
	if ttl <= 0 {
		return nil
	}
	if err := tb.client.Set(ctx, blacklistKey(tokenType, token), "1", ttl).Err(); err != nil {
		return fmt.Errorf("failed to blacklist %s token: %w", tokenType, err)
	}
	return nil
}

// IsRevoked checks both access and refresh blacklists in one round trip.
func (tb *RedisTokenBlacklist) IsRevoked(ctx context.Context, token string) (bool, error) {
	pipe := tb.client.Pipeline()
	accessCmd := pipe.Exists(ctx, blacklistKey(AccessToken, token))
	refreshCmd := pipe.Exists(ctx, blacklistKey(RefreshToken, token))
	if _, err := pipe.Exec(ctx); err != nil {
		return false, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	return accessCmd.Val() > 0 || refreshCmd.Val() > 0, nil
}

func (tb *RedisTokenBlacklist) Ping(ctx context.Context) error {
	return tb.client.Ping(ctx).Err()
}

func blacklistKey(tokenType, token string) string {
	sum := sha256.Sum256([]byte(token))
	return fmt.Sprintf("blacklist:%s:%s", tokenType, hex.EncodeToString(sum[:]))
}
