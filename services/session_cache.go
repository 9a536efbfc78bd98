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

// SessionCache keeps active sessions in Redis so authenticated requests do
// not hit MongoDB on every call.
type SessionCache struct {
	client *redis.Client
	maxTTL time.Duration
}

func NewSessionCache(client *redis.Client, maxTTL time.Duration) *SessionCache {
	return &SessionCache{client: client, maxTTL: maxTTL}
}

// SetSession caches an individual session until it expires, capped at maxTTL.
func (sc *SessionCache) SetSession(ctx context.Context, session *model.Session) error {
	if session == nil {
		return fmt.Errorf("cannot cache nil session")
	}

	ttl := time.Until(session.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	if sc.maxTTL > 0 && ttl > sc.maxTTL {
		ttl = sc.maxTTL
	}

	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to marshal session: %w", err)
	}
	if err := sc.client.Set(ctx, sessionKey(session.SessionID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache session: %w", err)
	}
	return nil
}

// GetSession returns the cached session, or nil on a miss.
func (sc *SessionCache) GetSession(ctx context.Context, sessionID string) (*model.Session, error) {
	data, err := sc.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get session from cache: %w", err)
	}

	var session model.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, nil
	}
	if time.Now().After(session.ExpiresAt) {
		_ = sc.DeleteSession(ctx, sessionID)
		return nil, nil
	}
	return &session, nil
}

func (sc *SessionCache) DeleteSession(ctx context.Context, sessionID string) error {
	if err := sc.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to delete session from cache: %w", err)
	}
	return nil
}

func sessionKey(sessionID string) string {
	return "session:" + sessionID
}
