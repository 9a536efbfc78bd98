package usecase

import (
	"context"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
)

// UserStore is the identity record store. repository.UserRepo satisfies it.
type UserStore interface {
	AddUser(ctx context.Context, user *model.User) error
	FindByEmail(ctx context.Context, email string) (*model.User, error)
	FindUser(ctx context.Context, userID string) (*model.User, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}

// ProfileStore is the progress store. repository.ProfileRepo satisfies it.
type ProfileStore interface {
	GetProfile(ctx context.Context, userID string) (*model.UserProfile, error)
	CreateProfile(ctx context.Context, profile *model.UserProfile) error
	WriteProfile(ctx context.Context, profile *model.UserProfile, expectedVersion int64) error
	QueryTopProfiles(ctx context.Context, limit int) ([]*model.UserProfile, error)
	UpdateDisplayName(ctx context.Context, userID, displayName string) error
}

type SessionStore interface {
	CreateSession(ctx context.Context, session *model.Session) error
	GetSession(ctx context.Context, sessionID string) (*model.Session, error)
	Touch(ctx context.Context, sessionID string) error
	EndSession(ctx context.Context, sessionID string) error
	EndLeastActiveSession(ctx context.Context, userID string) error
	CountActiveSessions(ctx context.Context, userID string) (int, error)
}

// TokenRevoker is the token blacklist. services.RedisTokenBlacklist satisfies it.
type TokenRevoker interface {
	Revoke(ctx context.Context, token, tokenType string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, token string) (bool, error)
}

// LeaderboardCache is satisfied by services.LeaderboardCache.
type LeaderboardCache interface {
	Generation(ctx context.Context) (int64, error)
	Get(ctx context.Context, gen int64, limit int) ([]model.LeaderboardEntry, bool, error)
	Set(ctx context.Context, gen int64, limit int, entries []model.LeaderboardEntry) error
	Invalidate(ctx context.Context) error
}
