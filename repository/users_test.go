package repository

import (
	"context"
	"testing"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/testutils"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserRepo(t *testing.T) {
	db := testutils.MongoDatabase(t)
	cfg := testutils.DatabaseConfig(db)
	require.NoError(t, SetupIndexes(context.Background(), db, cfg))
	repo := NewUserRepo(db, cfg)
	ctx := context.Background()

	user := &model.User{UserID: "u1", Email: " Ada@Example.com ", DisplayName: "Ada", Password: "salt$hash", CreatedAt: time.Now()}
	require.NoError(t, repo.AddUser(ctx, user))

	found, err := repo.FindByEmail(ctx, "ada@example.com")
	require.NoError(t, err)
	assert.Equal(t, "u1", found.UserID)

	err = repo.AddUser(ctx, &model.User{UserID: "u2", Email: "ADA@example.com", Password: "x$y"})
	assert.True(t, apperr.Is(err, apperr.KindAccountExists))

	// Guests share the empty email without tripping the unique index.
	require.NoError(t, repo.AddUser(ctx, &model.User{UserID: "g1", IsGuest: true}))
	require.NoError(t, repo.AddUser(ctx, &model.User{UserID: "g2", IsGuest: true}))

	_, err = repo.FindByEmail(ctx, "nobody@example.com")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	require.NoError(t, repo.UpdateDisplayName(ctx, "u1", "Ada L."))
	found, err = repo.FindUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "Ada L.", found.DisplayName)
}

func TestSessionRepo(t *testing.T) {
	db := testutils.MongoDatabase(t)
	cfg := testutils.DatabaseConfig(db)
	require.NoError(t, SetupIndexes(context.Background(), db, cfg))
	repo := NewSessionRepo(db, cfg, nil, utils.NopLogger())
	ctx := context.Background()

	now := time.Now()
	for i, id := range []string{"s-old", "s-new"} {
		require.NoError(t, repo.CreateSession(ctx, &model.Session{
			SessionID:      id,
			UserID:         "u1",
			IsActive:       true,
			CreatedAt:      now,
			ExpiresAt:      now.Add(time.Hour),
			LastActivityAt: now.Add(time.Duration(i) * time.Minute),
		}))
	}

	count, err := repo.CountActiveSessions(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	require.NoError(t, repo.EndLeastActiveSession(ctx, "u1"))
	old, err := repo.GetSession(ctx, "s-old")
	require.NoError(t, err)
	assert.False(t, old.IsActive)

	active, err := repo.GetUserActiveSessions(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "s-new", active[0].SessionID)

	_, err = repo.GetSession(ctx, "missing")
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}
