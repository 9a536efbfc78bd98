package usecase

import (
	"context"
	"testing"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/progression"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/testutils"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedBoard(t *testing.T, profiles *testutils.MemProfiles) {
	t.Helper()
	ctx := context.Background()
	for _, p := range []*model.UserProfile{
		{UserID: "u1", DisplayName: "Carol", Points: 50, TasksCompleted: 2},
		{UserID: "u2", DisplayName: "Bob", Points: 50, TasksCompleted: 3},
		{UserID: "u3", DisplayName: "Alice", Points: 50, TasksCompleted: 2},
		{UserID: "u4", DisplayName: "Dave", Points: 90, TasksCompleted: 4},
		{UserID: "u5", DisplayName: "Bobby", Points: 10, TasksCompleted: 1},
		{UserID: "g1", DisplayName: "Guest", Points: 500, TasksCompleted: 15, IsGuest: true},
	} {
		require.NoError(t, profiles.CreateProfile(ctx, p))
	}
}

func newBoard(t *testing.T, cache LeaderboardCache) (*LeaderboardService, *testutils.MemProfiles) {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)
	profiles := testutils.NewMemProfiles()
	seedBoard(t, profiles)
	return NewLeaderboardService(profiles, cache, cat, 100, utils.NopLogger()), profiles
}

func names(entries []model.LeaderboardEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.DisplayName
	}
	return out
}

func TestLeaderboardOrderingAndRanks(t *testing.T) {
	svc, _ := newBoard(t, nil)

	entries, err := svc.Top(context.Background(), 0)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dave", "Bob", "Alice", "Carol", "Bobby"}, names(entries))
	for i, e := range entries {
		assert.Equal(t, i+1, e.Rank)
	}
	assert.Equal(t, 27, entries[0].Percentage) // 4 of 15

	top, err := svc.Top(context.Background(), 2)
	require.NoError(t, err)
	assert.Equal(t, []string{"Dave", "Bob"}, names(top))
}

func TestLeaderboardSearchKeepsFullBoardRanks(t *testing.T) {
	svc, _ := newBoard(t, nil)
	ctx := context.Background()

	found, err := svc.Search(ctx, LeaderboardQuery{Search: "bob"})
	require.NoError(t, err)
	require.Len(t, found, 2)
	assert.Equal(t, 2, found[0].Rank)
	assert.Equal(t, 5, found[1].Rank)

	top3, err := svc.Search(ctx, LeaderboardQuery{Filter: FilterTop3})
	require.NoError(t, err)
	assert.Equal(t, []string{"Dave", "Bob", "Alice"}, names(top3))

	inTop3, err := svc.Search(ctx, LeaderboardQuery{Filter: FilterTop3, Search: "bob"})
	require.NoError(t, err)
	assert.Equal(t, []string{"Bob"}, names(inTop3))

	_, err = svc.Search(ctx, LeaderboardQuery{Filter: "top7"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}

func TestLeaderboardCache(t *testing.T) {
	cache := testutils.NewMemBoardCache()
	svc, profiles := newBoard(t, cache)
	ctx := context.Background()

	first, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	_, cached := cache.Cached(10)
	assert.True(t, cached)

	// Changes are invisible until the cache is invalidated.
	profiles.Profiles["u5"].Points = 1000
	again, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, first, again)

	svc.Invalidate(ctx)
	fresh, err := svc.Top(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, "Bobby", fresh[0].DisplayName)
	assert.Equal(t, 1, cache.Invalidated)
}

func TestLeaderboardTieBreaksOnUserID(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	profiles := testutils.NewMemProfiles()
	ctx := context.Background()
	for _, id := range []string{"u9", "u3", "u7", "u1"} {
		require.NoError(t, profiles.CreateProfile(ctx, &model.UserProfile{UserID: id, DisplayName: "Sam", Points: 10, TasksCompleted: 1}))
	}
	svc := NewLeaderboardService(profiles, nil, cat, 100, utils.NopLogger())

	entries, err := svc.Top(ctx, 0)
	require.NoError(t, err)
	ids := make([]string, len(entries))
	for i, e := range entries {
		ids[i] = e.UserID
	}
	assert.Equal(t, []string{"u1", "u3", "u7", "u9"}, ids)
}

// boardRace runs afterRead once, right after the board was read from the
// store and before it is cached.
type boardRace struct {
	*testutils.MemProfiles
	afterRead func()
}

func (r *boardRace) QueryTopProfiles(ctx context.Context, limit int) ([]*model.UserProfile, error) {
	out, err := r.MemProfiles.QueryTopProfiles(ctx, limit)
	if f := r.afterRead; f != nil {
		r.afterRead = nil
		f()
	}
	return out, err
}

func TestLeaderboardIgnoresBoardReadBeforeInvalidation(t *testing.T) {
	cat, err := catalog.Load()
	require.NoError(t, err)
	ctx := context.Background()

	users := testutils.NewMemUsers()
	profiles := testutils.NewMemProfiles()
	require.NoError(t, users.AddUser(ctx, &model.User{UserID: "u1", Email: "ada@example.com", DisplayName: "Ada"}))
	require.NoError(t, profiles.CreateProfile(ctx, progression.NewProfile("u1", "Ada", cat)))

	cache := testutils.NewMemBoardCache()
	race := &boardRace{MemProfiles: profiles}
	board := NewLeaderboardService(race, cache, cat, 100, utils.NopLogger())
	progress := NewProgressService(profiles, users, cat, board, utils.NopLogger())

	race.afterRead = func() {
		_, err := progress.CompleteTask(ctx, model.Identity{UserID: "u1", SessionID: "s1"}, 1, "day1-task1")
		require.NoError(t, err)
	}

	stale, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, stale, 1)
	assert.Equal(t, 0, stale[0].Points, "the in-flight read predates the completion")

	_, cached := cache.Cached(10)
	assert.False(t, cached, "a board read before an invalidation must not be cached")

	fresh, err := board.Top(ctx, 10)
	require.NoError(t, err)
	require.Len(t, fresh, 1)
	assert.Equal(t, 20, fresh[0].Points)
	assert.Equal(t, 20, profiles.Stored("u1").Points)
}
