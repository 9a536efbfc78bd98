package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/services"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/testutils"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc      *AuthService
	users    *testutils.MemUsers
	profiles *testutils.MemProfiles
	sessions *testutils.MemSessions
	revoker  *testutils.MemRevoker
}

func newAuthFixture(t *testing.T) *authFixture {
	t.Helper()
	cat, err := catalog.Load()
	require.NoError(t, err)

	f := &authFixture{
		users:    testutils.NewMemUsers(),
		profiles: testutils.NewMemProfiles(),
		sessions: testutils.NewMemSessions(),
		revoker:  testutils.NewMemRevoker(),
	}
	cfg := testutils.AuthConfig()
	f.svc = NewAuthService(AuthDeps{
		Users:    f.users,
		Profiles: f.profiles,
		Sessions: f.sessions,
		Tokens:   services.NewTokenService(cfg),
		Revoker:  f.revoker,
		Catalog:  cat,
		Config:   cfg,
		Log:      utils.NopLogger(),
	})
	return f
}

var meta = model.ClientMeta{
	UserAgent: "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	IPAddress: "127.0.0.1",
}

func register(t *testing.T, f *authFixture, email string) *model.AuthResult {
	t.Helper()
	res, err := f.svc.CreateAccount(context.Background(), model.RegisterRequest{
		Email:       email,
		Password:    "pass1!word",
		DisplayName: "Ada",
	}, meta)
	require.NoError(t, err)
	return res
}

func TestCreateAccount(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "Ada@Example.com")

	assert.Equal(t, "ada@example.com", res.User.Email)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Contains(t, res.Session.DisplayName, "Chrome")

	profile := f.profiles.Stored(res.User.UserID)
	require.NotNil(t, profile)
	assert.Len(t, profile.Progress, 3)
	assert.Zero(t, profile.Points)

	stored, err := f.users.FindUser(context.Background(), res.User.UserID)
	require.NoError(t, err)
	assert.NotEqual(t, "pass1!word", stored.Password)
}

func TestCreateAccountRejections(t *testing.T) {
	f := newAuthFixture(t)
	register(t, f, "ada@example.com")
	ctx := context.Background()

	_, err := f.svc.CreateAccount(ctx, model.RegisterRequest{Email: "ada@example.com", Password: "pass1!word", DisplayName: "Ada"}, meta)
	assert.True(t, apperr.Is(err, apperr.KindAccountExists))

	_, err = f.svc.CreateAccount(ctx, model.RegisterRequest{Email: "bob@example.com", Password: "weak", DisplayName: "Bob"}, meta)
	assert.ErrorIs(t, err, ErrWeakPassword)

	_, err = f.svc.CreateAccount(ctx, model.RegisterRequest{Email: "bob@example.com", Password: "pass1!word", DisplayName: " B "}, meta)
	assert.ErrorIs(t, err, ErrInvalidDisplayName)
}

func TestAuthenticate(t *testing.T) {
	f := newAuthFixture(t)
	register(t, f, "ada@example.com")
	ctx := context.Background()

	res, err := f.svc.Authenticate(ctx, "ada@example.com", "pass1!word", meta)
	require.NoError(t, err)
	assert.Equal(t, "Ada", res.User.DisplayName)

	_, wrongPassword := f.svc.Authenticate(ctx, "ada@example.com", "nope1!pass", meta)
	_, unknownEmail := f.svc.Authenticate(ctx, "who@example.com", "pass1!word", meta)
	for _, err := range []error{wrongPassword, unknownEmail} {
		assert.True(t, apperr.Is(err, apperr.KindInvalidCredentials))
		assert.ErrorIs(t, err, ErrInvalidCredentials)
	}
	assert.Equal(t, wrongPassword.Error(), unknownEmail.Error())
}

func TestSessionLimitEndsLeastActive(t *testing.T) {
	f := newAuthFixture(t)
	first := register(t, f, "ada@example.com")
	ctx := context.Background()

	// Make the registration session the least recently active one.
	f.sessions.Sessions[first.Session.SessionID].LastActivityAt = time.Now().Add(-time.Hour)

	for i := 0; i < 5; i++ {
		_, err := f.svc.Authenticate(ctx, "ada@example.com", "pass1!word", meta)
		require.NoError(t, err)
	}

	count, err := f.sessions.CountActiveSessions(ctx, first.User.UserID)
	require.NoError(t, err)
	assert.Equal(t, 5, count)

	_, err = f.svc.Authorize(ctx, first.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
}

func TestAuthorizeAndRestoreSession(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "ada@example.com")
	ctx := context.Background()

	identity, err := f.svc.Authorize(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.UserID, identity.UserID)
	assert.Equal(t, res.Session.SessionID, identity.SessionID)

	_, err = f.svc.Authorize(ctx, res.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "refresh token used as access token")

	got, user, err := f.svc.RestoreSession(ctx, res.AccessToken)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Ada", user.DisplayName)

	for _, token := range []string{"", "garbage"} {
		got, user, err = f.svc.RestoreSession(ctx, token)
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.Nil(t, user)
	}
}

func TestEndSessionRevokesTokens(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "ada@example.com")
	ctx := context.Background()

	identity, err := f.svc.Authorize(ctx, res.AccessToken)
	require.NoError(t, err)
	require.NoError(t, f.svc.EndSession(ctx, identity, res.AccessToken, res.RefreshToken))

	assert.True(t, f.revoker.Revoked[res.AccessToken])
	assert.True(t, f.revoker.Revoked[res.RefreshToken])

	_, err = f.svc.Authorize(ctx, res.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	_, err = f.svc.Refresh(ctx, res.RefreshToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized))

	got, _, err := f.svc.RestoreSession(ctx, res.AccessToken)
	assert.NoError(t, err)
	assert.Nil(t, got)
}

func TestRevokerOutageFailsOpen(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "ada@example.com")
	f.revoker.Err = errors.New("redis down")

	_, err := f.svc.Authorize(context.Background(), res.AccessToken)
	assert.NoError(t, err)
}

func TestRefresh(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "ada@example.com")
	ctx := context.Background()

	refreshed, err := f.svc.Refresh(ctx, res.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, refreshed.AccessToken)
	assert.Equal(t, res.RefreshToken, refreshed.RefreshToken)

	_, err = f.svc.Authorize(ctx, refreshed.AccessToken)
	assert.NoError(t, err)

	_, err = f.svc.Refresh(ctx, res.AccessToken)
	assert.True(t, apperr.Is(err, apperr.KindUnauthorized), "access token used as refresh token")
}

func TestGuestSession(t *testing.T) {
	f := newAuthFixture(t)
	ctx := context.Background()

	res, err := f.svc.StartGuestSession(ctx, meta)
	require.NoError(t, err)
	assert.True(t, res.User.IsGuest)
	assert.NotEmpty(t, res.Notice)

	identity, err := f.svc.Authorize(ctx, res.AccessToken)
	require.NoError(t, err)
	assert.True(t, identity.IsGuest)
	assert.True(t, f.profiles.Stored(res.User.UserID).IsGuest)

	f.svc.Config.GuestModeEnabled = false
	_, err = f.svc.StartGuestSession(ctx, meta)
	assert.ErrorIs(t, err, ErrGuestModeDisabled)
}

func TestUpdateDisplayName(t *testing.T) {
	f := newAuthFixture(t)
	res := register(t, f, "ada@example.com")
	ctx := context.Background()
	identity := model.Identity{UserID: res.User.UserID, SessionID: res.Session.SessionID}

	user, err := f.svc.UpdateDisplayName(ctx, identity, "  Ada Lovelace ")
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", user.DisplayName)
	assert.Equal(t, "Ada Lovelace", f.profiles.Stored(res.User.UserID).DisplayName)

	_, err = f.svc.UpdateDisplayName(ctx, identity, "x")
	assert.True(t, apperr.Is(err, apperr.KindValidation))
}
