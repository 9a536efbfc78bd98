package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/apperr"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/progression"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/services"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/google/uuid"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrGuestModeDisabled  = errors.New("guest mode is disabled")
	ErrSessionInactive    = errors.New("session is no longer active")
	ErrTokenRevoked       = errors.New("token has been revoked")
	ErrWeakPassword       = errors.New("password must be at least 6 characters and contain a number and a special character")
	ErrInvalidDisplayName = errors.New("display name must be between 2 and 40 characters")
)

const guestNotice = "Guest progress is kept for this session only and never appears on the leaderboard"

type AuthDeps struct {
	Users    UserStore
	Profiles ProfileStore
	Sessions SessionStore
	Tokens   *services.TokenService
	Revoker  TokenRevoker // nil disables revocation checks
	Catalog  *catalog.Catalog
	Config   config.AuthConfig
	Log      *utils.Logger
}

// AuthService is the identity provider: accounts, sessions and tokens.
type AuthService struct {
	AuthDeps
	now func() time.Time
}

func NewAuthService(deps AuthDeps) *AuthService {
	return &AuthService{AuthDeps: deps, now: time.Now}
}

func (s *AuthService) CreateAccount(ctx context.Context, req model.RegisterRequest, meta model.ClientMeta) (*model.AuthResult, error) {
	const op = "create account"

	email := strings.ToLower(strings.TrimSpace(req.Email))
	name, err := cleanDisplayName(req.DisplayName)
	if err != nil {
		return nil, apperr.Validation(op, err)
	}
	if email == "" {
		return nil, apperr.Validation(op, errors.New("email is required"))
	}
	if !utils.ValidatePassword(req.Password) {
		return nil, apperr.Validation(op, ErrWeakPassword)
	}

	hash, err := services.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	now := s.now()
	user := &model.User{
		UserID:      utils.GenerateUserID(),
		Email:       email,
		DisplayName: name,
		Password:    hash,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Users.AddUser(ctx, user); err != nil {
		utils.TrackAuthAttempt("failure", "register")
		return nil, err
	}

	if err := s.createProfile(ctx, user); err != nil {
		// The identity exists; its profile is created lazily on first read.
		s.Log.Error("failed to create profile for new account", "user_id", user.UserID, "error", err)
	}

	result, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "register")
	s.Log.Info("account created", "user_id", user.UserID)
	return result, nil
}

// Authenticate checks credentials. Unknown email and wrong password fail
// with the same InvalidCredentials error.
func (s *AuthService) Authenticate(ctx context.Context, email, password string, meta model.ClientMeta) (*model.AuthResult, error) {
	const op = "authenticate"

	user, err := s.Users.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			utils.TrackAuthAttempt("failure", "login")
			return nil, apperr.New(apperr.KindInvalidCredentials, op, ErrInvalidCredentials)
		}
		return nil, err
	}
	if user.IsGuest || !services.ComparePasswords(user.Password, password) {
		utils.TrackAuthAttempt("failure", "login")
		return nil, apperr.New(apperr.KindInvalidCredentials, op, ErrInvalidCredentials)
	}

	result, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	utils.TrackAuthAttempt("success", "login")
	return result, nil
}

// StartGuestSession creates an isolated guest identity with its own profile.
// Guests never appear on the leaderboard and cannot log in again.
func (s *AuthService) StartGuestSession(ctx context.Context, meta model.ClientMeta) (*model.AuthResult, error) {
	const op = "start guest session"
	if !s.Config.GuestModeEnabled {
		utils.TrackAuthAttempt("failure", "guest")
		return nil, apperr.Validation(op, ErrGuestModeDisabled)
	}

	now := s.now()
	user := &model.User{
		UserID:      utils.GenerateGuestID(),
		DisplayName: s.Config.GuestDisplayName,
		IsGuest:     true,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.Users.AddUser(ctx, user); err != nil {
		return nil, err
	}
	if err := s.createProfile(ctx, user); err != nil {
		return nil, err
	}

	result, err := s.openSession(ctx, user, meta)
	if err != nil {
		return nil, err
	}
	result.Notice = guestNotice
	utils.TrackAuthAttempt("success", "guest")
	return result, nil
}

// Authorize validates an access token and its session and returns the
// caller identity.
func (s *AuthService) Authorize(ctx context.Context, accessToken string) (model.Identity, error) {
	const op = "authorize"

	claims, err := s.Tokens.Parse(accessToken, services.AccessToken)
	if err != nil {
		return model.Identity{}, apperr.Unauthorized(op, err)
	}
	if err := s.checkRevoked(ctx, accessToken); err != nil {
		return model.Identity{}, apperr.Unauthorized(op, err)
	}

	if _, err := s.activeSession(ctx, claims.SessionID); err != nil {
		return model.Identity{}, err
	}
	if err := s.Sessions.Touch(ctx, claims.SessionID); err != nil {
		s.Log.Warn("failed to record session activity", "session_id", claims.SessionID, "error", err)
	}

	return model.Identity{UserID: claims.UserID, SessionID: claims.SessionID, IsGuest: claims.Guest}, nil
}

// RestoreSession reports who is signed in for accessToken. An absent,
// expired or revoked token yields (nil, nil, nil); only store failures
// are returned as errors.
func (s *AuthService) RestoreSession(ctx context.Context, accessToken string) (*model.Identity, *model.User, error) {
	if accessToken == "" {
		return nil, nil, nil
	}
	identity, err := s.Authorize(ctx, accessToken)
	if err != nil {
		if apperr.Is(err, apperr.KindUnavailable) {
			return nil, nil, err
		}
		return nil, nil, nil
	}

	user, err := s.Users.FindUser(ctx, identity.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, nil, nil
		}
		return nil, nil, err
	}
	return &identity, user, nil
}

// Refresh issues a new access token for the session behind refreshToken.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*model.AuthResult, error) {
	const op = "refresh token"

	claims, err := s.Tokens.Parse(refreshToken, services.RefreshToken)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, apperr.Unauthorized(op, err)
	}
	if err := s.checkRevoked(ctx, refreshToken); err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, apperr.Unauthorized(op, err)
	}
	session, err := s.activeSession(ctx, claims.SessionID)
	if err != nil {
		utils.TrackAuthAttempt("failure", "refresh")
		return nil, err
	}

	user, err := s.Users.FindUser(ctx, session.UserID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized(op, err)
		}
		return nil, err
	}

	access, err := s.Tokens.GenerateAccess(user.UserID, session.SessionID, user.IsGuest)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	utils.TrackAuthAttempt("success", "refresh")
	utils.TokenUsage.WithLabelValues(services.AccessToken, "refreshed").Inc()

	return &model.AuthResult{User: user, Session: session, AccessToken: access, RefreshToken: refreshToken}, nil
}

// EndSession deactivates the caller's session and revokes its tokens.
// refreshToken may be empty.
func (s *AuthService) EndSession(ctx context.Context, identity model.Identity, accessToken, refreshToken string) error {
	if err := s.Sessions.EndSession(ctx, identity.SessionID); err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return err
	}

	if s.Revoker != nil {
		for tokenType, token := range map[string]string{services.AccessToken: accessToken, services.RefreshToken: refreshToken} {
			if token == "" {
				continue
			}
			exp, ok := s.Tokens.ExpiryOf(token)
			if !ok {
				continue
			}
			if err := s.Revoker.Revoke(ctx, token, tokenType, exp); err != nil {
				s.Log.Warn("failed to revoke token", "type", tokenType, "session_id", identity.SessionID, "error", err)
				continue
			}
			utils.TokenUsage.WithLabelValues(tokenType, "revoked").Inc()
		}
	}

	s.Log.Info("session ended", "user_id", identity.UserID, "session_id", identity.SessionID)
	return nil
}

// UpdateDisplayName renames the caller on both the identity and the profile.
func (s *AuthService) UpdateDisplayName(ctx context.Context, identity model.Identity, displayName string) (*model.User, error) {
	const op = "update display name"

	name, err := cleanDisplayName(displayName)
	if err != nil {
		return nil, apperr.Validation(op, err)
	}
	if err := s.Users.UpdateDisplayName(ctx, identity.UserID, name); err != nil {
		return nil, err
	}
	if err := s.Profiles.UpdateDisplayName(ctx, identity.UserID, name); err != nil && !apperr.Is(err, apperr.KindNotFound) {
		return nil, err
	}
	return s.Users.FindUser(ctx, identity.UserID)
}

func (s *AuthService) openSession(ctx context.Context, user *model.User, meta model.ClientMeta) (*model.AuthResult, error) {
	count, err := s.Sessions.CountActiveSessions(ctx, user.UserID)
	if err != nil {
		return nil, err
	}
	if count >= s.Config.MaxActiveSessions {
		if err := s.Sessions.EndLeastActiveSession(ctx, user.UserID); err != nil {
			return nil, err
		}
		s.Log.Info("ended least active session", "user_id", user.UserID, "active", count)
	}

	now := s.now()
	session := &model.Session{
		SessionID:      uuid.NewString(),
		UserID:         user.UserID,
		DisplayName:    utils.GenerateSessionName(meta.UserAgent),
		DeviceInfo:     utils.DeviceInfo(meta.UserAgent),
		IPAddress:      meta.IPAddress,
		IsGuest:        user.IsGuest,
		CreatedAt:      now,
		ExpiresAt:      now.Add(s.Config.SessionDuration),
		LastActivityAt: now,
		IsActive:       true,
	}
	if err := s.Sessions.CreateSession(ctx, session); err != nil {
		return nil, err
	}

	access, refresh, err := s.Tokens.GeneratePair(user.UserID, session.SessionID, user.IsGuest)
	if err != nil {
		return nil, fmt.Errorf("open session: %w", err)
	}
	utils.TokenUsage.WithLabelValues(services.AccessToken, "generated").Inc()
	utils.TokenUsage.WithLabelValues(services.RefreshToken, "generated").Inc()

	return &model.AuthResult{User: user, Session: session, AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) activeSession(ctx context.Context, sessionID string) (*model.Session, error) {
	const op = "check session"
	session, err := s.Sessions.GetSession(ctx, sessionID)
	if err != nil {
		if apperr.Is(err, apperr.KindNotFound) {
			return nil, apperr.Unauthorized(op, err)
		}
		return nil, err
	}
	if !session.IsActive || s.now().After(session.ExpiresAt) {
		return nil, apperr.Unauthorized(op, ErrSessionInactive)
	}
	return session, nil
}

// checkRevoked fails open when the blacklist is unreachable.
func (s *AuthService) checkRevoked(ctx context.Context, token string) error {
	if s.Revoker == nil {
		return nil
	}
	revoked, err := s.Revoker.IsRevoked(ctx, token)
	if err != nil {
		s.Log.Warn("token blacklist unavailable", "error", err)
		return nil
	}
	if revoked {
		return ErrTokenRevoked
	}
	return nil
}

func (s *AuthService) createProfile(ctx context.Context, user *model.User) error {
	profile := progression.NewProfile(user.UserID, user.DisplayName, s.Catalog)
	profile.Email = user.Email
	profile.IsGuest = user.IsGuest
	return s.Profiles.CreateProfile(ctx, profile)
}

func cleanDisplayName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if n := len([]rune(name)); n < 2 || n > 40 {
		return "", ErrInvalidDisplayName
	}
	return name, nil
}

// CurrentUser returns the identity record of the caller.
func (s *AuthService) CurrentUser(ctx context.Context, identity model.Identity) (*model.User, error) {
	return s.Users.FindUser(ctx, identity.UserID)
}
