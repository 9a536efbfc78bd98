package services

import (
	"errors"
	"fmt"
	"time"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/config"

	"github.com/golang-jwt/jwt/v5"
)

const (
	AccessToken  = "access"
	RefreshToken = "refresh"
)

var (
	ErrInvalidToken   = errors.New("invalid token")
	ErrWrongTokenType = errors.New("wrong token type")
)

// Claims is the payload of both access and refresh tokens.
type Claims struct {
	UserID    string `json:"user_id"`
	SessionID string `json:"session_id"`
	Type      string `json:"type"`
	Guest     bool   `json:"guest,omitempty"`
	jwt.RegisteredClaims
}

type TokenService struct {
	secret     []byte
	issuer     string
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
}

func NewTokenService(cfg config.AuthConfig) *TokenService {
	return &TokenService{
		secret:     []byte(cfg.JWTSecretKey),
		issuer:     cfg.Issuer,
		accessTTL:  cfg.AccessTokenTTL,
		refreshTTL: cfg.RefreshTokenTTL,
		now:        time.Now,
	}
}

// GeneratePair issues an access and a refresh token bound to one session.
func (ts *TokenService) GeneratePair(userID, sessionID string, guest bool) (access, refresh string, err error) {
	access, err = ts.generate(userID, sessionID, guest, AccessToken, ts.accessTTL)
	if err != nil {
		return "", "", err
	}
	refresh, err = ts.generate(userID, sessionID, guest, RefreshToken, ts.refreshTTL)
	if err != nil {
		return "", "", err
	}
	return access, refresh, nil
}

func (ts *TokenService) GenerateAccess(userID, sessionID string, guest bool) (string, error) {
	return ts.generate(userID, sessionID, guest, AccessToken, ts.accessTTL)
}

func (ts *TokenService) generate(userID, sessionID string, guest bool, tokenType string, ttl time.Duration) (string, error) {
	now := ts.now()
	claims := Claims{
		UserID:    userID,
		SessionID: sessionID,
		Type:      tokenType,
		Guest:     guest,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    ts.issuer,
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ts.secret)
	if err != nil {
		return "", fmt.Errorf("sign %s token: %w", tokenType, err)
	}
	return signed, nil
}

// Parse validates signature, issuer, expiry and token type.
func (ts *TokenService) Parse(tokenString, wantType string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return ts.secret, nil
	},
		jwt.WithIssuer(ts.issuer),
		jwt.WithTimeFunc(ts.now),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.UserID == "" || claims.SessionID == "" {
		return nil, ErrInvalidToken
	}
	if claims.Type != wantType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

// ExpiryOf returns the expiry of a token without validating it. Used to size
// blacklist entries for tokens that may already be expired.
func (ts *TokenService) ExpiryOf(tokenString string) (time.Time, bool) {
	claims := &Claims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil || claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}
