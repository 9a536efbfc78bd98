package middleware

import (
	"context"
	"strings"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

const (
	identityKey    = "identity"
	accessTokenKey = "access_token"
)

// Authorizer resolves an access token to the caller. usecase.AuthService
// satisfies it.
type Authorizer interface {
	Authorize(ctx context.Context, accessToken string) (model.Identity, error)
}

// AuthMiddleware rejects requests without a valid bearer token and stores
// the caller identity on the context.
func AuthMiddleware(auth Authorizer) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := BearerToken(c)
		if token == "" {
			utils.TrackAuthAttempt("failure", "access")
			utils.Unauthorized(c, "Missing or invalid token")
			return
		}

		identity, err := auth.Authorize(c.Request.Context(), token)
		if err != nil {
			utils.TrackAuthAttempt("failure", "access")
			utils.RespondError(c, err)
			return
		}

		c.Set(identityKey, identity)
		c.Set("user_id", identity.UserID)
		c.Set(accessTokenKey, token)
		c.Next()
	}
}

// BearerToken returns the token of an "Authorization: Bearer" header, or "".
func BearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if !strings.HasPrefix(authHeader, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(authHeader, "Bearer "))
}

// IdentityFrom returns the identity stored by AuthMiddleware.
func IdentityFrom(c *gin.Context) (model.Identity, bool) {
	v, ok := c.Get(identityKey)
	if !ok {
		return model.Identity{}, false
	}
	identity, ok := v.(model.Identity)
	return identity, ok
}

// AccessTokenFrom returns the bearer token AuthMiddleware accepted.
func AccessTokenFrom(c *gin.Context) string {
	return c.GetString(accessTokenKey)
}
