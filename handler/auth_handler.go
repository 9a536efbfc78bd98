package handler

import (
	"errors"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/dto"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/middleware"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

type AuthHandler struct {
	auth *usecase.AuthService
}

func NewAuthHandler(auth *usecase.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

func (h *AuthHandler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Invalid registration request: email, password (6+ characters with a number and a symbol) and display name are required")
		return
	}

	res, err := h.auth.CreateAccount(c.Request.Context(), req, clientMeta(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, dto.ToAuthResponse(res, utils.GetBaseURL(c)))
}

func (h *AuthHandler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.TrackError("auth", "invalid_request")
		utils.BadRequest(c, "Invalid Request")
		return
	}

	res, err := h.auth.Authenticate(c.Request.Context(), req.Email, req.Password, clientMeta(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToAuthResponse(res, utils.GetBaseURL(c)))
}

func (h *AuthHandler) Guest(c *gin.Context) {
	res, err := h.auth.StartGuestSession(c.Request.Context(), clientMeta(c))
	if err != nil {
		if errors.Is(err, usecase.ErrGuestModeDisabled) {
			utils.Forbidden(c, "Guest mode is disabled")
			return
		}
		utils.RespondError(c, err)
		return
	}
	utils.Created(c, dto.ToAuthResponse(res, utils.GetBaseURL(c)))
}

func (h *AuthHandler) Refresh(c *gin.Context) {
	var req model.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Missing refresh token")
		return
	}

	res, err := h.auth.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToAuthResponse(res, utils.GetBaseURL(c)))
}

// Session reports whether the bearer token (if any) belongs to a live
// session. It never fails for a missing or stale token.
func (h *AuthHandler) Session(c *gin.Context) {
	identity, user, err := h.auth.RestoreSession(c.Request.Context(), middleware.BearerToken(c))
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	if identity == nil {
		utils.Success(c, dto.SessionStateResponse{Authenticated: false})
		return
	}

	u := dto.ToUserResponse(user, utils.GetBaseURL(c))
	utils.Success(c, dto.SessionStateResponse{Authenticated: true, User: &u, SessionID: identity.SessionID})
}

func (h *AuthHandler) Logout(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	// The refresh token is optional; without it only the access token is revoked.
	var req struct {
		RefreshToken string `json:"refresh_token"`
	}
	_ = c.ShouldBindJSON(&req)
	if req.RefreshToken == "" {
		req.RefreshToken = c.GetHeader("Refresh-Token")
	}

	if err := h.auth.EndSession(c.Request.Context(), identity, middleware.AccessTokenFrom(c), req.RefreshToken); err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, gin.H{"message": "Successfully logged out"})
}

func clientMeta(c *gin.Context) model.ClientMeta {
	return model.ClientMeta{UserAgent: c.Request.UserAgent(), IPAddress: c.ClientIP()}
}
