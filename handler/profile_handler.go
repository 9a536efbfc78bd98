package handler

import (
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/dto"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/middleware"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/model"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

type ProfileHandler struct {
	auth  *usecase.AuthService
	board *usecase.LeaderboardService
}

func NewProfileHandler(auth *usecase.AuthService, board *usecase.LeaderboardService) *ProfileHandler {
	return &ProfileHandler{auth: auth, board: board}
}

func (h *ProfileHandler) GetProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	user, err := h.auth.CurrentUser(c.Request.Context(), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToUserResponse(user, utils.GetBaseURL(c)))
}

func (h *ProfileHandler) UpdateProfile(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	var req model.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequest(c, "Display name must be between 2 and 40 characters")
		return
	}

	user, err := h.auth.UpdateDisplayName(c.Request.Context(), identity, req.DisplayName)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	h.board.Invalidate(c.Request.Context())
	utils.Success(c, dto.ToUserResponse(user, utils.GetBaseURL(c)))
}
