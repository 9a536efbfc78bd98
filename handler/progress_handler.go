package handler

import (
	"strings"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/dto"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/middleware"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

type ProgressHandler struct {
	progress *usecase.ProgressService
}

func NewProgressHandler(progress *usecase.ProgressService) *ProgressHandler {
	return &ProgressHandler{progress: progress}
}

func (h *ProgressHandler) GetProgress(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}

	ov, err := h.progress.Overview(c.Request.Context(), identity)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToProgressResponse(ov, utils.GetBaseURL(c)))
}

func (h *ProgressHandler) GetDay(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	dayID, ok := dayParam(c)
	if !ok {
		return
	}

	view, err := h.progress.DayView(c.Request.Context(), identity, dayID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToDayProgressResponse(view, utils.GetBaseURL(c)))
}

// CompleteTask is safe to retry: completing a task twice returns 200 with
// changed=false and no points awarded.
func (h *ProgressHandler) CompleteTask(c *gin.Context) {
	identity, ok := middleware.IdentityFrom(c)
	if !ok {
		utils.Unauthorized(c, "Missing or invalid token")
		return
	}
	dayID, ok := dayParam(c)
	if !ok {
		return
	}
	taskID := strings.TrimSpace(c.Param("taskId"))
	if taskID == "" {
		utils.BadRequest(c, "Invalid task id")
		return
	}

	completion, err := h.progress.CompleteTask(c.Request.Context(), identity, dayID, taskID)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToCompletionResponse(completion, utils.GetBaseURL(c)))
}
