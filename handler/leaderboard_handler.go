package handler

import (
	"strconv"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/dto"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/usecase"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

const defaultLeaderboardLimit = 10

type LeaderboardHandler struct {
	board *usecase.LeaderboardService
}

func NewLeaderboardHandler(board *usecase.LeaderboardService) *LeaderboardHandler {
	return &LeaderboardHandler{board: board}
}

// GetLeaderboard serves GET /leaderboard?limit=&search=&filter=all|top10|top3.
func (h *LeaderboardHandler) GetLeaderboard(c *gin.Context) {
	limit := defaultLeaderboardLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 {
			utils.BadRequest(c, "limit must be a positive integer")
			return
		}
		limit = n
	}

	q := usecase.LeaderboardQuery{
		Limit:  limit,
		Search: c.Query("search"),
		Filter: c.DefaultQuery("filter", usecase.FilterAll),
	}
	entries, err := h.board.Search(c.Request.Context(), q)
	if err != nil {
		utils.RespondError(c, err)
		return
	}
	utils.Success(c, dto.ToLeaderboardResponse(entries, q.Filter, q.Search))
}
