package handler

import (
	"strconv"

	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/catalog"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/dto"
	"github.com/TheWooSpot/Sprint-Workshop-Education-Platform/utils"

	"github.com/gin-gonic/gin"
)

type CatalogHandler struct {
	catalog *catalog.Catalog
}

func NewCatalogHandler(cat *catalog.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: cat}
}

func (h *CatalogHandler) GetCatalog(c *gin.Context) {
	utils.Success(c, dto.ToCatalogResponse(h.catalog, utils.GetBaseURL(c)))
}

func (h *CatalogHandler) GetDay(c *gin.Context) {
	dayID, ok := dayParam(c)
	if !ok {
		return
	}
	day, err := h.catalog.Day(dayID)
	if err != nil {
		utils.NotFound(c, err.Error())
		return
	}
	utils.Success(c, dto.ToDayResponse(day, utils.GetBaseURL(c)))
}

// dayParam parses :dayId and writes a 400 when it is not a positive integer.
func dayParam(c *gin.Context) (int, bool) {
	dayID, err := strconv.Atoi(c.Param("dayId"))
	if err != nil || dayID < 1 {
		utils.BadRequest(c, "Invalid day id")
		return 0, false
	}
	return dayID, true
}
