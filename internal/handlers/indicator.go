// internal/handlers/indicator.go
package handlers

import (
	"errors"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/stocksense/inventory-backend/internal/models"
	"github.com/stocksense/inventory-backend/internal/services"
	"github.com/stocksense/inventory-backend/internal/utils"
)

type IndicatorHandler struct {
	indicatorService *services.IndicatorService
}

func NewIndicatorHandler(indicatorService *services.IndicatorService) *IndicatorHandler {
	return &IndicatorHandler{indicatorService: indicatorService}
}

// POST /economic-indicators
func (h *IndicatorHandler) Create(c *gin.Context) {
	var indicator models.EconomicIndicator
	if err := c.ShouldBindJSON(&indicator); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	saved, err := h.indicatorService.Create(&indicator)
	if err != nil {
		if strings.Contains(err.Error(), "already exists") {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.CreatedResponse(c, saved)
}

// GET /economic-indicators
func (h *IndicatorHandler) Get(c *gin.Context) {
	aggregated, err := h.indicatorService.GetAggregated()
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{"economic_indicators": aggregated})
}

// PATCH /economic-indicators
func (h *IndicatorHandler) Update(c *gin.Context) {
	var updates map[string]models.YearSeries
	if err := c.ShouldBindJSON(&updates); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	indicator, err := h.indicatorService.Merge(updates)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "Economic indicator document not found")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, indicator)
}

// DELETE /economic-indicators
func (h *IndicatorHandler) DeleteAll(c *gin.Context) {
	if err := h.indicatorService.DeleteAll(); err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "All indicators deleted"})
}
