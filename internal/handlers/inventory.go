// internal/handlers/inventory.go
package handlers

import (
	"errors"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocksense/inventory-backend/internal/services"
	"github.com/stocksense/inventory-backend/internal/utils"
)

type InventoryHandler struct {
	forecastService *services.ForecastService
}

func NewInventoryHandler(forecastService *services.ForecastService) *InventoryHandler {
	return &InventoryHandler{forecastService: forecastService}
}

type submitInventoryBody struct {
	ProductID        string `json:"product_id" binding:"required"`
	StockQuantity    int    `json:"stock_quantity"`
	ReorderThreshold int    `json:"reorder_threshold"`
}

type submitForecastBody struct {
	ProductID  string    `json:"product_id" binding:"required"`
	Prediction []float64 `json:"prediction" binding:"required"`
	StartDate  string    `json:"start_date" binding:"required"`
	EndDate    string    `json:"end_date" binding:"required"`
	Analysis   string    `json:"analysis"`
}

// POST /inventory
func (h *InventoryHandler) SubmitInventory(c *gin.Context) {
	var body submitInventoryBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	productID, err := uuid.Parse(body.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	created, err := h.forecastService.SubmitInventory(&services.SubmitInventoryRequest{
		ProductID:        productID,
		StockQuantity:    body.StockQuantity,
		ReorderThreshold: body.ReorderThreshold,
	})
	if err != nil {
		if errors.Is(err, services.ErrValidation) {
			utils.BadRequestResponse(c, err.Error(), nil)
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	if created {
		utils.CreatedResponse(c, gin.H{"message": "Inventory input saved"})
		return
	}
	utils.SuccessResponse(c, gin.H{"message": "Inventory updated"})
}

// POST /inventory/forecast
func (h *InventoryHandler) SubmitForecast(c *gin.Context) {
	var body submitForecastBody
	if err := c.ShouldBindJSON(&body); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	productID, err := uuid.Parse(body.ProductID)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	startDate, err := parseDate(body.StartDate)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid start date", nil)
		return
	}
	endDate, err := parseDate(body.EndDate)
	if err != nil {
		utils.BadRequestResponse(c, "Invalid end date", nil)
		return
	}

	result, err := h.forecastService.IngestForecast(&services.IngestForecastRequest{
		ProductID:  productID,
		Prediction: body.Prediction,
		StartDate:  startDate,
		EndDate:    endDate,
		Analysis:   body.Analysis,
	})
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			utils.BadRequestResponse(c, err.Error(), nil)
		case errors.Is(err, services.ErrNotFound):
			utils.NotFoundResponse(c, "No inventory input found for this product")
		default:
			utils.InternalErrorResponse(c, err.Error())
		}
		return
	}

	payload := gin.H{
		"message":      "Forecast updated",
		"stock_status": result.StockStatus,
	}
	if result.Created {
		payload["message"] = "Forecast saved"
		utils.CreatedResponse(c, payload)
		return
	}
	utils.SuccessResponse(c, payload)
}

// GET /inventory/report/:productId
func (h *InventoryHandler) GetReport(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	report, err := h.forecastService.GetReport(productID)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			utils.NotFoundResponse(c, "Data not found for this product")
			return
		}
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, report)
}

func parseDate(value string) (time.Time, error) {
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}
