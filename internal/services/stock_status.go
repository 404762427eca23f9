// internal/services/stock_status.go
package services

import (
	"github.com/stocksense/inventory-backend/internal/models"
)

// ClassifyStock maps a stock position against predicted 30-day demand.
// Ties resolve toward the more favorable status: stock equal to the predicted
// demand is Sufficient, stock equal to the reorder threshold is Low Stock.
// Pure and deterministic; no I/O.
func ClassifyStock(stockQuantity, reorderThreshold int, predicted30DaySum float64) models.StockStatus {
	if float64(stockQuantity) >= predicted30DaySum {
		return models.StockStatusSufficient
	}
	if stockQuantity >= reorderThreshold {
		return models.StockStatusLowStock
	}
	return models.StockStatusOutOfStock
}
