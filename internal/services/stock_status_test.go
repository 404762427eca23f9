// internal/services/stock_status_test.go
package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/stocksense/inventory-backend/internal/models"
)

func TestClassifyStock(t *testing.T) {
	tests := []struct {
		name       string
		stock      int
		threshold  int
		predicted  float64
		wantStatus models.StockStatus
	}{
		{"stock covers demand", 100, 20, 50, models.StockStatusSufficient},
		{"stock exactly equals demand", 50, 20, 50, models.StockStatusSufficient},
		{"below demand above threshold", 40, 20, 50, models.StockStatusLowStock},
		{"stock exactly at threshold", 20, 20, 50, models.StockStatusLowStock},
		{"below threshold", 10, 20, 50, models.StockStatusOutOfStock},
		{"zero stock", 0, 20, 50, models.StockStatusOutOfStock},
		{"zero demand is always covered", 0, 20, 0, models.StockStatusSufficient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ClassifyStock(tt.stock, tt.threshold, tt.predicted)
			assert.Equal(t, tt.wantStatus, got)
		})
	}
}

// One set of inputs must walk through all three statuses as stock drains.
func TestClassifyStockTransitions(t *testing.T) {
	const threshold = 20
	const predicted = 50.0

	assert.Equal(t, models.StockStatusSufficient, ClassifyStock(100, threshold, predicted))
	assert.Equal(t, models.StockStatusLowStock, ClassifyStock(40, threshold, predicted))
	assert.Equal(t, models.StockStatusOutOfStock, ClassifyStock(10, threshold, predicted))
}
