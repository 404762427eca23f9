// internal/models/inventory.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// InventoryRecord holds the current stock position for a product. Exactly one
// record per product; submissions upsert in place.
type InventoryRecord struct {
	BaseModel
	ProductID        uuid.UUID `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	StockQuantity    int       `json:"stock_quantity" gorm:"not null"`
	ReorderThreshold int       `json:"reorder_threshold" gorm:"default:20"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}

// InventoryForecast is the persisted result of a forecast ingestion: the raw
// 365-point demand series plus everything derived from it. Replaced wholesale
// on re-ingestion, never patched field by field.
type InventoryForecast struct {
	BaseModel
	ProductID         uuid.UUID       `json:"product_id" gorm:"type:uuid;uniqueIndex;not null"`
	PredictionData    pq.Float64Array `json:"prediction_data" gorm:"type:float8[];not null"`
	Analysis          string          `json:"analysis" gorm:"type:text"`
	StartDate         time.Time       `json:"start_date" gorm:"not null"`
	EndDate           time.Time       `json:"end_date" gorm:"not null"`
	StockStatus       StockStatus     `json:"stock_status" gorm:"type:varchar(20);not null"`
	MonthlyAggregates pq.Float64Array `json:"monthly_aggregates" gorm:"type:float8[]"`

	Product Product `json:"product,omitempty" gorm:"foreignKey:ProductID"`
}
