// internal/repository/inventory_repository.go
package repository

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocksense/inventory-backend/internal/models"
	"github.com/stocksense/inventory-backend/internal/services"
)

// InventoryRepository is the GORM-backed InventoryRecordStore.
type InventoryRepository struct {
	db *gorm.DB
}

func NewInventoryRepository(db *gorm.DB) *InventoryRepository {
	return &InventoryRepository{db: db}
}

func (r *InventoryRepository) GetByProduct(productID uuid.UUID) (*models.InventoryRecord, error) {
	var record models.InventoryRecord
	if err := r.db.Where("product_id = ?", productID).First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("inventory record for product %s: %w", productID, services.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	return &record, nil
}

func (r *InventoryRepository) Upsert(record *models.InventoryRecord) (bool, error) {
	var existing models.InventoryRecord
	err := r.db.Where("product_id = ?", record.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(record).Error; err != nil {
			return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}

	existing.StockQuantity = record.StockQuantity
	existing.ReorderThreshold = record.ReorderThreshold
	if err := r.db.Save(&existing).Error; err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	*record = existing
	return false, nil
}

// ForecastRepository is the GORM-backed ForecastStore.
type ForecastRepository struct {
	db *gorm.DB
}

func NewForecastRepository(db *gorm.DB) *ForecastRepository {
	return &ForecastRepository{db: db}
}

func (r *ForecastRepository) GetByProduct(productID uuid.UUID) (*models.InventoryForecast, error) {
	var forecast models.InventoryForecast
	if err := r.db.Where("product_id = ?", productID).First(&forecast).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("forecast for product %s: %w", productID, services.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	return &forecast, nil
}

// Upsert replaces the stored forecast wholesale, keeping only the row
// identity of an existing record.
func (r *ForecastRepository) Upsert(forecast *models.InventoryForecast) (bool, error) {
	var existing models.InventoryForecast
	err := r.db.Where("product_id = ?", forecast.ProductID).First(&existing).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := r.db.Create(forecast).Error; err != nil {
			return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
		}
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}

	forecast.ID = existing.ID
	forecast.CreatedAt = existing.CreatedAt
	if err := r.db.Save(forecast).Error; err != nil {
		return false, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	return false, nil
}
