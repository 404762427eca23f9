// internal/repository/product_repository.go
package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocksense/inventory-backend/internal/models"
	"github.com/stocksense/inventory-backend/internal/services"
)

// ProductRepository is the GORM-backed ProductDirectory used by the
// enrichment pipeline.
type ProductRepository struct {
	db *gorm.DB
}

func NewProductRepository(db *gorm.DB) *ProductRepository {
	return &ProductRepository{db: db}
}

func (r *ProductRepository) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, services.ErrNotFound)
		}
		return nil, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	return &product, nil
}

// ListEnrichable returns the operator's products carrying a dataset URL, in
// creation order. An empty operator email widens the scope to every product
// with a dataset.
func (r *ProductRepository) ListEnrichable(ctx context.Context, operatorEmail string) ([]models.Product, error) {
	query := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("dataset_url <> ''").
		Order("created_at ASC")

	if operatorEmail != "" {
		query = query.Joins("JOIN users ON users.id = products.user_id").
			Where("users.email = ?", operatorEmail)
	}

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, fmt.Errorf("%w: %v", services.ErrPersistence, err)
	}
	return products, nil
}

func (r *ProductRepository) UpdateDatasetURL(ctx context.Context, id uuid.UUID, url string) error {
	result := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", id).
		UpdateColumn("dataset_url", url)
	if result.Error != nil {
		return fmt.Errorf("%w: %v", services.ErrPersistence, result.Error)
	}
	if result.RowsAffected == 0 {
		return fmt.Errorf("product %s: %w", id, services.ErrNotFound)
	}
	return nil
}
