// internal/services/product_service.go
package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/stocksense/inventory-backend/internal/models"
	"github.com/stocksense/inventory-backend/internal/utils"
)

type ProductService struct {
	db      *gorm.DB
	storage DatasetStore
}

type CreateProductRequest struct {
	Name        string       `json:"name" validate:"required,min=1,max=255"`
	Category    string       `json:"category" validate:"required"`
	SubCategory string       `json:"sub_category,omitempty"`
	Brand       string       `json:"brand,omitempty"`
	Description string       `json:"description,omitempty"`
	Price       float64      `json:"price" validate:"min=0"`
	Stock       int          `json:"stock" validate:"min=0"`
	Promotions  models.JSONB `json:"promotions,omitempty"`
	Competitors models.JSONB `json:"competitors,omitempty"`
}

func NewProductService(db *gorm.DB, storage DatasetStore) *ProductService {
	return &ProductService{db: db, storage: storage}
}

func (s *ProductService) CreateProduct(userID uuid.UUID, req *CreateProductRequest) (*models.Product, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	product := &models.Product{
		UserID:      userID,
		Name:        req.Name,
		Category:    req.Category,
		SubCategory: req.SubCategory,
		Brand:       req.Brand,
		Description: req.Description,
		Price:       req.Price,
		Stock:       req.Stock,
		Promotions:  req.Promotions,
		Competitors: req.Competitors,
	}

	if err := s.db.Create(product).Error; err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	return product, nil
}

func (s *ProductService) GetUserProducts(userID uuid.UUID, params utils.PaginationParams) ([]models.Product, int64, error) {
	query := s.db.Model(&models.Product{}).Where("user_id = ?", userID)

	if params.Category != "" {
		query = query.Where("category = ?", params.Category)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "name", "price", "stock"}
	query = utils.ApplySort(query, params, allowedSortFields)
	query = utils.ApplyPagination(query, params)

	var products []models.Product
	if err := query.Find(&products).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch products: %w", err)
	}

	return products, total, nil
}

func (s *ProductService) GetProduct(id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := s.db.First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("product %s: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &product, nil
}

// AttachDataset uploads a product's demand dataset and points the product at
// it. Ownership is checked before touching the store.
func (s *ProductService) AttachDataset(ctx context.Context, productID, userID uuid.UUID, data []byte) (string, error) {
	product, err := s.ownedProduct(productID, userID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, data, UploadOptions{Folder: "datasets", ContentType: "text/csv"})
	if err != nil {
		return "", fmt.Errorf("%w: upload: %v", ErrUpstreamStore, err)
	}

	if err := s.db.Model(product).UpdateColumn("dataset_url", url).Error; err != nil {
		return "", fmt.Errorf("%w: failed to save dataset reference: %v", ErrPersistence, err)
	}
	return url, nil
}

// AttachImage uploads a product image and stores its URL.
func (s *ProductService) AttachImage(ctx context.Context, productID, userID uuid.UUID, data []byte, contentType string) (string, error) {
	product, err := s.ownedProduct(productID, userID)
	if err != nil {
		return "", err
	}

	url, err := s.storage.Upload(ctx, data, UploadOptions{Folder: "products", ContentType: contentType})
	if err != nil {
		return "", fmt.Errorf("%w: upload: %v", ErrUpstreamStore, err)
	}

	if err := s.db.Model(product).UpdateColumn("image_url", url).Error; err != nil {
		return "", fmt.Errorf("%w: failed to save image reference: %v", ErrPersistence, err)
	}
	return url, nil
}

func (s *ProductService) ownedProduct(productID, userID uuid.UUID) (*models.Product, error) {
	product, err := s.GetProduct(productID)
	if err != nil {
		return nil, err
	}
	if product.UserID != userID {
		return nil, errors.New("unauthorized to modify this product")
	}
	return product, nil
}
