// internal/handlers/product.go
package handlers

import (
	"errors"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/stocksense/inventory-backend/internal/services"
	"github.com/stocksense/inventory-backend/internal/utils"
)

const (
	maxDatasetSize = 100 * 1024 * 1024 // 100 MB
	maxImageSize   = 10 * 1024 * 1024  // 10 MB
)

type ProductHandler struct {
	productService *services.ProductService
}

func NewProductHandler(productService *services.ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

// GET /products
func (h *ProductHandler) GetProducts(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	params := utils.GetPaginationParams(c)
	products, total, err := h.productService.GetUserProducts(userID, params)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	result := utils.CreatePaginationResult(products, total, params)
	utils.PaginatedResponse(c, result)
}

// POST /products
func (h *ProductHandler) CreateProduct(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	var req services.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, "Invalid input", err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	product, err := h.productService.CreateProduct(userID, &req)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.CreatedResponse(c, gin.H{"product": product})
}

// POST /products/:id/dataset
func (h *ProductHandler) UploadDataset(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	data, filename, err := readUpload(c, "dataset", maxDatasetSize)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	if err := services.ValidateUploadName(filename, []string{".csv"}); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	url, err := h.productService.AttachDataset(c.Request.Context(), productID, userID, data)
	if err != nil {
		respondProductError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"dataset_url": url})
}

// POST /products/:id/image
func (h *ProductHandler) UploadImage(c *gin.Context) {
	userID, ok := currentUserID(c)
	if !ok {
		utils.UnauthorizedResponse(c, "")
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid product ID", nil)
		return
	}

	data, filename, err := readUpload(c, "image", maxImageSize)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}
	if err := services.ValidateUploadName(filename, []string{".png", ".jpg", ".jpeg"}); err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	contentType := "image/jpeg"
	if services.ValidateUploadName(filename, []string{".png"}) == nil {
		contentType = "image/png"
	}

	url, err := h.productService.AttachImage(c.Request.Context(), productID, userID, data, contentType)
	if err != nil {
		respondProductError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{"image_url": url})
}

func respondProductError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, services.ErrNotFound):
		utils.NotFoundResponse(c, "Product not found")
	case errors.Is(err, services.ErrUpstreamStore):
		utils.InternalErrorResponse(c, "Upload failed")
	default:
		utils.BadRequestResponse(c, err.Error(), nil)
	}
}

func readUpload(c *gin.Context, field string, maxSize int64) ([]byte, string, error) {
	header, err := c.FormFile(field)
	if err != nil {
		return nil, "", errors.New("missing " + field + " file")
	}
	if header.Size > maxSize {
		return nil, "", errors.New(field + " file exceeds size limit")
	}

	f, err := header.Open()
	if err != nil {
		return nil, "", err
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, "", err
	}
	return data, header.Filename, nil
}

func currentUserID(c *gin.Context) (uuid.UUID, bool) {
	userIDStr, exists := utils.GetUserIDFromContext(c)
	if !exists {
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, false
	}
	return userID, true
}
