// internal/handlers/data.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/stocksense/inventory-backend/internal/services"
	"github.com/stocksense/inventory-backend/internal/utils"
)

type DataHandler struct {
	pool       services.RecordPool
	sampleSize int
}

func NewDataHandler(pool services.RecordPool, sampleSize int) *DataHandler {
	return &DataHandler{pool: pool, sampleSize: sampleSize}
}

// GET /data returns a fresh random draw from the source record pool.
func (h *DataHandler) GetRandomData(c *gin.Context) {
	sample, err := h.pool.Sample(h.sampleSize)
	if err != nil {
		utils.InternalErrorResponse(c, "Failed to read source record pool")
		return
	}

	utils.SuccessResponse(c, sample.Records())
}
