// internal/handlers/data_test.go
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/inventory-backend/internal/services"
)

type stubPool struct {
	dataset *services.Dataset
	err     error
}

func (p *stubPool) Sample(n int) (*services.Dataset, error) {
	if p.err != nil {
		return nil, p.err
	}
	return p.dataset, nil
}

func newDataRouter(pool services.RecordPool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	handler := NewDataHandler(pool, 10)

	r := gin.New()
	r.GET("/v1/data", handler.GetRandomData)
	return r
}

func TestGetRandomData(t *testing.T) {
	pool := &stubPool{dataset: &services.Dataset{
		Columns: []string{"date", "units_sold"},
		Rows:    [][]string{{"2026-01-01", "10"}, {"2026-01-02", "12"}},
	}}
	r := newDataRouter(pool)

	w := getJSON(t, r, "/v1/data")
	assert.Equal(t, http.StatusOK, w.Code)

	var response struct {
		Success bool                `json:"success"`
		Data    []map[string]string `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.True(t, response.Success)
	require.Len(t, response.Data, 2)
	assert.Equal(t, "10", response.Data[0]["units_sold"])
}

func TestGetRandomDataPoolFailure(t *testing.T) {
	r := newDataRouter(&stubPool{err: errors.New("file missing")})

	w := getJSON(t, r, "/v1/data")
	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
