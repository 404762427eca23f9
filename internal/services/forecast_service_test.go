// internal/services/forecast_service_test.go
package services

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocksense/inventory-backend/internal/models"
)

// In-memory stores keyed by product ID.

type memoryRecordStore struct {
	records map[uuid.UUID]*models.InventoryRecord
}

func newMemoryRecordStore() *memoryRecordStore {
	return &memoryRecordStore{records: make(map[uuid.UUID]*models.InventoryRecord)}
}

func (s *memoryRecordStore) GetByProduct(productID uuid.UUID) (*models.InventoryRecord, error) {
	record, ok := s.records[productID]
	if !ok {
		return nil, fmt.Errorf("inventory record: %w", ErrNotFound)
	}
	return record, nil
}

func (s *memoryRecordStore) Upsert(record *models.InventoryRecord) (bool, error) {
	_, exists := s.records[record.ProductID]
	s.records[record.ProductID] = record
	return !exists, nil
}

type memoryForecastStore struct {
	forecasts map[uuid.UUID]*models.InventoryForecast
}

func newMemoryForecastStore() *memoryForecastStore {
	return &memoryForecastStore{forecasts: make(map[uuid.UUID]*models.InventoryForecast)}
}

func (s *memoryForecastStore) GetByProduct(productID uuid.UUID) (*models.InventoryForecast, error) {
	forecast, ok := s.forecasts[productID]
	if !ok {
		return nil, fmt.Errorf("forecast: %w", ErrNotFound)
	}
	return forecast, nil
}

func (s *memoryForecastStore) Upsert(forecast *models.InventoryForecast) (bool, error) {
	_, exists := s.forecasts[forecast.ProductID]
	s.forecasts[forecast.ProductID] = forecast
	return !exists, nil
}

type recordingNotifier struct {
	sent []string
	fail bool
}

func (n *recordingNotifier) SendStockAlert(recipient string, alert StockAlert) error {
	if n.fail {
		return errors.New("smtp unreachable")
	}
	n.sent = append(n.sent, recipient)
	return nil
}

func constantSeries(value float64) []float64 {
	series := make([]float64, PredictionSeriesLength)
	for i := range series {
		series[i] = value
	}
	return series
}

func forecastRequest(productID uuid.UUID, series []float64) *IngestForecastRequest {
	return &IngestForecastRequest{
		ProductID:  productID,
		Prediction: series,
		StartDate:  time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndDate:    time.Date(2026, 12, 31, 0, 0, 0, 0, time.UTC),
	}
}

func TestSubmitInventoryDefaultsThreshold(t *testing.T) {
	records := newMemoryRecordStore()
	svc := NewForecastService(records, newMemoryForecastStore(), nil, nil)
	productID := uuid.New()

	created, err := svc.SubmitInventory(&SubmitInventoryRequest{
		ProductID:     productID,
		StockQuantity: 100,
	})
	require.NoError(t, err)
	assert.True(t, created)

	record, err := records.GetByProduct(productID)
	require.NoError(t, err)
	assert.Equal(t, 20, record.ReorderThreshold)
}

func TestSubmitInventoryUpdateIsNotCreate(t *testing.T) {
	svc := NewForecastService(newMemoryRecordStore(), newMemoryForecastStore(), nil, nil)
	productID := uuid.New()

	created, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 100})
	require.NoError(t, err)
	assert.True(t, created)

	created, err = svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 80})
	require.NoError(t, err)
	assert.False(t, created)
}

func TestIngestForecastRejectsWrongLength(t *testing.T) {
	svc := NewForecastService(newMemoryRecordStore(), newMemoryForecastStore(), nil, nil)

	_, err := svc.IngestForecast(forecastRequest(uuid.New(), make([]float64, 364)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)

	_, err = svc.IngestForecast(forecastRequest(uuid.New(), make([]float64, 366)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestForecastRejectsBadDates(t *testing.T) {
	records := newMemoryRecordStore()
	svc := NewForecastService(records, newMemoryForecastStore(), nil, nil)
	productID := uuid.New()
	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 100})
	require.NoError(t, err)

	req := forecastRequest(productID, constantSeries(1))
	req.StartDate = time.Time{}
	_, err = svc.IngestForecast(req)
	assert.ErrorIs(t, err, ErrValidation)

	req = forecastRequest(productID, constantSeries(1))
	req.EndDate = req.StartDate.AddDate(0, 0, -1)
	_, err = svc.IngestForecast(req)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestIngestForecastRequiresInventoryRecord(t *testing.T) {
	svc := NewForecastService(newMemoryRecordStore(), newMemoryForecastStore(), nil, nil)

	_, err := svc.IngestForecast(forecastRequest(uuid.New(), constantSeries(1)))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestIngestForecastComputesStatusAndAggregates(t *testing.T) {
	records := newMemoryRecordStore()
	forecasts := newMemoryForecastStore()
	svc := NewForecastService(records, forecasts, nil, nil)
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 100, ReorderThreshold: 20})
	require.NoError(t, err)

	// 1 unit per day: 30 predicted over the status window, stock 100 covers it.
	result, err := svc.IngestForecast(forecastRequest(productID, constantSeries(1)))
	require.NoError(t, err)
	assert.True(t, result.Created)
	assert.Equal(t, models.StockStatusSufficient, result.StockStatus)

	stored, err := forecasts.GetByProduct(productID)
	require.NoError(t, err)
	assert.Len(t, stored.PredictionData, PredictionSeriesLength)
	require.Len(t, stored.MonthlyAggregates, 12)
	for i := 0; i < 11; i++ {
		assert.InDelta(t, 30.0, stored.MonthlyAggregates[i], 1e-9)
	}
	// Final bucket absorbs the 5 remainder days.
	assert.InDelta(t, 35.0, stored.MonthlyAggregates[11], 1e-9)
}

func TestIngestForecastReplacesWholesale(t *testing.T) {
	records := newMemoryRecordStore()
	forecasts := newMemoryForecastStore()
	svc := NewForecastService(records, forecasts, nil, nil)
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 100})
	require.NoError(t, err)

	result, err := svc.IngestForecast(forecastRequest(productID, constantSeries(1)))
	require.NoError(t, err)
	assert.True(t, result.Created)

	result, err = svc.IngestForecast(forecastRequest(productID, constantSeries(2)))
	require.NoError(t, err)
	assert.False(t, result.Created)

	stored, err := forecasts.GetByProduct(productID)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, stored.PredictionData[0], 1e-9)
}

func TestIngestForecastDispatchesAlerts(t *testing.T) {
	records := newMemoryRecordStore()
	notifier := &recordingNotifier{}
	svc := NewForecastService(records, newMemoryForecastStore(), notifier, []string{"ops@example.com", "admin@example.com"})
	productID := uuid.New()

	// Stock 40 against 150 predicted over 30 days, threshold 20: Low Stock.
	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 40, ReorderThreshold: 20})
	require.NoError(t, err)

	result, err := svc.IngestForecast(forecastRequest(productID, constantSeries(5)))
	require.NoError(t, err)
	assert.Equal(t, models.StockStatusLowStock, result.StockStatus)
	assert.Equal(t, []string{"ops@example.com", "admin@example.com"}, notifier.sent)
}

func TestIngestForecastNoAlertWhenSufficient(t *testing.T) {
	records := newMemoryRecordStore()
	notifier := &recordingNotifier{}
	svc := NewForecastService(records, newMemoryForecastStore(), notifier, []string{"ops@example.com"})
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 1000})
	require.NoError(t, err)

	_, err = svc.IngestForecast(forecastRequest(productID, constantSeries(1)))
	require.NoError(t, err)
	assert.Empty(t, notifier.sent)
}

func TestIngestForecastSurvivesAlertFailure(t *testing.T) {
	records := newMemoryRecordStore()
	notifier := &recordingNotifier{fail: true}
	svc := NewForecastService(records, newMemoryForecastStore(), notifier, []string{"ops@example.com"})
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 0})
	require.NoError(t, err)

	result, err := svc.IngestForecast(forecastRequest(productID, constantSeries(5)))
	require.NoError(t, err)
	assert.Equal(t, models.StockStatusOutOfStock, result.StockStatus)
}

func TestGetReportRequiresBothHalves(t *testing.T) {
	records := newMemoryRecordStore()
	svc := NewForecastService(records, newMemoryForecastStore(), nil, nil)
	productID := uuid.New()

	_, err := svc.GetReport(productID)
	assert.ErrorIs(t, err, ErrNotFound)

	// Stock alone is still not enough.
	_, err = svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 100})
	require.NoError(t, err)
	_, err = svc.GetReport(productID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestGetReportShortage(t *testing.T) {
	records := newMemoryRecordStore()
	forecasts := newMemoryForecastStore()
	svc := NewForecastService(records, forecasts, nil, nil)
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 40, ReorderThreshold: 20})
	require.NoError(t, err)
	_, err = svc.IngestForecast(forecastRequest(productID, constantSeries(5)))
	require.NoError(t, err)

	report, err := svc.GetReport(productID)
	require.NoError(t, err)
	assert.Len(t, report.Prediction, 30)
	assert.InDelta(t, 150.0, report.Predicted30DayDemand, 1e-9)
	assert.InDelta(t, 110.0, report.Shortage, 1e-9)
	assert.Equal(t, "You are short by 110 units to meet 30 days demand.", report.Message)
	assert.Equal(t, models.StockStatusLowStock, report.StockStatus)
}

func TestGetReportSufficientMessage(t *testing.T) {
	records := newMemoryRecordStore()
	forecasts := newMemoryForecastStore()
	svc := NewForecastService(records, forecasts, nil, nil)
	productID := uuid.New()

	_, err := svc.SubmitInventory(&SubmitInventoryRequest{ProductID: productID, StockQuantity: 500})
	require.NoError(t, err)
	_, err = svc.IngestForecast(forecastRequest(productID, constantSeries(1)))
	require.NoError(t, err)

	report, err := svc.GetReport(productID)
	require.NoError(t, err)
	assert.Zero(t, report.Shortage)
	assert.Equal(t, "Current stock is sufficient for the next 30 days.", report.Message)
}

func TestMonthlyAggregates(t *testing.T) {
	series := make([]float64, PredictionSeriesLength)
	for i := range series {
		series[i] = float64(i)
	}
	aggregates := MonthlyAggregates(series)
	require.Len(t, aggregates, 12)

	// First bucket sums 0..29.
	assert.InDelta(t, 435.0, aggregates[0], 1e-9)

	// Buckets must cover the whole series exactly once.
	var total float64
	for _, v := range aggregates {
		total += v
	}
	assert.InDelta(t, 365.0*364.0/2.0, total, 1e-6)
}
