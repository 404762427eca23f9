// internal/services/forecast_service.go
package services

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/stocksense/inventory-backend/internal/models"
)

const (
	// PredictionSeriesLength is the required number of demand values per
	// submitted forecast: one per day for a year.
	PredictionSeriesLength = 365

	// statusWindowDays is the slice of the series that drives the stock
	// status: always the first 30 array elements, never calendar-derived.
	statusWindowDays = 30

	// monthlyBuckets is the number of aggregate windows. 365 does not divide
	// evenly by 12, so the final bucket absorbs the 5-day remainder.
	monthlyBuckets = 12
)

// InventoryRecordStore persists one stock record per product.
type InventoryRecordStore interface {
	GetByProduct(productID uuid.UUID) (*models.InventoryRecord, error)
	Upsert(record *models.InventoryRecord) (created bool, err error)
}

// ForecastStore persists at most one forecast per product, replaced wholesale.
type ForecastStore interface {
	GetByProduct(productID uuid.UUID) (*models.InventoryForecast, error)
	Upsert(forecast *models.InventoryForecast) (created bool, err error)
}

// StockAlert is the payload delivered to administrators when a forecast lands
// in Low Stock or Out of Stock.
type StockAlert struct {
	ProductID            uuid.UUID
	Status               models.StockStatus
	StockQuantity        int
	Predicted30DayDemand float64
}

// AlertNotifier delivers stock alerts. Fire-and-forget from the ingestor's
// perspective: a delivery failure never fails the ingestion.
type AlertNotifier interface {
	SendStockAlert(recipient string, alert StockAlert) error
}

type ForecastService struct {
	records         InventoryRecordStore
	forecasts       ForecastStore
	notifier        AlertNotifier
	alertRecipients []string
}

type SubmitInventoryRequest struct {
	ProductID        uuid.UUID `json:"product_id" validate:"required"`
	StockQuantity    int       `json:"stock_quantity" validate:"min=0"`
	ReorderThreshold int       `json:"reorder_threshold"`
}

type IngestForecastRequest struct {
	ProductID  uuid.UUID
	Prediction []float64
	StartDate  time.Time
	EndDate    time.Time
	Analysis   string
}

type IngestResult struct {
	StockStatus models.StockStatus
	Created     bool
}

// InventoryReport is the merged read view: current stock plus the near-term
// slice of the forecast.
type InventoryReport struct {
	ProductID            uuid.UUID          `json:"product_id"`
	StockQuantity        int                `json:"stock_quantity"`
	ReorderThreshold     int                `json:"reorder_threshold"`
	StartDate            time.Time          `json:"start_date"`
	Prediction           []float64          `json:"prediction"`
	StockStatus          models.StockStatus `json:"stock_status"`
	Predicted30DayDemand float64            `json:"predicted_30_day_demand"`
	Shortage             float64            `json:"shortage"`
	Message              string             `json:"message"`
}

func NewForecastService(records InventoryRecordStore, forecasts ForecastStore, notifier AlertNotifier, alertRecipients []string) *ForecastService {
	return &ForecastService{
		records:         records,
		forecasts:       forecasts,
		notifier:        notifier,
		alertRecipients: alertRecipients,
	}
}

// SubmitInventory creates or updates the product's stock record. A zero
// ReorderThreshold takes the default of 20.
func (s *ForecastService) SubmitInventory(req *SubmitInventoryRequest) (bool, error) {
	if req.StockQuantity < 0 {
		return false, fmt.Errorf("%w: stock quantity must not be negative", ErrValidation)
	}

	threshold := req.ReorderThreshold
	if threshold == 0 {
		threshold = 20
	}

	record := &models.InventoryRecord{
		ProductID:        req.ProductID,
		StockQuantity:    req.StockQuantity,
		ReorderThreshold: threshold,
	}

	created, err := s.records.Upsert(record)
	if err != nil {
		return false, fmt.Errorf("failed to save inventory record: %w", err)
	}
	return created, nil
}

// IngestForecast validates the submitted series, derives the stock status and
// monthly aggregates, and replaces the product's forecast wholesale. Returns
// the computed status.
func (s *ForecastService) IngestForecast(req *IngestForecastRequest) (*IngestResult, error) {
	if len(req.Prediction) != PredictionSeriesLength {
		return nil, fmt.Errorf("%w: prediction must contain exactly %d values, got %d",
			ErrValidation, PredictionSeriesLength, len(req.Prediction))
	}
	if req.StartDate.IsZero() || req.EndDate.IsZero() {
		return nil, fmt.Errorf("%w: start and end dates are required", ErrValidation)
	}
	if req.EndDate.Before(req.StartDate) {
		return nil, fmt.Errorf("%w: start date must not be after end date", ErrValidation)
	}

	record, err := s.records.GetByProduct(req.ProductID)
	if err != nil {
		return nil, fmt.Errorf("no inventory record for product %s: %w", req.ProductID, err)
	}

	predicted30DaySum := sumRange(req.Prediction, 0, statusWindowDays)
	status := ClassifyStock(record.StockQuantity, record.ReorderThreshold, predicted30DaySum)

	forecast := &models.InventoryForecast{
		ProductID:         req.ProductID,
		PredictionData:    pq.Float64Array(req.Prediction),
		Analysis:          req.Analysis,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		StockStatus:       status,
		MonthlyAggregates: pq.Float64Array(MonthlyAggregates(req.Prediction)),
	}

	created, err := s.forecasts.Upsert(forecast)
	if err != nil {
		return nil, fmt.Errorf("failed to save forecast: %w", err)
	}

	if status == models.StockStatusLowStock || status == models.StockStatusOutOfStock {
		s.dispatchAlerts(StockAlert{
			ProductID:            req.ProductID,
			Status:               status,
			StockQuantity:        record.StockQuantity,
			Predicted30DayDemand: predicted30DaySum,
		})
	}

	return &IngestResult{StockStatus: status, Created: created}, nil
}

// GetReport merges the stock record with the first-30-days forecast slice.
// Both halves must exist.
func (s *ForecastService) GetReport(productID uuid.UUID) (*InventoryReport, error) {
	record, err := s.records.GetByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("no data for product %s: %w", productID, err)
	}
	forecast, err := s.forecasts.GetByProduct(productID)
	if err != nil {
		return nil, fmt.Errorf("no data for product %s: %w", productID, err)
	}

	window := forecast.PredictionData
	if len(window) > statusWindowDays {
		window = window[:statusWindowDays]
	}
	predicted30DaySum := sumRange(window, 0, len(window))
	shortage := math.Max(predicted30DaySum-float64(record.StockQuantity), 0)

	message := "Current stock is sufficient for the next 30 days."
	if shortage > 0 {
		message = fmt.Sprintf("You are short by %g units to meet 30 days demand.", shortage)
	}

	return &InventoryReport{
		ProductID:            productID,
		StockQuantity:        record.StockQuantity,
		ReorderThreshold:     record.ReorderThreshold,
		StartDate:            forecast.StartDate,
		Prediction:           window,
		StockStatus:          forecast.StockStatus,
		Predicted30DayDemand: predicted30DaySum,
		Shortage:             shortage,
		Message:              message,
	}, nil
}

func (s *ForecastService) dispatchAlerts(alert StockAlert) {
	if s.notifier == nil {
		return
	}
	for _, recipient := range s.alertRecipients {
		if err := s.notifier.SendStockAlert(recipient, alert); err != nil {
			logrus.WithFields(logrus.Fields{
				"product_id": alert.ProductID,
				"recipient":  recipient,
			}).WithError(err).Warn("Failed to send stock alert")
		}
	}
}

// MonthlyAggregates sums the series into 12 windows of 30 days each; the last
// window also covers the 5 remainder days at the end of the year, so a series
// of 365 ones yields eleven 30s and one 35.
func MonthlyAggregates(series []float64) []float64 {
	aggregates := make([]float64, monthlyBuckets)
	for i := 0; i < monthlyBuckets; i++ {
		start := i * statusWindowDays
		end := (i + 1) * statusWindowDays
		if i == monthlyBuckets-1 {
			end = len(series)
		}
		aggregates[i] = sumRange(series, start, end)
	}
	return aggregates
}

func sumRange(series []float64, start, end int) float64 {
	if end > len(series) {
		end = len(series)
	}
	var sum float64
	for _, v := range series[start:end] {
		sum += v
	}
	return sum
}
