// internal/services/indicator_service.go
package services

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/stocksense/inventory-backend/internal/models"
)

// IndicatorService manages the singleton economic indicator document.
type IndicatorService struct {
	db *gorm.DB
}

func NewIndicatorService(db *gorm.DB) *IndicatorService {
	return &IndicatorService{db: db}
}

// Create stores the initial indicator document. Only one may exist; further
// changes go through Merge.
func (s *IndicatorService) Create(indicator *models.EconomicIndicator) (*models.EconomicIndicator, error) {
	var existing models.EconomicIndicator
	err := s.db.First(&existing).Error
	if err == nil {
		return nil, errors.New("economic indicator already exists, use PATCH to update")
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.db.Create(indicator).Error; err != nil {
		return nil, fmt.Errorf("failed to create economic indicator: %w", err)
	}
	return indicator, nil
}

// GetAggregated returns every indicator's year-keyed series in one view.
func (s *IndicatorService) GetAggregated() (map[string]models.YearSeries, error) {
	var indicators []models.EconomicIndicator
	if err := s.db.Find(&indicators).Error; err != nil {
		return nil, fmt.Errorf("failed to fetch economic indicators: %w", err)
	}

	result := make(map[string]models.YearSeries)
	for i := range indicators {
		for name, series := range indicators[i].Series() {
			if series == nil {
				continue
			}
			if result[name] == nil {
				result[name] = models.YearSeries{}
			}
			for year, values := range series {
				result[name][year] = append(result[name][year], values...)
			}
		}
	}
	return result, nil
}

// Merge appends the submitted values into the stored document's year buckets,
// creating years that do not exist yet.
func (s *IndicatorService) Merge(updates map[string]models.YearSeries) (*models.EconomicIndicator, error) {
	var indicator models.EconomicIndicator
	if err := s.db.First(&indicator).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("economic indicator document: %w", ErrNotFound)
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	for name, series := range updates {
		indicator.MergeSeries(name, series)
	}

	if err := s.db.Save(&indicator).Error; err != nil {
		return nil, fmt.Errorf("failed to save economic indicator: %w", err)
	}
	return &indicator, nil
}

func (s *IndicatorService) DeleteAll() error {
	if err := s.db.Where("1 = 1").Delete(&models.EconomicIndicator{}).Error; err != nil {
		return fmt.Errorf("failed to delete economic indicators: %w", err)
	}
	return nil
}
