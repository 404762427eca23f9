// internal/models/indicator.go
package models

// EconomicIndicator is a singleton document of macro-economic series keyed by
// year. One row exists at a time; PATCH merges values into the year buckets.
type EconomicIndicator struct {
	BaseModel
	GDP                     YearSeries `json:"gdp" gorm:"type:jsonb"`
	UnemploymentRate        YearSeries `json:"unemployment_rate" gorm:"type:jsonb"`
	InflationRate           YearSeries `json:"inflation_rate" gorm:"type:jsonb"`
	ConsumerConfidenceIndex YearSeries `json:"consumer_confidence_index" gorm:"type:jsonb"`
	InterestRate            YearSeries `json:"interest_rate" gorm:"type:jsonb"`
	ExchangeRate            YearSeries `json:"exchange_rate" gorm:"type:jsonb"`
	StockMarketIndex        YearSeries `json:"stock_market_index" gorm:"type:jsonb"`
}

// Series returns the indicator's named series for uniform iteration.
func (e *EconomicIndicator) Series() map[string]YearSeries {
	return map[string]YearSeries{
		"gdp":                       e.GDP,
		"unemployment_rate":         e.UnemploymentRate,
		"inflation_rate":            e.InflationRate,
		"consumer_confidence_index": e.ConsumerConfidenceIndex,
		"interest_rate":             e.InterestRate,
		"exchange_rate":             e.ExchangeRate,
		"stock_market_index":        e.StockMarketIndex,
	}
}

func (e *EconomicIndicator) seriesRef(name string) *YearSeries {
	switch name {
	case "gdp":
		return &e.GDP
	case "unemployment_rate":
		return &e.UnemploymentRate
	case "inflation_rate":
		return &e.InflationRate
	case "consumer_confidence_index":
		return &e.ConsumerConfidenceIndex
	case "interest_rate":
		return &e.InterestRate
	case "exchange_rate":
		return &e.ExchangeRate
	case "stock_market_index":
		return &e.StockMarketIndex
	}
	return nil
}

// MergeSeries appends values into the named indicator's year buckets, creating
// missing years. Unknown indicator names are ignored.
func (e *EconomicIndicator) MergeSeries(name string, updates YearSeries) {
	ref := e.seriesRef(name)
	if ref == nil {
		return
	}
	if *ref == nil {
		*ref = YearSeries{}
	}
	for year, values := range updates {
		(*ref)[year] = append((*ref)[year], values...)
	}
}
