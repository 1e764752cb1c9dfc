// Package entity defines the value objects shared by the analytics, prices and comparison features.
package entity

import "time"

// PricePoint represents one observed price of one asset at one instant.
// Prices are expected to be strictly positive and a series is expected to be
// ordered by non-decreasing Timestamp.
type PricePoint struct {
	AssetID   string    `json:"asset_id"`  // Asset identifier (e.g., "BTC", "QQQ")
	Timestamp time.Time `json:"timestamp"` // Observation instant (UTC)
	Price     float64   `json:"price"`     // Observed price
}

// NormalizedPricePoint is a PricePoint rebased onto a common initial amount.
type NormalizedPricePoint struct {
	Timestamp       time.Time `json:"timestamp"`
	NormalizedValue float64   `json:"normalized_value"` // Value of the initial amount at Timestamp
	ReturnPct       float64   `json:"return_pct"`       // Percent change since the first point
}

// PerformanceMetrics summarizes return and risk over an observed window.
// All percentages are expressed as value*100.
type PerformanceMetrics struct {
	AssetID             string    `json:"asset_id"`
	TotalReturnPct      float64   `json:"total_return_pct"`
	AnnualizedReturnPct float64   `json:"annualized_return_pct"`
	Volatility          float64   `json:"volatility"`
	StartDate           time.Time `json:"start_date"`
	EndDate             time.Time `json:"end_date"`
}
