// Package dto defines data transfer objects for the comparison HTTP API.
package dto

import (
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
)

// CompareRequest is the body of POST /api/comparison.
type CompareRequest struct {
	AssetIDs      []string `json:"asset_ids"`
	StartDate     string   `json:"start_date"`
	EndDate       string   `json:"end_date"`
	InitialAmount float64  `json:"initial_amount"`
}

// AssetSeries is the normalized series of one asset.
type AssetSeries struct {
	AssetID string                        `json:"asset_id"`
	Points  []entity.NormalizedPricePoint `json:"points"`
}

// CompareResponse is the body returned by POST /api/comparison.
// Assets with fewer than two prices appear in InsufficientData instead of Metrics.
type CompareResponse struct {
	InitialAmount    float64                     `json:"initial_amount"`
	StartDate        time.Time                   `json:"start_date"`
	EndDate          time.Time                   `json:"end_date"`
	Series           []AssetSeries               `json:"series"`
	Metrics          []entity.PerformanceMetrics `json:"metrics"`
	InsufficientData []string                    `json:"insufficient_data"`
}

// InsufficientDataResponse is returned by GET /api/assets/:asset_id/metrics
// when the window holds fewer than two prices.
type InsufficientDataResponse struct {
	AssetID          string `json:"asset_id"`
	InsufficientData bool   `json:"insufficient_data"`
}
