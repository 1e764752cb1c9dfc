// Package dto defines data transfer objects for the prices HTTP API.
package dto

import (
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
)

// PriceSeriesResponse is the body of GET /api/prices/:asset_id.
type PriceSeriesResponse struct {
	AssetID   string              `json:"asset_id"`
	StartDate time.Time           `json:"start_date"`
	EndDate   time.Time           `json:"end_date"`
	Prices    []entity.PricePoint `json:"prices"`
}

// RefreshRequest is the optional body of POST /api/refresh.
type RefreshRequest struct {
	AssetIDs   []string `json:"asset_ids"`
	StartDate  string   `json:"start_date"`
	EndDate    string   `json:"end_date"`
	LatestOnly bool     `json:"latest_only"`
}

// RefreshResponse reports which assets were refreshed.
type RefreshResponse struct {
	RefreshID  string            `json:"refresh_id"`
	StartedAt  time.Time         `json:"started_at"`
	FinishedAt time.Time         `json:"finished_at"`
	Updated    map[string]int    `json:"updated"`
	Failed     map[string]string `json:"failed"`
}
