// Package dto defines data transfer objects for the CoinGecko API responses.
package dto

// MarketChartResponse represents the JSON response from /coins/{id}/market_chart/range.
// Each entry is a [unix_millis, value] pair.
type MarketChartResponse struct {
	Prices       [][2]float64 `json:"prices"`
	MarketCaps   [][2]float64 `json:"market_caps"`
	TotalVolumes [][2]float64 `json:"total_volumes"`
}

// SimplePriceResponse represents the JSON response from /simple/price, keyed by coin id.
type SimplePriceResponse map[string]struct {
	USD           float64 `json:"usd"`
	LastUpdatedAt int64   `json:"last_updated_at"`
}

// ErrorResponse is the body CoinGecko sends on API-level errors.
type ErrorResponse struct {
	Error  string `json:"error"`
	Status struct {
		ErrorCode    int    `json:"error_code"`
		ErrorMessage string `json:"error_message"`
	} `json:"status"`
}
