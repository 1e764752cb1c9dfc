// Package dto defines data transfer objects for the assets HTTP API.
package dto

// AssetItem represents an asset in the API response.
type AssetItem struct {
	ID        string `json:"id"`
	Symbol    string `json:"symbol"`
	Name      string `json:"name"`
	AssetType string `json:"asset_type"`
}

// AssetListResponse wraps the asset list.
type AssetListResponse struct {
	Assets []AssetItem `json:"assets"`
}

// CreateAssetRequest is the body of POST /api/assets.
type CreateAssetRequest struct {
	ID             string `json:"id" binding:"required"`
	Symbol         string `json:"symbol"`
	Name           string `json:"name" binding:"required"`
	AssetType      string `json:"asset_type" binding:"required"`
	ProviderSymbol string `json:"provider_symbol"`
}
