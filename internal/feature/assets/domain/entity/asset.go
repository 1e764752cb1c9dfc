// Package entity defines the domain models for the assets feature.
package entity

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownAssetType is returned by ParseAssetType for unsupported types.
var ErrUnknownAssetType = errors.New("unknown asset type")

// AssetType classifies an asset and decides which market-data provider serves it.
type AssetType string

const (
	AssetTypeStock     AssetType = "stock"     // QQQ, SPY, etc.
	AssetTypeCrypto    AssetType = "crypto"    // BTC
	AssetTypeCommodity AssetType = "commodity" // Gold
)

// ParseAssetType converts a case-insensitive string to an AssetType.
func ParseAssetType(s string) (AssetType, error) {
	switch t := AssetType(strings.ToLower(strings.TrimSpace(s))); t {
	case AssetTypeStock, AssetTypeCrypto, AssetTypeCommodity:
		return t, nil
	default:
		return "", fmt.Errorf("%w %q", ErrUnknownAssetType, s)
	}
}

// Asset is a trackable instrument.
// ProviderSymbol is the identifier the market-data provider expects
// (e.g., "bitcoin" for CoinGecko, "GLD" for gold on Alpha Vantage).
type Asset struct {
	ID             string
	Symbol         string
	Name           string
	AssetType      AssetType
	ProviderSymbol string
	IsActive       bool
	SortKey        int
}

// QuerySymbol returns ProviderSymbol, falling back to Symbol.
func (a Asset) QuerySymbol() string {
	if a.ProviderSymbol != "" {
		return a.ProviderSymbol
	}
	return a.Symbol
}

// DefaultAssets は初期状態で登録されるアセットの一覧です。
func DefaultAssets() []Asset {
	return []Asset{
		{ID: "SPY", Symbol: "SPY", Name: "S&P 500 ETF", AssetType: AssetTypeStock, ProviderSymbol: "SPY", IsActive: true, SortKey: 1},
		{ID: "QQQ", Symbol: "QQQ", Name: "Nasdaq-100 ETF", AssetType: AssetTypeStock, ProviderSymbol: "QQQ", IsActive: true, SortKey: 2},
		{ID: "BTC", Symbol: "BTC", Name: "Bitcoin", AssetType: AssetTypeCrypto, ProviderSymbol: "bitcoin", IsActive: true, SortKey: 3},
		{ID: "GOLD", Symbol: "XAU", Name: "Gold", AssetType: AssetTypeCommodity, ProviderSymbol: "GLD", IsActive: true, SortKey: 4},
	}
}
