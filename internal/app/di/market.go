// Package di provides dependency injection factories for creating application components.
package di

import (
	assetentity "portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/externalapi/alphavantage"
	"portfolio_tracker/internal/platform/externalapi/coingecko"
	infrahttp "portfolio_tracker/internal/platform/http"
	"portfolio_tracker/internal/shared/ratelimiter"
)

// NewProviders creates the provider registry keyed by asset type.
// Crypto goes to CoinGecko; stocks and commodities (via ETF proxies) go to
// Alpha Vantage. Stock and commodity share one limiter since they share one quota.
func NewProviders() map[assetentity.AssetType]usecase.Provider {
	cgCfg := coingecko.LoadConfig()
	cg := usecase.Provider{
		Name:    "coingecko",
		Client:  coingecko.NewCoinGeckoMarket(cgCfg, infrahttp.NewHTTPClient(cgCfg.Timeout)),
		Limiter: ratelimiter.PerMinute("coingecko", cgCfg.RateLimitPerMinute),
	}

	avCfg := alphavantage.LoadConfig()
	av := usecase.Provider{
		Name:    "alphavantage",
		Client:  alphavantage.NewAlphaVantageMarket(avCfg, infrahttp.NewHTTPClient(avCfg.Timeout)),
		Limiter: ratelimiter.PerMinute("alphavantage", avCfg.RateLimitPerMinute),
	}

	return map[assetentity.AssetType]usecase.Provider{
		assetentity.AssetTypeCrypto:    cg,
		assetentity.AssetTypeStock:     av,
		assetentity.AssetTypeCommodity: av,
	}
}
