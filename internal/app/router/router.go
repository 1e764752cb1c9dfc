// Package router はアプリケーションのHTTPルーティングを定義します。
package router

import (
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	assethandler "portfolio_tracker/internal/feature/assets/transport/handler"
	comparisonhandler "portfolio_tracker/internal/feature/comparison/transport/handler"
	pricehandler "portfolio_tracker/internal/feature/prices/transport/handler"
	"portfolio_tracker/internal/platform/http/handler"
)

// Handlers はルーターに登録するハンドラーの集合です。
type Handlers struct {
	Health     *handler.HealthHandler
	Assets     *assethandler.AssetHandler
	Prices     *pricehandler.PriceHandler
	Comparison *comparisonhandler.ComparisonHandler
}

// corsConfig は CORS_ALLOW_ORIGIN（"*" またはカンマ区切り）からCORS設定を作ります。
func corsConfig(allowOrigin string) cors.Config {
	cfg := cors.Config{
		AllowMethods: []string{"GET", "POST", "HEAD", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type", "Accept"},
		MaxAge:       12 * time.Hour,
	}
	var origins []string
	for _, o := range strings.Split(allowOrigin, ",") {
		if o = strings.TrimSpace(o); o != "" {
			origins = append(origins, o)
		}
	}
	if len(origins) == 0 || (len(origins) == 1 && origins[0] == "*") {
		cfg.AllowAllOrigins = true
	} else {
		cfg.AllowOrigins = origins
	}
	return cfg
}

// NewRouter はgin.Engineを生成し、全ルートを登録します。
func NewRouter(allowOrigin string, h Handlers) *gin.Engine {
	r := gin.Default()
	r.Use(cors.New(corsConfig(allowOrigin)))

	// 導通確認用
	r.GET("/", handler.Root)
	r.GET("/healthz", h.Health.Health)
	r.HEAD("/healthz", h.Health.Health)
	r.GET("/health", h.Health.Health)

	api := r.Group("/api")
	{
		api.GET("/assets", h.Assets.List)
		api.POST("/assets", h.Assets.Create)
		api.GET("/assets/:asset_id/metrics", h.Comparison.Metrics)

		api.GET("/prices/:asset_id", h.Prices.GetSeries)
		api.POST("/refresh", h.Prices.Refresh)

		api.POST("/comparison", h.Comparison.Compare)
	}

	return r
}
