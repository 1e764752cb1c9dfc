package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	redisv9 "github.com/redis/go-redis/v9"

	"portfolio_tracker/internal/app/di"
	"portfolio_tracker/internal/app/router"
	assetadapters "portfolio_tracker/internal/feature/assets/adapters"
	assethandler "portfolio_tracker/internal/feature/assets/transport/handler"
	assetusecase "portfolio_tracker/internal/feature/assets/usecase"
	comparisonhandler "portfolio_tracker/internal/feature/comparison/transport/handler"
	comparisonusecase "portfolio_tracker/internal/feature/comparison/usecase"
	priceadapters "portfolio_tracker/internal/feature/prices/adapters"
	pricehandler "portfolio_tracker/internal/feature/prices/transport/handler"
	priceusecase "portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/config"
	infradb "portfolio_tracker/internal/platform/db"
	"portfolio_tracker/internal/platform/http/handler"
	infraredis "portfolio_tracker/internal/platform/redis"
)

const shutdownTimeout = 10 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("[ERROR] invalid configuration: ", err)
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.LogLevel})))
	if cfg.GinMode != "" {
		gin.SetMode(cfg.GinMode)
	}

	// db
	db, err := infradb.OpenDB(cfg, &assetadapters.AssetModel{}, &priceadapters.PriceModel{})
	if err != nil {
		log.Fatal("[ERROR] failed to open database: ", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal("[ERROR] failed to access database handle: ", err)
	}
	defer func() {
		if err := sqlDB.Close(); err != nil {
			log.Println("[ERROR] Failed to close database:", err)
		}
	}()

	// Redis
	var rdb *redisv9.Client
	if tmp, err := infraredis.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword); err != nil {
		log.Println("[WARN] Redis unavailable. Running without cache.")
	} else {
		rdb = tmp
		defer func() {
			if err := rdb.Close(); err != nil {
				log.Println("[ERROR] Failed to close Redis client:", err)
			}
		}()
	}

	// Repository
	assetRepo := assetadapters.NewAssetRepository(db)
	priceRepo := di.NewPriceRepository(db, rdb, cfg.CacheTTL)

	// Usecase
	assetUC := assetusecase.NewAssetUsecase(assetRepo)
	pricesUC := priceusecase.NewPricesUsecase(assetUC, priceRepo)
	refreshUC := priceusecase.NewRefreshUsecase(assetUC, priceRepo, di.NewProviders())
	compareUC := comparisonusecase.NewCompareUsecase(assetUC, pricesUC, cfg.DefaultInitialAmount)

	if cfg.SeedDefaultAssets {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := assetUC.SeedDefaults(ctx); err != nil {
			log.Println("[WARN] failed to seed default assets:", err)
		}
		cancel()
	}

	// Handler
	checks := map[string]handler.Check{"database": sqlDB.PingContext}
	if rdb != nil {
		checks["redis"] = func(ctx context.Context) error { return rdb.Ping(ctx).Err() }
	}
	handlers := router.Handlers{
		Health:     handler.NewHealthHandler(checks),
		Assets:     assethandler.NewAssetHandler(assetUC),
		Prices:     pricehandler.NewPriceHandler(pricesUC, refreshUC),
		Comparison: comparisonhandler.NewComparisonHandler(compareUC),
	}

	// ルータ生成
	r := router.NewRouter(cfg.CORSAllowOrigin, handlers)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", "addr", srv.Addr, "db_driver", cfg.DBDriver, "cache", rdb != nil)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("[ERROR] server failed: ", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Println("[ERROR] graceful shutdown failed:", err)
	}
}
