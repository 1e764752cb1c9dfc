package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"time"

	"portfolio_tracker/internal/app/di"
	assetadapters "portfolio_tracker/internal/feature/assets/adapters"
	assetusecase "portfolio_tracker/internal/feature/assets/usecase"
	priceadapters "portfolio_tracker/internal/feature/prices/adapters"
	"portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/config"
	infradb "portfolio_tracker/internal/platform/db"
	infraredis "portfolio_tracker/internal/platform/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("invalid configuration: ", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: cfg.LogLevel})))

	db, err := infradb.OpenDB(cfg, &assetadapters.AssetModel{}, &priceadapters.PriceModel{})
	if err != nil {
		log.Fatal("failed to open database: ", err)
	}

	// キャッシュ無効化のためRedisがあれば経由する
	rdb, err := infraredis.NewRedisClient(cfg.RedisAddr(), cfg.RedisPassword)
	if err != nil {
		rdb = nil
	} else {
		defer func() { _ = rdb.Close() }()
	}

	assetUC := assetusecase.NewAssetUsecase(assetadapters.NewAssetRepository(db))
	uc := usecase.NewRefreshUsecase(assetUC, di.NewPriceRepository(db, rdb, cfg.CacheTTL), di.NewProviders())

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	if cfg.SeedDefaultAssets {
		if err := assetUC.SeedDefaults(ctx); err != nil {
			log.Fatal("failed to seed assets: ", err)
		}
	}

	start := time.Now().UTC().AddDate(0, 0, -cfg.IngestLookbackDays)
	res, err := uc.Refresh(ctx, nil, start, time.Time{})
	if err != nil {
		log.Fatal(err)
	}
	for id, msg := range res.Failed {
		log.Printf("failed %s: %s", id, msg)
	}
	if len(res.Updated) == 0 && len(res.Failed) > 0 {
		log.Fatal("ingest failed for every asset")
	}
	log.Printf("ingest ok: refresh_id=%s updated=%d failed=%d", res.ID, len(res.Updated), len(res.Failed))
}
