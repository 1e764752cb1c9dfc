package di

import (
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	priceadapters "portfolio_tracker/internal/feature/prices/adapters"
	"portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/cache"
)

// NewPriceRepository creates the PriceRepository stack.
// If Redis is available, the database repository is wrapped with a read-through cache.
func NewPriceRepository(db *gorm.DB, rdb *redis.Client, ttl time.Duration) usecase.PriceRepository {
	repo := priceadapters.NewPriceRepository(db)
	if rdb == nil {
		return repo
	}
	return cache.NewCachingPriceRepository(rdb, ttl, repo, "prices")
}
