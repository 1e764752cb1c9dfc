// Package usecase implements reading and refreshing historical price series.
package usecase

import (
	"context"
	"fmt"
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	assetentity "portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/prices/domain"
)

// PriceRepository は価格データの永続化層を抽象化します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type PriceRepository interface {
	// UpsertBatch は (asset_id, timestamp) をキーに価格を一括挿入（または更新）します。
	UpsertBatch(ctx context.Context, prices []entity.PricePoint) error
	// FindRange は [start, end] の価格をタイムスタンプ昇順で返します。
	FindRange(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error)
}

// AssetLookup は価格取得対象のアセットを解決します。
type AssetLookup interface {
	GetAsset(ctx context.Context, id string) (assetentity.Asset, error)
}

// defaultLookbackYears は開始日が省略された場合の期間（年）です。
const defaultLookbackYears = 1

// PricesUsecase は保存済みの価格系列を提供します。
type PricesUsecase struct {
	assets AssetLookup
	repo   PriceRepository
	now    func() time.Time
}

// NewPricesUsecase は新しい PricesUsecase を作成します。
func NewPricesUsecase(assets AssetLookup, repo PriceRepository) *PricesUsecase {
	return &PricesUsecase{assets: assets, repo: repo, now: time.Now}
}

// ResolveRange fills in a missing end (now, rounded up to the minute) and a
// missing start (one year before end), and rejects start after end.
func ResolveRange(now time.Time, start, end time.Time) (time.Time, time.Time, error) {
	if end.IsZero() {
		end = now.UTC().Truncate(time.Minute).Add(time.Minute)
	}
	if start.IsZero() {
		start = end.AddDate(-defaultLookbackYears, 0, 0)
	}
	if start.After(end) {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %s > %s",
			domain.ErrInvalidDateRange, start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	return start.UTC(), end.UTC(), nil
}

// GetSeries returns the stored prices of a known asset over [start, end].
func (u *PricesUsecase) GetSeries(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
	start, end, err := ResolveRange(u.now(), start, end)
	if err != nil {
		return nil, err
	}
	if _, err := u.assets.GetAsset(ctx, assetID); err != nil {
		return nil, err
	}
	return u.repo.FindRange(ctx, assetID, start, end)
}
