package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	assetentity "portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/prices/domain"
	"portfolio_tracker/internal/shared/ratelimiter"
)

// PriceDataClient は外部の市場データAPIから価格を取得するクライアントです。
// 返されるPricePointのAssetIDは呼び出し側で設定されます。
type PriceDataClient interface {
	FetchHistorical(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error)
	FetchLatest(ctx context.Context, symbol string) (entity.PricePoint, error)
}

// AssetResolver は更新対象のアセットを解決します。
type AssetResolver interface {
	ListAssets(ctx context.Context) ([]assetentity.Asset, error)
	GetAssets(ctx context.Context, ids []string) ([]assetentity.Asset, error)
}

// Provider binds a client to the limiter guarding its quota.
type Provider struct {
	Name    string
	Client  PriceDataClient
	Limiter ratelimiter.RateLimiterInterface // nil means unlimited
}

// RefreshResult summarizes one refresh run.
type RefreshResult struct {
	ID         uuid.UUID
	StartedAt  time.Time
	FinishedAt time.Time
	Updated    map[string]int    // asset ID -> number of points stored
	Failed     map[string]string // asset ID -> error message
}

// RefreshUsecase は外部APIから価格を取得し、データベースに永続化します。
type RefreshUsecase struct {
	assets    AssetResolver
	prices    PriceRepository
	providers map[assetentity.AssetType]Provider
	now       func() time.Time
}

// NewRefreshUsecase は新しい RefreshUsecase を作成します。
// providers はアセット種別ごとの取得先です。
func NewRefreshUsecase(assets AssetResolver, prices PriceRepository, providers map[assetentity.AssetType]Provider) *RefreshUsecase {
	return &RefreshUsecase{assets: assets, prices: prices, providers: providers, now: time.Now}
}

// fetchFunc fetches the points of one asset through one provider.
type fetchFunc func(ctx context.Context, p Provider, a assetentity.Asset) ([]entity.PricePoint, error)

// Refresh fetches historical prices over [start, end] for assetIDs (all active
// assets when empty) and upserts them. Assets are grouped by provider; groups
// run concurrently while each group respects its own rate limiter.
// Per-asset failures are reported in the result and do not fail the call.
func (u *RefreshUsecase) Refresh(ctx context.Context, assetIDs []string, start, end time.Time) (RefreshResult, error) {
	start, end, err := ResolveRange(u.now(), start, end)
	if err != nil {
		return RefreshResult{}, err
	}
	return u.run(ctx, assetIDs, func(ctx context.Context, p Provider, a assetentity.Asset) ([]entity.PricePoint, error) {
		return p.Client.FetchHistorical(ctx, a.QuerySymbol(), start, end)
	})
}

// RefreshLatest fetches only the latest quote of each asset.
func (u *RefreshUsecase) RefreshLatest(ctx context.Context, assetIDs []string) (RefreshResult, error) {
	return u.run(ctx, assetIDs, func(ctx context.Context, p Provider, a assetentity.Asset) ([]entity.PricePoint, error) {
		pt, err := p.Client.FetchLatest(ctx, a.QuerySymbol())
		if err != nil {
			return nil, err
		}
		return []entity.PricePoint{pt}, nil
	})
}

func (u *RefreshUsecase) resolve(ctx context.Context, ids []string) ([]assetentity.Asset, error) {
	if len(ids) == 0 {
		return u.assets.ListAssets(ctx)
	}
	return u.assets.GetAssets(ctx, ids)
}

func (u *RefreshUsecase) run(ctx context.Context, assetIDs []string, fetch fetchFunc) (RefreshResult, error) {
	res := RefreshResult{
		ID:        uuid.New(),
		StartedAt: u.now().UTC(),
		Updated:   map[string]int{},
		Failed:    map[string]string{},
	}

	assets, err := u.resolve(ctx, assetIDs)
	if err != nil {
		return res, err
	}

	groups := map[assetentity.AssetType][]assetentity.Asset{}
	for _, a := range assets {
		if _, ok := u.providers[a.AssetType]; !ok {
			res.Failed[a.ID] = fmt.Errorf("%w: %s", domain.ErrNoProvider, a.AssetType).Error()
			continue
		}
		groups[a.AssetType] = append(groups[a.AssetType], a)
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for t, group := range groups {
		p := u.providers[t]
		g.Go(func() error {
			for _, a := range group {
				if p.Limiter != nil {
					if err := p.Limiter.WaitIfNeeded(gctx); err != nil {
						return err
					}
				}
				n, err := u.refreshOne(gctx, p, a, fetch)

				mu.Lock()
				if err != nil {
					// 1つのアセットが失敗しても処理を止めずにログに出力し、次へ進む
					slog.Error("failed to refresh prices",
						"refresh_id", res.ID, "asset_id", a.ID, "provider", p.Name, "error", err)
					res.Failed[a.ID] = err.Error()
				} else {
					res.Updated[a.ID] = n
				}
				mu.Unlock()
			}
			return nil
		})
	}
	err = g.Wait()
	res.FinishedAt = u.now().UTC()

	slog.Info("price refresh finished",
		"refresh_id", res.ID, "updated", len(res.Updated), "failed", len(res.Failed),
		"elapsed", res.FinishedAt.Sub(res.StartedAt))
	return res, err
}

func (u *RefreshUsecase) refreshOne(ctx context.Context, p Provider, a assetentity.Asset, fetch fetchFunc) (int, error) {
	pts, err := fetch(ctx, p, a)
	if err != nil {
		return 0, err
	}
	if len(pts) == 0 {
		return 0, domain.ErrNoData
	}
	// 取得したデータにアセットIDを設定
	for i := range pts {
		pts[i].AssetID = a.ID
		pts[i].Timestamp = pts[i].Timestamp.UTC()
	}
	if err := u.prices.UpsertBatch(ctx, pts); err != nil {
		return 0, fmt.Errorf("store prices: %w", err)
	}
	return len(pts), nil
}
