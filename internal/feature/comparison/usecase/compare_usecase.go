// Package usecase implements multi-asset performance comparison.
package usecase

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	"portfolio_tracker/internal/feature/analytics/domain/performance"
	assetentity "portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/comparison/domain"
	pricesusecase "portfolio_tracker/internal/feature/prices/usecase"
)

// maxConcurrentLoads は同時に読み込む価格系列の上限です。
const maxConcurrentLoads = 4

// AssetLookup は比較対象のアセットを解決します。
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider.
type AssetLookup interface {
	GetAssets(ctx context.Context, ids []string) ([]assetentity.Asset, error)
}

// SeriesSource は保存済みの価格系列を返します。
type SeriesSource interface {
	GetSeries(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error)
}

// Request は比較の入力です。ゼロ値の日付は既定の期間で補完されます。
type Request struct {
	AssetIDs      []string
	Start         time.Time
	End           time.Time
	InitialAmount float64
}

// AssetComparison は1アセット分の比較結果です。
// HasMetrics が false の場合、データ不足で指標を計算できなかったことを示します。
type AssetComparison struct {
	AssetID    string
	Points     []entity.NormalizedPricePoint
	Metrics    entity.PerformanceMetrics
	HasMetrics bool
}

// Result は比較結果です。Assets はリクエストのID順に並びます。
type Result struct {
	InitialAmount float64
	Start         time.Time
	End           time.Time
	Assets        []AssetComparison
}

// CompareUsecase は複数アセットの価格系列を同じ初期投資額に正規化し、指標を計算します。
type CompareUsecase struct {
	assets        AssetLookup
	series        SeriesSource
	defaultAmount float64
	now           func() time.Time
}

// NewCompareUsecase は新しい CompareUsecase を作成します。
// defaultAmount はリクエストの初期投資額が0以下の場合に使われます。
func NewCompareUsecase(assets AssetLookup, series SeriesSource, defaultAmount float64) *CompareUsecase {
	return &CompareUsecase{assets: assets, series: series, defaultAmount: defaultAmount, now: time.Now}
}

// normalizeIDs trims, upper-cases and de-duplicates ids, keeping first occurrence order.
func normalizeIDs(ids []string) []string {
	seen := make(map[string]struct{}, len(ids))
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		id = strings.ToUpper(strings.TrimSpace(id))
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	return out
}

// Compare loads, validates, normalizes and measures every requested asset.
// All assets share one resolved date window. A series that fails validation
// fails the whole comparison with domain.ErrInvalidSeries.
func (u *CompareUsecase) Compare(ctx context.Context, req Request) (Result, error) {
	ids := normalizeIDs(req.AssetIDs)
	switch {
	case len(ids) == 0:
		return Result{}, domain.ErrNoAssets
	case len(ids) > domain.MaxAssets:
		return Result{}, fmt.Errorf("%w: %d requested, at most %d allowed", domain.ErrTooManyAssets, len(ids), domain.MaxAssets)
	}

	start, end, err := pricesusecase.ResolveRange(u.now(), req.Start, req.End)
	if err != nil {
		return Result{}, err
	}
	if _, err := u.assets.GetAssets(ctx, ids); err != nil {
		return Result{}, err
	}

	amount := req.InitialAmount
	if math.IsInf(amount, 1) {
		return Result{}, fmt.Errorf("%w: %v", domain.ErrInvalidAmount, amount)
	}
	if !(amount > 0) {
		amount = u.defaultAmount
	}

	out := make([]AssetComparison, len(ids))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentLoads)
	for i, id := range ids {
		g.Go(func() error {
			c, err := u.compareOne(gctx, id, start, end, amount)
			if err != nil {
				return err
			}
			out[i] = c
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	return Result{InitialAmount: amount, Start: start, End: end, Assets: out}, nil
}

func (u *CompareUsecase) load(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
	pts, err := u.series.GetSeries(ctx, assetID, start, end)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", assetID, err)
	}
	if err := performance.ValidateSeries(pts); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidSeries, assetID, err)
	}
	return pts, nil
}

func (u *CompareUsecase) compareOne(ctx context.Context, assetID string, start, end time.Time, amount float64) (AssetComparison, error) {
	pts, err := u.load(ctx, assetID, start, end)
	if err != nil {
		return AssetComparison{}, err
	}
	points := performance.Normalize(pts, amount)
	if err := checkPoints(assetID, pts, points, amount); err != nil {
		return AssetComparison{}, err
	}
	m, ok := performance.CalculateMetrics(assetID, pts)
	if ok {
		if err := checkMetrics(m); err != nil {
			return AssetComparison{}, err
		}
	}
	return AssetComparison{
		AssetID:    assetID,
		Points:     points,
		Metrics:    m,
		HasMetrics: ok,
	}, nil
}

func finite(v float64) bool {
	return !math.IsInf(v, 0) && !math.IsNaN(v)
}

// checkPoints rejects normalized values that overflowed. When the price ratio
// itself is representable the amount is at fault, otherwise the series is.
func checkPoints(assetID string, pts []entity.PricePoint, points []entity.NormalizedPricePoint, amount float64) error {
	for i, p := range points {
		if finite(p.NormalizedValue) && finite(p.ReturnPct) {
			continue
		}
		ratio := pts[i].Price / pts[0].Price
		if finite((ratio - 1.0) * 100.0) {
			return fmt.Errorf("%w: %v overflows the normalized value of %s at %s",
				domain.ErrInvalidAmount, amount, assetID, p.Timestamp.UTC().Format(time.RFC3339))
		}
		return fmt.Errorf("%w: %s: normalized value at %s is not finite",
			domain.ErrInvalidSeries, assetID, p.Timestamp.UTC().Format(time.RFC3339))
	}
	return nil
}

// checkMetrics rejects metrics that overflowed, such as the annualized return
// of a large move over a span of a few days.
func checkMetrics(m entity.PerformanceMetrics) error {
	fields := []struct {
		name  string
		value float64
	}{
		{"total_return_pct", m.TotalReturnPct},
		{"annualized_return_pct", m.AnnualizedReturnPct},
		{"volatility", m.Volatility},
	}
	for _, f := range fields {
		if !finite(f.value) {
			return fmt.Errorf("%w: %s: %s is not finite (%v)", domain.ErrInvalidSeries, m.AssetID, f.name, f.value)
		}
	}
	return nil
}

// Metrics returns the performance metrics of a single asset. The boolean is
// false when the window holds fewer than two prices. Metrics that are not
// finite are reported as domain.ErrInvalidSeries.
func (u *CompareUsecase) Metrics(ctx context.Context, assetID string, start, end time.Time) (entity.PerformanceMetrics, bool, error) {
	ids := normalizeIDs([]string{assetID})
	if len(ids) == 0 {
		return entity.PerformanceMetrics{}, false, domain.ErrNoAssets
	}
	start, end, err := pricesusecase.ResolveRange(u.now(), start, end)
	if err != nil {
		return entity.PerformanceMetrics{}, false, err
	}
	if _, err := u.assets.GetAssets(ctx, ids); err != nil {
		return entity.PerformanceMetrics{}, false, err
	}
	pts, err := u.load(ctx, ids[0], start, end)
	if err != nil {
		return entity.PerformanceMetrics{}, false, err
	}
	m, ok := performance.CalculateMetrics(ids[0], pts)
	if ok {
		if err := checkMetrics(m); err != nil {
			return entity.PerformanceMetrics{}, false, err
		}
	}
	return m, ok, nil
}
