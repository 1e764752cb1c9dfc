package performance

import (
	"errors"
	"fmt"
	"math"
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
)

var (
	// ErrNonPositivePrice は0以下・NaN・無限大の価格が含まれることを示します。
	ErrNonPositivePrice = errors.New("price must be positive and finite")

	// ErrUnsortedSeries はタイムスタンプが昇順（非減少）に並んでいないことを示します。
	ErrUnsortedSeries = errors.New("series is not ordered by timestamp")

	// ErrMixedAssets は1つの系列に複数のアセットIDが混在していることを示します。
	ErrMixedAssets = errors.New("series contains more than one asset")
)

// ValidateSeries は Normalize と CalculateMetrics が前提とする条件を検証します。
// 同じタイムスタンプの連続は許容し、空の系列は有効とみなします。
func ValidateSeries(prices []entity.PricePoint) error {
	var assetID string
	for i, p := range prices {
		if !(p.Price > 0) || math.IsInf(p.Price, 0) {
			return fmt.Errorf("point %d (%v): %w", i, p.Price, ErrNonPositivePrice)
		}
		if i > 0 && p.Timestamp.Before(prices[i-1].Timestamp) {
			return fmt.Errorf("point %d at %s precedes %s: %w",
				i, p.Timestamp.UTC().Format(time.RFC3339),
				prices[i-1].Timestamp.UTC().Format(time.RFC3339), ErrUnsortedSeries)
		}
		if p.AssetID == "" {
			continue
		}
		if assetID == "" {
			assetID = p.AssetID
		} else if p.AssetID != assetID {
			return fmt.Errorf("point %d has asset %q, expected %q: %w", i, p.AssetID, assetID, ErrMixedAssets)
		}
	}
	return nil
}
