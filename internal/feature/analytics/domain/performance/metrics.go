package performance

import (
	"math"
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
)

const (
	// DaysPerYear は年率換算に使う1年あたりの日数です。
	DaysPerYear = 365.25
	// MinMetricsPoints は指標計算に必要な最小データ点数です。
	MinMetricsPoints = 2

	day = 24 * time.Hour
)

// CalculateMetrics は価格系列からパフォーマンス指標を計算します。
//
// データ点が2未満の場合は (ゼロ値, false) を返します。これはエラーではなく
// 「データ不足」という正常な結果です。
//
//   - 総リターン: (last/first - 1) * 100
//   - 年率リターン: 期間が1日未満（または時刻が逆行）の場合は0、それ以外はCAGR
//   - ボラティリティ: 単純リターンの母標準偏差 * 100（年率換算しない）
func CalculateMetrics(assetID string, prices []entity.PricePoint) (entity.PerformanceMetrics, bool) {
	if len(prices) < MinMetricsPoints {
		return entity.PerformanceMetrics{}, false
	}

	first := prices[0]
	last := prices[len(prices)-1]
	growth := last.Price / first.Price

	return entity.PerformanceMetrics{
		AssetID:             assetID,
		TotalReturnPct:      (growth - 1.0) * 100.0,
		AnnualizedReturnPct: annualizedReturnPct(growth, first.Timestamp, last.Timestamp),
		Volatility:          populationStdDev(simpleReturns(prices)) * 100.0,
		StartDate:           first.Timestamp,
		EndDate:             last.Timestamp,
	}, true
}

// annualizedReturnPct は期間を整数日に切り捨てて年数に換算し、CAGRを返します。
func annualizedReturnPct(growth float64, start, end time.Time) float64 {
	days := float64(end.Sub(start) / day)
	years := days / DaysPerYear
	if years <= 0 {
		return 0.0
	}
	return (math.Pow(growth, 1.0/years) - 1.0) * 100.0
}

// simpleReturns は隣接する価格ペアごとの単純リターン p[i+1]/p[i] - 1 を返します。
func simpleReturns(prices []entity.PricePoint) []float64 {
	if len(prices) < 2 {
		return nil
	}
	returns := make([]float64, 0, len(prices)-1)
	for i := 1; i < len(prices); i++ {
		returns = append(returns, prices[i].Price/prices[i-1].Price-1.0)
	}
	return returns
}

// populationStdDev は母標準偏差（除数 n）を返します。空のスライスには0を返します。
func populationStdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0.0
	}

	n := float64(len(values))
	var sum float64
	for _, v := range values {
		sum += v
	}
	mean := sum / n

	var sq float64
	for _, v := range values {
		d := v - mean
		sq += d * d
	}
	return math.Sqrt(sq / n)
}
