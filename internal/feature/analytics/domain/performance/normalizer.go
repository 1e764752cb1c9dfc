// Package performance はアセット比較のための時系列分析（リベース・パフォーマンス指標）を提供します。
// すべての関数は入力スライスを変更しない純粋関数で、並行に呼び出しても安全です。
package performance

import "portfolio_tracker/internal/feature/analytics/domain/entity"

// Normalize は価格系列を先頭の価格を基準に initialAmount へリベースします。
//
// 出力は入力と同じ順序・同じ長さで、タイムスタンプはそのままコピーされます。
// 空の系列には空のスライスを返します。先頭価格が0の場合は非有限値がそのまま伝播します。
func Normalize(prices []entity.PricePoint, initialAmount float64) []entity.NormalizedPricePoint {
	out := make([]entity.NormalizedPricePoint, 0, len(prices))
	if len(prices) == 0 {
		return out
	}

	baseline := prices[0].Price
	for _, p := range prices {
		ratio := p.Price / baseline
		out = append(out, entity.NormalizedPricePoint{
			Timestamp:       p.Timestamp,
			NormalizedValue: ratio * initialAmount,
			ReturnPct:       (ratio - 1.0) * 100.0,
		})
	}
	return out
}
