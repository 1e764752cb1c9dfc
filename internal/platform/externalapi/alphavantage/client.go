package alphavantage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	"portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/externalapi/alphavantage/dto"
	httpx "portfolio_tracker/internal/platform/http"
)

const (
	dateLayout = "2006-01-02"

	// compactWindow は outputsize=compact（直近100営業日）で賄える期間の目安です。
	compactWindow = 140 * 24 * time.Hour
)

// ErrAPILimit は Note / Information でレート制限またはプレミアム限定が通知されたことを示します。
var ErrAPILimit = errors.New("alphavantage: api limit")

// AlphaVantageMarket はAlpha Vantage APIから株式・ETFの日次終値を取得するPriceDataClient実装です。
type AlphaVantageMarket struct {
	cfg    Config
	client *http.Client
	retry  httpx.RetryConfig
	now    func() time.Time
}

// AlphaVantageMarketがPriceDataClientを実装していることをコンパイル時に検証します。
var _ usecase.PriceDataClient = (*AlphaVantageMarket)(nil)

// NewAlphaVantageMarket は指定された設定とHTTPクライアントでAlphaVantageMarketを生成します。
func NewAlphaVantageMarket(cfg Config, client *http.Client) *AlphaVantageMarket {
	return &AlphaVantageMarket{cfg: cfg, client: client, retry: httpx.DefaultRetry, now: time.Now}
}

// FetchHistorical は [start, end] の日次終値を昇順で返します。
// 日付はUTCの0時として扱います。
func (m *AlphaVantageMarket) FetchHistorical(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("function", "TIME_SERIES_DAILY")
	q.Set("symbol", symbol)
	q.Set("outputsize", m.outputSize(start))

	var body dto.TimeSeriesDailyResponse
	if err := m.query(ctx, q, &body); err != nil {
		return nil, err
	}
	if err := checkMessage(body.APIMessage); err != nil {
		return nil, err
	}
	if body.TimeSeries == nil {
		return nil, fmt.Errorf("alphavantage: no time series for %q", symbol)
	}

	// 日付をタイムスタンプと比較するため、境界を日単位に丸める
	from := truncateDay(start)
	to := truncateDay(end)

	out := make([]entity.PricePoint, 0, len(body.TimeSeries))
	for d, bar := range body.TimeSeries {
		tm, err := time.Parse(dateLayout, d)
		if err != nil {
			return nil, fmt.Errorf("parse date %q: %w", d, err)
		}
		if tm.Before(from) || tm.After(to) {
			continue
		}
		c, err := parsePrice(bar.Close)
		if err != nil {
			return nil, fmt.Errorf("parse close %q on %s: %w", bar.Close, d, err)
		}
		out = append(out, entity.PricePoint{Timestamp: tm, Price: c})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Timestamp.Before(out[j].Timestamp) })
	return out, nil
}

// FetchLatest は直近営業日の価格を返します。
func (m *AlphaVantageMarket) FetchLatest(ctx context.Context, symbol string) (entity.PricePoint, error) {
	q := url.Values{}
	q.Set("function", "GLOBAL_QUOTE")
	q.Set("symbol", symbol)

	var body dto.GlobalQuoteResponse
	if err := m.query(ctx, q, &body); err != nil {
		return entity.PricePoint{}, err
	}
	if err := checkMessage(body.APIMessage); err != nil {
		return entity.PricePoint{}, err
	}
	gq := body.GlobalQuote
	if gq.Price == "" {
		return entity.PricePoint{}, fmt.Errorf("alphavantage: no quote for %q", symbol)
	}

	p, err := parsePrice(gq.Price)
	if err != nil {
		return entity.PricePoint{}, fmt.Errorf("parse price %q: %w", gq.Price, err)
	}
	ts := truncateDay(m.now())
	if gq.LatestTradingDay != "" {
		if ts, err = time.Parse(dateLayout, gq.LatestTradingDay); err != nil {
			return entity.PricePoint{}, fmt.Errorf("parse date %q: %w", gq.LatestTradingDay, err)
		}
	}
	return entity.PricePoint{Timestamp: ts, Price: p}, nil
}

// outputSize は開始日が直近であれば compact を選び、転送量を抑えます。
func (m *AlphaVantageMarket) outputSize(start time.Time) string {
	if !start.IsZero() && m.now().Sub(start) < compactWindow {
		return "compact"
	}
	return "full"
}

func (m *AlphaVantageMarket) query(ctx context.Context, q url.Values, out any) error {
	q.Set("apikey", m.cfg.APIKey)
	u := fmt.Sprintf("%s/query?%s", m.cfg.BaseURL, q.Encode())

	res, err := httpx.DoWithRetry(ctx, m.client, m.retry, func(ctx context.Context) (*http.Request, error) {
		return http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	})
	if err != nil {
		return fmt.Errorf("alphavantage fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		return fmt.Errorf("alphavantage http %d", res.StatusCode)
	}
	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("alphavantage decode: %w", err)
	}
	return nil
}

// checkMessage はHTTP 200で返されるAPIレベルのエラーを検出します。
func checkMessage(m dto.APIMessage) error {
	switch {
	case m.ErrorMessage != "":
		return fmt.Errorf("alphavantage: %s", m.ErrorMessage)
	case m.Note != "":
		return fmt.Errorf("%w: %s", ErrAPILimit, m.Note)
	case m.Information != "":
		return fmt.Errorf("%w: %s", ErrAPILimit, m.Information)
	}
	return nil
}

// parsePrice は10進数文字列を正の価格として解釈します。
func parsePrice(s string) (float64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, err
	}
	if !d.IsPositive() {
		return 0, fmt.Errorf("non-positive price %s", d)
	}
	return d.InexactFloat64(), nil
}

func truncateDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
