package coingecko

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	"portfolio_tracker/internal/feature/prices/usecase"
	"portfolio_tracker/internal/platform/externalapi/coingecko/dto"
	httpx "portfolio_tracker/internal/platform/http"
)

const (
	vsCurrency   = "usd"
	apiKeyHeader = "x-cg-demo-api-key"
)

// CoinGeckoMarket はCoinGecko APIから暗号資産の価格を取得するPriceDataClient実装です。
// symbol にはCoinGeckoのコインID（例: "bitcoin"）を渡します。
type CoinGeckoMarket struct {
	cfg    Config
	client *http.Client
	retry  httpx.RetryConfig
}

// CoinGeckoMarketがPriceDataClientを実装していることをコンパイル時に検証します。
var _ usecase.PriceDataClient = (*CoinGeckoMarket)(nil)

// NewCoinGeckoMarket は指定された設定とHTTPクライアントでCoinGeckoMarketを生成します。
func NewCoinGeckoMarket(cfg Config, client *http.Client) *CoinGeckoMarket {
	return &CoinGeckoMarket{cfg: cfg, client: client, retry: httpx.DefaultRetry}
}

// FetchHistorical は [start, end] の価格履歴を昇順で返します。
func (m *CoinGeckoMarket) FetchHistorical(ctx context.Context, symbol string, start, end time.Time) ([]entity.PricePoint, error) {
	q := url.Values{}
	q.Set("vs_currency", vsCurrency)
	q.Set("from", strconv.FormatInt(start.Unix(), 10))
	q.Set("to", strconv.FormatInt(end.Unix(), 10))

	var body dto.MarketChartResponse
	if err := m.get(ctx, "/coins/"+url.PathEscape(symbol)+"/market_chart/range", q, &body); err != nil {
		return nil, err
	}

	out := make([]entity.PricePoint, 0, len(body.Prices))
	skipped := 0
	for _, p := range body.Prices {
		price := p[1]
		if !(price > 0) || math.IsInf(price, 0) {
			skipped++
			continue
		}
		out = append(out, entity.PricePoint{
			Timestamp: time.UnixMilli(int64(p[0])).UTC(),
			Price:     price,
		})
	}
	if skipped > 0 {
		slog.Warn("coingecko returned invalid prices", "symbol", symbol, "skipped", skipped)
	}
	return out, nil
}

// FetchLatest は現在価格を返します。
func (m *CoinGeckoMarket) FetchLatest(ctx context.Context, symbol string) (entity.PricePoint, error) {
	q := url.Values{}
	q.Set("ids", symbol)
	q.Set("vs_currencies", vsCurrency)
	q.Set("include_last_updated_at", "true")

	var body dto.SimplePriceResponse
	if err := m.get(ctx, "/simple/price", q, &body); err != nil {
		return entity.PricePoint{}, err
	}

	quote, ok := body[symbol]
	if !ok {
		return entity.PricePoint{}, fmt.Errorf("coingecko: unknown coin id %q", symbol)
	}
	if !(quote.USD > 0) {
		return entity.PricePoint{}, fmt.Errorf("coingecko: invalid price %f for %q", quote.USD, symbol)
	}
	ts := time.Now().UTC()
	if quote.LastUpdatedAt > 0 {
		ts = time.Unix(quote.LastUpdatedAt, 0).UTC()
	}
	return entity.PricePoint{Timestamp: ts, Price: quote.USD}, nil
}

// get はリトライ付きでGETリクエストを送信し、レスポンスをoutにデコードします。
func (m *CoinGeckoMarket) get(ctx context.Context, path string, q url.Values, out any) error {
	u := fmt.Sprintf("%s%s?%s", m.cfg.BaseURL, path, q.Encode())

	res, err := httpx.DoWithRetry(ctx, m.client, m.retry, func(ctx context.Context) (*http.Request, error) {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Accept", "application/json")
		if m.cfg.APIKey != "" {
			req.Header.Set(apiKeyHeader, m.cfg.APIKey)
		}
		return req, nil
	})
	if err != nil {
		return fmt.Errorf("coingecko fetch: %w", err)
	}
	defer func() {
		if err := res.Body.Close(); err != nil {
			slog.Warn("failed to close response body", "error", err)
		}
	}()

	if res.StatusCode >= 400 {
		b, _ := io.ReadAll(io.LimitReader(res.Body, 1024))
		var apiErr dto.ErrorResponse
		if json.Unmarshal(b, &apiErr) == nil {
			if apiErr.Error != "" {
				return fmt.Errorf("coingecko http %d: %s", res.StatusCode, apiErr.Error)
			}
			if apiErr.Status.ErrorMessage != "" {
				return fmt.Errorf("coingecko http %d: %s", res.StatusCode, apiErr.Status.ErrorMessage)
			}
		}
		return fmt.Errorf("coingecko http %d", res.StatusCode)
	}

	if err := json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("coingecko decode: %w", err)
	}
	return nil
}
