package coingecko

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpx "portfolio_tracker/internal/platform/http"
)

// newTestMarket はテストサーバー向けに、待機時間を短くしたクライアントを生成します。
func newTestMarket(t *testing.T, h http.HandlerFunc) *CoinGeckoMarket {
	t.Helper()
	server := httptest.NewServer(h)
	t.Cleanup(server.Close)

	m := NewCoinGeckoMarket(Config{APIKey: "demo-key", BaseURL: server.URL}, server.Client())
	m.retry = httpx.RetryConfig{MaxAttempts: 2, BaseDelay: time.Millisecond, MaxDelay: time.Millisecond}
	return m
}

func TestNewCoinGeckoMarket(t *testing.T) {
	t.Parallel()

	m := NewCoinGeckoMarket(Config{BaseURL: "https://api.test.com"}, &http.Client{})
	require.NotNil(t, m)
	assert.Equal(t, "https://api.test.com", m.cfg.BaseURL)
	assert.Equal(t, httpx.DefaultRetry, m.retry)
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Setenv("COINGECKO_API_KEY", "")
	t.Setenv("COINGECKO_BASE_URL", "")
	t.Setenv("COINGECKO_RATE_LIMIT_PER_MINUTE", "")

	cfg := LoadConfig()
	assert.Equal(t, defaultBaseURL, cfg.BaseURL)
	assert.Equal(t, defaultRateLimitPerMinute, cfg.RateLimitPerMinute)
	assert.Equal(t, 10*time.Second, cfg.Timeout)

	t.Setenv("COINGECKO_RATE_LIMIT_PER_MINUTE", "50")
	assert.Equal(t, 50, LoadConfig().RateLimitPerMinute)
}

func TestCoinGeckoMarket_FetchHistorical_Success(t *testing.T) {
	t.Parallel()

	start := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC)

	m := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/coins/bitcoin/market_chart/range", r.URL.Path)
		assert.Equal(t, "usd", r.URL.Query().Get("vs_currency"))
		assert.Equal(t, "1704067200", r.URL.Query().Get("from"))
		assert.Equal(t, "1704240000", r.URL.Query().Get("to"))
		assert.Equal(t, "demo-key", r.Header.Get(apiKeyHeader))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{
			"prices": [[1704067200000, 42000.5], [1704153600000, 0], [1704240000000, 43000]],
			"market_caps": [],
			"total_volumes": []
		}`))
	})

	got, err := m.FetchHistorical(context.Background(), "bitcoin", start, end)
	require.NoError(t, err)
	require.Len(t, got, 2, "zero price should be skipped")
	assert.Equal(t, start, got[0].Timestamp)
	assert.Equal(t, 42000.5, got[0].Price)
	assert.Equal(t, end, got[1].Timestamp)
	assert.Empty(t, got[0].AssetID)
}

func TestCoinGeckoMarket_FetchHistorical_HTTPError(t *testing.T) {
	t.Parallel()

	m := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"coin not found"}`))
	})

	_, err := m.FetchHistorical(context.Background(), "nope", time.Now().AddDate(0, 0, -1), time.Now())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "coingecko http 404: coin not found")
}

// TestCoinGeckoMarket_RetriesOn429 は429の後に再試行して成功することを検証します。
func TestCoinGeckoMarket_RetriesOn429(t *testing.T) {
	t.Parallel()

	var calls atomic.Int32
	m := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		if calls.Add(1) == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		_, _ = w.Write([]byte(`{"bitcoin":{"usd":50000,"last_updated_at":1704067200}}`))
	})

	got, err := m.FetchLatest(context.Background(), "bitcoin")
	require.NoError(t, err)
	assert.Equal(t, int32(2), calls.Load())
	assert.Equal(t, 50000.0, got.Price)
	assert.Equal(t, time.Unix(1704067200, 0).UTC(), got.Timestamp)
}

func TestCoinGeckoMarket_FetchLatest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{name: "success", body: `{"bitcoin":{"usd":50000}}`},
		{name: "unknown coin", body: `{}`, wantErr: "unknown coin id"},
		{name: "invalid price", body: `{"bitcoin":{"usd":0}}`, wantErr: "invalid price"},
		{name: "malformed json", body: `{"bitcoin":`, wantErr: "coingecko decode"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			m := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, "/simple/price", r.URL.Path)
				assert.Equal(t, "bitcoin", r.URL.Query().Get("ids"))
				_, _ = w.Write([]byte(tt.body))
			})

			got, err := m.FetchLatest(context.Background(), "bitcoin")
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, 50000.0, got.Price)
			assert.False(t, got.Timestamp.IsZero())
		})
	}
}

func TestCoinGeckoMarket_ContextCanceled(t *testing.T) {
	t.Parallel()

	m := newTestMarket(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{}`))
	})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := m.FetchLatest(ctx, "bitcoin")
	assert.ErrorIs(t, err, context.Canceled)
}
