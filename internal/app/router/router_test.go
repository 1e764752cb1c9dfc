package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	assethandler "portfolio_tracker/internal/feature/assets/transport/handler"
	comparisonhandler "portfolio_tracker/internal/feature/comparison/transport/handler"
	pricehandler "portfolio_tracker/internal/feature/prices/transport/handler"
	"portfolio_tracker/internal/platform/http/handler"
)

func newTestRouter(t *testing.T, allowOrigin string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	return NewRouter(allowOrigin, Handlers{
		Health: handler.NewHealthHandler(map[string]handler.Check{
			"db": func(ctx context.Context) error { return nil },
		}),
		Assets:     assethandler.NewAssetHandler(nil),
		Prices:     pricehandler.NewPriceHandler(nil, nil),
		Comparison: comparisonhandler.NewComparisonHandler(nil),
	})
}

// TestNewRouter_Routes は全エンドポイントが登録されていることを検証します。
func TestNewRouter_Routes(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, "*")
	got := map[string]bool{}
	for _, ri := range r.Routes() {
		got[ri.Method+" "+ri.Path] = true
	}

	for _, want := range []string{
		"GET /",
		"GET /healthz",
		"HEAD /healthz",
		"GET /health",
		"GET /api/assets",
		"POST /api/assets",
		"GET /api/assets/:asset_id/metrics",
		"GET /api/prices/:asset_id",
		"POST /api/refresh",
		"POST /api/comparison",
	} {
		assert.True(t, got[want], "route %s not registered", want)
	}
}

func TestNewRouter_RootAndHealth(t *testing.T) {
	t.Parallel()

	r := newTestRouter(t, "*")

	w := httptest.NewRecorder()
	req, _ := http.NewRequest(http.MethodGet, "/", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, handler.Banner, w.Body.String())

	w = httptest.NewRecorder()
	req, _ = http.NewRequest(http.MethodGet, "/health", nil)
	r.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok","checks":{"db":"ok"}}`, w.Body.String())
}

// TestNewRouter_CORS は許可オリジンの設定がプリフライトに反映されることを検証します。
func TestNewRouter_CORS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		allowOrigin string
		origin      string
		wantHeader  string
	}{
		{name: "wildcard", allowOrigin: "*", origin: "http://localhost:5173", wantHeader: "*"},
		{name: "listed origin", allowOrigin: "http://a.example, http://b.example", origin: "http://b.example", wantHeader: "http://b.example"},
		{name: "unlisted origin", allowOrigin: "http://a.example", origin: "http://evil.example", wantHeader: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			r := newTestRouter(t, tt.allowOrigin)
			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodOptions, "/api/comparison", nil)
			req.Header.Set("Origin", tt.origin)
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			r.ServeHTTP(w, req)

			require.Equal(t, tt.wantHeader, w.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestCorsConfig(t *testing.T) {
	t.Parallel()

	assert.True(t, corsConfig("").AllowAllOrigins)
	assert.True(t, corsConfig(" * ").AllowAllOrigins)

	cfg := corsConfig("http://a.example,,http://b.example")
	assert.False(t, cfg.AllowAllOrigins)
	assert.Equal(t, []string{"http://a.example", "http://b.example"}, cfg.AllowOrigins)
}
