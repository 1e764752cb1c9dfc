package handler

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	assetdomain "portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/prices/domain"
	"portfolio_tracker/internal/feature/prices/usecase"
)

// mockPricesUsecase はPricesUsecaseインターフェースのモック実装です。
type mockPricesUsecase struct {
	GetSeriesFunc func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error)
}

func (m *mockPricesUsecase) GetSeries(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
	if m.GetSeriesFunc != nil {
		return m.GetSeriesFunc(ctx, assetID, start, end)
	}
	return nil, nil
}

// mockRefreshUsecase はRefreshUsecaseインターフェースのモック実装です。
type mockRefreshUsecase struct {
	RefreshFunc       func(ctx context.Context, ids []string, start, end time.Time) (usecase.RefreshResult, error)
	RefreshLatestFunc func(ctx context.Context, ids []string) (usecase.RefreshResult, error)
}

func (m *mockRefreshUsecase) Refresh(ctx context.Context, ids []string, start, end time.Time) (usecase.RefreshResult, error) {
	if m.RefreshFunc != nil {
		return m.RefreshFunc(ctx, ids, start, end)
	}
	return usecase.RefreshResult{}, nil
}

func (m *mockRefreshUsecase) RefreshLatest(ctx context.Context, ids []string) (usecase.RefreshResult, error) {
	if m.RefreshLatestFunc != nil {
		return m.RefreshLatestFunc(ctx, ids)
	}
	return usecase.RefreshResult{}, nil
}

var (
	jan1 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	jan2 = time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC)
)

func TestNewPriceHandler(t *testing.T) {
	t.Parallel()

	h := NewPriceHandler(&mockPricesUsecase{}, &mockRefreshUsecase{})
	assert.NotNil(t, h)
	assert.NotNil(t, h.prices)
	assert.NotNil(t, h.refresh)
}

// TestPriceHandler_GetSeries はGetSeriesハンドラーの各種シナリオをテーブル駆動テストで検証します。
func TestPriceHandler_GetSeries(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name           string
		url            string
		fn             func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "success: returns series with actual bounds",
			url:  "/api/prices/spy?start_date=2024-01-01&end_date=2024-01-31",
			fn: func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
				if assetID != "SPY" || !start.Equal(jan1) || end.Day() != 31 || end.Hour() != 23 {
					return nil, fmt.Errorf("unexpected args %s %v %v", assetID, start, end)
				}
				return []entity.PricePoint{
					{AssetID: "SPY", Timestamp: jan1, Price: 470},
					{AssetID: "SPY", Timestamp: jan2, Price: 472.5},
				}, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody: `{"asset_id":"SPY","start_date":"2024-01-01T00:00:00Z","end_date":"2024-01-02T00:00:00Z","prices":[
				{"asset_id":"SPY","timestamp":"2024-01-01T00:00:00Z","price":470},
				{"asset_id":"SPY","timestamp":"2024-01-02T00:00:00Z","price":472.5}]}`,
		},
		{
			name: "success: empty series renders empty array",
			url:  "/api/prices/BTC?start_date=2024-01-01&end_date=2024-01-01T00:00:00Z",
			fn: func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
				return nil, nil
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `{"asset_id":"BTC","start_date":"2024-01-01T00:00:00Z","end_date":"2024-01-01T00:00:00Z","prices":[]}`,
		},
		{
			name:           "failure: bad date",
			url:            "/api/prices/SPY?start_date=yesterday",
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "failure: inverted range",
			url:  "/api/prices/SPY?start_date=2024-02-01&end_date=2024-01-01",
			fn: func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
				return nil, domain.ErrInvalidDateRange
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `{"error":"start date must not be after end date"}`,
		},
		{
			name: "failure: unknown asset",
			url:  "/api/prices/DOGE",
			fn: func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
				return nil, fmt.Errorf("%w: DOGE", assetdomain.ErrAssetNotFound)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `{"error":"asset not found: DOGE"}`,
		},
		{
			name: "failure: repository error",
			url:  "/api/prices/SPY",
			fn: func(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
				return nil, errors.New("db down")
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `{"error":"db down"}`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			h := NewPriceHandler(&mockPricesUsecase{GetSeriesFunc: tt.fn}, &mockRefreshUsecase{})
			router := gin.New()
			router.GET("/api/prices/:asset_id", h.GetSeries)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodGet, tt.url, nil)
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			if tt.expectedBody != "" {
				assert.JSONEq(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}

func TestPriceHandler_Refresh(t *testing.T) {
	gin.SetMode(gin.TestMode)

	id := uuid.MustParse("11111111-2222-3333-4444-555555555555")
	result := usecase.RefreshResult{
		ID:         id,
		StartedAt:  jan1,
		FinishedAt: jan2,
		Updated:    map[string]int{"SPY": 250},
		Failed:     map[string]string{"BTC": "coingecko http 500"},
	}

	tests := []struct {
		name           string
		body           string
		expectLatest   bool
		wantIDs        []string
		refreshErr     error
		expectedStatus int
	}{
		{name: "success: empty body refreshes all", body: "", wantIDs: []string{}, expectedStatus: http.StatusOK},
		{name: "success: explicit ids normalized", body: `{"asset_ids":[" spy ","btc"],"start_date":"2024-01-01"}`, wantIDs: []string{"SPY", "BTC"}, expectedStatus: http.StatusOK},
		{name: "success: latest only", body: `{"latest_only":true}`, expectLatest: true, wantIDs: []string{}, expectedStatus: http.StatusOK},
		{name: "failure: malformed body", body: `{"asset_ids":`, expectedStatus: http.StatusBadRequest},
		{name: "failure: bad date", body: `{"end_date":"31/01/2024"}`, expectedStatus: http.StatusBadRequest},
		{name: "failure: unknown asset", body: `{"asset_ids":["DOGE"]}`, wantIDs: []string{"DOGE"}, refreshErr: assetdomain.ErrAssetNotFound, expectedStatus: http.StatusNotFound},
		{name: "failure: usecase error", body: `{}`, wantIDs: []string{}, refreshErr: errors.New("db down"), expectedStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var calledLatest, calledRange bool
			ruc := &mockRefreshUsecase{
				RefreshFunc: func(ctx context.Context, ids []string, start, end time.Time) (usecase.RefreshResult, error) {
					calledRange = true
					assert.Equal(t, tt.wantIDs, ids)
					return result, tt.refreshErr
				},
				RefreshLatestFunc: func(ctx context.Context, ids []string) (usecase.RefreshResult, error) {
					calledLatest = true
					assert.Equal(t, tt.wantIDs, ids)
					return result, tt.refreshErr
				},
			}
			h := NewPriceHandler(&mockPricesUsecase{}, ruc)
			router := gin.New()
			router.POST("/api/refresh", h.Refresh)

			w := httptest.NewRecorder()
			req, _ := http.NewRequest(http.MethodPost, "/api/refresh", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
			if tt.expectedStatus != http.StatusOK {
				return
			}
			assert.Equal(t, tt.expectLatest, calledLatest)
			assert.Equal(t, !tt.expectLatest, calledRange)
			assert.JSONEq(t, `{
				"refresh_id":"11111111-2222-3333-4444-555555555555",
				"started_at":"2024-01-01T00:00:00Z",
				"finished_at":"2024-01-02T00:00:00Z",
				"updated":{"SPY":250},
				"failed":{"BTC":"coingecko http 500"}}`, w.Body.String())
		})
	}
}
