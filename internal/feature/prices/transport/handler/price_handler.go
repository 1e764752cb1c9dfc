// Package handler はpricesフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/analytics/domain/entity"
	assetdomain "portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/prices/domain"
	"portfolio_tracker/internal/feature/prices/transport/http/dto"
	"portfolio_tracker/internal/feature/prices/usecase"
)

// PricesUsecase は価格系列の取得ユースケースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type PricesUsecase interface {
	GetSeries(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error)
}

// RefreshUsecase は価格の再取得ユースケースです。
type RefreshUsecase interface {
	Refresh(ctx context.Context, assetIDs []string, start, end time.Time) (usecase.RefreshResult, error)
	RefreshLatest(ctx context.Context, assetIDs []string) (usecase.RefreshResult, error)
}

// PriceHandler は価格に関するHTTPリクエストを処理します。
type PriceHandler struct {
	prices  PricesUsecase
	refresh RefreshUsecase
}

// NewPriceHandler は新しい PriceHandler を作成します。
func NewPriceHandler(prices PricesUsecase, refresh RefreshUsecase) *PriceHandler {
	return &PriceHandler{prices: prices, refresh: refresh}
}

// statusFor はユースケースのエラーをHTTPステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, assetdomain.ErrAssetNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// GetSeries は保存済みの価格系列を返します。
// GET /api/prices/:asset_id?start_date=YYYY-MM-DD&end_date=YYYY-MM-DD
func (h *PriceHandler) GetSeries(c *gin.Context) {
	assetID := strings.ToUpper(c.Param("asset_id"))
	start, end, err := api.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date", Details: err.Error()})
		return
	}

	pts, err := h.prices.GetSeries(c.Request.Context(), assetID, start, end)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	if pts == nil {
		pts = []entity.PricePoint{}
	}

	resp := dto.PriceSeriesResponse{AssetID: assetID, StartDate: start, EndDate: end, Prices: pts}
	if len(pts) > 0 {
		resp.StartDate, resp.EndDate = pts[0].Timestamp, pts[len(pts)-1].Timestamp
	}
	c.JSON(http.StatusOK, resp)
}

// Refresh は外部APIから価格を再取得して保存します。
// ボディは省略可能で、省略時は全アクティブアセットの直近1年分を取得します。
func (h *PriceHandler) Refresh(c *gin.Context) {
	var req dto.RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	ids := make([]string, 0, len(req.AssetIDs))
	for _, id := range req.AssetIDs {
		ids = append(ids, strings.ToUpper(strings.TrimSpace(id)))
	}

	var (
		res usecase.RefreshResult
		err error
	)
	if req.LatestOnly {
		res, err = h.refresh.RefreshLatest(c.Request.Context(), ids)
	} else {
		start, end, perr := api.ParseDateRange(req.StartDate, req.EndDate)
		if perr != nil {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date", Details: perr.Error()})
			return
		}
		res, err = h.refresh.Refresh(c.Request.Context(), ids, start, end)
	}
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.RefreshResponse{
		RefreshID:  res.ID.String(),
		StartedAt:  res.StartedAt,
		FinishedAt: res.FinishedAt,
		Updated:    res.Updated,
		Failed:     res.Failed,
	})
}
