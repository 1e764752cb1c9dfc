// Package handler はcomparisonフィーチャーのHTTPハンドラーを提供します。
package handler

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/analytics/domain/entity"
	assetdomain "portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/comparison/domain"
	"portfolio_tracker/internal/feature/comparison/transport/http/dto"
	"portfolio_tracker/internal/feature/comparison/usecase"
	pricesdomain "portfolio_tracker/internal/feature/prices/domain"
)

// CompareUsecase は比較ユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type CompareUsecase interface {
	Compare(ctx context.Context, req usecase.Request) (usecase.Result, error)
	Metrics(ctx context.Context, assetID string, start, end time.Time) (entity.PerformanceMetrics, bool, error)
}

// ComparisonHandler は比較・指標に関するHTTPリクエストを処理します。
type ComparisonHandler struct {
	uc CompareUsecase
}

// NewComparisonHandler は新しい ComparisonHandler を作成します。
func NewComparisonHandler(uc CompareUsecase) *ComparisonHandler {
	return &ComparisonHandler{uc: uc}
}

// statusFor はユースケースのエラーをHTTPステータスに対応付けます。
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrNoAssets),
		errors.Is(err, domain.ErrTooManyAssets),
		errors.Is(err, domain.ErrInvalidAmount),
		errors.Is(err, pricesdomain.ErrInvalidDateRange):
		return http.StatusBadRequest
	case errors.Is(err, assetdomain.ErrAssetNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidSeries):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// Compare は複数アセットを同じ初期投資額で比較します。
// POST /api/comparison
func (h *ComparisonHandler) Compare(c *gin.Context) {
	var req dto.CompareRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}
	start, end, err := api.ParseDateRange(req.StartDate, req.EndDate)
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date", Details: err.Error()})
		return
	}

	res, err := h.uc.Compare(c.Request.Context(), usecase.Request{
		AssetIDs:      req.AssetIDs,
		Start:         start,
		End:           end,
		InitialAmount: req.InitialAmount,
	})
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}

	out := dto.CompareResponse{
		InitialAmount:    res.InitialAmount,
		StartDate:        res.Start,
		EndDate:          res.End,
		Series:           make([]dto.AssetSeries, 0, len(res.Assets)),
		Metrics:          make([]entity.PerformanceMetrics, 0, len(res.Assets)),
		InsufficientData: []string{},
	}
	for _, a := range res.Assets {
		out.Series = append(out.Series, dto.AssetSeries{AssetID: a.AssetID, Points: a.Points})
		if a.HasMetrics {
			out.Metrics = append(out.Metrics, a.Metrics)
		} else {
			out.InsufficientData = append(out.InsufficientData, a.AssetID)
		}
	}
	c.JSON(http.StatusOK, out)
}

// Metrics は1アセットのパフォーマンス指標を返します。
// GET /api/assets/:asset_id/metrics?start_date=&end_date=
func (h *ComparisonHandler) Metrics(c *gin.Context) {
	start, end, err := api.ParseDateRange(c.Query("start_date"), c.Query("end_date"))
	if err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid date", Details: err.Error()})
		return
	}

	m, ok, err := h.uc.Metrics(c.Request.Context(), c.Param("asset_id"), start, end)
	if err != nil {
		c.JSON(statusFor(err), api.ErrorResponse{Error: err.Error()})
		return
	}
	if !ok {
		c.JSON(http.StatusOK, dto.InsufficientDataResponse{AssetID: strings.ToUpper(strings.TrimSpace(c.Param("asset_id"))), InsufficientData: true})
		return
	}
	c.JSON(http.StatusOK, m)
}
