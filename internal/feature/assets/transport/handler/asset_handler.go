package handler

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"portfolio_tracker/internal/api"
	"portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/assets/transport/http/dto"
)

// AssetUsecase はアセットに関するユースケースのインターフェースです。
// Following Go convention: interfaces are defined by the consumer (handler), not the provider (usecase).
type AssetUsecase interface {
	ListAssets(ctx context.Context) ([]entity.Asset, error)
	RegisterAsset(ctx context.Context, a entity.Asset) (entity.Asset, error)
}

// AssetHandler はアセットに関するHTTPリクエストを処理します。
type AssetHandler struct {
	uc AssetUsecase
}

// NewAssetHandler は新しい AssetHandler を作成します。
func NewAssetHandler(uc AssetUsecase) *AssetHandler {
	return &AssetHandler{uc: uc}
}

func toItem(a entity.Asset) dto.AssetItem {
	return dto.AssetItem{ID: a.ID, Symbol: a.Symbol, Name: a.Name, AssetType: string(a.AssetType)}
}

// List は有効なアセットの一覧を返します。
func (h *AssetHandler) List(c *gin.Context) {
	assets, err := h.uc.ListAssets(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		return
	}
	out := make([]dto.AssetItem, 0, len(assets))
	for _, a := range assets {
		out = append(out, toItem(a))
	}
	c.JSON(http.StatusOK, dto.AssetListResponse{Assets: out})
}

// Create は新しいアセットを登録します。
// 入力不正は400、重複IDは409を返します。
func (h *AssetHandler) Create(c *gin.Context) {
	var req dto.CreateAssetRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: "invalid request body", Details: err.Error()})
		return
	}

	a, err := h.uc.RegisterAsset(c.Request.Context(), entity.Asset{
		ID:             req.ID,
		Symbol:         req.Symbol,
		Name:           req.Name,
		AssetType:      entity.AssetType(req.AssetType),
		ProviderSymbol: req.ProviderSymbol,
	})
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrInvalidAsset):
			c.JSON(http.StatusBadRequest, api.ErrorResponse{Error: err.Error()})
		case errors.Is(err, domain.ErrAssetAlreadyExists):
			c.JSON(http.StatusConflict, api.ErrorResponse{Error: err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, api.ErrorResponse{Error: err.Error()})
		}
		return
	}
	c.JSON(http.StatusCreated, toItem(a))
}
