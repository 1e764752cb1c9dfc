// Package adapters はassetsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/assets/domain/entity"
	"portfolio_tracker/internal/feature/assets/usecase"
	"portfolio_tracker/internal/platform/db"
)

// AssetModel はassetsテーブルの行を表します。
type AssetModel struct {
	ID             string `gorm:"primaryKey;size:32"`
	Symbol         string `gorm:"size:32;not null"`
	Name           string `gorm:"size:255;not null"`
	AssetType      string `gorm:"size:16;not null"`
	ProviderSymbol string `gorm:"size:64;not null;default:''"`
	IsActive       bool   `gorm:"not null"`
	SortKey        int    `gorm:"not null;default:0"`
}

// TableName はテーブル名を返します。
func (AssetModel) TableName() string {
	return "assets"
}

// assetGorm はAssetRepositoryインターフェースのgorm実装です。
type assetGorm struct {
	db *gorm.DB
}

var _ usecase.AssetRepository = (*assetGorm)(nil)

// NewAssetRepository は指定されたDB接続でassetGormリポジトリの新しいインスタンスを生成します。
func NewAssetRepository(db *gorm.DB) *assetGorm {
	return &assetGorm{db: db}
}

func toModel(a entity.Asset) AssetModel {
	return AssetModel{
		ID:             a.ID,
		Symbol:         a.Symbol,
		Name:           a.Name,
		AssetType:      string(a.AssetType),
		ProviderSymbol: a.ProviderSymbol,
		IsActive:       a.IsActive,
		SortKey:        a.SortKey,
	}
}

func toEntity(m AssetModel) entity.Asset {
	return entity.Asset{
		ID:             m.ID,
		Symbol:         m.Symbol,
		Name:           m.Name,
		AssetType:      entity.AssetType(m.AssetType),
		ProviderSymbol: m.ProviderSymbol,
		IsActive:       m.IsActive,
		SortKey:        m.SortKey,
	}
}

func toEntities(rows []AssetModel) []entity.Asset {
	out := make([]entity.Asset, 0, len(rows))
	for _, m := range rows {
		out = append(out, toEntity(m))
	}
	return out
}

// ListActive はsort_key順にすべてのアクティブなアセットを返します。
func (r *assetGorm) ListActive(ctx context.Context) ([]entity.Asset, error) {
	var rows []AssetModel
	if err := r.db.WithContext(ctx).
		Where("is_active = ?", true).
		Order("sort_key ASC").
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// FindByIDs は指定されたIDのアセットを返します。存在しないIDは無視されます。
func (r *assetGorm) FindByIDs(ctx context.Context, ids []string) ([]entity.Asset, error) {
	if len(ids) == 0 {
		return []entity.Asset{}, nil
	}
	var rows []AssetModel
	if err := r.db.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&rows).Error; err != nil {
		return nil, err
	}
	return toEntities(rows), nil
}

// Create は新しいアセットを挿入します。IDが重複する場合はErrAssetAlreadyExistsを返します。
func (r *assetGorm) Create(ctx context.Context, a entity.Asset) error {
	m := toModel(a)
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		if db.IsDuplicateKeyError(err) {
			return fmt.Errorf("%w: %s", domain.ErrAssetAlreadyExists, a.ID)
		}
		return err
	}
	return nil
}

// UpsertBatch はアセットをIDで一括挿入（または更新）します。
func (r *assetGorm) UpsertBatch(ctx context.Context, assets []entity.Asset) error {
	if len(assets) == 0 {
		return nil
	}
	ms := make([]AssetModel, 0, len(assets))
	for _, a := range assets {
		ms = append(ms, toModel(a))
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"symbol", "name", "asset_type", "provider_symbol", "is_active", "sort_key"}),
	}).Create(&ms).Error
}
