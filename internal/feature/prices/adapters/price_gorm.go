// Package adapters はpricesフィーチャーの永続化実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portfolio_tracker/internal/feature/analytics/domain/entity"
	"portfolio_tracker/internal/feature/prices/usecase"
)

type priceGorm struct {
	db *gorm.DB
}

var _ usecase.PriceRepository = (*priceGorm)(nil)

// NewPriceRepository は指定されたDB接続で価格リポジトリを生成します。
func NewPriceRepository(db *gorm.DB) *priceGorm {
	return &priceGorm{db: db}
}

// PriceModel はpricesテーブルの行を表します。
type PriceModel struct {
	ID        uint      `gorm:"primaryKey"`
	AssetID   string    `gorm:"size:32;not null;uniqueIndex:price_asset_ts,priority:1"`
	Timestamp time.Time `gorm:"column:observed_at;not null;uniqueIndex:price_asset_ts,priority:2"`
	Price     float64   `gorm:"not null"`
}

func (PriceModel) TableName() string {
	return "prices"
}

func toModel(p entity.PricePoint) PriceModel {
	return PriceModel{
		AssetID:   p.AssetID,
		Timestamp: p.Timestamp.UTC(),
		Price:     p.Price,
	}
}

func (r *priceGorm) UpsertBatch(ctx context.Context, prices []entity.PricePoint) error {
	if len(prices) == 0 {
		return nil
	}
	ms := make([]PriceModel, 0, len(prices))
	for _, p := range prices {
		ms = append(ms, toModel(p))
	}

	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "asset_id"}, {Name: "observed_at"}},
		DoUpdates: clause.AssignmentColumns([]string{"price"}),
	}).CreateInBatches(&ms, 500).Error
}

func (r *priceGorm) FindRange(ctx context.Context, assetID string, start, end time.Time) ([]entity.PricePoint, error) {
	var rows []PriceModel
	if err := r.db.WithContext(ctx).
		Where("asset_id = ? AND observed_at >= ? AND observed_at <= ?", assetID, start.UTC(), end.UTC()).
		Order("observed_at ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	out := make([]entity.PricePoint, 0, len(rows))
	for _, m := range rows {
		out = append(out, entity.PricePoint{
			AssetID:   m.AssetID,
			Timestamp: m.Timestamp.UTC(),
			Price:     m.Price,
		})
	}
	return out, nil
}
