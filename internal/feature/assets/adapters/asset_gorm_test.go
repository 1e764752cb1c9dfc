package adapters

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/assets/domain/entity"
)

// setupTestDB はテスト用のインメモリSQLiteデータベースを準備します。
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to initialize test database")

	// :memory: は接続ごとに別DBになるため1本に固定
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(&AssetModel{}), "failed to migrate table")
	return db
}

func TestNewAssetRepository(t *testing.T) {
	t.Parallel()

	repo := NewAssetRepository(setupTestDB(t))
	assert.NotNil(t, repo)
	assert.NotNil(t, repo.db)
}

// TestAssetGorm_ListActive は非アクティブなアセットが除外され、sort_key順に並ぶことを検証します。
func TestAssetGorm_ListActive(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	assets := entity.DefaultAssets()
	// 順序を崩して投入
	assets[0].SortKey, assets[3].SortKey = 9, 0
	assets[1].IsActive = false
	require.NoError(t, repo.UpsertBatch(ctx, assets))

	got, err := repo.ListActive(ctx)
	require.NoError(t, err)

	ids := make([]string, 0, len(got))
	for _, a := range got {
		ids = append(ids, a.ID)
	}
	assert.Equal(t, []string{"GOLD", "BTC", "SPY"}, ids)
	assert.Equal(t, "GLD", got[0].ProviderSymbol)
	assert.Equal(t, entity.AssetTypeCommodity, got[0].AssetType)
}

func TestAssetGorm_FindByIDs(t *testing.T) {
	t.Parallel()

	repo := NewAssetRepository(setupTestDB(t))
	ctx := context.Background()
	require.NoError(t, repo.UpsertBatch(ctx, entity.DefaultAssets()))

	got, err := repo.FindByIDs(ctx, []string{"BTC", "QQQ", "NOPE"})
	require.NoError(t, err)
	assert.Len(t, got, 2)

	empty, err := repo.FindByIDs(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

// TestAssetGorm_UpsertBatch は再実行で重複せず、既存行が更新されることを検証します。
func TestAssetGorm_UpsertBatch(t *testing.T) {
	t.Parallel()

	db := setupTestDB(t)
	repo := NewAssetRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.UpsertBatch(ctx, entity.DefaultAssets()))
	updated := entity.DefaultAssets()
	updated[0].Name = "SPDR S&P 500"
	require.NoError(t, repo.UpsertBatch(ctx, updated))

	var count int64
	require.NoError(t, db.Model(&AssetModel{}).Count(&count).Error)
	assert.Equal(t, int64(4), count)

	got, err := repo.FindByIDs(ctx, []string{"SPY"})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "SPDR S&P 500", got[0].Name)

	assert.NoError(t, repo.UpsertBatch(ctx, nil))
}

func TestAssetGorm_Create(t *testing.T) {
	t.Parallel()

	repo := NewAssetRepository(setupTestDB(t))
	ctx := context.Background()

	eth := entity.Asset{ID: "ETH", Symbol: "ETH", Name: "Ether", AssetType: entity.AssetTypeCrypto, ProviderSymbol: "ethereum", IsActive: true}
	require.NoError(t, repo.Create(ctx, eth))

	err := repo.Create(ctx, eth)
	assert.ErrorIs(t, err, domain.ErrAssetAlreadyExists)

	got, err := repo.FindByIDs(ctx, []string{"ETH"})
	require.NoError(t, err)
	assert.Equal(t, []entity.Asset{eth}, got)
}
