// Package usecase implements the business logic for asset-related operations.
package usecase

import (
	"context"
	"fmt"
	"strings"

	"portfolio_tracker/internal/feature/assets/domain"
	"portfolio_tracker/internal/feature/assets/domain/entity"
)

// AssetRepository abstracts the persistence layer for assets.
// Following Go convention: interfaces are defined by the consumer (usecase), not the provider (adapters).
type AssetRepository interface {
	// ListActive returns active assets ordered by sort key.
	ListActive(ctx context.Context) ([]entity.Asset, error)
	// FindByIDs returns the assets with the given IDs in unspecified order; unknown IDs are skipped.
	FindByIDs(ctx context.Context, ids []string) ([]entity.Asset, error)
	// Create persists a new asset and returns domain.ErrAssetAlreadyExists on a duplicate ID.
	Create(ctx context.Context, asset entity.Asset) error
	// UpsertBatch inserts or updates assets by ID.
	UpsertBatch(ctx context.Context, assets []entity.Asset) error
}

// AssetUsecase provides business logic for asset operations.
type AssetUsecase struct {
	repo AssetRepository
}

// NewAssetUsecase creates a new AssetUsecase with the given repository.
func NewAssetUsecase(r AssetRepository) *AssetUsecase {
	return &AssetUsecase{repo: r}
}

// ListAssets returns all active assets.
func (u *AssetUsecase) ListAssets(ctx context.Context) ([]entity.Asset, error) {
	return u.repo.ListActive(ctx)
}

// GetAssets resolves ids in request order. Any unknown ID fails the whole call
// with domain.ErrAssetNotFound.
func (u *AssetUsecase) GetAssets(ctx context.Context, ids []string) ([]entity.Asset, error) {
	if len(ids) == 0 {
		return []entity.Asset{}, nil
	}
	found, err := u.repo.FindByIDs(ctx, ids)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]entity.Asset, len(found))
	for _, a := range found {
		byID[a.ID] = a
	}

	var missing []string
	out := make([]entity.Asset, 0, len(ids))
	for _, id := range ids {
		a, ok := byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		out = append(out, a)
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrAssetNotFound, strings.Join(missing, ", "))
	}
	return out, nil
}

// GetAsset resolves a single asset ID.
func (u *AssetUsecase) GetAsset(ctx context.Context, id string) (entity.Asset, error) {
	as, err := u.GetAssets(ctx, []string{id})
	if err != nil {
		return entity.Asset{}, err
	}
	return as[0], nil
}

// RegisterAsset validates and stores a new asset.
func (u *AssetUsecase) RegisterAsset(ctx context.Context, a entity.Asset) (entity.Asset, error) {
	a.ID = strings.ToUpper(strings.TrimSpace(a.ID))
	a.Symbol = strings.TrimSpace(a.Symbol)
	a.Name = strings.TrimSpace(a.Name)
	if a.ID == "" || a.Name == "" {
		return entity.Asset{}, fmt.Errorf("%w: id and name are required", domain.ErrInvalidAsset)
	}
	if a.Symbol == "" {
		a.Symbol = a.ID
	}
	t, err := entity.ParseAssetType(string(a.AssetType))
	if err != nil {
		return entity.Asset{}, fmt.Errorf("%w: %v", domain.ErrInvalidAsset, err)
	}
	a.AssetType = t
	a.IsActive = true

	if err := u.repo.Create(ctx, a); err != nil {
		return entity.Asset{}, err
	}
	return a, nil
}

// SeedDefaults stores the default assets. Running it repeatedly is harmless.
func (u *AssetUsecase) SeedDefaults(ctx context.Context) error {
	return u.repo.UpsertBatch(ctx, entity.DefaultAssets())
}
