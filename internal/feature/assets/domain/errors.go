// Package domain defines domain-level errors for the assets feature.
package domain

import "errors"

var (
	// ErrAssetNotFound indicates that no asset exists with the requested ID.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrAssetAlreadyExists indicates that an asset with the same ID is already registered.
	ErrAssetAlreadyExists = errors.New("asset already exists")

	// ErrInvalidAsset indicates that a registration request failed validation.
	ErrInvalidAsset = errors.New("invalid asset")
)
