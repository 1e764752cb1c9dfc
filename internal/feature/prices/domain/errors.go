// Package domain defines domain-level errors for the prices feature.
package domain

import "errors"

var (
	// ErrInvalidDateRange indicates that the requested start date is after the end date.
	ErrInvalidDateRange = errors.New("start date must not be after end date")

	// ErrNoProvider indicates that no market-data provider is configured for an asset type.
	ErrNoProvider = errors.New("no price provider for asset type")

	// ErrNoData indicates that a provider answered successfully but returned no prices.
	ErrNoData = errors.New("provider returned no price data")
)
