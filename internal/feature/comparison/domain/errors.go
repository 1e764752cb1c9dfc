// Package domain defines domain-level errors for the comparison feature.
package domain

import "errors"

// MaxAssets is the largest number of assets one comparison may include.
const MaxAssets = 10

var (
	// ErrNoAssets indicates that a comparison request named no assets.
	ErrNoAssets = errors.New("at least one asset id is required")

	// ErrTooManyAssets indicates that a comparison request exceeded MaxAssets.
	ErrTooManyAssets = errors.New("too many assets")

	// ErrInvalidSeries indicates that a stored price series cannot be analyzed,
	// or that its results are not finite numbers.
	ErrInvalidSeries = errors.New("invalid price series")

	// ErrInvalidAmount indicates an initial amount that is infinite or too large
	// for the normalized values to stay finite.
	ErrInvalidAmount = errors.New("invalid initial amount")
)
