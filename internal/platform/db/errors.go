package db

import (
	"errors"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// pgErrUniqueViolation is the PostgreSQL unique_violation code.
const pgErrUniqueViolation = "23505"

// IsDuplicateKeyError reports whether err is a unique constraint violation,
// either already translated by gorm or raw from the postgres driver.
func IsDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgErrUniqueViolation
	}
	return false
}
