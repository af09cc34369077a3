// Package dberr maps driver and ORM failures onto the API's two error kinds:
// constraint violations, which are the client's fault, and everything else.
package dberr

import (
	"errors"
	"fmt"

	"github.com/frahmantamala/internship-api/internal"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
	pgCheckViolation      = "23514"
	pgNotNullViolation    = "23502"
)

// IsUniqueViolation reports whether err is a duplicate-key rejection.
func IsUniqueViolation(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}

// IsForeignKeyViolation reports whether err references a row that does not exist.
func IsForeignKeyViolation(err error) bool {
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgForeignKeyViolation
}

func isDomainViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && (pgErr.Code == pgCheckViolation || pgErr.Code == pgNotNullViolation)
}

// Classify wraps err in an AppError. Constraint violations become 400s carrying
// the driver message after prefix; anything else becomes a 500.
func Classify(err error, prefix string) *internal.AppError {
	if err == nil {
		return nil
	}
	if appErr, ok := internal.IsAppError(err); ok {
		return appErr
	}

	switch {
	case IsUniqueViolation(err):
		return internal.NewConstraintError(prefix, internal.ErrCodeDuplicateKey, err)
	case IsForeignKeyViolation(err):
		return internal.NewConstraintError(prefix, internal.ErrCodeForeignKey, err)
	case isDomainViolation(err):
		return internal.NewConstraintError(prefix, internal.ErrCodeValidationFailed, err)
	}
	return internal.NewInternalError(fmt.Sprintf("%s: internal error", prefix), err)
}
