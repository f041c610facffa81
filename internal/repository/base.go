// Package repository provides data access layer implementations for the application.
package repository

import (
	"errors"

	"athlos/internal/models"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"
)

// translateError maps database errors onto the application error taxonomy.
// Unique and foreign key violations become constraint violations (409),
// missing rows become not-found (404), anything else is internal.
func translateError(err error, resource string) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.NewNotFoundError(resource)
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return models.NewConstraintViolationError(resource + " already exists")
		case pgForeignKeyViolation:
			return models.NewConstraintViolationError(resource + " references a missing row")
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return models.NewConstraintViolationError(resource + " already exists")
	}

	return models.NewInternalError(err)
}
