// Package repository contains data access for the marketplace entities.
package repository

import (
	"errors"
	"strings"

	"rewear/internal/database"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

// Result caps applied by list queries.
const (
	maxPostResults         = 200
	maxThreadMessages      = 500
	maxNotificationResults = 100
)

// readDB routes reads to the replica when one is connected for the same
// dialect as primary.
func readDB(primary *gorm.DB) *gorm.DB {
	if replica := database.ReadReplica(); replica != nil && database.Dialect(replica) == database.Dialect(primary) {
		return replica
	}
	return primary
}

func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique constraint") ||
		strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "unique violation")
}

func isForeignKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrForeignKeyViolated) {
		return true
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23503" {
		return true
	}
	return strings.Contains(strings.ToLower(err.Error()), "foreign key constraint")
}
