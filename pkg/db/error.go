package db

import (
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

func IsDuplicateKeyErr(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	// PostgreSQL through pgx
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == pgUniqueViolation
	}

	// PostgreSQL through lib/pq
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return string(pqErr.Code) == pgUniqueViolation
	}

	msg := err.Error()
	switch {
	case strings.Contains(msg, "duplicate key value violates unique constraint"):
		return true
	case strings.Contains(msg, "Error 1062"): // MySQL
		return true
	case strings.Contains(msg, "UNIQUE constraint failed"): // SQLite
		return true
	}

	return false
}

// ViolatedConstraint returns the constraint or column list named by a
// unique-key violation, or "" when the driver does not report one.
func ViolatedConstraint(err error) string {
	if err == nil {
		return ""
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.ConstraintName
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return pqErr.Constraint
	}
	msg := err.Error()
	if idx := strings.Index(msg, "UNIQUE constraint failed: "); idx >= 0 {
		return strings.TrimSpace(msg[idx+len("UNIQUE constraint failed: "):])
	}
	return ""
}
