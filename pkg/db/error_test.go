package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestIsDuplicateKeyErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"gorm translated", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), true},
		{"pgx", &pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}, true},
		{"pgx other code", &pgconn.PgError{Code: "23503"}, false},
		{"lib/pq", &pq.Error{Code: "23505"}, true},
		{"mysql", errors.New("Error 1062 (23000): Duplicate entry 'x' for key 'id'"), true},
		{"sqlite", errors.New("constraint failed: UNIQUE constraint failed: invoices.invoice_number (2067)"), true},
		{"other", errors.New("connection refused"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, IsDuplicateKeyErr(tc.err))
		})
	}
}

func TestViolatedConstraint(t *testing.T) {
	assert.Equal(t, "invoices_invoice_number_key", ViolatedConstraint(&pgconn.PgError{Code: "23505", ConstraintName: "invoices_invoice_number_key"}))
	assert.Equal(t, "idx_q", ViolatedConstraint(&pq.Error{Code: "23505", Constraint: "idx_q"}))
	assert.Equal(t, "invoices.source_quotation_id (2067)", ViolatedConstraint(errors.New("UNIQUE constraint failed: invoices.source_quotation_id (2067)")))
	assert.Equal(t, "", ViolatedConstraint(errors.New("boom")))
}
