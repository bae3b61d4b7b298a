package domain

import (
	"context"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, invoice *Invoice) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Invoice, error)
	FindByNumber(ctx context.Context, db *gorm.DB, number string) (*Invoice, error)
	FindBySourceQuotation(ctx context.Context, db *gorm.DB, quotationID snowflake.ID) (*Invoice, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Invoice, error)
	UpdateNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, number string) (bool, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)

	Count(ctx context.Context, db *gorm.DB) (int64, error)
	// ListSince returns invoices dated at or after from, for aggregation.
	ListSince(ctx context.Context, db *gorm.DB, from time.Time) ([]Invoice, error)
	// SumPaid totals invoices that are Paid, counting legacy rows without a
	// status as paid when nothing is owed.
	SumPaid(ctx context.Context, db *gorm.DB) (decimal.Decimal, error)
	Recent(ctx context.Context, db *gorm.DB, limit int) ([]Invoice, error)
}
