package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, db *gorm.DB, product *Product) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Product, error)
	FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]*Product, error)
	FindByCode(ctx context.Context, db *gorm.DB, code string) (*Product, error)
	List(ctx context.Context, db *gorm.DB, filter ListRequest) ([]Product, error)
	ListBelowStock(ctx context.Context, db *gorm.DB, threshold decimal.Decimal) ([]Product, error)
	CountBelowStock(ctx context.Context, db *gorm.DB, threshold decimal.Decimal) (int64, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Update(ctx context.Context, db *gorm.DB, product *Product) error
	// DecrementStock subtracts qty in one statement and reports whether the
	// product existed. The result may go negative.
	DecrementStock(ctx context.Context, db *gorm.DB, id snowflake.ID, qty decimal.Decimal) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
