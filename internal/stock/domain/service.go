package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Guard checks and depletes product stock for billing documents.
type Guard interface {
	// Reserve is a point-in-time check that qty units are on hand. It holds
	// nothing: two quotations may both pass and later both convert.
	Reserve(ctx context.Context, productID snowflake.ID, qty decimal.Decimal) error
	// Decrement subtracts qty without a floor. It returns a not_found error
	// when the product no longer exists.
	Decrement(ctx context.Context, db *gorm.DB, productID snowflake.ID, qty decimal.Decimal) error
}
