package service

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/stock/domain"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	Products productdomain.Repository
}

type Guard struct {
	db       *gorm.DB
	log      *zap.Logger
	products productdomain.Repository
}

func New(p Params) domain.Guard {
	return &Guard{
		db:       p.DB,
		log:      p.Log.Named("stock.guard"),
		products: p.Products,
	}
}

func (g *Guard) Reserve(ctx context.Context, productID snowflake.ID, qty decimal.Decimal) error {
	if !qty.IsPositive() {
		return errs.Validation("qty", "must be greater than zero")
	}

	product, err := g.products.FindByID(ctx, g.db, productID)
	if err != nil {
		return err
	}
	if product == nil {
		return productdomain.NotFound(productID.String())
	}

	if product.StockQty.LessThan(qty) {
		return &errs.InsufficientStockError{
			ProductID:   productID.String(),
			ProductName: product.Name,
			Available:   product.StockQty,
			Requested:   qty,
		}
	}
	return nil
}

func (g *Guard) Decrement(ctx context.Context, db *gorm.DB, productID snowflake.ID, qty decimal.Decimal) error {
	if qty.IsNegative() {
		return errs.Validation("qty", "must not be negative")
	}
	if db == nil {
		db = g.db
	}

	found, err := g.products.DecrementStock(ctx, db, productID, qty)
	if err != nil {
		g.log.Error("stock decrement failed", zap.String("product_id", productID.String()), zap.Error(err))
		return err
	}
	if !found {
		return productdomain.NotFound(productID.String())
	}

	g.log.Debug("stock decremented",
		zap.String("product_id", productID.String()),
		zap.String("qty", qty.String()),
	)
	return nil
}
