package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Create(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if err := db.WithContext(ctx).Create(product).Error; err != nil {
		return errs.Storage("insert product", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Where("id = ?", id).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find product", err)
	}
	return &p, nil
}

func (r *repo) FindByIDs(ctx context.Context, db *gorm.DB, ids []snowflake.ID) (map[snowflake.ID]*domain.Product, error) {
	out := make(map[snowflake.ID]*domain.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	var items []domain.Product
	if err := db.WithContext(ctx).Where("id IN ?", ids).Find(&items).Error; err != nil {
		return nil, errs.Storage("find products", err)
	}
	for i := range items {
		out[items[i].ID] = &items[i]
	}
	return out, nil
}

func (r *repo) FindByCode(ctx context.Context, db *gorm.DB, code string) (*domain.Product, error) {
	var p domain.Product
	err := db.WithContext(ctx).Where("product_code = ?", code).First(&p).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find product by code", err)
	}
	return &p, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListRequest) ([]domain.Product, error) {
	var items []domain.Product
	stmt := db.WithContext(ctx).Model(&domain.Product{})

	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at":   true,
		"updated_at":   true,
		"name":         true,
		"product_code": true,
		"stock_qty":    true,
	})).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, errs.Storage("list products", err)
	}
	return items, nil
}

func (r *repo) ListBelowStock(ctx context.Context, db *gorm.DB, threshold decimal.Decimal) ([]domain.Product, error) {
	var items []domain.Product
	err := db.WithContext(ctx).
		Where("stock_qty < ?", threshold).
		Order("stock_qty asc, name asc").
		Find(&items).Error
	if err != nil {
		return nil, errs.Storage("list low stock products", err)
	}
	return items, nil
}

func (r *repo) CountBelowStock(ctx context.Context, db *gorm.DB, threshold decimal.Decimal) (int64, error) {
	var count int64
	err := db.WithContext(ctx).Model(&domain.Product{}).Where("stock_qty < ?", threshold).Count(&count).Error
	if err != nil {
		return 0, errs.Storage("count low stock products", err)
	}
	return count, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Product{}).Count(&count).Error; err != nil {
		return 0, errs.Storage("count products", err)
	}
	return count, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, product *domain.Product) error {
	if product == nil {
		return gorm.ErrInvalidData
	}
	if err := db.WithContext(ctx).Save(product).Error; err != nil {
		return errs.Storage("update product", err)
	}
	return nil
}

// DecrementStock assigns status before stock_qty: MySQL evaluates SET
// clauses left to right against already-updated columns, while Postgres and
// SQLite always read the old row, so this order reads the old quantity on all
// three.
func (r *repo) DecrementStock(ctx context.Context, db *gorm.DB, id snowflake.ID, qty decimal.Decimal) (bool, error) {
	res := db.WithContext(ctx).Exec(
		`UPDATE products
		 SET status = CASE
		       WHEN stock_qty - ? <= 0 THEN ?
		       WHEN status = ? THEN ?
		       ELSE status
		     END,
		     stock_qty = stock_qty - ?,
		     updated_at = ?
		 WHERE id = ?`,
		qty, domain.StatusOutOfStock,
		domain.StatusOutOfStock, domain.StatusInStock,
		qty,
		time.Now().UTC(),
		id,
	)
	if res.Error != nil {
		return false, errs.Storage("decrement stock", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Product{})
	if res.Error != nil {
		return false, errs.Storage("delete product", res.Error)
	}
	return res.RowsAffected > 0, nil
}
