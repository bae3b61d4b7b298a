package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, po *domain.PurchaseOrder) error {
	err := conn.WithContext(ctx).Create(po).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateNumber(po.PONumber)
	}
	if err != nil {
		return errs.Storage("insert purchase order", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.PurchaseOrder, error) {
	return r.findOne(ctx, conn, "id = ?", id)
}

func (r *repo) FindByNumber(ctx context.Context, conn *gorm.DB, number string) (*domain.PurchaseOrder, error) {
	return r.findOne(ctx, conn, "po_number = ?", number)
}

func (r *repo) findOne(ctx context.Context, conn *gorm.DB, query string, arg any) (*domain.PurchaseOrder, error) {
	var po domain.PurchaseOrder
	err := conn.WithContext(ctx).Where(query, arg).First(&po).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find purchase order", err)
	}
	return &po, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.PurchaseOrder, error) {
	var orders []*domain.PurchaseOrder
	stmt := conn.WithContext(ctx).Model(&domain.PurchaseOrder{})
	if filter.Status != "" {
		stmt = option.ApplyOperator(option.Condition{Field: "status", Value: filter.Status}).Apply(stmt)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	stmt = option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}).Apply(stmt)
	if err := stmt.Find(&orders).Error; err != nil {
		return nil, errs.Storage("list purchase orders", err)
	}
	return orders, nil
}

func (r *repo) UpdateNumber(ctx context.Context, conn *gorm.DB, id snowflake.ID, number string) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{"po_number": number, "updated_at": time.Now().UTC()})
	if db.IsDuplicateKeyErr(res.Error) {
		return false, domain.ErrDuplicateNumber(number)
	}
	if res.Error != nil {
		return false, errs.Storage("rename purchase order", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, id snowflake.ID, status domain.Status) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.PurchaseOrder{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, errs.Storage("update purchase order status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	res := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.PurchaseOrder{})
	if res.Error != nil {
		return false, errs.Storage("delete purchase order", res.Error)
	}
	return res.RowsAffected > 0, nil
}
