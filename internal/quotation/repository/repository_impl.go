package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/quotation/domain"
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

func (r *repo) Insert(ctx context.Context, conn *gorm.DB, quotation *domain.Quotation) error {
	err := conn.WithContext(ctx).Create(quotation).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateNumber(quotation.QuoteNumber)
	}
	if err != nil {
		return errs.Storage("insert quotation", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Quotation, error) {
	return r.findOne(ctx, conn, "id = ?", id)
}

func (r *repo) FindByNumber(ctx context.Context, conn *gorm.DB, number string) (*domain.Quotation, error) {
	return r.findOne(ctx, conn, "quote_number = ?", number)
}

func (r *repo) findOne(ctx context.Context, conn *gorm.DB, query string, arg any) (*domain.Quotation, error) {
	var quotation domain.Quotation
	err := conn.WithContext(ctx).Where(query, arg).First(&quotation).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find quotation", err)
	}
	return &quotation, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Quotation, error) {
	var quotations []*domain.Quotation
	stmt := conn.WithContext(ctx).Model(&domain.Quotation{})
	if filter.Status != "" {
		stmt = option.ApplyOperator(option.Condition{Field: "status", Value: filter.Status}).Apply(stmt)
	}
	if filter.CustomerID != 0 {
		stmt = option.ApplyOperator(option.Condition{Field: "customer_id", Value: filter.CustomerID}).Apply(stmt)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	stmt = option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}).Apply(stmt)
	if err := stmt.Find(&quotations).Error; err != nil {
		return nil, errs.Storage("list quotations", err)
	}
	return quotations, nil
}

func (r *repo) UpdateNumber(ctx context.Context, conn *gorm.DB, id snowflake.ID, number string) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]any{"quote_number": number, "updated_at": time.Now().UTC()})
	if db.IsDuplicateKeyErr(res.Error) {
		return false, domain.ErrDuplicateNumber(number)
	}
	if res.Error != nil {
		return false, errs.Storage("rename quotation", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) MarkConverted(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.Quotation{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": domain.StatusConverted, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, errs.Storage("mark quotation converted", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	res := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Quotation{})
	if res.Error != nil {
		return false, errs.Storage("delete quotation", res.Error)
	}
	return res.RowsAffected > 0, nil
}
