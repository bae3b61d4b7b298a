package repository

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
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

// Insert reports a unique-key violation as a duplicate invoice number. The
// conversion workflow checks the source quotation itself before trusting
// that.
func (r *repo) Insert(ctx context.Context, conn *gorm.DB, invoice *domain.Invoice) error {
	err := conn.WithContext(ctx).Create(invoice).Error
	if db.IsDuplicateKeyErr(err) {
		return domain.ErrDuplicateNumber(invoice.InvoiceNumber)
	}
	if err != nil {
		return errs.Storage("insert invoice", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, conn *gorm.DB, id snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, conn, "id = ?", id)
}

func (r *repo) FindByNumber(ctx context.Context, conn *gorm.DB, number string) (*domain.Invoice, error) {
	return r.findOne(ctx, conn, "invoice_number = ?", number)
}

func (r *repo) FindBySourceQuotation(ctx context.Context, conn *gorm.DB, quotationID snowflake.ID) (*domain.Invoice, error) {
	return r.findOne(ctx, conn, "source_quotation_id = ?", quotationID)
}

func (r *repo) findOne(ctx context.Context, conn *gorm.DB, query string, arg any) (*domain.Invoice, error) {
	var invoice domain.Invoice
	err := conn.WithContext(ctx).Where(query, arg).First(&invoice).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find invoice", err)
	}
	return &invoice, nil
}

func (r *repo) List(ctx context.Context, conn *gorm.DB, filter domain.ListFilter, page pagination.Pagination) ([]*domain.Invoice, error) {
	var invoices []*domain.Invoice
	stmt := conn.WithContext(ctx).Model(&domain.Invoice{})
	switch filter.Status {
	case "":
	case domain.StatusPaid:
		stmt = stmt.Where(paidClause, domain.StatusPaid)
	case domain.StatusPending:
		stmt = stmt.Where("status = ? OR ((status IS NULL OR status = '') AND balance > 0)", domain.StatusPending)
	default:
		stmt = option.ApplyOperator(option.Condition{Field: "status", Value: filter.Status}).Apply(stmt)
	}
	if filter.CustomerID != 0 {
		stmt = option.ApplyOperator(option.Condition{Field: "customer_id", Value: filter.CustomerID}).Apply(stmt)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	stmt = option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}).Apply(stmt)
	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, errs.Storage("list invoices", err)
	}
	return invoices, nil
}

func (r *repo) UpdateNumber(ctx context.Context, conn *gorm.DB, id snowflake.ID, number string) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{"invoice_number": number, "updated_at": time.Now().UTC()})
	if db.IsDuplicateKeyErr(res.Error) {
		return false, domain.ErrDuplicateNumber(number)
	}
	if res.Error != nil {
		return false, errs.Storage("rename invoice", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) UpdateStatus(ctx context.Context, conn *gorm.DB, id snowflake.ID, status domain.Status) (bool, error) {
	res := conn.WithContext(ctx).Model(&domain.Invoice{}).
		Where("id = ?", id).
		Updates(map[string]any{"status": status, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return false, errs.Storage("update invoice status", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Delete(ctx context.Context, conn *gorm.DB, id snowflake.ID) (bool, error) {
	res := conn.WithContext(ctx).Where("id = ?", id).Delete(&domain.Invoice{})
	if res.Error != nil {
		return false, errs.Storage("delete invoice", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Count(ctx context.Context, conn *gorm.DB) (int64, error) {
	var count int64
	if err := conn.WithContext(ctx).Model(&domain.Invoice{}).Count(&count).Error; err != nil {
		return 0, errs.Storage("count invoices", err)
	}
	return count, nil
}

func (r *repo) ListSince(ctx context.Context, conn *gorm.DB, from time.Time) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := conn.WithContext(ctx).
		Where("date >= ?", from).
		Order("date asc").
		Find(&invoices).Error
	if err != nil {
		return nil, errs.Storage("list invoices since", err)
	}
	return invoices, nil
}

const paidClause = "status = ? OR ((status IS NULL OR status = '') AND balance <= 0)"

func (r *repo) SumPaid(ctx context.Context, conn *gorm.DB) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	err := conn.WithContext(ctx).Model(&domain.Invoice{}).
		Select("COALESCE(SUM(total), 0)").
		Where(paidClause, domain.StatusPaid).
		Row().Scan(&total)
	if err != nil {
		return decimal.Zero, errs.Storage("sum paid invoices", err)
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

func (r *repo) Recent(ctx context.Context, conn *gorm.DB, limit int) ([]domain.Invoice, error) {
	var invoices []domain.Invoice
	err := conn.WithContext(ctx).
		Order("date desc, id desc").
		Limit(limit).
		Find(&invoices).Error
	if err != nil {
		return nil, errs.Storage("list recent invoices", err)
	}
	return invoices, nil
}
