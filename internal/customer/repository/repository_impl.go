package repository

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

type repo struct{}

func Provide() domain.Repository {
	return &repo{}
}

func (r *repo) Insert(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	if err := db.WithContext(ctx).Create(customer).Error; err != nil {
		return errs.Storage("insert customer", err)
	}
	return nil
}

func (r *repo) FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*domain.Customer, error) {
	var customer domain.Customer
	err := db.WithContext(ctx).Where("id = ?", id).First(&customer).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, errs.Storage("find customer", err)
	}
	return &customer, nil
}

func (r *repo) List(ctx context.Context, db *gorm.DB, filter domain.ListCustomerFilter, page pagination.Pagination) ([]*domain.Customer, error) {
	var customers []*domain.Customer
	stmt := db.WithContext(ctx).Model(&domain.Customer{})
	if filter.Name != "" {
		stmt = stmt.Where("LOWER(name) LIKE ?", "%"+filter.Name+"%")
	}
	if filter.State != "" {
		stmt = stmt.Where("LOWER(state) = ?", filter.State)
	}
	stmt = option.ApplyPagination(page).Apply(stmt)
	stmt = option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}).Apply(stmt)
	if err := stmt.Find(&customers).Error; err != nil {
		return nil, errs.Storage("list customers", err)
	}
	return customers, nil
}

func (r *repo) Update(ctx context.Context, db *gorm.DB, customer *domain.Customer) error {
	err := db.WithContext(ctx).Model(&domain.Customer{}).
		Where("id = ?", customer.ID).
		Select("name", "phone", "email", "gst_number", "state", "address", "metadata", "updated_at").
		Updates(customer).Error
	if err != nil {
		return errs.Storage("update customer", err)
	}
	return nil
}

func (r *repo) Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error) {
	res := db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Customer{})
	if res.Error != nil {
		return false, errs.Storage("delete customer", res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *repo) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	if err := db.WithContext(ctx).Model(&domain.Customer{}).Count(&count).Error; err != nil {
		return 0, errs.Storage("count customers", err)
	}
	return count, nil
}
