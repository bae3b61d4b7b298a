package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

type store[T any] struct {
	db   *gorm.DB
	name string
}

func ProvideStore[T any](db *gorm.DB) Repository[T] {
	var zero T
	return &store[T]{db: db, name: fmt.Sprintf("%T", zero)}
}

func (r *store[T]) WithTrx(tx *gorm.DB) Repository[T] {
	return &store[T]{db: tx, name: r.name}
}

func (r *store[T]) Find(ctx context.Context, query *T, opts ...option.QueryOption) ([]*T, error) {
	var result []*T
	stmt := r.buildQuery(ctx, query, opts...)
	if err := stmt.Find(&result).Error; err != nil {
		return nil, errs.Storage("find "+r.name, err)
	}
	return result, nil
}

// FindOne returns nil, nil when nothing matches.
func (r *store[T]) FindOne(ctx context.Context, query *T, opts ...option.QueryOption) (*T, error) {
	var result T
	stmt := r.buildQuery(ctx, query, opts...)
	err := stmt.First(&result).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errs.Storage("find "+r.name, err)
	}
	return &result, nil
}

func (r *store[T]) Create(ctx context.Context, resource *T) error {
	if err := r.db.WithContext(ctx).Create(resource).Error; err != nil {
		return errs.Storage("create "+r.name, err)
	}
	return nil
}

func (r *store[T]) Update(ctx context.Context, resourceID string, resource any) error {
	err := r.db.WithContext(ctx).Model(new(T)).Where("id = ?", resourceID).Updates(resource).Error
	if err != nil {
		return errs.Storage("update "+r.name, err)
	}
	return nil
}

// Delete reports whether a row was removed.
func (r *store[T]) Delete(ctx context.Context, resourceID string) (bool, error) {
	var dummy T
	res := r.db.WithContext(ctx).Where("id = ?", resourceID).Delete(&dummy)
	if res.Error != nil {
		return false, errs.Storage("delete "+r.name, res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *store[T]) Count(ctx context.Context, query *T) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(new(T)).Where(query).Count(&count).Error
	if err != nil {
		return 0, errs.Storage("count "+r.name, err)
	}
	return count, nil
}

func (r *store[T]) buildQuery(ctx context.Context, filter *T, opts ...option.QueryOption) *gorm.DB {
	db := r.db.WithContext(ctx).Model(new(T))
	if filter != nil {
		db = db.Where(filter)
	}

	for _, opt := range opts {
		db = opt.Apply(db)
	}

	return db
}
