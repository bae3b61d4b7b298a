package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, quotation *Quotation) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*Quotation, error)
	FindByNumber(ctx context.Context, db *gorm.DB, number string) (*Quotation, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*Quotation, error)
	UpdateNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, number string) (bool, error)
	// MarkConverted flips a quotation to Converted and reports whether the
	// row existed.
	MarkConverted(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
