package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"gorm.io/gorm"
)

type Repository interface {
	Insert(ctx context.Context, db *gorm.DB, po *PurchaseOrder) error
	FindByID(ctx context.Context, db *gorm.DB, id snowflake.ID) (*PurchaseOrder, error)
	FindByNumber(ctx context.Context, db *gorm.DB, number string) (*PurchaseOrder, error)
	List(ctx context.Context, db *gorm.DB, filter ListFilter, page pagination.Pagination) ([]*PurchaseOrder, error)
	UpdateNumber(ctx context.Context, db *gorm.DB, id snowflake.ID, number string) (bool, error)
	UpdateStatus(ctx context.Context, db *gorm.DB, id snowflake.ID, status Status) (bool, error)
	Delete(ctx context.Context, db *gorm.DB, id snowflake.ID) (bool, error)
}
