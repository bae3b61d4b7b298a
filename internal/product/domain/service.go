package domain

import (
	"context"

	"github.com/shopspring/decimal"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	List(ctx context.Context, req ListRequest) ([]Product, error)
	Get(ctx context.Context, id string) (*Product, error)
	Update(ctx context.Context, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
	// LowStock lists products whose stock is below the configured threshold.
	LowStock(ctx context.Context) ([]Product, error)
	CountLowStock(ctx context.Context) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type ListRequest struct {
	Name    string
	Status  string
	SortBy  string
	OrderBy string
}

type CreateRequest struct {
	ProductCode   string          `json:"productCode" validate:"required,max=64"`
	Name          string          `json:"name" validate:"required,max=200"`
	HSN           string          `json:"hsn" validate:"max=16"`
	Unit          string          `json:"unit" validate:"max=16"`
	GSTRate       decimal.Decimal `json:"gstRate"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	SellingPrice  decimal.Decimal `json:"sellingPrice"`
	StockQty      decimal.Decimal `json:"stockQty"`
	ReorderLevel  decimal.Decimal `json:"reorderLevel"`
	Status        string          `json:"status" validate:"max=32"`
	Metadata      map[string]any  `json:"metadata"`
}

// UpdateRequest applies only the fields that are set.
type UpdateRequest struct {
	ID            string           `json:"-"`
	ProductCode   *string          `json:"productCode"`
	Name          *string          `json:"name"`
	HSN           *string          `json:"hsn"`
	Unit          *string          `json:"unit"`
	GSTRate       *decimal.Decimal `json:"gstRate"`
	PurchasePrice *decimal.Decimal `json:"purchasePrice"`
	SellingPrice  *decimal.Decimal `json:"sellingPrice"`
	StockQty      *decimal.Decimal `json:"stockQty"`
	ReorderLevel  *decimal.Decimal `json:"reorderLevel"`
	Status        *string          `json:"status"`
	Metadata      map[string]any   `json:"metadata"`
}
