package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type CreateRequest struct {
	CustomerID      string                       `json:"customerId"`
	Items           []documentdomain.ItemRequest `json:"items"`
	DiscountPercent decimal.Decimal              `json:"discountPercent"`
	Date            *time.Time                   `json:"date"`
	ExpiryDate      *time.Time                   `json:"expiryDate"`
	ShipTo          *customerdomain.ShipTo       `json:"shipTo"`
}

type ListRequest struct {
	PageToken  string
	PageSize   int32
	Status     string
	CustomerID string
}

type ListFilter struct {
	Status     Status
	CustomerID int64
}

type ListResponse struct {
	pagination.PageInfo
	Quotations []Quotation `json:"quotations"`
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (Quotation, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (Quotation, error)
	Rename(ctx context.Context, id, quoteNumber string) (Quotation, error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string, includeSignature bool) (PDF, error)
}

// PDF is a rendered document ready for download.
type PDF struct {
	Filename string
	Content  []byte
}
