package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

// ConvertRequest turns a quotation into an invoice.
type ConvertRequest struct {
	QuotationID string          `json:"-"`
	PaymentType string          `json:"paymentType"`
	PaidAmount  decimal.Decimal `json:"paidAmount"`
}

// CreateRequest issues an invoice without a quotation.
type CreateRequest struct {
	CustomerID      string                       `json:"customerId"`
	Items           []documentdomain.ItemRequest `json:"items"`
	DiscountPercent decimal.Decimal              `json:"discountPercent"`
	Date            *time.Time                   `json:"date"`
	ShipTo          *customerdomain.ShipTo       `json:"shipTo"`
	PaymentType     string                       `json:"paymentType"`
	PaidAmount      decimal.Decimal              `json:"paidAmount"`
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
	Invoices []Invoice `json:"invoices"`
}

type PDF struct {
	Filename string
	Content  []byte
}

type Service interface {
	// ConvertQuotation issues an invoice from a Draft quotation, copying its
	// frozen figures. A retry after a partial failure returns the invoice
	// already issued for the quotation.
	ConvertQuotation(ctx context.Context, req ConvertRequest) (Invoice, error)
	Create(ctx context.Context, req CreateRequest) (Invoice, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	GetByID(ctx context.Context, id string) (Invoice, error)
	Rename(ctx context.Context, id, invoiceNumber string) (Invoice, error)
	UpdateStatus(ctx context.Context, id, status string) (Invoice, error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string, includeSignature bool) (PDF, error)
}
