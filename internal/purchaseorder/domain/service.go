package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type ItemRequest struct {
	ProductID string           `json:"productId"`
	ModelNo   string           `json:"modelNo"`
	Qty       decimal.Decimal  `json:"qty"`
	Unit      string           `json:"unit"`
	Rate      *decimal.Decimal `json:"rate"`
	GSTRate   *decimal.Decimal `json:"gstRate"`
}

type CreateRequest struct {
	// PONumber is optional; one is allocated when empty.
	PONumber             string        `json:"poNumber"`
	SupplierID           string        `json:"supplierId"`
	Date                 *time.Time    `json:"date"`
	ExpectedDeliveryDate *time.Time    `json:"expectedDeliveryDate"`
	Items                []ItemRequest `json:"items"`
	Remarks              string        `json:"remarks"`
}

type ListRequest struct {
	PageToken string
	PageSize  int32
	Status    string
}

type ListFilter struct {
	Status Status
}

type ListResponse struct {
	pagination.PageInfo
	PurchaseOrders []PurchaseOrder `json:"purchaseOrders"`
}

type PDF struct {
	Filename string
	Content  []byte
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (PurchaseOrder, error)
	List(ctx context.Context, req ListRequest) (ListResponse, error)
	Get(ctx context.Context, id string) (PurchaseOrder, error)
	Rename(ctx context.Context, id, poNumber string) (PurchaseOrder, error)
	UpdateStatus(ctx context.Context, id, status string) (PurchaseOrder, error)
	Delete(ctx context.Context, id string) error
	RenderPDF(ctx context.Context, id string, includeSignature bool) (PDF, error)
}
