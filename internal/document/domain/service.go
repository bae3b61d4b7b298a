package domain

import (
	"context"

	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"github.com/smallbiznis/gstbilling/pkg/errs"
)

type PriceRequest struct {
	CustomerID      string
	Items           []ItemRequest
	DiscountPercent decimal.Decimal
}

// Priced is a customer-facing document body ready to be numbered.
type Priced struct {
	Customer  customerdomain.Customer
	Items     []Item
	Breakdown taxdomain.Breakdown
}

// Builder resolves the customer and products of a sales document, checks
// stock and computes its tax breakdown.
type Builder interface {
	Price(ctx context.Context, req PriceRequest) (Priced, error)
}

var (
	ErrNoItems           = errs.Validation("items", "must contain at least one item")
	ErrInvalidProductID  = errs.Validation("productId", "must be a valid product id")
	ErrInvalidCustomerID = errs.Validation("customerId", "must be a valid customer id")
	ErrInvalidQty        = errs.Validation("qty", "must be greater than zero")
)
