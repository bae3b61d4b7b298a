package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidID         = errs.Validation("id", "must be a valid purchase order id")
	ErrInvalidNumber     = errs.Validation("poNumber", "must not be empty")
	ErrInvalidStatus     = errs.Validation("status", "must be one of: Draft Sent Cancelled")
	ErrSupplierRequired  = errs.Validation("supplierId", "is required")
	ErrNoItems           = errs.Validation("items", "must contain at least one item")
	ErrInvalidProductID  = errs.Validation("productId", "must be a valid product id")
	ErrInvalidQty        = errs.Validation("qty", "must be greater than zero")
	ErrNegativeRate      = errs.Validation("rate", "must not be negative")
	ErrNegativeGSTRate   = errs.Validation("gstRate", "must not be negative")
	ErrInvalidDeliveryAt = errs.Validation("expectedDeliveryDate", "must not be before the order date")
)

func NotFound(id string) error {
	return errs.NotFound("purchase order", id)
}

func ErrDuplicateNumber(number string) error {
	return &errs.DuplicateDocumentNumberError{Kind: "purchase order", Number: number}
}
