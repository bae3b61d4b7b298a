package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidID     = errs.Validation("id", "must be a valid product id")
	ErrInvalidName   = errs.Validation("name", "must not be empty")
	ErrInvalidCode   = errs.Validation("productCode", "must not be empty")
	ErrNegativeRate  = errs.Validation("gstRate", "must not be negative")
	ErrNegativePrice = errs.Validation("price", "must not be negative")
)

func NotFound(id string) error {
	return errs.NotFound("product", id)
}

func ErrDuplicateProductCode(code string) error {
	return &errs.DuplicateDocumentNumberError{Kind: "product code", Number: code}
}
