package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidDiscount = errs.Validation("discountPercent", "must be between 0 and 100")
	ErrInvalidQuantity = errs.Validation("quantity", "must not be negative")
	ErrInvalidRate     = errs.Validation("rate", "must not be negative")
	ErrInvalidGSTRate  = errs.Validation("gstRate", "must not be negative")
)
