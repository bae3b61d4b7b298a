package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidID          = errs.Validation("id", "must be a valid invoice id")
	ErrInvalidQuotationID = errs.Validation("quotationId", "must be a valid quotation id")
	ErrInvalidNumber      = errs.Validation("invoiceNumber", "must not be empty")
	ErrInvalidStatus      = errs.Validation("status", "must be one of: Pending Paid Cancelled")
	ErrNegativePaid       = errs.Validation("paidAmount", "must not be negative")
)

func NotFound(id string) error {
	return errs.NotFound("invoice", id)
}

func ErrDuplicateNumber(number string) error {
	return &errs.DuplicateDocumentNumberError{Kind: "invoice", Number: number}
}
