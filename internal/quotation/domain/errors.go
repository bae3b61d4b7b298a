package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidID     = errs.Validation("id", "must be a valid quotation id")
	ErrInvalidNumber = errs.Validation("quoteNumber", "must not be empty")
	ErrInvalidStatus = errs.Validation("status", "must be Draft or Converted")
)

func NotFound(id string) error {
	return errs.NotFound("quotation", id)
}

func ErrDuplicateNumber(number string) error {
	return &errs.DuplicateDocumentNumberError{Kind: "quotation", Number: number}
}
