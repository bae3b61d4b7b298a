// Package errs defines the error kinds shared by every billing component.
//
// Each typed error unwraps to exactly one kind sentinel so callers can
// classify failures with errors.Is and inspect details with errors.As.
package errs

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

var (
	ErrValidation              = errors.New("validation_error")
	ErrNotFound                = errors.New("not_found")
	ErrInsufficientStock       = errors.New("insufficient_stock")
	ErrAlreadyConverted        = errors.New("already_converted")
	ErrDuplicateDocumentNumber = errors.New("duplicate_document_number")
	ErrStorage                 = errors.New("storage_error")
)

type ValidationError struct {
	Field  string
	Reason string
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return "validation error: " + e.Reason
	}
	return fmt.Sprintf("validation error: %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

type NotFoundError struct {
	Resource string
	ID       string
}

func NotFound(resource, id string) error {
	return &NotFoundError{Resource: resource, ID: id}
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Resource, e.ID)
}

func (e *NotFoundError) Unwrap() error { return ErrNotFound }

type InsufficientStockError struct {
	ProductID   string
	ProductName string
	Available   decimal.Decimal
	Requested   decimal.Decimal
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for %s: available %s, requested %s",
		e.ProductName, e.Available.String(), e.Requested.String())
}

func (e *InsufficientStockError) Unwrap() error { return ErrInsufficientStock }

type AlreadyConvertedError struct {
	QuotationID string
	InvoiceID   string
}

func (e *AlreadyConvertedError) Error() string {
	if e.InvoiceID == "" {
		return fmt.Sprintf("quotation %s already converted", e.QuotationID)
	}
	return fmt.Sprintf("quotation %s already converted to invoice %s", e.QuotationID, e.InvoiceID)
}

func (e *AlreadyConvertedError) Unwrap() error { return ErrAlreadyConverted }

type DuplicateDocumentNumberError struct {
	Kind   string
	Number string
}

func (e *DuplicateDocumentNumberError) Error() string {
	return fmt.Sprintf("%s number %q already exists", e.Kind, e.Number)
}

func (e *DuplicateDocumentNumberError) Unwrap() error { return ErrDuplicateDocumentNumber }

// StorageError reports that the backing store was unreachable or rejected
// an operation. The driver error is kept for logging.
type StorageError struct {
	Op  string
	Err error
}

// Storage wraps err as a StorageError. It returns nil for a nil err and
// leaves errors that already carry a kind untouched.
func Storage(op string, err error) error {
	if err == nil {
		return nil
	}
	if Classify(err) != "" {
		return err
	}
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage error during %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() []error { return []error{ErrStorage, e.Err} }

// Classify returns the kind name of err, or "" when err carries no kind.
func Classify(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrValidation):
		return ErrValidation.Error()
	case errors.Is(err, ErrNotFound):
		return ErrNotFound.Error()
	case errors.Is(err, ErrInsufficientStock):
		return ErrInsufficientStock.Error()
	case errors.Is(err, ErrAlreadyConverted):
		return ErrAlreadyConverted.Error()
	case errors.Is(err, ErrDuplicateDocumentNumber):
		return ErrDuplicateDocumentNumber.Error()
	case errors.Is(err, ErrStorage):
		return ErrStorage.Error()
	default:
		return ""
	}
}
