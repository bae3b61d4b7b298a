package domain

import (
	"context"

	"github.com/smallbiznis/gstbilling/pkg/errs"
)

// Entry describes a document change to record.
type Entry struct {
	DocumentType   string
	DocumentID     string
	Action         string
	DocumentNumber string
	Metadata       map[string]any
}

type Service interface {
	// Record appends an event. Failures are logged and returned, callers on
	// a business path are expected to ignore them.
	Record(ctx context.Context, entry Entry) error
	// List returns the events of one document, oldest first.
	List(ctx context.Context, documentType, documentID string) ([]Event, error)
}

var (
	ErrInvalidAction       = errs.Validation("action", "must not be empty")
	ErrInvalidDocumentType = errs.Validation("documentType", "must be quotation, invoice or purchase_order")
	ErrInvalidDocumentID   = errs.Validation("documentId", "must not be empty")
)

// ValidDocumentType reports whether t names an audited document type.
func ValidDocumentType(t string) bool {
	switch t {
	case DocumentQuotation, DocumentInvoice, DocumentPurchaseOrder:
		return true
	default:
		return false
	}
}
