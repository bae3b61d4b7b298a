package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Document types recorded in the audit trail.
const (
	DocumentQuotation     = "quotation"
	DocumentInvoice       = "invoice"
	DocumentPurchaseOrder = "purchase_order"
)

// Actions recorded in the audit trail.
const (
	ActionCreated       = "created"
	ActionConverted     = "converted"
	ActionRenamed       = "renamed"
	ActionStatusChanged = "status_changed"
	ActionDeleted       = "deleted"
)

// Event is one append-only entry of a document's history.
type Event struct {
	ID             string            `gorm:"primaryKey;size:26" json:"id"`
	DocumentType   string            `gorm:"size:32;not null;index:idx_document_audit_target,priority:1" json:"documentType"`
	DocumentID     string            `gorm:"size:32;not null;index:idx_document_audit_target,priority:2" json:"documentId"`
	Action         string            `gorm:"size:32;not null" json:"action"`
	DocumentNumber string            `gorm:"size:64" json:"documentNumber,omitempty"`
	RequestID      string            `gorm:"size:64" json:"requestId,omitempty"`
	ClientIP       string            `gorm:"size:64" json:"clientIp,omitempty"`
	UserAgent      string            `json:"userAgent,omitempty"`
	Metadata       datatypes.JSONMap `json:"metadata,omitempty"`
	OccurredAt     time.Time         `gorm:"not null" json:"occurredAt"`
}

func (Event) TableName() string { return "document_audit_events" }
