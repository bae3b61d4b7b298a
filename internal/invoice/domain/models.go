package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Status string

const (
	StatusPending   Status = "Pending"
	StatusPaid      Status = "Paid"
	StatusCancelled Status = "Cancelled"
)

// ParseStatus accepts exactly the three invoice states.
func ParseStatus(raw string) (Status, error) {
	switch status := Status(raw); status {
	case StatusPending, StatusPaid, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

type Invoice struct {
	ID                snowflake.ID                              `gorm:"primaryKey" json:"id"`
	InvoiceNumber     string                                    `gorm:"column:invoice_number;size:64;not null;uniqueIndex:uq_invoices_invoice_number" json:"invoiceNumber"`
	SourceQuotationID *snowflake.ID                             `gorm:"uniqueIndex:uq_invoices_source_quotation" json:"sourceQuotationId,omitempty"`
	CustomerID        snowflake.ID                              `gorm:"not null;index" json:"customerId"`
	Customer          datatypes.JSONType[customerdomain.Party]  `gorm:"column:customer" json:"customer"`
	Date              time.Time                                 `gorm:"not null;index" json:"date"`
	Items             datatypes.JSONSlice[documentdomain.Item]  `gorm:"not null" json:"items"`
	ShipTo            datatypes.JSONType[customerdomain.ShipTo] `gorm:"column:ship_to" json:"shipTo"`
	PaymentType       string                                    `gorm:"size:32" json:"paymentType,omitempty"`
	PaidAmount        decimal.Decimal                           `gorm:"type:numeric;not null;default:0" json:"paidAmount"`
	Balance           decimal.Decimal                           `gorm:"type:numeric;not null;default:0" json:"balance"`
	Status            Status                                    `gorm:"size:16" json:"status"`

	taxdomain.Totals `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Invoice) TableName() string { return "invoices" }

// AfterFind gives rows written before the status column existed a status
// derived from their balance.
func (i *Invoice) AfterFind(tx *gorm.DB) error {
	i.Status = EffectiveStatus(i.Status, i.Balance)
	return nil
}

// EffectiveStatus returns status, or for an empty legacy value Paid when
// nothing is owed and Pending otherwise.
func EffectiveStatus(status Status, balance decimal.Decimal) Status {
	if status != "" {
		return status
	}
	if balance.LessThanOrEqual(decimal.Zero) {
		return StatusPaid
	}
	return StatusPending
}
