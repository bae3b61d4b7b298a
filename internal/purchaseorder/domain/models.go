package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"gorm.io/datatypes"
)

type Status string

const (
	StatusDraft     Status = "Draft"
	StatusSent      Status = "Sent"
	StatusCancelled Status = "Cancelled"
)

func ParseStatus(raw string) (Status, error) {
	switch status := Status(raw); status {
	case StatusDraft, StatusSent, StatusCancelled:
		return status, nil
	default:
		return "", ErrInvalidStatus
	}
}

type PurchaseOrder struct {
	ID                   snowflake.ID                             `gorm:"primaryKey" json:"id"`
	PONumber             string                                   `gorm:"column:po_number;size:64;not null;uniqueIndex" json:"poNumber"`
	SupplierID           snowflake.ID                             `gorm:"not null;index" json:"supplierId"`
	Supplier             datatypes.JSONType[customerdomain.Party] `gorm:"column:supplier" json:"supplier"`
	Date                 time.Time                                `gorm:"not null" json:"date"`
	ExpectedDeliveryDate *time.Time                               `json:"expectedDeliveryDate,omitempty"`
	Items                datatypes.JSONSlice[documentdomain.Item] `gorm:"not null" json:"items"`
	Status               Status                                   `gorm:"size:16;not null;default:'Draft'" json:"status"`
	Remarks              string                                   `json:"remarks,omitempty"`

	taxdomain.Totals `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (PurchaseOrder) TableName() string { return "purchase_orders" }
