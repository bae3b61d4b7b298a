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
	StatusConverted Status = "Converted"
)

type Quotation struct {
	ID          snowflake.ID                              `gorm:"primaryKey" json:"id"`
	QuoteNumber string                                    `gorm:"column:quote_number;size:64;not null;uniqueIndex" json:"quoteNumber"`
	CustomerID  snowflake.ID                              `gorm:"not null;index" json:"customerId"`
	Customer    datatypes.JSONType[customerdomain.Party]  `gorm:"column:customer" json:"customer"`
	Date        time.Time                                 `gorm:"not null" json:"date"`
	ExpiryDate  *time.Time                                `json:"expiryDate,omitempty"`
	Items       datatypes.JSONSlice[documentdomain.Item]  `gorm:"not null" json:"items"`
	ShipTo      datatypes.JSONType[customerdomain.ShipTo] `gorm:"column:ship_to" json:"shipTo"`
	Status      Status                                    `gorm:"size:16;not null;default:'Draft'" json:"status"`

	taxdomain.Totals `gorm:"embedded"`

	CreatedAt time.Time `gorm:"not null;index" json:"createdAt"`
	UpdatedAt time.Time `gorm:"not null" json:"updatedAt"`
}

func (Quotation) TableName() string { return "quotations" }

func (q Quotation) IsConverted() bool {
	return q.Status == StatusConverted
}
