package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	StatusInStock    = "In Stock"
	StatusOutOfStock = "Out of Stock"
)

type Product struct {
	ID            snowflake.ID      `json:"id" gorm:"primaryKey"`
	ProductCode   string            `json:"productCode" gorm:"column:product_code;size:64;not null;uniqueIndex"`
	Name          string            `json:"name" gorm:"not null"`
	HSN           string            `json:"hsn" gorm:"column:hsn;size:16"`
	Unit          string            `json:"unit" gorm:"size:16"`
	GSTRate       decimal.Decimal   `json:"gstRate" gorm:"column:gst_rate;type:numeric;not null;default:0"`
	PurchasePrice decimal.Decimal   `json:"purchasePrice" gorm:"type:numeric;not null;default:0"`
	SellingPrice  decimal.Decimal   `json:"sellingPrice" gorm:"type:numeric;not null;default:0"`
	StockQty      decimal.Decimal   `json:"stockQty" gorm:"type:numeric;not null;default:0"`
	ReorderLevel  decimal.Decimal   `json:"reorderLevel" gorm:"type:numeric;not null;default:0"`
	Status        string            `json:"status" gorm:"size:32;not null;default:'In Stock'"`
	Metadata      datatypes.JSONMap `json:"metadata,omitempty"`
	CreatedAt     time.Time         `json:"createdAt" gorm:"not null;index"`
	UpdatedAt     time.Time         `json:"updatedAt" gorm:"not null"`
}

func (Product) TableName() string { return "products" }

// BeforeSave keeps the stock status consistent with the quantity on every
// insert and full save.
func (p *Product) BeforeSave(tx *gorm.DB) error {
	p.Status = DeriveStatus(p.Status, p.StockQty)
	return nil
}

// DeriveStatus applies the stock status rule: no stock is always
// "Out of Stock"; restocking only clears "Out of Stock" and leaves any other
// manually chosen status alone.
func DeriveStatus(current string, stockQty decimal.Decimal) string {
	if stockQty.LessThanOrEqual(decimal.Zero) {
		return StatusOutOfStock
	}
	if current == "" || current == StatusOutOfStock {
		return StatusInStock
	}
	return current
}
