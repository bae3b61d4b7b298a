package domain

import (
	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
)

// Item is a priced line frozen onto a quotation, invoice or purchase order.
// Product details are copied so the document survives product edits.
type Item struct {
	ProductID   snowflake.ID    `json:"productId"`
	ProductCode string          `json:"productCode,omitempty"`
	Name        string          `json:"name"`
	ModelNo     string          `json:"modelNo,omitempty"`
	HSN         string          `json:"hsn,omitempty"`
	Unit        string          `json:"unit,omitempty"`
	Qty         decimal.Decimal `json:"qty"`
	Rate        decimal.Decimal `json:"rate"`
	GSTRate     decimal.Decimal `json:"gstRate"`
	Amount      decimal.Decimal `json:"amount"`
}

// ItemRequest is a requested line; rate and GST rate come from the product.
type ItemRequest struct {
	ProductID string          `json:"productId"`
	Qty       decimal.Decimal `json:"qty"`
}

// TaxLines converts frozen items into tax engine input.
func TaxLines(items []Item) []taxdomain.LineItem {
	lines := make([]taxdomain.LineItem, 0, len(items))
	for _, item := range items {
		lines = append(lines, taxdomain.LineItem{
			ProductID: item.ProductID,
			Quantity:  item.Qty,
			UnitRate:  item.Rate,
			GSTRate:   item.GSTRate,
		})
	}
	return lines
}
