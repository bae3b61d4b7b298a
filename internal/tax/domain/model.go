package domain

import (
	"sort"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
)

// LineItem is one priced line fed into the tax computation.
type LineItem struct {
	ProductID snowflake.ID
	Quantity  decimal.Decimal
	UnitRate  decimal.Decimal
	GSTRate   decimal.Decimal
}

// Amount is quantity times unit rate, before discount and tax.
func (i LineItem) Amount() decimal.Decimal {
	return i.Quantity.Mul(i.UnitRate)
}

// SlabTax aggregates every line sharing one GST rate.
type SlabTax struct {
	Rate    decimal.Decimal `json:"rate"`
	Taxable decimal.Decimal `json:"taxable"`
	Tax     decimal.Decimal `json:"tax"`
	CGST    decimal.Decimal `json:"cgst"`
	SGST    decimal.Decimal `json:"sgst"`
	IGST    decimal.Decimal `json:"igst"`
}

type Breakdown struct {
	Subtotal        decimal.Decimal
	DiscountPercent decimal.Decimal
	DiscountAmount  decimal.Decimal
	TaxableAmount   decimal.Decimal
	Slabs           []SlabTax
	CGST            decimal.Decimal
	SGST            decimal.Decimal
	IGST            decimal.Decimal
	TotalTax        decimal.Decimal
	ExactTotal      decimal.Decimal
	RoundOff        decimal.Decimal
	GrandTotal      decimal.Decimal
	IntraState      bool
}

// Slab returns the slab for rate, if any line used it.
func (b Breakdown) Slab(rate decimal.Decimal) (SlabTax, bool) {
	for _, slab := range b.Slabs {
		if slab.Rate.Equal(rate) {
			return slab, true
		}
	}
	return SlabTax{}, false
}

// Totals freezes a Breakdown onto a persisted document. Documents embed it
// so the figures are stored once and never derived again.
type Totals struct {
	Subtotal        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"subtotal"`
	DiscountPercent decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"discountPercent"`
	DiscountAmount  decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"discountAmount"`
	TaxableAmount   decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"taxableAmount"`
	GSTBreakup      GSTBreakup      `gorm:"embedded" json:"gstBreakup"`
	RoundOff        decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"roundOff"`
	Total           decimal.Decimal `gorm:"type:numeric;not null;default:0" json:"total"`
}

type GSTBreakup struct {
	CGST  decimal.Decimal              `gorm:"column:cgst;type:numeric;not null;default:0" json:"cgst"`
	SGST  decimal.Decimal              `gorm:"column:sgst;type:numeric;not null;default:0" json:"sgst"`
	IGST  decimal.Decimal              `gorm:"column:igst;type:numeric;not null;default:0" json:"igst"`
	Slabs datatypes.JSONSlice[SlabTax] `gorm:"column:tax_slabs" json:"slabs"`
}

// TotalsFrom converts a computed breakdown into its persisted form.
func TotalsFrom(b Breakdown) Totals {
	slabs := make([]SlabTax, len(b.Slabs))
	copy(slabs, b.Slabs)
	return Totals{
		Subtotal:        b.Subtotal,
		DiscountPercent: b.DiscountPercent,
		DiscountAmount:  b.DiscountAmount,
		TaxableAmount:   b.TaxableAmount,
		GSTBreakup: GSTBreakup{
			CGST:  b.CGST,
			SGST:  b.SGST,
			IGST:  b.IGST,
			Slabs: datatypes.JSONSlice[SlabTax](slabs),
		},
		RoundOff: b.RoundOff,
		Total:    b.GrandTotal,
	}
}

// SortedSlabs returns the stored slabs ordered by rate.
func (t Totals) SortedSlabs() []SlabTax {
	slabs := make([]SlabTax, len(t.GSTBreakup.Slabs))
	copy(slabs, t.GSTBreakup.Slabs)
	sort.Slice(slabs, func(i, j int) bool {
		return slabs[i].Rate.LessThan(slabs[j].Rate)
	})
	return slabs
}

// IntraState reports whether the stored figures were split into CGST and SGST.
func (t Totals) IntraState() bool {
	return t.GSTBreakup.IGST.IsZero() && !(t.GSTBreakup.CGST.IsZero() && t.GSTBreakup.SGST.IsZero())
}
