package service

import (
	"sort"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
)

// DefaultHomeState is the seller jurisdiction used when none is configured.
const DefaultHomeState = "tamilnadu"

var (
	hundred = decimal.NewFromInt(100)
	half    = decimal.RequireFromString("0.5")
)

// Compute derives the GST breakdown for items.
//
// The discount is applied to every line on its own, so each slab carries an
// exact proportional taxable base. Only the grand total is rounded, half away
// from zero, and the adjustment is reported as a signed round-off.
//
// Compute is pure and deterministic.
func Compute(items []taxdomain.LineItem, discountPercent decimal.Decimal, intraState bool) (taxdomain.Breakdown, error) {
	if discountPercent.IsNegative() || discountPercent.GreaterThan(hundred) {
		return taxdomain.Breakdown{}, taxdomain.ErrInvalidDiscount
	}

	retained := decimal.NewFromInt(1).Sub(discountPercent.Div(hundred))

	subtotal := decimal.Zero
	taxable := decimal.Zero
	slabs := map[string]*taxdomain.SlabTax{}
	for _, item := range items {
		if item.Quantity.IsNegative() {
			return taxdomain.Breakdown{}, taxdomain.ErrInvalidQuantity
		}
		if item.UnitRate.IsNegative() {
			return taxdomain.Breakdown{}, taxdomain.ErrInvalidRate
		}
		if item.GSTRate.IsNegative() {
			return taxdomain.Breakdown{}, taxdomain.ErrInvalidGSTRate
		}

		amount := item.Amount()
		itemTaxable := amount.Mul(retained)
		subtotal = subtotal.Add(amount)
		taxable = taxable.Add(itemTaxable)

		if item.GSTRate.IsZero() {
			continue
		}

		key := item.GSTRate.String()
		slab, ok := slabs[key]
		if !ok {
			slab = &taxdomain.SlabTax{Rate: item.GSTRate}
			slabs[key] = slab
		}
		slab.Taxable = slab.Taxable.Add(itemTaxable)
		slab.Tax = slab.Tax.Add(itemTaxable.Mul(item.GSTRate).Div(hundred))
	}

	out := taxdomain.Breakdown{
		Subtotal:        subtotal,
		DiscountPercent: discountPercent,
		DiscountAmount:  subtotal.Mul(discountPercent).Div(hundred),
		TaxableAmount:   taxable,
		Slabs:           make([]taxdomain.SlabTax, 0, len(slabs)),
		IntraState:      intraState,
	}

	for _, slab := range slabs {
		if intraState {
			slab.CGST = slab.Tax.Mul(half)
			slab.SGST = slab.Tax.Sub(slab.CGST)
		} else {
			slab.IGST = slab.Tax
		}
		out.CGST = out.CGST.Add(slab.CGST)
		out.SGST = out.SGST.Add(slab.SGST)
		out.IGST = out.IGST.Add(slab.IGST)
		out.TotalTax = out.TotalTax.Add(slab.Tax)
		out.Slabs = append(out.Slabs, *slab)
	}
	sort.Slice(out.Slabs, func(i, j int) bool {
		return out.Slabs[i].Rate.LessThan(out.Slabs[j].Rate)
	})

	out.ExactTotal = out.TaxableAmount.Add(out.TotalTax)
	// decimal.Round rounds half away from zero.
	out.GrandTotal = out.ExactTotal.Round(0)
	out.RoundOff = out.GrandTotal.Sub(out.ExactTotal)

	return out, nil
}

// NormalizeState lower-cases a state name and strips every whitespace rune,
// so "Tamil Nadu" and "tamilnadu" compare equal.
func NormalizeState(state string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return unicode.ToLower(r)
	}, state)
}

// IsIntraState reports whether state and home name the same jurisdiction.
func IsIntraState(state, home string) bool {
	return NormalizeState(state) == NormalizeState(home)
}
