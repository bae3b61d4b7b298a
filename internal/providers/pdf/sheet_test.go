package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "12,345.60", formatAmount(dec("12345.6")))
	assert.Equal(t, "0.00", formatAmount(decimal.Zero))
	assert.Equal(t, "999.99", formatAmount(dec("999.994")))
}

func TestFormatRoundOff(t *testing.T) {
	assert.Equal(t, "+0.06", formatRoundOff(dec("0.06")))
	assert.Equal(t, "-0.40", formatRoundOff(dec("-0.4")))
	assert.Equal(t, "0.00", formatRoundOff(decimal.Zero))
}

func TestFormatDate(t *testing.T) {
	loc := config.DefaultCompanyConfig().Location()
	assert.Equal(t, "01/04/2025", formatDate(time.Date(2025, time.March, 31, 19, 0, 0, 0, time.UTC), loc))
	assert.Equal(t, "31/03/2025", formatDate(time.Date(2025, time.March, 31, 18, 0, 0, 0, time.UTC), loc))
	assert.Equal(t, "", formatDate(time.Time{}, loc))
}

func TestFilename(t *testing.T) {
	assert.Equal(t, "Invoice-ffi-25-26-001.pdf", Filename("Invoice", "FFI/25-26/001"))
	assert.Equal(t, "PO-po-25-26-014.pdf", Filename("PO", " PO/25-26/014 "))
	assert.Equal(t, "Quotation.pdf", Filename("Quotation", ""))
}

func TestSummaryLinesIntraStateWithDiscount(t *testing.T) {
	totals := taxdomain.Totals{
		Subtotal:        dec("1000"),
		DiscountPercent: dec("10"),
		DiscountAmount:  dec("100"),
		TaxableAmount:   dec("900"),
		GSTBreakup: taxdomain.GSTBreakup{
			Slabs: datatypes.JSONSlice[taxdomain.SlabTax]{
				{Rate: dec("18"), Taxable: dec("450"), Tax: dec("81"), CGST: dec("40.5"), SGST: dec("40.5")},
				{Rate: dec("5"), Taxable: dec("450"), Tax: dec("22.5"), CGST: dec("11.25"), SGST: dec("11.25")},
			},
		},
		RoundOff: dec("0.5"),
		Total:    dec("1004"),
	}

	labels := []string{}
	for _, line := range summaryLines(totals) {
		labels = append(labels, line.Label)
	}
	assert.Equal(t, []string{
		"Subtotal",
		"Discount (10%)",
		"Taxable Amount",
		"CGST @ 2.5%",
		"SGST @ 2.5%",
		"CGST @ 9%",
		"SGST @ 9%",
		"Round Off",
		"Grand Total",
	}, labels)
}

func TestSummaryLinesInterStateWithoutDiscount(t *testing.T) {
	totals := taxdomain.Totals{
		Subtotal:      dec("800"),
		TaxableAmount: dec("800"),
		GSTBreakup: taxdomain.GSTBreakup{
			IGST: dec("96"),
			Slabs: datatypes.JSONSlice[taxdomain.SlabTax]{
				{Rate: dec("12"), Taxable: dec("800"), Tax: dec("96"), IGST: dec("96")},
			},
		},
		Total: dec("896"),
	}

	lines := summaryLines(totals)
	require.Len(t, lines, 5)
	assert.Equal(t, "Taxable Amount", lines[1].Label)
	assert.Equal(t, field{"IGST @ 12%", "96.00"}, lines[2])
	assert.Equal(t, field{"Round Off", "0.00"}, lines[3])
	assert.Equal(t, field{"Grand Total", "896.00"}, lines[4])
}

func TestNoOpProvider(t *testing.T) {
	p := &NoOpProvider{}
	_, err := p.RenderInvoice(context.Background(), invoicedomain.Invoice{}, config.CompanyConfig{}, false)
	assert.ErrorIs(t, err, ErrRenderingDisabled)
	_, err = p.RenderQuotation(context.Background(), quotationdomain.Quotation{}, config.CompanyConfig{}, false)
	assert.ErrorIs(t, err, ErrRenderingDisabled)
}

func TestRenderQuotation(t *testing.T) {
	company := config.DefaultCompanyConfig()
	company.Bank = config.BankDetails{AccountName: "Fluid Flow Industries", AccountNumber: "000123", BankName: "SBI", IFSC: "SBIN0000001"}
	expiry := time.Date(2025, time.July, 10, 0, 0, 0, 0, time.UTC)

	quotation := quotationdomain.Quotation{
		QuoteNumber: "FFI/25-26/001",
		Customer:    datatypes.NewJSONType(customerdomain.Party{Name: "Sri Murugan Traders", State: "Tamil Nadu"}),
		Date:        time.Date(2025, time.June, 10, 0, 0, 0, 0, time.UTC),
		ExpiryDate:  &expiry,
		Items: datatypes.JSONSlice[documentdomain.Item]{
			{Name: "Monoblock Pump", HSN: "8413", Unit: "Nos", Qty: dec("2"), Rate: dec("5000"), GSTRate: dec("18"), Amount: dec("10000")},
		},
		Totals: taxdomain.Totals{Subtotal: dec("10000"), TaxableAmount: dec("10000"), Total: dec("11800")},
	}

	out, err := New().RenderQuotation(context.Background(), quotation, company, true)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestRenderHonoursCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := New().RenderInvoice(ctx, invoicedomain.Invoice{}, config.DefaultCompanyConfig(), false)
	assert.ErrorIs(t, err, context.Canceled)
}
