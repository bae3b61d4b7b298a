package pdf

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	podomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	titleInvoice       = "TAX INVOICE"
	titleQuotation     = "PROFORMA INVOICE"
	titlePurchaseOrder = "PURCHASE ORDER"

	dateLayout = "02/01/2006"
)

var amountPrinter = message.NewPrinter(language.MustParse("en-IN"))

type field struct {
	Label string
	Value string
}

// sheet is the print layout shared by every document kind.
type sheet struct {
	Title      string
	Company    config.CompanyConfig
	Meta       []field
	PartyLabel string
	Party      customerdomain.Party
	ShipTo     *customerdomain.ShipTo
	Items      []documentdomain.Item
	Summary    []field
	Payment    []field
	Terms      string
	Remarks    string
	Signature  bool
}

func invoiceSheet(invoice invoicedomain.Invoice, company config.CompanyConfig, signature bool) sheet {
	shipTo := invoice.ShipTo.Data()
	return sheet{
		Title:   titleInvoice,
		Company: company,
		Meta: []field{
			{"Invoice No", invoice.InvoiceNumber},
			{"Date", formatDate(invoice.Date, company.Location())},
			{"Status", string(invoice.Status)},
		},
		PartyLabel: "Bill To",
		Party:      invoice.Customer.Data(),
		ShipTo:     &shipTo,
		Items:      invoice.Items,
		Summary:    summaryLines(invoice.Totals),
		Payment: []field{
			{"Payment Type", invoice.PaymentType},
			{"Paid", formatAmount(invoice.PaidAmount)},
			{"Balance", formatAmount(invoice.Balance)},
		},
		Terms:     company.InvoicePaymentTerms,
		Signature: signature,
	}
}

func quotationSheet(quotation quotationdomain.Quotation, company config.CompanyConfig, signature bool) sheet {
	meta := []field{
		{"Quotation No", quotation.QuoteNumber},
		{"Date", formatDate(quotation.Date, company.Location())},
	}
	if quotation.ExpiryDate != nil {
		meta = append(meta, field{"Valid Until", formatDate(*quotation.ExpiryDate, company.Location())})
	}
	shipTo := quotation.ShipTo.Data()
	return sheet{
		Title:      titleQuotation,
		Company:    company,
		Meta:       meta,
		PartyLabel: "Bill To",
		Party:      quotation.Customer.Data(),
		ShipTo:     &shipTo,
		Items:      quotation.Items,
		Summary:    summaryLines(quotation.Totals),
		Terms:      company.QuotationValidity,
		Signature:  signature,
	}
}

func purchaseOrderSheet(po podomain.PurchaseOrder, company config.CompanyConfig, signature bool) sheet {
	meta := []field{
		{"PO No", po.PONumber},
		{"Date", formatDate(po.Date, company.Location())},
		{"Status", string(po.Status)},
	}
	if po.ExpectedDeliveryDate != nil {
		meta = append(meta, field{"Delivery By", formatDate(*po.ExpectedDeliveryDate, company.Location())})
	}
	return sheet{
		Title:      titlePurchaseOrder,
		Company:    company,
		Meta:       meta,
		PartyLabel: "Supplier",
		Party:      po.Supplier.Data(),
		Items:      po.Items,
		Summary:    summaryLines(po.Totals),
		Remarks:    po.Remarks,
		Signature:  signature,
	}
}

// summaryLines lists the totals block. The discount line appears only when
// a discount was given; slabs print in ascending rate order.
func summaryLines(t taxdomain.Totals) []field {
	lines := []field{{"Subtotal", formatAmount(t.Subtotal)}}
	if t.DiscountAmount.IsPositive() {
		lines = append(lines, field{"Discount (" + formatRate(t.DiscountPercent) + "%)", "-" + formatAmount(t.DiscountAmount)})
	}
	lines = append(lines, field{"Taxable Amount", formatAmount(t.TaxableAmount)})

	for _, slab := range t.SortedSlabs() {
		if slab.IGST.IsZero() && !slab.Tax.IsZero() {
			half := formatRate(slab.Rate.Div(decimal.NewFromInt(2)))
			lines = append(lines,
				field{"CGST @ " + half + "%", formatAmount(slab.CGST)},
				field{"SGST @ " + half + "%", formatAmount(slab.SGST)},
			)
			continue
		}
		lines = append(lines, field{"IGST @ " + formatRate(slab.Rate) + "%", formatAmount(slab.IGST)})
	}

	lines = append(lines,
		field{"Round Off", formatRoundOff(t.RoundOff)},
		field{"Grand Total", formatAmount(t.Total)},
	)
	return lines
}

// formatAmount prints two decimals with Indian digit grouping.
func formatAmount(d decimal.Decimal) string {
	return amountPrinter.Sprintf("%.2f", d.Round(2).InexactFloat64())
}

// formatRoundOff always carries a sign unless the adjustment is zero.
func formatRoundOff(d decimal.Decimal) string {
	d = d.Round(2)
	switch {
	case d.IsPositive():
		return "+" + d.StringFixed(2)
	case d.IsNegative():
		return d.StringFixed(2)
	default:
		return "0.00"
	}
}

func formatRate(d decimal.Decimal) string {
	return d.Round(2).String()
}

// formatDate prints t as a calendar date in the business's time zone.
func formatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}

func partyLines(p customerdomain.Party) []string {
	lines := []string{}
	for _, value := range []string{p.Address, p.State} {
		if v := strings.TrimSpace(value); v != "" {
			lines = append(lines, v)
		}
	}
	if p.Phone != "" {
		lines = append(lines, "Phone: "+p.Phone)
	}
	if p.GSTNumber != "" {
		lines = append(lines, "GSTIN: "+p.GSTNumber)
	}
	return lines
}

func shipToLines(s customerdomain.ShipTo) []string {
	lines := []string{}
	for _, value := range []string{s.Address, s.City, s.State} {
		if v := strings.TrimSpace(value); v != "" {
			lines = append(lines, v)
		}
	}
	if s.Phone != "" {
		lines = append(lines, "Phone: "+s.Phone)
	}
	if s.GSTNumber != "" {
		lines = append(lines, "GSTIN: "+s.GSTNumber)
	}
	return lines
}
