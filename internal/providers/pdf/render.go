package pdf

import (
	"context"
	"strconv"
	"strings"

	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	mconfig "github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/smallbiznis/gstbilling/internal/config"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	podomain "github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
)

const lineHeight = 4.5

type PDFProvider struct{}

func New() Provider {
	return &PDFProvider{}
}

func (p *PDFProvider) RenderInvoice(ctx context.Context, invoice invoicedomain.Invoice, company config.CompanyConfig, includeSignature bool) ([]byte, error) {
	return render(ctx, invoiceSheet(invoice, company, includeSignature))
}

func (p *PDFProvider) RenderQuotation(ctx context.Context, quotation quotationdomain.Quotation, company config.CompanyConfig, includeSignature bool) ([]byte, error) {
	return render(ctx, quotationSheet(quotation, company, includeSignature))
}

func (p *PDFProvider) RenderPurchaseOrder(ctx context.Context, po podomain.PurchaseOrder, company config.CompanyConfig, includeSignature bool) ([]byte, error) {
	return render(ctx, purchaseOrderSheet(po, company, includeSignature))
}

func render(ctx context.Context, doc sheet) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	cfg := mconfig.NewBuilder().
		WithPageNumber(props.PageNumber{
			Pattern: "Page {current} of {total}",
			Place:   props.RightBottom,
		}).
		Build()

	m := maroto.New(cfg)

	addHeader(m, doc)
	addParties(m, doc)
	addItems(m, doc)
	addSummary(m, doc)
	addFooter(m, doc)

	out, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return out.GetBytes(), nil
}

func addHeader(m core.Maroto, doc sheet) {
	company := doc.Company

	m.AddRow(10,
		text.NewCol(12, doc.Title, props.Text{
			Size:  16,
			Style: fontstyle.Bold,
			Align: align.Center,
		}),
	)

	details := []string{company.Address}
	if company.Phone != "" {
		details = append(details, "Phone: "+company.Phone)
	}
	if company.Email != "" {
		details = append(details, "Email: "+company.Email)
	}
	if company.GSTIN != "" {
		details = append(details, "GSTIN: "+company.GSTIN)
	}

	left := col.New(7).Add(text.New(company.Name, props.Text{Style: fontstyle.Bold, Size: 12}))
	for i, line := range details {
		left.Add(text.New(line, props.Text{Top: float64(i+1) * lineHeight * 1.2, Size: 9}))
	}

	right := col.New(5)
	for i, meta := range doc.Meta {
		right.Add(text.New(meta.Label+": "+meta.Value, props.Text{
			Top:   float64(i) * lineHeight,
			Size:  9,
			Align: align.Right,
		}))
	}

	m.AddRow(rowHeight(len(details)+1, len(doc.Meta)), left, right)
}

func addParties(m core.Maroto, doc sheet) {
	party := partyLines(doc.Party)
	bill := col.New(6).Add(
		text.New(doc.PartyLabel, props.Text{Style: fontstyle.Bold, Size: 9}),
		text.New(doc.Party.Name, props.Text{Top: lineHeight, Size: 9}),
	)
	for i, line := range party {
		bill.Add(text.New(line, props.Text{Top: float64(i+2) * lineHeight, Size: 9}))
	}

	ship := col.New(6)
	shipCount := 0
	if doc.ShipTo != nil && !doc.ShipTo.IsZero() {
		lines := shipToLines(*doc.ShipTo)
		shipCount = len(lines)
		ship.Add(
			text.New("Ship To", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(doc.ShipTo.Name, props.Text{Top: lineHeight, Size: 9}),
		)
		for i, line := range lines {
			ship.Add(text.New(line, props.Text{Top: float64(i+2) * lineHeight, Size: 9}))
		}
	}

	m.AddRow(rowHeight(len(party)+2, shipCount+2), bill, ship)
}

func addItems(m core.Maroto, doc sheet) {
	header := props.Text{Style: fontstyle.Bold, Size: 9}
	headerRight := props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right}

	m.AddRow(8,
		text.NewCol(1, "#", header),
		text.NewCol(4, "Product", header),
		text.NewCol(2, "HSN", header),
		text.NewCol(1, "Qty", headerRight),
		text.NewCol(2, "Rate", headerRight),
		text.NewCol(1, "GST%", headerRight),
		text.NewCol(1, "Amount", headerRight),
	)

	cell := props.Text{Size: 8}
	cellRight := props.Text{Size: 8, Align: align.Right}
	for i, item := range doc.Items {
		name := item.Name
		if item.ModelNo != "" {
			name += " (" + item.ModelNo + ")"
		}
		qty := item.Qty.String()
		if item.Unit != "" {
			qty += " " + item.Unit
		}
		m.AddRow(7,
			text.NewCol(1, strconv.Itoa(i+1), cell),
			text.NewCol(4, name, cell),
			text.NewCol(2, item.HSN, cell),
			text.NewCol(1, qty, cellRight),
			text.NewCol(2, formatAmount(item.Rate), cellRight),
			text.NewCol(1, formatRate(item.GSTRate), cellRight),
			text.NewCol(1, formatAmount(item.Amount), cellRight),
		)
	}
}

func addSummary(m core.Maroto, doc sheet) {
	for i, line := range doc.Summary {
		style := props.Text{Size: 9}
		valueStyle := props.Text{Size: 9, Align: align.Right}
		if i == len(doc.Summary)-1 {
			style.Style = fontstyle.Bold
			valueStyle.Style = fontstyle.Bold
		}
		m.AddRow(6,
			col.New(7),
			text.NewCol(3, line.Label, style),
			text.NewCol(2, line.Value, valueStyle),
		)
	}

	for _, line := range doc.Payment {
		if strings.TrimSpace(line.Value) == "" {
			continue
		}
		m.AddRow(6,
			col.New(7),
			text.NewCol(3, line.Label, props.Text{Size: 9}),
			text.NewCol(2, line.Value, props.Text{Size: 9, Align: align.Right}),
		)
	}
}

func addFooter(m core.Maroto, doc sheet) {
	bank := doc.Company.Bank
	if bank.AccountNumber != "" {
		lines := []string{
			"Account Name: " + bank.AccountName,
			"Account No: " + bank.AccountNumber,
			"Bank: " + bank.BankName,
			"IFSC: " + bank.IFSC,
		}
		if bank.Branch != "" {
			lines = append(lines, "Branch: "+bank.Branch)
		}
		details := col.New(12).Add(text.New("Bank Details", props.Text{Style: fontstyle.Bold, Size: 9, Top: 4}))
		for i, line := range lines {
			details.Add(text.New(line, props.Text{Top: 4 + float64(i+1)*lineHeight, Size: 9}))
		}
		m.AddRow(rowHeight(len(lines)+2, 0), details)
	}

	if doc.Remarks != "" {
		m.AddRow(10, text.NewCol(12, "Remarks: "+doc.Remarks, props.Text{Size: 9, Top: 3}))
	}
	if doc.Terms != "" {
		m.AddRow(10, text.NewCol(12, "Terms: "+doc.Terms, props.Text{Size: 9, Top: 3}))
	}

	if doc.Signature {
		label := doc.Company.SignatoryLabel
		if label == "" {
			label = "Authorised Signatory"
		}
		m.AddRow(25,
			col.New(7),
			col.New(5).Add(
				text.New("For "+doc.Company.Name, props.Text{Size: 9, Align: align.Right}),
				text.New(label, props.Text{Top: 18, Size: 9, Style: fontstyle.Bold, Align: align.Right}),
			),
		)
	}
}

func rowHeight(left, right int) float64 {
	lines := left
	if right > lines {
		lines = right
	}
	return float64(lines)*lineHeight + 4
}
