package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/document/documenttest"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/invoice/repository"
	"github.com/smallbiznis/gstbilling/internal/invoice/service"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	quotationrepo "github.com/smallbiznis/gstbilling/internal/quotation/repository"
	quotationservice "github.com/smallbiznis/gstbilling/internal/quotation/service"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/datatypes"
)

type harness struct {
	env        *documenttest.Env
	invoices   domain.Service
	quotations quotationdomain.Service
	repo       domain.Repository
	quoteRepo  quotationdomain.Repository
}

func setup(t *testing.T) *harness {
	t.Helper()
	env := documenttest.New(t, &quotationdomain.Quotation{}, &domain.Invoice{})
	repo := repository.Provide()
	quoteRepo := quotationrepo.Provide()

	return &harness{
		env:       env,
		repo:      repo,
		quoteRepo: quoteRepo,
		invoices: service.NewService(service.Params{
			DB:         env.DB,
			Log:        env.Log,
			GenID:      env.Node,
			Clock:      env.Clock,
			Company:    env.Company,
			Repo:       repo,
			Quotations: quoteRepo,
			Builder:    env.Builder,
			Stock:      env.Stock,
			Sequence:   env.Sequence,
			Audit:      env.Audit,
		}),
		quotations: quotationservice.New(quotationservice.Params{
			DB:       env.DB,
			Log:      env.Log,
			GenID:    env.Node,
			Clock:    env.Clock,
			Company:  env.Company,
			Repo:     quoteRepo,
			Builder:  env.Builder,
			Sequence: env.Sequence,
			Audit:    env.Audit,
		}),
	}
}

func (h *harness) quote(t *testing.T, items ...documentdomain.ItemRequest) quotationdomain.Quotation {
	t.Helper()
	q, err := h.quotations.Create(context.Background(), quotationdomain.CreateRequest{
		CustomerID: h.env.Local.ID.String(),
		Items:      items,
	})
	require.NoError(t, err)
	return q
}

func TestConvertQuotation(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	q := h.quote(t, documenttest.Item(h.env.Pump, 2), documenttest.Item(h.env.Pipe, 4))

	invoice, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{
		QuotationID: q.ID.String(),
		PaymentType: "UPI",
		PaidAmount:  decimal.NewFromInt(5000),
	})
	require.NoError(t, err)

	assert.Equal(t, "FFI/25-26/001", invoice.InvoiceNumber)
	require.NotNil(t, invoice.SourceQuotationID)
	assert.Equal(t, q.ID, *invoice.SourceQuotationID)
	assert.Equal(t, q.CustomerID, invoice.CustomerID)
	assert.Equal(t, q.Customer.Data(), invoice.Customer.Data())
	assert.Len(t, invoice.Items, 2)
	assert.True(t, invoice.Total.Equal(q.Total))
	assert.True(t, invoice.GSTBreakup.CGST.Equal(q.GSTBreakup.CGST))
	assert.True(t, invoice.Balance.Equal(q.Total.Sub(decimal.NewFromInt(5000))))
	assert.Equal(t, domain.StatusPending, invoice.Status)
	assert.Equal(t, "UPI", invoice.PaymentType)

	assert.True(t, h.env.StockOf(t, h.env.Pump.ID).Equal(decimal.NewFromInt(8)))
	assert.True(t, h.env.StockOf(t, h.env.Pipe.ID).Equal(decimal.NewFromInt(96)))

	converted, err := h.quotations.Get(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, quotationdomain.StatusConverted, converted.Status)

	stored, err := h.invoices.GetByID(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoice.InvoiceNumber, stored.InvoiceNumber)

	events, err := h.env.Audit.List(ctx, auditdomain.DocumentInvoice, invoice.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, q.ID.String(), events[0].Metadata["source_quotation_id"])

	events, err = h.env.Audit.List(ctx, auditdomain.DocumentQuotation, q.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, auditdomain.ActionConverted, events[1].Action)
}

func TestConvertTwiceIsRejectedWithoutSideEffects(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	q := h.quote(t, documenttest.Item(h.env.Pump, 1))

	first, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: q.ID.String()})
	require.NoError(t, err)

	_, err = h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: q.ID.String()})
	require.ErrorIs(t, err, errs.ErrAlreadyConverted)

	var convErr *errs.AlreadyConvertedError
	require.ErrorAs(t, err, &convErr)
	assert.Equal(t, first.ID.String(), convErr.InvoiceID)

	assert.Equal(t, int64(1), h.env.Counter(t, sequencedomain.CounterInvoice))
	assert.True(t, h.env.StockOf(t, h.env.Pump.ID).Equal(decimal.NewFromInt(9)))
}

func TestConvertSkipsDeletedProducts(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	q := h.quote(t, documenttest.Item(h.env.Pump, 1), documenttest.Item(h.env.Pipe, 10))

	deleted, err := h.env.Products.Delete(ctx, h.env.DB, h.env.Pump.ID)
	require.NoError(t, err)
	require.True(t, deleted)

	invoice, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: q.ID.String()})
	require.NoError(t, err)

	// The frozen line survives even though the product is gone.
	require.Len(t, invoice.Items, 2)
	assert.Equal(t, "Monoblock Pump 1HP", invoice.Items[0].Name)
	assert.True(t, h.env.StockOf(t, h.env.Pipe.ID).Equal(decimal.NewFromInt(90)))
}

func TestConvertResumesInterruptedConversion(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	q := h.quote(t, documenttest.Item(h.env.Pipe, 2))

	// An invoice stored by an attempt that never flipped the quotation.
	orphan := domain.Invoice{
		ID:                h.env.Node.Generate(),
		InvoiceNumber:     "FFI/25-26/050",
		SourceQuotationID: &q.ID,
		CustomerID:        q.CustomerID,
		Customer:          q.Customer,
		Date:              documenttest.Now,
		Items:             q.Items,
		ShipTo:            q.ShipTo,
		Balance:           q.Total,
		Status:            domain.StatusPending,
		Totals:            q.Totals,
		CreatedAt:         documenttest.Now,
		UpdatedAt:         documenttest.Now,
	}
	require.NoError(t, h.repo.Insert(ctx, h.env.DB, &orphan))

	resumed, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: q.ID.String()})
	require.NoError(t, err)
	assert.Equal(t, orphan.ID, resumed.ID)
	assert.Equal(t, "FFI/25-26/050", resumed.InvoiceNumber)

	converted, err := h.quotations.Get(ctx, q.ID.String())
	require.NoError(t, err)
	assert.Equal(t, quotationdomain.StatusConverted, converted.Status)

	assert.Equal(t, int64(0), h.env.Counter(t, sequencedomain.CounterInvoice))
	assert.True(t, h.env.StockOf(t, h.env.Pipe.ID).Equal(decimal.NewFromInt(100)))
}

func TestConvertValidation(t *testing.T) {
	h := setup(t)
	ctx := context.Background()
	q := h.quote(t, documenttest.Item(h.env.Pipe, 1))

	_, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: "bogus"})
	assert.ErrorIs(t, err, domain.ErrInvalidQuotationID)

	_, err = h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{QuotationID: "77"})
	assert.ErrorIs(t, err, errs.ErrNotFound)

	_, err = h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{
		QuotationID: q.ID.String(),
		PaidAmount:  decimal.NewFromInt(-1),
	})
	assert.ErrorIs(t, err, domain.ErrNegativePaid)

	full, err := h.invoices.ConvertQuotation(ctx, domain.ConvertRequest{
		QuotationID: q.ID.String(),
		PaidAmount:  q.Total,
	})
	require.NoError(t, err)
	// Settled at conversion, but the status is only changed by hand.
	assert.Equal(t, domain.StatusPending, full.Status)
	assert.True(t, full.Balance.IsZero())
}

func TestCreateDecrementsStock(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	invoice, err := h.invoices.Create(ctx, domain.CreateRequest{
		CustomerID:  h.env.Remote.ID.String(),
		Items:       []documentdomain.ItemRequest{documenttest.Item(h.env.Pump, 3)},
		PaymentType: "Cash",
		PaidAmount:  decimal.NewFromInt(20000),
	})
	require.NoError(t, err)

	assert.Equal(t, "FFI/25-26/001", invoice.InvoiceNumber)
	assert.Nil(t, invoice.SourceQuotationID)
	assert.True(t, invoice.GSTBreakup.IGST.Equal(decimal.NewFromInt(2700)))
	assert.True(t, invoice.Total.Equal(decimal.NewFromInt(17700)))
	assert.Equal(t, domain.StatusPending, invoice.Status)
	assert.True(t, invoice.Balance.IsNegative())
	assert.True(t, h.env.StockOf(t, h.env.Pump.ID).Equal(decimal.NewFromInt(7)))

	got, err := h.invoices.GetByID(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	_, err = h.invoices.Create(ctx, domain.CreateRequest{
		CustomerID: h.env.Local.ID.String(),
		Items:      []documentdomain.ItemRequest{documenttest.Item(h.env.Pump, 8)},
	})
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	assert.Equal(t, int64(1), h.env.Counter(t, sequencedomain.CounterInvoice))
}

func TestRenameAndStatus(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	create := domain.CreateRequest{
		CustomerID: h.env.Local.ID.String(),
		Items:      []documentdomain.ItemRequest{documenttest.Item(h.env.Pipe, 1)},
	}
	first, err := h.invoices.Create(ctx, create)
	require.NoError(t, err)
	second, err := h.invoices.Create(ctx, create)
	require.NoError(t, err)

	_, err = h.invoices.Rename(ctx, second.ID.String(), first.InvoiceNumber)
	assert.ErrorIs(t, err, errs.ErrDuplicateDocumentNumber)

	renamed, err := h.invoices.Rename(ctx, second.ID.String(), "FFI/25-26/100")
	require.NoError(t, err)
	assert.Equal(t, "FFI/25-26/100", renamed.InvoiceNumber)

	_, err = h.invoices.UpdateStatus(ctx, first.ID.String(), "Refunded")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	cancelled, err := h.invoices.UpdateStatus(ctx, first.ID.String(), "Cancelled")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusCancelled, cancelled.Status)

	// Any state may follow any other.
	paid, err := h.invoices.UpdateStatus(ctx, first.ID.String(), "Paid")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, paid.Status)

	events, err := h.env.Audit.List(ctx, auditdomain.DocumentInvoice, first.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 3)
	assert.Equal(t, "Cancelled", events[2].Metadata["previous_status"])

	require.NoError(t, h.invoices.Delete(ctx, second.ID.String()))
	_, err = h.invoices.GetByID(ctx, second.ID.String())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestLegacyStatus(t *testing.T) {
	h := setup(t)
	ctx := context.Background()

	legacy := func(number string, balance int64) domain.Invoice {
		inv := domain.Invoice{
			ID:            h.env.Node.Generate(),
			InvoiceNumber: number,
			CustomerID:    h.env.Local.ID,
			Date:          documenttest.Now,
			Items:         datatypes.JSONSlice[documentdomain.Item]{},
			Balance:       decimal.NewFromInt(balance),
			CreatedAt:     documenttest.Now,
			UpdatedAt:     documenttest.Now,
		}
		require.NoError(t, h.repo.Insert(ctx, h.env.DB, &inv))
		return inv
	}
	settled := legacy("OLD/1", 0)
	owing := legacy("OLD/2", 250)

	got, err := h.invoices.GetByID(ctx, settled.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPaid, got.Status)

	got, err = h.invoices.GetByID(ctx, owing.ID.String())
	require.NoError(t, err)
	assert.Equal(t, domain.StatusPending, got.Status)

	paid, err := h.invoices.List(ctx, domain.ListRequest{Status: "Paid"})
	require.NoError(t, err)
	require.Len(t, paid.Invoices, 1)
	assert.Equal(t, settled.ID, paid.Invoices[0].ID)
}
