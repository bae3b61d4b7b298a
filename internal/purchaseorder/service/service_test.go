package service

import (
	"context"
	"testing"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	auditrepo "github.com/smallbiznis/gstbilling/internal/audit/repository"
	auditservice "github.com/smallbiznis/gstbilling/internal/audit/service"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	productrepo "github.com/smallbiznis/gstbilling/internal/product/repository"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/repository"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	sequencerepo "github.com/smallbiznis/gstbilling/internal/sequence/repository"
	sequenceservice "github.com/smallbiznis/gstbilling/internal/sequence/service"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	supplierservice "github.com/smallbiznis/gstbilling/internal/supplier/service"
	taxservice "github.com/smallbiznis/gstbilling/internal/tax/service"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type fixture struct {
	db        *gorm.DB
	svc       domain.Service
	suppliers supplierdomain.Service
	audit     auditdomain.Service
	product   productdomain.Product
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	conn := dbtest.Open(t,
		&productdomain.Product{},
		&supplierdomain.Supplier{},
		&domain.PurchaseOrder{},
		&sequencedomain.Counter{},
		&auditdomain.Event{},
	)
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	clk := clock.NewFakeClock(time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC))
	company := config.NewStaticCompanyConfigHolder(config.DefaultCompanyConfig())

	products := productrepo.Provide()
	product := productdomain.Product{
		ID:            node.Generate(),
		ProductCode:   "MTR-05",
		Name:          "Motor 0.5HP",
		HSN:           "8501",
		Unit:          "Nos",
		GSTRate:       decimal.NewFromInt(18),
		PurchasePrice: decimal.NewFromInt(1000),
		SellingPrice:  decimal.NewFromInt(1500),
		StockQty:      decimal.NewFromInt(4),
		CreatedAt:     clk.Now(),
		UpdatedAt:     clk.Now(),
	}
	require.NoError(t, products.Create(context.Background(), conn, &product))

	suppliers := supplierservice.New(supplierservice.Params{DB: conn, Log: log, GenID: node})
	audit := auditservice.NewService(auditservice.Params{DB: conn, Log: log, Clock: clk, Repo: auditrepo.Provide()})

	svc := New(Params{
		DB:        conn,
		Log:       log,
		GenID:     node,
		Clock:     clk,
		Company:   company,
		Repo:      repository.Provide(),
		Suppliers: suppliers,
		Products:  products,
		Tax:       taxservice.NewService(taxservice.Params{Company: company}),
		Sequence: sequenceservice.New(sequenceservice.Params{
			Log:     log,
			Store:   sequencerepo.NewSQLStore(conn),
			Company: company,
		}),
		Audit: audit,
	})

	return &fixture{db: conn, svc: svc, suppliers: suppliers, audit: audit, product: product}
}

func (f *fixture) supplier(t *testing.T, state string) supplierdomain.Supplier {
	t.Helper()
	created, err := f.suppliers.Create(context.Background(), supplierdomain.CreateRequest{
		Name:    "Kirloskar Pumps",
		GSTIN:   "33AABCS1234K1Z5",
		Address: "12 Industrial Estate",
		State:   state,
	})
	require.NoError(t, err)
	return created
}

func TestCreateAllocatesNumberAndDefaults(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "")

	po, err := f.svc.Create(context.Background(), domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.ItemRequest{
			{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(2), ModelNo: "KM-05"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "PO/25-26/001", po.PONumber)
	assert.Equal(t, domain.StatusDraft, po.Status)
	assert.Equal(t, "Kirloskar Pumps", po.Supplier.Data().Name)
	assert.Equal(t, "33AABCS1234K1Z5", po.Supplier.Data().GSTNumber)

	require.Len(t, po.Items, 1)
	item := po.Items[0]
	assert.Equal(t, "Nos", item.Unit)
	assert.Equal(t, "KM-05", item.ModelNo)
	assert.True(t, item.Rate.Equal(decimal.NewFromInt(1000)))
	assert.True(t, item.GSTRate.Equal(decimal.NewFromInt(5)))

	// No supplier state means the order stays within the home state.
	assert.True(t, po.GSTBreakup.CGST.Equal(decimal.NewFromInt(50)))
	assert.True(t, po.GSTBreakup.SGST.Equal(decimal.NewFromInt(50)))
	assert.True(t, po.GSTBreakup.IGST.IsZero())
	assert.True(t, po.Total.Equal(decimal.NewFromInt(2100)))
	assert.True(t, po.DiscountAmount.IsZero())

	next, err := f.svc.Create(context.Background(), domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	assert.Equal(t, "PO/25-26/002", next.PONumber)

	events, err := f.audit.List(context.Background(), auditdomain.DocumentPurchaseOrder, po.ID.String())
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, auditdomain.ActionCreated, events[0].Action)
}

func TestCreateOutOfStateSupplierUsesIGST(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "Maharashtra")

	rate := decimal.NewFromInt(800)
	gst := decimal.NewFromInt(12)
	po, err := f.svc.Create(context.Background(), domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items: []domain.ItemRequest{
			{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1), Rate: &rate, GSTRate: &gst, Unit: "Set"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Set", po.Items[0].Unit)
	assert.True(t, po.GSTBreakup.IGST.Equal(decimal.NewFromInt(96)))
	assert.True(t, po.GSTBreakup.CGST.IsZero())
	assert.True(t, po.Total.Equal(decimal.NewFromInt(896)))
}

func TestCreateWithClientNumber(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "")
	ctx := context.Background()

	req := domain.CreateRequest{
		PONumber:   "PO/MANUAL/7",
		SupplierID: supplier.ID.String(),
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	}
	po, err := f.svc.Create(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, "PO/MANUAL/7", po.PONumber)

	_, err = f.svc.Create(ctx, req)
	assert.ErrorIs(t, err, errs.ErrDuplicateDocumentNumber)
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "")
	ctx := context.Background()
	negative := decimal.NewFromInt(-1)

	cases := []struct {
		name string
		req  domain.CreateRequest
		want error
	}{
		{"missing supplier", domain.CreateRequest{Items: []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}}}, domain.ErrSupplierRequired},
		{"no items", domain.CreateRequest{SupplierID: supplier.ID.String()}, domain.ErrNoItems},
		{"bad product id", domain.CreateRequest{SupplierID: supplier.ID.String(), Items: []domain.ItemRequest{{ProductID: "x", Qty: decimal.NewFromInt(1)}}}, domain.ErrInvalidProductID},
		{"zero qty", domain.CreateRequest{SupplierID: supplier.ID.String(), Items: []domain.ItemRequest{{ProductID: f.product.ID.String()}}}, domain.ErrInvalidQty},
		{"negative rate", domain.CreateRequest{SupplierID: supplier.ID.String(), Items: []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1), Rate: &negative}}}, domain.ErrNegativeRate},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.Create(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	_, err := f.svc.Create(ctx, domain.CreateRequest{
		SupplierID: "123",
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	})
	assert.ErrorIs(t, err, errs.ErrNotFound)
}

func TestRenameStatusAndDelete(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "")
	ctx := context.Background()

	first, err := f.svc.Create(ctx, domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)
	second, err := f.svc.Create(ctx, domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = f.svc.Rename(ctx, second.ID.String(), first.PONumber)
	assert.ErrorIs(t, err, errs.ErrDuplicateDocumentNumber)

	renamed, err := f.svc.Rename(ctx, second.ID.String(), "PO/SPECIAL/1")
	require.NoError(t, err)
	assert.Equal(t, "PO/SPECIAL/1", renamed.PONumber)

	_, err = f.svc.UpdateStatus(ctx, second.ID.String(), "Shipped")
	assert.ErrorIs(t, err, domain.ErrInvalidStatus)

	sent, err := f.svc.UpdateStatus(ctx, second.ID.String(), "Sent")
	require.NoError(t, err)
	assert.Equal(t, domain.StatusSent, sent.Status)

	got, err := f.svc.Get(ctx, second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "PO/SPECIAL/1", got.PONumber)
	assert.Equal(t, domain.StatusSent, got.Status)

	listed, err := f.svc.List(ctx, domain.ListRequest{Status: "Sent"})
	require.NoError(t, err)
	require.Len(t, listed.PurchaseOrders, 1)
	assert.Equal(t, second.ID, listed.PurchaseOrders[0].ID)

	require.NoError(t, f.svc.Delete(ctx, first.ID.String()))
	_, err = f.svc.Get(ctx, first.ID.String())
	assert.ErrorIs(t, err, errs.ErrNotFound)
	assert.ErrorIs(t, f.svc.Delete(ctx, first.ID.String()), errs.ErrNotFound)
}

func TestRenderPDFDisabled(t *testing.T) {
	f := newFixture(t)
	supplier := f.supplier(t, "")

	po, err := f.svc.Create(context.Background(), domain.CreateRequest{
		SupplierID: supplier.ID.String(),
		Items:      []domain.ItemRequest{{ProductID: f.product.ID.String(), Qty: decimal.NewFromInt(1)}},
	})
	require.NoError(t, err)

	_, err = f.svc.RenderPDF(context.Background(), po.ID.String(), false)
	assert.ErrorIs(t, err, pdf.ErrRenderingDisabled)
}
