// Package documenttest wires the collaborators of the document services
// against a throwaway SQLite database.
package documenttest

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
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	customerrepo "github.com/smallbiznis/gstbilling/internal/customer/repository"
	"github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/internal/document/service"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	productrepo "github.com/smallbiznis/gstbilling/internal/product/repository"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	sequencerepo "github.com/smallbiznis/gstbilling/internal/sequence/repository"
	sequenceservice "github.com/smallbiznis/gstbilling/internal/sequence/service"
	stockdomain "github.com/smallbiznis/gstbilling/internal/stock/domain"
	stockservice "github.com/smallbiznis/gstbilling/internal/stock/service"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	taxservice "github.com/smallbiznis/gstbilling/internal/tax/service"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Now is the fixture clock's starting time, inside financial year 25-26.
var Now = time.Date(2025, time.June, 10, 9, 30, 0, 0, time.UTC)

type Env struct {
	DB        *gorm.DB
	Log       *zap.Logger
	Node      *snowflake.Node
	Clock     *clock.FakeClock
	Company   *config.CompanyConfigHolder
	Customers customerdomain.Repository
	Products  productdomain.Repository
	Stock     stockdomain.Guard
	Tax       taxdomain.Service
	Builder   domain.Builder
	Sequence  sequencedomain.Service
	Counters  sequencedomain.Store
	Audit     auditdomain.Service

	// Local is billed in the home state, Remote in Kerala.
	Local  customerdomain.Customer
	Remote customerdomain.Customer
	// Pump sells at 5000 with 18% GST and 10 in stock; Pipe at 250 with 12%
	// GST and 100 in stock.
	Pump productdomain.Product
	Pipe productdomain.Product
}

// New opens a database migrated for the shared models plus extra, and seeds
// two customers and two products.
func New(t *testing.T, extra ...any) *Env {
	t.Helper()

	models := append([]any{
		&customerdomain.Customer{},
		&productdomain.Product{},
		&sequencedomain.Counter{},
		&auditdomain.Event{},
	}, extra...)
	conn := dbtest.Open(t, models...)

	node, err := snowflake.NewNode(1)
	if err != nil {
		t.Fatalf("snowflake node: %v", err)
	}

	log := zap.NewNop()
	clk := clock.NewFakeClock(Now)
	company := config.NewStaticCompanyConfigHolder(config.DefaultCompanyConfig())
	customers := customerrepo.Provide()
	products := productrepo.Provide()
	counters := sequencerepo.NewSQLStore(conn)
	stock := stockservice.New(stockservice.Params{DB: conn, Log: log, Products: products})
	tax := taxservice.NewService(taxservice.Params{Company: company})

	env := &Env{
		DB:        conn,
		Log:       log,
		Node:      node,
		Clock:     clk,
		Company:   company,
		Customers: customers,
		Products:  products,
		Stock:     stock,
		Tax:       tax,
		Builder: service.New(service.Params{
			DB:        conn,
			Log:       log,
			Customers: customers,
			Products:  products,
			Stock:     stock,
			Tax:       tax,
		}),
		Sequence: sequenceservice.New(sequenceservice.Params{Log: log, Store: counters, Company: company}),
		Counters: counters,
		Audit: auditservice.NewService(auditservice.Params{
			DB:    conn,
			Log:   log,
			Clock: clk,
			Repo:  auditrepo.Provide(),
		}),
	}

	env.Local = env.customer(t, "Sri Murugan Traders", "Tamil Nadu")
	env.Remote = env.customer(t, "Malabar Agencies", "Kerala")
	env.Pump = env.product(t, "PMP-1", "Monoblock Pump 1HP", "8413", 5000, 18, 10)
	env.Pipe = env.product(t, "PVC-32", "PVC Pipe 32mm", "3917", 250, 12, 100)
	return env
}

func (e *Env) customer(t *testing.T, name, state string) customerdomain.Customer {
	t.Helper()
	c := customerdomain.Customer{
		ID:        e.Node.Generate(),
		Name:      name,
		Phone:     "9843012345",
		State:     state,
		Address:   "1 Main Road",
		CreatedAt: Now,
		UpdatedAt: Now,
	}
	if err := e.Customers.Insert(context.Background(), e.DB, &c); err != nil {
		t.Fatalf("seed customer: %v", err)
	}
	return c
}

func (e *Env) product(t *testing.T, code, name, hsn string, price, gst, stock int64) productdomain.Product {
	t.Helper()
	p := productdomain.Product{
		ID:            e.Node.Generate(),
		ProductCode:   code,
		Name:          name,
		HSN:           hsn,
		Unit:          "Nos",
		GSTRate:       decimal.NewFromInt(gst),
		PurchasePrice: decimal.NewFromInt(price * 7 / 10),
		SellingPrice:  decimal.NewFromInt(price),
		StockQty:      decimal.NewFromInt(stock),
		CreatedAt:     Now,
		UpdatedAt:     Now,
	}
	if err := e.Products.Create(context.Background(), e.DB, &p); err != nil {
		t.Fatalf("seed product: %v", err)
	}
	return p
}

// StockOf reads the current stock of a product.
func (e *Env) StockOf(t *testing.T, id snowflake.ID) decimal.Decimal {
	t.Helper()
	p, err := e.Products.FindByID(context.Background(), e.DB, id)
	if err != nil || p == nil {
		t.Fatalf("find product %s: %v", id, err)
	}
	return p.StockQty
}

// Counter reads the current value of a sequence counter.
func (e *Env) Counter(t *testing.T, id string) int64 {
	t.Helper()
	value, err := e.Counters.Current(context.Background(), id)
	if err != nil {
		t.Fatalf("read counter %s: %v", id, err)
	}
	return value
}

// Item is a request line for qty units of product.
func Item(product productdomain.Product, qty int64) domain.ItemRequest {
	return domain.ItemRequest{ProductID: product.ID.String(), Qty: decimal.NewFromInt(qty)}
}
