package seed

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"gorm.io/gorm"
)

const walkInCustomerName = "Walk-in Customer"

type demoProduct struct {
	code          string
	name          string
	hsn           string
	unit          string
	gstRate       int64
	purchasePrice int64
	sellingPrice  int64
	stock         int64
}

var demoProducts = []demoProduct{
	{"PMP-050", "Monoblock Pump 0.5HP", "8413", "Nos", 18, 3200, 4500, 12},
	{"PMP-100", "Monoblock Pump 1HP", "8413", "Nos", 18, 4100, 5800, 8},
	{"VLV-025", "Ball Valve 25mm", "8481", "Nos", 18, 180, 260, 60},
	{"PVC-032", "PVC Pipe 32mm (6m)", "3917", "Len", 12, 210, 290, 150},
}

// EnsureCounters creates the document counters at zero so the first
// allocation of each returns 1.
func EnsureCounters(ctx context.Context, db *gorm.DB) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, id := range []string{
			sequencedomain.CounterInvoice,
			sequencedomain.CounterQuotation,
			sequencedomain.CounterPurchaseOrder,
		} {
			if err := ensureCounterTx(ctx, tx, id); err != nil {
				return err
			}
		}
		return nil
	})
}

// EnsureDemoData seeds a walk-in customer, a supplier and a small pump and
// pipe catalogue into an empty database. Existing rows are left alone.
func EnsureDemoData(ctx context.Context, db *gorm.DB, node *snowflake.Node) error {
	if db == nil {
		return errors.New("seed database handle is required")
	}
	if node == nil {
		return errors.New("seed id generator is required")
	}

	return db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := ensureWalkInCustomerTx(ctx, tx, node); err != nil {
			return err
		}
		if err := ensureSupplierTx(ctx, tx, node); err != nil {
			return err
		}
		for _, p := range demoProducts {
			if err := ensureProductTx(ctx, tx, node, p); err != nil {
				return err
			}
		}
		return nil
	})
}

func ensureCounterTx(ctx context.Context, tx *gorm.DB, id string) error {
	var counter sequencedomain.Counter
	err := tx.WithContext(ctx).Where("id = ?", id).First(&counter).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	counter = sequencedomain.Counter{
		ID:        id,
		UpdatedAt: time.Now().UTC(),
	}
	return tx.WithContext(ctx).Create(&counter).Error
}

func ensureWalkInCustomerTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	var customer customerdomain.Customer
	err := tx.WithContext(ctx).Where("name = ?", walkInCustomerName).First(&customer).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	now := time.Now().UTC()
	customer = customerdomain.Customer{
		ID:        node.Generate(),
		Name:      walkInCustomerName,
		State:     "Tamil Nadu",
		Address:   "Counter sale",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&customer).Error
}

func ensureSupplierTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node) error {
	const gstin = "33AABCK1234M1Z5"

	var supplier supplierdomain.Supplier
	err := tx.WithContext(ctx).Where("gstin = ?", gstin).First(&supplier).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	now := time.Now().UTC()
	supplier = supplierdomain.Supplier{
		ID:        node.Generate(),
		Name:      "Kovai Pump Components",
		GSTIN:     gstin,
		Phone:     "9843000000",
		Address:   "SIDCO Industrial Estate, Coimbatore",
		State:     "Tamil Nadu",
		CreatedAt: now,
		UpdatedAt: now,
	}
	return tx.WithContext(ctx).Create(&supplier).Error
}

func ensureProductTx(ctx context.Context, tx *gorm.DB, node *snowflake.Node, p demoProduct) error {
	var product productdomain.Product
	err := tx.WithContext(ctx).Where("product_code = ?", p.code).First(&product).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}
	now := time.Now().UTC()
	product = productdomain.Product{
		ID:            node.Generate(),
		ProductCode:   p.code,
		Name:          p.name,
		HSN:           p.hsn,
		Unit:          p.unit,
		GSTRate:       decimal.NewFromInt(p.gstRate),
		PurchasePrice: decimal.NewFromInt(p.purchasePrice),
		SellingPrice:  decimal.NewFromInt(p.sellingPrice),
		StockQty:      decimal.NewFromInt(p.stock),
		ReorderLevel:  decimal.NewFromInt(5),
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	return tx.WithContext(ctx).Create(&product).Error
}
