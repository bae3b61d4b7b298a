package service

import (
	"context"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/document/domain"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	stockdomain "github.com/smallbiznis/gstbilling/internal/stock/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Customers customerdomain.Repository
	Products  productdomain.Repository
	Stock     stockdomain.Guard
	Tax       taxdomain.Service
}

type Builder struct {
	db        *gorm.DB
	log       *zap.Logger
	customers customerdomain.Repository
	products  productdomain.Repository
	stock     stockdomain.Guard
	tax       taxdomain.Service
}

func New(p Params) domain.Builder {
	return &Builder{
		db:        p.DB,
		log:       p.Log.Named("document.builder"),
		customers: p.Customers,
		products:  p.Products,
		stock:     p.Stock,
		tax:       p.Tax,
	}
}

func (b *Builder) Price(ctx context.Context, req domain.PriceRequest) (domain.Priced, error) {
	customerID, err := snowflake.ParseString(strings.TrimSpace(req.CustomerID))
	if err != nil || customerID == 0 {
		return domain.Priced{}, domain.ErrInvalidCustomerID
	}
	if len(req.Items) == 0 {
		return domain.Priced{}, domain.ErrNoItems
	}

	customer, err := b.customers.FindByID(ctx, b.db, customerID)
	if err != nil {
		return domain.Priced{}, err
	}
	if customer == nil {
		return domain.Priced{}, customerdomain.NotFound(req.CustomerID)
	}

	ids := make([]snowflake.ID, 0, len(req.Items))
	for _, item := range req.Items {
		id, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || id == 0 {
			return domain.Priced{}, domain.ErrInvalidProductID
		}
		if !item.Qty.IsPositive() {
			return domain.Priced{}, domain.ErrInvalidQty
		}
		ids = append(ids, id)
	}

	products, err := b.products.FindByIDs(ctx, b.db, ids)
	if err != nil {
		return domain.Priced{}, err
	}

	items := make([]domain.Item, 0, len(req.Items))
	requested := make(map[snowflake.ID]decimal.Decimal, len(ids))
	order := make([]snowflake.ID, 0, len(ids))
	for i, id := range ids {
		product, ok := products[id]
		if !ok || product == nil {
			return domain.Priced{}, productdomain.NotFound(id.String())
		}
		qty := req.Items[i].Qty
		items = append(items, domain.Item{
			ProductID:   product.ID,
			ProductCode: product.ProductCode,
			Name:        product.Name,
			HSN:         product.HSN,
			Unit:        product.Unit,
			Qty:         qty,
			Rate:        product.SellingPrice,
			GSTRate:     product.GSTRate,
			Amount:      qty.Mul(product.SellingPrice),
		})
		if _, seen := requested[id]; !seen {
			order = append(order, id)
		}
		requested[id] = requested[id].Add(qty)
	}

	// Lines naming the same product are checked against its combined quantity.
	for _, id := range order {
		if err := b.stock.Reserve(ctx, id, requested[id]); err != nil {
			return domain.Priced{}, err
		}
	}

	breakdown, err := b.tax.Compute(domain.TaxLines(items), req.DiscountPercent, customer.State)
	if err != nil {
		return domain.Priced{}, err
	}

	b.log.Debug("document priced",
		zap.String("customer_id", customer.ID.String()),
		zap.Int("items", len(items)),
		zap.Bool("intra_state", breakdown.IntraState),
		zap.String("total", breakdown.GrandTotal.String()),
	)

	return domain.Priced{
		Customer:  *customer,
		Items:     items,
		Breakdown: breakdown,
	}, nil
}
