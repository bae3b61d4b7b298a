package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/internal/dashboard/domain"
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

const (
	salesMonths    = 6
	recentInvoices = 5
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	Clock     clock.Clock
	Company   *config.CompanyConfigHolder
	Invoices  invoicedomain.Repository
	Customers customerdomain.Repository
	Products  productdomain.Repository
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	clock     clock.Clock
	company   *config.CompanyConfigHolder
	invoices  invoicedomain.Repository
	customers customerdomain.Repository
	products  productdomain.Repository
}

func NewService(p Params) domain.Service {
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("dashboard.service"),
		clock:     p.Clock,
		company:   p.Company,
		invoices:  p.Invoices,
		customers: p.Customers,
		products:  p.Products,
	}
}

func (s *Service) Stats(ctx context.Context) (domain.Stats, error) {
	var (
		stats domain.Stats
		err   error
	)

	if stats.TotalSales, err = s.invoices.SumPaid(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalInvoices, err = s.invoices.Count(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalCustomers, err = s.customers.Count(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}
	if stats.TotalProducts, err = s.products.Count(ctx, s.db); err != nil {
		return domain.Stats{}, err
	}

	threshold := decimal.NewFromInt(int64(s.company.Get().LowStockThreshold))
	if stats.LowStockCount, err = s.products.CountBelowStock(ctx, s.db, threshold); err != nil {
		return domain.Stats{}, err
	}

	months := monthBuckets(s.clock.Now(), salesMonths)
	invoices, err := s.invoices.ListSince(ctx, s.db, months[0].start)
	if err != nil {
		return domain.Stats{}, err
	}
	stats.MonthlySales = aggregateMonthly(months, invoices)

	recent, err := s.invoices.Recent(ctx, s.db, recentInvoices)
	if err != nil {
		return domain.Stats{}, err
	}
	stats.RecentInvoices = make([]domain.RecentInvoice, 0, len(recent))
	for _, invoice := range recent {
		stats.RecentInvoices = append(stats.RecentInvoices, domain.RecentInvoice{
			ID:            invoice.ID.String(),
			InvoiceNumber: invoice.InvoiceNumber,
			CustomerName:  invoice.Customer.Data().Name,
			Date:          invoice.Date,
			Total:         invoice.Total,
			Status:        string(invoice.Status),
		})
	}

	s.log.Debug("dashboard stats computed",
		zap.Int64("invoices", stats.TotalInvoices),
		zap.Int("invoices_in_window", len(invoices)),
	)
	return stats, nil
}

type monthBucket struct {
	start time.Time
	end   time.Time
}

// monthBuckets returns n consecutive calendar months ending with the month
// containing now, oldest first.
func monthBuckets(now time.Time, n int) []monthBucket {
	now = now.UTC()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	buckets := make([]monthBucket, n)
	for i := 0; i < n; i++ {
		start := current.AddDate(0, i-(n-1), 0)
		buckets[i] = monthBucket{start: start, end: start.AddDate(0, 1, 0)}
	}
	return buckets
}

func aggregateMonthly(buckets []monthBucket, invoices []invoicedomain.Invoice) []domain.MonthlySales {
	out := make([]domain.MonthlySales, len(buckets))
	for i, bucket := range buckets {
		out[i] = domain.MonthlySales{
			Month: bucket.start.Format("Jan"),
			Year:  bucket.start.Year(),
			Total: decimal.Zero,
		}
	}
	for _, invoice := range invoices {
		date := invoice.Date.UTC()
		for i, bucket := range buckets {
			if !date.Before(bucket.start) && date.Before(bucket.end) {
				out[i].Total = out[i].Total.Add(invoice.Total)
				break
			}
		}
	}
	return out
}
