package domain

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// MonthlySales is the invoiced total for one calendar month.
type MonthlySales struct {
	Month string          `json:"month"`
	Year  int             `json:"year"`
	Total decimal.Decimal `json:"total"`
}

type RecentInvoice struct {
	ID            string          `json:"id"`
	InvoiceNumber string          `json:"invoiceNumber"`
	CustomerName  string          `json:"customerName"`
	Date          time.Time       `json:"date"`
	Total         decimal.Decimal `json:"total"`
	Status        string          `json:"status"`
}

// Stats is the dashboard summary.
type Stats struct {
	TotalSales     decimal.Decimal `json:"totalSales"`
	TotalInvoices  int64           `json:"totalInvoices"`
	TotalCustomers int64           `json:"totalCustomers"`
	TotalProducts  int64           `json:"totalProducts"`
	LowStockCount  int64           `json:"lowStockCount"`
	MonthlySales   []MonthlySales  `json:"monthlySales"`
	RecentInvoices []RecentInvoice `json:"recentInvoices"`
}

type Service interface {
	Stats(ctx context.Context) (Stats, error)
}
