package domain

import "time"

// Counter ids. Counters are global, not scoped per financial year.
const (
	CounterInvoice       = "invoiceNumber"
	CounterQuotation     = "quoteNumber"
	CounterPurchaseOrder = "poNumber"
)

// Counter is the persisted state of one sequence.
type Counter struct {
	ID           string    `gorm:"primaryKey;size:64" json:"id"`
	CurrentValue int64     `gorm:"not null;default:0" json:"current_value"`
	UpdatedAt    time.Time `gorm:"not null" json:"updated_at"`
}

func (Counter) TableName() string { return "sequence_counters" }
