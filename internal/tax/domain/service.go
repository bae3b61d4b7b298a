package domain

import "github.com/shopspring/decimal"

type Service interface {
	// Compute builds the GST breakdown for items against the configured home
	// jurisdiction, using the buyer or supplier state.
	Compute(items []LineItem, discountPercent decimal.Decimal, counterpartyState string) (Breakdown, error)
	IsIntraState(counterpartyState string) bool
	HomeState() string
}
