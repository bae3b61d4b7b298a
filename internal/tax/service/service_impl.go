package service

import (
	"strings"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/config"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"go.uber.org/fx"
)

type Params struct {
	fx.In

	Company *config.CompanyConfigHolder
}

type Service struct {
	company *config.CompanyConfigHolder
}

func NewService(p Params) taxdomain.Service {
	return &Service{company: p.Company}
}

func (s *Service) Compute(items []taxdomain.LineItem, discountPercent decimal.Decimal, counterpartyState string) (taxdomain.Breakdown, error) {
	return Compute(items, discountPercent, s.IsIntraState(counterpartyState))
}

func (s *Service) IsIntraState(counterpartyState string) bool {
	return IsIntraState(counterpartyState, s.HomeState())
}

func (s *Service) HomeState() string {
	if s.company == nil {
		return DefaultHomeState
	}
	home := strings.TrimSpace(s.company.Get().HomeState)
	if home == "" {
		return DefaultHomeState
	}
	return home
}
