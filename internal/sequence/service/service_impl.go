package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/sequence/domain"
	"github.com/smallbiznis/gstbilling/internal/sequence/format"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type Params struct {
	fx.In

	Log     *zap.Logger
	Store   domain.Store
	Company *config.CompanyConfigHolder `optional:"true"`
}

type Service struct {
	log     *zap.Logger
	store   domain.Store
	company *config.CompanyConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		log:     p.Log.Named("sequence.service"),
		store:   p.Store,
		company: p.Company,
	}
}

// Next never retries: a failed increment may or may not have been applied,
// and only the store knows which.
func (s *Service) Next(ctx context.Context, counterID string) (int64, error) {
	counterID = strings.TrimSpace(counterID)
	if counterID == "" {
		return 0, domain.ErrInvalidCounterID
	}

	value, err := s.store.Increment(ctx, counterID)
	if err != nil {
		s.log.Error("sequence increment failed", zap.String("counter_id", counterID), zap.Error(err))
		return 0, errs.Storage("increment counter "+counterID, err)
	}
	if value <= 0 {
		return 0, errs.Storage("increment counter "+counterID, fmt.Errorf("store returned non-positive value %d", value))
	}

	s.log.Debug("sequence allocated", zap.String("counter_id", counterID), zap.Int64("value", value))
	return value, nil
}

// NextDocumentNumber reads the financial year from the calendar date of at
// in the business time zone, so 00:30 IST on 1 April opens the new year
// even though it is still 31 March in UTC.
func (s *Service) NextDocumentNumber(ctx context.Context, counterID, prefix string, at time.Time) (string, error) {
	company := config.DefaultCompanyConfig()
	if s.company != nil {
		company = s.company.Get()
	}
	template := company.NumberFormat
	if strings.TrimSpace(template) == "" {
		template = config.DefaultNumberFormat
	}
	at = at.In(company.Location())

	// Reject a bad prefix or template before a value is consumed.
	if _, err := format.FormatNumber(template, prefix, at, 1); err != nil {
		return "", err
	}

	value, err := s.Next(ctx, counterID)
	if err != nil {
		return "", err
	}
	return format.FormatNumber(template, prefix, at, value)
}

func (s *Service) Current(ctx context.Context, counterID string) (int64, error) {
	counterID = strings.TrimSpace(counterID)
	if counterID == "" {
		return 0, domain.ErrInvalidCounterID
	}

	value, err := s.store.Current(ctx, counterID)
	if err != nil {
		return 0, errs.Storage("read counter "+counterID, err)
	}
	return value, nil
}
