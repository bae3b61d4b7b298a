package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/quotation/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB       *gorm.DB
	Log      *zap.Logger
	GenID    *snowflake.Node
	Clock    clock.Clock
	Company  *config.CompanyConfigHolder
	Repo     domain.Repository
	Builder  documentdomain.Builder
	Sequence sequencedomain.Service
	Audit    auditdomain.Service `optional:"true"`
	PDF      pdf.Provider        `optional:"true"`
	Metrics  *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db       *gorm.DB
	log      *zap.Logger
	genID    *snowflake.Node
	clock    clock.Clock
	company  *config.CompanyConfigHolder
	repo     domain.Repository
	builder  documentdomain.Builder
	sequence sequencedomain.Service
	auditSvc auditdomain.Service
	pdf      pdf.Provider
	metrics  *metrics.Metrics
}

func New(p Params) domain.Service {
	renderer := p.PDF
	if renderer == nil {
		renderer = &pdf.NoOpProvider{}
	}
	return &Service{
		db:       p.DB,
		log:      p.Log.Named("quotation.service"),
		genID:    p.GenID,
		clock:    p.Clock,
		company:  p.Company,
		repo:     p.Repo,
		builder:  p.Builder,
		sequence: p.Sequence,
		auditSvc: p.Audit,
		pdf:      renderer,
		metrics:  p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Quotation, error) {
	now := s.clock.Now()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}
	if req.ExpiryDate != nil && req.ExpiryDate.Before(date) {
		return domain.Quotation{}, errs.Validation("expiryDate", "must not be before the quotation date")
	}

	priced, err := s.builder.Price(ctx, documentdomain.PriceRequest{
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		return domain.Quotation{}, err
	}

	// The number is allocated last so rejected requests do not consume one.
	number, err := s.sequence.NextDocumentNumber(ctx, sequencedomain.CounterQuotation, s.company.Get().Prefixes.Quotation, date)
	if err != nil {
		return domain.Quotation{}, err
	}

	shipTo := priced.Customer.DefaultShipTo()
	if req.ShipTo != nil && !req.ShipTo.IsZero() {
		shipTo = *req.ShipTo
	}

	quotation := domain.Quotation{
		ID:          s.genID.Generate(),
		QuoteNumber: number,
		CustomerID:  priced.Customer.ID,
		Customer:    datatypes.NewJSONType(priced.Customer.Party()),
		Date:        date,
		ExpiryDate:  req.ExpiryDate,
		Items:       datatypes.JSONSlice[documentdomain.Item](priced.Items),
		ShipTo:      datatypes.NewJSONType(shipTo),
		Status:      domain.StatusDraft,
		Totals:      taxdomain.TotalsFrom(priced.Breakdown),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Insert(ctx, s.db, &quotation); err != nil {
		return domain.Quotation{}, err
	}

	logger.WithDocument(logger.WithContext(ctx, s.log), "quotation", quotation.ID.String()).Info("quotation created",
		zap.String("quote_number", quotation.QuoteNumber),
		zap.String("total", quotation.Total.String()),
	)
	s.metrics.RecordDocumentCreated(ctx, "quotation")
	s.emitAudit(ctx, auditdomain.ActionCreated, &quotation, nil)
	return quotation, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	var filter domain.ListFilter
	switch status := domain.Status(strings.TrimSpace(req.Status)); status {
	case "":
	case domain.StatusDraft, domain.StatusConverted:
		filter.Status = status
	default:
		return domain.ListResponse{}, domain.ErrInvalidStatus
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil || customerID == 0 {
			return domain.ListResponse{}, customerdomain.ErrInvalidID
		}
		filter.CustomerID = customerID.Int64()
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}.Normalize()
	pageSize := int32(page.PageSize)

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(q *domain.Quotation) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        q.ID.String(),
			CreatedAt: q.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	quotations := make([]domain.Quotation, 0, len(items))
	for _, item := range items {
		if item != nil {
			quotations = append(quotations, *item)
		}
	}

	resp := domain.ListResponse{Quotations: quotations}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Quotation, error) {
	quotationID, err := parseID(id)
	if err != nil {
		return domain.Quotation{}, err
	}
	quotation, err := s.repo.FindByID(ctx, s.db, quotationID)
	if err != nil {
		return domain.Quotation{}, err
	}
	if quotation == nil {
		return domain.Quotation{}, domain.NotFound(id)
	}
	return *quotation, nil
}

func (s *Service) Rename(ctx context.Context, id, quoteNumber string) (domain.Quotation, error) {
	quoteNumber = strings.TrimSpace(quoteNumber)
	if quoteNumber == "" {
		return domain.Quotation{}, domain.ErrInvalidNumber
	}

	quotation, err := s.Get(ctx, id)
	if err != nil {
		return domain.Quotation{}, err
	}
	if quotation.QuoteNumber == quoteNumber {
		return quotation, nil
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, quoteNumber)
	if err != nil {
		return domain.Quotation{}, err
	}
	if existing != nil && existing.ID != quotation.ID {
		return domain.Quotation{}, domain.ErrDuplicateNumber(quoteNumber)
	}

	// The unique index still guards against a concurrent rename to the same number.
	updated, err := s.repo.UpdateNumber(ctx, s.db, quotation.ID, quoteNumber)
	if err != nil {
		return domain.Quotation{}, err
	}
	if !updated {
		return domain.Quotation{}, domain.NotFound(id)
	}

	previous := quotation.QuoteNumber
	quotation.QuoteNumber = quoteNumber
	quotation.UpdatedAt = s.clock.Now()
	s.emitAudit(ctx, auditdomain.ActionRenamed, &quotation, map[string]any{
		"previous_number": previous,
	})
	return quotation, nil
}

// Delete also removes converted quotations; their invoices keep their own
// snapshot and source reference.
func (s *Service) Delete(ctx context.Context, id string) error {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, quotation.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound(id)
	}
	s.emitAudit(ctx, auditdomain.ActionDeleted, &quotation, nil)
	return nil
}

func (s *Service) RenderPDF(ctx context.Context, id string, includeSignature bool) (domain.PDF, error) {
	quotation, err := s.Get(ctx, id)
	if err != nil {
		return domain.PDF{}, err
	}

	content, err := s.pdf.RenderQuotation(ctx, quotation, s.company.Get(), includeSignature)
	if err != nil {
		if !errors.Is(err, pdf.ErrRenderingDisabled) {
			s.log.Error("quotation pdf failed", zap.String("quotation_id", id), zap.Error(err))
		}
		return domain.PDF{}, err
	}

	s.metrics.RecordPDFRendered(ctx, "quotation")
	return domain.PDF{
		Filename: pdf.Filename("Quotation", quotation.QuoteNumber),
		Content:  content,
	}, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, quotation *domain.Quotation, extra map[string]any) {
	if s.auditSvc == nil || quotation == nil {
		return
	}
	metadata := map[string]any{
		"customer_id": quotation.CustomerID.String(),
		"status":      string(quotation.Status),
		"total":       quotation.Total.String(),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentQuotation,
		DocumentID:     quotation.ID.String(),
		Action:         action,
		DocumentNumber: quotation.QuoteNumber,
		Metadata:       metadata,
	})
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
