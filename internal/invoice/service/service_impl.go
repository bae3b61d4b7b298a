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
	invoicedomain "github.com/smallbiznis/gstbilling/internal/invoice/domain"
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	quotationdomain "github.com/smallbiznis/gstbilling/internal/quotation/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	stockdomain "github.com/smallbiznis/gstbilling/internal/stock/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Conversion outcomes reported to metrics.
const (
	outcomeConverted        = "converted"
	outcomeResumed          = "resumed"
	outcomeAlreadyConverted = "already_converted"
	outcomeFailed           = "failed"
)

type Params struct {
	fx.In

	DB         *gorm.DB
	Log        *zap.Logger
	GenID      *snowflake.Node
	Clock      clock.Clock
	Company    *config.CompanyConfigHolder
	Repo       invoicedomain.Repository
	Quotations quotationdomain.Repository
	Builder    documentdomain.Builder
	Stock      stockdomain.Guard
	Sequence   sequencedomain.Service
	Audit      auditdomain.Service `optional:"true"`
	PDF        pdf.Provider        `optional:"true"`
	Metrics    *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db         *gorm.DB
	log        *zap.Logger
	genID      *snowflake.Node
	clock      clock.Clock
	company    *config.CompanyConfigHolder
	repo       invoicedomain.Repository
	quotations quotationdomain.Repository
	builder    documentdomain.Builder
	stock      stockdomain.Guard
	sequence   sequencedomain.Service
	auditSvc   auditdomain.Service
	pdf        pdf.Provider
	metrics    *metrics.Metrics
}

func NewService(p Params) invoicedomain.Service {
	renderer := p.PDF
	if renderer == nil {
		renderer = &pdf.NoOpProvider{}
	}
	return &Service{
		db:         p.DB,
		log:        p.Log.Named("invoice.service"),
		genID:      p.GenID,
		clock:      p.Clock,
		company:    p.Company,
		repo:       p.Repo,
		quotations: p.Quotations,
		builder:    p.Builder,
		stock:      p.Stock,
		sequence:   p.Sequence,
		auditSvc:   p.Audit,
		pdf:        renderer,
		metrics:    p.Metrics,
	}
}

// ConvertQuotation runs the conversion in this order: stock is decremented
// line by line, the invoice number is allocated, then the invoice is
// inserted and the quotation flipped to Converted in one transaction.
//
// The invoice keeps the quotation id in a unique column. A retry that finds
// an invoice for the quotation finishes the status flip and returns it
// without touching stock or counters. Stock decremented by an attempt that
// failed before the invoice was stored is not restored.
func (s *Service) ConvertQuotation(ctx context.Context, req invoicedomain.ConvertRequest) (invoicedomain.Invoice, error) {
	quotationID, err := snowflake.ParseString(strings.TrimSpace(req.QuotationID))
	if err != nil || quotationID == 0 {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidQuotationID
	}
	if req.PaidAmount.IsNegative() {
		return invoicedomain.Invoice{}, invoicedomain.ErrNegativePaid
	}

	log := logger.WithDocument(logger.WithContext(ctx, s.log), "quotation", quotationID.String())

	quotation, err := s.quotations.FindByID(ctx, s.db, quotationID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if quotation == nil {
		return invoicedomain.Invoice{}, quotationdomain.NotFound(req.QuotationID)
	}

	existing, err := s.repo.FindBySourceQuotation(ctx, s.db, quotationID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	if quotation.IsConverted() {
		s.metrics.RecordConversion(ctx, outcomeAlreadyConverted)
		convErr := &errs.AlreadyConvertedError{QuotationID: quotationID.String()}
		if existing != nil {
			convErr.InvoiceID = existing.ID.String()
		}
		return invoicedomain.Invoice{}, convErr
	}

	if existing != nil {
		// An earlier attempt stored the invoice but lost the status flip.
		if _, err := s.quotations.MarkConverted(ctx, s.db, quotationID); err != nil {
			return invoicedomain.Invoice{}, err
		}
		log.Warn("resumed interrupted conversion",
			zap.String("invoice_id", existing.ID.String()),
			zap.String("invoice_number", existing.InvoiceNumber),
		)
		s.metrics.RecordConversion(ctx, outcomeResumed)
		return *existing, nil
	}

	if err := s.decrementStock(ctx, log, quotation.Items); err != nil {
		s.metrics.RecordConversion(ctx, outcomeFailed)
		return invoicedomain.Invoice{}, err
	}

	now := s.clock.Now()
	number, err := s.sequence.NextDocumentNumber(ctx, sequencedomain.CounterInvoice, s.company.Get().Prefixes.Invoice, now)
	if err != nil {
		s.metrics.RecordConversion(ctx, outcomeFailed)
		return invoicedomain.Invoice{}, err
	}

	balance := quotation.Total.Sub(req.PaidAmount)
	invoice := invoicedomain.Invoice{
		ID:                s.genID.Generate(),
		InvoiceNumber:     number,
		SourceQuotationID: &quotation.ID,
		CustomerID:        quotation.CustomerID,
		Customer:          quotation.Customer,
		Date:              now,
		Items:             cloneItems(quotation.Items),
		ShipTo:            quotation.ShipTo,
		PaymentType:       strings.TrimSpace(req.PaymentType),
		PaidAmount:        req.PaidAmount,
		Balance:           balance,
		Status:            invoicedomain.StatusPending,
		Totals:            cloneTotals(quotation.Totals),
		CreatedAt:         now,
		UpdatedAt:         now,
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := s.repo.Insert(ctx, tx, &invoice); err != nil {
			return err
		}
		flipped, err := s.quotations.MarkConverted(ctx, tx, quotationID)
		if err != nil {
			return err
		}
		if !flipped {
			return quotationdomain.NotFound(req.QuotationID)
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, errs.ErrDuplicateDocumentNumber) {
			// A concurrent conversion of the same quotation won the insert.
			winner, findErr := s.repo.FindBySourceQuotation(ctx, s.db, quotationID)
			if findErr == nil && winner != nil {
				s.metrics.RecordConversion(ctx, outcomeAlreadyConverted)
				return invoicedomain.Invoice{}, &errs.AlreadyConvertedError{
					QuotationID: quotationID.String(),
					InvoiceID:   winner.ID.String(),
				}
			}
		}
		log.Error("conversion failed after stock decrement", zap.String("invoice_number", number), zap.Error(err))
		s.metrics.RecordConversion(ctx, outcomeFailed)
		return invoicedomain.Invoice{}, err
	}

	log.Info("quotation converted",
		zap.String("invoice_id", invoice.ID.String()),
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.String()),
	)
	s.metrics.RecordConversion(ctx, outcomeConverted)
	s.recordIssued(ctx, &invoice)
	s.emitAudit(ctx, auditdomain.ActionCreated, &invoice, map[string]any{
		"source_quotation_id": quotationID.String(),
	})
	s.emitQuotationConverted(ctx, quotation, &invoice)
	return invoice, nil
}

// Create issues an invoice directly. Stock is checked while pricing, then
// decremented like a conversion.
func (s *Service) Create(ctx context.Context, req invoicedomain.CreateRequest) (invoicedomain.Invoice, error) {
	if req.PaidAmount.IsNegative() {
		return invoicedomain.Invoice{}, invoicedomain.ErrNegativePaid
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}

	priced, err := s.builder.Price(ctx, documentdomain.PriceRequest{
		CustomerID:      req.CustomerID,
		Items:           req.Items,
		DiscountPercent: req.DiscountPercent,
	})
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	log := logger.WithContext(ctx, s.log)
	if err := s.decrementStock(ctx, log, priced.Items); err != nil {
		return invoicedomain.Invoice{}, err
	}

	number, err := s.sequence.NextDocumentNumber(ctx, sequencedomain.CounterInvoice, s.company.Get().Prefixes.Invoice, date)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	shipTo := priced.Customer.DefaultShipTo()
	if req.ShipTo != nil && !req.ShipTo.IsZero() {
		shipTo = *req.ShipTo
	}

	totals := taxdomain.TotalsFrom(priced.Breakdown)
	balance := totals.Total.Sub(req.PaidAmount)
	invoice := invoicedomain.Invoice{
		ID:            s.genID.Generate(),
		InvoiceNumber: number,
		CustomerID:    priced.Customer.ID,
		Customer:      datatypes.NewJSONType(priced.Customer.Party()),
		Date:          date,
		Items:         datatypes.JSONSlice[documentdomain.Item](priced.Items),
		ShipTo:        datatypes.NewJSONType(shipTo),
		PaymentType:   strings.TrimSpace(req.PaymentType),
		PaidAmount:    req.PaidAmount,
		Balance:       balance,
		Status:        invoicedomain.StatusPending,
		Totals:        totals,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Insert(ctx, s.db, &invoice); err != nil {
		log.Error("invoice insert failed after stock decrement", zap.String("invoice_number", number), zap.Error(err))
		return invoicedomain.Invoice{}, err
	}

	logger.WithDocument(log, "invoice", invoice.ID.String()).Info("invoice created",
		zap.String("invoice_number", invoice.InvoiceNumber),
		zap.String("total", invoice.Total.String()),
	)
	s.recordIssued(ctx, &invoice)
	s.emitAudit(ctx, auditdomain.ActionCreated, &invoice, nil)
	return invoice, nil
}

// decrementStock applies every line in order. Lines whose product no
// longer exists are skipped; any other failure stops the run.
func (s *Service) decrementStock(ctx context.Context, log *zap.Logger, items []documentdomain.Item) error {
	for _, item := range items {
		err := s.stock.Decrement(ctx, s.db, item.ProductID, item.Qty)
		if errors.Is(err, errs.ErrNotFound) {
			log.Warn("stock decrement skipped, product not found",
				zap.String("product_id", item.ProductID.String()),
				zap.String("product_name", item.Name),
				zap.String("qty", item.Qty.String()),
			)
			s.metrics.RecordStockSkip(ctx)
			continue
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func (s *Service) List(ctx context.Context, req invoicedomain.ListRequest) (invoicedomain.ListResponse, error) {
	var filter invoicedomain.ListFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := invoicedomain.ParseStatus(raw)
		if err != nil {
			return invoicedomain.ListResponse{}, err
		}
		filter.Status = status
	}
	if raw := strings.TrimSpace(req.CustomerID); raw != "" {
		customerID, err := snowflake.ParseString(raw)
		if err != nil || customerID == 0 {
			return invoicedomain.ListResponse{}, customerdomain.ErrInvalidID
		}
		filter.CustomerID = customerID.Int64()
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}.Normalize()
	pageSize := int32(page.PageSize)

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return invoicedomain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(item *invoicedomain.Invoice) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        item.ID.String(),
			CreatedAt: item.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	invoices := make([]invoicedomain.Invoice, 0, len(items))
	for _, item := range items {
		if item != nil {
			invoices = append(invoices, *item)
		}
	}

	resp := invoicedomain.ListResponse{Invoices: invoices}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (invoicedomain.Invoice, error) {
	invoiceID, err := parseID(id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	invoice, err := s.repo.FindByID(ctx, s.db, invoiceID)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice == nil {
		return invoicedomain.Invoice{}, invoicedomain.NotFound(id)
	}
	return *invoice, nil
}

func (s *Service) Rename(ctx context.Context, id, invoiceNumber string) (invoicedomain.Invoice, error) {
	invoiceNumber = strings.TrimSpace(invoiceNumber)
	if invoiceNumber == "" {
		return invoicedomain.Invoice{}, invoicedomain.ErrInvalidNumber
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if invoice.InvoiceNumber == invoiceNumber {
		return invoice, nil
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, invoiceNumber)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if existing != nil && existing.ID != invoice.ID {
		return invoicedomain.Invoice{}, invoicedomain.ErrDuplicateNumber(invoiceNumber)
	}

	updated, err := s.repo.UpdateNumber(ctx, s.db, invoice.ID, invoiceNumber)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !updated {
		return invoicedomain.Invoice{}, invoicedomain.NotFound(id)
	}

	previous := invoice.InvoiceNumber
	invoice.InvoiceNumber = invoiceNumber
	invoice.UpdatedAt = s.clock.Now()
	s.emitAudit(ctx, auditdomain.ActionRenamed, &invoice, map[string]any{
		"previous_number": previous,
	})
	return invoice, nil
}

// UpdateStatus allows any transition between the three states.
func (s *Service) UpdateStatus(ctx context.Context, id, status string) (invoicedomain.Invoice, error) {
	next, err := invoicedomain.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}

	updated, err := s.repo.UpdateStatus(ctx, s.db, invoice.ID, next)
	if err != nil {
		return invoicedomain.Invoice{}, err
	}
	if !updated {
		return invoicedomain.Invoice{}, invoicedomain.NotFound(id)
	}

	previous := invoice.Status
	invoice.Status = next
	invoice.UpdatedAt = s.clock.Now()
	s.emitAudit(ctx, auditdomain.ActionStatusChanged, &invoice, map[string]any{
		"previous_status": string(previous),
	})
	return invoice, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, invoice.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return invoicedomain.NotFound(id)
	}
	s.emitAudit(ctx, auditdomain.ActionDeleted, &invoice, nil)
	return nil
}

func (s *Service) RenderPDF(ctx context.Context, id string, includeSignature bool) (invoicedomain.PDF, error) {
	invoice, err := s.GetByID(ctx, id)
	if err != nil {
		return invoicedomain.PDF{}, err
	}

	content, err := s.pdf.RenderInvoice(ctx, invoice, s.company.Get(), includeSignature)
	if err != nil {
		if !errors.Is(err, pdf.ErrRenderingDisabled) {
			s.log.Error("invoice pdf failed", zap.String("invoice_id", id), zap.Error(err))
		}
		return invoicedomain.PDF{}, err
	}

	s.metrics.RecordPDFRendered(ctx, "invoice")
	return invoicedomain.PDF{
		Filename: pdf.Filename("Invoice", invoice.InvoiceNumber),
		Content:  content,
	}, nil
}

func (s *Service) recordIssued(ctx context.Context, invoice *invoicedomain.Invoice) {
	s.metrics.RecordDocumentCreated(ctx, "invoice")
	s.metrics.RecordInvoiceTotal(ctx, invoice.IntraState(), invoice.Total.InexactFloat64())
}

func (s *Service) emitAudit(ctx context.Context, action string, invoice *invoicedomain.Invoice, extra map[string]any) {
	if s.auditSvc == nil || invoice == nil {
		return
	}
	metadata := map[string]any{
		"customer_id": invoice.CustomerID.String(),
		"status":      string(invoice.Status),
		"total":       invoice.Total.String(),
		"balance":     invoice.Balance.String(),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentInvoice,
		DocumentID:     invoice.ID.String(),
		Action:         action,
		DocumentNumber: invoice.InvoiceNumber,
		Metadata:       metadata,
	})
}

func (s *Service) emitQuotationConverted(ctx context.Context, quotation *quotationdomain.Quotation, invoice *invoicedomain.Invoice) {
	if s.auditSvc == nil {
		return
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentQuotation,
		DocumentID:     quotation.ID.String(),
		Action:         auditdomain.ActionConverted,
		DocumentNumber: quotation.QuoteNumber,
		Metadata: map[string]any{
			"invoice_id":     invoice.ID.String(),
			"invoice_number": invoice.InvoiceNumber,
		},
	})
}

// cloneItems copies the quotation lines so the invoice owns its snapshot.
func cloneItems(items []documentdomain.Item) datatypes.JSONSlice[documentdomain.Item] {
	out := make([]documentdomain.Item, len(items))
	copy(out, items)
	return datatypes.JSONSlice[documentdomain.Item](out)
}

func cloneTotals(t taxdomain.Totals) taxdomain.Totals {
	slabs := make([]taxdomain.SlabTax, len(t.GSTBreakup.Slabs))
	copy(slabs, t.GSTBreakup.Slabs)
	t.GSTBreakup.Slabs = datatypes.JSONSlice[taxdomain.SlabTax](slabs)
	return t
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, invoicedomain.ErrInvalidID
	}
	return id, nil
}

