package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/clock"
	"github.com/smallbiznis/gstbilling/internal/config"
	customerdomain "github.com/smallbiznis/gstbilling/internal/customer/domain"
	documentdomain "github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/internal/providers/pdf"
	"github.com/smallbiznis/gstbilling/internal/purchaseorder/domain"
	sequencedomain "github.com/smallbiznis/gstbilling/internal/sequence/domain"
	supplierdomain "github.com/smallbiznis/gstbilling/internal/supplier/domain"
	taxdomain "github.com/smallbiznis/gstbilling/internal/tax/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB        *gorm.DB
	Log       *zap.Logger
	GenID     *snowflake.Node
	Clock     clock.Clock
	Company   *config.CompanyConfigHolder
	Repo      domain.Repository
	Suppliers supplierdomain.Service
	Products  productdomain.Repository
	Tax       taxdomain.Service
	Sequence  sequencedomain.Service
	Audit     auditdomain.Service `optional:"true"`
	PDF       pdf.Provider        `optional:"true"`
	Metrics   *metrics.Metrics    `optional:"true"`
}

type Service struct {
	db        *gorm.DB
	log       *zap.Logger
	genID     *snowflake.Node
	clock     clock.Clock
	company   *config.CompanyConfigHolder
	repo      domain.Repository
	suppliers supplierdomain.Service
	products  productdomain.Repository
	tax       taxdomain.Service
	sequence  sequencedomain.Service
	auditSvc  auditdomain.Service
	pdf       pdf.Provider
	metrics   *metrics.Metrics
}

func New(p Params) domain.Service {
	renderer := p.PDF
	if renderer == nil {
		renderer = &pdf.NoOpProvider{}
	}
	return &Service{
		db:        p.DB,
		log:       p.Log.Named("purchaseorder.service"),
		genID:     p.GenID,
		clock:     p.Clock,
		company:   p.Company,
		repo:      p.Repo,
		suppliers: p.Suppliers,
		products:  p.Products,
		tax:       p.Tax,
		sequence:  p.Sequence,
		auditSvc:  p.Audit,
		pdf:       renderer,
		metrics:   p.Metrics,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.PurchaseOrder, error) {
	if strings.TrimSpace(req.SupplierID) == "" {
		return domain.PurchaseOrder{}, domain.ErrSupplierRequired
	}
	if len(req.Items) == 0 {
		return domain.PurchaseOrder{}, domain.ErrNoItems
	}

	now := s.clock.Now()
	date := now
	if req.Date != nil && !req.Date.IsZero() {
		date = req.Date.UTC()
	}
	if req.ExpectedDeliveryDate != nil && req.ExpectedDeliveryDate.Before(date) {
		return domain.PurchaseOrder{}, domain.ErrInvalidDeliveryAt
	}

	supplier, err := s.suppliers.Get(ctx, req.SupplierID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	company := s.company.Get()
	items, err := s.buildItems(ctx, req.Items, decimal.NewFromFloat(company.PurchaseOrderGSTRate))
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	// Orders are intra-state unless the supplier is known to be elsewhere.
	state := supplier.State
	if strings.TrimSpace(state) == "" {
		state = s.tax.HomeState()
	}
	breakdown, err := s.tax.Compute(documentdomain.TaxLines(items), decimal.Zero, state)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	number := strings.TrimSpace(req.PONumber)
	if number != "" {
		existing, err := s.repo.FindByNumber(ctx, s.db, number)
		if err != nil {
			return domain.PurchaseOrder{}, err
		}
		if existing != nil {
			return domain.PurchaseOrder{}, domain.ErrDuplicateNumber(number)
		}
	} else {
		number, err = s.sequence.NextDocumentNumber(ctx, sequencedomain.CounterPurchaseOrder, company.Prefixes.PurchaseOrder, date)
		if err != nil {
			return domain.PurchaseOrder{}, err
		}
	}

	po := domain.PurchaseOrder{
		ID:                   s.genID.Generate(),
		PONumber:             number,
		SupplierID:           supplier.ID,
		Supplier:             datatypes.NewJSONType(supplierParty(supplier)),
		Date:                 date,
		ExpectedDeliveryDate: req.ExpectedDeliveryDate,
		Items:                datatypes.JSONSlice[documentdomain.Item](items),
		Status:               domain.StatusDraft,
		Remarks:              strings.TrimSpace(req.Remarks),
		Totals:               taxdomain.TotalsFrom(breakdown),
		CreatedAt:            now,
		UpdatedAt:            now,
	}
	if err := s.repo.Insert(ctx, s.db, &po); err != nil {
		return domain.PurchaseOrder{}, err
	}

	logger.WithDocument(logger.WithContext(ctx, s.log), "purchase_order", po.ID.String()).Info("purchase order created",
		zap.String("po_number", po.PONumber),
		zap.String("supplier_id", supplier.ID.String()),
	)
	s.metrics.RecordDocumentCreated(ctx, "purchase_order")
	s.emitAudit(ctx, auditdomain.ActionCreated, &po, nil)
	return po, nil
}

// buildItems prices order lines at the requested rate, falling back to the
// product's purchase price and the configured GST rate.
func (s *Service) buildItems(ctx context.Context, reqs []domain.ItemRequest, defaultGST decimal.Decimal) ([]documentdomain.Item, error) {
	ids := make([]snowflake.ID, 0, len(reqs))
	for _, item := range reqs {
		id, err := snowflake.ParseString(strings.TrimSpace(item.ProductID))
		if err != nil || id == 0 {
			return nil, domain.ErrInvalidProductID
		}
		if !item.Qty.IsPositive() {
			return nil, domain.ErrInvalidQty
		}
		ids = append(ids, id)
	}

	products, err := s.products.FindByIDs(ctx, s.db, ids)
	if err != nil {
		return nil, err
	}

	items := make([]documentdomain.Item, 0, len(reqs))
	for i, req := range reqs {
		product, ok := products[ids[i]]
		if !ok || product == nil {
			return nil, productdomain.NotFound(ids[i].String())
		}

		rate := product.PurchasePrice
		if req.Rate != nil {
			rate = *req.Rate
		}
		if rate.IsNegative() {
			return nil, domain.ErrNegativeRate
		}
		gstRate := defaultGST
		if req.GSTRate != nil {
			gstRate = *req.GSTRate
		}
		if gstRate.IsNegative() {
			return nil, domain.ErrNegativeGSTRate
		}
		unit := strings.TrimSpace(req.Unit)
		if unit == "" {
			unit = product.Unit
		}

		items = append(items, documentdomain.Item{
			ProductID:   product.ID,
			ProductCode: product.ProductCode,
			Name:        product.Name,
			ModelNo:     strings.TrimSpace(req.ModelNo),
			HSN:         product.HSN,
			Unit:        unit,
			Qty:         req.Qty,
			Rate:        rate,
			GSTRate:     gstRate,
			Amount:      req.Qty.Mul(rate),
		})
	}
	return items, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	var filter domain.ListFilter
	if raw := strings.TrimSpace(req.Status); raw != "" {
		status, err := domain.ParseStatus(raw)
		if err != nil {
			return domain.ListResponse{}, err
		}
		filter.Status = status
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}.Normalize()
	pageSize := int32(page.PageSize)

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(po *domain.PurchaseOrder) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        po.ID.String(),
			CreatedAt: po.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	orders := make([]domain.PurchaseOrder, 0, len(items))
	for _, item := range items {
		if item != nil {
			orders = append(orders, *item)
		}
	}

	resp := domain.ListResponse{PurchaseOrders: orders}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.PurchaseOrder, error) {
	poID, err := parseID(id)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	po, err := s.repo.FindByID(ctx, s.db, poID)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if po == nil {
		return domain.PurchaseOrder{}, domain.NotFound(id)
	}
	return *po, nil
}

func (s *Service) Rename(ctx context.Context, id, poNumber string) (domain.PurchaseOrder, error) {
	poNumber = strings.TrimSpace(poNumber)
	if poNumber == "" {
		return domain.PurchaseOrder{}, domain.ErrInvalidNumber
	}

	po, err := s.Get(ctx, id)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if po.PONumber == poNumber {
		return po, nil
	}

	existing, err := s.repo.FindByNumber(ctx, s.db, poNumber)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if existing != nil && existing.ID != po.ID {
		return domain.PurchaseOrder{}, domain.ErrDuplicateNumber(poNumber)
	}

	updated, err := s.repo.UpdateNumber(ctx, s.db, po.ID, poNumber)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if !updated {
		return domain.PurchaseOrder{}, domain.NotFound(id)
	}

	previous := po.PONumber
	po.PONumber = poNumber
	po.UpdatedAt = s.clock.Now()
	s.emitAudit(ctx, auditdomain.ActionRenamed, &po, map[string]any{"previous_number": previous})
	return po, nil
}

func (s *Service) UpdateStatus(ctx context.Context, id, status string) (domain.PurchaseOrder, error) {
	next, err := domain.ParseStatus(strings.TrimSpace(status))
	if err != nil {
		return domain.PurchaseOrder{}, err
	}

	po, err := s.Get(ctx, id)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	updated, err := s.repo.UpdateStatus(ctx, s.db, po.ID, next)
	if err != nil {
		return domain.PurchaseOrder{}, err
	}
	if !updated {
		return domain.PurchaseOrder{}, domain.NotFound(id)
	}

	previous := po.Status
	po.Status = next
	po.UpdatedAt = s.clock.Now()
	s.emitAudit(ctx, auditdomain.ActionStatusChanged, &po, map[string]any{"previous_status": string(previous)})
	return po, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	po, err := s.Get(ctx, id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, po.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound(id)
	}
	s.emitAudit(ctx, auditdomain.ActionDeleted, &po, nil)
	return nil
}

func (s *Service) RenderPDF(ctx context.Context, id string, includeSignature bool) (domain.PDF, error) {
	po, err := s.Get(ctx, id)
	if err != nil {
		return domain.PDF{}, err
	}

	content, err := s.pdf.RenderPurchaseOrder(ctx, po, s.company.Get(), includeSignature)
	if err != nil {
		if !errors.Is(err, pdf.ErrRenderingDisabled) {
			s.log.Error("purchase order pdf failed", zap.String("purchase_order_id", id), zap.Error(err))
		}
		return domain.PDF{}, err
	}

	s.metrics.RecordPDFRendered(ctx, "purchase_order")
	return domain.PDF{
		Filename: pdf.Filename("PO", po.PONumber),
		Content:  content,
	}, nil
}

func (s *Service) emitAudit(ctx context.Context, action string, po *domain.PurchaseOrder, extra map[string]any) {
	if s.auditSvc == nil || po == nil {
		return
	}
	metadata := map[string]any{
		"supplier_id": po.SupplierID.String(),
		"status":      string(po.Status),
		"total":       po.Total.String(),
	}
	for key, value := range extra {
		metadata[key] = value
	}
	_ = s.auditSvc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentPurchaseOrder,
		DocumentID:     po.ID.String(),
		Action:         action,
		DocumentNumber: po.PONumber,
		Metadata:       metadata,
	})
}

func supplierParty(supplier supplierdomain.Supplier) customerdomain.Party {
	return customerdomain.Party{
		ID:        supplier.ID,
		Name:      supplier.Name,
		Address:   supplier.Address,
		State:     supplier.State,
		Phone:     supplier.Phone,
		Email:     supplier.Email,
		GSTNumber: supplier.GSTIN,
	}
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}

