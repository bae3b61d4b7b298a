package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/product/domain"
	"github.com/smallbiznis/gstbilling/pkg/db"
	"github.com/smallbiznis/gstbilling/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB      *gorm.DB
	Log     *zap.Logger
	GenID   *snowflake.Node
	Repo    domain.Repository
	Company *config.CompanyConfigHolder `optional:"true"`
}

type Service struct {
	db      *gorm.DB
	log     *zap.Logger
	repo    domain.Repository
	genID   *snowflake.Node
	company *config.CompanyConfigHolder
}

func New(p Params) domain.Service {
	return &Service{
		db:      p.DB,
		log:     p.Log.Named("product.service"),
		repo:    p.Repo,
		genID:   p.GenID,
		company: p.Company,
	}
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) ([]domain.Product, error) {
	filter := domain.ListRequest{
		Name:    strings.ToLower(strings.TrimSpace(req.Name)),
		Status:  strings.TrimSpace(req.Status),
		SortBy:  strings.TrimSpace(req.SortBy),
		OrderBy: strings.TrimSpace(req.OrderBy),
	}
	return s.repo.List(ctx, s.db, filter)
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (*domain.Product, error) {
	req.ProductCode = strings.TrimSpace(req.ProductCode)
	req.Name = strings.TrimSpace(req.Name)
	req.Status = strings.TrimSpace(req.Status)
	if err := validation.Struct(req); err != nil {
		return nil, err
	}
	if err := checkAmounts(req.GSTRate, req.PurchasePrice, req.SellingPrice); err != nil {
		return nil, err
	}

	existing, err := s.repo.FindByCode(ctx, s.db, req.ProductCode)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, domain.ErrDuplicateProductCode(req.ProductCode)
	}

	now := time.Now().UTC()
	p := &domain.Product{
		ID:            s.genID.Generate(),
		ProductCode:   req.ProductCode,
		Name:          req.Name,
		HSN:           strings.TrimSpace(req.HSN),
		Unit:          strings.TrimSpace(req.Unit),
		GSTRate:       req.GSTRate,
		PurchasePrice: req.PurchasePrice,
		SellingPrice:  req.SellingPrice,
		StockQty:      req.StockQty,
		ReorderLevel:  req.ReorderLevel,
		Status:        req.Status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if req.Metadata != nil {
		p.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := s.repo.Create(ctx, s.db, p); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateProductCode(req.ProductCode)
		}
		return nil, err
	}
	return p, nil
}

func (s *Service) Get(ctx context.Context, id string) (*domain.Product, error) {
	productID, err := parseID(id)
	if err != nil {
		return nil, err
	}

	item, err := s.repo.FindByID(ctx, s.db, productID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, domain.NotFound(id)
	}
	return item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (*domain.Product, error) {
	item, err := s.Get(ctx, req.ID)
	if err != nil {
		return nil, err
	}

	if req.ProductCode != nil {
		code := strings.TrimSpace(*req.ProductCode)
		if code == "" {
			return nil, domain.ErrInvalidCode
		}
		if code != item.ProductCode {
			other, err := s.repo.FindByCode(ctx, s.db, code)
			if err != nil {
				return nil, err
			}
			if other != nil && other.ID != item.ID {
				return nil, domain.ErrDuplicateProductCode(code)
			}
		}
		item.ProductCode = code
	}
	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, domain.ErrInvalidName
		}
		item.Name = name
	}
	if req.HSN != nil {
		item.HSN = strings.TrimSpace(*req.HSN)
	}
	if req.Unit != nil {
		item.Unit = strings.TrimSpace(*req.Unit)
	}
	if req.GSTRate != nil {
		item.GSTRate = *req.GSTRate
	}
	if req.PurchasePrice != nil {
		item.PurchasePrice = *req.PurchasePrice
	}
	if req.SellingPrice != nil {
		item.SellingPrice = *req.SellingPrice
	}
	if req.StockQty != nil {
		item.StockQty = *req.StockQty
	}
	if req.ReorderLevel != nil {
		item.ReorderLevel = *req.ReorderLevel
	}
	if req.Status != nil {
		item.Status = strings.TrimSpace(*req.Status)
	}
	if req.Metadata != nil {
		item.Metadata = datatypes.JSONMap(req.Metadata)
	}
	if err := checkAmounts(item.GSTRate, item.PurchasePrice, item.SellingPrice); err != nil {
		return nil, err
	}

	item.UpdatedAt = time.Now().UTC()
	if err := s.repo.Update(ctx, s.db, item); err != nil {
		if db.IsDuplicateKeyErr(err) {
			return nil, domain.ErrDuplicateProductCode(item.ProductCode)
		}
		return nil, err
	}
	return item, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	productID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, productID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound(id)
	}
	s.log.Info("product deleted", zap.String("product_id", id))
	return nil
}

func (s *Service) LowStock(ctx context.Context) ([]domain.Product, error) {
	return s.repo.ListBelowStock(ctx, s.db, s.lowStockThreshold())
}

func (s *Service) CountLowStock(ctx context.Context) (int64, error) {
	return s.repo.CountBelowStock(ctx, s.db, s.lowStockThreshold())
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.db)
}

func (s *Service) lowStockThreshold() decimal.Decimal {
	threshold := config.DefaultCompanyConfig().LowStockThreshold
	if s.company != nil {
		threshold = s.company.Get().LowStockThreshold
	}
	return decimal.NewFromInt(int64(threshold))
}

func checkAmounts(gstRate, purchase, selling decimal.Decimal) error {
	if gstRate.IsNegative() {
		return domain.ErrNegativeRate
	}
	if purchase.IsNegative() || selling.IsNegative() {
		return domain.ErrNegativePrice
	}
	return nil
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
