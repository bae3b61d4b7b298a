package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/option"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/repository"
	"github.com/smallbiznis/gstbilling/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log          *zap.Logger
	genID        *snowflake.Node
	supplierrepo repository.Repository[domain.Supplier]
}

func New(p Params) domain.Service {
	return &Service{
		log:          p.Log.Named("supplier.service"),
		genID:        p.GenID,
		supplierrepo: repository.ProvideStore[domain.Supplier](p.DB),
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateRequest) (domain.Supplier, error) {
	req = normalize(req)
	if err := validation.Struct(req); err != nil {
		return domain.Supplier{}, err
	}

	now := time.Now().UTC()
	supplier := domain.Supplier{
		ID:        s.genID.Generate(),
		Name:      req.Name,
		GSTIN:     req.GSTIN,
		Phone:     req.Phone,
		Email:     req.Email,
		Address:   req.Address,
		State:     req.State,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supplierrepo.Create(ctx, &supplier); err != nil {
		return domain.Supplier{}, err
	}
	return supplier, nil
}

func (s *Service) List(ctx context.Context, req domain.ListRequest) (domain.ListResponse, error) {
	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}.Normalize()
	pageSize := int32(page.PageSize)

	opts := []option.QueryOption{
		option.ApplyPagination(page),
		option.WithSortBy(option.QuerySortBy{Allow: map[string]bool{"created_at": true}}),
	}
	if name := strings.ToLower(strings.TrimSpace(req.Name)); name != "" {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "LOWER(name)",
			Operator: option.LIKE,
			Value:    "%" + name + "%",
		}))
	}

	items, err := s.supplierrepo.Find(ctx, nil, opts...)
	if err != nil {
		return domain.ListResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(supplier *domain.Supplier) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        supplier.ID.String(),
			CreatedAt: supplier.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	suppliers := make([]domain.Supplier, 0, len(items))
	for _, item := range items {
		if item != nil {
			suppliers = append(suppliers, *item)
		}
	}

	resp := domain.ListResponse{Suppliers: suppliers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}
	return resp, nil
}

func (s *Service) Get(ctx context.Context, id string) (domain.Supplier, error) {
	supplierID, err := parseID(id)
	if err != nil {
		return domain.Supplier{}, err
	}
	item, err := s.supplierrepo.FindOne(ctx, &domain.Supplier{ID: supplierID})
	if err != nil {
		return domain.Supplier{}, err
	}
	if item == nil {
		return domain.Supplier{}, domain.NotFound(id)
	}
	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateRequest) (domain.Supplier, error) {
	existing, err := s.Get(ctx, req.ID)
	if err != nil {
		return domain.Supplier{}, err
	}

	in := normalize(req.CreateRequest)
	if err := validation.Struct(in); err != nil {
		return domain.Supplier{}, err
	}

	existing.Name = in.Name
	existing.GSTIN = in.GSTIN
	existing.Phone = in.Phone
	existing.Email = in.Email
	existing.Address = in.Address
	existing.State = in.State
	existing.UpdatedAt = time.Now().UTC()

	err = s.supplierrepo.Update(ctx, existing.ID.String(), map[string]any{
		"name":       existing.Name,
		"gstin":      existing.GSTIN,
		"phone":      existing.Phone,
		"email":      existing.Email,
		"address":    existing.Address,
		"state":      existing.State,
		"updated_at": existing.UpdatedAt,
	})
	if err != nil {
		return domain.Supplier{}, err
	}
	return existing, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	supplierID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.supplierrepo.Delete(ctx, supplierID.String())
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound(id)
	}
	s.log.Info("supplier deleted", zap.String("supplier_id", id))
	return nil
}

func normalize(req domain.CreateRequest) domain.CreateRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.GSTIN = strings.ToUpper(strings.TrimSpace(req.GSTIN))
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.Address = strings.TrimSpace(req.Address)
	req.State = strings.TrimSpace(req.State)
	return req
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
