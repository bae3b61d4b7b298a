package service

import (
	"context"
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/customer/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/validation"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Params struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
	Repo  domain.Repository
}

type Service struct {
	db    *gorm.DB
	log   *zap.Logger
	genID *snowflake.Node
	repo  domain.Repository
}

func New(p Params) domain.Service {
	return &Service{
		db:    p.DB,
		log:   p.Log.Named("customer.service"),
		genID: p.GenID,
		repo:  p.Repo,
	}
}

func (s *Service) Create(ctx context.Context, req domain.CreateCustomerRequest) (domain.Customer, error) {
	req = normalize(req)
	if err := validation.Struct(req); err != nil {
		return domain.Customer{}, err
	}

	now := time.Now().UTC()
	customer := domain.Customer{
		ID:        s.genID.Generate(),
		Name:      req.Name,
		Phone:     req.Phone,
		Email:     req.Email,
		GSTNumber: req.GSTNumber,
		State:     req.State,
		Address:   req.Address,
		Metadata:  datatypes.JSONMap(req.Metadata),
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Insert(ctx, s.db, &customer); err != nil {
		return domain.Customer{}, err
	}

	return customer, nil
}

func (s *Service) List(ctx context.Context, req domain.ListCustomerRequest) (domain.ListCustomerResponse, error) {
	filter := domain.ListCustomerFilter{
		Name:  strings.ToLower(strings.TrimSpace(req.Name)),
		State: strings.ToLower(strings.TrimSpace(req.State)),
	}

	page := pagination.Pagination{PageToken: req.PageToken, PageSize: int(req.PageSize)}.Normalize()
	pageSize := int32(page.PageSize)

	items, err := s.repo.List(ctx, s.db, filter, page)
	if err != nil {
		return domain.ListCustomerResponse{}, err
	}

	pageInfo := pagination.BuildCursorPageInfo(items, pageSize, func(customer *domain.Customer) string {
		token, err := pagination.EncodeCursor(pagination.Cursor{
			ID:        customer.ID.String(),
			CreatedAt: customer.CreatedAt.Format(time.RFC3339Nano),
		})
		if err != nil {
			return ""
		}
		return token
	})
	if pageInfo != nil && pageInfo.HasMore && len(items) > int(pageSize) {
		items = items[:pageSize]
	}

	customers := make([]domain.Customer, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		customers = append(customers, *item)
	}

	resp := domain.ListCustomerResponse{Customers: customers}
	if pageInfo != nil {
		resp.PageInfo = *pageInfo
	}

	return resp, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (domain.Customer, error) {
	customerID, err := parseID(id)
	if err != nil {
		return domain.Customer{}, err
	}

	item, err := s.repo.FindByID(ctx, s.db, customerID)
	if err != nil {
		return domain.Customer{}, err
	}
	if item == nil {
		return domain.Customer{}, domain.NotFound(id)
	}

	return *item, nil
}

func (s *Service) Update(ctx context.Context, req domain.UpdateCustomerRequest) (domain.Customer, error) {
	existing, err := s.GetByID(ctx, req.ID)
	if err != nil {
		return domain.Customer{}, err
	}

	in := normalize(req.CreateCustomerRequest)
	if err := validation.Struct(in); err != nil {
		return domain.Customer{}, err
	}

	existing.Name = in.Name
	existing.Phone = in.Phone
	existing.Email = in.Email
	existing.GSTNumber = in.GSTNumber
	existing.State = in.State
	existing.Address = in.Address
	if in.Metadata != nil {
		existing.Metadata = datatypes.JSONMap(in.Metadata)
	}
	existing.UpdatedAt = time.Now().UTC()

	if err := s.repo.Update(ctx, s.db, &existing); err != nil {
		return domain.Customer{}, err
	}
	return existing, nil
}

// Delete leaves documents that reference the customer untouched; they
// carry their own party snapshot.
func (s *Service) Delete(ctx context.Context, id string) error {
	customerID, err := parseID(id)
	if err != nil {
		return err
	}
	deleted, err := s.repo.Delete(ctx, s.db, customerID)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound(id)
	}
	s.log.Info("customer deleted", zap.String("customer_id", id))
	return nil
}

func (s *Service) Count(ctx context.Context) (int64, error) {
	return s.repo.Count(ctx, s.db)
}

func normalize(req domain.CreateCustomerRequest) domain.CreateCustomerRequest {
	req.Name = strings.TrimSpace(req.Name)
	req.Phone = strings.TrimSpace(req.Phone)
	req.Email = strings.TrimSpace(req.Email)
	req.GSTNumber = strings.ToUpper(strings.TrimSpace(req.GSTNumber))
	req.State = strings.TrimSpace(req.State)
	req.Address = strings.TrimSpace(req.Address)
	return req
}

func parseID(value string) (snowflake.ID, error) {
	id, err := snowflake.ParseString(strings.TrimSpace(value))
	if err != nil || id == 0 {
		return 0, domain.ErrInvalidID
	}
	return id, nil
}
