package domain

import (
	"context"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
)

type ListCustomerRequest struct {
	PageToken string
	PageSize  int32
	Name      string
	State     string
}

type ListCustomerFilter struct {
	Name  string
	State string
}

type ListCustomerResponse struct {
	pagination.PageInfo
	Customers []Customer `json:"customers"`
}

type CreateCustomerRequest struct {
	Name      string         `json:"name" validate:"required,max=200"`
	Phone     string         `json:"phone" validate:"omitempty,max=20"`
	Email     string         `json:"email" validate:"omitempty,email"`
	GSTNumber string         `json:"gstNumber" validate:"omitempty,gstin"`
	State     string         `json:"state" validate:"max=100"`
	Address   string         `json:"address"`
	Metadata  map[string]any `json:"metadata"`
}

type UpdateCustomerRequest struct {
	ID string `json:"-"`
	CreateCustomerRequest
}

type Service interface {
	Create(context.Context, CreateCustomerRequest) (Customer, error)
	List(context.Context, ListCustomerRequest) (ListCustomerResponse, error)
	GetByID(context.Context, string) (Customer, error)
	Update(context.Context, UpdateCustomerRequest) (Customer, error)
	Delete(context.Context, string) error
	Count(context.Context) (int64, error)
}
