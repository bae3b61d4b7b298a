package domain

import (
	"context"

	"github.com/smallbiznis/gstbilling/pkg/db/pagination"
	"github.com/smallbiznis/gstbilling/pkg/errs"
)

type CreateRequest struct {
	Name    string `json:"name" validate:"required,max=200"`
	GSTIN   string `json:"gstin" validate:"required,gstin"`
	Phone   string `json:"phone" validate:"omitempty,phone10"`
	Email   string `json:"email" validate:"omitempty,email"`
	Address string `json:"address"`
	State   string `json:"state" validate:"max=100"`
}

type UpdateRequest struct {
	ID string `json:"-"`
	CreateRequest
}

type ListRequest struct {
	PageToken string
	PageSize  int32
	Name      string
}

type ListResponse struct {
	pagination.PageInfo
	Suppliers []Supplier `json:"suppliers"`
}

type Service interface {
	Create(context.Context, CreateRequest) (Supplier, error)
	List(context.Context, ListRequest) (ListResponse, error)
	Get(context.Context, string) (Supplier, error)
	Update(context.Context, UpdateRequest) (Supplier, error)
	Delete(context.Context, string) error
}

var ErrInvalidID = errs.Validation("id", "must be a valid supplier id")

func NotFound(id string) error {
	return errs.NotFound("supplier", id)
}
