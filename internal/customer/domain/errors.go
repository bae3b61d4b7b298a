package domain

import "github.com/smallbiznis/gstbilling/pkg/errs"

var (
	ErrInvalidID = errs.Validation("id", "must be a valid customer id")
)

func NotFound(id string) error {
	return errs.NotFound("customer", id)
}
