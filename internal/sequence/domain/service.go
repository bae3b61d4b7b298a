package domain

import (
	"context"
	"time"

	"github.com/smallbiznis/gstbilling/pkg/errs"
)

type Service interface {
	// Next allocates the next value of counterID, starting at 1.
	Next(ctx context.Context, counterID string) (int64, error)
	// NextDocumentNumber allocates a value and formats it with the company
	// number template (PREFIX/YY-YY/NNN by default) for the financial year
	// containing at in the business time zone.
	NextDocumentNumber(ctx context.Context, counterID, prefix string, at time.Time) (string, error)
	Current(ctx context.Context, counterID string) (int64, error)
}

var (
	ErrInvalidCounterID = errs.Validation("counterId", "must not be empty")
)
