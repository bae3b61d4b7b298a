package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	productdomain "github.com/smallbiznis/gstbilling/internal/product/domain"
	productrepo "github.com/smallbiznis/gstbilling/internal/product/repository"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func setup(t *testing.T) (*gorm.DB, *Guard) {
	t.Helper()
	conn := dbtest.Open(t, &productdomain.Product{})
	repo := productrepo.Provide()
	now := time.Now().UTC()
	require.NoError(t, repo.Create(context.Background(), conn, &productdomain.Product{
		ID:          7,
		ProductCode: "SP-7",
		Name:        "Submersible 1HP",
		StockQty:    decimal.NewFromInt(3),
		CreatedAt:   now,
		UpdatedAt:   now,
	}))
	guard := New(Params{DB: conn, Log: zap.NewNop(), Products: repo}).(*Guard)
	return conn, guard
}

func TestReserve(t *testing.T) {
	_, guard := setup(t)
	ctx := context.Background()

	assert.NoError(t, guard.Reserve(ctx, 7, decimal.NewFromInt(3)))

	err := guard.Reserve(ctx, 7, decimal.NewFromInt(4))
	require.Error(t, err)
	assert.ErrorIs(t, err, errs.ErrInsufficientStock)
	var stockErr *errs.InsufficientStockError
	require.True(t, errors.As(err, &stockErr))
	assert.Equal(t, "Submersible 1HP", stockErr.ProductName)
	assert.True(t, stockErr.Available.Equal(decimal.NewFromInt(3)))

	assert.ErrorIs(t, guard.Reserve(ctx, 8, decimal.NewFromInt(1)), errs.ErrNotFound)
	assert.ErrorIs(t, guard.Reserve(ctx, 7, decimal.Zero), errs.ErrValidation)
}

func TestDecrementAllowsNegativeStock(t *testing.T) {
	conn, guard := setup(t)
	ctx := context.Background()

	require.NoError(t, guard.Decrement(ctx, conn, 7, decimal.NewFromInt(5)))

	p, err := productrepo.Provide().FindByID(ctx, conn, 7)
	require.NoError(t, err)
	assert.True(t, p.StockQty.Equal(decimal.NewFromInt(-2)), p.StockQty.String())
	assert.Equal(t, productdomain.StatusOutOfStock, p.Status)
}

func TestDecrementMissingProduct(t *testing.T) {
	conn, guard := setup(t)
	err := guard.Decrement(context.Background(), conn, 99, decimal.NewFromInt(1))
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
