package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/smallbiznis/gstbilling/internal/document/documenttest"
	"github.com/smallbiznis/gstbilling/internal/document/domain"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPriceIntraStateWithDiscount(t *testing.T) {
	env := documenttest.New(t)

	priced, err := env.Builder.Price(context.Background(), domain.PriceRequest{
		CustomerID:      env.Local.ID.String(),
		Items:           []domain.ItemRequest{documenttest.Item(env.Pump, 2), documenttest.Item(env.Pipe, 4)},
		DiscountPercent: decimal.NewFromInt(10),
	})
	require.NoError(t, err)

	assert.Equal(t, env.Local.ID, priced.Customer.ID)
	require.Len(t, priced.Items, 2)
	assert.Equal(t, "PMP-1", priced.Items[0].ProductCode)
	assert.Equal(t, "8413", priced.Items[0].HSN)
	assert.True(t, priced.Items[0].Amount.Equal(decimal.NewFromInt(10000)))
	assert.True(t, priced.Items[1].GSTRate.Equal(decimal.NewFromInt(12)))

	b := priced.Breakdown
	assert.True(t, b.IntraState)
	assert.True(t, b.Subtotal.Equal(decimal.NewFromInt(11000)))
	assert.True(t, b.DiscountAmount.Equal(decimal.NewFromInt(1100)))
	assert.True(t, b.TaxableAmount.Equal(decimal.NewFromInt(9900)))
	assert.True(t, b.CGST.Equal(decimal.NewFromInt(864)))
	assert.True(t, b.SGST.Equal(decimal.NewFromInt(864)))
	assert.True(t, b.IGST.IsZero())
	assert.True(t, b.GrandTotal.Equal(decimal.NewFromInt(11628)))
}

func TestPriceInterStateUsesIGST(t *testing.T) {
	env := documenttest.New(t)

	priced, err := env.Builder.Price(context.Background(), domain.PriceRequest{
		CustomerID: env.Remote.ID.String(),
		Items:      []domain.ItemRequest{documenttest.Item(env.Pump, 1)},
	})
	require.NoError(t, err)

	assert.False(t, priced.Breakdown.IntraState)
	assert.True(t, priced.Breakdown.IGST.Equal(decimal.NewFromInt(900)))
	assert.True(t, priced.Breakdown.CGST.IsZero())
	assert.True(t, priced.Breakdown.GrandTotal.Equal(decimal.NewFromInt(5900)))
}

func TestPriceChecksCombinedStock(t *testing.T) {
	env := documenttest.New(t)

	_, err := env.Builder.Price(context.Background(), domain.PriceRequest{
		CustomerID: env.Local.ID.String(),
		Items:      []domain.ItemRequest{documenttest.Item(env.Pump, 6), documenttest.Item(env.Pump, 5)},
	})
	require.ErrorIs(t, err, errs.ErrInsufficientStock)

	var stockErr *errs.InsufficientStockError
	require.ErrorAs(t, err, &stockErr)
	assert.Equal(t, "Monoblock Pump 1HP", stockErr.ProductName)
	assert.True(t, stockErr.Requested.Equal(decimal.NewFromInt(11)))

	// Pricing never touches stock.
	assert.True(t, env.StockOf(t, env.Pump.ID).Equal(decimal.NewFromInt(10)))
}

func TestPriceRejectsBadInput(t *testing.T) {
	env := documenttest.New(t)
	ctx := context.Background()

	cases := []struct {
		name string
		req  domain.PriceRequest
		want error
	}{
		{"bad customer id", domain.PriceRequest{CustomerID: "abc", Items: []domain.ItemRequest{documenttest.Item(env.Pump, 1)}}, domain.ErrInvalidCustomerID},
		{"no items", domain.PriceRequest{CustomerID: env.Local.ID.String()}, domain.ErrNoItems},
		{"unknown customer", domain.PriceRequest{CustomerID: "42", Items: []domain.ItemRequest{documenttest.Item(env.Pump, 1)}}, errs.ErrNotFound},
		{"bad product id", domain.PriceRequest{CustomerID: env.Local.ID.String(), Items: []domain.ItemRequest{{ProductID: "x", Qty: decimal.NewFromInt(1)}}}, domain.ErrInvalidProductID},
		{"unknown product", domain.PriceRequest{CustomerID: env.Local.ID.String(), Items: []domain.ItemRequest{{ProductID: "42", Qty: decimal.NewFromInt(1)}}}, errs.ErrNotFound},
		{"zero qty", domain.PriceRequest{CustomerID: env.Local.ID.String(), Items: []domain.ItemRequest{documenttest.Item(env.Pump, 0)}}, domain.ErrInvalidQty},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := env.Builder.Price(ctx, tc.req)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}
