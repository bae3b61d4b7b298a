package service

import (
	"context"
	"testing"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/gstbilling/internal/supplier/domain"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T) domain.Service {
	t.Helper()
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	return New(Params{
		DB:    dbtest.Open(t, &domain.Supplier{}),
		Log:   zap.NewNop(),
		GenID: node,
	})
}

func TestCreateUppercasesGSTIN(t *testing.T) {
	svc := newTestService(t)

	created, err := svc.Create(context.Background(), domain.CreateRequest{
		Name:  "Kirloskar Pumps",
		GSTIN: " 27aaacK1234m1z9 ",
		Phone: "9822012345",
		State: "Maharashtra",
	})
	require.NoError(t, err)
	assert.Equal(t, "27AAACK1234M1Z9", created.GSTIN)

	got, err := svc.Get(context.Background(), created.ID.String())
	require.NoError(t, err)
	assert.Equal(t, "Kirloskar Pumps", got.Name)
}

func TestCreateValidation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	cases := []struct {
		name  string
		req   domain.CreateRequest
		field string
	}{
		{"missing name", domain.CreateRequest{GSTIN: "33AABCS1234K1Z5"}, "name"},
		{"missing gstin", domain.CreateRequest{Name: "A"}, "gstin"},
		{"short gstin", domain.CreateRequest{Name: "A", GSTIN: "33AABCS1234"}, "gstin"},
		{"bad phone", domain.CreateRequest{Name: "A", GSTIN: "33AABCS1234K1Z5", Phone: "12345"}, "phone"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tc.req)
			var verr *errs.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tc.field, verr.Field)
		})
	}
}

func TestListUpdateDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	first, err := svc.Create(ctx, domain.CreateRequest{Name: "Alpha Valves", GSTIN: "33AABCA1111K1Z5"})
	require.NoError(t, err)
	_, err = svc.Create(ctx, domain.CreateRequest{Name: "Beta Motors", GSTIN: "33AABCB2222K1Z5"})
	require.NoError(t, err)

	resp, err := svc.List(ctx, domain.ListRequest{})
	require.NoError(t, err)
	assert.Len(t, resp.Suppliers, 2)

	resp, err = svc.List(ctx, domain.ListRequest{Name: "valve"})
	require.NoError(t, err)
	require.Len(t, resp.Suppliers, 1)
	assert.Equal(t, first.ID, resp.Suppliers[0].ID)

	updated, err := svc.Update(ctx, domain.UpdateRequest{
		ID:            first.ID.String(),
		CreateRequest: domain.CreateRequest{Name: "Alpha Valves Ltd", GSTIN: "33AABCA1111K1Z5", State: "Kerala"},
	})
	require.NoError(t, err)
	assert.Equal(t, "Kerala", updated.State)

	require.NoError(t, svc.Delete(ctx, first.ID.String()))
	assert.ErrorIs(t, svc.Delete(ctx, first.ID.String()), errs.ErrNotFound)
	_, err = svc.Get(ctx, first.ID.String())
	assert.ErrorIs(t, err, errs.ErrNotFound)
}
