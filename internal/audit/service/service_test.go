package service

import (
	"context"
	"testing"
	"time"

	auditdomain "github.com/smallbiznis/gstbilling/internal/audit/domain"
	"github.com/smallbiznis/gstbilling/internal/audit/repository"
	"github.com/smallbiznis/gstbilling/internal/clock"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"github.com/smallbiznis/gstbilling/pkg/db/dbtest"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestService(t *testing.T, clk clock.Clock) auditdomain.Service {
	t.Helper()
	return NewService(Params{
		DB:    dbtest.Open(t, &auditdomain.Event{}),
		Log:   zap.NewNop(),
		Clock: clk,
		Repo:  repository.Provide(),
	})
}

func TestRecordAndList(t *testing.T) {
	clk := clock.NewFakeClock(time.Date(2025, 4, 2, 10, 0, 0, 0, time.UTC))
	svc := newTestService(t, clk)
	ctx := obscontext.WithRequestID(context.Background(), "req-1")

	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentQuotation,
		DocumentID:     "101",
		Action:         auditdomain.ActionCreated,
		DocumentNumber: "FFI/25-26/001",
	}))
	clk.Advance(time.Minute)
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		DocumentType:   auditdomain.DocumentQuotation,
		DocumentID:     "101",
		Action:         auditdomain.ActionConverted,
		DocumentNumber: "FFI/25-26/001",
		Metadata:       map[string]any{"invoice_id": "202"},
	}))
	require.NoError(t, svc.Record(ctx, auditdomain.Entry{
		DocumentType: auditdomain.DocumentInvoice,
		DocumentID:   "202",
		Action:       auditdomain.ActionCreated,
	}))

	events, err := svc.List(ctx, auditdomain.DocumentQuotation, "101")
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, auditdomain.ActionCreated, events[0].Action)
	assert.Equal(t, auditdomain.ActionConverted, events[1].Action)
	assert.Equal(t, "req-1", events[0].RequestID)
	assert.Len(t, events[0].ID, 26)
	assert.NotEqual(t, events[0].ID, events[1].ID)
	assert.Equal(t, "202", events[1].Metadata["invoice_id"])
}

func TestRecordRejectsIncompleteEntries(t *testing.T) {
	svc := newTestService(t, clock.SystemClock{})
	ctx := context.Background()

	err := svc.Record(ctx, auditdomain.Entry{DocumentType: "receipt", DocumentID: "1", Action: "created"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	err = svc.Record(ctx, auditdomain.Entry{DocumentType: auditdomain.DocumentInvoice, DocumentID: "1"})
	assert.ErrorIs(t, err, errs.ErrValidation)

	_, err = svc.List(ctx, auditdomain.DocumentInvoice, " ")
	assert.ErrorIs(t, err, errs.ErrValidation)
}
