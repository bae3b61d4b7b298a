package metrics

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric/noop"
)

func TestFilterAttributesDropsForbiddenLabels(t *testing.T) {
	attrs := FilterAttributes(
		attribute.String("document_kind", "invoice"),
		attribute.String("customer_name", "Acme"),
		attribute.String("outcome", "converted"),
	)
	require.Len(t, attrs, 2)
	keys := []attribute.Key{attrs[0].Key, attrs[1].Key}
	assert.Contains(t, keys, attribute.Key("document_kind"))
	assert.Contains(t, keys, attribute.Key("outcome"))
}

func TestNilMetricsAreSafe(t *testing.T) {
	var m *Metrics
	ctx := context.Background()
	assert.NotPanics(t, func() {
		m.RecordDocumentCreated(ctx, "invoice")
		m.RecordConversion(ctx, "converted")
		m.RecordStockSkip(ctx)
		m.RecordPDFRendered(ctx, "quotation")
		m.RecordInvoiceTotal(ctx, true, 1180)
	})
}

func TestNewWithNoopProvider(t *testing.T) {
	m, err := New(Config{}, noop.NewMeterProvider())
	require.NoError(t, err)
	assert.NotPanics(t, func() {
		m.RecordDocumentCreated(context.Background(), "purchase_order")
	})
}
