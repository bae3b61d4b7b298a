package metrics

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetricgrpc"
	"go.opentelemetry.io/otel/exporters/otlp/otlpmetric/otlpmetrichttp"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// Config configures the metrics provider.
type Config struct {
	Enabled          bool
	ExporterEndpoint string
	ExporterProtocol string
	ServiceName      string
	Environment      string
}

// Metrics exposes billing instruments exported over OTLP.
type Metrics struct {
	documentsCreated metric.Int64Counter
	conversions      metric.Int64Counter
	stockSkips       metric.Int64Counter
	pdfRendered      metric.Int64Counter
	invoiceTotal     metric.Float64Histogram
}

// NewProvider configures and registers the meter provider.
func NewProvider(lc fx.Lifecycle, cfg Config, log *zap.Logger) (metric.MeterProvider, error) {
	if !cfg.Enabled {
		provider := noop.NewMeterProvider()
		otel.SetMeterProvider(provider)
		return provider, nil
	}

	exporter, err := newExporter(cfg.ExporterProtocol, cfg.ExporterEndpoint)
	if err != nil {
		return nil, err
	}

	reader := sdkmetric.NewPeriodicReader(exporter, sdkmetric.WithInterval(10*time.Second))
	provider := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	otel.SetMeterProvider(provider)

	if lc != nil {
		lc.Append(fx.Hook{
			OnStop: func(ctx context.Context) error {
				if log != nil {
					log.Info("shutting down meter provider")
				}
				return provider.Shutdown(ctx)
			},
		})
	}

	if log != nil {
		log.Info("metrics initialized",
			zap.String("endpoint", cfg.ExporterEndpoint),
			zap.String("protocol", cfg.ExporterProtocol),
		)
	}

	return provider, nil
}

// New configures the domain metrics instruments.
func New(cfg Config, provider metric.MeterProvider) (*Metrics, error) {
	name := strings.TrimSpace(cfg.ServiceName)
	if name == "" {
		name = "gstbilling"
	}
	meter := provider.Meter(name)

	documentsCreated, err := meter.Int64Counter("gstbilling_documents_created_total")
	if err != nil {
		return nil, err
	}
	conversions, err := meter.Int64Counter("gstbilling_quotation_conversions_total")
	if err != nil {
		return nil, err
	}
	stockSkips, err := meter.Int64Counter("gstbilling_stock_decrement_skipped_total")
	if err != nil {
		return nil, err
	}
	pdfRendered, err := meter.Int64Counter("gstbilling_pdf_rendered_total")
	if err != nil {
		return nil, err
	}
	invoiceTotal, err := meter.Float64Histogram("gstbilling_invoice_total_rupees")
	if err != nil {
		return nil, err
	}

	return &Metrics{
		documentsCreated: documentsCreated,
		conversions:      conversions,
		stockSkips:       stockSkips,
		pdfRendered:      pdfRendered,
		invoiceTotal:     invoiceTotal,
	}, nil
}

// RecordDocumentCreated counts a persisted quotation, invoice or purchase order.
func (m *Metrics) RecordDocumentCreated(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("document_kind", strings.TrimSpace(kind)))
	m.documentsCreated.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordConversion counts quotation conversion attempts by outcome.
func (m *Metrics) RecordConversion(ctx context.Context, outcome string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("outcome", strings.TrimSpace(outcome)))
	m.conversions.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordStockSkip counts invoice lines whose product no longer exists.
func (m *Metrics) RecordStockSkip(ctx context.Context) {
	if m == nil {
		return
	}
	m.stockSkips.Add(ctx, 1)
}

func (m *Metrics) RecordPDFRendered(ctx context.Context, kind string) {
	if m == nil {
		return
	}
	attrs := FilterAttributes(attribute.String("document_kind", strings.TrimSpace(kind)))
	m.pdfRendered.Add(ctx, 1, metric.WithAttributes(attrs...))
}

// RecordInvoiceTotal observes the grand total of a new invoice.
func (m *Metrics) RecordInvoiceTotal(ctx context.Context, intraState bool, total float64) {
	if m == nil {
		return
	}
	supply := "inter_state"
	if intraState {
		supply = "intra_state"
	}
	attrs := FilterAttributes(attribute.String("supply_type", supply))
	m.invoiceTotal.Record(ctx, total, metric.WithAttributes(attrs...))
}

func newExporter(protocol, endpoint string) (sdkmetric.Exporter, error) {
	protocol = strings.ToLower(strings.TrimSpace(protocol))
	switch protocol {
	case "http", "http/protobuf":
		opts := []otlpmetrichttp.Option{}
		if endpoint != "" {
			opts = append(opts, otlpmetrichttp.WithEndpoint(endpoint))
		}
		return otlpmetrichttp.New(context.Background(), opts...)
	case "grpc", "grpc/protobuf", "":
		opts := []otlpmetricgrpc.Option{otlpmetricgrpc.WithInsecure()}
		if endpoint != "" {
			opts = append(opts, otlpmetricgrpc.WithEndpoint(endpoint))
		}
		return otlpmetricgrpc.New(context.Background(), opts...)
	default:
		return nil, fmt.Errorf("unsupported OTLP protocol %q", protocol)
	}
}

var allowedLabelKeys = map[attribute.Key]struct{}{
	"document_kind": {},
	"outcome":       {},
	"supply_type":   {},
	"endpoint":      {},
	"status_code":   {},
	"reason":        {},
}

// FilterAttributes strips disallowed labels to keep metrics low-cardinality.
func FilterAttributes(attrs ...attribute.KeyValue) []attribute.KeyValue {
	filtered := make([]attribute.KeyValue, 0, len(attrs))
	for _, attr := range attrs {
		if _, ok := allowedLabelKeys[attr.Key]; !ok {
			continue
		}
		filtered = append(filtered, attr)
	}
	return filtered
}
