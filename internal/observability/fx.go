package observability

import (
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	"github.com/smallbiznis/gstbilling/internal/observability/tracing"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/fx"
)

// Module provides the zap logger, the tracer and meter providers, the
// document metrics and the HTTP collectors.
var Module = fx.Module("observability",
	fx.Provide(
		FromAppConfig,
		Config.Logger,
		Config.SQLLogger,
		Config.Tracing,
		Config.Metrics,
		logger.New,
		tracing.NewProvider,
		metrics.NewProvider,
		metrics.New,
		metrics.NewHTTPMetrics,
	),
	// Nothing else asks for the tracer provider; force it so the global
	// propagator is installed before the first request.
	fx.Invoke(func(*sdktrace.TracerProvider) {}),
)
