package logger

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config configures the process logger.
type Config struct {
	ServiceName string
	Environment string
	Version     string
	Level       string
	Format      string

	StackOnError   bool
	SampleInitial  int
	SampleEvery    int
	SampleInterval time.Duration
}

// New builds the process logger, installs it as the zap global and flushes
// it when the application stops.
func New(lc fx.Lifecycle, cfg Config) (*zap.Logger, error) {
	level, err := parseLevel(cfg.Level)
	if err != nil {
		return nil, err
	}

	core := zapcore.NewCore(newEncoder(cfg.Format), zapcore.Lock(os.Stdout), level)
	if cfg.SampleInitial > 0 && cfg.SampleEvery > 0 {
		interval := cfg.SampleInterval
		if interval <= 0 {
			interval = time.Second
		}
		core = zapcore.NewSamplerWithOptions(core, interval, cfg.SampleInitial, cfg.SampleEvery)
	}

	opts := []zap.Option{
		zap.AddCaller(),
		zap.ErrorOutput(zapcore.Lock(os.Stderr)),
	}
	if cfg.StackOnError {
		opts = append(opts, zap.AddStacktrace(zapcore.ErrorLevel))
	}

	service := strings.TrimSpace(cfg.ServiceName)
	if service == "" {
		service = "gstbilling"
	}
	log := zap.New(core, opts...).With(
		zap.String("service", service),
		zap.String("env", strings.TrimSpace(cfg.Environment)),
		zap.String("version", strings.TrimSpace(cfg.Version)),
	)
	zap.ReplaceGlobals(log)

	if lc != nil {
		lc.Append(fx.StopHook(func() {
			_ = log.Sync()
		}))
	}
	return log, nil
}

func parseLevel(raw string) (zap.AtomicLevel, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return zap.NewAtomicLevelAt(zap.InfoLevel), nil
	}
	level, err := zap.ParseAtomicLevel(raw)
	if err != nil {
		return zap.AtomicLevel{}, fmt.Errorf("invalid log level %q: %w", raw, err)
	}
	return level, nil
}

func newEncoder(format string) zapcore.Encoder {
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	if strings.EqualFold(strings.TrimSpace(format), "console") {
		encCfg.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return zapcore.NewConsoleEncoder(encCfg)
	}
	return zapcore.NewJSONEncoder(encCfg)
}

// FromContext returns the global logger tagged with the request and trace
// identifiers carried by ctx.
func FromContext(ctx context.Context) *zap.Logger {
	return WithContext(ctx, zap.L())
}

// WithContext tags base with the request and trace identifiers in ctx.
func WithContext(ctx context.Context, base *zap.Logger) *zap.Logger {
	if ctx == nil || base == nil {
		return base
	}

	fields := make([]zap.Field, 0, 3)
	if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
		fields = append(fields, zap.String("request_id", requestID))
	}
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// WithDocument tags log lines with the billing document they concern.
func WithDocument(log *zap.Logger, kind, id string) *zap.Logger {
	if log == nil {
		return nil
	}
	return log.With(
		zap.String("document_kind", strings.TrimSpace(kind)),
		zap.String("document_id", strings.TrimSpace(id)),
	)
}
