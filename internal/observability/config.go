package observability

import (
	"strings"
	"time"

	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/smallbiznis/gstbilling/internal/observability/logger"
	"github.com/smallbiznis/gstbilling/internal/observability/metrics"
	"github.com/smallbiznis/gstbilling/internal/observability/tracing"
)

const defaultServiceName = "gstbilling"

// Config is the observability view of the process configuration.
type Config struct {
	ServiceName string
	Environment string
	Version     string

	LogLevel    string
	LogFormat   string
	SQLLogLevel string

	ExportEnabled  bool
	ExportEndpoint string
	ExportProtocol string
	SamplingRatio  float64
}

// FromAppConfig derives the observability settings from cfg.
func FromAppConfig(cfg config.Config) Config {
	serviceName := strings.TrimSpace(cfg.AppName)
	if serviceName == "" {
		serviceName = defaultServiceName
	}

	ratio := cfg.OTelSamplingRatio
	if ratio < 0 || ratio > 1 {
		ratio = 1
	}

	return Config{
		ServiceName:    serviceName,
		Environment:    strings.TrimSpace(cfg.Environment),
		Version:        strings.TrimSpace(cfg.AppVersion),
		LogLevel:       strings.ToLower(strings.TrimSpace(cfg.LogLevel)),
		LogFormat:      strings.ToLower(strings.TrimSpace(cfg.LogFormat)),
		SQLLogLevel:    strings.ToLower(strings.TrimSpace(cfg.SQLLogLevel)),
		ExportEnabled:  cfg.OTelEnabled && strings.TrimSpace(cfg.OTLPEndpoint) != "",
		ExportEndpoint: strings.TrimSpace(cfg.OTLPEndpoint),
		ExportProtocol: strings.ToLower(strings.TrimSpace(cfg.OTLPProtocol)),
		SamplingRatio:  ratio,
	}
}

// Debug reports whether verbose diagnostics (stacks, debug logs) are on.
func (c Config) Debug() bool {
	if c.LogLevel == "debug" {
		return true
	}
	switch strings.ToLower(strings.TrimSpace(c.Environment)) {
	case "dev", "development", "local", "test":
		return true
	}
	return false
}

func (c Config) Logger() logger.Config {
	return logger.Config{
		ServiceName:    c.ServiceName,
		Environment:    c.Environment,
		Version:        c.Version,
		Level:          c.LogLevel,
		Format:         c.LogFormat,
		StackOnError:   c.Debug(),
		SampleInitial:  100,
		SampleEvery:    100,
		SampleInterval: time.Second,
	}
}

func (c Config) SQLLogger() logger.GormLoggerConfig {
	return logger.GormLoggerConfig{
		Level:         logger.ParseGormLevel(c.SQLLogLevel),
		SlowThreshold: 200 * time.Millisecond,
	}
}

func (c Config) Tracing() tracing.Config {
	return tracing.Config{
		Enabled:          c.ExportEnabled,
		ServiceName:      c.ServiceName,
		ServiceVersion:   c.Version,
		Environment:      c.Environment,
		ExporterEndpoint: c.ExportEndpoint,
		ExporterProtocol: c.ExportProtocol,
		SamplingRatio:    c.SamplingRatio,
	}
}

func (c Config) Metrics() metrics.Config {
	return metrics.Config{
		Enabled:          c.ExportEnabled,
		ExporterEndpoint: c.ExportEndpoint,
		ExporterProtocol: c.ExportProtocol,
		ServiceName:      c.ServiceName,
		Environment:      c.Environment,
	}
}
