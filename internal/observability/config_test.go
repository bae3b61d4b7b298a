package observability

import (
	"testing"

	"github.com/smallbiznis/gstbilling/internal/config"
	"github.com/stretchr/testify/assert"
	gormlogger "gorm.io/gorm/logger"
)

func TestFromAppConfigDisablesExportWithoutEndpoint(t *testing.T) {
	cfg := FromAppConfig(config.Config{
		Environment:       "production",
		LogLevel:          "INFO",
		SQLLogLevel:       "error",
		OTelEnabled:       true,
		OTelSamplingRatio: 4,
	})

	assert.Equal(t, "gstbilling", cfg.ServiceName)
	assert.False(t, cfg.ExportEnabled)
	assert.Equal(t, float64(1), cfg.SamplingRatio)
	assert.False(t, cfg.Debug())
	assert.False(t, cfg.Logger().StackOnError)
	assert.Equal(t, gormlogger.Error, cfg.SQLLogger().Level)
}

func TestFromAppConfigExportsToCollector(t *testing.T) {
	cfg := FromAppConfig(config.Config{
		AppName:           "billing-api",
		Environment:       "development",
		OTLPEndpoint:      "otel-collector:4317",
		OTLPProtocol:      "GRPC",
		OTelEnabled:       true,
		OTelSamplingRatio: 0.25,
	})

	assert.True(t, cfg.Tracing().Enabled)
	assert.True(t, cfg.Metrics().Enabled)
	assert.Equal(t, "grpc", cfg.Tracing().ExporterProtocol)
	assert.Equal(t, 0.25, cfg.Tracing().SamplingRatio)
	assert.Equal(t, "billing-api", cfg.Metrics().ServiceName)
	assert.True(t, cfg.Debug())
}
