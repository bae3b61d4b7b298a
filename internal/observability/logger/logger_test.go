package logger

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func observeGlobal(t *testing.T) *observer.ObservedLogs {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	restore := zap.ReplaceGlobals(zap.New(core))
	t.Cleanup(restore)
	return logs
}

func TestGinMiddlewareLogsDocumentRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)
	logs := observeGlobal(t)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{
		ErrorClassifier: func(error) (string, string) { return "client", "insufficient_stock" },
	}))
	r.POST("/api/quotations/:id/convert", func(c *gin.Context) {
		_ = c.Error(errors.New("short"))
		c.Status(http.StatusConflict)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/quotations/42/convert", nil)
	req.Header.Set(HeaderRequestID, "req-7")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, "req-7", w.Header().Get(HeaderRequestID))
	entries := logs.FilterMessage("http_request").All()
	require.Len(t, entries, 1)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)

	fields := entries[0].ContextMap()
	assert.Equal(t, "quotation", fields["document_kind"])
	assert.Equal(t, "42", fields["document_id"])
	assert.Equal(t, "insufficient_stock", fields["error_type"])
	assert.Equal(t, "req-7", fields["request_id"])
}

func TestGinMiddlewareGeneratesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	observeGlobal(t)

	r := gin.New()
	r.Use(GinMiddleware(MiddlewareConfig{}))
	r.GET("/health", func(c *gin.Context) { c.Status(http.StatusOK) })

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, w.Header().Get(HeaderRequestID))
}

func TestRequestLevel(t *testing.T) {
	assert.Equal(t, zapcore.DebugLevel, requestLevel("/health", http.StatusOK, ""))
	assert.Equal(t, zapcore.InfoLevel, requestLevel("/api/invoices", http.StatusBadRequest, "validation_error"))
	assert.Equal(t, zapcore.WarnLevel, requestLevel("/api/invoices/:id", http.StatusNotFound, "not_found"))
	assert.Equal(t, zapcore.ErrorLevel, requestLevel("/api/stats", http.StatusServiceUnavailable, "storage_error"))
}

func TestDocumentKind(t *testing.T) {
	assert.Equal(t, "purchase_order", documentKind("/api/purchase-orders/:id/pdf"))
	assert.Equal(t, "invoice", documentKind("/api/invoices"))
	assert.Equal(t, "", documentKind("/api/stats/dashboard"))
	assert.Equal(t, "", documentKind("/metrics"))
}

func TestGormLoggerTrace(t *testing.T) {
	logs := observeGlobal(t)
	l := NewGormLogger(GormLoggerConfig{Level: gormlogger.Warn, SlowThreshold: 50 * time.Millisecond})
	query := func() (string, int64) { return "SELECT * FROM invoices WHERE id = ?", 0 }
	ctx := context.Background()

	l.Trace(ctx, time.Now(), query, gorm.ErrRecordNotFound)
	l.Trace(ctx, time.Now(), query, nil)
	assert.Zero(t, logs.Len())

	l.Trace(ctx, time.Now().Add(-time.Second), query, nil)
	l.Trace(ctx, time.Now(), query, errors.New("connection reset"))
	entries := logs.FilterMessage("sql").All()
	require.Len(t, entries, 2)
	assert.Equal(t, zapcore.WarnLevel, entries[0].Level)
	assert.Equal(t, true, entries[0].ContextMap()["slow"])
	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "SELECT", entries[1].ContextMap()["statement"])

	l.LogMode(gormlogger.Silent).Trace(ctx, time.Now(), query, errors.New("ignored"))
	assert.Equal(t, 2, logs.Len())
}

func TestParseGormLevel(t *testing.T) {
	assert.Equal(t, gormlogger.Info, ParseGormLevel("debug"))
	assert.Equal(t, gormlogger.Silent, ParseGormLevel("off"))
	assert.Equal(t, gormlogger.Warn, ParseGormLevel("verbose"))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	restore := zap.ReplaceGlobals(zap.NewNop())
	t.Cleanup(restore)

	_, err := New(nil, Config{Level: "chatty"})
	assert.Error(t, err)

	log, err := New(nil, Config{Level: "debug", Format: "console", SampleInitial: 10, SampleEvery: 10})
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zapcore.DebugLevel))
}
