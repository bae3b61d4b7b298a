package logger

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// HeaderRequestID carries the request id in and out of the API.
const HeaderRequestID = "X-Request-Id"

// MiddlewareConfig controls request logging.
type MiddlewareConfig struct {
	Debug bool
	// ErrorClassifier maps the last handler error to (class, type),
	// e.g. ("client", "insufficient_stock").
	ErrorClassifier func(err error) (string, string)
}

// documentCollections maps API collections to the document kind logged
// with each request.
var documentCollections = map[string]string{
	"quotations":      "quotation",
	"invoices":        "invoice",
	"purchase-orders": "purchase_order",
	"customers":       "customer",
	"products":        "product",
	"suppliers":       "supplier",
}

// GinMiddleware assigns a request id, stores it with the client address in
// the request context and writes one http_request line per request.
func GinMiddleware(cfg MiddlewareConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		requestID := requestIDFor(c)
		c.Header(HeaderRequestID, requestID)

		ctx := obscontext.WithRequestID(c.Request.Context(), requestID)
		ctx = obscontext.WithClientIP(ctx, c.ClientIP())
		ctx = obscontext.WithUserAgent(ctx, c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		status := c.Writer.Status()
		fields := []zap.Field{
			zap.String("method", c.Request.Method),
			zap.String("route", route),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", status),
			zap.Int64("duration_ms", time.Since(start).Milliseconds()),
			zap.Int64("bytes_in", max(c.Request.ContentLength, 0)),
			zap.Int("bytes_out", max(c.Writer.Size(), 0)),
		}
		if kind := documentKind(route); kind != "" {
			fields = append(fields, zap.String("document_kind", kind))
			if id := c.Param("id"); id != "" {
				fields = append(fields, zap.String("document_id", id))
			}
		}

		var errorType string
		if last := c.Errors.Last(); last != nil {
			errorClass := "server"
			if cfg.ErrorClassifier != nil {
				errorClass, errorType = cfg.ErrorClassifier(last.Err)
			}
			fields = append(fields,
				zap.String("error_class", errorClass),
				zap.String("error_type", errorType),
			)
			if cfg.Debug {
				fields = append(fields, zap.String("error", last.Err.Error()))
			}
		}

		if ce := FromContext(c.Request.Context()).Check(requestLevel(route, status, errorType), "http_request"); ce != nil {
			ce.Write(fields...)
		}
	}
}

func requestIDFor(c *gin.Context) string {
	if id := strings.TrimSpace(c.GetHeader(HeaderRequestID)); id != "" {
		return id
	}
	return uuid.NewString()
}

// documentKind returns the document kind addressed by an /api route.
func documentKind(route string) string {
	rest, ok := strings.CutPrefix(route, "/api/")
	if !ok {
		return ""
	}
	collection, _, _ := strings.Cut(rest, "/")
	return documentCollections[collection]
}

// requestLevel keeps rejected input at info, other client errors at warn
// and server faults at error. Health and metrics routes only log at debug.
func requestLevel(route string, status int, errorType string) zapcore.Level {
	switch {
	case route == "/health" || route == "/metrics":
		return zapcore.DebugLevel
	case status >= http.StatusInternalServerError:
		return zapcore.ErrorLevel
	case status >= http.StatusBadRequest && errorType != "validation_error":
		return zapcore.WarnLevel
	default:
		return zapcore.InfoLevel
	}
}
