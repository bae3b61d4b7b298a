package metrics

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"gorm.io/gorm"
)

const (
	FailureReasonDeadlineExceeded     = "deadline_exceeded"
	FailureReasonDBLockTimeout        = "db_lock_timeout"
	FailureReasonSerializationFailure = "serialization_failure"
	FailureReasonUniqueViolation      = "unique_violation"
	FailureReasonUnknown              = "unknown"
)

// HTTPMetrics holds the prometheus collectors scraped from /metrics.
type HTTPMetrics struct {
	requests *prometheus.CounterVec
	duration *prometheus.HistogramVec
	failures *prometheus.CounterVec
}

// NewHTTPMetrics registers the HTTP collectors on the default registry.
func NewHTTPMetrics(cfg Config) *HTTPMetrics {
	return newHTTPMetrics(prometheus.DefaultRegisterer, cfg)
}

func newHTTPMetrics(registerer prometheus.Registerer, cfg Config) *HTTPMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "gstbilling"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}
	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gstbilling_http_requests_total",
		Help:        "HTTP requests by route, method and status.",
		ConstLabels: constLabels,
	}, []string{"route", "method", "status_code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:        "gstbilling_http_request_duration_seconds",
		Help:        "HTTP request latency by route.",
		Buckets:     []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		ConstLabels: constLabels,
	}, []string{"route", "method"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name:        "gstbilling_http_failures_total",
		Help:        "Failed requests by error kind and low-cardinality storage reason.",
		ConstLabels: constLabels,
	}, []string{"route", "kind", "reason"})

	registerer.MustRegister(requests, duration, failures)

	return &HTTPMetrics{
		requests: requests,
		duration: duration,
		failures: failures,
	}
}

// GinMiddleware records request counts, latency and classified failures.
func (m *HTTPMetrics) GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m == nil {
			c.Next()
			return
		}
		start := time.Now()
		c.Next()

		route := c.FullPath()
		if route == "" {
			route = "unknown"
		}
		method := c.Request.Method
		m.requests.WithLabelValues(route, method, strconv.Itoa(c.Writer.Status())).Inc()
		m.duration.WithLabelValues(route, method).Observe(time.Since(start).Seconds())

		if lastErr := c.Errors.Last(); lastErr != nil {
			m.failures.WithLabelValues(route, errs.Classify(lastErr.Err), ClassifyFailureReason(lastErr.Err)).Inc()
		}
	}
}

// ClassifyFailureReason maps storage failures to low-cardinality reasons.
func ClassifyFailureReason(err error) string {
	if err == nil {
		return FailureReasonUnknown
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return FailureReasonDeadlineExceeded
	}
	if hasPGCode(err, "55P03") {
		return FailureReasonDBLockTimeout
	}
	if hasPGCode(err, "40001") {
		return FailureReasonSerializationFailure
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) || hasPGCode(err, "23505") {
		return FailureReasonUniqueViolation
	}
	return FailureReasonUnknown
}

func hasPGCode(err error, code string) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == code
	}
	return false
}
