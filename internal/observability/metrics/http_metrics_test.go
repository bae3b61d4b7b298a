package metrics

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	dto "github.com/prometheus/client_model/go"
	"github.com/smallbiznis/gstbilling/pkg/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestClassifyFailureReason(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"deadline", context.DeadlineExceeded, FailureReasonDeadlineExceeded},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, FailureReasonDBLockTimeout},
		{"serialization", &pgconn.PgError{Code: "40001"}, FailureReasonSerializationFailure},
		{"unique gorm", gorm.ErrDuplicatedKey, FailureReasonUniqueViolation},
		{"unique pg wrapped", errs.Storage("insert invoice", &pgconn.PgError{Code: "23505"}), FailureReasonUniqueViolation},
		{"unknown", errors.New("boom"), FailureReasonUnknown},
		{"nil", nil, FailureReasonUnknown},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, ClassifyFailureReason(tc.err))
		})
	}
}

func TestHTTPMetricsMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := newHTTPMetrics(registry, Config{ServiceName: "gstbilling", Environment: "test"})

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/invoices/:id", func(c *gin.Context) {
		_ = c.Error(errs.NotFound("invoice", c.Param("id")))
		c.Status(http.StatusNotFound)
	})

	for i := 0; i < 2; i++ {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/invoices/42", nil))
		assert.Equal(t, http.StatusNotFound, w.Code)
	}

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("/api/invoices/:id", http.MethodGet, "404")))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.failures.WithLabelValues("/api/invoices/:id", "not_found", FailureReasonUnknown)))
}

func TestHTTPMetricsObservesLatencyPerRoute(t *testing.T) {
	gin.SetMode(gin.TestMode)
	registry := prometheus.NewRegistry()
	m := newHTTPMetrics(registry, Config{ServiceName: "gstbilling", Environment: "test"})

	r := gin.New()
	r.Use(m.GinMiddleware())
	r.GET("/api/quotations", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	for i := 0; i < 3; i++ {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/quotations", nil))
	}

	histogram := findHistogram(t, registry, "gstbilling_http_request_duration_seconds", map[string]string{
		"route":   "/api/quotations",
		"method":  http.MethodGet,
		"service": "gstbilling",
		"env":     "test",
	})
	assert.Equal(t, uint64(3), histogram.GetSampleCount())
	assert.Len(t, histogram.GetBucket(), 11)
}

func findHistogram(t *testing.T, registry *prometheus.Registry, name string, labels map[string]string) *dto.Histogram {
	t.Helper()
	families, err := registry.Gather()
	require.NoError(t, err)
	for _, mf := range families {
		if mf.GetName() != name {
			continue
		}
		for _, metric := range mf.GetMetric() {
			if labelsMatch(metric, labels) {
				require.NotNil(t, metric.GetHistogram(), "metric %s is not a histogram", name)
				return metric.GetHistogram()
			}
		}
	}
	t.Fatalf("metric %s with labels %v not found", name, labels)
	return nil
}

func labelsMatch(metric *dto.Metric, labels map[string]string) bool {
	if len(metric.GetLabel()) != len(labels) {
		return false
	}
	for _, label := range metric.GetLabel() {
		if labels[label.GetName()] != label.GetValue() {
			return false
		}
	}
	return true
}
