package tracing

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	obscontext "github.com/smallbiznis/gstbilling/internal/observability/context"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/baggage"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

const tracerName = "gstbilling/http"

// GinMiddleware opens a server span per request, continuing any trace
// propagated by the caller. The span is named after the matched route.
// Client errors (4xx) leave the span status unset.
func GinMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx := ExtractContext(c.Request.Context(), propagation.HeaderCarrier(c.Request.Header))
		ctx = withRequestBaggage(ctx, obscontext.RequestIDFromContext(ctx))

		ctx, span := otel.Tracer(tracerName).Start(ctx, c.Request.Method+" "+c.Request.URL.Path,
			trace.WithSpanKind(trace.SpanKindServer),
		)
		defer span.End()

		c.Request = c.Request.WithContext(ctx)
		c.Next()

		route := c.FullPath()
		if route != "" {
			span.SetName(c.Request.Method + " " + route)
		}
		status := c.Writer.Status()
		attrs := []attribute.KeyValue{
			attribute.String("http.request.method", c.Request.Method),
			attribute.String("http.route", route),
			attribute.Int("http.response.status_code", status),
		}
		if requestID := obscontext.RequestIDFromContext(ctx); requestID != "" {
			attrs = append(attrs, attribute.String("request_id", requestID))
		}
		if id := c.Param("id"); id != "" {
			attrs = append(attrs, attribute.String("document.id", id))
		}
		span.SetAttributes(SafeAttributes(attrs...)...)

		if status < http.StatusInternalServerError {
			return
		}
		if last := c.Errors.Last(); last != nil {
			span.RecordError(SafeError(last.Err))
		}
		span.SetStatus(codes.Error, http.StatusText(status))
	}
}

func withRequestBaggage(ctx context.Context, requestID string) context.Context {
	if requestID == "" {
		return ctx
	}
	member, err := baggage.NewMember("request_id", requestID)
	if err != nil {
		return ctx
	}
	bag, err := baggage.FromContext(ctx).SetMember(member)
	if err != nil {
		return ctx
	}
	return baggage.ContextWithBaggage(ctx, bag)
}
