package observability

import (
	"context"
	"fmt"
	"net/http"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/promostore/storefront/internal/platform/requestctx"
)

// TraceIDHeader echoes the active trace id back to clients for support requests.
const TraceIDHeader = "X-Trace-Id"

var (
	tracer     = otel.Tracer("github.com/promostore/storefront/internal/platform/observability")
	propagator = propagation.TraceContext{}
)

// TraceMiddleware continues an inbound W3C traceparent when present, starts a
// server span and records the trace identifiers on the request context.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := propagator.Extract(r.Context(), propagation.HeaderCarrier(r.Header))

			ctx, span := tracer.Start(ctx, spanNameFromRequest(r), trace.WithSpanKind(trace.SpanKindServer))
			defer span.End()
			span.SetAttributes(standardSpanAttributes(r)...)

			info := traceInfoFromSpan(span.SpanContext())
			if info.TraceID == "" {
				// No SDK is installed; keep any upstream identifiers for log correlation.
				info = traceInfoFromSpan(trace.SpanContextFromContext(ctx))
			}
			ctx = requestctx.WithTrace(ctx, info)
			if info.TraceID != "" {
				w.Header().Set(TraceIDHeader, info.TraceID)
			}

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func traceInfoFromSpan(sc trace.SpanContext) requestctx.TraceInfo {
	if !sc.IsValid() {
		return requestctx.TraceInfo{}
	}
	return requestctx.TraceInfo{
		TraceID: sc.TraceID().String(),
		SpanID:  sc.SpanID().String(),
		Sampled: sc.IsSampled(),
	}
}

func traceIDFromContext(ctx context.Context) string {
	return requestctx.TraceID(ctx)
}

func spanNameFromRequest(r *http.Request) string {
	path := r.URL.Path
	if path == "" {
		path = "/"
	}
	return fmt.Sprintf("%s %s", r.Method, path)
}

func standardSpanAttributes(r *http.Request) []attribute.KeyValue {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	attrs := []attribute.KeyValue{
		attribute.String("http.request.method", r.Method),
		attribute.String("url.scheme", scheme),
	}
	if path := r.URL.Path; path != "" {
		attrs = append(attrs, attribute.String("url.path", path))
	}
	if host := r.Host; host != "" {
		attrs = append(attrs, attribute.String("server.address", host))
	}
	if ua := r.UserAgent(); ua != "" {
		attrs = append(attrs, attribute.String("user_agent.original", ua))
	}
	return attrs
}
