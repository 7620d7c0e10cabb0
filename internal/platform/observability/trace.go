package observability

import (
	"context"
	"net/http"
	"strings"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"
	"go.opentelemetry.io/otel/trace"
)

var tracer = otel.Tracer("github.com/antiquebooks/api/internal/platform/observability")

// TraceMiddleware starts a server span per request so downstream log entries
// and span attributes share a trace id.
func TraceMiddleware() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if next == nil {
			next = http.HandlerFunc(func(http.ResponseWriter, *http.Request) {})
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, span := tracer.Start(r.Context(), spanNameFromRequest(r), trace.WithSpanKind(trace.SpanKindServer))
			span.SetAttributes(standardSpanAttributes(r)...)
			defer span.End()

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// TraceID returns the active trace id from context, or "" when no span is recording.
func TraceID(ctx context.Context) string {
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.HasTraceID() {
		return ""
	}
	return spanCtx.TraceID().String()
}

func spanNameFromRequest(r *http.Request) string {
	if r == nil {
		return "HTTP"
	}
	method := SanitizeMethod(r.Method)
	path := "/"
	if r.URL != nil && r.URL.Path != "" {
		path = SanitizeRoute(r.URL.Path)
	}
	return strings.TrimSpace(method + " " + path)
}

func standardSpanAttributes(r *http.Request) []attribute.KeyValue {
	attrs := []attribute.KeyValue{
		semconv.HTTPRequestMethodKey.String(SanitizeMethod(r.Method)),
	}
	if r.URL != nil {
		attrs = append(attrs, semconv.URLPath(SanitizeRoute(r.URL.Path)))
	}
	if host := strings.TrimSpace(r.Host); host != "" {
		attrs = append(attrs, semconv.ServerAddress(sanitizeString(host, 120)))
	}
	return attrs
}
