package server

import (
	"context"
	"net/http"
	"strings"

	"github.com/Adda-Baaj/unit-service/internal/logger"
	"github.com/Adda-Baaj/unit-service/internal/metrics"
	"github.com/Adda-Baaj/unit-service/internal/tracing"
	"github.com/felixge/httpsnoop"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
)

// RequestIDHeader carries the per-request correlation id.
const RequestIDHeader = "X-Request-ID"

type ctxKey struct{}

// RequestIDFrom returns the request id stored by the requestID middleware.
func RequestIDFrom(ctx context.Context) string {
	id, _ := ctx.Value(ctxKey{}).(string)
	return id
}

func requestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimSpace(r.Header.Get(RequestIDHeader))
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), ctxKey{}, id)))
	})
}

// routeOf resolves the registered pattern so labels stay low-cardinality.
func routeOf(mux *http.ServeMux, r *http.Request) string {
	if _, pattern := mux.Handler(r); pattern != "" {
		return pattern
	}
	return "unmatched"
}

func traced(mux *http.ServeMux, next http.Handler) http.Handler {
	tracer := tracing.Tracer("github.com/Adda-Baaj/unit-service/internal/server")
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := otel.GetTextMapPropagator().Extract(r.Context(), propagation.HeaderCarrier(r.Header))
		ctx, span := tracer.Start(ctx, routeOf(mux, r), trace.WithSpanKind(trace.SpanKindServer))
		defer span.End()

		span.SetAttributes(
			attribute.String("http.method", r.Method),
			attribute.String("http.target", r.URL.RequestURI()),
			attribute.String("request.id", RequestIDFrom(ctx)),
		)

		m := httpsnoop.CaptureMetrics(next, w, r.WithContext(ctx))
		span.SetAttributes(attribute.Int("http.status_code", m.Code))
		if m.Code >= http.StatusInternalServerError {
			span.SetStatus(codes.Error, http.StatusText(m.Code))
		}
	})
}

// observe logs every request and records Prometheus metrics when enabled.
func observe(mux *http.ServeMux, m *metrics.Metrics, log logger.Logger, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := routeOf(mux, r)
		done := m.RequestStarted()

		snoop := httpsnoop.CaptureMetrics(next, w, r)

		done(r.Method, route, snoop.Code, snoop.Duration.Seconds())
		log.InfoObj("request completed", "http_request", map[string]any{
			"method":     r.Method,
			"path":       r.URL.Path,
			"route":      route,
			"status":     snoop.Code,
			"elapsed_ms": float64(snoop.Duration.Microseconds()) / 1000,
			"bytes":      snoop.Written,
			"request_id": RequestIDFrom(r.Context()),
		})
	})
}

// rateLimit rejects requests beyond the per-host budget. Health and metrics probes are exempt.
func rateLimit(l *hostLimiter, m *metrics.Metrics, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" || r.URL.Path == "/metrics" {
			next.ServeHTTP(w, r)
			return
		}
		if !l.Allow(r.Host) {
			m.RateLimited()
			w.Header().Set("Retry-After", "60")
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}
