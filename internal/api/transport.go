package api

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/ccumaco/ai-frontend/internal/metrics"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

const tracerName = "github.com/ccumaco/ai-frontend/internal/api"

// RequestRecord describes one completed backend request.
type RequestRecord struct {
	ID       string
	Method   string
	Route    string
	Path     string
	Status   int // 0 when no response was received
	Duration time.Duration
	Err      string
	At       time.Time
}

// Observer receives a record for every request the client issues.
type Observer interface {
	ObserveRequest(RequestRecord)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(RequestRecord)

func (f ObserverFunc) ObserveRequest(r RequestRecord) { f(r) }

type routeKey struct{}

// withRoute tags ctx with the route template used for metric labels.
func withRoute(ctx context.Context, route string) context.Context {
	return context.WithValue(ctx, routeKey{}, route)
}

func routeFrom(ctx context.Context, fallback string) string {
	if r, ok := ctx.Value(routeKey{}).(string); ok && r != "" {
		return r
	}
	return fallback
}

// transport instruments every request with a request id, a client span,
// Prometheus metrics, a debug log line and an observer callback.
type transport struct {
	base     http.RoundTripper
	logger   *zap.Logger
	observer Observer
}

func (t *transport) RoundTrip(req *http.Request) (*http.Response, error) {
	ctx := req.Context()
	route := routeFrom(ctx, req.URL.Path)
	reqID := uuid.NewString()

	ctx, span := otel.Tracer(tracerName).Start(ctx, req.Method+" "+route,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", req.Method),
			attribute.String("http.route", route),
			attribute.String("aifront.request_id", reqID),
		),
	)
	defer span.End()

	req = req.Clone(ctx)
	req.Header.Set("X-Request-ID", reqID)
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(req.Header))

	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	rec := RequestRecord{
		ID:       reqID,
		Method:   req.Method,
		Route:    route,
		Path:     req.URL.Path,
		Duration: elapsed,
		At:       start,
	}
	statusLabel := "error"
	if err != nil {
		rec.Err = err.Error()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		rec.Status = resp.StatusCode
		statusLabel = strconv.Itoa(resp.StatusCode)
		span.SetAttributes(attribute.Int("http.status_code", resp.StatusCode))
		if resp.StatusCode >= 400 {
			span.SetStatus(codes.Error, http.StatusText(resp.StatusCode))
		}
	}

	metrics.RecordRequest(req.Method, route, statusLabel, elapsed.Seconds())
	t.logger.Debug("backend request",
		zap.String("request_id", reqID),
		zap.String("method", req.Method),
		zap.String("path", req.URL.Path),
		zap.Int("status", rec.Status),
		zap.Duration("duration", elapsed),
		zap.String("error", rec.Err),
	)
	if t.observer != nil {
		t.observer.ObserveRequest(rec)
	}
	return resp, err
}
