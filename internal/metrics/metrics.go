// Package metrics provides Prometheus metrics instrumentation.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	// APIRequestDuration tracks backend request duration.
	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "aifront_api_request_duration_seconds",
			Help:    "Backend request duration in seconds",
			Buckets: []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		},
		[]string{"method", "route", "status"},
	)

	// APIRequestsTotal tracks total backend requests.
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifront_api_requests_total",
			Help: "Total backend requests",
		},
		[]string{"method", "route", "status"},
	)

	// DispatchesTotal tracks collection store operations by outcome.
	DispatchesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifront_store_dispatches_total",
			Help: "Collection store operations by outcome",
		},
		[]string{"collection", "op", "outcome"},
	)

	// MessagesSentTotal tracks chat sends by outcome.
	MessagesSentTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifront_messages_sent_total",
			Help: "Chat messages sent by outcome",
		},
		[]string{"outcome"},
	)

	// GenerationTokensTotal tracks tokens reported by the backend for generations.
	GenerationTokensTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifront_generation_tokens_total",
			Help: "Tokens reported by the backend for generations",
		},
		[]string{"model", "direction"},
	)

	// ContextFileOpsTotal tracks context file uploads and deletes by outcome.
	ContextFileOpsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "aifront_context_file_ops_total",
			Help: "Context file operations by outcome",
		},
		[]string{"op", "outcome"},
	)
)

// Outcome returns the outcome label for err.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}

// RecordRequest records metrics for a backend request.
func RecordRequest(method, route, status string, duration float64) {
	APIRequestDuration.WithLabelValues(method, route, status).Observe(duration)
	APIRequestsTotal.WithLabelValues(method, route, status).Inc()
}

// RecordDispatch records a collection store operation.
func RecordDispatch(collection, op string, err error) {
	DispatchesTotal.WithLabelValues(collection, op, Outcome(err)).Inc()
}

// RecordGeneration records token usage reported for a generation.
func RecordGeneration(model string, promptTokens, completionTokens int) {
	GenerationTokensTotal.WithLabelValues(model, "in").Add(float64(promptTokens))
	GenerationTokensTotal.WithLabelValues(model, "out").Add(float64(completionTokens))
}

// Server exposes the default registry on /metrics.
type Server struct {
	srv    *http.Server
	logger *zap.Logger
}

// NewServer returns a metrics server for addr. An empty addr yields a
// server whose Start and Stop are no-ops.
func NewServer(addr string, logger *zap.Logger) *Server {
	if addr == "" {
		return &Server{logger: logger}
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           mux,
			ReadHeaderTimeout: 5 * time.Second,
		},
		logger: logger,
	}
}

// Start serves in the background.
func (s *Server) Start() {
	if s.srv == nil {
		return
	}
	go func() {
		s.logger.Info("metrics listening", zap.String("addr", s.srv.Addr))
		if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error("metrics server error", zap.Error(err))
		}
	}()
}

// Stop shuts the server down.
func (s *Server) Stop(ctx context.Context) error {
	if s.srv == nil {
		return nil
	}
	return s.srv.Shutdown(ctx)
}
