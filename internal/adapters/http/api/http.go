// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/okian/sheetcount/internal/domain/rowcount"
	"github.com/okian/sheetcount/pkg/logger"
	"github.com/okian/sheetcount/pkg/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

// Route paths.
const (
	RowCountPath = "/sheets/row-count"
	HealthPath   = "/healthz"
	MetricsPath  = "/metrics"
)

// Dependencies required by HTTP handlers.
type Dependencies interface {
	// RowCount performs one lookup of the configured range.
	RowCount(ctx context.Context) (rowcount.Result, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	rowCountHandler *RowCountHandler
	healthHandler   *HealthHandler
	metricsHandler  http.Handler

	metrics *metrics.Manager
	logger  logger.Logger
}

// ServerOption applies a configuration option to the Server.
type ServerOption func(*Server)

// WithMetrics sets the manager used by the metrics middleware.
func WithMetrics(m *metrics.Manager) ServerOption {
	return func(s *Server) {
		if m != nil {
			s.metrics = m
		}
	}
}

// WithGatherer sets the registry exposed on /metrics.
func WithGatherer(g prometheus.Gatherer) ServerOption {
	return func(s *Server) {
		if g != nil {
			s.metricsHandler = newMetricsHandler(g)
		}
	}
}

// WithLogger sets the request logger.
func WithLogger(l logger.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, opts ...ServerOption) *Server {
	s := &Server{
		healthHandler:  NewHealthHandler(),
		metricsHandler: newMetricsHandler(metrics.GetRegistry()),
		metrics:        metrics.Default(),
		logger:         logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.rowCountHandler = NewRowCountHandler(deps)
	return s
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(_ context.Context, mux *http.ServeMux) {
	if mux == nil {
		panic("mux is nil")
	}
	mux.Handle(RowCountPath, s.wrap(s.rowCountHandler.HandleRowCount, "row_count"))
	mux.Handle(HealthPath, s.wrap(s.healthHandler.HandleHealth, "healthz"))
	mux.Handle(MetricsPath, s.metricsHandler)
	mux.Handle("/", s.wrap(handleNotFound, "not_found"))
}

// handleNotFound answers every unregistered path with the JSON error envelope.
func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "")
}

func (s *Server) wrap(h http.HandlerFunc, endpoint string) http.Handler {
	return RequestMiddleware(s.logger, MetricsMiddleware(s.metrics, h, endpoint))
}

type errorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	if msg == "" {
		msg = http.StatusText(status)
	}
	writeJSON(w, status, errorResponse{Success: false, Error: msg})
}

// allowMethod writes 405 and reports false unless r uses method.
func allowMethod(w http.ResponseWriter, r *http.Request, method string) bool {
	if r.Method == method {
		return true
	}
	w.Header().Set("Allow", method)
	writeError(w, http.StatusMethodNotAllowed, "method "+r.Method+" not allowed")
	return false
}
