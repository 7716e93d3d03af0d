// Package http exposes the prediction API plus health, readiness, and
// metrics endpoints.
package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/slopewatch/landslide-risk/internal/domain"
	"github.com/slopewatch/landslide-risk/internal/observability"
	"github.com/slopewatch/landslide-risk/internal/risk"
)

// Predictor runs risk predictions. *risk.Engine satisfies it.
type Predictor interface {
	Predict(ctx context.Context, lat, lon float64) (domain.FusionResult, error)
	PredictBatch(ctx context.Context, points []risk.Point) []risk.BatchItem
}

// ReadinessChecker reports whether the service is ready to serve traffic.
type ReadinessChecker interface {
	CheckReadiness(ctx context.Context) error
}

// Server exposes the prediction API over HTTP.
type Server struct {
	httpServer *http.Server
	predictor  Predictor
	sink       risk.ResultSink
	logger     *slog.Logger
	metrics    *observability.Metrics
}

// NewServer creates an HTTP server with the prediction routes plus
// /healthz, /readyz, and /metrics. A nil sink disables publishing.
func NewServer(addr string, predictor Predictor, sink risk.ResultSink, ready ReadinessChecker, logger *slog.Logger, metrics *observability.Metrics) *Server {
	if metrics == nil {
		metrics = observability.NewMetricsForTesting()
	}
	mux := http.NewServeMux()

	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      mux,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 60 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		predictor: predictor,
		sink:      sink,
		logger:    logger,
		metrics:   metrics,
	}

	mux.HandleFunc("POST /v1/predict", s.handlePredict)
	mux.HandleFunc("POST /v1/predict/batch", s.handlePredictBatch)
	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.HandleFunc("GET /readyz", handleReady(ready))
	mux.Handle("GET /metrics", promhttp.Handler())

	return s
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type predictRequest struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

type batchRequest struct {
	Points []risk.Point `json:"points"`
}

type batchResponse struct {
	Items []risk.BatchItem `json:"items"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handlePredict(w http.ResponseWriter, r *http.Request) {
	var req predictRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	result, err := s.predictor.Predict(r.Context(), req.Latitude, req.Longitude)
	if err != nil {
		s.writePredictError(w, err)
		return
	}

	s.publish(r.Context(), result)
	writeJSON(w, http.StatusOK, result)
}

func (s *Server) handlePredictBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body: " + err.Error()})
		return
	}
	if len(req.Points) == 0 {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "points must not be empty"})
		return
	}
	if len(req.Points) > risk.MaxBatchSize {
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error: fmt.Sprintf("batch size %d exceeds maximum %d", len(req.Points), risk.MaxBatchSize),
		})
		return
	}

	items := s.predictor.PredictBatch(r.Context(), req.Points)
	for _, item := range items {
		if item.Result != nil {
			s.publish(r.Context(), *item.Result)
		}
	}
	writeJSON(w, http.StatusOK, batchResponse{Items: items})
}

func (s *Server) writePredictError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidCoordinate):
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
	case errors.Is(err, domain.ErrPredictionFailed):
		writeJSON(w, http.StatusBadGateway, errorResponse{Error: err.Error()})
	default:
		s.logger.Error("prediction failed", "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "internal error"})
	}
}

// publish sends the result to the sink best-effort. A sink outage must
// never fail a prediction the caller already has.
func (s *Server) publish(ctx context.Context, result domain.FusionResult) {
	if s.sink == nil {
		return
	}
	if err := s.sink.Publish(ctx, result); err != nil {
		s.metrics.SinkErrors.Inc()
		s.logger.Warn("result sink publish failed",
			"error", err,
			"risk_level", result.RiskLevel,
		)
		return
	}
	s.metrics.SinkPublished.Inc()
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy"})
}

func handleReady(checker ReadinessChecker) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()

		if err := checker.CheckReadiness(ctx); err != nil {
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "not ready",
				"error":  err.Error(),
			})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v) //nolint:errcheck // best-effort response write
}
