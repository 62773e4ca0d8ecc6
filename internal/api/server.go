// Package api serves stock reports over HTTP as JSON.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"

	"stockfetcher/internal/aggregator"
)

// RequestIDHeader carries the per-request id on every response.
const RequestIDHeader = "X-Request-ID"

// Service builds the reports the handlers serve. *aggregator.Aggregator
// implements it.
type Service interface {
	Stock(ctx context.Context, ticker string, opts aggregator.Options) (*aggregator.Report, error)
	Popular(ctx context.Context) []*aggregator.Report
	Search(ctx context.Context, query string) []*aggregator.Report
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// Server routes the public endpoints to a Service.
type Server struct {
	service Service
	logger  *slog.Logger
	mux     *http.ServeMux
}

// NewServer creates the HTTP API for service.
func NewServer(service Service, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	s := &Server{
		service: service,
		logger:  logger,
		mux:     http.NewServeMux(),
	}
	s.mux.HandleFunc("GET /healthz", s.handleHealth)
	s.mux.HandleFunc("GET /api/stocks", s.handlePopular)
	s.mux.HandleFunc("GET /api/stocks/{symbol}", s.handleStock)
	s.mux.HandleFunc("GET /api/search", s.handleSearch)
	return s
}

// Handler returns the routed handler wrapped in request id, logging and
// panic recovery.
func (s *Server) Handler() http.Handler {
	return s.withRequestContext(s.mux)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down,
// giving in-flight requests a few seconds to finish.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.logger.Info("server stopped")
	return nil
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePopular(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.service.Popular(r.Context()))
}

func (s *Server) handleStock(w http.ResponseWriter, r *http.Request) {
	report, err := s.service.Stock(r.Context(), r.PathValue("symbol"), aggregator.Options{
		News:        true,
		Performance: true,
	})
	switch {
	case errors.Is(err, aggregator.ErrInvalidTicker):
		s.writeError(w, r, http.StatusBadRequest, "invalid_ticker", "Invalid ticker symbol")
	case err != nil:
		s.logger.Error("stock report failed", "request_id", requestID(r), "error", err)
		s.writeError(w, r, http.StatusInternalServerError, "internal", "Internal server error")
	case report.Empty():
		s.writeError(w, r, http.StatusNotFound, "not_found", "Stock not found")
	default:
		s.writeJSON(w, r, http.StatusOK, report)
	}
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, s.service.Search(r.Context(), r.URL.Query().Get("q")))
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, status int, code, message string) {
	s.writeJSON(w, r, status, ErrorResponse{Error: code, Message: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Warn("failed to write response", "request_id", requestID(r), "error", err)
	}
}

type requestIDKey struct{}

func requestID(r *http.Request) string {
	id, _ := r.Context().Value(requestIDKey{}).(string)
	return id
}

// statusRecorder remembers the status code written through it.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (rec *statusRecorder) WriteHeader(status int) {
	rec.status = status
	rec.ResponseWriter.WriteHeader(status)
}

func (s *Server) withRequestContext(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(RequestIDHeader)
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set(RequestIDHeader, id)
		w.Header().Set("Access-Control-Allow-Origin", "*")
		r = r.WithContext(context.WithValue(r.Context(), requestIDKey{}, id))

		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		start := time.Now()

		defer func() {
			if p := recover(); p != nil {
				s.logger.Error("handler panicked", "request_id", id, "panic", p)
				s.writeError(rec, r, http.StatusInternalServerError, "internal", "Internal server error")
			}
			s.logger.Info("request",
				"request_id", id,
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"elapsed", time.Since(start))
		}()

		next.ServeHTTP(rec, r)
	})
}
