// Package api exposes the aggregation pipeline over HTTP. External
// collectors push observation lists to POST /v1/aggregate and receive the
// canonical record back as JSON; GET /healthz reports liveness.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/matzehuels/metaforge/pkg/aggregate"
	"github.com/matzehuels/metaforge/pkg/errors"
	"github.com/matzehuels/metaforge/pkg/meta"
)

// maxBodyBytes bounds request bodies; observation lists are small.
const maxBodyBytes = 1 << 20

// Server serves the aggregation API.
type Server struct {
	aggregator *aggregate.Aggregator
	logger     *log.Logger
}

// NewServer creates a Server around an aggregator.
func NewServer(agg *aggregate.Aggregator, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{aggregator: agg, logger: logger}
}

// Router builds the HTTP routing table.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Get("/healthz", s.handleHealth)
	r.Post("/v1/aggregate", s.handleAggregate)
	return r
}

// ListenAndServe runs the server until ctx is canceled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
		return ctx.Err()
	case err := <-errCh:
		if err == http.ErrServerClosed {
			return nil
		}
		return err
	}
}

// AggregateRequest is the POST /v1/aggregate payload. Observations are
// listed in merge priority order.
type AggregateRequest struct {
	Observations []meta.Observation `json:"observations"`
}

// AggregateResponse carries the canonical record plus a request ID for
// log correlation.
type AggregateResponse struct {
	ID     string                       `json:"id"`
	Fields map[meta.FieldTag]meta.Entry `json:"fields"`
}

// ErrorResponse is the JSON error shape.
type ErrorResponse struct {
	ID    string      `json:"id,omitempty"`
	Code  errors.Code `json:"code"`
	Error string      `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAggregate(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	logger := s.logger.With("request", id)

	var req AggregateRequest
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, id, errors.Wrap(errors.ErrCodeInvalidInput, err, "parse request"))
		return
	}
	if len(req.Observations) == 0 {
		s.writeError(w, http.StatusBadRequest, id, errors.New(errors.ErrCodeInvalidInput, "no observations in request"))
		return
	}

	record, err := s.aggregator.Run(r.Context(), req.Observations)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, errors.ErrCodeInvalidInput) || errors.Is(err, errors.ErrCodeInvalidField) {
			status = http.StatusBadRequest
		}
		s.writeError(w, status, id, err)
		return
	}

	fields := make(map[meta.FieldTag]meta.Entry, record.Len())
	for _, field := range record.Fields() {
		entry, _ := record.Get(field)
		fields[field] = entry
	}
	logger.Debug("aggregated", "observations", len(req.Observations), "fields", len(fields))
	s.writeJSON(w, http.StatusOK, AggregateResponse{ID: id, Fields: fields})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, id string, err error) {
	s.writeJSON(w, status, ErrorResponse{
		ID:    id,
		Code:  errors.GetCode(err),
		Error: errors.UserMessage(err),
	})
}
