// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/okian/momentum/internal/adapters/repository"
	service "github.com/okian/momentum/internal/app"
	"github.com/okian/momentum/internal/domain/model"
)

// maxBodyBytes bounds request bodies carrying a match record.
const maxBodyBytes = 8 << 20

// Dependencies required by HTTP handlers. Using an interface bundle keeps
// the handler layer loosely coupled to implementations in other packages.
type Dependencies interface {
	ListMatches(ctx context.Context) ([]model.MatchSummary, error)
	Match(ctx context.Context, id string) (model.Match, error)
	Momentum(ctx context.Context, id string) (model.MomentumOutput, error)
	Compute(ctx context.Context, m model.Match) (model.MomentumOutput, error)
	Register(ctx context.Context, m model.Match) (model.Match, error)
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	matchesHandler  *MatchesHandler
	momentumHandler *MomentumHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		matchesHandler:  NewMatchesHandler(deps),
		momentumHandler: NewMomentumHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/matches", MetricsMiddleware(s.matchesHandler.HandleMatches, "matches"))
	mux.HandleFunc("/matches/", MetricsMiddleware(s.matchesHandler.HandleMatch, "match"))
	mux.HandleFunc("/momentum", MetricsMiddleware(s.momentumHandler.HandlePostMomentum, "momentum"))
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError classifies err by kind and writes the matching status.
func writeError(w http.ResponseWriter, err error) {
	status, code := statusOf(err)
	writeJSON(w, status, errorResponse{Code: code, Message: err.Error()})
}

// kindOf maps upstream sentinels onto API kinds.
func kindOf(err error) error {
	switch {
	case errors.Is(err, ErrTooLarge):
		return ErrTooLarge
	case errors.Is(err, ErrBadRequest), errors.Is(err, model.ErrInvalidMatch):
		return ErrBadRequest
	case errors.Is(err, ErrNotFound), errors.Is(err, repository.ErrNotFound):
		return ErrNotFound
	case errors.Is(err, ErrUnavailable), errors.Is(err, service.ErrNotStarted),
		errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrUnavailable
	}
	return ErrInternal
}

func statusOf(err error) (int, string) {
	switch kindOf(err) {
	case ErrBadRequest:
		return http.StatusBadRequest, "bad_request"
	case ErrTooLarge:
		return http.StatusRequestEntityTooLarge, "too_large"
	case ErrNotFound:
		return http.StatusNotFound, "not_found"
	case ErrUnavailable:
		return http.StatusServiceUnavailable, "unavailable"
	}
	return http.StatusInternalServerError, "internal_error"
}

// decodeMatch reads a match record from the request body and validates it.
func decodeMatch(op string, w http.ResponseWriter, r *http.Request) (model.Match, error) {
	var m model.Match
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(&m); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return model.Match{}, WrapKind(op, ErrTooLarge, fmt.Errorf("decode match: %w", err))
		}
		return model.Match{}, WrapKind(op, ErrBadRequest, fmt.Errorf("decode match: %w", err))
	}
	if err := m.Validate(); err != nil {
		return model.Match{}, WrapKind(op, ErrBadRequest, err)
	}
	return m, nil
}
