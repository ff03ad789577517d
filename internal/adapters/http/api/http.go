// Package api declares HTTP contracts and route registration helpers.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/okian/encore/internal/adapters/provider"
	"github.com/okian/encore/internal/adapters/repository"
	service "github.com/okian/encore/internal/app"
	"github.com/okian/encore/internal/domain/model"
	"github.com/okian/encore/internal/domain/session"
)

// Dependencies required by the HTTP handlers. An interface bundle keeps the
// handler layer loosely coupled to the service implementation.
type Dependencies interface {
	CreateSession(ctx context.Context, pctx model.PerformanceContext) (string, error)
	StartSession(ctx context.Context, sessionID string) error
	AdvanceSession(ctx context.Context, sessionID string) (*model.PerformanceEvent, error)
	ResolveEvent(ctx context.Context, sessionID, eventID string, optionIndex int) (float64, error)
	DiscardEvent(ctx context.Context, sessionID string) error
	CompleteSession(ctx context.Context, sessionID string) (*model.PerformanceResult, error)
	ReleaseSession(ctx context.Context, sessionID string) error
	SessionState(ctx context.Context, sessionID string) (service.SessionState, error)

	Result(ctx context.Context, sessionID string) (*model.PerformanceResult, error)
	History(ctx context.Context, bandID string) ([]*model.PerformanceResult, error)
	Chart(ctx context.Context, n int) ([]repository.Entry, error)
}

// StatsProvider exposes service health for the /stats endpoint.
type StatsProvider interface {
	ServiceStats(ctx context.Context) service.Stats
}

// Server wires HTTP routes for the business API.
type Server struct {
	healthHandler   *HealthHandler
	statsHandler    *StatsHandler
	sessionsHandler *SessionsHandler
	resultsHandler  *ResultsHandler
}

// NewServer creates a new API server with all handlers.
func NewServer(deps Dependencies, statsProvider StatsProvider) *Server {
	return &Server{
		healthHandler:   NewHealthHandler(),
		statsHandler:    NewStatsHandler(statsProvider),
		sessionsHandler: NewSessionsHandler(deps),
		resultsHandler:  NewResultsHandler(deps),
	}
}

// Register attaches all HTTP routes to mux.
func (s *Server) Register(ctx context.Context, mux *http.ServeMux) {
	mux.HandleFunc("/healthz", MetricsMiddleware(s.healthHandler.HandleHealth, "healthz"))
	mux.HandleFunc("/stats", MetricsMiddleware(s.statsHandler.HandleStats, "stats"))
	mux.HandleFunc("/sessions", MetricsMiddleware(s.sessionsHandler.HandleCreate, "sessions"))
	mux.HandleFunc("/sessions/", MetricsMiddleware(s.sessionsHandler.HandleSession, "sessions"))
	mux.HandleFunc("/results/", MetricsMiddleware(s.resultsHandler.HandleGetResult, "results"))
	mux.HandleFunc("/history/", MetricsMiddleware(s.resultsHandler.HandleGetHistory, "history"))
	mux.HandleFunc("/chart", MetricsMiddleware(s.resultsHandler.HandleGetChart, "chart"))
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

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// writeDomainError maps domain error kinds to HTTP statuses.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, service.ErrSessionNotFound), errors.Is(err, repository.ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", err)
	case errors.Is(err, session.ErrInvalidState):
		writeError(w, http.StatusConflict, "invalid_state", err)
	case errors.Is(err, session.ErrInvalidEvent):
		writeError(w, http.StatusConflict, "invalid_event", err)
	case errors.Is(err, repository.ErrInvalidLimit), errors.Is(err, ErrBadRequest):
		writeError(w, http.StatusBadRequest, "bad_request", err)
	case errors.Is(err, provider.ErrUnavailable), errors.Is(err, provider.ErrOutOfRange):
		writeError(w, http.StatusBadGateway, "metrics_unavailable", err)
	default:
		writeError(w, http.StatusInternalServerError, "internal", err)
	}
}
