package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// defaultChartLimit applies when GET /chart has no limit parameter.
const defaultChartLimit = 10

// ResultsHandler serves persisted results and the performance chart.
type ResultsHandler struct {
	deps Dependencies
}

// NewResultsHandler creates a new results handler.
func NewResultsHandler(deps Dependencies) *ResultsHandler {
	return &ResultsHandler{deps: deps}
}

// HandleGetResult handles GET /results/{session_id}.
func (h *ResultsHandler) HandleGetResult(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	sessionID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/results/"), "/")
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing session id"))
		return
	}
	result, err := h.deps.Result(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleGetHistory handles GET /history/{band_id}.
func (h *ResultsHandler) HandleGetHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	bandID := strings.Trim(strings.TrimPrefix(r.URL.Path, "/history/"), "/")
	if bandID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing band id"))
		return
	}
	history, err := h.deps.History(r.Context(), bandID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, history)
}

// HandleGetChart handles GET /chart?limit=N.
func (h *ResultsHandler) HandleGetChart(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	limit := defaultChartLimit
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "bad_request", errors.New("limit must be an integer"))
			return
		}
		limit = parsed
	}
	entries, err := h.deps.Chart(r.Context(), limit)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
