package api

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/okian/encore/internal/domain/model"
)

// SessionsHandler handles the session lifecycle endpoints.
type SessionsHandler struct {
	deps Dependencies
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies) *SessionsHandler {
	return &SessionsHandler{deps: deps}
}

// createSessionRequest mirrors the POST /sessions body.
type createSessionRequest struct {
	BandID       string  `json:"band_id"`
	Venue        string  `json:"venue"`
	BasePayment  float64 `json:"base_payment"`
	BaseFame     float64 `json:"base_fame"`
	BaseMerch    float64 `json:"base_merch"`
	AudienceSize int     `json:"audience_size"`
}

func (r createSessionRequest) validate() error {
	switch {
	case strings.TrimSpace(r.BandID) == "":
		return errors.New("missing band_id")
	case r.BasePayment < 0 || r.BaseFame < 0 || r.BaseMerch < 0:
		return errors.New("reward baselines must be non-negative")
	case r.AudienceSize < 0:
		return errors.New("audience_size must be non-negative")
	}
	return nil
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
}

type resolveEventRequest struct {
	EventID     string `json:"event_id"`
	OptionIndex int    `json:"option_index"`
}

type advanceResponse struct {
	PhaseIndex  int                     `json:"phase_index"`
	Phase       model.Phase             `json:"phase"`
	CrowdEnergy float64                 `json:"crowd_energy"`
	Event       *model.PerformanceEvent `json:"event,omitempty"`
}

type energyResponse struct {
	CrowdEnergy float64 `json:"crowd_energy"`
}

type statusResponse struct {
	Status string `json:"status"`
}

// HandleCreate handles POST /sessions.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	var req createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if err := req.validate(); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	id, err := h.deps.CreateSession(r.Context(), model.PerformanceContext{
		BandID:       req.BandID,
		Venue:        req.Venue,
		BasePayment:  req.BasePayment,
		BaseFame:     req.BaseFame,
		BaseMerch:    req.BaseMerch,
		AudienceSize: req.AudienceSize,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, createSessionResponse{SessionID: id})
}

// HandleSession dispatches /sessions/{id} and /sessions/{id}/{action}.
func (h *SessionsHandler) HandleSession(w http.ResponseWriter, r *http.Request) {
	rest := strings.TrimPrefix(r.URL.Path, "/sessions/")
	parts := strings.SplitN(strings.Trim(rest, "/"), "/", 2)
	sessionID := parts[0]
	if sessionID == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing session id"))
		return
	}

	action := ""
	if len(parts) == 2 {
		action = parts[1]
	}

	switch {
	case action == "" && r.Method == http.MethodGet:
		h.state(w, r, sessionID)
	case action == "" && r.Method == http.MethodDelete:
		h.release(w, r, sessionID)
	case action == "start" && r.Method == http.MethodPost:
		h.start(w, r, sessionID)
	case action == "advance" && r.Method == http.MethodPost:
		h.advance(w, r, sessionID)
	case action == "event" && r.Method == http.MethodPost:
		h.resolve(w, r, sessionID)
	case action == "event" && r.Method == http.MethodDelete:
		h.discard(w, r, sessionID)
	case action == "complete" && r.Method == http.MethodPost:
		h.complete(w, r, sessionID)
	default:
		http.NotFound(w, r)
	}
}

func (h *SessionsHandler) state(w http.ResponseWriter, r *http.Request, sessionID string) {
	state, err := h.deps.SessionState(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *SessionsHandler) release(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.deps.ReleaseSession(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "released"})
}

func (h *SessionsHandler) start(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.deps.StartSession(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}
	state, err := h.deps.SessionState(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, state)
}

func (h *SessionsHandler) advance(w http.ResponseWriter, r *http.Request, sessionID string) {
	ev, err := h.deps.AdvanceSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	state, err := h.deps.SessionState(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, advanceResponse{
		PhaseIndex:  state.PhaseIndex,
		Phase:       state.Phase,
		CrowdEnergy: state.CrowdEnergy,
		Event:       ev,
	})
}

func (h *SessionsHandler) resolve(w http.ResponseWriter, r *http.Request, sessionID string) {
	var req resolveEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", err)
		return
	}
	if strings.TrimSpace(req.EventID) == "" {
		writeError(w, http.StatusBadRequest, "bad_request", errors.New("missing event_id"))
		return
	}
	e, err := h.deps.ResolveEvent(r.Context(), sessionID, req.EventID, req.OptionIndex)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, energyResponse{CrowdEnergy: e})
}

func (h *SessionsHandler) discard(w http.ResponseWriter, r *http.Request, sessionID string) {
	if err := h.deps.DiscardEvent(r.Context(), sessionID); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, statusResponse{Status: "discarded"})
}

func (h *SessionsHandler) complete(w http.ResponseWriter, r *http.Request, sessionID string) {
	result, err := h.deps.CompleteSession(r.Context(), sessionID)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}
