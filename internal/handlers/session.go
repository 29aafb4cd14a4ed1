package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/jwebster45206/food-guardian/internal/logger"
	"github.com/jwebster45206/food-guardian/internal/storage"
	"github.com/jwebster45206/food-guardian/pkg/resolver"
	"github.com/jwebster45206/food-guardian/pkg/session"
	"github.com/jwebster45206/food-guardian/pkg/story"
)

const sessionsPath = "/v1/sessions"

// CreateSessionRequest defines the request body for starting a playthrough
type CreateSessionRequest struct {
	PlayerName string `json:"player_name"`
}

type SelectChoiceRequest struct {
	Index *int `json:"index"`
}

type SelectChoiceResponse struct {
	State  session.State   `json:"state"`
	Result resolver.Result `json:"result"`
}

// MediaEventRequest reports the outcome of a media command.
type MediaEventRequest struct {
	Event string `json:"event"` // "ended" or "error"
	Error string `json:"error,omitempty"`
}

type SessionHandler struct {
	graph   *story.Graph
	storage storage.Storage
	logger  *slog.Logger

	// one lock per session id serializes load-modify-save
	locks *sessionLocks
}

func NewSessionHandler(graph *story.Graph, storage storage.Storage, logger *slog.Logger) *SessionHandler {
	return &SessionHandler{
		graph:   graph,
		storage: storage,
		logger:  logger,
		locks:   newSessionLocks(),
	}
}

// ServeHTTP handles HTTP requests for session operations
// Routes:
// POST   /v1/sessions               - Start a new session
// GET    /v1/sessions/{id}          - Read session state
// DELETE /v1/sessions/{id}          - Delete session
// POST   /v1/sessions/{id}/choices  - Select a choice on the current node
// POST   /v1/sessions/{id}/continue - Acknowledge feedback and advance
// POST   /v1/sessions/{id}/results  - End the story from a node with no choices
// POST   /v1/sessions/{id}/media    - Report intro media ended or failed
func (h *SessionHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")

	path := strings.Trim(strings.TrimPrefix(r.URL.Path, sessionsPath), "/")
	if path == "" {
		if r.Method != http.MethodPost {
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
			return
		}
		h.handleCreate(w, r)
		return
	}

	parts := strings.Split(path, "/")
	if len(parts) > 2 {
		writeError(w, h.logger, http.StatusNotFound, "Unknown session route")
		return
	}

	id, err := uuid.Parse(parts[0])
	if err != nil {
		h.logger.Warn("Invalid session ID", "id", parts[0], "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid session ID format")
		return
	}

	if len(parts) == 1 {
		switch r.Method {
		case http.MethodGet:
			h.handleRead(w, r, id)
		case http.MethodDelete:
			h.handleDelete(w, r, id)
		default:
			writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: GET, DELETE")
		}
		return
	}

	if r.Method != http.MethodPost {
		writeError(w, h.logger, http.StatusMethodNotAllowed, "Method not allowed. Supported methods: POST")
		return
	}

	switch parts[1] {
	case "choices":
		h.handleSelectChoice(w, r, id)
	case "continue":
		h.handleAction(w, r, id, "continue", (*session.Session).Continue)
	case "results":
		h.handleAction(w, r, id, "view results", (*session.Session).ViewResults)
	case "media":
		h.handleMedia(w, r, id)
	default:
		writeError(w, h.logger, http.StatusNotFound, "Unknown session route")
	}
}

func (h *SessionHandler) handleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateSessionRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			h.logger.Warn("Invalid JSON in request body", "error", err)
			writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
			return
		}
	}
	req.PlayerName = strings.TrimSpace(req.PlayerName)

	s := session.New(h.graph, req.PlayerName, h.logger)
	st := s.State()
	if err := h.storage.SaveSession(r.Context(), &st); err != nil {
		h.logger.Error("Failed to save new session", "error", err, "session_id", st.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to create session")
		return
	}

	h.logger.Info("Session created", "session_id", st.ID, "player_name", st.PlayerName)
	writeJSON(w, h.logger, http.StatusCreated, st)
}

func (h *SessionHandler) handleRead(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	st, ok := h.load(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, st)
}

func (h *SessionHandler) handleDelete(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	unlock := h.lock(id)
	defer unlock()

	if err := h.storage.DeleteSession(r.Context(), id); err != nil {
		h.logger.Error("Failed to delete session", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to delete session")
		return
	}
	h.logger.Debug("Session deleted", "session_id", id)
	w.WriteHeader(http.StatusNoContent)
}

func (h *SessionHandler) handleSelectChoice(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req SelectChoiceRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in choice request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Index == nil {
		writeError(w, h.logger, http.StatusBadRequest, "index field is required")
		return
	}

	unlock := h.lock(id)
	defer unlock()

	s, ok := h.restore(w, r, id)
	if !ok {
		return
	}
	res, err := s.SelectChoice(*req.Index)
	if err != nil {
		h.writeTransitionError(w, id, err)
		return
	}
	st, ok := h.save(w, r, s)
	if !ok {
		return
	}
	writeJSON(w, h.logger, http.StatusOK, SelectChoiceResponse{State: st, Result: res})
}

func (h *SessionHandler) handleAction(w http.ResponseWriter, r *http.Request, id uuid.UUID, name string, action func(*session.Session) error) {
	unlock := h.lock(id)
	defer unlock()

	s, ok := h.restore(w, r, id)
	if !ok {
		return
	}
	if err := action(s); err != nil {
		h.writeTransitionError(w, id, err)
		return
	}
	st, ok := h.save(w, r, s)
	if !ok {
		return
	}
	h.logger.Debug("Session action applied", "session_id", id, "action", name, "phase", st.Phase)
	writeJSON(w, h.logger, http.StatusOK, st)
}

func (h *SessionHandler) handleMedia(w http.ResponseWriter, r *http.Request, id uuid.UUID) {
	var req MediaEventRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Warn("Invalid JSON in media request", "error", err)
		writeError(w, h.logger, http.StatusBadRequest, "Invalid JSON in request body")
		return
	}
	if req.Event != "ended" && req.Event != "error" {
		writeError(w, h.logger, http.StatusBadRequest, "event must be 'ended' or 'error'")
		return
	}

	h.handleAction(w, r, id, "media "+req.Event, func(s *session.Session) error {
		if req.Event == "ended" {
			s.HandleMediaEnd()
		} else {
			s.HandleMediaError(errors.New(req.Error))
		}
		return nil
	})
}

func (h *SessionHandler) load(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*session.State, bool) {
	st, err := h.storage.LoadSession(r.Context(), id)
	if err != nil {
		h.logger.Error("Failed to load session", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to load session")
		return nil, false
	}
	if st == nil {
		h.logger.Warn("Session not found", "session_id", id)
		writeError(w, h.logger, http.StatusNotFound, "Session not found")
		return nil, false
	}
	return st, true
}

func (h *SessionHandler) restore(w http.ResponseWriter, r *http.Request, id uuid.UUID) (*session.Session, bool) {
	st, ok := h.load(w, r, id)
	if !ok {
		return nil, false
	}
	s, err := session.Restore(h.graph, *st, logger.WithSessionID(h.logger, id))
	if err != nil {
		h.logger.Error("Stored session does not match the loaded story", "error", err, "session_id", id)
		writeError(w, h.logger, http.StatusInternalServerError, "Stored session is incompatible with the loaded story")
		return nil, false
	}
	return s, true
}

func (h *SessionHandler) save(w http.ResponseWriter, r *http.Request, s *session.Session) (session.State, bool) {
	st := s.State()
	if err := h.storage.SaveSession(r.Context(), &st); err != nil {
		h.logger.Error("Failed to save session", "error", err, "session_id", st.ID)
		writeError(w, h.logger, http.StatusInternalServerError, "Failed to save session")
		return session.State{}, false
	}
	return st, true
}

func (h *SessionHandler) writeTransitionError(w http.ResponseWriter, id uuid.UUID, err error) {
	switch {
	case errors.Is(err, session.ErrChoiceOutOfRange):
		h.logger.Warn("Choice out of range", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusBadRequest, err.Error())
	case errors.Is(err, session.ErrIllegalTransition):
		h.logger.Warn("Illegal session transition", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusConflict, err.Error())
	default:
		h.logger.Error("Session action failed", "session_id", id, "error", err)
		writeError(w, h.logger, http.StatusInternalServerError, "Session action failed")
	}
}

func (h *SessionHandler) lock(id uuid.UUID) func() {
	return h.locks.lock(id)
}
