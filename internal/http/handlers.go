package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/rs/zerolog"

	"clinic-intake/internal/core"
	"clinic-intake/internal/db"
	"clinic-intake/internal/triage"
	"clinic-intake/pkg"
)

// Store is the slice of the repository the HTTP handlers need.
// *db.Repository satisfies it; tests substitute an in-memory implementation.
type Store interface {
	Ping(ctx context.Context) error
	CreateSession(ctx context.Context, messageCap int) (*pkg.IntakeSession, error)
	GetSession(ctx context.Context, sessionID string) (*pkg.IntakeSession, error)
	CloseSession(ctx context.Context, sessionID string) error
	AppendMessage(ctx context.Context, sessionID string, role pkg.MessageRole, content string) (*pkg.Message, error)
	ListMessages(ctx context.Context, sessionID string) ([]pkg.Message, error)
	CountPatientMessages(ctx context.Context, sessionID string) (int, error)
	ListPatients(ctx context.Context) ([]pkg.PatientRecord, error)
}

// Server bundles together the dependencies required by HTTP handlers. It
// implements http.Handler so it can be passed to http.ListenAndServe.
type Server struct {
	Store       Store
	Chat        *core.IntakeChat
	Coordinator *triage.Coordinator
	MessageCap  int
	Log         zerolog.Logger
}

func NewServer(store Store, chat *core.IntakeChat, coordinator *triage.Coordinator, messageCap int, logger zerolog.Logger) *Server {
	return &Server{
		Store:       store,
		Chat:        chat,
		Coordinator: coordinator,
		MessageCap:  messageCap,
		Log:         logger,
	}
}

// ServeHTTP dispatches incoming requests based on the URL path. Minimal
// routing logic is implemented here to keep dependencies light.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	path := r.URL.Path
	switch {
	// Create a new intake session: POST /api/sessions
	case path == "/api/sessions" && r.Method == http.MethodPost:
		s.handleCreateSession(w, r)
		return
	// Post a patient message: POST /api/sessions/{id}/messages
	case strings.HasPrefix(path, "/api/sessions/") && strings.HasSuffix(path, "/messages") && r.Method == http.MethodPost:
		if id, ok := sessionID(path); ok {
			s.handlePostMessage(w, r, id)
			return
		}
	// Complete an intake: POST /api/sessions/{id}/complete
	case strings.HasPrefix(path, "/api/sessions/") && strings.HasSuffix(path, "/complete") && r.Method == http.MethodPost:
		if id, ok := sessionID(path); ok {
			s.handleComplete(w, r, id)
			return
		}
	// List stored patient records: GET /api/patients
	case path == "/api/patients" && r.Method == http.MethodGet:
		s.handleListPatients(w, r)
		return
	case path == "/healthz" && r.Method == http.MethodGet:
		s.handleHealth(w, r)
		return
	}
	http.NotFound(w, r)
}

// sessionID extracts the session ID from /api/sessions/{id}/...
func sessionID(path string) (string, bool) {
	parts := strings.Split(path, "/")
	if len(parts) < 4 || parts[3] == "" {
		return "", false
	}
	return parts[3], true
}

// handleCreateSession opens a new intake session and returns its ID together
// with the assistant's greeting, which is also stored as the first turn.
func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sess, err := s.Store.CreateSession(ctx, s.MessageCap)
	if err != nil {
		s.Log.Error().Err(err).Msg("create session failed")
		s.writeError(w, http.StatusInternalServerError, "We could not start your intake right now. Please try again.")
		return
	}
	if _, err := s.Store.AppendMessage(ctx, sess.ID, pkg.RoleAssistant, core.FirstMessage); err != nil {
		s.Log.Error().Err(err).Str("session_id", sess.ID).Msg("store greeting failed")
	}
	s.writeJSON(w, http.StatusCreated, map[string]interface{}{
		"session_id": sess.ID,
		"greeting":   core.FirstMessage,
	})
}

// handlePostMessage processes one patient turn: persist the message,
// generate the assistant reply, persist it, and return it.
func (s *Server) handlePostMessage(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()
	if _, err := s.Store.GetSession(ctx, sessionID); err != nil {
		s.sessionError(w, err)
		return
	}

	var req pkg.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	content := strings.TrimSpace(req.Content)
	if content == "" {
		s.writeError(w, http.StatusBadRequest, "empty message")
		return
	}

	// Enforce the per-session message cap.
	count, err := s.Store.CountPatientMessages(ctx, sessionID)
	if err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("count messages failed")
		s.writeError(w, http.StatusInternalServerError, "We could not process your message right now. Please try again.")
		return
	}
	if count >= s.MessageCap {
		if _, err := s.Store.AppendMessage(ctx, sessionID, pkg.RoleAssistant, core.CapMessage); err != nil {
			s.Log.Error().Err(err).Str("session_id", sessionID).Msg("store cap message failed")
		}
		s.writeJSON(w, http.StatusOK, pkg.ChatResponse{Reply: core.CapMessage, Capped: true})
		return
	}

	history, err := s.Store.ListMessages(ctx, sessionID)
	if err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("load transcript failed")
		s.writeError(w, http.StatusInternalServerError, "We could not process your message right now. Please try again.")
		return
	}
	if _, err := s.Store.AppendMessage(ctx, sessionID, pkg.RolePatient, content); err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("store patient message failed")
		s.writeError(w, http.StatusInternalServerError, "We could not process your message right now. Please try again.")
		return
	}

	reply, err := s.Chat.Reply(ctx, history, content)
	if err != nil {
		// Reply already degraded to the fallback text; keep the flow going.
		s.Log.Warn().Err(err).Str("session_id", sessionID).Msg("llm reply failed")
	}
	if _, err := s.Store.AppendMessage(ctx, sessionID, pkg.RoleAssistant, reply); err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("store assistant message failed")
	}

	s.writeJSON(w, http.StatusOK, pkg.ChatResponse{Reply: reply})
}

// handleComplete runs the triage coordinator over the session transcript and
// any explicitly collected fields, then closes the session.
func (s *Server) handleComplete(w http.ResponseWriter, r *http.Request, sessionID string) {
	ctx := r.Context()
	if _, err := s.Store.GetSession(ctx, sessionID); err != nil {
		s.sessionError(w, err)
		return
	}

	var req pkg.CompleteRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	msgs, err := s.Store.ListMessages(ctx, sessionID)
	if err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("load transcript failed")
		s.writeError(w, http.StatusInternalServerError, "We could not process your intake right now. Please try again.")
		return
	}

	rec, outcome, err := s.Coordinator.Process(ctx, triage.Intake{
		Transcript: pkg.Transcript(msgs),
		Fields:     req.Fields,
		Specialty:  req.Specialty,
		Urgency:    req.Urgency,
	})
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, "We could not save your intake right now. Please try again.")
		return
	}

	if err := s.Store.CloseSession(ctx, sessionID); err != nil {
		s.Log.Error().Err(err).Str("session_id", sessionID).Msg("close session failed")
	}

	s.writeJSON(w, http.StatusOK, pkg.CompleteResponse{Record: *rec, Notification: outcome})
}

// handleListPatients returns all stored records, newest first. A store read
// failure degrades to an empty list.
func (s *Server) handleListPatients(w http.ResponseWriter, r *http.Request) {
	records, err := s.Store.ListPatients(r.Context())
	if err != nil {
		s.Log.Warn().Err(err).Msg("list patients degraded to empty result")
	}
	s.writeJSON(w, http.StatusOK, records)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if err := s.Store.Ping(r.Context()); err != nil {
		s.writeJSON(w, http.StatusServiceUnavailable, map[string]string{
			"status": "degraded",
			"error":  "database unavailable",
		})
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) sessionError(w http.ResponseWriter, err error) {
	if errors.Is(err, db.ErrSessionNotFound) {
		s.writeError(w, http.StatusNotFound, "intake session not found")
		return
	}
	s.Log.Error().Err(err).Msg("load session failed")
	s.writeError(w, http.StatusInternalServerError, "We could not process your request right now. Please try again.")
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.Log.Error().Err(err).Msg("encode response failed")
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}
