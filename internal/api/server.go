package api

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"expvar"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ajitpratap0/openclaw-desk/internal/session"
	"github.com/ajitpratap0/openclaw-desk/internal/transcript"
)

// Server is an HTTP API server that exposes one operator session.
type Server struct {
	session   *session.Session
	logger    *slog.Logger
	authToken string // empty = no auth required
}

// NewServer creates a new Server with the given dependencies.
func NewServer(sess *session.Session, logger *slog.Logger, authToken string) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		session:   sess,
		logger:    logger,
		authToken: authToken,
	}
}

// Handler returns an http.Handler with all routes registered.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	// Health check, no auth required.
	mux.HandleFunc("GET /healthz", s.handleHealthz)

	mux.HandleFunc("POST /v1/commands", s.auth(s.handleCommand))
	mux.HandleFunc("POST /v1/confirm", s.auth(s.handleConfirm))
	mux.HandleFunc("POST /v1/cancel", s.auth(s.handleCancel))
	mux.HandleFunc("GET /v1/pending", s.auth(s.handlePending))
	mux.HandleFunc("GET /v1/transcript", s.auth(s.handleTranscript))
	mux.HandleFunc("POST /v1/reschedule/slots", s.auth(s.handleRescheduleSlots))
	mux.Handle("GET /debug/vars", s.auth(expvar.Handler().ServeHTTP))

	return mux
}

// --- middleware ---

// auth wraps a handler with Bearer token authentication when authToken is set.
func (s *Server) auth(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if s.authToken == "" {
			next(w, r)
			return
		}
		header := r.Header.Get("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		if !ok || subtle.ConstantTimeCompare([]byte(token), []byte(s.authToken)) != 1 {
			s.writeError(w, http.StatusUnauthorized, "unauthorized")
			return
		}
		next(w, r)
	}
}

// --- handlers ---

func (s *Server) handleHealthz(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "mode": string(s.session.Mode())})
}

// commandRequest is the body accepted by POST /v1/commands.
type commandRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	var req commandRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	out, err := s.session.Submit(r.Context(), req.Text)
	s.writeOutcome(w, out, err)
}

func (s *Server) handleConfirm(w http.ResponseWriter, r *http.Request) {
	out, err := s.session.Confirm(r.Context())
	s.writeOutcome(w, out, err)
}

func (s *Server) handleCancel(w http.ResponseWriter, r *http.Request) {
	out, err := s.session.Cancel(r.Context())
	s.writeOutcome(w, out, err)
}

func (s *Server) handlePending(w http.ResponseWriter, _ *http.Request) {
	p, ok := s.session.Pending()
	if !ok {
		s.writeError(w, http.StatusNotFound, "no pending actions")
		return
	}
	s.writeJSON(w, http.StatusOK, p)
}

// transcriptResponse is returned by GET /v1/transcript.
type transcriptResponse struct {
	Messages []transcript.Message `json:"messages"`
}

func (s *Server) handleTranscript(w http.ResponseWriter, _ *http.Request) {
	msgs := s.session.Transcript()
	if msgs == nil {
		msgs = []transcript.Message{}
	}
	s.writeJSON(w, http.StatusOK, transcriptResponse{Messages: msgs})
}

// slotsRequest is the body accepted by POST /v1/reschedule/slots: the free
// slots the view found for an appointment.
type slotsRequest struct {
	AppointmentID string      `json:"appointment_id"`
	Slots         []time.Time `json:"slots"`
}

// slotsResponse reports which slot, if any, the held reschedule target picked.
type slotsResponse struct {
	Matched bool       `json:"matched"`
	Slot    *time.Time `json:"slot,omitempty"`
}

func (s *Server) handleRescheduleSlots(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20) // 1 MB limit
	var req slotsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	slot, ok := s.session.ApplyRescheduleSlots(req.AppointmentID, req.Slots)
	if !ok {
		s.writeJSON(w, http.StatusOK, slotsResponse{})
		return
	}
	s.writeJSON(w, http.StatusOK, slotsResponse{Matched: true, Slot: &slot})
}

// --- helpers ---

// writeOutcome maps session errors to status codes.
func (s *Server) writeOutcome(w http.ResponseWriter, out session.Outcome, err error) {
	switch {
	case err == nil:
		s.writeJSON(w, http.StatusOK, out)
	case errors.Is(err, session.ErrBusy):
		s.writeError(w, http.StatusConflict, err.Error())
	case errors.Is(err, session.ErrEmptyCommand):
		s.writeError(w, http.StatusBadRequest, "text is required")
	default:
		s.logger.Error("command failed", "error", err)
		s.writeError(w, http.StatusInternalServerError, "command failed")
	}
}

// writeJSON encodes v as JSON and writes it to w with the given status code.
func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if encErr := json.NewEncoder(w).Encode(v); encErr != nil {
		s.logger.Error("failed to encode response", "error", encErr)
	}
}

// writeError writes a JSON error response.
func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

// Shutdown gracefully shuts down an http.Server with the given timeout.
// This is a convenience helper used by the serve command.
func Shutdown(srv *http.Server, timeout time.Duration) error {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
