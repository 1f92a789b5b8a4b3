// Package httpserver exposes the notehub HTTP API. It is the only layer that
// talks wire formats: it extracts bearer tokens, resolves identity, and maps
// the error taxonomy to HTTP status codes.
package httpserver

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gofrs/uuid/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/akulikov/notehub/internal/errs"
	"github.com/akulikov/notehub/internal/model"
	"github.com/akulikov/notehub/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth  service.AuthService
	notes service.NoteService
	log   *zap.Logger
}

// New constructs a Server with injected services.
func New(auth service.AuthService, notes service.NoteService, log *zap.Logger) *Server {
	return &Server{auth: auth, notes: notes, log: log}
}

// Handler builds the routed handler with the middleware chain applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", s.handleHealth)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("POST /api/auth/register", s.handleRegister)
	mux.HandleFunc("POST /api/auth/login", s.handleLogin)
	mux.Handle("GET /api/auth/me", s.requireAuth(http.HandlerFunc(s.handleMe)))

	mux.Handle("POST /api/notes", s.requireAuth(http.HandlerFunc(s.handleNoteCreate)))
	mux.Handle("GET /api/notes", s.requireAuth(http.HandlerFunc(s.handleNoteList)))
	mux.Handle("GET /api/notes/{id}", s.requireAuth(http.HandlerFunc(s.handleNoteGet)))
	mux.Handle("PUT /api/notes/{id}", s.requireAuth(http.HandlerFunc(s.handleNoteUpdate)))
	mux.Handle("DELETE /api/notes/{id}", s.requireAuth(http.HandlerFunc(s.handleNoteDelete)))

	var h http.Handler = mux
	h = Metrics(mux)(h)
	h = Logging(s.log)(h)
	h = Recover(s.log)(h)
	return h
}

// --- wire formats ---

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginRequest struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

type userPayload struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type sessionPayload struct {
	AccessToken string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	ExpiresAt   time.Time `json:"expires_at"`
}

type registerResponse struct {
	User userPayload `json:"user"`
	sessionPayload
}

type notePayload struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"owner_id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type noteCreateRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

type notePatchRequest struct {
	Title *string `json:"title"`
	Body  *string `json:"body"`
}

func toUserPayload(u *model.User) userPayload {
	return userPayload{ID: u.ID.String(), Username: u.Username, Email: u.Email, CreatedAt: u.CreatedAt}
}

func toSessionPayload(sess model.Session) sessionPayload {
	return sessionPayload{AccessToken: sess.AccessToken, TokenType: "bearer", ExpiresAt: sess.ExpiresAt}
}

func toNotePayload(n *model.Note) notePayload {
	return notePayload{
		ID:        n.ID.String(),
		OwnerID:   n.OwnerID.String(),
		Title:     n.Title,
		Body:      n.Body,
		CreatedAt: n.CreatedAt,
		UpdatedAt: n.UpdatedAt,
	}
}

// --- handlers ---

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !s.decode(w, r, &req) {
		return
	}
	u, sess, err := s.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, registerResponse{
		User:           toUserPayload(u),
		sessionPayload: toSessionPayload(sess),
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !s.decode(w, r, &req) {
		return
	}
	sess, err := s.auth.Login(r.Context(), req.Login, req.Password)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toSessionPayload(sess))
}

func (s *Server) handleMe(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.writeUnauthorized(w)
		return
	}
	s.writeJSON(w, http.StatusOK, toUserPayload(u))
}

func (s *Server) handleNoteCreate(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.writeUnauthorized(w)
		return
	}
	var req noteCreateRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.notes.Create(r.Context(), u.ID, req.Title, req.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, toNotePayload(n))
}

func (s *Server) handleNoteList(w http.ResponseWriter, r *http.Request) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.writeUnauthorized(w)
		return
	}
	f, ok := s.listFilter(w, r)
	if !ok {
		return
	}
	notes, err := s.notes.List(r.Context(), u.ID, f)
	if err != nil {
		s.writeError(w, err)
		return
	}
	out := make([]notePayload, 0, len(notes))
	for i := range notes {
		out = append(out, toNotePayload(&notes[i]))
	}
	s.writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleNoteGet(w http.ResponseWriter, r *http.Request) {
	u, noteID, ok := s.noteRequest(w, r)
	if !ok {
		return
	}
	n, err := s.notes.Get(r.Context(), u.ID, noteID)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toNotePayload(n))
}

func (s *Server) handleNoteUpdate(w http.ResponseWriter, r *http.Request) {
	u, noteID, ok := s.noteRequest(w, r)
	if !ok {
		return
	}
	var req notePatchRequest
	if !s.decode(w, r, &req) {
		return
	}
	n, err := s.notes.Update(r.Context(), u.ID, noteID, model.NotePatch{Title: req.Title, Body: req.Body})
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, toNotePayload(n))
}

func (s *Server) handleNoteDelete(w http.ResponseWriter, r *http.Request) {
	u, noteID, ok := s.noteRequest(w, r)
	if !ok {
		return
	}
	if err := s.notes.Delete(r.Context(), u.ID, noteID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// defaultListLimit caps a listing when the client does not ask for a limit.
const defaultListLimit = 100

// listFilter parses the q/skip/limit query parameters. Absent skip and
// limit default to 0 and defaultListLimit.
func (s *Server) listFilter(w http.ResponseWriter, r *http.Request) (model.NoteFilter, bool) {
	q := r.URL.Query()
	f := model.NoteFilter{Search: q.Get("q"), Limit: defaultListLimit}
	var err error
	if v := q.Get("skip"); v != "" {
		if f.Skip, err = strconv.ParseUint(v, 10, 32); err != nil {
			s.writeError(w, errs.Validation("skip must be a non-negative integer"))
			return model.NoteFilter{}, false
		}
	}
	if v := q.Get("limit"); v != "" {
		if f.Limit, err = strconv.ParseUint(v, 10, 32); err != nil || f.Limit == 0 {
			s.writeError(w, errs.Validation("limit must be a positive integer"))
			return model.NoteFilter{}, false
		}
	}
	return f, true
}

// noteRequest pulls the authenticated user and the note id out of the
// request. A malformed id reports the same NotFound an absent note would:
// the shape of valid ids is nobody's business.
func (s *Server) noteRequest(w http.ResponseWriter, r *http.Request) (*model.User, uuid.UUID, bool) {
	u, ok := UserFromCtx(r.Context())
	if !ok {
		s.writeUnauthorized(w)
		return nil, uuid.Nil, false
	}
	noteID, err := uuid.FromString(r.PathValue("id"))
	if err != nil {
		s.writeError(w, errs.ErrNotFound)
		return nil, uuid.Nil, false
	}
	return u, noteID, true
}

// --- plumbing ---

func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		s.writeError(w, errs.Validation("invalid JSON body"))
		return false
	}
	return true
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.log.Error("encode response", zap.Error(err))
	}
}

// writeError maps the error taxonomy to HTTP status codes:
// validation 400, unauthorized 401, not found 404, conflict 409, rest 500.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	var (
		verr     *errs.ValidationError
		conflict *errs.ConflictError
	)
	switch {
	case errors.As(err, &verr):
		s.writeJSON(w, http.StatusBadRequest, map[string]string{"error": verr.Msg})
	case errors.Is(err, errs.ErrUnauthorized):
		s.writeUnauthorized(w)
	case errors.Is(err, errs.ErrNotFound):
		s.writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	case errors.As(err, &conflict):
		s.writeJSON(w, http.StatusConflict, map[string]string{"error": conflict.Error(), "field": conflict.Field})
	default:
		s.log.Error("internal error", zap.Error(err))
		s.writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

// writeUnauthorized reports the single generic authentication failure.
func (s *Server) writeUnauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", "Bearer")
	s.writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
}
