// Package server exposes the sync backend over HTTP: account signup and
// login, and the document endpoints the remote store client talks to.
package server

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"traveltracker/internal/auth"
	"traveltracker/internal/middleware"
	"traveltracker/internal/models"
	"traveltracker/internal/storage"
)

// Server holds the handler dependencies.
type Server struct {
	docs       storage.Store
	authn      auth.Authenticator
	jwtManager *auth.JWTManager
}

// New creates a server over the given document store and authenticator.
func New(docs storage.Store, authn auth.Authenticator, jwtManager *auth.JWTManager) *Server {
	return &Server{
		docs:       docs,
		authn:      authn,
		jwtManager: jwtManager,
	}
}

// Handler builds the route table. Document endpoints require a Bearer
// token; signup, login and health do not.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /v1/signup", s.handleSignup)
	mux.HandleFunc("POST /v1/login", s.handleLogin)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	docs := http.NewServeMux()
	docs.HandleFunc("PUT /v1/documents/{id}", s.handlePutDocument)
	docs.HandleFunc("GET /v1/documents/{id}", s.handleGetDocument)
	docs.HandleFunc("DELETE /v1/documents/{id}", s.handleDeleteDocument)
	docs.HandleFunc("GET /v1/documents", s.handleListDocuments)
	mux.Handle("/v1/documents", middleware.RequireAuth(s.jwtManager, docs))
	mux.Handle("/v1/documents/", middleware.RequireAuth(s.jwtManager, docs))

	return middleware.Logging(mux)
}

type credentialsRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName,omitempty"`
	Password    string `json:"password"`
}

type sessionResponse struct {
	Token   string          `json:"token"`
	Account accountResponse `json:"account"`
}

type accountResponse struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Email == "" || req.DisplayName == "" {
		writeError(w, http.StatusBadRequest, "email and displayName required")
		return
	}

	account, err := s.authn.Register(r.Context(), req.Email, req.DisplayName, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrEmailExists):
			writeError(w, http.StatusConflict, err.Error())
		case errors.Is(err, auth.ErrWeakPassword):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			slog.Error("signup failed", "email", req.Email, "error", err)
			writeError(w, http.StatusInternalServerError, "registration failed")
		}
		return
	}

	s.writeSession(w, http.StatusCreated, account)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req credentialsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	account, err := s.authn.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		writeError(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}

	s.writeSession(w, http.StatusOK, account)
}

func (s *Server) writeSession(w http.ResponseWriter, status int, account *storage.Account) {
	token, err := s.jwtManager.Generate(account)
	if err != nil {
		slog.Error("token generation failed", "account_id", account.ID, "error", err)
		writeError(w, http.StatusInternalServerError, "token generation failed")
		return
	}
	writeJSON(w, status, sessionResponse{
		Token: token,
		Account: accountResponse{
			ID:          account.ID,
			Email:       account.Email,
			DisplayName: account.DisplayName,
		},
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handlePutDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		writeError(w, http.StatusBadRequest, "unreadable request body")
		return
	}

	e, err := models.UnmarshalDocument(body)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if e.UUID() != id {
		writeError(w, http.StatusUnprocessableEntity, "document id does not match URL")
		return
	}

	if err := s.docs.Put(r.Context(), e); err != nil {
		slog.Error("put document failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleGetDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	e, err := s.docs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		slog.Error("get document failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	data, err := models.MarshalDocument(e)
	if err != nil {
		slog.Error("marshal document failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "encoding failure")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.Write(data)
}

func (s *Server) handleDeleteDocument(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	if err := s.docs.Delete(r.Context(), id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			writeError(w, http.StatusNotFound, "document not found")
			return
		}
		slog.Error("delete document failed", "id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	var (
		entities []models.Entity
		err      error
	)

	if kindParam := r.URL.Query().Get("kind"); kindParam != "" {
		kind, parseErr := models.ParseKind(kindParam)
		if parseErr != nil {
			writeError(w, http.StatusBadRequest, "unknown kind "+kindParam)
			return
		}
		owner := uuid.Nil
		if ownerParam := r.URL.Query().Get("owner"); ownerParam != "" {
			owner, parseErr = uuid.Parse(ownerParam)
			if parseErr != nil {
				writeError(w, http.StatusBadRequest, "invalid owner id")
				return
			}
		}
		entities, err = s.docs.ListByKind(r.Context(), kind, owner)
	} else {
		entities, err = s.docs.ListAll(r.Context())
	}
	if err != nil {
		slog.Error("list documents failed", "error", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	// Encode as a JSON array of envelopes. An empty result is [] not null.
	payload := make([]json.RawMessage, 0, len(entities))
	for _, e := range entities {
		data, err := models.MarshalDocument(e)
		if err != nil {
			slog.Error("marshal document failed", "id", e.UUID(), "error", err)
			writeError(w, http.StatusInternalServerError, "encoding failure")
			return
		}
		payload = append(payload, data)
	}
	writeJSON(w, http.StatusOK, payload)
}

func pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid document id")
		return uuid.Nil, false
	}
	return id, true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("response encoding failed", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
