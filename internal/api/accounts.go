package api

import (
	"context"
	"net/http"

	"github.com/safar/nava-store/internal/identity"
)

type credentials struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	user, err := s.accounts.Register(r.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	s.respondJSON(w, http.StatusCreated, user)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, s.accounts.Login)
}

func (s *Server) handleAdminLogin(w http.ResponseWriter, r *http.Request) {
	s.login(w, r, s.accounts.AdminLogin)
}

// login authenticates and binds the actor to the current session, so a cart
// built before signing in is kept.
func (s *Server) login(w http.ResponseWriter, r *http.Request, authenticate func(ctx context.Context, email, password string) (identity.Actor, error)) {
	var req credentials
	if err := decodeJSON(r, &req); err != nil {
		s.respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	actor, err := authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		s.respondErr(w, r, err)
		return
	}

	if err := s.setSession(w, sessionFrom(r.Context()).WithActor(actor)); err != nil {
		s.respondErr(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, actor)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.carts.Clear(r.Context(), sessionFrom(r.Context()).ID); err != nil {
		s.respondErr(w, r, err)
		return
	}
	if err := s.setSession(w, identity.NewSession()); err != nil {
		s.respondErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
