package api

import (
	"net/http"

	"github.com/smith3v/lingochat/pkg/auth"
	"github.com/smith3v/lingochat/pkg/db"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req auth.SignupRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if _, err := s.auth.Signup(r.Context(), req); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, map[string]string{"message": "Registered successfully!"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	token, err := s.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request, user *db.User) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message":  "Welcome to home!",
		"username": user.Username,
	})
}
