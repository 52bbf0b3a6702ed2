package api

import (
	"net/http"

	"github.com/smith3v/lingochat/pkg/db"
)

type textRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleResponse(w http.ResponseWriter, r *http.Request, user *db.User) {
	conv, ok := s.ownedConversation(w, r, user)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	reply, err := s.tutor.SubmitUtterance(r.Context(), conv.ID, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"reply": reply})
}

func (s *Server) handleHint(w http.ResponseWriter, r *http.Request, user *db.User) {
	conv, ok := s.ownedConversation(w, r, user)
	if !ok {
		return
	}
	hint, err := s.tutor.Hint(r.Context(), conv.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"hint": hint})
}

func (s *Server) handleAdvanced(w http.ResponseWriter, r *http.Request, user *db.User) {
	conv, ok := s.ownedConversation(w, r, user)
	if !ok {
		return
	}
	var req textRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	rewrite, err := s.tutor.AdvancedVersion(r.Context(), conv.ID, req.Text)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"rewrite": rewrite})
}
