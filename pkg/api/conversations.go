package api

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/languages"
)

var (
	errConversationFields  = errors.New("Conversation name and language are required")
	errUnsupportedLanguage = errors.New("Unsupported language")
)

type createConversationRequest struct {
	Language         string `json:"language"`
	ConversationName string `json:"conversation_name"`
}

type conversationSummary struct {
	ID   uint   `json:"id"`
	Name string `json:"name"`
}

type messageResponse struct {
	ID          uint      `json:"id"`
	IsUser      bool      `json:"is_user"`
	MessageText string    `json:"message_text"`
	Timestamp   time.Time `json:"timestamp"`
}

type conversationResponse struct {
	ID               uint              `json:"id"`
	ConversationName string            `json:"conversation_name"`
	BeginningDate    time.Time         `json:"beginning_date"`
	LastMessageDate  time.Time         `json:"last_message_date"`
	Language         string            `json:"language"`
	Messages         []messageResponse `json:"messages"`
}

// conversationID parses the {id} path segment; anything unparsable is a 404.
func conversationID(r *http.Request) (uint, error) {
	id, err := strconv.ParseUint(r.PathValue("id"), 10, 64)
	if err != nil || id == 0 {
		return 0, db.ErrNotFound
	}
	return uint(id), nil
}

// ownedConversation resolves {id} for user, answering 404 for foreign or unknown ids.
func (s *Server) ownedConversation(w http.ResponseWriter, r *http.Request, user *db.User) (*db.Conversation, bool) {
	id, err := conversationID(r)
	if err == nil {
		var conv *db.Conversation
		if conv, err = s.conversations.GetUserConversation(r.Context(), user.ID, id); err == nil {
			return conv, true
		}
	}
	s.fail(w, r, err)
	return nil, false
}

func (s *Server) handleCreateConversation(w http.ResponseWriter, r *http.Request, user *db.User) {
	var req createConversationRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	name := strings.TrimSpace(req.ConversationName)
	if name == "" || strings.TrimSpace(req.Language) == "" {
		s.fail(w, r, errConversationFields)
		return
	}
	code, ok := languages.Normalize(req.Language)
	if !ok {
		s.fail(w, r, errUnsupportedLanguage)
		return
	}

	conv := &db.Conversation{Name: name, UserID: user.ID, Language: code}
	if err := s.conversations.CreateConversation(r.Context(), conv); err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusCreated, conversationSummary{ID: conv.ID, Name: conv.Name})
}

func (s *Server) handleListConversations(w http.ResponseWriter, r *http.Request, user *db.User) {
	convs, err := s.conversations.ListConversations(r.Context(), user.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	out := make([]conversationSummary, 0, len(convs))
	for _, c := range convs {
		out = append(out, conversationSummary{ID: c.ID, Name: c.Name})
	}
	writeJSON(w, http.StatusOK, out)
}

func (s *Server) handleGetConversation(w http.ResponseWriter, r *http.Request, user *db.User) {
	conv, ok := s.ownedConversation(w, r, user)
	if !ok {
		return
	}
	msgs, err := s.conversations.ListMessages(r.Context(), conv.ID)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	resp := conversationResponse{
		ID:               conv.ID,
		ConversationName: conv.Name,
		BeginningDate:    conv.BeginningDate,
		LastMessageDate:  conv.LastMessagedAt,
		Language:         conv.Language,
		Messages:         make([]messageResponse, 0, len(msgs)),
	}
	for _, m := range msgs {
		resp.Messages = append(resp.Messages, messageResponse{
			ID:          m.ID,
			IsUser:      m.IsUser,
			MessageText: m.Text,
			Timestamp:   m.CreatedAt,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleDeleteConversation(w http.ResponseWriter, r *http.Request, user *db.User) {
	id, err := conversationID(r)
	if err == nil {
		err = s.conversations.DeleteConversation(r.Context(), user.ID, id)
	}
	if err != nil {
		s.fail(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
