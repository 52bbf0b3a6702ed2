// Package api exposes accounts, conversations, tutoring and translation over HTTP.
package api

import (
	"context"
	"net/http"
	"time"

	"github.com/smith3v/lingochat/pkg/auth"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/translation"
	"github.com/smith3v/lingochat/pkg/tutor"
)

// ConversationStore is the conversation CRUD the handlers need.
type ConversationStore interface {
	CreateConversation(ctx context.Context, conv *db.Conversation) error
	ListConversations(ctx context.Context, userID uint) ([]db.Conversation, error)
	GetUserConversation(ctx context.Context, userID, id uint) (*db.Conversation, error)
	DeleteConversation(ctx context.Context, userID, id uint) error
	ListMessages(ctx context.Context, conversationID uint) ([]db.Message, error)
}

type Services struct {
	Auth          *auth.Service
	Conversations ConversationStore
	Tutor         *tutor.Service
	Translation   *translation.Service
}

type Server struct {
	auth          *auth.Service
	conversations ConversationStore
	tutor         *tutor.Service
	translation   *translation.Service
	now           func() time.Time
}

func NewServer(svc Services) http.Handler {
	s := &Server{
		auth:          svc.Auth,
		conversations: svc.Conversations,
		tutor:         svc.Tutor,
		translation:   svc.Translation,
		now:           time.Now,
	}
	return s.routes()
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /signup", s.handleSignup)
	mux.HandleFunc("POST /login", s.handleLogin)
	mux.HandleFunc("GET /home", s.requireAuth(s.handleHome))

	mux.HandleFunc("POST /conversation", s.requireAuth(s.handleCreateConversation))
	mux.HandleFunc("GET /conversations", s.requireAuth(s.handleListConversations))
	mux.HandleFunc("GET /conversation/{id}", s.requireAuth(s.handleGetConversation))
	mux.HandleFunc("DELETE /conversation/{id}", s.requireAuth(s.handleDeleteConversation))

	mux.HandleFunc("POST /response/{id}", s.requireAuth(s.handleResponse))
	mux.HandleFunc("GET /hint/{id}", s.requireAuth(s.handleHint))
	mux.HandleFunc("POST /advanced/{id}", s.requireAuth(s.handleAdvanced))

	mux.HandleFunc("POST /translate", s.requireAuth(s.handleTranslate))
	mux.HandleFunc("POST /dictionary", s.requireAuth(s.handleAddDictionaryEntry))
	mux.HandleFunc("GET /dictionary", s.requireAuth(s.handleListDictionary))
	mux.HandleFunc("GET /dictionary/export", s.requireAuth(s.handleExportDictionary))

	return chainMiddlewares(mux, withRequestID, withLogging, withCORS)
}
