// Package tutor runs the language partner: turn taking over a two-message
// context window, and one-off guidance (hints and advanced rewrites).
package tutor

import (
	"context"
	"errors"
	"time"

	"github.com/smith3v/lingochat/pkg/chat"
	"github.com/smith3v/lingochat/pkg/db"
)

// FallbackReply is returned to the caller whenever the model gives no usable answer.
const FallbackReply = "I have technical problem with answer, please repeat"

var (
	ErrEmptyUtterance      = errors.New("Message text is required")
	ErrUtteranceTooLong    = errors.New("Message is too long, please send a shorter one")
	ErrNoSentenceToCorrect = errors.New("There is no sentence to correct, please use hint instead")
	ErrGuidanceUnavailable = errors.New("Please, start conversation before using hint or sentence advanced correction")
	ErrChatGateway         = errors.New("Failed to get a response from the chat")
)

// Store is the persistence the pipelines need.
type Store interface {
	GetConversation(ctx context.Context, id uint) (*db.Conversation, error)
	AppendMessage(ctx context.Context, msg *db.Message) error
	LastMessages(ctx context.Context, conversationID uint, n int) ([]db.Message, error)
	CountMessages(ctx context.Context, conversationID uint) (int64, error)
}

// TokenCounter estimates how many model tokens a text costs.
type TokenCounter interface {
	Count(text string) int
}

type Options struct {
	// Timeout bounds each model call; zero means no extra deadline.
	Timeout time.Duration
	// Counter is optional; without it no token cap is enforced.
	Counter            TokenCounter
	MaxUtteranceTokens int
}

type Service struct {
	store  Store
	client chat.Client
	opts   Options
	locks  *keyedMutex
	now    func() time.Time
}

func NewService(store Store, client chat.Client, opts Options) *Service {
	return &Service{
		store:  store,
		client: client,
		opts:   opts,
		locks:  newKeyedMutex(),
		now:    time.Now,
	}
}

func (s *Service) complete(ctx context.Context, messages []chat.Message) (string, error) {
	if s.opts.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.opts.Timeout)
		defer cancel()
	}
	return s.client.Complete(ctx, messages)
}
