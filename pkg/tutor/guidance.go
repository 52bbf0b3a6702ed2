package tutor

import (
	"context"
	"fmt"
	"strings"

	"github.com/smith3v/lingochat/pkg/chat"
	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/logger"
)

// minGuidanceHistory is one full round trip.
const minGuidanceHistory = 2

// Hint asks the model for a one-sentence example answer to the latest message.
// Nothing is persisted.
func (s *Service) Hint(ctx context.Context, conversationID uint) (string, error) {
	last, err := s.guidanceContext(ctx, conversationID)
	if err != nil {
		return "", err
	}
	return s.guide(ctx, conversationID, "hint", buildHintPrompt(summaryOf(last), last.Text))
}

// AdvancedVersion asks the model to rewrite the user's draft in a more advanced register.
// Nothing is persisted.
func (s *Service) AdvancedVersion(ctx context.Context, conversationID uint, attempted string) (string, error) {
	last, err := s.guidanceContext(ctx, conversationID)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(attempted) == "" {
		return "", ErrNoSentenceToCorrect
	}
	return s.guide(ctx, conversationID, "advanced", buildAdvancedPrompt(summaryOf(last), last.Text, attempted))
}

func (s *Service) guidanceContext(ctx context.Context, conversationID uint) (db.Message, error) {
	if _, err := s.store.GetConversation(ctx, conversationID); err != nil {
		return db.Message{}, err
	}
	count, err := s.store.CountMessages(ctx, conversationID)
	if err != nil {
		return db.Message{}, err
	}
	if count < minGuidanceHistory {
		return db.Message{}, ErrGuidanceUnavailable
	}
	window, err := s.store.LastMessages(ctx, conversationID, 1)
	if err != nil {
		return db.Message{}, err
	}
	if len(window) == 0 {
		return db.Message{}, ErrGuidanceUnavailable
	}
	return window[0], nil
}

func (s *Service) guide(ctx context.Context, conversationID uint, kind, prompt string) (string, error) {
	raw, err := s.complete(ctx, []chat.Message{{Role: chat.RoleUser, Content: prompt}})
	if err != nil {
		logger.ErrorContext(ctx, "guidance request failed",
			"conversation_id", conversationID,
			"kind", kind,
			"error", err,
		)
		return "", fmt.Errorf("%w: %w", ErrChatGateway, err)
	}
	return raw, nil
}

func summaryOf(msg db.Message) string {
	if msg.Summary == nil {
		return ""
	}
	return strings.TrimSpace(*msg.Summary)
}
