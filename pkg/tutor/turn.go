package tutor

import (
	"context"
	"strings"

	"github.com/smith3v/lingochat/pkg/db"
	"github.com/smith3v/lingochat/pkg/languages"
	"github.com/smith3v/lingochat/pkg/logger"
)

// contextWindow is the number of trailing messages a turn reads.
const contextWindow = 2

// SubmitUtterance stores the user's text, asks the model for the next partner
// turn and stores that turn only when the model produced a usable answer.
// Unusable output and gateway failures both yield FallbackReply with a nil error.
func (s *Service) SubmitUtterance(ctx context.Context, conversationID uint, text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyUtterance
	}
	if s.opts.Counter != nil && s.opts.MaxUtteranceTokens > 0 {
		if n := s.opts.Counter.Count(text); n > s.opts.MaxUtteranceTokens {
			return "", ErrUtteranceTooLong
		}
	}

	unlock := s.locks.Lock(conversationID)
	defer unlock()

	log := logger.FromContext(ctx).With("conversation_id", conversationID)

	conv, err := s.store.GetConversation(ctx, conversationID)
	if err != nil {
		return "", err
	}

	inbound := &db.Message{
		ConversationID: conversationID,
		IsUser:         true,
		Text:           text,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, inbound); err != nil {
		log.Error("failed to store user message", "error", err)
		return "", err
	}

	window, err := s.store.LastMessages(ctx, conversationID, contextWindow)
	if err != nil {
		log.Error("failed to load context window", "error", err)
		return "", err
	}
	userMessage, carried := selectContext(window)

	prompt := buildTurnPrompt(languages.NameFor(conv.Language), carried, userMessage)
	if s.opts.Counter != nil {
		log.Debug("turn prompt prepared", "prompt_tokens", countPromptTokens(s.opts.Counter, prompt))
	}

	raw, err := s.complete(ctx, prompt)
	if err != nil {
		log.Warn("partner turn unavailable", "reason", "gateway", "error", err)
		return FallbackReply, nil
	}

	reply, ok := parseModelReply(raw)
	if !ok {
		log.Warn("partner turn unavailable", "reason", "unusable_output", "raw_length", len(raw))
		return FallbackReply, nil
	}

	outbound := &db.Message{
		ConversationID: conversationID,
		IsUser:         false,
		Text:           reply.Answer,
		Summary:        reply.Summary,
		CreatedAt:      s.now().UTC(),
	}
	if err := s.store.AppendMessage(ctx, outbound); err != nil {
		log.Error("failed to store partner message", "error", err)
		return "", err
	}

	return reply.Answer, nil
}

// selectContext takes the newest message as the user's text and the summary of
// the message before it as the carried digest.
func selectContext(window []db.Message) (userMessage, carried string) {
	if len(window) == 0 {
		return "", ""
	}
	userMessage = window[len(window)-1].Text
	if len(window) >= 2 {
		if prev := window[len(window)-2]; prev.Summary != nil {
			carried = strings.TrimSpace(*prev.Summary)
		}
	}
	return userMessage, carried
}
