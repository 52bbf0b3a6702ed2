// Package chat is the gateway to chat-completion models.
package chat

import (
	"context"
	"errors"
	"fmt"

	"github.com/smith3v/lingochat/pkg/config"
)

type Role string

const (
	RoleSystem    Role = "system"
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

type Message struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Client sends an ordered list of messages and returns a single text completion.
type Client interface {
	Complete(ctx context.Context, messages []Message) (string, error)
}

var ErrEmptyCompletion = errors.New("chat: model returned an empty completion")

// NewClient builds the backend selected by cfg.Provider.
func NewClient(ctx context.Context, cfg config.ChatConfig) (Client, error) {
	switch cfg.Provider {
	case config.ProviderOpenAI, "":
		return NewOpenAIClient(cfg), nil
	case config.ProviderGemini:
		return NewGeminiClient(ctx, cfg)
	case config.ProviderAnthropic:
		return NewAnthropicClient(cfg), nil
	default:
		return nil, fmt.Errorf("chat: unsupported provider %q", cfg.Provider)
	}
}
