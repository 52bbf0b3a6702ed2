package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/smith3v/lingochat/pkg/config"
	"google.golang.org/genai"
)

// GeminiClient uses the Gemini API when an API key is configured, Vertex AI otherwise.
type GeminiClient struct {
	client    *genai.Client
	modelName string
	maxTokens int32
}

func NewGeminiClient(ctx context.Context, cfg config.ChatConfig) (*GeminiClient, error) {
	clientCfg := &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	}
	if cfg.APIKey == "" {
		if cfg.GCPProject == "" || cfg.GCPLocation == "" {
			return nil, fmt.Errorf("gemini: gcp project and location are required without an api key")
		}
		clientCfg = &genai.ClientConfig{
			Project:  cfg.GCPProject,
			Location: cfg.GCPLocation,
			Backend:  genai.BackendVertexAI,
		}
	}

	client, err := genai.NewClient(ctx, clientCfg)
	if err != nil {
		return nil, fmt.Errorf("gemini: creating client: %w", err)
	}

	return &GeminiClient{
		client:    client,
		modelName: cfg.Model,
		maxTokens: int32(cfg.MaxOutputTokens),
	}, nil
}

func (g *GeminiClient) Complete(ctx context.Context, messages []Message) (string, error) {
	var (
		system   []string
		contents []*genai.Content
	)
	for _, m := range messages {
		switch m.Role {
		case RoleSystem:
			system = append(system, m.Content)
		case RoleAssistant:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleModel))
		default:
			contents = append(contents, genai.NewContentFromText(m.Content, genai.RoleUser))
		}
	}

	cfg := &genai.GenerateContentConfig{
		MaxOutputTokens: g.maxTokens,
	}
	if len(system) > 0 {
		cfg.SystemInstruction = genai.NewContentFromText(strings.Join(system, "\n"), genai.RoleUser)
	}

	res, err := g.client.Models.GenerateContent(ctx, g.modelName, contents, cfg)
	if err != nil {
		return "", fmt.Errorf("gemini: generate content: %w", err)
	}

	text := res.Text()
	if text == "" {
		return "", ErrEmptyCompletion
	}
	return text, nil
}
