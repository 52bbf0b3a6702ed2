package translation

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/smith3v/lingochat/pkg/config"
)

// Gateway translates a batch of texts in one upstream request. The result has
// one entry per input, in order.
type Gateway interface {
	Translate(ctx context.Context, texts []string, source, target string) ([]string, error)
}

// DeepLClient speaks the DeepL v2 translate API.
type DeepLClient struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

func NewDeepLClient(cfg config.TranslationConfig) *DeepLClient {
	return &DeepLClient{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
	}
}

type deeplRequest struct {
	Text       []string `json:"text"`
	SourceLang string   `json:"source_lang,omitempty"`
	TargetLang string   `json:"target_lang"`
}

type deeplResponse struct {
	Translations []struct {
		DetectedSourceLanguage string `json:"detected_source_language"`
		Text                   string `json:"text"`
	} `json:"translations"`
	Message string `json:"message"`
}

func (c *DeepLClient) Translate(ctx context.Context, texts []string, source, target string) ([]string, error) {
	body, err := json.Marshal(deeplRequest{Text: texts, SourceLang: source, TargetLang: target})
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/v2/translate", bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "DeepL-Auth-Key "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("translation request: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return nil, fmt.Errorf("read translation response: %w", err)
	}

	var decoded deeplResponse
	decodeErr := json.Unmarshal(raw, &decoded)
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		if decodeErr == nil && decoded.Message != "" {
			return nil, fmt.Errorf("translation api status %d: %s", resp.StatusCode, decoded.Message)
		}
		return nil, fmt.Errorf("translation api status %d", resp.StatusCode)
	}
	if decodeErr != nil {
		return nil, fmt.Errorf("decode translation response: %w", decodeErr)
	}
	if len(decoded.Translations) != len(texts) {
		return nil, fmt.Errorf("translation api returned %d results for %d texts", len(decoded.Translations), len(texts))
	}

	out := make([]string, len(decoded.Translations))
	for i, tr := range decoded.Translations {
		out[i] = tr.Text
	}
	return out, nil
}
