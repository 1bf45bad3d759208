package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const jsonMIMEType = "application/json"

// GeminiClient implements Completer on top of the Google GenAI SDK.
// The SDK client is created lazily so a missing key only fails at request time.
type GeminiClient struct {
	cfg        Config
	httpClient *http.Client

	once    sync.Once
	client  *genai.Client
	initErr error
}

// NewGeminiClient constructs a Gemini-backed completer.
func NewGeminiClient(cfg Config) *GeminiClient {
	cfg = cfg.normalized()
	cfg.Provider = ProviderGemini
	if cfg.Model == "" {
		cfg.Model = ProviderGemini.DefaultModel()
	}
	return &GeminiClient{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: cfg.timeout()},
	}
}

// Model returns the Gemini model identifier.
func (g *GeminiClient) Model() string {
	return g.cfg.Model
}

func (g *GeminiClient) sdk(ctx context.Context) (*genai.Client, error) {
	g.once.Do(func() {
		cc := &genai.ClientConfig{
			APIKey:     g.cfg.APIKey,
			Backend:    genai.BackendGeminiAPI,
			HTTPClient: g.httpClient,
		}
		if g.cfg.BaseURL != "" {
			cc.HTTPOptions = genai.HTTPOptions{BaseURL: g.cfg.BaseURL}
		}
		g.client, g.initErr = genai.NewClient(ctx, cc)
	})
	return g.client, g.initErr
}

// CompleteJSON asks Gemini for a JSON response.
func (g *GeminiClient) CompleteJSON(ctx context.Context, systemPrompt, userPrompt string) (string, error) {
	systemPrompt = strings.TrimSpace(systemPrompt)
	userPrompt = strings.TrimSpace(userPrompt)
	if systemPrompt == "" || userPrompt == "" {
		return "", errors.New("gemini complete: prompts required")
	}
	if g.cfg.APIKey == "" {
		return "", fmt.Errorf("gemini complete: %w", ErrMissingAPIKey)
	}
	client, err := g.sdk(ctx)
	if err != nil {
		return "", fmt.Errorf("gemini complete: create client: %w", err)
	}

	resp, err := client.Models.GenerateContent(ctx,
		g.cfg.Model,
		[]*genai.Content{genai.NewContentFromText(userPrompt, genai.RoleUser)},
		&genai.GenerateContentConfig{
			SystemInstruction: genai.NewContentFromText(systemPrompt, genai.RoleUser),
			ResponseMIMEType:  jsonMIMEType,
			Temperature:       genai.Ptr[float32](defaultTemperature),
		},
	)
	if err != nil {
		return "", fmt.Errorf("gemini complete: %w", err)
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini complete: empty content")
	}
	return text, nil
}
