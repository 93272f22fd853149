package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"

	"github.com/stevendejongnl/harv/internal/model"
)

const (
	anthropicEndpoint     = "https://api.anthropic.com/v1/messages"
	anthropicVersion      = "2023-06-01"
	anthropicDefaultModel = "claude-3-5-sonnet-20241022"
	anthropicMaxTokens    = 4096
)

type anthropicProvider struct {
	httpClient *http.Client
	endpoint   string
	apiKey     string
	model      string
	log        *zap.Logger
}

func newAnthropic(apiKey string, modelName *string, log *zap.Logger) (*anthropicProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("Anthropic API key is required")
	}
	m := anthropicDefaultModel
	if modelName != nil {
		m = *modelName
	}
	return &anthropicProvider{
		httpClient: &http.Client{},
		endpoint:   anthropicEndpoint,
		apiKey:     apiKey,
		model:      m,
		log:        log,
	}, nil
}

type anthropicRequest struct {
	Model     string        `json:"model"`
	MaxTokens int           `json:"max_tokens"`
	Messages  []chatMessage `json:"messages"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
}

func (p *anthropicProvider) Generate(ctx context.Context, summary string, pc PromptContext) ([]model.ProposedEntry, error) {
	reqBody := anthropicRequest{
		Model:     p.model,
		MaxTokens: anthropicMaxTokens,
		Messages:  []chatMessage{{Role: "user", Content: BuildPrompt(summary, pc)}},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding Anthropic request: %w", err)
	}

	p.log.Debug("POST " + p.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("x-api-key", p.apiKey)
	req.Header.Set("anthropic-version", anthropicVersion)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("Anthropic API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading Anthropic response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("Anthropic API error (%d): %s", resp.StatusCode, body)
	}

	var parsed anthropicResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse Anthropic response: %w", err)
	}
	if len(parsed.Content) == 0 {
		return nil, fmt.Errorf("Anthropic returned no content")
	}

	text := parsed.Content[0].Text
	p.log.Debug("Anthropic response", zap.String("content", text))
	return ParseResponse(text)
}

func (p *anthropicProvider) Name() string { return "Anthropic Claude" }
