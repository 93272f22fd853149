package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/stevendejongnl/harv/internal/model"
)

const (
	openAIEndpoint     = "https://api.openai.com/v1/chat/completions"
	openAIDefaultModel = "gpt-4o"
)

type openAIProvider struct {
	httpClient *http.Client
	endpoint   string
	model      string
	log        *zap.Logger
}

func newOpenAI(apiKey string, modelName *string, log *zap.Logger) (*openAIProvider, error) {
	if apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}
	m := openAIDefaultModel
	if modelName != nil {
		m = *modelName
	}
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: apiKey})
	return &openAIProvider{
		httpClient: oauth2.NewClient(context.Background(), src),
		endpoint:   openAIEndpoint,
		model:      m,
		log:        log,
	}, nil
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string        `json:"model"`
	Messages       []chatMessage `json:"messages"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (p *openAIProvider) Generate(ctx context.Context, summary string, pc PromptContext) ([]model.ProposedEntry, error) {
	reqBody := openAIRequest{
		Model:    p.model,
		Messages: []chatMessage{{Role: "user", Content: BuildPrompt(summary, pc)}},
	}
	reqBody.ResponseFormat.Type = "json_object"

	data, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("encoding OpenAI request: %w", err)
	}

	p.log.Debug("POST " + p.endpoint)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, p.endpoint, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("OpenAI API request failed: %w", err)
	}
	body, err := io.ReadAll(resp.Body)
	resp.Body.Close()
	if err != nil {
		return nil, fmt.Errorf("reading OpenAI response: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("OpenAI API error (%d): %s", resp.StatusCode, body)
	}

	var parsed openAIResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAI response: %w", err)
	}
	if len(parsed.Choices) == 0 {
		return nil, fmt.Errorf("OpenAI returned no choices")
	}

	content := parsed.Choices[0].Message.Content
	p.log.Debug("OpenAI response", zap.String("content", content))
	return ParseResponse(content)
}

func (p *openAIProvider) Name() string { return "OpenAI" }
