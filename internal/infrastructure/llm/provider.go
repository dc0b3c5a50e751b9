package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/domain"
)

const (
	openAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"

	systemPrompt = "You are a helpful assistant that analyzes business communications and generates structured knowledge base content. Always respond in valid JSON format."
)

// provider is one concrete wire format towards a completion backend. The set
// is closed and the strategy is chosen once at construction.
type provider interface {
	complete(ctx context.Context, prompt string) (string, error)
}

func newProvider(cfg config.AIConfig, httpClient *http.Client) (provider, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", "openai":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = openAIEndpoint
		}
		return &openAIProvider{endpoint: endpoint, model: cfg.Model, apiKey: cfg.APIKey, http: httpClient}, nil
	case "anthropic":
		endpoint := cfg.Endpoint
		if endpoint == "" {
			endpoint = anthropicEndpoint
		}
		return &anthropicProvider{endpoint: endpoint, model: cfg.Model, apiKey: cfg.APIKey, http: httpClient}, nil
	default:
		return nil, fmt.Errorf("unknown ai provider %q", cfg.Provider)
	}
}

// openAIProvider speaks the chat-completions shape.
type openAIProvider struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

func (p *openAIProvider) complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model": p.model,
		"messages": []map[string]string{
			{"role": "system", "content": systemPrompt},
			{"role": "user", "content": prompt},
		},
		"temperature":     0.3,
		"response_format": map[string]string{"type": "json_object"},
	}

	headers := map[string]string{
		"Authorization": "Bearer " + p.apiKey,
	}

	var parsed struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}

	if err := postJSON(ctx, p.http, p.endpoint, headers, body, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Choices) == 0 {
		return "", fmt.Errorf("%w: completion without choices", domain.ErrMalformedAiResponse)
	}

	return parsed.Choices[0].Message.Content, nil
}

// anthropicProvider speaks the messages shape.
type anthropicProvider struct {
	endpoint string
	model    string
	apiKey   string
	http     *http.Client
}

func (p *anthropicProvider) complete(ctx context.Context, prompt string) (string, error) {
	body := map[string]any{
		"model":      p.model,
		"max_tokens": 4096,
		"messages": []map[string]string{
			{"role": "user", "content": prompt},
		},
	}

	headers := map[string]string{
		"x-api-key":         p.apiKey,
		"anthropic-version": "2023-06-01",
	}

	var parsed struct {
		Content []struct {
			Text string `json:"text"`
		} `json:"content"`
	}

	if err := postJSON(ctx, p.http, p.endpoint, headers, body, &parsed); err != nil {
		return "", err
	}

	if len(parsed.Content) == 0 {
		return "", fmt.Errorf("%w: completion without content blocks", domain.ErrMalformedAiResponse)
	}

	return parsed.Content[0].Text, nil
}

func postJSON(ctx context.Context, client *http.Client, endpoint string, headers map[string]string, payload, v any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	for k, val := range headers {
		req.Header.Set(k, val)
	}

	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("%w: do request: %v", domain.ErrAiBackend, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		detail, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return fmt.Errorf("%w: status %s: %s", domain.ErrAiBackend, resp.Status, strings.TrimSpace(string(detail)))
	}

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		return fmt.Errorf("%w: decode envelope: %v", domain.ErrMalformedAiResponse, err)
	}

	return nil
}

func newHTTPClient() *http.Client {
	return &http.Client{Timeout: 60 * time.Second}
}
