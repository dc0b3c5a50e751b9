// Package llm implements the AI capability client on top of OpenAI- or
// Anthropic-style completion backends.
package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// maxCandidates caps how many knowledge articles a matching prompt carries.
const maxCandidates = 20

// Client owns prompt templating and response-shape defaulting so callers
// never see raw backend output.
type Client struct {
	provider provider
	logger   *slog.Logger
}

var _ ports.Analyzer = (*Client)(nil)

// New builds a client from configuration; the provider strategy is fixed
// here and never re-selected at call time.
func New(cfg config.AIConfig, logger *slog.Logger) (*Client, error) {
	return newWithHTTPClient(cfg, logger, newHTTPClient())
}

func newWithHTTPClient(cfg config.AIConfig, logger *slog.Logger, httpClient *http.Client) (*Client, error) {
	p, err := newProvider(cfg, httpClient)
	if err != nil {
		return nil, err
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{provider: p, logger: logger}, nil
}

// Analyze extracts actionable instructions from a news post. Backend and
// parse failures propagate: without an analysis the pipeline cannot know
// whether the news is actionable.
func (c *Client) Analyze(ctx context.Context, title, body string) (domain.Analysis, error) {
	raw, err := c.provider.complete(ctx, analysisPrompt(title, body))
	if err != nil {
		return domain.Analysis{}, fmt.Errorf("analyze news: %w", err)
	}

	var parsed struct {
		HasInstructions *bool    `json:"has_instructions"`
		Instructions    *string  `json:"instructions"`
		Category        *string  `json:"category"`
		TopicKeywords   []string `json:"topic_keywords"`
		InstructionType *string  `json:"instruction_type"`
		Confidence      *float64 `json:"confidence"`
		Reasoning       *string  `json:"reasoning"`
	}
	if err := decodeObject(raw, &parsed); err != nil {
		return domain.Analysis{}, fmt.Errorf("analyze news: %w", err)
	}

	analysis := domain.Analysis{
		HasInstructions: boolOr(parsed.HasInstructions, false),
		Instructions:    stringOr(parsed.Instructions, ""),
		Category:        stringOr(parsed.Category, ""),
		Keywords:        parsed.TopicKeywords,
		Type:            domain.InstructionGeneralInfo,
		Confidence:      floatOr(parsed.Confidence, 0),
		Reasoning:       stringOr(parsed.Reasoning, ""),
	}
	if analysis.Keywords == nil {
		analysis.Keywords = []string{}
	}
	if parsed.InstructionType != nil && *parsed.InstructionType != "" {
		analysis.Type = domain.InstructionType(*parsed.InstructionType)
	}

	return analysis, nil
}

// Match asks which existing article, if any, the instructions belong to.
// Any failure degrades to (nil, nil): a lost match still allows the pipeline
// to create a new article, while a lost analysis would not.
func (c *Client) Match(ctx context.Context, instructions string, candidates []domain.CandidateArticle) (*domain.Match, error) {
	if len(candidates) > maxCandidates {
		candidates = candidates[:maxCandidates]
	}

	raw, err := c.provider.complete(ctx, matchingPrompt(instructions, candidates))
	if err != nil {
		c.logger.Warn("ai matching failed", "error", err)
		return nil, nil
	}

	var parsed struct {
		Action             *string  `json:"action"`
		MatchedArticleID   *int64   `json:"matched_article_id"`
		MatchedArticleName *string  `json:"matched_article_name"`
		Confidence         *float64 `json:"confidence"`
		Reasoning          *string  `json:"reasoning"`
	}
	if err := decodeObject(raw, &parsed); err != nil {
		c.logger.Warn("ai matching returned unusable payload", "error", err)
		return nil, nil
	}

	match := &domain.Match{
		Action:             domain.SuggestionCreate,
		MatchedArticleID:   parsed.MatchedArticleID,
		MatchedArticleName: stringOr(parsed.MatchedArticleName, ""),
		Confidence:         floatOr(parsed.Confidence, 0),
		Reasoning:          stringOr(parsed.Reasoning, ""),
	}
	if parsed.Action != nil && domain.SuggestionType(*parsed.Action) == domain.SuggestionUpdate {
		match.Action = domain.SuggestionUpdate
	}

	return match, nil
}

// Generate produces the article title/content for the suggestion. Failure
// propagates: without generated content there is nothing to review.
func (c *Client) Generate(ctx context.Context, instructions, template, existingContent string) (domain.GeneratedContent, error) {
	raw, err := c.provider.complete(ctx, generationPrompt(instructions, template, existingContent))
	if err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("generate content: %w", err)
	}

	var parsed struct {
		Title    *string  `json:"title"`
		Content  *string  `json:"content"`
		Summary  *string  `json:"summary"`
		Sections []string `json:"sections"`
	}
	if err := decodeObject(raw, &parsed); err != nil {
		return domain.GeneratedContent{}, fmt.Errorf("generate content: %w", err)
	}

	generated := domain.GeneratedContent{
		Title:    stringOr(parsed.Title, ""),
		Content:  stringOr(parsed.Content, ""),
		Summary:  stringOr(parsed.Summary, ""),
		Sections: parsed.Sections,
	}
	if generated.Sections == nil {
		generated.Sections = []string{}
	}

	return generated, nil
}

// decodeObject parses a completion into v, rejecting anything that is not a
// top-level JSON object.
func decodeObject(raw string, v any) error {
	trimmed := strings.TrimSpace(raw)
	if !strings.HasPrefix(trimmed, "{") {
		return fmt.Errorf("%w: expected a JSON object", domain.ErrMalformedAiResponse)
	}
	if err := json.Unmarshal([]byte(trimmed), v); err != nil {
		return fmt.Errorf("%w: %v", domain.ErrMalformedAiResponse, err)
	}
	return nil
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func stringOr(v *string, fallback string) string {
	if v == nil {
		return fallback
	}
	return *v
}

func floatOr(v *float64, fallback float64) float64 {
	if v == nil {
		return fallback
	}
	return *v
}
