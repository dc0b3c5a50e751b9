package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/domain"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// openAIContent wraps a completion string into the chat-completions envelope.
func openAIContent(content string) string {
	envelope := map[string]any{
		"choices": []map[string]any{
			{"message": map[string]string{"content": content}},
		},
	}
	b, _ := json.Marshal(envelope)
	return string(b)
}

func anthropicContent(content string) string {
	envelope := map[string]any{
		"content": []map[string]string{{"text": content}},
	}
	b, _ := json.Marshal(envelope)
	return string(b)
}

func newTestClient(t *testing.T, provider string, handler http.HandlerFunc) *Client {
	t.Helper()

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	cfg := config.AIConfig{
		Provider: provider,
		APIKey:   "test-key",
		Model:    "test-model",
		Endpoint: srv.URL,
	}
	client, err := newWithHTTPClient(cfg, discardLogger(), srv.Client())
	if err != nil {
		t.Fatalf("newWithHTTPClient: %v", err)
	}
	return client
}

func TestAnalyzeSendsOpenAIRequest(t *testing.T) {
	var gotAuth string
	var gotBody map[string]any

	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		fmt.Fprint(w, openAIContent(`{
			"has_instructions": true,
			"instructions": "Use the new greeting",
			"category": "Telefonannahme",
			"topic_keywords": ["greeting", "phone"],
			"instruction_type": "procedure_change",
			"confidence": 0.9,
			"reasoning": "explicit directive"
		}`))
	})

	analysis, err := client.Analyze(context.Background(), "Greeting policy", "Say good afternoon")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}

	if gotAuth != "Bearer test-key" {
		t.Errorf("Authorization = %q, want bearer token", gotAuth)
	}
	if gotBody["model"] != "test-model" {
		t.Errorf("model = %v", gotBody["model"])
	}
	if gotBody["temperature"] != 0.3 {
		t.Errorf("temperature = %v, want 0.3", gotBody["temperature"])
	}
	format, _ := gotBody["response_format"].(map[string]any)
	if format["type"] != "json_object" {
		t.Errorf("response_format = %v", gotBody["response_format"])
	}
	messages, _ := gotBody["messages"].([]any)
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want system + user", len(messages))
	}
	user, _ := messages[1].(map[string]any)
	prompt, _ := user["content"].(string)
	if !strings.Contains(prompt, "Greeting policy") || !strings.Contains(prompt, "Say good afternoon") {
		t.Errorf("prompt does not carry title and body: %q", prompt)
	}

	if !analysis.HasInstructions {
		t.Error("HasInstructions = false")
	}
	if analysis.Type != domain.InstructionProcedureChange {
		t.Errorf("Type = %q", analysis.Type)
	}
	if analysis.Confidence != 0.9 {
		t.Errorf("Confidence = %v", analysis.Confidence)
	}
	if len(analysis.Keywords) != 2 {
		t.Errorf("Keywords = %v", analysis.Keywords)
	}
}

func TestAnalyzeSendsAnthropicRequest(t *testing.T) {
	var gotKey, gotVersion string

	client := newTestClient(t, "anthropic", func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		fmt.Fprint(w, anthropicContent(`{"has_instructions": false, "confidence": 0.1}`))
	})

	analysis, err := client.Analyze(context.Background(), "t", "b")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if gotKey != "test-key" {
		t.Errorf("x-api-key = %q", gotKey)
	}
	if gotVersion != "2023-06-01" {
		t.Errorf("anthropic-version = %q", gotVersion)
	}
	if analysis.HasInstructions {
		t.Error("HasInstructions = true, want false")
	}
}

func TestAnalyzeDefaultsMissingFields(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openAIContent(`{}`))
	})

	analysis, err := client.Analyze(context.Background(), "t", "b")
	if err != nil {
		t.Fatalf("Analyze: %v", err)
	}
	if analysis.HasInstructions || analysis.Confidence != 0 {
		t.Errorf("defaults wrong: %+v", analysis)
	}
	if analysis.Type != domain.InstructionGeneralInfo {
		t.Errorf("Type = %q, want general_info default", analysis.Type)
	}
	if analysis.Keywords == nil {
		t.Error("Keywords must be non-nil")
	}
}

func TestAnalyzeBackendFailure(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusInternalServerError)
	})

	_, err := client.Analyze(context.Background(), "t", "b")
	if !errors.Is(err, domain.ErrAiBackend) {
		t.Fatalf("err = %v, want ErrAiBackend", err)
	}
}

func TestAnalyzeMalformedCompletion(t *testing.T) {
	for name, content := range map[string]string{
		"not json":   "I cannot answer that.",
		"json array": `[1, 2, 3]`,
	} {
		t.Run(name, func(t *testing.T) {
			client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, openAIContent(content))
			})

			_, err := client.Analyze(context.Background(), "t", "b")
			if !errors.Is(err, domain.ErrMalformedAiResponse) {
				t.Fatalf("err = %v, want ErrMalformedAiResponse", err)
			}
		})
	}
}

func TestAnalyzeEmptyChoices(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"choices": []}`)
	})

	_, err := client.Analyze(context.Background(), "t", "b")
	if !errors.Is(err, domain.ErrMalformedAiResponse) {
		t.Fatalf("err = %v, want ErrMalformedAiResponse", err)
	}
}

func TestMatchParsesUpdateDecision(t *testing.T) {
	var prompt string

	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Messages[1].Content
		fmt.Fprint(w, openAIContent(`{
			"action": "update",
			"matched_article_id": 42,
			"matched_article_name": "Telefonannahme Basics",
			"confidence": 0.85,
			"reasoning": "same topic"
		}`))
	})

	candidates := []domain.CandidateArticle{
		{ID: 42, Name: "Telefonannahme Basics", Description: "greeting rules"},
	}
	match, err := client.Match(context.Background(), "use new greeting", candidates)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if match == nil {
		t.Fatal("match = nil")
	}
	if match.Action != domain.SuggestionUpdate {
		t.Errorf("Action = %q", match.Action)
	}
	if match.MatchedArticleID == nil || *match.MatchedArticleID != 42 {
		t.Errorf("MatchedArticleID = %v", match.MatchedArticleID)
	}
	if !strings.Contains(prompt, "Telefonannahme Basics") {
		t.Error("candidate name missing from prompt")
	}
}

func TestMatchDegradesOnBackendFailure(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusBadGateway)
	})

	match, err := client.Match(context.Background(), "instructions", nil)
	if err != nil {
		t.Fatalf("Match must not propagate backend errors, got %v", err)
	}
	if match != nil {
		t.Fatalf("match = %+v, want nil", match)
	}
}

func TestMatchDegradesOnMalformedPayload(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openAIContent("no idea"))
	})

	match, err := client.Match(context.Background(), "instructions", nil)
	if err != nil || match != nil {
		t.Fatalf("got (%+v, %v), want (nil, nil)", match, err)
	}
}

func TestMatchUnknownActionDefaultsToCreate(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openAIContent(`{"action": "merge", "confidence": 0.4}`))
	})

	match, err := client.Match(context.Background(), "instructions", nil)
	if err != nil {
		t.Fatalf("Match: %v", err)
	}
	if match.Action != domain.SuggestionCreate {
		t.Errorf("Action = %q, want create", match.Action)
	}
}

func TestMatchCapsCandidates(t *testing.T) {
	var prompt string

	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Messages[1].Content
		fmt.Fprint(w, openAIContent(`{"action": "create"}`))
	})

	var candidates []domain.CandidateArticle
	for i := int64(1); i <= 30; i++ {
		candidates = append(candidates, domain.CandidateArticle{ID: i, Name: fmt.Sprintf("article-%d", i)})
	}

	if _, err := client.Match(context.Background(), "instructions", candidates); err != nil {
		t.Fatalf("Match: %v", err)
	}
	if strings.Contains(prompt, "article-21") {
		t.Error("prompt carries candidates beyond the cap")
	}
	if !strings.Contains(prompt, "article-20") {
		t.Error("prompt is missing the last in-cap candidate")
	}
}

func TestGeneratePropagatesFailure(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	})

	_, err := client.Generate(context.Background(), "instructions", "<h2>[Titel]</h2>", "")
	if !errors.Is(err, domain.ErrAiBackend) {
		t.Fatalf("err = %v, want ErrAiBackend", err)
	}
}

func TestGenerateParsesContent(t *testing.T) {
	var prompt string

	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Messages []struct {
				Content string `json:"content"`
			} `json:"messages"`
		}
		_ = json.NewDecoder(r.Body).Decode(&body)
		prompt = body.Messages[1].Content
		fmt.Fprint(w, openAIContent(`{
			"title": "Phone Greeting Update",
			"content": "<h2>Telefonannahme</h2>",
			"summary": "new greeting",
			"sections": ["Begrüßung"]
		}`))
	})

	generated, err := client.Generate(context.Background(), "use new greeting", "<h2>[Titel]</h2>", "old text")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if generated.Title != "Phone Greeting Update" {
		t.Errorf("Title = %q", generated.Title)
	}
	if len(generated.Sections) != 1 {
		t.Errorf("Sections = %v", generated.Sections)
	}
	if !strings.Contains(prompt, "use new greeting") || !strings.Contains(prompt, "old text") {
		t.Error("prompt is missing instructions or existing content")
	}
}

func TestGenerateDefaultsSections(t *testing.T) {
	client := newTestClient(t, "openai", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, openAIContent(`{"title": "T", "content": "C"}`))
	})

	generated, err := client.Generate(context.Background(), "i", "t", "")
	if err != nil {
		t.Fatalf("Generate: %v", err)
	}
	if generated.Sections == nil {
		t.Error("Sections must be non-nil")
	}
}

func TestNewProviderRejectsUnknown(t *testing.T) {
	_, err := New(config.AIConfig{Provider: "bard"}, discardLogger())
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}
