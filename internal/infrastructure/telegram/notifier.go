package telegram

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// Notifier announces fresh pending suggestions to a Telegram chat so
// reviewers see them without polling the review list.
type Notifier struct {
	baseURL  string
	botToken string
	chatID   string
	client   *http.Client
}

var _ ports.Notifier = (*Notifier)(nil)

// NewNotifier registers bot token and chat identifier.
func NewNotifier(botToken, chatID string) *Notifier {
	return &Notifier{
		baseURL:  "https://api.telegram.org",
		botToken: botToken,
		chatID:   chatID,
		client:   &http.Client{Timeout: 5 * time.Second},
	}
}

// SuggestionCreated posts a short review prompt to the chat.
func (n *Notifier) SuggestionCreated(ctx context.Context, s domain.Suggestion) error {
	if n.botToken == "" || n.chatID == "" || n.client == nil {
		return fmt.Errorf("telegram notifier misconfigured")
	}

	confidence := 0.0
	if s.MatchConfidence != nil {
		confidence = *s.MatchConfidence
	}
	message := fmt.Sprintf("New knowledge base suggestion awaiting review\n%s\nType: %s\nCategory: %s\nMatch confidence: %.2f\nID: %s",
		s.SuggestedTitle, s.SuggestionType, s.CategoryName, confidence, s.ID)

	endpoint := fmt.Sprintf("%s/bot%s/sendMessage", n.baseURL, n.botToken)
	form := url.Values{}
	form.Set("chat_id", n.chatID)
	form.Set("text", message)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := n.client.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("telegram error: %s", resp.Status)
	}

	return nil
}
