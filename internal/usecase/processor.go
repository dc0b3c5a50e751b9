package usecase

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// candidateLimit caps the knowledge articles fetched for matching.
const candidateLimit = 20

// ProcessorDeps wires all driven adapters into the suggestion pipeline.
type ProcessorDeps struct {
	Analyzer      ports.Analyzer
	KnowledgeBase ports.KnowledgeBase
	Suggestions   ports.SuggestionRepository
	Tx            ports.TxManager
	Notifier      ports.Notifier
	Logger        *slog.Logger
}

// Processor drives the news-to-knowledge-base workflow: analyze, match,
// generate, persist — and later applies approved suggestions.
type Processor struct {
	analyzer    ports.Analyzer
	kb          ports.KnowledgeBase
	suggestions ports.SuggestionRepository
	tx          ports.TxManager
	notifier    ports.Notifier
	logger      *slog.Logger
}

// NewProcessor constructs the orchestration component.
func NewProcessor(deps ProcessorDeps) *Processor {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Processor{
		analyzer:    deps.Analyzer,
		kb:          deps.KnowledgeBase,
		suggestions: deps.Suggestions,
		tx:          deps.Tx,
		notifier:    deps.Notifier,
		logger:      logger,
	}
}

// Process runs the four pipeline stages for one news post. A nil suggestion
// with nil error means the news carried no actionable instructions; that is
// a normal outcome, not a failure.
func (p *Processor) Process(ctx context.Context, news domain.News) (*domain.Suggestion, error) {
	analysis, err := p.analyzer.Analyze(ctx, news.Title, news.Content)
	if err != nil {
		return nil, fmt.Errorf("analyze news %d: %w", news.ID, err)
	}

	if !analysis.Actionable() {
		p.logger.Info("no actionable instructions",
			"news_id", news.ID, "confidence", analysis.Confidence)
		return nil, nil
	}

	candidates, err := p.kb.SearchCandidates(ctx, analysis.Keywords, candidateLimit)
	if err != nil {
		return nil, fmt.Errorf("search candidates for news %d: %w", news.ID, err)
	}

	match, err := p.analyzer.Match(ctx, analysis.Instructions, candidates)
	if err != nil {
		// The analyzer contract already degrades match failures to nil; this
		// guard keeps third-party implementations from aborting the pipeline.
		p.logger.Warn("matching failed, falling back to create", "news_id", news.ID, "error", err)
		match = nil
	}

	action := domain.SuggestionCreate
	var matchedID *int64
	if match != nil {
		action = match.Action
		matchedID = match.MatchedArticleID
	}
	if action == domain.SuggestionUpdate && matchedID == nil {
		action = domain.SuggestionCreate
	}

	template := TemplateForCategory(analysis.Category)

	existingContent := ""
	if action == domain.SuggestionUpdate {
		article, err := p.kb.FindArticle(ctx, *matchedID)
		switch {
		case errors.Is(err, domain.ErrNotFound):
			// A stale match target is tolerated: generate as if new.
		case err != nil:
			return nil, fmt.Errorf("load matched article %d: %w", *matchedID, err)
		default:
			existingContent = article.Description
		}
	}

	generated, err := p.analyzer.Generate(ctx, analysis.Instructions, template, existingContent)
	if err != nil {
		return nil, fmt.Errorf("generate content for news %d: %w", news.ID, err)
	}

	suggestion := &domain.Suggestion{
		NewsID:                 news.ID,
		ExtractedInstructions:  analysis.Instructions,
		SuggestedTitle:         generated.Title,
		SuggestedContent:       generated.Content,
		SuggestionType:         action,
		MatchedKnowledgebaseID: matchedID,
		CategoryName:           analysis.Category,
		TemplateUsed:           template,
		Status:                 domain.StatusPending,
		AiMetadata: map[string]any{
			"analysis":     analysis,
			"match":        match,
			"generation":   generated,
			"processed_at": time.Now().UTC().Format(time.RFC3339),
		},
	}
	if match != nil {
		suggestion.MatchedKnowledgebaseName = match.MatchedArticleName
		confidence := match.Confidence
		suggestion.MatchConfidence = &confidence
	}

	if err := p.suggestions.Create(ctx, suggestion); err != nil {
		return nil, fmt.Errorf("persist suggestion for news %d: %w", news.ID, err)
	}

	p.logger.Info("suggestion created",
		"news_id", news.ID, "suggestion_id", suggestion.ID, "type", suggestion.SuggestionType)

	if p.notifier != nil {
		if err := p.notifier.SuggestionCreated(ctx, *suggestion); err != nil {
			p.logger.Warn("reviewer notification failed",
				"suggestion_id", suggestion.ID, "error", err)
		}
	}

	return suggestion, nil
}

// Apply merges an approved suggestion into the knowledge base. The approved
// -> applied move is one conditional update inside the same transaction as
// the article write, so two concurrent applies yield exactly one winner.
func (p *Processor) Apply(ctx context.Context, id uuid.UUID) (domain.KnowledgeArticle, error) {
	var article domain.KnowledgeArticle

	run := func(ctx context.Context) error {
		suggestion, err := p.suggestions.FindByID(ctx, id)
		if err != nil {
			return err
		}

		now := time.Now().UTC()
		moved, err := p.suggestions.UpdateStatus(ctx, id, domain.StatusApproved, domain.StatusApplied, &now)
		if err != nil {
			return fmt.Errorf("claim suggestion %s: %w", id, err)
		}
		if !moved {
			return fmt.Errorf("suggestion %s is %s, want approved: %w",
				id, suggestion.Status, domain.ErrInvalidTransition)
		}

		if suggestion.SuggestionType == domain.SuggestionUpdate {
			article, err = p.applyUpdate(ctx, suggestion)
		} else {
			article, err = p.applyCreate(ctx, suggestion)
		}
		return err
	}

	var err error
	if p.tx != nil {
		err = p.tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return domain.KnowledgeArticle{}, err
	}

	p.logger.Info("suggestion applied", "suggestion_id", id, "kb_id", article.ID)
	return article, nil
}

func (p *Processor) applyUpdate(ctx context.Context, s domain.Suggestion) (domain.KnowledgeArticle, error) {
	if s.MatchedKnowledgebaseID == nil {
		return domain.KnowledgeArticle{},
			fmt.Errorf("update suggestion %s has no matched article: %w", s.ID, domain.ErrNotFound)
	}

	article, err := p.kb.FindArticle(ctx, *s.MatchedKnowledgebaseID)
	if err != nil {
		return domain.KnowledgeArticle{}, err
	}

	if err := p.kb.UpdateArticle(ctx, article.ID, s.SuggestedTitle, s.SuggestedContent); err != nil {
		return domain.KnowledgeArticle{}, err
	}

	article.Name = s.SuggestedTitle
	article.Description = s.SuggestedContent
	return article, nil
}

func (p *Processor) applyCreate(ctx context.Context, s domain.Suggestion) (domain.KnowledgeArticle, error) {
	category, err := p.kb.FindOrCreateCategory(ctx, s.CategoryName)
	if err != nil {
		return domain.KnowledgeArticle{}, fmt.Errorf("resolve category %q: %w", s.CategoryName, err)
	}

	article := domain.KnowledgeArticle{
		Name:        s.SuggestedTitle,
		Description: s.SuggestedContent,
		CategoryID:  &category.ID,
	}
	if err := p.kb.CreateArticle(ctx, &article); err != nil {
		return domain.KnowledgeArticle{}, err
	}

	if err := p.suggestions.SetMatchedArticle(ctx, s.ID, article.ID); err != nil {
		return domain.KnowledgeArticle{}, err
	}
	return article, nil
}
