package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/uuid"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// Approval guards the human review transitions. Approve and reject are only
// reachable from pending; applying is delegated to the processor, which
// enforces the approved precondition itself.
type Approval struct {
	suggestions ports.SuggestionRepository
	processor   *Processor
	logger      *slog.Logger
}

// NewApproval constructs the review gateway.
func NewApproval(suggestions ports.SuggestionRepository, processor *Processor, logger *slog.Logger) *Approval {
	if logger == nil {
		logger = slog.Default()
	}
	return &Approval{suggestions: suggestions, processor: processor, logger: logger}
}

// Approve moves a pending suggestion to approved.
func (a *Approval) Approve(ctx context.Context, id uuid.UUID) error {
	return a.transition(ctx, id, domain.StatusApproved)
}

// Reject moves a pending suggestion to rejected, a terminal state.
func (a *Approval) Reject(ctx context.Context, id uuid.UUID) error {
	return a.transition(ctx, id, domain.StatusRejected)
}

// Apply merges an approved suggestion into the knowledge base.
func (a *Approval) Apply(ctx context.Context, id uuid.UUID) (domain.KnowledgeArticle, error) {
	return a.processor.Apply(ctx, id)
}

func (a *Approval) transition(ctx context.Context, id uuid.UUID, to domain.Status) error {
	moved, err := a.suggestions.UpdateStatus(ctx, id, domain.StatusPending, to, nil)
	if err != nil {
		return fmt.Errorf("transition suggestion %s: %w", id, err)
	}
	if !moved {
		// Distinguish a missing suggestion from one in the wrong state.
		current, err := a.suggestions.FindByID(ctx, id)
		if err != nil {
			return err
		}
		return fmt.Errorf("suggestion %s is %s, want pending: %w",
			id, current.Status, domain.ErrInvalidTransition)
	}

	a.logger.Info("suggestion reviewed", "suggestion_id", id, "status", to)
	return nil
}
