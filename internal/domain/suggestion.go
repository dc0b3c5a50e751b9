package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// SuggestionType says whether the suggestion updates an existing article or
// creates a new one.
type SuggestionType string

const (
	SuggestionUpdate SuggestionType = "update"
	SuggestionCreate SuggestionType = "create"
)

// Status is the review lifecycle of a suggestion.
type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
	StatusApplied  Status = "applied"
)

// CanTransitionTo encodes the authoritative state machine:
//
//	pending --approve--> approved --apply--> applied
//	pending --reject--> rejected
//
// rejected and applied are terminal.
func (s Status) CanTransitionTo(next Status) bool {
	switch s {
	case StatusPending:
		return next == StatusApproved || next == StatusRejected
	case StatusApproved:
		return next == StatusApplied
	default:
		return false
	}
}

// Suggestion is the persisted proposal to create or update a knowledge base
// article, subject to human approval.
type Suggestion struct {
	ID                       uuid.UUID
	NewsID                   int64
	ExtractedInstructions    string
	SuggestedTitle           string
	SuggestedContent         string
	SuggestionType           SuggestionType
	MatchedKnowledgebaseID   *int64
	MatchedKnowledgebaseName string
	MatchConfidence          *float64
	CategoryName             string
	TemplateUsed             string
	AiMetadata               map[string]any
	Status                   Status
	AppliedAt                *time.Time
	CreationDate             time.Time
}

// Validate checks the structural invariants before the first write.
func (s Suggestion) Validate() error {
	if s.NewsID == 0 {
		return fmt.Errorf("suggestion must reference a news item")
	}
	if s.ExtractedInstructions == "" {
		return fmt.Errorf("suggestion must carry extracted instructions")
	}
	switch s.SuggestionType {
	case SuggestionUpdate:
		if s.MatchedKnowledgebaseID == nil {
			return fmt.Errorf("update suggestion requires a matched article id")
		}
	case SuggestionCreate:
	default:
		return fmt.Errorf("unknown suggestion type %q", s.SuggestionType)
	}
	if (s.Status == StatusApplied) != (s.AppliedAt != nil) {
		return fmt.Errorf("appliedAt must be set exactly when status is applied")
	}
	return nil
}

// IsPending reports whether the suggestion still awaits review.
func (s Suggestion) IsPending() bool { return s.Status == StatusPending }

// IsApproved reports whether the suggestion may be applied.
func (s Suggestion) IsApproved() bool { return s.Status == StatusApproved }
