package ports

import (
	"context"
	"time"

	"github.com/google/uuid"

	"NewsSuggester/internal/domain"
)

// Analyzer exposes the three AI capabilities the pipeline consumes.
//
// Analyze and Generate propagate backend failures; Match degrades to
// (nil, nil) so the pipeline can still fall back to creating a new article.
type Analyzer interface {
	Analyze(ctx context.Context, title, body string) (domain.Analysis, error)
	Match(ctx context.Context, instructions string, candidates []domain.CandidateArticle) (*domain.Match, error)
	Generate(ctx context.Context, instructions, template, existingContent string) (domain.GeneratedContent, error)
}

// NewsRepository reads and writes news posts.
type NewsRepository interface {
	FindByID(ctx context.Context, id int64) (domain.News, error)
	// FindRecent returns news created at or after since, newest first. With
	// excludeSuggested set, items that already have a suggestion are left out.
	FindRecent(ctx context.Context, since time.Time, limit int, excludeSuggested bool) ([]domain.News, error)
	Create(ctx context.Context, news *domain.News) error
	SetFeedEntry(ctx context.Context, newsID, entryID int64) error
}

// SuggestionRepository persists suggestions and their status transitions.
type SuggestionRepository interface {
	Create(ctx context.Context, s *domain.Suggestion) error
	FindByID(ctx context.Context, id uuid.UUID) (domain.Suggestion, error)
	FindPending(ctx context.Context) ([]domain.Suggestion, error)
	FindByNews(ctx context.Context, newsID int64) ([]domain.Suggestion, error)
	// UpdateStatus performs the conditional transition from -> to as a single
	// statement and reports whether a row was actually moved. appliedAt is
	// written alongside when non-nil.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, appliedAt *time.Time) (bool, error)
	SetMatchedArticle(ctx context.Context, id uuid.UUID, articleID int64) error
}

// KnowledgeBase is the read/write gateway to articles and categories.
type KnowledgeBase interface {
	// FindArticle returns domain.ErrNotFound when the id does not exist.
	FindArticle(ctx context.Context, id int64) (domain.KnowledgeArticle, error)
	// SearchCandidates returns up to limit articles whose name or description
	// contains any keyword (case-insensitive), trimmed for matching.
	SearchCandidates(ctx context.Context, keywords []string, limit int) ([]domain.CandidateArticle, error)
	CreateArticle(ctx context.Context, article *domain.KnowledgeArticle) error
	UpdateArticle(ctx context.Context, id int64, name, description string) error
	FindOrCreateCategory(ctx context.Context, name string) (domain.Category, error)
}

// FeedEntryRepository stores deduplicated feed items.
type FeedEntryRepository interface {
	ExistsByUniqID(ctx context.Context, uniqID string) (bool, error)
	Create(ctx context.Context, entry *domain.FeedEntry) error
	// ListRecentByFeed returns up to limit entries of one feed, newest
	// first; an empty feed name lists across all feeds.
	ListRecentByFeed(ctx context.Context, feedName string, limit int) ([]domain.FeedEntry, error)
}

// TxManager runs fn inside one database transaction; repositories called
// with the returned context join it.
type TxManager interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier announces fresh pending suggestions to reviewers.
type Notifier interface {
	SuggestionCreated(ctx context.Context, s domain.Suggestion) error
}

// Scheduler controls when recurring jobs execute.
type Scheduler interface {
	Start(ctx context.Context, job func(time.Time)) error
	Stop(ctx context.Context) error
}
