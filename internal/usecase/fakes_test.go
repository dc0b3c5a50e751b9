package usecase

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"NewsSuggester/internal/domain"
)

// fakeAnalyzer scripts the three AI calls per test.
type fakeAnalyzer struct {
	mu sync.Mutex

	analysis    domain.Analysis
	analyzeErr  error
	analyzeF    func(title string) (domain.Analysis, error)
	match       *domain.Match
	matchErr    error
	generated   domain.GeneratedContent
	generateErr error

	lastExistingContent string
	lastTemplate        string
	generateCalls       int
}

func (f *fakeAnalyzer) Analyze(_ context.Context, title, _ string) (domain.Analysis, error) {
	if f.analyzeF != nil {
		return f.analyzeF(title)
	}
	return f.analysis, f.analyzeErr
}

func (f *fakeAnalyzer) Match(context.Context, string, []domain.CandidateArticle) (*domain.Match, error) {
	if f.matchErr != nil {
		return nil, f.matchErr
	}
	return f.match, nil
}

func (f *fakeAnalyzer) Generate(_ context.Context, _, template, existingContent string) (domain.GeneratedContent, error) {
	f.mu.Lock()
	f.lastTemplate = template
	f.lastExistingContent = existingContent
	f.generateCalls++
	f.mu.Unlock()
	return f.generated, f.generateErr
}

// fakeKnowledgeBase is an in-memory article/category store.
type fakeKnowledgeBase struct {
	mu         sync.Mutex
	articles   map[int64]domain.KnowledgeArticle
	categories map[string]domain.Category
	nextID     int64
	candidates []domain.CandidateArticle

	articleWrites int
}

func newFakeKnowledgeBase() *fakeKnowledgeBase {
	return &fakeKnowledgeBase{
		articles:   map[int64]domain.KnowledgeArticle{},
		categories: map[string]domain.Category{},
		nextID:     100,
	}
}

func (f *fakeKnowledgeBase) FindArticle(_ context.Context, id int64) (domain.KnowledgeArticle, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return domain.KnowledgeArticle{}, fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	return article, nil
}

func (f *fakeKnowledgeBase) SearchCandidates(context.Context, []string, int) ([]domain.CandidateArticle, error) {
	return f.candidates, nil
}

func (f *fakeKnowledgeBase) CreateArticle(_ context.Context, article *domain.KnowledgeArticle) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	article.ID = f.nextID
	f.articles[article.ID] = *article
	f.articleWrites++
	return nil
}

func (f *fakeKnowledgeBase) UpdateArticle(_ context.Context, id int64, name, description string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	article, ok := f.articles[id]
	if !ok {
		return fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	article.Name = name
	article.Description = description
	f.articles[id] = article
	f.articleWrites++
	return nil
}

func (f *fakeKnowledgeBase) FindOrCreateCategory(_ context.Context, name string) (domain.Category, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if category, ok := f.categories[name]; ok {
		return category, nil
	}
	f.nextID++
	category := domain.Category{ID: f.nextID, Name: name}
	f.categories[name] = category
	return category, nil
}

// fakeSuggestionStore mimics the conditional-update semantics of the real
// repository, including the atomic status claim.
type fakeSuggestionStore struct {
	mu    sync.Mutex
	items map[uuid.UUID]*domain.Suggestion
}

func newFakeSuggestionStore() *fakeSuggestionStore {
	return &fakeSuggestionStore{items: map[uuid.UUID]*domain.Suggestion{}}
}

func (f *fakeSuggestionStore) Create(_ context.Context, s *domain.Suggestion) error {
	if err := s.Validate(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreationDate.IsZero() {
		s.CreationDate = time.Now().UTC()
	}
	clone := *s
	f.items[s.ID] = &clone
	return nil
}

func (f *fakeSuggestionStore) FindByID(_ context.Context, id uuid.UUID) (domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return domain.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	return *s, nil
}

func (f *fakeSuggestionStore) FindPending(context.Context) ([]domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var pending []domain.Suggestion
	for _, s := range f.items {
		if s.Status == domain.StatusPending {
			pending = append(pending, *s)
		}
	}
	return pending, nil
}

func (f *fakeSuggestionStore) FindByNews(_ context.Context, newsID int64) ([]domain.Suggestion, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var result []domain.Suggestion
	for _, s := range f.items {
		if s.NewsID == newsID {
			result = append(result, *s)
		}
	}
	return result, nil
}

func (f *fakeSuggestionStore) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.Status, appliedAt *time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok || s.Status != from {
		return false, nil
	}
	s.Status = to
	if appliedAt != nil {
		s.AppliedAt = appliedAt
	}
	return true, nil
}

func (f *fakeSuggestionStore) SetMatchedArticle(_ context.Context, id uuid.UUID, articleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	s, ok := f.items[id]
	if !ok {
		return fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	s.MatchedKnowledgebaseID = &articleID
	return nil
}

func (f *fakeSuggestionStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.items)
}

// passthroughTx runs the function without a real transaction.
type passthroughTx struct{}

func (passthroughTx) RunInTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// fakeNotifier records notifications.
type fakeNotifier struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeNotifier) SuggestionCreated(context.Context, domain.Suggestion) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

// fakeNewsRepo serves a fixed news list to the sweeper.
type fakeNewsRepo struct {
	news []domain.News

	lastExcludeSuggested bool
}

func (f *fakeNewsRepo) FindByID(_ context.Context, id int64) (domain.News, error) {
	for _, n := range f.news {
		if n.ID == id {
			return n, nil
		}
	}
	return domain.News{}, fmt.Errorf("news %d: %w", id, domain.ErrNotFound)
}

func (f *fakeNewsRepo) FindRecent(_ context.Context, _ time.Time, limit int, excludeSuggested bool) ([]domain.News, error) {
	f.lastExcludeSuggested = excludeSuggested
	if len(f.news) > limit {
		return f.news[:limit], nil
	}
	return f.news, nil
}

func (f *fakeNewsRepo) Create(_ context.Context, news *domain.News) error {
	news.ID = int64(len(f.news) + 1)
	f.news = append(f.news, *news)
	return nil
}

func (f *fakeNewsRepo) SetFeedEntry(_ context.Context, newsID, entryID int64) error {
	for i := range f.news {
		if f.news[i].ID == newsID {
			f.news[i].FeedEntryID = &entryID
			return nil
		}
	}
	return fmt.Errorf("news %d: %w", newsID, domain.ErrNotFound)
}
