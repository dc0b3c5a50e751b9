package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// NewsPublisher creates news posts and mirrors them into the reserved
// internal feed so they show up next to external RSS items.
type NewsPublisher struct {
	news    ports.NewsRepository
	entries ports.FeedEntryRepository
	tx      ports.TxManager
	logger  *slog.Logger
}

// NewNewsPublisher constructs the publishing component.
func NewNewsPublisher(news ports.NewsRepository, entries ports.FeedEntryRepository, tx ports.TxManager, logger *slog.Logger) *NewsPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &NewsPublisher{news: news, entries: entries, tx: tx, logger: logger}
}

// Publish stores the post and its internal feed mirror in one transaction.
func (p *NewsPublisher) Publish(ctx context.Context, title, content string) (domain.News, error) {
	news := domain.News{Title: title, Content: content}

	run := func(ctx context.Context) error {
		if err := p.news.Create(ctx, &news); err != nil {
			return fmt.Errorf("create news: %w", err)
		}
		return p.mirrorToInternalFeed(ctx, &news)
	}

	var err error
	if p.tx != nil {
		err = p.tx.RunInTx(ctx, run)
	} else {
		err = run(ctx)
	}
	if err != nil {
		return domain.News{}, err
	}

	p.logger.Info("news published", "news_id", news.ID)
	return news, nil
}

// mirrorToInternalFeed keeps both sides of the news/feed-entry relation
// consistent. Every mutation site that creates a news post must call it;
// the link is never a hidden setter side effect.
func (p *NewsPublisher) mirrorToInternalFeed(ctx context.Context, news *domain.News) error {
	entry := domain.FeedEntry{
		FeedName:    domain.InternalFeedName,
		Title:       news.Title,
		Description: news.Content,
		Link:        fmt.Sprintf("/news/%d", news.ID),
		UniqID:      fmt.Sprintf("internal-news-%d", news.ID),
		PublishedAt: time.Now().UTC(),
	}
	if err := p.entries.Create(ctx, &entry); err != nil {
		return fmt.Errorf("mirror news %d to internal feed: %w", news.ID, err)
	}

	if err := p.news.SetFeedEntry(ctx, news.ID, entry.ID); err != nil {
		return fmt.Errorf("link news %d to feed entry %d: %w", news.ID, entry.ID, err)
	}
	news.FeedEntryID = &entry.ID
	return nil
}
