// Package feed retrieves configured RSS feeds and stores new items.
package feed

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/mmcdole/gofeed"

	"NewsSuggester/internal/config"
	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// Fetcher pulls every configured feed and inserts items not seen before.
type Fetcher struct {
	parser  *gofeed.Parser
	entries ports.FeedEntryRepository
	feeds   []config.FeedConfig
	logger  *slog.Logger
}

// NewFetcher builds a fetcher over the configured feed list.
func NewFetcher(feeds []config.FeedConfig, entries ports.FeedEntryRepository, logger *slog.Logger) *Fetcher {
	parser := gofeed.NewParser()
	parser.Client = &http.Client{Timeout: 30 * time.Second}
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{parser: parser, entries: entries, feeds: feeds, logger: logger}
}

// RetrieveAll fetches each feed once. A failing feed is logged and skipped
// so the remaining feeds still run; the returned count is inserted items.
func (f *Fetcher) RetrieveAll(ctx context.Context) (int, error) {
	total := 0
	for _, feedCfg := range f.feeds {
		inserted, err := f.retrieve(ctx, feedCfg)
		if err != nil {
			f.logger.Error("feed retrieval failed", "feed", feedCfg.Name, "error", err)
			continue
		}
		total += inserted
	}
	return total, nil
}

func (f *Fetcher) retrieve(ctx context.Context, feedCfg config.FeedConfig) (int, error) {
	parsed, err := f.parser.ParseURLWithContext(feedCfg.URL, ctx)
	if err != nil {
		return 0, fmt.Errorf("parse feed %s: %w", feedCfg.URL, err)
	}

	inserted := 0
	for _, item := range parsed.Items {
		uniqID := item.GUID
		if uniqID == "" {
			uniqID = item.Link
		}
		if uniqID == "" {
			continue
		}

		exists, err := f.entries.ExistsByUniqID(ctx, uniqID)
		if err != nil {
			return inserted, fmt.Errorf("dedup check %s: %w", uniqID, err)
		}
		if exists {
			continue
		}

		publishedAt := time.Now().UTC()
		if item.PublishedParsed != nil {
			publishedAt = *item.PublishedParsed
		}

		entry := domain.FeedEntry{
			FeedName:    feedCfg.Name,
			Title:       item.Title,
			Description: item.Description,
			Link:        item.Link,
			UniqID:      uniqID,
			PublishedAt: publishedAt,
		}
		if err := f.entries.Create(ctx, &entry); err != nil {
			return inserted, fmt.Errorf("store entry %s: %w", uniqID, err)
		}
		inserted++
	}

	f.logger.Info("feed retrieved", "feed", feedCfg.Name, "items", len(parsed.Items), "new", inserted)
	return inserted, nil
}
