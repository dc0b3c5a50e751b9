package storage

import (
	"context"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5/pgxpool"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// FeedEntryRepository stores deduplicated RSS items.
type FeedEntryRepository struct {
	pool *pgxpool.Pool
}

var _ ports.FeedEntryRepository = (*FeedEntryRepository)(nil)

// NewFeedEntryRepository wires the pgx pool.
func NewFeedEntryRepository(pool *pgxpool.Pool) *FeedEntryRepository {
	return &FeedEntryRepository{pool: pool}
}

// ExistsByUniqID reports whether an item with this feed GUID was already
// stored.
func (r *FeedEntryRepository) ExistsByUniqID(ctx context.Context, uniqID string) (bool, error) {
	query, args, err := psql.Select("1").
		From("rss_feed_entries").
		Where(sq.Eq{"uniq_id": uniqID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("build select: %w", err)
	}

	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("query feed entry: %w", err)
	}
	defer rows.Close()

	exists := rows.Next()
	if err := rows.Err(); err != nil {
		return false, fmt.Errorf("iterate feed entries: %w", err)
	}
	return exists, nil
}

// ListRecentByFeed returns up to limit entries, newest first by publish
// date. An empty feed name spans all feeds.
func (r *FeedEntryRepository) ListRecentByFeed(ctx context.Context, feedName string, limit int) ([]domain.FeedEntry, error) {
	builder := psql.Select("id", "feed_name", "title", "description", "link", "uniq_id", "published_at", "creation_date").
		From("rss_feed_entries").
		OrderBy("published_at DESC").
		Limit(uint64(limit))
	if feedName != "" {
		builder = builder.Where(sq.Eq{"feed_name": feedName})
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query feed entries: %w", err)
	}
	defer rows.Close()

	var result []domain.FeedEntry
	for rows.Next() {
		var entry domain.FeedEntry
		if err := rows.Scan(&entry.ID, &entry.FeedName, &entry.Title, &entry.Description,
			&entry.Link, &entry.UniqID, &entry.PublishedAt, &entry.CreationDate); err != nil {
			return nil, fmt.Errorf("scan feed entry: %w", err)
		}
		result = append(result, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate feed entries: %w", err)
	}
	return result, nil
}

// Create inserts a feed entry and fills in its generated id.
func (r *FeedEntryRepository) Create(ctx context.Context, entry *domain.FeedEntry) error {
	if entry.CreationDate.IsZero() {
		entry.CreationDate = time.Now().UTC()
	}

	query, args, err := psql.Insert("rss_feed_entries").
		Columns("feed_name", "title", "description", "link", "uniq_id", "published_at", "creation_date").
		Values(entry.FeedName, entry.Title, entry.Description, entry.Link, entry.UniqID, entry.PublishedAt, entry.CreationDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	if err := row.Scan(&entry.ID); err != nil {
		return fmt.Errorf("insert feed entry: %w", err)
	}
	return nil
}
