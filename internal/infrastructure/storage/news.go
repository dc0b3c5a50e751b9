package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

// NewsRepository persists news posts.
type NewsRepository struct {
	pool *pgxpool.Pool
}

var _ ports.NewsRepository = (*NewsRepository)(nil)

// NewNewsRepository wires the pgx pool.
func NewNewsRepository(pool *pgxpool.Pool) *NewsRepository {
	return &NewsRepository{pool: pool}
}

// FindByID loads one news post or domain.ErrNotFound.
func (r *NewsRepository) FindByID(ctx context.Context, id int64) (domain.News, error) {
	query, args, err := psql.Select("id", "title", "content", "feed_entry_id", "creation_date").
		From("news").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.News{}, fmt.Errorf("build select: %w", err)
	}

	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	news, err := scanNews(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.News{}, fmt.Errorf("news %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.News{}, fmt.Errorf("scan news: %w", err)
	}
	return news, nil
}

// FindRecent returns news created at or after since, newest first. With
// excludeSuggested set, posts that already have a suggestion are skipped so
// a sweep does not reprocess them.
func (r *NewsRepository) FindRecent(ctx context.Context, since time.Time, limit int, excludeSuggested bool) ([]domain.News, error) {
	builder := psql.Select("id", "title", "content", "feed_entry_id", "creation_date").
		From("news").
		Where(sq.GtOrEq{"creation_date": since}).
		OrderBy("creation_date DESC").
		Limit(uint64(limit))

	if excludeSuggested {
		builder = builder.Where(sq.Expr(
			"NOT EXISTS (SELECT 1 FROM news_suggestions s WHERE s.news_id = news.id)"))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}

	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query news: %w", err)
	}
	defer rows.Close()

	var result []domain.News
	for rows.Next() {
		news, err := scanNews(rows)
		if err != nil {
			return nil, fmt.Errorf("scan news: %w", err)
		}
		result = append(result, news)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate news: %w", err)
	}
	return result, nil
}

// Create inserts a news post and fills in its generated id.
func (r *NewsRepository) Create(ctx context.Context, news *domain.News) error {
	if news.CreationDate.IsZero() {
		news.CreationDate = time.Now().UTC()
	}

	query, args, err := psql.Insert("news").
		Columns("title", "content", "feed_entry_id", "creation_date").
		Values(news.Title, news.Content, news.FeedEntryID, news.CreationDate).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	if err := row.Scan(&news.ID); err != nil {
		return fmt.Errorf("insert news: %w", err)
	}
	return nil
}

// SetFeedEntry links a news post to its mirrored feed entry.
func (r *NewsRepository) SetFeedEntry(ctx context.Context, newsID, entryID int64) error {
	query, args, err := psql.Update("news").
		Set("feed_entry_id", entryID).
		Where(sq.Eq{"id": newsID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := executorFrom(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("link feed entry: %w", err)
	}
	return nil
}

func scanNews(row pgx.Row) (domain.News, error) {
	var (
		news        domain.News
		feedEntryID pgtype.Int8
	)
	if err := row.Scan(&news.ID, &news.Title, &news.Content, &feedEntryID, &news.CreationDate); err != nil {
		return domain.News{}, err
	}
	if feedEntryID.Valid {
		v := feedEntryID.Int64
		news.FeedEntryID = &v
	}
	return news, nil
}
