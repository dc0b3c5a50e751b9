package storage

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/htmltext"
	"NewsSuggester/internal/ports"
)

// candidateExcerptLen bounds the plain-text description handed to matching.
const candidateExcerptLen = 200

// KnowledgeBaseRepository reads and writes articles and categories.
type KnowledgeBaseRepository struct {
	pool *pgxpool.Pool
}

var _ ports.KnowledgeBase = (*KnowledgeBaseRepository)(nil)

// NewKnowledgeBaseRepository wires the pgx pool.
func NewKnowledgeBaseRepository(pool *pgxpool.Pool) *KnowledgeBaseRepository {
	return &KnowledgeBaseRepository{pool: pool}
}

// FindArticle loads one article or domain.ErrNotFound.
func (r *KnowledgeBaseRepository) FindArticle(ctx context.Context, id int64) (domain.KnowledgeArticle, error) {
	query, args, err := psql.Select("id", "name", "description", "category_id").
		From("knowledgebase_articles").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.KnowledgeArticle{}, fmt.Errorf("build select: %w", err)
	}

	var (
		article    domain.KnowledgeArticle
		categoryID pgtype.Int8
	)
	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	err = row.Scan(&article.ID, &article.Name, &article.Description, &categoryID)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.KnowledgeArticle{}, fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.KnowledgeArticle{}, fmt.Errorf("scan article: %w", err)
	}
	if categoryID.Valid {
		v := categoryID.Int64
		article.CategoryID = &v
	}
	return article, nil
}

// SearchCandidates returns up to limit articles whose name or description
// contains any keyword, each trimmed to a short plain-text projection for
// the matching prompt. Without keywords it returns the first limit articles.
func (r *KnowledgeBaseRepository) SearchCandidates(ctx context.Context, keywords []string, limit int) ([]domain.CandidateArticle, error) {
	builder := psql.Select("id", "name", "description").
		From("knowledgebase_articles").
		OrderBy("id").
		Limit(uint64(limit))

	or := sq.Or{}
	for _, keyword := range keywords {
		if keyword == "" {
			continue
		}
		pattern := "%" + keyword + "%"
		or = append(or,
			sq.ILike{"name": pattern},
			sq.ILike{"description": pattern},
		)
	}
	if len(or) > 0 {
		builder = builder.Where(or)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("build search: %w", err)
	}

	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("search candidates: %w", err)
	}
	defer rows.Close()

	var candidates []domain.CandidateArticle
	for rows.Next() {
		var (
			c    domain.CandidateArticle
			desc pgtype.Text
		)
		if err := rows.Scan(&c.ID, &c.Name, &desc); err != nil {
			return nil, fmt.Errorf("scan candidate: %w", err)
		}
		c.Description = htmltext.Excerpt(desc.String, candidateExcerptLen)
		candidates = append(candidates, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate candidates: %w", err)
	}
	return candidates, nil
}

// CreateArticle inserts a new article and fills in its generated id.
func (r *KnowledgeBaseRepository) CreateArticle(ctx context.Context, article *domain.KnowledgeArticle) error {
	query, args, err := psql.Insert("knowledgebase_articles").
		Columns("name", "description", "category_id").
		Values(article.Name, article.Description, article.CategoryID).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	if err := row.Scan(&article.ID); err != nil {
		return fmt.Errorf("insert article: %w", err)
	}
	return nil
}

// UpdateArticle overwrites name and description of an existing article.
func (r *KnowledgeBaseRepository) UpdateArticle(ctx context.Context, id int64, name, description string) error {
	query, args, err := psql.Update("knowledgebase_articles").
		Set("name", name).
		Set("description", description).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	tag, err := executorFrom(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update article: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("article %d: %w", id, domain.ErrNotFound)
	}
	return nil
}

// FindOrCreateCategory resolves a category by exact name, creating it when
// absent. The upsert keeps concurrent creates of the same name race-free.
func (r *KnowledgeBaseRepository) FindOrCreateCategory(ctx context.Context, name string) (domain.Category, error) {
	query, args, err := psql.Select("id", "name").
		From("knowledgebase_categories").
		Where(sq.Eq{"name": name}).
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build select: %w", err)
	}

	var category domain.Category
	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	err = row.Scan(&category.ID, &category.Name)
	if err == nil {
		return category, nil
	}
	if !errors.Is(err, pgx.ErrNoRows) {
		return domain.Category{}, fmt.Errorf("scan category: %w", err)
	}

	query, args, err = psql.Insert("knowledgebase_categories").
		Columns("name").
		Values(name).
		Suffix("ON CONFLICT (name) DO UPDATE SET name = EXCLUDED.name RETURNING id").
		ToSql()
	if err != nil {
		return domain.Category{}, fmt.Errorf("build insert: %w", err)
	}

	row = executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	if err := row.Scan(&category.ID); err != nil {
		return domain.Category{}, fmt.Errorf("insert category: %w", err)
	}
	category.Name = name
	return category, nil
}
