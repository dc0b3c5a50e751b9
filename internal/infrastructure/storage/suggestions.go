package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	sq "github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"
	"github.com/jackc/pgx/v5/pgxpool"

	"NewsSuggester/internal/domain"
	"NewsSuggester/internal/ports"
)

const suggestionColumns = "id, news_id, extracted_instructions, suggested_title, suggested_content, " +
	"suggestion_type, matched_knowledgebase_id, matched_knowledgebase_name, match_confidence, " +
	"category_name, template_used, ai_metadata, status, applied_at, creation_date"

// SuggestionRepository persists suggestions in the news_suggestions table.
type SuggestionRepository struct {
	pool *pgxpool.Pool
}

var _ ports.SuggestionRepository = (*SuggestionRepository)(nil)

// NewSuggestionRepository wires the pgx pool.
func NewSuggestionRepository(pool *pgxpool.Pool) *SuggestionRepository {
	return &SuggestionRepository{pool: pool}
}

// Create inserts a new suggestion, assigning id and creation date when unset.
func (r *SuggestionRepository) Create(ctx context.Context, s *domain.Suggestion) error {
	if err := s.Validate(); err != nil {
		return fmt.Errorf("validate suggestion: %w", err)
	}
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.CreationDate.IsZero() {
		s.CreationDate = time.Now().UTC()
	}

	query, args, err := psql.Insert("news_suggestions").
		Columns("id", "news_id", "extracted_instructions", "suggested_title", "suggested_content",
			"suggestion_type", "matched_knowledgebase_id", "matched_knowledgebase_name", "match_confidence",
			"category_name", "template_used", "ai_metadata", "status", "applied_at", "creation_date").
		Values(s.ID, s.NewsID, s.ExtractedInstructions, s.SuggestedTitle, s.SuggestedContent,
			s.SuggestionType, s.MatchedKnowledgebaseID, s.MatchedKnowledgebaseName, s.MatchConfidence,
			s.CategoryName, s.TemplateUsed, s.AiMetadata, s.Status, s.AppliedAt, s.CreationDate).
		ToSql()
	if err != nil {
		return fmt.Errorf("build insert: %w", err)
	}

	if _, err := executorFrom(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("insert suggestion: %w", err)
	}
	return nil
}

// FindByID loads one suggestion or domain.ErrNotFound.
func (r *SuggestionRepository) FindByID(ctx context.Context, id uuid.UUID) (domain.Suggestion, error) {
	query, args, err := psql.Select(suggestionColumns).
		From("news_suggestions").
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("build select: %w", err)
	}

	row := executorFrom(ctx, r.pool).QueryRow(ctx, query, args...)
	s, err := scanSuggestion(row)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.Suggestion{}, fmt.Errorf("suggestion %s: %w", id, domain.ErrNotFound)
	}
	if err != nil {
		return domain.Suggestion{}, fmt.Errorf("scan suggestion: %w", err)
	}
	return s, nil
}

// FindPending lists suggestions awaiting review, newest first.
func (r *SuggestionRepository) FindPending(ctx context.Context) ([]domain.Suggestion, error) {
	query, args, err := psql.Select(suggestionColumns).
		From("news_suggestions").
		Where(sq.Eq{"status": domain.StatusPending}).
		OrderBy("creation_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.query(ctx, query, args)
}

// FindByNews lists all suggestions produced for one news item, newest first.
func (r *SuggestionRepository) FindByNews(ctx context.Context, newsID int64) ([]domain.Suggestion, error) {
	query, args, err := psql.Select(suggestionColumns).
		From("news_suggestions").
		Where(sq.Eq{"news_id": newsID}).
		OrderBy("creation_date DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("build select: %w", err)
	}
	return r.query(ctx, query, args)
}

// UpdateStatus moves the suggestion from -> to as one conditional statement.
// The WHERE on the source status is what makes approve/reject/apply safe
// against concurrent transitions.
func (r *SuggestionRepository) UpdateStatus(ctx context.Context, id uuid.UUID, from, to domain.Status, appliedAt *time.Time) (bool, error) {
	builder := psql.Update("news_suggestions").
		Set("status", to).
		Where(sq.Eq{"id": id, "status": from})
	if appliedAt != nil {
		builder = builder.Set("applied_at", *appliedAt)
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return false, fmt.Errorf("build update: %w", err)
	}

	tag, err := executorFrom(ctx, r.pool).Exec(ctx, query, args...)
	if err != nil {
		return false, fmt.Errorf("update status: %w", err)
	}
	return tag.RowsAffected() > 0, nil
}

// SetMatchedArticle backfills the created article id after apply.
func (r *SuggestionRepository) SetMatchedArticle(ctx context.Context, id uuid.UUID, articleID int64) error {
	query, args, err := psql.Update("news_suggestions").
		Set("matched_knowledgebase_id", articleID).
		Where(sq.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("build update: %w", err)
	}

	if _, err := executorFrom(ctx, r.pool).Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("set matched article: %w", err)
	}
	return nil
}

func (r *SuggestionRepository) query(ctx context.Context, query string, args []any) ([]domain.Suggestion, error) {
	rows, err := executorFrom(ctx, r.pool).Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query suggestions: %w", err)
	}
	defer rows.Close()

	var result []domain.Suggestion
	for rows.Next() {
		s, err := scanSuggestion(rows)
		if err != nil {
			return nil, fmt.Errorf("scan suggestion: %w", err)
		}
		result = append(result, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate suggestions: %w", err)
	}
	return result, nil
}

func scanSuggestion(row pgx.Row) (domain.Suggestion, error) {
	var (
		s           domain.Suggestion
		title       pgtype.Text
		content     pgtype.Text
		matchedID   pgtype.Int8
		matchedName pgtype.Text
		confidence  pgtype.Float8
		category    pgtype.Text
		template    pgtype.Text
		appliedAt   pgtype.Timestamptz
	)

	err := row.Scan(&s.ID, &s.NewsID, &s.ExtractedInstructions, &title, &content,
		&s.SuggestionType, &matchedID, &matchedName, &confidence,
		&category, &template, &s.AiMetadata, &s.Status, &appliedAt, &s.CreationDate)
	if err != nil {
		return domain.Suggestion{}, err
	}

	s.SuggestedTitle = title.String
	s.SuggestedContent = content.String
	s.MatchedKnowledgebaseName = matchedName.String
	s.CategoryName = category.String
	s.TemplateUsed = template.String
	if matchedID.Valid {
		v := matchedID.Int64
		s.MatchedKnowledgebaseID = &v
	}
	if confidence.Valid {
		v := confidence.Float64
		s.MatchConfidence = &v
	}
	if appliedAt.Valid {
		v := appliedAt.Time
		s.AppliedAt = &v
	}

	return s, nil
}
