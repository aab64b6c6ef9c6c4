package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/dcanli/fieldside/internal/app/models"
	"github.com/dcanli/fieldside/internal/pkg/apperrors"
	"github.com/dcanli/fieldside/internal/pkg/logger"
)

// PostRepository handles post/event database operations
type PostRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewPostRepository creates a new PostRepository
func NewPostRepository(db *pgxpool.Pool) *PostRepository {
	return &PostRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

const postColumns = "id, category, title, body, author_id, author_username, created_at, event_time, follower_count"

func scanPost(row pgx.Row) (*models.Post, error) {
	var post models.Post
	err := row.Scan(
		&post.ID,
		&post.Category,
		&post.Title,
		&post.Body,
		&post.AuthorID,
		&post.AuthorUsername,
		&post.CreatedAt,
		&post.EventTime,
		&post.FollowerCount,
	)
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (r *PostRepository) queryPosts(ctx context.Context, query squirrel.SelectBuilder) ([]*models.Post, error) {
	sql, args, err := query.ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build posts query: %w", err)
	}

	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error executing posts query: %w", err)
	}
	defer rows.Close()

	var posts []*models.Post
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning post row: %w", err)
		}
		posts = append(posts, post)
	}

	return posts, rows.Err()
}

// orderClause maps a feed order onto SQL. The secondary id ASC key keeps
// ties in insertion order regardless of the primary key.
func orderClause(order models.FeedOrder) []string {
	switch order {
	case models.OrderEventTime:
		return []string{"event_time DESC NULLS LAST", "id ASC"}
	case models.OrderFollowerCount:
		return []string{"follower_count DESC", "id ASC"}
	default:
		return []string{"created_at DESC", "id ASC"}
	}
}

// List retrieves posts in the requested order, optionally filtered by
// category equality.
func (r *PostRepository) List(ctx context.Context, order models.FeedOrder, category *string) ([]*models.Post, error) {
	query := r.sb.Select(postColumns).
		From("posts").
		OrderBy(orderClause(order)...)

	if category != nil && *category != "" {
		query = query.Where(squirrel.Eq{"category": *category})
	}

	return r.queryPosts(ctx, query)
}

// ListByAuthor retrieves a user's own posts, newest first
func (r *PostRepository) ListByAuthor(ctx context.Context, authorID int64) ([]*models.Post, error) {
	query := r.sb.Select(postColumns).
		From("posts").
		Where(squirrel.Eq{"author_id": authorID}).
		OrderBy("created_at DESC", "id ASC")

	return r.queryPosts(ctx, query)
}

// ListByIDs retrieves the given posts, newest first. Missing ids are skipped.
func (r *PostRepository) ListByIDs(ctx context.Context, ids []int64) ([]*models.Post, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	query := r.sb.Select(postColumns).
		From("posts").
		Where(squirrel.Eq{"id": ids}).
		OrderBy("created_at DESC", "id ASC")

	return r.queryPosts(ctx, query)
}

// GetByID retrieves a single post
func (r *PostRepository) GetByID(ctx context.Context, id int64) (*models.Post, error) {
	sql, args, err := r.sb.Select(postColumns).
		From("posts").
		Where(squirrel.Eq{"id": id}).
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build get post query: %w", err)
	}

	post, err := scanPost(r.db.QueryRow(ctx, sql, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrPostNotFound
		}
		return nil, fmt.Errorf("error retrieving post: %w", err)
	}

	return post, nil
}

// Create inserts a new post and fills in its ID and creation timestamp
func (r *PostRepository) Create(ctx context.Context, post *models.Post) (int64, error) {
	sql, args, err := r.sb.Insert("posts").
		Columns("category", "title", "body", "author_id", "author_username", "event_time").
		Values(post.Category, post.Title, post.Body, post.AuthorID, post.AuthorUsername, post.EventTime).
		Suffix("RETURNING id, created_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("failed to build create post query: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&post.ID, &post.CreatedAt)
	if err != nil {
		logger.Error().Err(err).Str("title", post.Title).Msg("Error executing create post query")
		return 0, fmt.Errorf("error creating post: %w", err)
	}

	return post.ID, nil
}

// Delete removes a post. The follow relation rows go with it via the
// ON DELETE CASCADE on post_follows.
func (r *PostRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("posts").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete post query: %w", err)
	}

	cmdTag, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting post: %w", err)
	}

	if cmdTag.RowsAffected() == 0 {
		return apperrors.ErrPostNotFound
	}

	return nil
}
