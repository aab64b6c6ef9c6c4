package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"

	"github.com/dcanli/fieldside/internal/db"
)

// FollowRepository handles the shared (user, post) follow/like relation.
// The membership mutation and the denormalized follower_count update always
// run inside a single transaction so the counter stays equal to the relation
// cardinality under concurrent calls.
type FollowRepository struct {
	db *db.PostgresDB
	sb squirrel.StatementBuilderType
}

// NewFollowRepository creates a new FollowRepository
func NewFollowRepository(database *db.PostgresDB) *FollowRepository {
	return &FollowRepository{
		db: database,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Insert adds (userID, postID) to the relation if absent and increments the
// post's follower count. Returns false without touching the counter when the
// pair already exists.
func (r *FollowRepository) Insert(ctx context.Context, userID, postID int64) (bool, error) {
	inserted := false

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Insert("post_follows").
			Columns("user_id", "post_id").
			Values(userID, postID).
			Suffix("ON CONFLICT (user_id, post_id) DO NOTHING").
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build follow insert query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error inserting follow: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return nil
		}
		inserted = true

		sql, args, err = r.sb.Update("posts").
			Set("follower_count", squirrel.Expr("follower_count + 1")).
			Where(squirrel.Eq{"id": postID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build counter increment query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error incrementing follower count: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return inserted, nil
}

// Remove deletes (userID, postID) from the relation if present and decrements
// the post's follower count. The counter never drops below zero.
func (r *FollowRepository) Remove(ctx context.Context, userID, postID int64) (bool, error) {
	removed := false

	err := r.db.WithTransaction(ctx, func(ctx context.Context, tx pgx.Tx) error {
		sql, args, err := r.sb.Delete("post_follows").
			Where(squirrel.Eq{"user_id": userID, "post_id": postID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build follow delete query: %w", err)
		}

		cmdTag, err := tx.Exec(ctx, sql, args...)
		if err != nil {
			return fmt.Errorf("error deleting follow: %w", err)
		}

		if cmdTag.RowsAffected() == 0 {
			return nil
		}
		removed = true

		sql, args, err = r.sb.Update("posts").
			Set("follower_count", squirrel.Expr("GREATEST(follower_count - 1, 0)")).
			Where(squirrel.Eq{"id": postID}).
			ToSql()
		if err != nil {
			return fmt.Errorf("failed to build counter decrement query: %w", err)
		}

		if _, err := tx.Exec(ctx, sql, args...); err != nil {
			return fmt.Errorf("error decrementing follower count: %w", err)
		}

		return nil
	})
	if err != nil {
		return false, err
	}

	return removed, nil
}

// Exists checks whether (userID, postID) is in the relation
func (r *FollowRepository) Exists(ctx context.Context, userID, postID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("post_follows").
		Where(squirrel.Eq{"user_id": userID, "post_id": postID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("failed to build follow exists query: %w", err)
	}

	var exists int
	err = r.db.Pool.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error checking follow: %w", err)
	}

	return true, nil
}

// PostIDsByUser retrieves the ids of all posts a user follows, oldest
// follow first.
func (r *FollowRepository) PostIDsByUser(ctx context.Context, userID int64) ([]int64, error) {
	sql, args, err := r.sb.Select("post_id").
		From("post_follows").
		Where(squirrel.Eq{"user_id": userID}).
		OrderBy("id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build followed posts query: %w", err)
	}

	rows, err := r.db.Pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("error querying followed posts: %w", err)
	}
	defer rows.Close()

	var postIDs []int64
	for rows.Next() {
		var postID int64
		if err := rows.Scan(&postID); err != nil {
			return nil, fmt.Errorf("error scanning followed post row: %w", err)
		}
		postIDs = append(postIDs, postID)
	}

	return postIDs, rows.Err()
}
