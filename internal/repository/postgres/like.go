package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
)

func (db *DB) FindLike(ctx context.Context, userID, postID int64) (*model.Like, error) {
	var l model.Like
	err := db.pool.QueryRow(ctx,
		`SELECT id, user_id, post_id, created_at FROM likes WHERE user_id = $1 AND post_id = $2`,
		userID, postID,
	).Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("like", fmt.Sprintf("%d/%d", userID, postID))
		}
		return nil, fmt.Errorf("postgres: finding like (user=%d, post=%d): %w", userID, postID, err)
	}
	return &l, nil
}

// CreateLike inserts with ON CONFLICT DO NOTHING: a concurrent insert for
// the same pair returns no row, which is reported as ErrConflict.
func (db *DB) CreateLike(ctx context.Context, like *model.Like) error {
	like.CreatedAt = time.Now().UTC()

	err := db.pool.QueryRow(ctx,
		`INSERT INTO likes (user_id, post_id, created_at)
		 VALUES ($1, $2, $3)
		 ON CONFLICT (user_id, post_id) DO NOTHING
		 RETURNING id`,
		like.UserID, like.PostID, like.CreatedAt,
	).Scan(&like.ID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) || isUniqueViolation(err) {
			return apperror.Conflict("like", "post is already liked")
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post", like.PostID)
		}
		return fmt.Errorf("postgres: creating like (user=%d, post=%d): %w", like.UserID, like.PostID, err)
	}
	return nil
}

func (db *DB) DeleteLike(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM likes WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting like %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("like", id)
	}
	return nil
}
