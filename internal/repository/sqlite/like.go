package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
)

var _ repository.LikeRepository = (*DB)(nil)

func (db *DB) FindLike(ctx context.Context, userID, postID int64) (*model.Like, error) {
	var l model.Like
	err := db.conn.QueryRowContext(ctx,
		`SELECT id, user_id, post_id, created_at FROM likes WHERE user_id = ? AND post_id = ?`,
		userID, postID,
	).Scan(&l.ID, &l.UserID, &l.PostID, &l.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("like", fmt.Sprintf("%d/%d", userID, postID))
		}
		return nil, fmt.Errorf("sqlite: finding like (user=%d, post=%d): %w", userID, postID, err)
	}
	return &l, nil
}

func (db *DB) CreateLike(ctx context.Context, like *model.Like) error {
	like.CreatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO likes (user_id, post_id, created_at) VALUES (?, ?, ?)`,
		like.UserID, like.PostID, like.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("like", "post is already liked")
		}
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post", like.PostID)
		}
		return fmt.Errorf("sqlite: creating like (user=%d, post=%d): %w", like.UserID, like.PostID, err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading like id: %w", err)
	}
	like.ID = id
	return nil
}

func (db *DB) DeleteLike(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM likes WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting like %d: %w", id, err)
	}
	return checkAffected(result, apperror.NotFound("like", id))
}
