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

func (db *DB) CreateComment(ctx context.Context, comment *model.Comment) error {
	now := time.Now().UTC()
	comment.CreatedAt = now
	comment.UpdatedAt = now

	err := db.pool.QueryRow(ctx,
		`INSERT INTO comments (post_id, user_id, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		comment.PostID, comment.UserID, comment.Content, comment.CreatedAt, comment.UpdatedAt,
	).Scan(&comment.ID)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.NotFound("post", comment.PostID)
		}
		return fmt.Errorf("postgres: creating comment on post %d: %w", comment.PostID, err)
	}
	return nil
}

func (db *DB) GetComment(ctx context.Context, id int64) (*model.Comment, error) {
	var c model.Comment
	err := db.pool.QueryRow(ctx,
		`SELECT c.id, c.post_id, c.user_id, u.nickname, c.content, c.created_at, c.updated_at
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.id = $1`,
		id,
	).Scan(&c.ID, &c.PostID, &c.UserID, &c.Nickname, &c.Content, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("comment", id)
		}
		return nil, fmt.Errorf("postgres: getting comment %d: %w", id, err)
	}
	return &c, nil
}

func (db *DB) ListComments(ctx context.Context, postID int64) ([]model.Comment, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT c.id, c.post_id, c.user_id, u.nickname, c.content, c.created_at, c.updated_at
		 FROM comments c
		 JOIN users u ON u.id = c.user_id
		 WHERE c.post_id = $1
		 ORDER BY c.created_at DESC, c.id DESC`,
		postID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing comments of post %d: %w", postID, err)
	}
	defer rows.Close()

	comments := make([]model.Comment, 0)
	for rows.Next() {
		var c model.Comment
		if err := rows.Scan(&c.ID, &c.PostID, &c.UserID, &c.Nickname, &c.Content, &c.CreatedAt, &c.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning comment row: %w", err)
		}
		comments = append(comments, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating comments: %w", err)
	}
	return comments, nil
}

func (db *DB) UpdateComment(ctx context.Context, comment *model.Comment) error {
	comment.UpdatedAt = time.Now().UTC()

	tag, err := db.pool.Exec(ctx,
		`UPDATE comments SET content = $1, updated_at = $2 WHERE id = $3`,
		comment.Content, comment.UpdatedAt, comment.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating comment %d: %w", comment.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("comment", comment.ID)
	}
	return nil
}

func (db *DB) DeleteComment(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting comment %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("comment", id)
	}
	return nil
}
