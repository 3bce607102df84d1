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

var _ repository.PostRepository = (*DB)(nil)

// postColumns selects a post joined with its author's nickname and its
// like count. Listing queries pass "''" for content.
const postColumns = `p.id, p.user_id, u.nickname, p.title, %s,
	(SELECT COUNT(*) FROM likes l WHERE l.post_id = p.id),
	p.created_at, p.updated_at`

func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	result, err := db.conn.ExecContext(ctx,
		`INSERT INTO posts (user_id, title, content, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?)`,
		post.UserID,
		post.Title,
		post.Content,
		post.CreatedAt,
		post.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("sqlite: creating post: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("sqlite: reading post id: %w", err)
	}
	post.ID = id

	return nil
}

func (db *DB) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := db.conn.QueryRowContext(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "p.content")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = ?`,
		id,
	).Scan(
		&p.ID, &p.UserID, &p.Nickname, &p.Title, &p.Content,
		&p.Likes, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("sqlite: getting post %d: %w", id, err)
	}
	return &p, nil
}

func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "''")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts: %w", err)
	}
	return scanPosts(rows)
}

func (db *DB) ListPostsLikedBy(ctx context.Context, userID int64) ([]model.Post, error) {
	rows, err := db.conn.QueryContext(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "''")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 JOIN likes lk ON lk.post_id = p.id AND lk.user_id = ?
		 ORDER BY p.created_at DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("sqlite: listing posts liked by %d: %w", userID, err)
	}
	return scanPosts(rows)
}

func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	result, err := db.conn.ExecContext(ctx,
		`UPDATE posts SET title = ?, content = ?, updated_at = ? WHERE id = ?`,
		post.Title,
		post.Content,
		post.UpdatedAt,
		post.ID,
	)
	if err != nil {
		return fmt.Errorf("sqlite: updating post %d: %w", post.ID, err)
	}
	return checkAffected(result, apperror.NotFound("post", post.ID))
}

func (db *DB) DeletePost(ctx context.Context, id int64) error {
	result, err := db.conn.ExecContext(ctx, `DELETE FROM posts WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("sqlite: deleting post %d: %w", id, err)
	}
	return checkAffected(result, apperror.NotFound("post", id))
}

func scanPosts(rows *sql.Rows) ([]model.Post, error) {
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(
			&p.ID, &p.UserID, &p.Nickname, &p.Title, &p.Content,
			&p.Likes, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("sqlite: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite: iterating posts: %w", err)
	}
	return posts, nil
}
