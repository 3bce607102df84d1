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

const postColumns = `p.id, p.user_id, u.nickname, p.title, %s,
	(SELECT COUNT(*)::int FROM likes l WHERE l.post_id = p.id),
	p.created_at, p.updated_at`

func (db *DB) CreatePost(ctx context.Context, post *model.Post) error {
	now := time.Now().UTC()
	post.CreatedAt = now
	post.UpdatedAt = now

	err := db.pool.QueryRow(ctx,
		`INSERT INTO posts (user_id, title, content, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING id`,
		post.UserID, post.Title, post.Content, post.CreatedAt, post.UpdatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("postgres: creating post: %w", err)
	}
	return nil
}

func (db *DB) GetPost(ctx context.Context, id int64) (*model.Post, error) {
	var p model.Post
	err := db.pool.QueryRow(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "p.content")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 WHERE p.id = $1`,
		id,
	).Scan(&p.ID, &p.UserID, &p.Nickname, &p.Title, &p.Content, &p.Likes, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperror.NotFound("post", id)
		}
		return nil, fmt.Errorf("postgres: getting post %d: %w", id, err)
	}
	return &p, nil
}

func (db *DB) ListPosts(ctx context.Context) ([]model.Post, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "''::text")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 ORDER BY p.created_at DESC, p.id DESC`,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing posts: %w", err)
	}
	return scanPosts(rows)
}

func (db *DB) ListPostsLikedBy(ctx context.Context, userID int64) ([]model.Post, error) {
	rows, err := db.pool.Query(ctx,
		`SELECT `+fmt.Sprintf(postColumns, "''::text")+`
		 FROM posts p
		 JOIN users u ON u.id = p.user_id
		 JOIN likes lk ON lk.post_id = p.id AND lk.user_id = $1
		 ORDER BY p.created_at DESC, p.id DESC`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("postgres: listing posts liked by %d: %w", userID, err)
	}
	return scanPosts(rows)
}

func (db *DB) UpdatePost(ctx context.Context, post *model.Post) error {
	post.UpdatedAt = time.Now().UTC()

	tag, err := db.pool.Exec(ctx,
		`UPDATE posts SET title = $1, content = $2, updated_at = $3 WHERE id = $4`,
		post.Title, post.Content, post.UpdatedAt, post.ID,
	)
	if err != nil {
		return fmt.Errorf("postgres: updating post %d: %w", post.ID, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("post", post.ID)
	}
	return nil
}

func (db *DB) DeletePost(ctx context.Context, id int64) error {
	tag, err := db.pool.Exec(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("postgres: deleting post %d: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return apperror.NotFound("post", id)
	}
	return nil
}

func scanPosts(rows pgx.Rows) ([]model.Post, error) {
	defer rows.Close()

	posts := make([]model.Post, 0)
	for rows.Next() {
		var p model.Post
		if err := rows.Scan(&p.ID, &p.UserID, &p.Nickname, &p.Title, &p.Content, &p.Likes, &p.CreatedAt, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("postgres: scanning post row: %w", err)
		}
		posts = append(posts, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("postgres: iterating posts: %w", err)
	}
	return posts, nil
}
