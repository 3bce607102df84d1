// Package repository declares the persistence contracts of the board.
//
// Implementations live in sub-packages (sqlite, postgres) and must map
// missing rows to apperror.ErrNotFound and unique-constraint violations to
// apperror.ErrConflict, so services can reason about both without knowing
// the storage engine.
package repository

import (
	"context"

	"github.com/sakif/community-board/internal/model"
)

type UserRepository interface {
	// CreateUser sets user.ID and timestamps. A taken nickname is ErrConflict.
	CreateUser(ctx context.Context, user *model.User) error
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByNickname(ctx context.Context, nickname string) (*model.User, error)
}

type PostRepository interface {
	CreatePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id int64) (*model.Post, error)
	// ListPosts returns all posts newest first, without content.
	ListPosts(ctx context.Context) ([]model.Post, error)
	// ListPostsLikedBy returns the posts userID likes, newest post first.
	ListPostsLikedBy(ctx context.Context, userID int64) ([]model.Post, error)
	UpdatePost(ctx context.Context, post *model.Post) error
	DeletePost(ctx context.Context, id int64) error
}

type CommentRepository interface {
	CreateComment(ctx context.Context, comment *model.Comment) error
	GetComment(ctx context.Context, id int64) (*model.Comment, error)
	// ListComments returns the comments of a post newest first.
	ListComments(ctx context.Context, postID int64) ([]model.Comment, error)
	UpdateComment(ctx context.Context, comment *model.Comment) error
	DeleteComment(ctx context.Context, id int64) error
}

type LikeRepository interface {
	FindLike(ctx context.Context, userID, postID int64) (*model.Like, error)
	// CreateLike returns ErrConflict when the pair is already liked.
	CreateLike(ctx context.Context, like *model.Like) error
	// DeleteLike returns ErrNotFound when the like is already gone.
	DeleteLike(ctx context.Context, id int64) error
}

// Store is a complete backend: every repository plus lifecycle.
type Store interface {
	UserRepository
	PostRepository
	CommentRepository
	LikeRepository
	Ping(ctx context.Context) error
	Close() error
}
