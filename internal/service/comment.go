package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
	"github.com/sakif/community-board/internal/validate"
)

// CommentService handles comments. Every operation is scoped to the post
// in the request path: a comment that exists but belongs to another post
// is reported as not found.
type CommentService struct {
	comments repository.CommentRepository
	posts    repository.PostRepository
	logger   *slog.Logger
}

func NewCommentService(comments repository.CommentRepository, posts repository.PostRepository, logger *slog.Logger) *CommentService {
	return &CommentService{comments: comments, posts: posts, logger: logger}
}

func commentRules(content string) error {
	return validate.Check(validate.Required("content", content, "comment content is required"))
}

func (s *CommentService) Create(ctx context.Context, principal model.Principal, postID int64, content string) (*model.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}
	if err := commentRules(content); err != nil {
		return nil, err
	}

	comment := &model.Comment{PostID: postID, UserID: principal.UserID, Content: content}
	if err := s.comments.CreateComment(ctx, comment); err != nil {
		return nil, fmt.Errorf("service/comment: creating comment on post %d: %w", postID, err)
	}
	comment.Nickname = principal.Nickname

	s.logger.Info("comment created",
		slog.Int64("commentID", comment.ID),
		slog.Int64("postID", postID),
		slog.Int64("userID", principal.UserID),
	)
	return comment, nil
}

// List returns the comments of a post, newest first.
func (s *CommentService) List(ctx context.Context, postID int64) ([]model.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	comments, err := s.comments.ListComments(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("service/comment: listing comments of post %d: %w", postID, err)
	}
	return comments, nil
}

func (s *CommentService) Update(ctx context.Context, principal model.Principal, postID, commentID int64, content string) (*model.Comment, error) {
	comment, err := s.authorize(ctx, principal, postID, commentID)
	if err != nil {
		return nil, err
	}
	if err := commentRules(content); err != nil {
		return nil, err
	}

	comment.Content = content
	if err := s.comments.UpdateComment(ctx, comment); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/comment: updating comment %d: %w", commentID, err)
	}

	s.logger.Info("comment updated", slog.Int64("commentID", commentID), slog.Int64("userID", principal.UserID))
	return comment, nil
}

func (s *CommentService) Delete(ctx context.Context, principal model.Principal, postID, commentID int64) error {
	if _, err := s.authorize(ctx, principal, postID, commentID); err != nil {
		return err
	}

	if err := s.comments.DeleteComment(ctx, commentID); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/comment: deleting comment %d: %w", commentID, err)
	}

	s.logger.Info("comment deleted", slog.Int64("commentID", commentID), slog.Int64("userID", principal.UserID))
	return nil
}

func (s *CommentService) authorize(ctx context.Context, principal model.Principal, postID, commentID int64) (*model.Comment, error) {
	if err := s.requirePost(ctx, postID); err != nil {
		return nil, err
	}

	onPost := func(ctx context.Context, id int64) (*model.Comment, error) {
		c, err := s.comments.GetComment(ctx, id)
		if err != nil {
			return nil, err
		}
		if c.PostID != postID {
			return nil, apperror.NotFound("comment", id)
		}
		return c, nil
	}
	return Authorize(ctx, "comment", commentID, principal, onPost)
}

func (s *CommentService) requirePost(ctx context.Context, postID int64) error {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/comment: checking post %d: %w", postID, err)
	}
	return nil
}
