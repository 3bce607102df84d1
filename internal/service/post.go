package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/cache"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
	"github.com/sakif/community-board/internal/validate"
)

// PostService handles post CRUD. Reads go through the post cache; every
// write invalidates the views it changes.
type PostService struct {
	posts  repository.PostRepository
	cache  cache.Cache
	logger *slog.Logger
}

// NewPostService creates a PostService. A nil cache disables caching.
func NewPostService(posts repository.PostRepository, c cache.Cache, logger *slog.Logger) *PostService {
	if c == nil {
		c = cache.Nop{}
	}
	return &PostService{posts: posts, cache: c, logger: logger}
}

func postRules(title, content string) error {
	return validate.Check(
		validate.Required("title", title, "title is required"),
		validate.Required("content", content, "content is required"),
	)
}

func (s *PostService) Create(ctx context.Context, principal model.Principal, title, content string) (*model.Post, error) {
	if err := postRules(title, content); err != nil {
		return nil, err
	}

	post := &model.Post{UserID: principal.UserID, Title: title, Content: content}
	if err := s.posts.CreatePost(ctx, post); err != nil {
		return nil, fmt.Errorf("service/post: creating post for user %d: %w", principal.UserID, err)
	}
	post.Nickname = principal.Nickname

	invalidatePosts(ctx, s.cache, s.logger)
	s.logger.Info("post created",
		slog.Int64("postID", post.ID),
		slog.Int64("userID", principal.UserID),
	)
	return post, nil
}

// List returns every post, newest first, without content.
func (s *PostService) List(ctx context.Context) ([]model.Post, error) {
	var posts []model.Post
	if s.cached(ctx, cache.PostListKey, &posts) {
		return posts, nil
	}

	posts, err := s.posts.ListPosts(ctx)
	if err != nil {
		return nil, fmt.Errorf("service/post: listing posts: %w", err)
	}
	s.store(ctx, cache.PostListKey, posts)
	return posts, nil
}

// Get returns the detail view of a post, or NotFound.
func (s *PostService) Get(ctx context.Context, id int64) (*model.Post, error) {
	var post model.Post
	if s.cached(ctx, cache.PostKey(id), &post) {
		return &post, nil
	}

	p, err := s.posts.GetPost(ctx, id)
	if err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: getting post %d: %w", id, err)
	}
	s.store(ctx, cache.PostKey(id), p)
	return p, nil
}

// Update replaces title and content of a post the principal owns.
func (s *PostService) Update(ctx context.Context, principal model.Principal, id int64, title, content string) (*model.Post, error) {
	post, err := Authorize(ctx, "post", id, principal, s.posts.GetPost)
	if err != nil {
		return nil, err
	}
	if err := postRules(title, content); err != nil {
		return nil, err
	}

	post.Title = title
	post.Content = content
	if err := s.posts.UpdatePost(ctx, post); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("service/post: updating post %d: %w", id, err)
	}

	invalidatePosts(ctx, s.cache, s.logger, id)
	s.logger.Info("post updated", slog.Int64("postID", id), slog.Int64("userID", principal.UserID))
	return post, nil
}

// Delete removes a post the principal owns, with its comments and likes.
func (s *PostService) Delete(ctx context.Context, principal model.Principal, id int64) error {
	if _, err := Authorize(ctx, "post", id, principal, s.posts.GetPost); err != nil {
		return err
	}

	if err := s.posts.DeletePost(ctx, id); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return err
		}
		return fmt.Errorf("service/post: deleting post %d: %w", id, err)
	}

	invalidatePosts(ctx, s.cache, s.logger, id)
	s.logger.Info("post deleted", slog.Int64("postID", id), slog.Int64("userID", principal.UserID))
	return nil
}

func (s *PostService) cached(ctx context.Context, key string, dst any) bool {
	ok, err := s.cache.Get(ctx, key, dst)
	if err != nil {
		s.logger.Warn("post cache read failed", slog.String("key", key), slog.String("error", err.Error()))
		return false
	}
	return ok
}

func (s *PostService) store(ctx context.Context, key string, value any) {
	if err := s.cache.Set(ctx, key, value); err != nil {
		s.logger.Warn("post cache write failed", slog.String("key", key), slog.String("error", err.Error()))
	}
}

// invalidatePosts drops the post list and the detail views of ids.
//
// Reads are cache-aside without versioning: a reader that loaded from the
// store before a write and calls Set after this Delete puts the old value
// back. Such an entry is served until it expires, so post views can lag a
// write by at most CACHE_TTL (30s by default).
func invalidatePosts(ctx context.Context, c cache.Cache, logger *slog.Logger, ids ...int64) {
	keys := make([]string, 0, len(ids)+1)
	keys = append(keys, cache.PostListKey)
	for _, id := range ids {
		keys = append(keys, cache.PostKey(id))
	}
	if err := c.Delete(ctx, keys...); err != nil {
		logger.Warn("post cache invalidation failed", slog.Any("keys", keys), slog.String("error", err.Error()))
	}
}
