package service

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/sakif/community-board/internal/apperror"
	"github.com/sakif/community-board/internal/cache"
	"github.com/sakif/community-board/internal/metrics"
	"github.com/sakif/community-board/internal/model"
	"github.com/sakif/community-board/internal/repository"
)

// LikeService toggles likes and lists the posts a user likes.
type LikeService struct {
	likes  repository.LikeRepository
	posts  repository.PostRepository
	cache  cache.Cache
	logger *slog.Logger
}

// NewLikeService creates a LikeService. A nil cache disables invalidation.
func NewLikeService(likes repository.LikeRepository, posts repository.PostRepository, c cache.Cache, logger *slog.Logger) *LikeService {
	if c == nil {
		c = cache.Nop{}
	}
	return &LikeService{likes: likes, posts: posts, cache: c, logger: logger}
}

// Toggle flips the principal's like on a post and returns the new state.
//
// The find-then-act sequence is not atomic. Two concurrent toggles can
// both see "absent"; the store's UNIQUE(user_id, post_id) rejects the
// second insert, which is then reported as "liked". Likewise a delete
// that finds the row already gone is reported as "unliked". The store
// never holds more than one like per pair. A post deleted after the
// existence check fails the insert with ErrNotFound.
func (s *LikeService) Toggle(ctx context.Context, principal model.Principal, postID int64) (model.LikeState, error) {
	if _, err := s.posts.GetPost(ctx, postID); err != nil {
		if apperror.Is(err, apperror.ErrNotFound) {
			return "", err
		}
		return "", fmt.Errorf("service/like: checking post %d: %w", postID, err)
	}

	state, err := s.flip(ctx, principal.UserID, postID)
	if err != nil {
		return "", err
	}

	metrics.LikeToggles.WithLabelValues(string(state)).Inc()
	invalidatePosts(ctx, s.cache, s.logger, postID)
	s.logger.Info("like toggled",
		slog.Int64("postID", postID),
		slog.Int64("userID", principal.UserID),
		slog.String("state", string(state)),
	)
	return state, nil
}

func (s *LikeService) flip(ctx context.Context, userID, postID int64) (model.LikeState, error) {
	existing, err := s.likes.FindLike(ctx, userID, postID)
	if err != nil && !apperror.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service/like: finding like (user=%d, post=%d): %w", userID, postID, err)
	}

	if existing == nil {
		err := s.likes.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID})
		if err != nil && !apperror.Is(err, apperror.ErrConflict) {
			return "", fmt.Errorf("service/like: creating like (user=%d, post=%d): %w", userID, postID, err)
		}
		return model.Liked, nil
	}

	err = s.likes.DeleteLike(ctx, existing.ID)
	if err != nil && !apperror.Is(err, apperror.ErrNotFound) {
		return "", fmt.Errorf("service/like: deleting like %d: %w", existing.ID, err)
	}
	return model.Unliked, nil
}

// LikedPosts lists the posts the principal likes, newest post first.
func (s *LikeService) LikedPosts(ctx context.Context, principal model.Principal) ([]model.Post, error) {
	posts, err := s.posts.ListPostsLikedBy(ctx, principal.UserID)
	if err != nil {
		return nil, fmt.Errorf("service/like: listing posts liked by %d: %w", principal.UserID, err)
	}
	return posts, nil
}
