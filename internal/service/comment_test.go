package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sakif/community-board/internal/apperror"
)

func TestCommentService_CreateAndList(t *testing.T) {
	store := newMemStore()
	svc := NewCommentService(store, store, discardLogger())
	author := store.seedUser("author")
	postID := store.seedPost(author, "p")
	ctx := context.Background()

	first, err := svc.Create(ctx, author, postID, "first!")
	require.NoError(t, err)
	assert.Equal(t, "author", first.Nickname)
	second, err := svc.Create(ctx, author, postID, "second")
	require.NoError(t, err)

	comments, err := svc.List(ctx, postID)
	require.NoError(t, err)
	require.Len(t, comments, 2)
	assert.Equal(t, second.ID, comments[0].ID, "newest first")
}

func TestCommentService_PostMustExist(t *testing.T) {
	store := newMemStore()
	svc := NewCommentService(store, store, discardLogger())
	author := store.seedUser("author")
	ctx := context.Background()

	_, err := svc.Create(ctx, author, 404, "hi")
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	_, err = svc.List(ctx, 404)
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))

	_, err = svc.Update(ctx, author, 404, 1, "hi")
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))
}

func TestCommentService_PostDeletedBeforeInsert(t *testing.T) {
	store := newMemStore()
	author := store.seedUser("author")
	postID := store.seedPost(author, "short-lived")
	stale := newVanishingPost(store, postID)
	svc := NewCommentService(stale, stale, discardLogger())

	_, err := svc.Create(context.Background(), author, postID, "too late")
	require.Error(t, err)
	assert.True(t, apperror.Is(err, apperror.ErrNotFound), "got %v", err)
}

func TestCommentService_BlankContent(t *testing.T) {
	store := newMemStore()
	svc := NewCommentService(store, store, discardLogger())
	author := store.seedUser("author")
	postID := store.seedPost(author, "p")

	_, err := svc.Create(context.Background(), author, postID, "  ")
	assert.True(t, apperror.Is(err, apperror.ErrValidation))
	assert.EqualError(t, err, "comment content is required")
}

func TestCommentService_Ownership(t *testing.T) {
	store := newMemStore()
	svc := NewCommentService(store, store, discardLogger())
	author := store.seedUser("author")
	intruder := store.seedUser("intruder")
	postID := store.seedPost(author, "p")
	ctx := context.Background()

	c, err := svc.Create(ctx, author, postID, "mine")
	require.NoError(t, err)

	_, err = svc.Update(ctx, intruder, postID, c.ID, "yours now")
	assert.True(t, apperror.Is(err, apperror.ErrForbidden))
	assert.EqualError(t, err, "you are not allowed to modify this comment")
	assert.True(t, apperror.Is(svc.Delete(ctx, intruder, postID, c.ID), apperror.ErrForbidden))

	updated, err := svc.Update(ctx, author, postID, c.ID, "edited")
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Content)

	require.NoError(t, svc.Delete(ctx, author, postID, c.ID))
	assert.True(t, apperror.Is(svc.Delete(ctx, author, postID, c.ID), apperror.ErrNotFound))
}

func TestCommentService_CommentMustBelongToPathPost(t *testing.T) {
	store := newMemStore()
	svc := NewCommentService(store, store, discardLogger())
	author := store.seedUser("author")
	postA := store.seedPost(author, "a")
	postB := store.seedPost(author, "b")
	ctx := context.Background()

	c, err := svc.Create(ctx, author, postA, "on a")
	require.NoError(t, err)

	_, err = svc.Update(ctx, author, postB, c.ID, "moved?")
	assert.True(t, apperror.Is(err, apperror.ErrNotFound))
	assert.True(t, apperror.Is(svc.Delete(ctx, author, postB, c.ID), apperror.ErrNotFound))
}
