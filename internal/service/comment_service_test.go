package service

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

func TestCommentService_CreateAndReply(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "alice", model.RoleAuthor)
	reader := e.user(t, "reader", model.RoleUser)
	p := e.publish(t, author, "Commented")
	other := e.publish(t, author, "Other")

	top, err := e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: "  first!  "})
	require.NoError(t, err)
	assert.Equal(t, "first!", top.Content)
	assert.Nil(t, top.ParentID)
	require.NotNil(t, top.Author)
	assert.Empty(t, top.Author.Email)

	reply, err := e.comment.Create(ctx, author, p.Slug, CommentInput{Content: "thanks", ParentID: &top.ID})
	require.NoError(t, err)
	require.NotNil(t, reply.ParentID)
	assert.Equal(t, top.ID, *reply.ParentID)

	// 不允许回复的回复
	_, err = e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: "nested", ParentID: &reply.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)
	// 父评论必须属于同一篇文章
	_, err = e.comment.Create(ctx, reader, other.Slug, CommentInput{Content: "wrong post", ParentID: &top.ID})
	assert.ErrorIs(t, err, ErrInvalidParent)
	missing := "missing"
	_, err = e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: "x", ParentID: &missing})
	assert.ErrorIs(t, err, ErrCommentNotFound)

	_, err = e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: "   "})
	assert.ErrorIs(t, err, ErrEmptyComment)
	_, err = e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: strings.Repeat("a", maxCommentLength+1)})
	assertCode(t, err, apperr.CodeValidation)
	_, err = e.comment.Create(ctx, reader, "nope", CommentInput{Content: "x"})
	assert.ErrorIs(t, err, ErrPostNotFound)

	list, err := e.comment.List(ctx, p.Slug, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 1, list.Pagination.Total, "total counts top-level comments")
	require.Len(t, list.Items, 1)
	require.Len(t, list.Items[0].Replies, 1)
	assert.Equal(t, "thanks", list.Items[0].Replies[0].Content)
	assert.Equal(t, "alice", list.Items[0].Replies[0].Author.Username)
}

func TestCommentService_UpdateOwnerOnly(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "alice", model.RoleAuthor)
	reader := e.user(t, "reader", model.RoleUser)
	admin := e.user(t, "admin", model.RoleAdmin)
	p := e.publish(t, author, "Post")

	c, err := e.comment.Create(ctx, reader, p.Slug, CommentInput{Content: "typo"})
	require.NoError(t, err)

	updated, err := e.comment.Update(ctx, reader, c.ID, "fixed")
	require.NoError(t, err)
	assert.Equal(t, "fixed", updated.Content)

	_, err = e.comment.Update(ctx, admin, c.ID, "admin edit")
	assert.ErrorIs(t, err, ErrNotCommentOwner)
	_, err = e.comment.Update(ctx, reader, "missing", "x")
	assert.ErrorIs(t, err, ErrCommentNotFound)
}

func TestCommentService_DeleteModeration(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "alice", model.RoleAuthor)
	reader := e.user(t, "reader", model.RoleUser)
	stranger := e.user(t, "stranger", model.RoleUser)
	admin := e.user(t, "admin", model.RoleAdmin)
	p := e.publish(t, author, "Post")

	mk := func(a Actor) *model.Comment {
		c, err := e.comment.Create(ctx, a, p.Slug, CommentInput{Content: "hi"})
		require.NoError(t, err)
		return c
	}

	c1 := mk(reader)
	assert.ErrorIs(t, e.comment.Delete(ctx, stranger, c1.ID), ErrCannotModerate)
	assert.NoError(t, e.comment.Delete(ctx, reader, c1.ID))

	c2 := mk(reader)
	assert.NoError(t, e.comment.Delete(ctx, author, c2.ID), "post author can moderate")

	c3 := mk(reader)
	_, err := e.comment.Create(ctx, stranger, p.Slug, CommentInput{Content: "reply", ParentID: &c3.ID})
	require.NoError(t, err)
	assert.NoError(t, e.comment.Delete(ctx, admin, c3.ID))

	list, err := e.comment.List(ctx, p.Slug, 1, 10)
	require.NoError(t, err)
	assert.Empty(t, list.Items)
	counts, err := e.comments.CountByPosts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.Zero(t, counts[p.ID], "replies go with their parent")

	assert.ErrorIs(t, e.comment.Delete(ctx, admin, c3.ID), ErrCommentNotFound)
}
