package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

func TestAnalyticsService_PostsPerMonthZeroFilled(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", model.RoleAuthor)
	bob := e.user(t, "bob", model.RoleAuthor)
	admin := e.user(t, "admin", model.RoleAdmin)

	now := time.Date(2025, 6, 20, 12, 0, 0, 0, time.UTC)
	ps := e.post.(*postService)
	at := func(a Actor, title string, when time.Time) {
		ps.now = func() time.Time { return when }
		e.publish(t, a, title)
	}
	at(alice, "April", time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC))
	at(alice, "June A", time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC))
	at(alice, "June B", time.Date(2025, 6, 19, 0, 0, 0, 0, time.UTC))
	at(bob, "May", time.Date(2025, 5, 10, 0, 0, 0, 0, time.UTC))
	at(alice, "Too old", time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))

	as := e.analytics.(*analyticsService)
	as.now = func() time.Time { return now }

	got, err := e.analytics.PostsPerMonth(ctx, alice, 3)
	require.NoError(t, err)
	assert.Equal(t, []MonthCount{
		{Month: "2025-04", Count: 1},
		{Month: "2025-05", Count: 0},
		{Month: "2025-06", Count: 2},
	}, got)

	got, err = e.analytics.PostsPerMonth(ctx, admin, 3)
	require.NoError(t, err)
	assert.EqualValues(t, 1, got[1].Count, "admins see every author")

	got, err = e.analytics.PostsPerMonth(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, got, defaultMonths)
	assert.Equal(t, "2025-01", got[0].Month)
	assert.Equal(t, "2025-06", got[5].Month)

	_, err = e.analytics.PostsPerMonth(ctx, alice, maxMonths+1)
	assertCode(t, err, apperr.CodeValidation)
}

func TestAnalyticsService_OverviewAndTopPosts(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", model.RoleAuthor)
	bob := e.user(t, "bob", model.RoleAuthor)
	admin := e.user(t, "admin", model.RoleAdmin)

	hot := e.publish(t, alice, "Hot")
	cold := e.publish(t, alice, "Cold")
	_, err := e.post.Create(ctx, alice, CreatePostInput{Title: "WIP"})
	require.NoError(t, err)
	e.publish(t, bob, "Bob's")
	require.NoError(t, e.posts.IncrementViews(ctx, hot.ID, 10))
	require.NoError(t, e.posts.IncrementViews(ctx, cold.ID, 2))
	_, err = e.interaction.ToggleLike(ctx, bob.UserID, hot.Slug)
	require.NoError(t, err)
	_, err = e.relationship.ToggleFollow(ctx, bob.UserID, alice.UserID)
	require.NoError(t, err)

	ov, err := e.analytics.Overview(ctx, alice)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ov.Posts[model.PostStatusPublished])
	assert.EqualValues(t, 1, ov.Posts[model.PostStatusDraft])
	assert.EqualValues(t, 12, ov.Views)
	assert.EqualValues(t, 1, ov.Likes)
	assert.EqualValues(t, 1, ov.Followers)

	all, err := e.analytics.Overview(ctx, admin)
	require.NoError(t, err)
	assert.EqualValues(t, 3, all.Posts[model.PostStatusPublished])

	top, err := e.analytics.TopPosts(ctx, alice, 0)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, "Hot", top[0].Title)
	assert.EqualValues(t, 10, top[0].ViewCount)
}
