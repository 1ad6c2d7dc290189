package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-platform/internal/model"
)

func TestInteractionService_ToggleLike(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "alice", model.RoleAuthor)
	r1 := e.user(t, "r1", model.RoleUser)
	r2 := e.user(t, "r2", model.RoleUser)
	p := e.publish(t, author, "Likeable")

	st, err := e.interaction.ToggleLike(ctx, r1.UserID, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, &LikeState{Liked: true, Count: 1}, st)

	st, err = e.interaction.ToggleLike(ctx, r2.UserID, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, &LikeState{Liked: true, Count: 2}, st)

	st, err = e.interaction.ToggleLike(ctx, r1.UserID, p.Slug)
	require.NoError(t, err)
	assert.Equal(t, &LikeState{Liked: false, Count: 1}, st)

	_, err = e.interaction.ToggleLike(ctx, r1.UserID, "missing")
	assert.ErrorIs(t, err, ErrPostNotFound)

	draft, err := e.post.Create(ctx, author, CreatePostInput{Title: "Draft"})
	require.NoError(t, err)
	_, err = e.interaction.ToggleLike(ctx, r1.UserID, draft.Slug)
	assert.ErrorIs(t, err, ErrPostNotFound, "drafts cannot be liked")
}

func TestInteractionService_Bookmarks(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	author := e.user(t, "alice", model.RoleAuthor)
	reader := e.user(t, "reader", model.RoleUser)
	first := e.publish(t, author, "First")
	second := e.publish(t, author, "Second")

	st, err := e.interaction.ToggleBookmark(ctx, reader.UserID, first.Slug)
	require.NoError(t, err)
	assert.True(t, st.Bookmarked)
	assert.EqualValues(t, 1, st.Count)
	_, err = e.interaction.ToggleBookmark(ctx, reader.UserID, second.Slug)
	require.NoError(t, err)

	res, err := e.interaction.ListBookmarks(ctx, reader.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 2)
	assert.Equal(t, second.ID, res.Items[0].ID, "most recent bookmark first")
	assert.Empty(t, res.Items[0].Author.Email)

	// 下线的文章不返回
	_, err = e.post.UpdateStatus(ctx, author, second.ID, model.PostStatusArchived)
	require.NoError(t, err)
	res, err = e.interaction.ListBookmarks(ctx, reader.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, res.Items, 1)
	assert.Equal(t, first.ID, res.Items[0].ID)

	st, err = e.interaction.ToggleBookmark(ctx, reader.UserID, first.Slug)
	require.NoError(t, err)
	assert.False(t, st.Bookmarked)
	assert.Zero(t, st.Count)
}

func TestRelationshipService(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", model.RoleAuthor)
	bob := e.user(t, "bob", model.RoleUser)
	carol := e.user(t, "carol", model.RoleUser)

	_, err := e.relationship.ToggleFollow(ctx, alice.UserID, alice.UserID)
	assert.ErrorIs(t, err, ErrFollowSelf)
	_, err = e.relationship.ToggleFollow(ctx, bob.UserID, "ghost")
	assert.ErrorIs(t, err, ErrUserNotFound)

	st, err := e.relationship.ToggleFollow(ctx, bob.UserID, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, &FollowState{Following: true, Followers: 1}, st)
	st, err = e.relationship.ToggleFollow(ctx, carol.UserID, alice.UserID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, st.Followers)

	followers, err := e.relationship.ListFollowers(ctx, alice.UserID, 1, 10)
	require.NoError(t, err)
	assert.EqualValues(t, 2, followers.Pagination.Total)
	names := []string{followers.Items[0].Username, followers.Items[1].Username}
	assert.ElementsMatch(t, []string{"bob", "carol"}, names)

	following, err := e.relationship.ListFollowing(ctx, bob.UserID, 1, 10)
	require.NoError(t, err)
	require.Len(t, following.Items, 1)
	assert.Equal(t, "alice", following.Items[0].Username)

	st, err = e.relationship.ToggleFollow(ctx, bob.UserID, alice.UserID)
	require.NoError(t, err)
	assert.Equal(t, &FollowState{Following: false, Followers: 1}, st)

	_, err = e.relationship.ListFollowers(ctx, "ghost", 1, 10)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestProfileService(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	alice := e.user(t, "alice", model.RoleAuthor)
	bob := e.user(t, "bob", model.RoleUser)
	for _, title := range []string{"One", "Two", "Three", "Four", "Five", "Six"} {
		e.publish(t, alice, title)
	}
	_, err := e.post.Create(ctx, alice, CreatePostInput{Title: "Draft"})
	require.NoError(t, err)
	_, err = e.relationship.ToggleFollow(ctx, bob.UserID, alice.UserID)
	require.NoError(t, err)

	prof, err := e.profile.Get(ctx, "alice", bob.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", prof.User.Username)
	assert.Empty(t, prof.User.Email)
	assert.EqualValues(t, 1, prof.Followers)
	assert.EqualValues(t, 0, prof.Following)
	assert.EqualValues(t, 6, prof.Posts)
	assert.True(t, prof.IsFollowing)
	assert.Len(t, prof.RecentPosts, profileRecentPosts)

	self, err := e.profile.Get(ctx, "alice", alice.UserID)
	require.NoError(t, err)
	assert.False(t, self.IsFollowing)

	_, err = e.profile.Get(ctx, "ghost", "")
	assert.ErrorIs(t, err, ErrUserNotFound)

	name, bio := "  Bob B.  ", "hello"
	u, err := e.profile.Update(ctx, bob.UserID, UpdateProfileInput{Name: &name, Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "Bob B.", u.Name)
	assert.Equal(t, "hello", u.Bio)
}

func TestProfileService_ChangePassword(t *testing.T) {
	e := newTestEnv(t)
	ctx := context.Background()
	reg, err := e.auth.Register(ctx, RegisterInput{Username: "alice", Email: "alice@example.com", Password: "password123"})
	require.NoError(t, err)

	err = e.profile.ChangePassword(ctx, reg.User.ID, ChangePasswordInput{CurrentPassword: "wrong", NewPassword: "newpassword1"})
	assert.ErrorIs(t, err, ErrWrongPassword)

	require.NoError(t, e.profile.ChangePassword(ctx, reg.User.ID, ChangePasswordInput{CurrentPassword: "password123", NewPassword: "newpassword1"}))

	_, err = e.auth.Refresh(ctx, reg.Tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrInvalidRefresh, "password change revokes sessions")
	_, err = e.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "password123"})
	assert.Error(t, err)
	_, err = e.auth.Login(ctx, LoginInput{Email: "alice@example.com", Password: "newpassword1"})
	assert.NoError(t, err)
}
