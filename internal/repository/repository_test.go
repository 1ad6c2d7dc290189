package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/testutil"
)

func seedUser(t *testing.T, db *gorm.DB, username string) *model.User {
	t.Helper()
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    username + "@example.com",
		Password: "x",
		Role:     model.RoleAuthor,
	}
	require.NoError(t, db.Create(u).Error)
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID, title string, status model.PostStatus, at time.Time) *model.Post {
	t.Helper()
	p := &model.Post{
		ID:        uuid.New().String(),
		AuthorID:  authorID,
		Title:     title,
		Slug:      fmt.Sprintf("%s-%s", title, uuid.NewString()[:8]),
		Excerpt:   "about " + title,
		Status:    status,
		CreatedAt: at,
		UpdatedAt: at,
	}
	if status == model.PostStatusPublished {
		p.PublishedAt = &at
	}
	require.NoError(t, db.Omit("Tags", "Categories", "Author").Create(p).Error)
	return p
}

func TestUserRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()

	u := &model.User{ID: uuid.New().String(), Username: "alice", Email: "alice@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, u))

	got, err := repo.FindByEmail(ctx, "  ALICE@example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	_, err = repo.FindByUsername(ctx, "bob")
	assert.ErrorIs(t, err, ErrNotFound)

	uTaken, eTaken, err := repo.Taken(ctx, "alice", "other@example.com")
	require.NoError(t, err)
	assert.True(t, uTaken)
	assert.False(t, eTaken)

	uTaken, eTaken, err = repo.Taken(ctx, "bob", "Alice@Example.com")
	require.NoError(t, err)
	assert.False(t, uTaken)
	assert.True(t, eTaken)

	require.NoError(t, repo.Update(ctx, u.ID, map[string]any{"bio": "hello"}))
	assert.ErrorIs(t, repo.Update(ctx, "missing", map[string]any{"bio": "x"}), ErrNotFound)

	require.NoError(t, repo.SetRefreshHash(ctx, u.ID, "abc"))
	got, err = repo.FindByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, "hello", got.Bio)
	assert.Equal(t, "abc", got.RefreshTokenHash)
}

func TestUserRepository_ClaimFirstAdmin(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

	first := &model.User{ID: uuid.NewString(), Username: "first", Email: "first@example.com", Password: "x", Role: model.RoleUser, CreatedAt: base}
	second := &model.User{ID: uuid.NewString(), Username: "second", Email: "second@example.com", Password: "x", Role: model.RoleUser, CreatedAt: base.Add(time.Second)}
	require.NoError(t, repo.Create(ctx, first))
	require.NoError(t, repo.Create(ctx, second))

	claimed, err := repo.ClaimFirstAdmin(ctx, second.ID)
	require.NoError(t, err)
	assert.False(t, claimed, "only the earliest user can be promoted")

	claimed, err = repo.ClaimFirstAdmin(ctx, first.ID)
	require.NoError(t, err)
	assert.True(t, claimed)

	claimed, err = repo.ClaimFirstAdmin(ctx, first.ID)
	require.NoError(t, err)
	assert.False(t, claimed, "an admin already exists")

	got, err := repo.FindByID(ctx, first.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleAdmin, got.Role)
	got, err = repo.FindByID(ctx, second.ID)
	require.NoError(t, err)
	assert.Equal(t, model.RoleUser, got.Role)
}

func TestUserRepository_List(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewUserRepository(db)
	ctx := context.Background()
	for _, name := range []string{"alice", "bob", "carol_writer"} {
		seedUser(t, db, name)
	}
	reader := &model.User{ID: uuid.NewString(), Username: "dave", Email: "dave@example.com", Password: "x", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, reader))

	users, total, err := repo.List(ctx, UserFilter{Page: Page{Limit: 2}})
	require.NoError(t, err)
	assert.EqualValues(t, 4, total)
	assert.Len(t, users, 2)

	users, total, err = repo.List(ctx, UserFilter{Role: model.RoleUser, Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "dave", users[0].Username)

	// 下划线按字面匹配
	users, total, err = repo.List(ctx, UserFilter{Search: "L_W", Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "carol_writer", users[0].Username)
}

func TestFollowRepository_Toggle(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewFollowRepository(db)
	ctx := context.Background()
	a := seedUser(t, db, "a")
	b := seedUser(t, db, "b")
	c := seedUser(t, db, "c")

	following, err := repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	following, err = repo.Toggle(ctx, c.ID, b.ID)
	require.NoError(t, err)
	assert.True(t, following)

	n, err := repo.CountFollowers(ctx, b.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	users, total, err := repo.ListFollowers(ctx, b.ID, Page{Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, users, 2)

	users, total, err = repo.ListFollowings(ctx, a.ID, Page{Offset: 0, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, users, 1)
	assert.Equal(t, "b", users[0].Username)

	following, err = repo.Toggle(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, following)

	exists, err := repo.Exists(ctx, a.ID, b.ID)
	require.NoError(t, err)
	assert.False(t, exists)

	n, err = repo.CountFollowings(ctx, a.ID)
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestPostRepository_CreateWithTaxonomy(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	tags := NewTagRepository(db)
	cats := NewCategoryRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")

	goTag := &model.Tag{ID: uuid.New().String(), Name: "Go", Slug: "go"}
	dbTag := &model.Tag{ID: uuid.New().String(), Name: "Databases", Slug: "databases"}
	require.NoError(t, tags.Create(ctx, goTag))
	require.NoError(t, tags.Create(ctx, dbTag))
	cat := &model.Category{ID: uuid.New().String(), Name: "Engineering", Slug: "engineering"}
	require.NoError(t, cats.Create(ctx, cat))

	p := &model.Post{ID: uuid.New().String(), AuthorID: u.ID, Title: "Hello", Slug: "hello", Content: "<p>hi</p>", Status: model.PostStatusDraft}
	require.NoError(t, repo.Create(ctx, p, []string{goTag.ID, dbTag.ID, goTag.ID}, []string{cat.ID}))

	got, err := repo.FindBySlug(ctx, "hello")
	require.NoError(t, err)
	require.NotNil(t, got.Author)
	assert.Equal(t, "writer", got.Author.Username)
	require.Len(t, got.Tags, 2)
	assert.Equal(t, "Databases", got.Tags[0].Name)
	require.Len(t, got.Categories, 1)

	// nil 保持原关联，空切片清空
	require.NoError(t, repo.Update(ctx, p.ID, map[string]any{"title": "Hello 2"}, nil, []string{}))
	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, "Hello 2", got.Title)
	assert.Len(t, got.Tags, 2)
	assert.Empty(t, got.Categories)

	require.NoError(t, repo.Update(ctx, p.ID, nil, []string{goTag.ID}, nil))
	got, err = repo.FindByID(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, got.Tags, 1)
	assert.Equal(t, "go", got.Tags[0].Slug)

	assert.ErrorIs(t, repo.Update(ctx, "missing", map[string]any{"title": "x"}, nil, nil), ErrNotFound)
}

func TestPostRepository_SlugTaken(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	p := seedPost(t, db, u.ID, "first", model.PostStatusDraft, time.Now())

	taken, err := repo.SlugTaken(ctx, p.Slug, "")
	require.NoError(t, err)
	assert.True(t, taken)

	taken, err = repo.SlugTaken(ctx, p.Slug, p.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestPostRepository_DuplicateSlugIsDetected(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	p := seedPost(t, db, u.ID, "first", model.PostStatusDraft, time.Now())

	dup := &model.Post{ID: uuid.NewString(), AuthorID: u.ID, Title: "again", Slug: p.Slug, Status: model.PostStatusDraft}
	err := repo.Create(ctx, dup, nil, nil)
	require.Error(t, err)
	assert.True(t, IsDuplicate(err), err.Error())

	assert.False(t, IsDuplicate(nil))
	assert.False(t, IsDuplicate(ErrNotFound))
}

func TestPostRepository_CoverInUse(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	p := seedPost(t, db, u.ID, "covered", model.PostStatusDraft, time.Now())
	require.NoError(t, repo.Update(ctx, p.ID, map[string]any{"cover_image": "/uploads/a.png"}, nil, nil))

	inUse, err := repo.CoverInUse(ctx, "/uploads/a.png")
	require.NoError(t, err)
	assert.True(t, inUse)

	inUse, err = repo.CoverInUse(ctx, "/uploads/b.png")
	require.NoError(t, err)
	assert.False(t, inUse)
}

func TestPostRepository_List(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")
	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	for i := 0; i < 15; i++ {
		seedPost(t, db, alice.ID, fmt.Sprintf("alice%02d", i), model.PostStatusPublished, base.Add(time.Duration(i)*time.Hour))
	}
	bobPost := seedPost(t, db, bob.ID, "Golang_Tips", model.PostStatusPublished, base.Add(-48*time.Hour))
	seedPost(t, db, bob.ID, "draft", model.PostStatusDraft, base)

	published := []model.PostStatus{model.PostStatusPublished}

	t.Run("pagination", func(t *testing.T) {
		f := PostFilter{Statuses: published, TimeColumn: "published_at", Page: Page{Offset: 12, Limit: 12}}
		posts, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 16, total)
		require.Len(t, posts, 4)
		assert.Equal(t, bobPost.ID, posts[3].ID, "oldest post is last under latest sort")
		assert.Empty(t, posts[0].Content)
	})

	t.Run("search escapes wildcards", func(t *testing.T) {
		f := PostFilter{Statuses: published, Search: "golang_", Page: Page{Limit: 12}}
		posts, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		require.Len(t, posts, 1)
		assert.Equal(t, bobPost.ID, posts[0].ID)

		f.Search = "%"
		_, total, err = repo.List(ctx, f)
		require.NoError(t, err)
		assert.Zero(t, total)
	})

	t.Run("author and window", func(t *testing.T) {
		from := base.Add(10 * time.Hour)
		f := PostFilter{Statuses: published, AuthorUsername: "alice", From: &from, TimeColumn: "published_at", Sort: SortOldest, Page: Page{Limit: 50}}
		posts, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 5, total)
		assert.Equal(t, "alice10", posts[0].Title)
	})

	t.Run("title sort", func(t *testing.T) {
		f := PostFilter{Statuses: published, Sort: SortTitle, Page: Page{Limit: 1}}
		posts, _, err := repo.List(ctx, f)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "Golang_Tips", posts[0].Title)
	})

	t.Run("feed of followed authors", func(t *testing.T) {
		reader := seedUser(t, db, "reader")
		require.NoError(t, NewFollowRepository(db).Create(ctx, reader.ID, bob.ID))
		f := PostFilter{Statuses: published, FollowedBy: reader.ID, Page: Page{Limit: 12}}
		posts, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 1, total)
		assert.Equal(t, bobPost.ID, posts[0].ID)
	})

	t.Run("page past end", func(t *testing.T) {
		f := PostFilter{Statuses: published, Page: Page{Offset: 100, Limit: 12}}
		posts, total, err := repo.List(ctx, f)
		require.NoError(t, err)
		assert.EqualValues(t, 16, total)
		assert.Empty(t, posts)
	})
}

func TestPostRepository_TagFilterAndRelated(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	tag := &model.Tag{ID: uuid.New().String(), Name: "Go", Slug: "go"}
	require.NoError(t, NewTagRepository(db).Create(ctx, tag))

	now := time.Now().UTC()
	mk := func(title string, status model.PostStatus, tagged bool) *model.Post {
		p := &model.Post{ID: uuid.New().String(), AuthorID: u.ID, Title: title, Slug: title, Status: status}
		if status == model.PostStatusPublished {
			p.PublishedAt = &now
		}
		var ids []string
		if tagged {
			ids = []string{tag.ID}
		}
		require.NoError(t, repo.Create(ctx, p, ids, nil))
		return p
	}
	primary := mk("main", model.PostStatusPublished, true)
	mk("sibling", model.PostStatusPublished, true)
	mk("draft-sibling", model.PostStatusDraft, true)
	mk("unrelated", model.PostStatusPublished, false)

	posts, total, err := repo.List(ctx, PostFilter{Statuses: []model.PostStatus{model.PostStatusPublished}, TagSlug: "go", Page: Page{Limit: 10}})
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	assert.Len(t, posts, 2)

	full, err := repo.FindByID(ctx, primary.ID)
	require.NoError(t, err)
	related, err := repo.Related(ctx, full, 4)
	require.NoError(t, err)
	require.Len(t, related, 1)
	assert.Equal(t, "sibling", related[0].Slug)
}

func TestPostRepository_DeleteCascades(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	p := seedPost(t, db, u.ID, "doomed", model.PostStatusPublished, time.Now())

	_, _, err := NewLikeRepository(db).Toggle(ctx, u.ID, p.ID)
	require.NoError(t, err)
	parent := &model.Comment{ID: uuid.New().String(), PostID: p.ID, AuthorID: u.ID, Content: "top"}
	require.NoError(t, db.Create(parent).Error)
	require.NoError(t, db.Create(&model.Comment{ID: uuid.New().String(), PostID: p.ID, AuthorID: u.ID, ParentID: &parent.ID, Content: "reply"}).Error)

	require.NoError(t, repo.Delete(ctx, p.ID))
	assert.ErrorIs(t, repo.Delete(ctx, p.ID), ErrNotFound)

	var n int64
	require.NoError(t, db.Model(&model.Comment{}).Count(&n).Error)
	assert.Zero(t, n)
	require.NoError(t, db.Model(&model.Like{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestPostRepository_IncrementViewsAndFindByIDs(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")
	a := seedPost(t, db, u.ID, "a", model.PostStatusPublished, time.Now())
	b := seedPost(t, db, u.ID, "b", model.PostStatusPublished, time.Now())

	require.NoError(t, repo.IncrementViews(ctx, a.ID, 3))
	posts, err := repo.FindByIDs(ctx, []string{b.ID, "missing", a.ID})
	require.NoError(t, err)
	require.Len(t, posts, 2)
	assert.Equal(t, b.ID, posts[0].ID)
	assert.EqualValues(t, 3, posts[1].ViewCount)
}

func TestTaxonomyRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	tags := NewTagRepository(db)
	cats := NewCategoryRepository(db)
	posts := NewPostRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "writer")

	goTag := &model.Tag{ID: uuid.New().String(), Name: "Go", Slug: "go"}
	rustTag := &model.Tag{ID: uuid.New().String(), Name: "Rust", Slug: "rust"}
	require.NoError(t, tags.Create(ctx, goTag))
	require.NoError(t, tags.Create(ctx, rustTag))

	now := time.Now()
	pub := &model.Post{ID: uuid.New().String(), AuthorID: u.ID, Title: "p", Slug: "p", Status: model.PostStatusPublished, PublishedAt: &now}
	draft := &model.Post{ID: uuid.New().String(), AuthorID: u.ID, Title: "d", Slug: "d", Status: model.PostStatusDraft}
	require.NoError(t, posts.Create(ctx, pub, []string{goTag.ID}, nil))
	require.NoError(t, posts.Create(ctx, draft, []string{goTag.ID, rustTag.ID}, nil))

	counts, err := tags.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, counts, 2)
	assert.Equal(t, "Go", counts[0].Name)
	assert.EqualValues(t, 1, counts[0].PostCount)
	assert.EqualValues(t, 0, counts[1].PostCount)

	taken, err := tags.NameTaken(ctx, "go", "")
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = tags.NameTaken(ctx, "go", goTag.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	require.NoError(t, tags.Update(ctx, rustTag.ID, map[string]any{"name": "Rustlang", "slug": "rustlang"}))
	got, err := tags.FindByID(ctx, rustTag.ID)
	require.NoError(t, err)
	assert.Equal(t, "rustlang", got.Slug)

	require.NoError(t, tags.Delete(ctx, goTag.ID))
	var joins int64
	require.NoError(t, db.Model(&model.PostTag{}).Count(&joins).Error)
	assert.EqualValues(t, 1, joins)
	assert.ErrorIs(t, tags.Delete(ctx, goTag.ID), ErrNotFound)

	cat := &model.Category{ID: uuid.New().String(), Name: "News", Slug: "news", Description: "latest"}
	require.NoError(t, cats.Create(ctx, cat))
	found, err := cats.FindByIDs(ctx, []string{cat.ID, "nope"})
	require.NoError(t, err)
	assert.Len(t, found, 1)
	catCounts, err := cats.ListWithCounts(ctx)
	require.NoError(t, err)
	require.Len(t, catCounts, 1)
	assert.Zero(t, catCounts[0].PostCount)
}

func TestCommentRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewCommentRepository(db)
	ctx := context.Background()
	u := seedUser(t, db, "reader")
	p := seedPost(t, db, u.ID, "post", model.PostStatusPublished, time.Now())

	base := time.Now().Add(-time.Hour)
	var tops []*model.Comment
	for i := 0; i < 3; i++ {
		c := &model.Comment{ID: uuid.New().String(), PostID: p.ID, AuthorID: u.ID, Content: fmt.Sprintf("c%d", i), CreatedAt: base.Add(time.Duration(i) * time.Minute)}
		require.NoError(t, repo.Create(ctx, c))
		tops = append(tops, c)
	}
	reply := &model.Comment{ID: uuid.New().String(), PostID: p.ID, AuthorID: u.ID, ParentID: &tops[0].ID, Content: "reply"}
	require.NoError(t, repo.Create(ctx, reply))

	list, total, err := repo.ListByPost(ctx, p.ID, Page{Limit: 2})
	require.NoError(t, err)
	assert.EqualValues(t, 3, total)
	require.Len(t, list, 2)
	assert.Equal(t, "c0", list[0].Content)
	require.Len(t, list[0].Replies, 1)
	require.NotNil(t, list[0].Replies[0].Author)
	assert.Equal(t, "reader", list[0].Replies[0].Author.Username)

	counts, err := repo.CountByPosts(ctx, []string{p.ID})
	require.NoError(t, err)
	assert.EqualValues(t, 4, counts[p.ID])

	require.NoError(t, repo.UpdateContent(ctx, tops[1].ID, "edited"))
	got, err := repo.FindByID(ctx, tops[1].ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", got.Content)

	require.NoError(t, repo.Delete(ctx, tops[0].ID))
	_, err = repo.FindByID(ctx, reply.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReactionRepository_Toggle(t *testing.T) {
	db := testutil.OpenDB(t)
	ctx := context.Background()
	u := seedUser(t, db, "reader")
	other := seedUser(t, db, "other")
	p := seedPost(t, db, u.ID, "post", model.PostStatusPublished, time.Now())

	for name, repo := range map[string]ReactionRepository{
		"like":     NewLikeRepository(db),
		"bookmark": NewBookmarkRepository(db),
	} {
		t.Run(name, func(t *testing.T) {
			active, count, err := repo.Toggle(ctx, u.ID, p.ID)
			require.NoError(t, err)
			assert.True(t, active)
			assert.EqualValues(t, 1, count)

			active, count, err = repo.Toggle(ctx, other.ID, p.ID)
			require.NoError(t, err)
			assert.True(t, active)
			assert.EqualValues(t, 2, count)

			active, count, err = repo.Toggle(ctx, u.ID, p.ID)
			require.NoError(t, err)
			assert.False(t, active)
			assert.EqualValues(t, 1, count)

			exists, err := repo.Exists(ctx, other.ID, p.ID)
			require.NoError(t, err)
			assert.True(t, exists)

			ids, total, err := repo.ListPostIDs(ctx, other.ID, Page{Limit: 10})
			require.NoError(t, err)
			assert.EqualValues(t, 1, total)
			assert.Equal(t, []string{p.ID}, ids)

			counts, err := repo.CountByPosts(ctx, []string{p.ID, "none"})
			require.NoError(t, err)
			assert.EqualValues(t, 1, counts[p.ID])
			assert.Zero(t, counts["none"])
		})
	}
}

func TestStatsRepository(t *testing.T) {
	db := testutil.OpenDB(t)
	repo := NewStatsRepository(db)
	ctx := context.Background()
	alice := seedUser(t, db, "alice")
	bob := seedUser(t, db, "bob")

	now := time.Now().UTC()
	hot := seedPost(t, db, alice.ID, "hot", model.PostStatusPublished, now.Add(-time.Hour))
	seedPost(t, db, alice.ID, "cold", model.PostStatusPublished, now.AddDate(0, -2, 0))
	seedPost(t, db, alice.ID, "wip", model.PostStatusDraft, now)
	seedPost(t, db, bob.ID, "bobs", model.PostStatusPublished, now)
	require.NoError(t, NewPostRepository(db).IncrementViews(ctx, hot.ID, 10))
	_, _, err := NewLikeRepository(db).Toggle(ctx, bob.ID, hot.ID)
	require.NoError(t, err)
	require.NoError(t, NewFollowRepository(db).Create(ctx, bob.ID, alice.ID))

	ov, err := repo.Overview(ctx, alice.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, ov.Posts[model.PostStatusPublished])
	assert.EqualValues(t, 1, ov.Posts[model.PostStatusDraft])
	assert.EqualValues(t, 0, ov.Posts[model.PostStatusArchived])
	assert.EqualValues(t, 10, ov.Views)
	assert.EqualValues(t, 1, ov.Likes)
	assert.EqualValues(t, 1, ov.Followers)

	global, err := repo.Overview(ctx, "")
	require.NoError(t, err)
	assert.EqualValues(t, 3, global.Posts[model.PostStatusPublished])

	times, err := repo.PublishedSince(ctx, alice.ID, now.AddDate(0, -1, 0))
	require.NoError(t, err)
	assert.Len(t, times, 1)

	top, err := repo.TopPosts(ctx, "", 2)
	require.NoError(t, err)
	require.Len(t, top, 2)
	assert.Equal(t, hot.ID, top[0].ID)
}
