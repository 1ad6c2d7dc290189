package service

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/config"
	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/internal/storage"
	"github.com/d60-Lab/blog-platform/internal/testutil"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

// testEnv 基于内存 sqlite + miniredis 组装的完整服务层
type testEnv struct {
	db     *gorm.DB
	mr     *miniredis.Miniredis
	tokens *auth.TokenManager

	users      repository.UserRepository
	posts      repository.PostRepository
	tags       repository.TagRepository
	categories repository.CategoryRepository
	comments   repository.CommentRepository
	likes      repository.ReactionRepository
	bookmarks  repository.ReactionRepository
	follows    repository.FollowRepository

	cache     *cache.PostCache
	views     *ViewRecorder
	store     *storage.LocalStore
	uploadDir string

	auth         AuthService
	post         PostService
	blog         BlogService
	taxonomy     TaxonomyService
	comment      CommentService
	interaction  InteractionService
	relationship RelationshipService
	profile      ProfileService
	analytics    AnalyticsService
	userAdmin    UserService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db := testutil.OpenDB(t)
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &testEnv{
		db: db,
		mr: mr,
		tokens: auth.NewTokenManager(config.JWTConfig{
			AccessSecret:  "access-secret",
			RefreshSecret: "refresh-secret",
			AccessTTL:     time.Minute,
			RefreshTTL:    time.Hour,
			Issuer:        "test",
		}, config.SessionConfig{Secret: "session-secret"}),
		users:      repository.NewUserRepository(db),
		posts:      repository.NewPostRepository(db),
		tags:       repository.NewTagRepository(db),
		categories: repository.NewCategoryRepository(db),
		comments:   repository.NewCommentRepository(db),
		likes:      repository.NewLikeRepository(db),
		bookmarks:  repository.NewBookmarkRepository(db),
		follows:    repository.NewFollowRepository(db),
		cache:      cache.NewPostCache(client, time.Minute),
		uploadDir:  t.TempDir(),
	}
	store, err := storage.NewLocalStore(e.uploadDir, "/uploads")
	require.NoError(t, err)
	e.store = store
	e.views = NewViewRecorder(e.posts, 100)
	e.auth = NewAuthService(e.users, e.tokens)
	e.post = NewPostService(e.posts, e.tags, e.categories, e.cache, e.store)
	e.blog = NewBlogService(e.posts, e.likes, e.bookmarks, e.comments, e.cache, e.views)
	e.taxonomy = NewTaxonomyService(e.tags, e.categories, e.cache)
	e.comment = NewCommentService(e.comments, e.posts, e.blog)
	e.interaction = NewInteractionService(e.likes, e.bookmarks, e.posts, e.blog)
	e.relationship = NewRelationshipService(e.follows, e.users)
	e.profile = NewProfileService(e.users, e.follows, e.posts, e.cache)
	e.analytics = NewAnalyticsService(repository.NewStatsRepository(db))
	e.userAdmin = NewUserService(e.users)
	return e
}

func (e *testEnv) user(t *testing.T, username string, role model.Role) Actor {
	t.Helper()
	hash, err := auth.HashPassword("password123")
	require.NoError(t, err)
	u := &model.User{ID: uuid.New().String(), Username: username, Email: username + "@example.com", Password: hash, Name: username, Role: role}
	require.NoError(t, e.users.Create(context.Background(), u))
	return Actor{UserID: u.ID, Role: role}
}

func (e *testEnv) publish(t *testing.T, author Actor, title string) *model.Post {
	t.Helper()
	p, err := e.post.Create(context.Background(), author, CreatePostInput{
		Title:   title,
		Content: "<p>" + title + " body</p>",
		Status:  model.PostStatusPublished,
	})
	require.NoError(t, err)
	return p
}

func assertCode(t *testing.T, err error, code apperr.Code) {
	t.Helper()
	var ae *apperr.Error
	require.ErrorAs(t, err, &ae)
	assert.Equal(t, code, ae.Code, ae.Message)
}

func TestNormalizePage(t *testing.T) {
	p, l := NormalizePage(0, 0)
	assert.Equal(t, 1, p)
	assert.Equal(t, DefaultPageSize, l)
	_, l = NormalizePage(3, 500)
	assert.Equal(t, MaxPageSize, l)
}

func TestNewPagination(t *testing.T) {
	pg := newPagination(2, 12, 30)
	assert.Equal(t, 3, pg.TotalPages)
	assert.True(t, pg.HasNext)
	pg = newPagination(3, 12, 30)
	assert.False(t, pg.HasNext)
	pg = newPagination(1, 12, 0)
	assert.Equal(t, 0, pg.TotalPages)
	assert.False(t, pg.HasNext)
}
