package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/cache"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

const profileRecentPosts = 5

var ErrWrongPassword = apperr.Validation("current password is incorrect")

// Profile 公开主页
type Profile struct {
	User        *model.User   `json:"user"`
	Followers   int64         `json:"followers"`
	Following   int64         `json:"following"`
	Posts       int64         `json:"posts"`
	IsFollowing bool          `json:"is_following"`
	RecentPosts []*model.Post `json:"recent_posts"`
}

// UpdateProfileInput 修改资料
type UpdateProfileInput struct {
	Name      *string `json:"name" binding:"omitempty,max=100"`
	Bio       *string `json:"bio" binding:"omitempty,max=1000"`
	AvatarURL *string `json:"avatar_url" binding:"omitempty,max=512"`
}

// ChangePasswordInput 修改密码
type ChangePasswordInput struct {
	CurrentPassword string `json:"current_password" binding:"required"`
	NewPassword     string `json:"new_password" binding:"required,min=8,max=72"`
}

type ProfileService interface {
	Get(ctx context.Context, username, viewerID string) (*Profile, error)
	Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error)
	ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error
}

type profileService struct {
	users   repository.UserRepository
	follows repository.FollowRepository
	posts   repository.PostRepository
	cache   *cache.PostCache
}

func NewProfileService(
	users repository.UserRepository,
	follows repository.FollowRepository,
	posts repository.PostRepository,
	postCache *cache.PostCache,
) ProfileService {
	return &profileService{users: users, follows: follows, posts: posts, cache: postCache}
}

func (s *profileService) Get(ctx context.Context, username, viewerID string) (*Profile, error) {
	u, err := s.users.FindByUsername(ctx, username)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	out := &Profile{User: u.Public()}
	if out.Followers, err = s.follows.CountFollowers(ctx, u.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	if out.Following, err = s.follows.CountFollowings(ctx, u.ID); err != nil {
		return nil, apperr.Internal(err)
	}
	if viewerID != "" && viewerID != u.ID {
		if out.IsFollowing, err = s.follows.Exists(ctx, viewerID, u.ID); err != nil {
			return nil, apperr.Internal(err)
		}
	}
	posts, total, err := s.posts.List(ctx, repository.PostFilter{
		Statuses:   publishedOnly,
		AuthorID:   u.ID,
		TimeColumn: "published_at",
		Sort:       repository.SortLatest,
		Page:       repository.Page{Limit: profileRecentPosts},
	})
	if err != nil {
		return nil, apperr.Internal(err)
	}
	for _, p := range posts {
		p.Author = nil
	}
	out.Posts = total
	out.RecentPosts = posts
	return out, nil
}

func (s *profileService) Update(ctx context.Context, userID string, in UpdateProfileInput) (*model.User, error) {
	fields := map[string]any{}
	if in.Name != nil {
		fields["name"] = strings.TrimSpace(*in.Name)
	}
	if in.Bio != nil {
		fields["bio"] = strings.TrimSpace(*in.Bio)
	}
	if in.AvatarURL != nil {
		fields["avatar_url"] = strings.TrimSpace(*in.AvatarURL)
	}
	if len(fields) > 0 {
		if err := s.users.Update(ctx, userID, fields); err != nil {
			return nil, notFoundAs(err, ErrUserNotFound)
		}
		// 缓存的文章里带着作者名字和头像
		s.cache.InvalidateLists(ctx)
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

// ChangePassword 修改密码并使已签发的 refresh token 失效
func (s *profileService) ChangePassword(ctx context.Context, userID string, in ChangePasswordInput) error {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	if !auth.CheckPassword(u.Password, in.CurrentPassword) {
		return ErrWrongPassword
	}
	hash, err := auth.HashPassword(in.NewPassword)
	if err != nil {
		return apperr.Internal(err)
	}
	if err := s.users.Update(ctx, userID, map[string]any{"password": hash, "refresh_token_hash": ""}); err != nil {
		return notFoundAs(err, ErrUserNotFound)
	}
	logger.Info("password changed", zap.String("user_id", userID))
	return nil
}
