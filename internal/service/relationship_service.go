package service

import (
	"context"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

// FollowState 关注切换结果
type FollowState struct {
	Following bool  `json:"following"`
	Followers int64 `json:"followers"`
}

// RelationshipService 关系链服务
type RelationshipService interface {
	ToggleFollow(ctx context.Context, fromUserID, toUserID string) (*FollowState, error)
	ListFollowers(ctx context.Context, userID string, page, limit int) (*PageResult[model.UserSummary], error)
	ListFollowing(ctx context.Context, userID string, page, limit int) (*PageResult[model.UserSummary], error)
}

type relationshipService struct {
	followRepo repository.FollowRepository
	userRepo   repository.UserRepository
}

func NewRelationshipService(followRepo repository.FollowRepository, userRepo repository.UserRepository) RelationshipService {
	return &relationshipService{followRepo: followRepo, userRepo: userRepo}
}

func (s *relationshipService) ToggleFollow(ctx context.Context, fromUserID, toUserID string) (*FollowState, error) {
	if fromUserID == toUserID {
		return nil, ErrFollowSelf
	}
	if _, err := s.userRepo.FindByID(ctx, toUserID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	following, err := s.followRepo.Toggle(ctx, fromUserID, toUserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	followers, err := s.followRepo.CountFollowers(ctx, toUserID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &FollowState{Following: following, Followers: followers}, nil
}

func (s *relationshipService) ListFollowers(ctx context.Context, userID string, page, limit int) (*PageResult[model.UserSummary], error) {
	return s.list(ctx, userID, page, limit, s.followRepo.ListFollowers)
}

func (s *relationshipService) ListFollowing(ctx context.Context, userID string, page, limit int) (*PageResult[model.UserSummary], error) {
	return s.list(ctx, userID, page, limit, s.followRepo.ListFollowings)
}

type listUsersFunc func(ctx context.Context, userID string, page repository.Page) ([]*model.User, int64, error)

func (s *relationshipService) list(ctx context.Context, userID string, page, limit int, fetch listUsersFunc) (*PageResult[model.UserSummary], error) {
	if _, err := s.userRepo.FindByID(ctx, userID); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	page, limit = NormalizePage(page, limit)
	users, total, err := fetch(ctx, userID, toRepoPage(page, limit))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	items := make([]model.UserSummary, len(users))
	for i, u := range users {
		items[i] = u.Summary()
	}
	return &PageResult[model.UserSummary]{Items: items, Pagination: newPagination(page, limit, total)}, nil
}
