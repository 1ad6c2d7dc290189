package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

var ErrOwnRole = apperr.Forbidden("you cannot change your own role")

// UserListQuery 后台用户列表
type UserListQuery struct {
	Page   int    `form:"page"`
	Limit  int    `form:"limit"`
	Search string `form:"search"`
	Role   string `form:"role"`
}

// SetRoleInput 修改角色
type SetRoleInput struct {
	Role model.Role `json:"role" binding:"required,oneof=USER AUTHOR ADMIN"`
}

// UserService 管理员维护账号角色
type UserService interface {
	List(ctx context.Context, q UserListQuery) (*PageResult[*model.User], error)
	SetRole(ctx context.Context, actor Actor, userID string, role model.Role) (*model.User, error)
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, q UserListQuery) (*PageResult[*model.User], error) {
	page, limit := NormalizePage(q.Page, q.Limit)
	f := repository.UserFilter{Search: strings.TrimSpace(q.Search), Page: toRepoPage(page, limit)}
	if q.Role != "" {
		f.Role = model.Role(strings.ToUpper(q.Role))
		if !f.Role.Valid() {
			return nil, apperr.Validation("role must be USER, AUTHOR or ADMIN")
		}
	}
	users, total, err := s.users.List(ctx, f)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return &PageResult[*model.User]{Items: users, Pagination: newPagination(page, limit, total)}, nil
}

// SetRole 新角色在下一次签发 token（登录或刷新）时生效
func (s *userService) SetRole(ctx context.Context, actor Actor, userID string, role model.Role) (*model.User, error) {
	if !role.Valid() {
		return nil, apperr.Validation("role must be USER, AUTHOR or ADMIN")
	}
	// 防止最后一个管理员把自己降级
	if actor.UserID == userID {
		return nil, ErrOwnRole
	}
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	if u.Role == role {
		return u, nil
	}
	if err := s.users.Update(ctx, userID, map[string]any{"role": role}); err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	logger.Info("user role changed",
		zap.String("user_id", userID),
		zap.String("from", string(u.Role)),
		zap.String("to", string(role)),
		zap.String("actor", actor.UserID),
	)
	u.Role = role
	return u, nil
}
