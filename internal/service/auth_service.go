package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

var (
	ErrUsernameTaken     = apperr.AlreadyExists("Username already taken")
	ErrEmailTaken        = apperr.AlreadyExists("Email already registered")
	ErrInvalidRefresh    = apperr.Unauthorized("invalid refresh token")
	ErrRefreshNotPresent = apperr.Unauthorized("no refresh token provided")
)

// RegisterInput 注册参数
type RegisterInput struct {
	Username string `json:"username" binding:"required,min=3,max=50,alphanum"`
	Email    string `json:"email" binding:"required,email,max=255"`
	Password string `json:"password" binding:"required,min=8,max=72"`
	Name     string `json:"name" binding:"max=100"`
}

// LoginInput 登录参数
type LoginInput struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// AuthResult 登录/注册/刷新的返回
type AuthResult struct {
	User   *model.User     `json:"user"`
	Tokens *auth.TokenPair `json:"tokens"`
}

type AuthService interface {
	Register(ctx context.Context, in RegisterInput) (*AuthResult, error)
	Login(ctx context.Context, in LoginInput) (*AuthResult, error)
	Refresh(ctx context.Context, refreshToken string) (*AuthResult, error)
	Logout(ctx context.Context, userID string) error
	Me(ctx context.Context, userID string) (*model.User, error)
}

type authService struct {
	users  repository.UserRepository
	tokens *auth.TokenManager
}

func NewAuthService(users repository.UserRepository, tokens *auth.TokenManager) AuthService {
	return &authService{users: users, tokens: tokens}
}

func (s *authService) Register(ctx context.Context, in RegisterInput) (*AuthResult, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.ToLower(strings.TrimSpace(in.Email))

	uTaken, eTaken, err := s.users.Taken(ctx, username, email)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if uTaken {
		return nil, ErrUsernameTaken
	}
	if eTaken {
		return nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(in.Password)
	if err != nil {
		return nil, apperr.Internal(err)
	}

	name := strings.TrimSpace(in.Name)
	if name == "" {
		name = username
	}
	u := &model.User{
		ID:       uuid.New().String(),
		Username: username,
		Email:    email,
		Password: hash,
		Name:     name,
		Role:     model.RoleUser,
	}
	if err := s.users.Create(ctx, u); err != nil {
		// 并发注册撞唯一索引
		if uTaken, eTaken, terr := s.users.Taken(ctx, username, email); terr == nil && (uTaken || eTaken) {
			if uTaken {
				return nil, ErrUsernameTaken
			}
			return nil, ErrEmailTaken
		}
		return nil, apperr.Internal(err)
	}
	// 第一个注册的用户成为管理员；认领是单条条件更新，并发注册也只会有一个成功
	claimed, err := s.users.ClaimFirstAdmin(ctx, u.ID)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	if claimed {
		u.Role = model.RoleAdmin
	}
	logger.Info("user registered", zap.String("user_id", u.ID), zap.String("role", string(u.Role)))
	return s.issue(ctx, u)
}

func (s *authService) Login(ctx context.Context, in LoginInput) (*AuthResult, error) {
	u, err := s.users.FindByEmail(ctx, in.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, apperr.ErrInvalidCredentials
		}
		return nil, apperr.Internal(err)
	}
	if !auth.CheckPassword(u.Password, in.Password) {
		return nil, apperr.ErrInvalidCredentials
	}
	return s.issue(ctx, u)
}

// Refresh 校验 refresh token 并轮换整对令牌
func (s *authService) Refresh(ctx context.Context, refreshToken string) (*AuthResult, error) {
	if refreshToken == "" {
		return nil, ErrRefreshNotPresent
	}
	claims, err := s.tokens.ParseRefresh(refreshToken)
	if err != nil {
		if errors.Is(err, auth.ErrTokenExpired) {
			return nil, apperr.ErrTokenExpired
		}
		return nil, ErrInvalidRefresh
	}
	u, err := s.users.FindByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefresh
		}
		return nil, apperr.Internal(err)
	}
	if !s.tokens.RefreshMatches(refreshToken, u.RefreshTokenHash) {
		logger.Warn("refresh token mismatch", zap.String("user_id", u.ID))
		return nil, ErrInvalidRefresh
	}
	return s.issue(ctx, u)
}

func (s *authService) Logout(ctx context.Context, userID string) error {
	if err := s.users.SetRefreshHash(ctx, userID, ""); err != nil {
		return apperr.Internal(err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, userID string) (*model.User, error) {
	u, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, notFoundAs(err, ErrUserNotFound)
	}
	return u, nil
}

func (s *authService) issue(ctx context.Context, u *model.User) (*AuthResult, error) {
	pair, err := s.tokens.Issue(u.ID, u.Role)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	hash := s.tokens.HashRefresh(pair.RefreshToken)
	if err := s.users.SetRefreshHash(ctx, u.ID, hash); err != nil {
		return nil, apperr.Internal(err)
	}
	u.RefreshTokenHash = hash
	return &AuthResult{User: u, Tokens: pair}, nil
}
