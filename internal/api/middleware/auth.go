package middleware

import (
	"errors"
	"slices"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/auth"
	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

const (
	ContextUserID = "user_id"
	ContextRole   = "role"

	AccessCookie  = "accessToken"
	RefreshCookie = "refreshToken"
)

// TokenParser 解析 access token，由 auth.TokenManager 实现
type TokenParser interface {
	ParseAccess(token string) (*auth.Claims, error)
}

// bearerToken 优先取 Authorization 头，其次取 accessToken cookie
func bearerToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		if token, ok := strings.CutPrefix(h, "Bearer "); ok {
			return strings.TrimSpace(token)
		}
	}
	if token, err := c.Cookie(AccessCookie); err == nil {
		return token
	}
	return ""
}

// Auth 必须登录
func Auth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Unauthorized(c, "no token provided")
			return
		}
		claims, err := tokens.ParseAccess(token)
		if err != nil {
			if errors.Is(err, auth.ErrTokenExpired) {
				response.Unauthorized(c, "token expired")
				return
			}
			response.Unauthorized(c, "invalid token")
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// OptionalAuth 有合法 token 时写入用户信息，否则按匿名继续
func OptionalAuth(tokens TokenParser) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.ParseAccess(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}

// RequireRole 放在 Auth 之后
func RequireRole(roles ...model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !slices.Contains(roles, CurrentRole(c)) {
			response.Forbidden(c, "insufficient permissions")
			return
		}
		c.Next()
	}
}

// CurrentUserID 未登录时返回空串
func CurrentUserID(c *gin.Context) string {
	return c.GetString(ContextUserID)
}

func CurrentRole(c *gin.Context) model.Role {
	if v, ok := c.Get(ContextRole); ok {
		if role, ok := v.(model.Role); ok {
			return role
		}
	}
	return ""
}
