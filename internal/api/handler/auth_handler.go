package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

type refreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// setAuthCookies httpOnly + SameSite=Strict，Secure/Domain 由配置决定
func (h *Handler) setAuthCookies(c *gin.Context, res *service.AuthResult) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessCookie, res.Tokens.AccessToken, maxAge(res.Tokens.AccessExpiresAt),
		"/", h.cookies.CookieDomain, h.cookies.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookie, res.Tokens.RefreshToken, maxAge(res.Tokens.RefreshExpiresAt),
		"/", h.cookies.CookieDomain, h.cookies.CookieSecure, true)
}

func (h *Handler) clearAuthCookies(c *gin.Context) {
	c.SetSameSite(http.SameSiteStrictMode)
	c.SetCookie(middleware.AccessCookie, "", -1, "/", h.cookies.CookieDomain, h.cookies.CookieSecure, true)
	c.SetCookie(middleware.RefreshCookie, "", -1, "/", h.cookies.CookieDomain, h.cookies.CookieSecure, true)
}

func maxAge(exp time.Time) int {
	return max(1, int(time.Until(exp).Seconds()))
}

// Register 注册
// @Summary 注册新用户
// @Description 第一个注册的用户自动成为管理员
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.RegisterInput true "注册信息"
// @Success 201 {object} response.Response{data=service.AuthResult}
// @Failure 400 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/auth/register [post]
func (h *Handler) Register(c *gin.Context) {
	var req service.RegisterInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Register(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setAuthCookies(c, res)
	response.Created(c, res)
}

// Login 登录
// @Summary 邮箱密码登录
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body service.LoginInput true "登录信息"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req service.LoginInput
	if !bindJSON(c, &req) {
		return
	}
	res, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	h.setAuthCookies(c, res)
	response.Success(c, res)
}

// Refresh 刷新令牌
// @Summary 轮换 access/refresh token
// @Description refresh token 取自 cookie 或请求体
// @Tags 认证
// @Accept json
// @Produce json
// @Param request body refreshRequest false "refresh token"
// @Success 200 {object} response.Response{data=service.AuthResult}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	token, _ := c.Cookie(middleware.RefreshCookie)
	if token == "" {
		var req refreshRequest
		// 请求体可以为空
		_ = c.ShouldBindJSON(&req)
		token = req.RefreshToken
	}
	res, err := h.authService.Refresh(c.Request.Context(), token)
	if err != nil {
		h.clearAuthCookies(c)
		response.Error(c, err)
		return
	}
	h.setAuthCookies(c, res)
	response.Success(c, res)
}

// Logout 退出登录
// @Summary 退出登录
// @Tags 认证
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	if err := h.authService.Logout(c.Request.Context(), middleware.CurrentUserID(c)); err != nil {
		response.Error(c, err)
		return
	}
	h.clearAuthCookies(c)
	response.SuccessMsg(c, "logged out", nil)
}

// Me 当前用户
// @Summary 当前登录用户
// @Tags 认证
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=model.User}
// @Failure 401 {object} response.Response
// @Router /api/v1/auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.authService.Me(c.Request.Context(), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}
