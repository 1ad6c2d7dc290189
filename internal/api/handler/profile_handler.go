package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// GetProfile 用户主页
// @Summary 公开主页
// @Description 登录用户额外返回 is_following
// @Tags 用户
// @Produce json
// @Param username path string true "用户名"
// @Success 200 {object} response.Response{data=service.Profile}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/profile/{username} [get]
func (h *Handler) GetProfile(c *gin.Context) {
	p, err := h.profileService.Get(c.Request.Context(), c.Param("username"), middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdateProfile 修改资料
// @Summary 修改个人资料
// @Tags 用户
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.UpdateProfileInput true "资料"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Router /api/v1/web/profile [put]
func (h *Handler) UpdateProfile(c *gin.Context) {
	var req service.UpdateProfileInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.profileService.Update(c.Request.Context(), middleware.CurrentUserID(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}

// ChangePassword 修改密码
// @Summary 修改密码
// @Description 成功后已签发的 refresh token 全部失效
// @Tags 用户
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.ChangePasswordInput true "新旧密码"
// @Success 200 {object} response.Response
// @Failure 400 {object} response.Response
// @Router /api/v1/web/profile/password [put]
func (h *Handler) ChangePassword(c *gin.Context) {
	var req service.ChangePasswordInput
	if !bindJSON(c, &req) {
		return
	}
	if err := h.profileService.ChangePassword(c.Request.Context(), middleware.CurrentUserID(c), req); err != nil {
		response.Error(c, err)
		return
	}
	h.clearAuthCookies(c)
	response.SuccessMsg(c, "password updated, please sign in again", nil)
}
