package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// ToggleFollow 关注/取消关注
// @Summary 切换关注
// @Tags 关系链
// @Security BearerAuth
// @Produce json
// @Param id path string true "被关注用户ID"
// @Success 200 {object} response.Response{data=service.FollowState}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/web/users/{id}/follow [post]
func (h *Handler) ToggleFollow(c *gin.Context) {
	st, err := h.relService.ToggleFollow(c.Request.Context(), middleware.CurrentUserID(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}

// ListFollowing 查询某用户关注的人
// @Summary 查询关注列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} response.Response{data=service.PageResult[model.UserSummary]}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/users/{id}/following [get]
func (h *Handler) ListFollowing(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.relService.ListFollowing(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// ListFollowers 查询某用户的粉丝
// @Summary 查询粉丝列表
// @Tags 关系链
// @Produce json
// @Param id path string true "用户ID"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} response.Response{data=service.PageResult[model.UserSummary]}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/users/{id}/followers [get]
func (h *Handler) ListFollowers(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.relService.ListFollowers(c.Request.Context(), c.Param("id"), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
