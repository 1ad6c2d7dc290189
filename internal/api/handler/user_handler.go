package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// ListUsers 用户列表
// @Summary 后台用户列表（仅管理员）
// @Tags 后台-用户
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Param search query string false "用户名/邮箱/名字关键字"
// @Param role query string false "USER|AUTHOR|ADMIN"
// @Success 200 {object} response.Response{data=service.PageResult[model.User]}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Router /api/v1/admin/users [get]
func (h *Handler) ListUsers(c *gin.Context) {
	var q service.UserListQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := h.userService.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// UpdateUserRole 修改角色
// @Summary 修改用户角色（仅管理员）
// @Description 新角色在用户下次登录或刷新 token 后生效；不能修改自己的角色
// @Tags 后台-用户
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "用户ID"
// @Param request body service.SetRoleInput true "新角色"
// @Success 200 {object} response.Response{data=model.User}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/users/{id}/role [patch]
func (h *Handler) UpdateUserRole(c *gin.Context) {
	var req service.SetRoleInput
	if !bindJSON(c, &req) {
		return
	}
	u, err := h.userService.SetRole(c.Request.Context(), actor(c), c.Param("id"), req.Role)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, u)
}
