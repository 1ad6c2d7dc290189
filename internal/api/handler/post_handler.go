package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

type statusRequest struct {
	Status model.PostStatus `json:"status" binding:"required,post_status"`
}

// AdminListPosts 后台文章列表
// @Summary 后台文章列表
// @Description 作者只能看到自己的文章，管理员看到全部
// @Tags 后台-文章
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Param search query string false "标题/摘要关键字"
// @Param status query string false "DRAFT|PUBLISHED|ARCHIVED"
// @Param sort query string false "latest|oldest|popular|title"
// @Param tag query string false "标签 slug"
// @Param category query string false "分类 slug"
// @Param window query string false "day|week|month|year"
// @Param from query string false "起始时间 RFC3339 或 YYYY-MM-DD"
// @Param to query string false "结束时间 RFC3339 或 YYYY-MM-DD"
// @Success 200 {object} response.Response{data=service.PageResult[model.Post]}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/posts [get]
func (h *Handler) AdminListPosts(c *gin.Context) {
	var q service.AdminListQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := h.postService.List(c.Request.Context(), actor(c), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// AdminGetPost 后台文章详情
// @Summary 后台文章详情
// @Tags 后台-文章
// @Security BearerAuth
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id} [get]
func (h *Handler) AdminGetPost(c *gin.Context) {
	p, err := h.postService.Get(c.Request.Context(), actor(c), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// CreatePost 新建文章
// @Summary 新建文章
// @Description slug 由标题生成，冲突时自动追加后缀
// @Tags 后台-文章
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.CreatePostInput true "文章内容"
// @Success 201 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/posts [post]
func (h *Handler) CreatePost(c *gin.Context) {
	var req service.CreatePostInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.postService.Create(c.Request.Context(), actor(c), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, p)
}

// UpdatePost 修改文章
// @Summary 修改文章（部分更新）
// @Tags 后台-文章
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "文章ID"
// @Param request body service.UpdatePostInput true "需要修改的字段"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id} [put]
func (h *Handler) UpdatePost(c *gin.Context) {
	var req service.UpdatePostInput
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.postService.Update(c.Request.Context(), actor(c), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// UpdatePostStatus 修改状态
// @Summary 修改文章状态
// @Tags 后台-文章
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "文章ID"
// @Param request body statusRequest true "新状态"
// @Success 200 {object} response.Response{data=model.Post}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/posts/{id}/status [patch]
func (h *Handler) UpdatePostStatus(c *gin.Context) {
	var req statusRequest
	if !bindJSON(c, &req) {
		return
	}
	p, err := h.postService.UpdateStatus(c.Request.Context(), actor(c), c.Param("id"), req.Status)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, p)
}

// DeletePost 删除文章
// @Summary 删除文章及其评论、点赞、收藏
// @Tags 后台-文章
// @Security BearerAuth
// @Produce json
// @Param id path string true "文章ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/posts/{id} [delete]
func (h *Handler) DeletePost(c *gin.Context) {
	if err := h.postService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "post deleted", nil)
}
