package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// ListPosts 公开文章列表
// @Summary 已发布文章列表
// @Tags 博客
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量，最大 50" default(12)
// @Param search query string false "标题/摘要关键字，不区分大小写"
// @Param tag query string false "标签 slug"
// @Param category query string false "分类 slug"
// @Param author query string false "作者用户名"
// @Param window query string false "day|week|month|year"
// @Param from query string false "起始时间 RFC3339 或 YYYY-MM-DD"
// @Param to query string false "结束时间 RFC3339 或 YYYY-MM-DD"
// @Param sort query string false "latest|oldest|popular|title" default(latest)
// @Success 200 {object} response.Response{data=service.PageResult[service.PostItem]}
// @Failure 400 {object} response.Response
// @Router /api/v1/web/posts [get]
func (h *Handler) ListPosts(c *gin.Context) {
	var q service.PublicListQuery
	if !bindQuery(c, &q) {
		return
	}
	res, err := h.blogService.List(c.Request.Context(), q)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// GetPost 文章详情
// @Summary 按 slug 读取已发布文章
// @Description 登录用户额外返回 liked/bookmarked
// @Tags 博客
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=service.PostDetail}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug} [get]
func (h *Handler) GetPost(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	d, err := h.blogService.Get(c.Request.Context(), slug, middleware.CurrentUserID(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, d)
}

// Feed 关注流
// @Summary 关注作者的最新文章
// @Tags 博客
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} response.Response{data=service.PageResult[service.PostItem]}
// @Failure 401 {object} response.Response
// @Router /api/v1/web/posts/feed [get]
func (h *Handler) Feed(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.blogService.Feed(c.Request.Context(), middleware.CurrentUserID(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// RelatedPosts 相关文章
// @Summary 共享标签或分类的文章（最多 4 篇）
// @Tags 博客
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=[]service.PostItem}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug}/related [get]
func (h *Handler) RelatedPosts(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	items, err := h.blogService.Related(c.Request.Context(), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, items)
}
