package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/api/middleware"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// ToggleLike 点赞/取消点赞
// @Summary 切换点赞
// @Tags 互动
// @Security BearerAuth
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=service.LikeState}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug}/like [post]
func (h *Handler) ToggleLike(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	st, err := h.interactionService.ToggleLike(c.Request.Context(), middleware.CurrentUserID(c), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}

// ToggleBookmark 收藏/取消收藏
// @Summary 切换收藏
// @Tags 互动
// @Security BearerAuth
// @Produce json
// @Param slug path string true "文章 slug"
// @Success 200 {object} response.Response{data=service.BookmarkState}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug}/bookmark [post]
func (h *Handler) ToggleBookmark(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	st, err := h.interactionService.ToggleBookmark(c.Request.Context(), middleware.CurrentUserID(c), slug)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, st)
}

// ListBookmarks 我的收藏
// @Summary 收藏列表（最近收藏在前）
// @Tags 互动
// @Security BearerAuth
// @Produce json
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} response.Response{data=service.PageResult[model.Post]}
// @Router /api/v1/web/bookmarks [get]
func (h *Handler) ListBookmarks(c *gin.Context) {
	page, limit := pageParams(c)
	res, err := h.interactionService.ListBookmarks(c.Request.Context(), middleware.CurrentUserID(c), page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}
