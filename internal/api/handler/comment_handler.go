package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

type updateCommentRequest struct {
	Content string `json:"content" binding:"required,max=5000"`
}

// ListComments 评论列表
// @Summary 文章评论（一级评论按时间正序，附带回复）
// @Tags 评论
// @Produce json
// @Param slug path string true "文章 slug"
// @Param page query int false "页码" default(1)
// @Param limit query int false "每页数量" default(12)
// @Success 200 {object} response.Response{data=service.PageResult[model.Comment]}
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug}/comments [get]
func (h *Handler) ListComments(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	page, limit := pageParams(c)
	res, err := h.commentService.List(c.Request.Context(), slug, page, limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, res)
}

// CreateComment 发表评论
// @Summary 发表评论或回复
// @Tags 评论
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param slug path string true "文章 slug"
// @Param request body service.CommentInput true "评论内容"
// @Success 201 {object} response.Response{data=model.Comment}
// @Failure 400 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/web/posts/{slug}/comments [post]
func (h *Handler) CreateComment(c *gin.Context) {
	slug, ok := postSlug(c)
	if !ok {
		return
	}
	var req service.CommentInput
	if !bindJSON(c, &req) {
		return
	}
	cm, err := h.commentService.Create(c.Request.Context(), actor(c), slug, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cm)
}

// UpdateComment 修改评论
// @Summary 修改自己的评论
// @Tags 评论
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "评论ID"
// @Param request body updateCommentRequest true "评论内容"
// @Success 200 {object} response.Response{data=model.Comment}
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/web/comments/{id} [put]
func (h *Handler) UpdateComment(c *gin.Context) {
	var req updateCommentRequest
	if !bindJSON(c, &req) {
		return
	}
	cm, err := h.commentService.Update(c.Request.Context(), actor(c), c.Param("id"), req.Content)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cm)
}

// DeleteComment 删除评论
// @Summary 删除评论（作者、文章作者或管理员）
// @Tags 评论
// @Security BearerAuth
// @Produce json
// @Param id path string true "评论ID"
// @Success 200 {object} response.Response
// @Failure 403 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/web/comments/{id} [delete]
func (h *Handler) DeleteComment(c *gin.Context) {
	if err := h.commentService.Delete(c.Request.Context(), actor(c), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "comment deleted", nil)
}
