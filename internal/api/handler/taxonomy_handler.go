package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// ListTags 后台标签列表
// @Summary 标签列表
// @Tags 后台-标签分类
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Tag}
// @Router /api/v1/admin/tags [get]
func (h *Handler) ListTags(c *gin.Context) {
	tags, err := h.taxonomyService.ListTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

// CreateTag 新建标签
// @Summary 新建标签
// @Tags 后台-标签分类
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.TaxonomyInput true "标签"
// @Success 201 {object} response.Response{data=model.Tag}
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/tags [post]
func (h *Handler) CreateTag(c *gin.Context) {
	var req service.TaxonomyInput
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.taxonomyService.CreateTag(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, tag)
}

// UpdateTag 修改标签
// @Summary 修改标签
// @Tags 后台-标签分类
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "标签ID"
// @Param request body service.TaxonomyInput true "标签"
// @Success 200 {object} response.Response{data=model.Tag}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/tags/{id} [put]
func (h *Handler) UpdateTag(c *gin.Context) {
	var req service.TaxonomyInput
	if !bindJSON(c, &req) {
		return
	}
	tag, err := h.taxonomyService.UpdateTag(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tag)
}

// DeleteTag 删除标签
// @Summary 删除标签
// @Tags 后台-标签分类
// @Security BearerAuth
// @Produce json
// @Param id path string true "标签ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/tags/{id} [delete]
func (h *Handler) DeleteTag(c *gin.Context) {
	if err := h.taxonomyService.DeleteTag(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "tag deleted", nil)
}

// ListCategories 后台分类列表
// @Summary 分类列表
// @Tags 后台-标签分类
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=[]model.Category}
// @Router /api/v1/admin/categories [get]
func (h *Handler) ListCategories(c *gin.Context) {
	cats, err := h.taxonomyService.ListCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cats)
}

// CreateCategory 新建分类
// @Summary 新建分类
// @Tags 后台-标签分类
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.TaxonomyInput true "分类"
// @Success 201 {object} response.Response{data=model.Category}
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/categories [post]
func (h *Handler) CreateCategory(c *gin.Context) {
	var req service.TaxonomyInput
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.taxonomyService.CreateCategory(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, cat)
}

// UpdateCategory 修改分类
// @Summary 修改分类
// @Tags 后台-标签分类
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path string true "分类ID"
// @Param request body service.TaxonomyInput true "分类"
// @Success 200 {object} response.Response{data=model.Category}
// @Failure 404 {object} response.Response
// @Failure 409 {object} response.Response
// @Router /api/v1/admin/categories/{id} [put]
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req service.TaxonomyInput
	if !bindJSON(c, &req) {
		return
	}
	cat, err := h.taxonomyService.UpdateCategory(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, cat)
}

// DeleteCategory 删除分类
// @Summary 删除分类
// @Tags 后台-标签分类
// @Security BearerAuth
// @Produce json
// @Param id path string true "分类ID"
// @Success 200 {object} response.Response
// @Failure 404 {object} response.Response
// @Router /api/v1/admin/categories/{id} [delete]
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.taxonomyService.DeleteCategory(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.SuccessMsg(c, "category deleted", nil)
}

// PublicTags 公开标签
// @Summary 标签及已发布文章数
// @Tags 博客
// @Produce json
// @Success 200 {object} response.Response{data=[]model.TaxonomyCount}
// @Router /api/v1/web/tags [get]
func (h *Handler) PublicTags(c *gin.Context) {
	rows, err := h.taxonomyService.PublicTags(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// PublicCategories 公开分类
// @Summary 分类及已发布文章数
// @Tags 博客
// @Produce json
// @Success 200 {object} response.Response{data=[]model.TaxonomyCount}
// @Router /api/v1/web/categories [get]
func (h *Handler) PublicCategories(c *gin.Context) {
	rows, err := h.taxonomyService.PublicCategories(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
