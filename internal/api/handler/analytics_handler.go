package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/pkg/response"
)

// AnalyticsOverview 数据概览
// @Summary 数据概览（作者看自己，管理员看全站）
// @Tags 后台-统计
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.Response{data=repository.Overview}
// @Router /api/v1/admin/analytics/overview [get]
func (h *Handler) AnalyticsOverview(c *gin.Context) {
	ov, err := h.analyticsService.Overview(c.Request.Context(), actor(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, ov)
}

// PostsPerMonth 每月发布数
// @Summary 每月发布数（无数据的月份补 0）
// @Tags 后台-统计
// @Security BearerAuth
// @Produce json
// @Param months query int false "月份数 1-24" default(6)
// @Success 200 {object} response.Response{data=[]service.MonthCount}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/analytics/posts-per-month [get]
func (h *Handler) PostsPerMonth(c *gin.Context) {
	months, err := strconv.Atoi(c.DefaultQuery("months", "0"))
	if err != nil {
		response.BadRequest(c, "months must be a number")
		return
	}
	rows, err := h.analyticsService.PostsPerMonth(c.Request.Context(), actor(c), months)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}

// TopPosts 浏览量排行
// @Summary 浏览量最高的已发布文章
// @Tags 后台-统计
// @Security BearerAuth
// @Produce json
// @Param limit query int false "数量，最大 20" default(5)
// @Success 200 {object} response.Response{data=[]service.TopPost}
// @Router /api/v1/admin/analytics/top-posts [get]
func (h *Handler) TopPosts(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "0"))
	rows, err := h.analyticsService.TopPosts(c.Request.Context(), actor(c), limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, rows)
}
