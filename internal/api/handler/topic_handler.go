package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/internal/service"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// SuggestTopics 选题建议
// @Summary 根据关键字生成选题
// @Description 调用 OpenAI 兼容接口；未配置时返回 503
// @Tags 后台-选题
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body service.SuggestTopicsInput true "关键字"
// @Success 200 {object} response.Response{data=[]string}
// @Failure 400 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /api/v1/admin/topics/suggest [post]
func (h *Handler) SuggestTopics(c *gin.Context) {
	var req service.SuggestTopicsInput
	if !bindJSON(c, &req) {
		return
	}
	topics, err := h.topicService.Suggest(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"topics": topics})
}
