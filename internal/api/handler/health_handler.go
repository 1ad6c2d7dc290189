package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/pkg/logger"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

type healthStatus struct {
	Status string `json:"status"`
	DB     string `json:"db"`
	Cache  string `json:"cache"`
}

// Health 健康检查
// @Summary 健康检查
// @Tags 运维
// @Produce json
// @Success 200 {object} response.Response{data=healthStatus}
// @Failure 503 {object} response.Response{data=healthStatus}
// @Router /health [get]
func (h *Handler) Health(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	st := healthStatus{Status: "ok", DB: "ok", Cache: "disabled"}
	if err := h.db.Ping(ctx); err != nil {
		logger.Warn("health: db ping failed", zap.Error(err))
		st.Status, st.DB = "degraded", "down"
	}
	if h.cache != nil {
		st.Cache = "ok"
		if err := h.cache.Ping(ctx); err != nil {
			logger.Warn("health: cache ping failed", zap.Error(err))
			st.Status, st.Cache = "degraded", "down"
		}
	}
	if st.DB != "ok" {
		c.JSON(http.StatusServiceUnavailable, response.Response{Success: false, Message: "database unavailable", Data: st})
		return
	}
	response.Success(c, st)
}
