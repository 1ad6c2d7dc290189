package middleware

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/pkg/logger"
	"github.com/d60-Lab/blog-platform/pkg/ratelimit"
	"github.com/d60-Lab/blog-platform/pkg/response"
)

// RateLimit 按客户端 IP 限流，超限返回 429
func RateLimit(limiter *ratelimit.KeyedLimiter) gin.HandlerFunc {
	return func(c *gin.Context) {
		ip := c.ClientIP()
		if !limiter.Allow(ip) {
			logger.Warn("rate limited", zap.String("ip", ip), zap.String("path", c.FullPath()))
			response.TooManyRequests(c)
			return
		}
		c.Next()
	}
}
