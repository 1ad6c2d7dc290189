package response

import (
	"errors"
	"net/http"

	"github.com/getsentry/sentry-go"
	sentrygin "github.com/getsentry/sentry-go/gin"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

// Response 统一响应结构
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

// Success 200 成功响应
func Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: "success", Data: data})
}

// SuccessMsg 200 成功响应并附带提示
func SuccessMsg(c *gin.Context, message string, data any) {
	c.JSON(http.StatusOK, Response{Success: true, Message: message, Data: data})
}

// Created 201 创建成功
func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Response{Success: true, Message: "created", Data: data})
}

func Fail(c *gin.Context, status int, message string) {
	c.AbortWithStatusJSON(status, Response{Success: false, Message: message})
}

func BadRequest(c *gin.Context, message string) { Fail(c, http.StatusBadRequest, message) }

func Unauthorized(c *gin.Context, message string) { Fail(c, http.StatusUnauthorized, message) }

func Forbidden(c *gin.Context, message string) { Fail(c, http.StatusForbidden, message) }

func NotFound(c *gin.Context, message string) { Fail(c, http.StatusNotFound, message) }

func TooManyRequests(c *gin.Context) {
	Fail(c, http.StatusTooManyRequests, "too many requests, slow down")
}

// InternalError 500，错误细节只写日志
func InternalError(c *gin.Context, err error) {
	report(c, err)
	Fail(c, http.StatusInternalServerError, apperr.ErrInternal.Message)
}

// Error maps err to a status using its apperr code. Anything that is not an
// *apperr.Error, or carries an internal code, becomes a 500.
func Error(c *gin.Context, err error) {
	var ae *apperr.Error
	if !errors.As(err, &ae) {
		InternalError(c, err)
		return
	}
	status := ae.HTTPStatus()
	if status >= http.StatusInternalServerError {
		report(c, err)
	}
	Fail(c, status, ae.Message)
}

func report(c *gin.Context, err error) {
	logger.Error("request failed",
		zap.String("method", c.Request.Method),
		zap.String("path", c.FullPath()),
		zap.Error(err),
	)
	if hub := sentrygin.GetHubFromContext(c); hub != nil {
		hub.CaptureException(err)
		return
	}
	sentry.CaptureException(err)
}
