package handler

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/d60-Lab/blog-platform/pkg/response"
)

// UploadImage 上传图片
// @Summary 上传图片（JPEG/PNG/GIF/WebP）
// @Description 返回访问地址、blurhash 占位符和尺寸
// @Tags 后台-媒体
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "图片文件"
// @Success 201 {object} response.Response{data=service.UploadedImage}
// @Failure 400 {object} response.Response
// @Router /api/v1/admin/media [post]
func (h *Handler) UploadImage(c *gin.Context) {
	if h.maxUploadBytes > 0 {
		// 预留 multipart 头部的余量
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes+1<<20)
	}
	fh, err := c.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.BadRequest(c, fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
			return
		}
		response.BadRequest(c, "file is required")
		return
	}
	if h.maxUploadBytes > 0 && fh.Size > h.maxUploadBytes {
		response.BadRequest(c, fmt.Sprintf("file exceeds %d bytes", h.maxUploadBytes))
		return
	}
	f, err := fh.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	img, err := h.mediaService.UploadImage(c.Request.Context(), data)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, img)
}
