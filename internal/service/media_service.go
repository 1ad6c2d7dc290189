package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	_ "image/gif"  // register GIF decoder
	_ "image/jpeg" // register JPEG decoder
	_ "image/png"  // register PNG decoder

	"github.com/bbrks/go-blurhash"
	"go.uber.org/zap"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp" // register WebP decoder

	"github.com/d60-Lab/blog-platform/internal/storage"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
	"github.com/d60-Lab/blog-platform/pkg/logger"
)

const (
	// blurhash 只需要很小的缩略图
	blurHashSize = 64
	// 压缩后很小的图片解码后可能占用数 GB 内存，先按像素数拦截
	defaultMaxPixels = 40_000_000
)

var (
	ErrEmptyUpload      = apperr.Validation("file is empty")
	ErrUnsupportedImage = apperr.Validation("file must be a JPEG, PNG, GIF or WebP image")
	extensionsByFormat  = map[string]string{"jpeg": "jpg", "png": "png", "gif": "gif", "webp": "webp"}
)

// UploadedImage 上传结果
type UploadedImage struct {
	URL      string `json:"url"`
	Blurhash string `json:"blurhash"`
	Width    int    `json:"width"`
	Height   int    `json:"height"`
}

type MediaService interface {
	UploadImage(ctx context.Context, data []byte) (*UploadedImage, error)
}

type mediaService struct {
	store     storage.Store
	maxBytes  int64
	maxPixels int64
}

// NewMediaService maxPixels <= 0 时使用 4000 万像素上限
func NewMediaService(store storage.Store, maxBytes, maxPixels int64) MediaService {
	if maxPixels <= 0 {
		maxPixels = defaultMaxPixels
	}
	return &mediaService{store: store, maxBytes: maxBytes, maxPixels: maxPixels}
}

func (s *mediaService) UploadImage(ctx context.Context, data []byte) (*UploadedImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyUpload
	}
	if s.maxBytes > 0 && int64(len(data)) > s.maxBytes {
		return nil, apperr.Validationf("file exceeds %d bytes", s.maxBytes)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	if int64(cfg.Width)*int64(cfg.Height) > s.maxPixels {
		return nil, apperr.Validationf("image exceeds %d pixels", s.maxPixels)
	}

	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, ErrUnsupportedImage
	}
	ext, ok := extensionsByFormat[format]
	if !ok {
		return nil, ErrUnsupportedImage
	}

	hash, err := ComputeBlurHash(img)
	if err != nil {
		// 占位图失败不影响上传
		logger.Warn("compute blurhash failed", zap.Error(err))
	}

	url, err := s.store.Save(ctx, data, ext)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	b := img.Bounds()
	logger.Info("image uploaded", zap.String("url", url), zap.String("format", format), zap.Int("bytes", len(data)))
	return &UploadedImage{URL: url, Blurhash: hash, Width: b.Dx(), Height: b.Dy()}, nil
}

// ComputeBlurHash 缩到 64px 以内后按 4x3 分量编码
func ComputeBlurHash(img image.Image) (string, error) {
	hash, err := blurhash.Encode(4, 3, thumbnail(img))
	if err != nil {
		return "", fmt.Errorf("encode blurhash: %w", err)
	}
	return hash, nil
}

func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= blurHashSize && h <= blurHashSize {
		return img
	}
	dw, dh := blurHashSize, blurHashSize
	if w > h {
		dh = max(1, h*blurHashSize/w)
	} else {
		dw = max(1, w*blurHashSize/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, dw, dh))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}
