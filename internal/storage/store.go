// Package storage keeps uploaded media on the local filesystem or in an S3-compatible bucket.
package storage

import (
	"context"
	"fmt"
	"strings"

	gonanoid "github.com/matoous/go-nanoid/v2"

	"github.com/d60-Lab/blog-platform/config"
)

// Store 上传文件存储
type Store interface {
	// Save 以随机文件名保存 data，返回公开访问地址
	Save(ctx context.Context, data []byte, ext string) (string, error)
	// Delete 删除 Save 返回的地址；不属于本存储的地址忽略
	Delete(ctx context.Context, url string) error
}

// New 按 storage.driver 选择实现
func New(cfg config.StorageConfig) (Store, error) {
	switch cfg.Driver {
	case "", "local":
		return NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
	case "s3":
		return NewS3Store(cfg.S3)
	default:
		return nil, fmt.Errorf("unsupported storage driver %q", cfg.Driver)
	}
}

func objectName(ext string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate file name: %w", err)
	}
	return id + "." + strings.TrimPrefix(ext, "."), nil
}
