package service

import (
	"bytes"
	"context"
	"encoding/binary"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/d60-Lab/blog-platform/internal/storage"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestMediaService_UploadImage(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(store, 1<<20, 0)

	res, err := svc.UploadImage(context.Background(), encodePNG(t, 200, 100))
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(res.URL, "/uploads/"))
	assert.True(t, strings.HasSuffix(res.URL, ".png"))
	assert.Equal(t, 200, res.Width)
	assert.Equal(t, 100, res.Height)
	assert.NotEmpty(t, res.Blurhash)

	_, err = os.Stat(filepath.Join(dir, filepath.Base(res.URL)))
	assert.NoError(t, err)
}

func TestMediaService_Rejects(t *testing.T) {
	store, err := storage.NewLocalStore(t.TempDir(), "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(store, 1024, 0)
	ctx := context.Background()

	_, err = svc.UploadImage(ctx, nil)
	assert.Equal(t, ErrEmptyUpload, err)

	_, err = svc.UploadImage(ctx, []byte("definitely not an image"))
	assert.Equal(t, ErrUnsupportedImage, err)

	_, err = svc.UploadImage(ctx, make([]byte, 2048))
	assertCode(t, err, apperr.CodeValidation)
	assert.Contains(t, err.Error(), "1024")
}

func TestMediaService_RejectsOversizedDimensions(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(store, 1<<20, 300)

	// 20x20 = 400 像素，文件很小但超过像素上限
	_, err = svc.UploadImage(context.Background(), encodePNG(t, 20, 20))
	assertCode(t, err, apperr.CodeValidation)
	assert.Contains(t, err.Error(), "300 pixels")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries, "nothing is stored")

	res, err := svc.UploadImage(context.Background(), encodePNG(t, 15, 20))
	require.NoError(t, err)
	assert.Equal(t, 15, res.Width)
}

// pngHeader 只有签名和 IHDR，声明 w x h 的灰度图；足够让 DecodeConfig 读出尺寸
func pngHeader(w, h uint32) []byte {
	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")
	chunk := make([]byte, 0, 17)
	chunk = append(chunk, "IHDR"...)
	chunk = binary.BigEndian.AppendUint32(chunk, w)
	chunk = binary.BigEndian.AppendUint32(chunk, h)
	chunk = append(chunk, 8, 0, 0, 0, 0) // 8 位灰度，无隔行
	_ = binary.Write(&buf, binary.BigEndian, uint32(13))
	buf.Write(chunk)
	_ = binary.Write(&buf, binary.BigEndian, crc32.ChecksumIEEE(chunk))
	return buf.Bytes()
}

func TestMediaService_HugeDimensionsRejectedBeforeDecode(t *testing.T) {
	dir := t.TempDir()
	store, err := storage.NewLocalStore(dir, "/uploads")
	require.NoError(t, err)
	svc := NewMediaService(store, 5<<20, 0)

	// 16000x16000 解码需要 256MB，拒绝时不应分配
	_, err = svc.UploadImage(context.Background(), pngHeader(16000, 16000))
	assertCode(t, err, apperr.CodeValidation)
	assert.Contains(t, err.Error(), "40000000 pixels")

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestComputeBlurHash(t *testing.T) {
	small, err := png.Decode(bytes.NewReader(encodePNG(t, 16, 16)))
	require.NoError(t, err)
	h1, err := ComputeBlurHash(small)
	require.NoError(t, err)
	assert.NotEmpty(t, h1)

	large, err := png.Decode(bytes.NewReader(encodePNG(t, 640, 320)))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 64, 32), thumbnail(large).Bounds())
	h2, err := ComputeBlurHash(large)
	require.NoError(t, err)
	assert.NotEmpty(t, h2)
}
