package service

import (
	"context"
	"fmt"
	"time"

	"github.com/d60-Lab/blog-platform/pkg/slug"
)

const (
	maxSlugLength = 80
	maxSlugNumber = 50
)

// 基础 slug 被占用时依次尝试的后缀
var slugSuffixes = []string{"new", "latest", "updated", "blog", "post"}

// SlugChecker reports whether a slug is used by a post other than excludeID.
type SlugChecker interface {
	SlugTaken(ctx context.Context, slug, excludeID string) (bool, error)
}

// SlugGenerator 生成全局唯一的文章 slug
type SlugGenerator struct {
	checker SlugChecker
	now     func() time.Time
}

func NewSlugGenerator(checker SlugChecker) *SlugGenerator {
	return &SlugGenerator{checker: checker, now: time.Now}
}

// Generate 依次尝试 base、base-<后缀>、base-2..base-50，最后退回 base-<毫秒时间戳>
func (g *SlugGenerator) Generate(ctx context.Context, title, excludePostID string) (string, error) {
	base := slug.Truncate(slug.Make(title), maxSlugLength)
	if base == "" {
		base = "post"
	}

	candidates := make([]string, 0, 1+len(slugSuffixes)+maxSlugNumber)
	candidates = append(candidates, base)
	for _, s := range slugSuffixes {
		candidates = append(candidates, base+"-"+s)
	}
	for i := 2; i <= maxSlugNumber; i++ {
		candidates = append(candidates, fmt.Sprintf("%s-%d", base, i))
	}

	for _, c := range candidates {
		taken, err := g.checker.SlugTaken(ctx, c, excludePostID)
		if err != nil {
			return "", err
		}
		if !taken {
			return c, nil
		}
	}
	return fmt.Sprintf("%s-%d", base, g.now().UnixMilli()), nil
}
