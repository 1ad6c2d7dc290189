package service

import (
	"context"
	"time"

	"github.com/d60-Lab/blog-platform/internal/model"
	"github.com/d60-Lab/blog-platform/internal/repository"
	"github.com/d60-Lab/blog-platform/pkg/apperr"
)

const (
	defaultMonths   = 6
	maxMonths       = 24
	defaultTopPosts = 5
	maxTopPosts     = 20
)

// MonthCount 某月发布数
type MonthCount struct {
	Month string `json:"month"` // YYYY-MM
	Count int64  `json:"count"`
}

// TopPost 浏览量排行
type TopPost struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	ViewCount   int64      `json:"view_count"`
	PublishedAt *time.Time `json:"published_at"`
}

// AnalyticsService 后台统计；作者只看自己的数据，管理员看全站
type AnalyticsService interface {
	Overview(ctx context.Context, actor Actor) (*repository.Overview, error)
	PostsPerMonth(ctx context.Context, actor Actor, months int) ([]MonthCount, error)
	TopPosts(ctx context.Context, actor Actor, limit int) ([]TopPost, error)
}

type analyticsService struct {
	stats repository.StatsRepository
	now   func() time.Time
}

func NewAnalyticsService(stats repository.StatsRepository) AnalyticsService {
	return &analyticsService{stats: stats, now: time.Now}
}

func scope(actor Actor) string {
	if actor.IsAdmin() {
		return ""
	}
	return actor.UserID
}

func (s *analyticsService) Overview(ctx context.Context, actor Actor) (*repository.Overview, error) {
	ov, err := s.stats.Overview(ctx, scope(actor))
	if err != nil {
		return nil, apperr.Internal(err)
	}
	return ov, nil
}

// PostsPerMonth 最近 months 个自然月（含本月）的发布数，按时间升序，无数据的月份补 0
func (s *analyticsService) PostsPerMonth(ctx context.Context, actor Actor, months int) ([]MonthCount, error) {
	if months == 0 {
		months = defaultMonths
	}
	if months < 1 || months > maxMonths {
		return nil, apperr.Validationf("months must be between 1 and %d", maxMonths)
	}
	now := s.now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -(months - 1), 0)

	times, err := s.stats.PublishedSince(ctx, scope(actor), start)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]MonthCount, months)
	index := make(map[string]int, months)
	for i := 0; i < months; i++ {
		key := start.AddDate(0, i, 0).Format("2006-01")
		out[i] = MonthCount{Month: key}
		index[key] = i
	}
	for _, t := range times {
		if i, ok := index[t.UTC().Format("2006-01")]; ok {
			out[i].Count++
		}
	}
	return out, nil
}

func (s *analyticsService) TopPosts(ctx context.Context, actor Actor, limit int) ([]TopPost, error) {
	if limit <= 0 {
		limit = defaultTopPosts
	}
	if limit > maxTopPosts {
		limit = maxTopPosts
	}
	posts, err := s.stats.TopPosts(ctx, scope(actor), limit)
	if err != nil {
		return nil, apperr.Internal(err)
	}
	out := make([]TopPost, len(posts))
	for i, p := range posts {
		out[i] = toTopPost(p)
	}
	return out, nil
}

func toTopPost(p *model.Post) TopPost {
	return TopPost{ID: p.ID, Title: p.Title, Slug: p.Slug, ViewCount: p.ViewCount, PublishedAt: p.PublishedAt}
}
