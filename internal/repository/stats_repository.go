package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/d60-Lab/blog-platform/internal/model"
)

// Overview 后台概览数据
type Overview struct {
	Posts     map[model.PostStatus]int64 `json:"posts"`
	Views     int64                      `json:"views"`
	Likes     int64                      `json:"likes"`
	Comments  int64                      `json:"comments"`
	Bookmarks int64                      `json:"bookmarks"`
	Followers int64                      `json:"followers"`
}

// StatsRepository 统计查询；authorID 为空时统计全站
type StatsRepository interface {
	Overview(ctx context.Context, authorID string) (*Overview, error)
	PublishedSince(ctx context.Context, authorID string, since time.Time) ([]time.Time, error)
	TopPosts(ctx context.Context, authorID string, limit int) ([]*model.Post, error)
}

type statsRepository struct{ db *gorm.DB }

func NewStatsRepository(db *gorm.DB) StatsRepository { return &statsRepository{db: db} }

func (r *statsRepository) posts(ctx context.Context, authorID string) *gorm.DB {
	q := r.db.WithContext(ctx).Model(&model.Post{})
	if authorID != "" {
		q = q.Where("author_id = ?", authorID)
	}
	return q
}

// onPosts 统计挂在文章上的行（点赞、评论、收藏）
func (r *statsRepository) onPosts(ctx context.Context, table, authorID string) (int64, error) {
	q := r.db.WithContext(ctx).Table(table)
	if authorID != "" {
		q = q.Where("post_id IN (?)", r.db.Model(&model.Post{}).Select("id").Where("author_id = ?", authorID))
	}
	var cnt int64
	err := q.Count(&cnt).Error
	return cnt, err
}

func (r *statsRepository) Overview(ctx context.Context, authorID string) (*Overview, error) {
	out := &Overview{Posts: map[model.PostStatus]int64{
		model.PostStatusDraft:     0,
		model.PostStatusPublished: 0,
		model.PostStatusArchived:  0,
	}}

	var byStatus []struct {
		Status model.PostStatus
		Cnt    int64
	}
	if err := r.posts(ctx, authorID).
		Select("status, COUNT(*) AS cnt").
		Group("status").
		Scan(&byStatus).Error; err != nil {
		return nil, err
	}
	for _, row := range byStatus {
		out.Posts[row.Status] = row.Cnt
	}

	var views struct{ Total int64 }
	if err := r.posts(ctx, authorID).Select("COALESCE(SUM(view_count), 0) AS total").Scan(&views).Error; err != nil {
		return nil, err
	}
	out.Views = views.Total

	var err error
	if out.Likes, err = r.onPosts(ctx, "likes", authorID); err != nil {
		return nil, err
	}
	if out.Comments, err = r.onPosts(ctx, "comments", authorID); err != nil {
		return nil, err
	}
	if out.Bookmarks, err = r.onPosts(ctx, "bookmarks", authorID); err != nil {
		return nil, err
	}

	q := r.db.WithContext(ctx).Model(&model.UserFollower{})
	if authorID != "" {
		q = q.Where("following_id = ?", authorID)
	}
	if err := q.Count(&out.Followers).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// PublishedSince 返回 since 之后发布的文章的发布时间，按月聚合在服务层完成
func (r *statsRepository) PublishedSince(ctx context.Context, authorID string, since time.Time) ([]time.Time, error) {
	var rows []struct{ PublishedAt time.Time }
	err := r.posts(ctx, authorID).
		Select("published_at").
		Where("status = ? AND published_at >= ?", model.PostStatusPublished, since).
		Order("published_at").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	out := make([]time.Time, len(rows))
	for i, row := range rows {
		out[i] = row.PublishedAt
	}
	return out, nil
}

func (r *statsRepository) TopPosts(ctx context.Context, authorID string, limit int) ([]*model.Post, error) {
	posts := make([]*model.Post, 0, limit)
	err := r.posts(ctx, authorID).
		Omit("content").
		Where("status = ?", model.PostStatusPublished).
		Order("view_count DESC, published_at DESC, id DESC").
		Limit(limit).
		Find(&posts).Error
	return posts, err
}
