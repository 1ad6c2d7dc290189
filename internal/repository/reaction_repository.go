package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-platform/internal/model"
)

// ReactionRepository 用户对文章的开关型关系（点赞、收藏）
type ReactionRepository interface {
	// Toggle 存在则删除，否则创建；返回操作后的状态与文章的总数
	Toggle(ctx context.Context, userID, postID string) (bool, int64, error)
	Exists(ctx context.Context, userID, postID string) (bool, error)
	Count(ctx context.Context, postID string) (int64, error)
	CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error)
	// ListPostIDs 用户最近操作的文章，最新在前
	ListPostIDs(ctx context.Context, userID string, page Page) ([]string, int64, error)
}

type reactionRepository struct {
	db     *gorm.DB
	table  string
	newRow func(userID, postID string) any
}

func NewLikeRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db, table: "likes", newRow: func(userID, postID string) any {
		return &model.Like{ID: uuid.New().String(), UserID: userID, PostID: postID}
	}}
}

func NewBookmarkRepository(db *gorm.DB) ReactionRepository {
	return &reactionRepository{db: db, table: "bookmarks", newRow: func(userID, postID string) any {
		return &model.Bookmark{ID: uuid.New().String(), UserID: userID, PostID: postID}
	}}
}

func (r *reactionRepository) Toggle(ctx context.Context, userID, postID string) (bool, int64, error) {
	var (
		active bool
		count  int64
	)
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := r.exists(tx, userID, postID)
		if err != nil {
			return err
		}
		if exists {
			if err := tx.Exec("DELETE FROM "+r.table+" WHERE user_id = ? AND post_id = ?", userID, postID).Error; err != nil {
				return err
			}
		} else {
			// 并发重复插入由唯一索引兜底
			if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(r.newRow(userID, postID)).Error; err != nil {
				return err
			}
		}
		active = !exists
		return tx.Table(r.table).Where("post_id = ?", postID).Count(&count).Error
	})
	return active, count, err
}

func (r *reactionRepository) exists(db *gorm.DB, userID, postID string) (bool, error) {
	var cnt int64
	err := db.Table(r.table).Where("user_id = ? AND post_id = ?", userID, postID).Count(&cnt).Error
	return cnt > 0, err
}

func (r *reactionRepository) Exists(ctx context.Context, userID, postID string) (bool, error) {
	return r.exists(r.db.WithContext(ctx), userID, postID)
}

func (r *reactionRepository) Count(ctx context.Context, postID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Table(r.table).Where("post_id = ?", postID).Count(&cnt).Error
	return cnt, err
}

func (r *reactionRepository) CountByPosts(ctx context.Context, postIDs []string) (map[string]int64, error) {
	return countByPosts(ctx, r.db, r.table, postIDs)
}

func (r *reactionRepository) ListPostIDs(ctx context.Context, userID string, page Page) ([]string, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Table(r.table).Where("user_id = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	ids := make([]string, 0)
	err := db.Table(r.table).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Offset(page.Offset).Limit(page.Limit).
		Pluck("post_id", &ids).Error
	return ids, total, err
}
