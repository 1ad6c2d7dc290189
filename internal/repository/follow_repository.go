package repository

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/d60-Lab/blog-platform/internal/model"
)

type FollowRepository interface {
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	Toggle(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowers(ctx context.Context, userID string, page Page) ([]*model.User, int64, error)
	ListFollowings(ctx context.Context, userID string, page Page) ([]*model.User, int64, error)
	CountFollowers(ctx context.Context, userID string) (int64, error)
	CountFollowings(ctx context.Context, userID string) (int64, error)
	CountAll(ctx context.Context) (int64, error)
}

type followRepository struct {
	db *gorm.DB
}

func NewFollowRepository(db *gorm.DB) FollowRepository { return &followRepository{db: db} }

func createFollow(db *gorm.DB, followerID, followingID string) error {
	f := &model.UserFollower{ID: uuid.New().String(), FollowerID: followerID, FollowingID: followingID}
	// 幂等：重复关注不报错
	return db.Clauses(clause.OnConflict{DoNothing: true}).Create(f).Error
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	return followExists(r.db.WithContext(ctx), followerID, followingID)
}

func followExists(db *gorm.DB, followerID, followingID string) (bool, error) {
	var cnt int64
	if err := db.Model(&model.UserFollower{}).
		Where("follower_id = ? AND following_id = ?", followerID, followingID).
		Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

// Toggle 已关注则取消，否则关注；返回操作后的状态
func (r *followRepository) Toggle(ctx context.Context, followerID, followingID string) (bool, error) {
	var following bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		exists, err := followExists(tx, followerID, followingID)
		if err != nil {
			return err
		}
		if exists {
			following = false
			return tx.Where("follower_id = ? AND following_id = ?", followerID, followingID).
				Delete(&model.UserFollower{}).Error
		}
		following = true
		return createFollow(tx, followerID, followingID)
	})
	return following, err
}

// ListFollowers 关注 userID 的用户，最近关注在前
func (r *followRepository) ListFollowers(ctx context.Context, userID string, page Page) ([]*model.User, int64, error) {
	return r.listUsers(ctx, "following_id", "follower_id", userID, page)
}

// ListFollowings userID 关注的用户
func (r *followRepository) ListFollowings(ctx context.Context, userID string, page Page) ([]*model.User, int64, error) {
	return r.listUsers(ctx, "follower_id", "following_id", userID, page)
}

func (r *followRepository) listUsers(ctx context.Context, matchCol, userCol, userID string, page Page) ([]*model.User, int64, error) {
	db := r.db.WithContext(ctx)
	var total int64
	if err := db.Model(&model.UserFollower{}).Where(matchCol+" = ?", userID).Count(&total).Error; err != nil {
		return nil, 0, err
	}
	var users []*model.User
	err := db.Table("users").
		Select("users.*").
		Joins("JOIN user_followers uf ON uf."+userCol+" = users.id").
		Where("uf."+matchCol+" = ?", userID).
		Order("uf.created_at DESC").
		Offset(page.Offset).Limit(page.Limit).
		Find(&users).Error
	return users, total, err
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.UserFollower{}).Where("following_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountFollowings(ctx context.Context, userID string) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.UserFollower{}).Where("follower_id = ?", userID).Count(&cnt).Error
	return cnt, err
}

func (r *followRepository) CountAll(ctx context.Context) (int64, error) {
	var cnt int64
	err := r.db.WithContext(ctx).Model(&model.UserFollower{}).Count(&cnt).Error
	return cnt, err
}
