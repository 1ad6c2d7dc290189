package model

import "time"

// UserFollower 关注关系（follower 关注 following）
type UserFollower struct {
	ID          string `gorm:"primaryKey;type:varchar(36)"`
	FollowerID  string `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair;index:idx_follow_follower"`
	FollowingID string `gorm:"type:varchar(36);not null;uniqueIndex:ux_follow_pair;index:idx_follow_following"`
	// ux_follow_pair = (follower_id, following_id)，避免重复关注
	CreatedAt time.Time
}

func (UserFollower) TableName() string { return "user_followers" }
