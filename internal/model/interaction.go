package model

import "time"

// Like 点赞，(user_id, post_id) 唯一
type Like struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_post"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_like_user_post;index:idx_like_post"`
	CreatedAt time.Time `json:"created_at"`
}

func (Like) TableName() string { return "likes" }

// Bookmark 收藏，(user_id, post_id) 唯一
type Bookmark struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID    string    `json:"user_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_bookmark_user_post"`
	PostID    string    `json:"post_id" gorm:"type:varchar(36);not null;uniqueIndex:ux_bookmark_user_post;index:idx_bookmark_post"`
	CreatedAt time.Time `json:"created_at"`
}

func (Bookmark) TableName() string { return "bookmarks" }
