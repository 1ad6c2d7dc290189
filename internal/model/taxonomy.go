package model

import "time"

// Tag 标签
type Tag struct {
	ID        string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name      string    `json:"name" gorm:"type:varchar(64);uniqueIndex;not null"`
	Slug      string    `json:"slug" gorm:"type:varchar(80);uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Tag) TableName() string { return "tags" }

// Category 分类
type Category struct {
	ID          string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Name        string    `json:"name" gorm:"type:varchar(64);uniqueIndex;not null"`
	Slug        string    `json:"slug" gorm:"type:varchar(80);uniqueIndex;not null"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func (Category) TableName() string { return "categories" }

// PostTag 文章-标签关联（复合主键）
type PostTag struct {
	PostID    string `gorm:"primaryKey;type:varchar(36)"`
	TagID     string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt time.Time
}

func (PostTag) TableName() string { return "post_tags" }

// PostCategory 文章-分类关联（复合主键）
type PostCategory struct {
	PostID     string `gorm:"primaryKey;type:varchar(36)"`
	CategoryID string `gorm:"primaryKey;type:varchar(36);index"`
	CreatedAt  time.Time
}

func (PostCategory) TableName() string { return "post_categories" }

// TaxonomyCount 标签/分类及其已发布文章数
type TaxonomyCount struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Slug      string `json:"slug"`
	PostCount int64  `json:"post_count"`
}
