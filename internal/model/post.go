package model

import "time"

// PostStatus 文章状态
type PostStatus string

const (
	PostStatusDraft     PostStatus = "DRAFT"
	PostStatusPublished PostStatus = "PUBLISHED"
	PostStatusArchived  PostStatus = "ARCHIVED"
)

// Valid 是否为已知状态
func (s PostStatus) Valid() bool {
	switch s {
	case PostStatusDraft, PostStatusPublished, PostStatusArchived:
		return true
	}
	return false
}

// Post 博客文章
type Post struct {
	ID            string     `json:"id" gorm:"primaryKey;type:varchar(36)"`
	AuthorID      string     `json:"author_id" gorm:"type:varchar(36);index:idx_post_author;not null"`
	Title         string     `json:"title" gorm:"type:varchar(255);not null"`
	Slug          string     `json:"slug" gorm:"type:varchar(255);uniqueIndex;not null"`
	Excerpt       string     `json:"excerpt" gorm:"type:text"`
	Content       string     `json:"content,omitempty" gorm:"type:text"`
	CoverImage    string     `json:"cover_image" gorm:"type:varchar(512)"`
	CoverBlurhash string     `json:"cover_blurhash" gorm:"type:varchar(64)"`
	Status        PostStatus `json:"status" gorm:"type:varchar(16);index:idx_post_status_published;not null;default:DRAFT"`
	ReadingMins   int        `json:"reading_minutes" gorm:"not null;default:1"`
	ViewCount     int64      `json:"view_count" gorm:"not null;default:0"`
	PublishedAt   *time.Time `json:"published_at" gorm:"index:idx_post_status_published"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`

	Author     *User      `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags       []Tag      `json:"tags,omitempty" gorm:"many2many:post_tags;joinForeignKey:PostID;joinReferences:TagID"`
	Categories []Category `json:"categories,omitempty" gorm:"many2many:post_categories;joinForeignKey:PostID;joinReferences:CategoryID"`
}

func (Post) TableName() string { return "posts" }
