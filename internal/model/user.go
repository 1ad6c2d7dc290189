package model

import "time"

// Role 用户角色
type Role string

const (
	RoleUser   Role = "USER"
	RoleAuthor Role = "AUTHOR"
	RoleAdmin  Role = "ADMIN"
)

// Valid 是否为已知角色
func (r Role) Valid() bool { return r == RoleUser || r == RoleAuthor || r == RoleAdmin }

// CanWrite 作者与管理员可以进入后台
func (r Role) CanWrite() bool { return r == RoleAuthor || r == RoleAdmin }

// User 用户
type User struct {
	ID               string    `json:"id" gorm:"primaryKey;type:varchar(36)"`
	Username         string    `json:"username" gorm:"type:varchar(50);uniqueIndex;not null"`
	Email            string    `json:"email,omitempty" gorm:"type:varchar(255);uniqueIndex;not null"`
	Password         string    `json:"-" gorm:"type:varchar(255);not null"`
	Name             string    `json:"name" gorm:"type:varchar(100)"`
	Bio              string    `json:"bio" gorm:"type:text"`
	AvatarURL        string    `json:"avatar_url" gorm:"type:varchar(512)"`
	Role             Role      `json:"role" gorm:"type:varchar(16);not null;default:USER"`
	RefreshTokenHash string    `json:"-" gorm:"type:varchar(128)"`
	CreatedAt        time.Time `json:"created_at"`
	UpdatedAt        time.Time `json:"updated_at"`
}

func (User) TableName() string { return "users" }

// UserSummary 列表中展示的用户信息
type UserSummary struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	Name      string `json:"name"`
	AvatarURL string `json:"avatar_url"`
}

// Public 去掉邮箱等私有字段，用于公开接口
func (u *User) Public() *User {
	if u == nil {
		return nil
	}
	return &User{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Bio:       u.Bio,
		AvatarURL: u.AvatarURL,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// Summary 转为精简信息
func (u *User) Summary() UserSummary {
	return UserSummary{ID: u.ID, Username: u.Username, Name: u.Name, AvatarURL: u.AvatarURL}
}
